package keymap

import (
	"strings"
)

// DefaultConditionEvaluator evaluates simple condition expressions against
// a lookup context.
//
// Supported forms, joined with "&&":
//
//	textFocus          condition is true
//	!readonly          condition is false
//	lang == go         variable equals value
//	lang != go         variable differs from value
type DefaultConditionEvaluator struct{}

// Evaluate evaluates a condition expression. Empty expressions are true;
// malformed terms evaluate to false.
func (e *DefaultConditionEvaluator) Evaluate(condition string, ctx *LookupContext) bool {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return true
	}
	if ctx == nil {
		ctx = NewLookupContext()
	}

	for _, term := range strings.Split(condition, "&&") {
		if !e.evaluateTerm(strings.TrimSpace(term), ctx) {
			return false
		}
	}
	return true
}

func (e *DefaultConditionEvaluator) evaluateTerm(term string, ctx *LookupContext) bool {
	if term == "" {
		return false
	}

	if idx := strings.Index(term, "!="); idx >= 0 {
		name := strings.TrimSpace(term[:idx])
		value := strings.TrimSpace(term[idx+2:])
		return ctx.Variables[name] != value
	}

	if idx := strings.Index(term, "=="); idx >= 0 {
		name := strings.TrimSpace(term[:idx])
		value := strings.TrimSpace(term[idx+2:])
		return ctx.Variables[name] == value
	}

	if negated, ok := strings.CutPrefix(term, "!"); ok {
		return !ctx.Conditions[strings.TrimSpace(negated)]
	}

	return ctx.Conditions[term]
}
