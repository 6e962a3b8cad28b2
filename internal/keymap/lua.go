package keymap

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// LuaConditionEvaluator evaluates "when" conditions written as Lua
// expressions. Condition values from the lookup context are exposed as
// Lua globals: booleans from Conditions, strings from Variables.
//
// Examples: "textFocus", "not readonly", "lang == 'go' and textFocus"
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes
// evaluations on the shared state.
type LuaConditionEvaluator struct {
	mu    sync.Mutex
	L     *lua.LState
	bound []string

	// ErrorHandler receives evaluation errors. Optional.
	ErrorHandler func(condition string, err error)
}

// NewLuaConditionEvaluator creates an evaluator with a fresh Lua state.
func NewLuaConditionEvaluator() *LuaConditionEvaluator {
	return &LuaConditionEvaluator{
		L: lua.NewState(),
	}
}

// Close releases the underlying Lua state.
func (e *LuaConditionEvaluator) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.L != nil {
		e.L.Close()
		e.L = nil
	}
}

// Evaluate evaluates a Lua condition expression. Empty expressions are
// true; expressions that fail to compile or run evaluate to false.
func (e *LuaConditionEvaluator) Evaluate(condition string, ctx *LookupContext) bool {
	if condition == "" {
		return true
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.L == nil {
		return false
	}

	e.bindContext(ctx)

	if err := e.L.DoString("return (" + condition + ")"); err != nil {
		if e.ErrorHandler != nil {
			e.ErrorHandler(condition, fmt.Errorf("evaluating condition: %w", err))
		}
		return false
	}

	result := e.L.Get(-1)
	e.L.Pop(1)
	return lua.LVAsBool(result)
}

// bindContext publishes the lookup context as Lua globals, unsetting
// globals left over from the previous evaluation.
func (e *LuaConditionEvaluator) bindContext(ctx *LookupContext) {
	for _, name := range e.bound {
		e.L.SetGlobal(name, lua.LNil)
	}
	e.bound = e.bound[:0]

	if ctx == nil {
		return
	}
	for name, value := range ctx.Conditions {
		e.L.SetGlobal(name, lua.LBool(value))
		e.bound = append(e.bound, name)
	}
	for name, value := range ctx.Variables {
		e.L.SetGlobal(name, lua.LString(value))
		e.bound = append(e.bound, name)
	}
}
