// Package record implements key-sequence recording for keytrap.
//
// A Recorder wraps the library's normal key handling. While no recording
// session is active, every key event passes through to the wrapped
// handler untouched. While a session is active, events are consumed by
// the recorder instead: keys held together accumulate into a combo, a
// release closes the combo, and combos separated by less than the idle
// timeout collect into a sequence. When the idle window elapses with no
// new combo, the sequence is normalized and delivered to the session's
// completion callback.
//
// # Usage
//
//	rec := record.New(dispatcher)
//	rec.Record(func(seq []string) {
//	    fmt.Println("recorded:", seq) // e.g. ["ctrl+shift+a", "b"]
//	}, record.WithLiveUpdate(func(combo string) {
//	    fmt.Println("so far:", combo)
//	}))
//
// Combos in the completed sequence are canonical: modifier keys sort
// before character keys, alphabetically within each class, joined with
// "+". The live-update callback instead reports combos as typed, and
// fires at most once per distinct combo between releases, so
// auto-repeated key-down events stay quiet.
//
// A Recorder runs one session at a time; starting a new session discards
// any unfinished state, and Stop abandons the session without invoking
// any callback. All state is owned by the Recorder instance, so
// independent recorders can coexist.
package record
