package record

import (
	"sync"
	"time"

	"github.com/dshills/keytrap/internal/dispatch"
	"github.com/dshills/keytrap/internal/key"
)

// Recorder records key sequences. It wraps the library's normal key
// handling: events reach the wrapped handler only while no session is
// active.
type Recorder struct {
	mu sync.Mutex

	// inner is the wrapped handler receiving pass-through events.
	inner dispatch.Handler

	// sess is the active session, nil while idle.
	sess *session

	// combo accumulates the keys of the combo in progress.
	combo *key.Combo

	// comboHasChar is true once the combo holds a character key.
	// A second character key on key-down splits the combo.
	comboHasChar bool

	// sequence collects finished combos.
	sequence *key.Sequence

	// timer is the idle debounce timer; timerGen invalidates stale
	// timer callbacks after a cancel or reset.
	timer    *time.Timer
	timerGen uint64

	// lastDispatched is the last live-update signature, cleared on
	// every key-up so repeated key-downs of an unchanged combo stay
	// quiet.
	lastDispatched string
}

// New creates a recorder wrapping the given handler.
// inner may be nil, in which case idle events are dropped.
func New(inner dispatch.Handler) *Recorder {
	return &Recorder{
		inner:    inner,
		combo:    key.NewCombo(),
		sequence: key.NewSequence(),
	}
}

// Record starts a recording session and returns its ID. Any unfinished
// session is discarded first. onComplete may be nil; the recording then
// runs but its result is dropped.
func (r *Recorder) Record(onComplete CompleteFunc, opts ...Option) SessionID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resetLocked()
	r.sess = newSession(onComplete, opts)
	return r.sess.id
}

// Stop aborts the active session. The completion callback is never
// invoked and the partial recording is discarded. A no-op while idle.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resetLocked()
}

// Recording returns true while a session is active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sess != nil
}

// ActiveSession returns the ID of the active session, or NoSession.
func (r *Recorder) ActiveSession() SessionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sess == nil {
		return NoSession
	}
	return r.sess.id
}

// HandleKey processes one key event. Implements dispatch.Handler.
// While idle the event is forwarded to the wrapped handler; while
// recording it is consumed.
func (r *Recorder) HandleKey(event key.Event) {
	r.mu.Lock()

	if r.sess == nil {
		inner := r.inner
		r.mu.Unlock()
		if inner != nil {
			inner.HandleKey(event)
		}
		return
	}

	var finish func()
	var live LiveUpdateFunc
	var liveCombo string

	if event.Pressed {
		// A second character key without an intervening release
		// closes the combo first; the new key starts the next one.
		// Modifiers arriving after a character do not split.
		if key.IsCharacter(event.Key) && r.comboHasChar {
			finish = r.finalizeComboLocked()
		}

		// finalize may have finished a single-combo recording
		if r.sess != nil {
			for _, m := range event.Modifiers {
				r.addKeyLocked(m)
			}
			r.addKeyLocked(event.Key)

			if sig := event.Signature(); sig != r.lastDispatched {
				r.lastDispatched = sig
				if r.sess.onLive != nil {
					live = r.sess.onLive
					liveCombo = sig
				}
			}
		}
	} else {
		// A release ends the combo; the next key-down starts fresh.
		r.lastDispatched = ""
		if !r.combo.IsEmpty() {
			finish = r.finalizeComboLocked()
		}
	}

	r.mu.Unlock()

	// Callbacks run outside the lock so they may call Record or Stop.
	if live != nil {
		live(liveCombo)
	}
	if finish != nil {
		finish()
	}
}

// addKeyLocked adds an identifier to the combo, set semantics.
// Caller must hold the lock.
func (r *Recorder) addKeyLocked(id string) {
	if r.combo.Add(id) && key.IsCharacter(id) {
		r.comboHasChar = true
	}
}

// finalizeComboLocked appends the combo in progress to the sequence and
// restarts the debounce policy. In single-combo mode it finishes the
// recording instead, returning the completion thunk to invoke after the
// lock is released. Caller must hold the lock.
func (r *Recorder) finalizeComboLocked() func() {
	if r.combo.IsEmpty() {
		return nil
	}

	r.sequence.Add(r.combo.Clone())
	r.combo.Clear()
	r.comboHasChar = false

	if r.sess.recordSequence {
		r.armTimerLocked()
		return nil
	}
	return r.finishLocked()
}

// armTimerLocked cancels any pending idle timer and arms a new one.
// Caller must hold the lock.
func (r *Recorder) armTimerLocked() {
	r.stopTimerLocked()

	gen := r.timerGen
	r.timer = time.AfterFunc(r.sess.idleTimeout, func() {
		r.handleIdleTimeout(gen)
	})
}

// stopTimerLocked cancels the idle timer and invalidates in-flight
// callbacks. Caller must hold the lock.
func (r *Recorder) stopTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.timerGen++
}

// handleIdleTimeout fires when the idle window elapses with no new
// combo.
func (r *Recorder) handleIdleTimeout(gen uint64) {
	r.mu.Lock()
	if r.sess == nil || gen != r.timerGen {
		r.mu.Unlock()
		return
	}
	finish := r.finishLocked()
	r.mu.Unlock()

	if finish != nil {
		finish()
	}
}

// finishLocked captures the completion callback and recorded sequence,
// resets all session state, and returns a thunk that normalizes the
// sequence and invokes the callback. State is reset before the callback
// runs so the callback can start a new recording immediately.
// Caller must hold the lock.
func (r *Recorder) finishLocked() func() {
	onComplete := r.sess.onComplete
	recorded := r.sequence

	r.resetLocked()

	if onComplete == nil {
		return nil
	}
	return func() {
		recorded.Normalize()
		onComplete(recorded.Strings())
	}
}

// resetLocked clears all session state. Caller must hold the lock.
func (r *Recorder) resetLocked() {
	r.stopTimerLocked()
	r.sess = nil
	r.combo = key.NewCombo()
	r.comboHasChar = false
	r.sequence = key.NewSequence()
	r.lastDispatched = ""
}
