package keytrap

import (
	"testing"
	"time"
)

func newTestKeytrap(t *testing.T) *Keytrap {
	t.Helper()
	kt := New(Config{
		SequenceTimeout: 40 * time.Millisecond,
		ActionBuffer:    16,
	})
	t.Cleanup(kt.Close)
	return kt
}

func tap(kt *Keytrap, keyID string, modifiers ...string) {
	kt.HandleKey(NewPress(keyID, modifiers...))
	kt.HandleKey(NewRelease(keyID, modifiers...))
}

func expectAction(t *testing.T, kt *Keytrap, name string) {
	t.Helper()
	select {
	case action := <-kt.Actions():
		if action.Name != name {
			t.Errorf("action.Name = %q, want %q", action.Name, name)
		}
	case <-time.After(500 * time.Millisecond):
		t.Errorf("no action received, want %q", name)
	}
}

func expectNoAction(t *testing.T, kt *Keytrap) {
	t.Helper()
	select {
	case action := <-kt.Actions():
		t.Errorf("unexpected action %q", action.Name)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBindAndDispatch(t *testing.T) {
	kt := newTestKeytrap(t)

	if err := kt.Bind("ctrl+s", "editor.save"); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	tap(kt, "s", "ctrl")
	expectAction(t, kt, "editor.save")
}

func TestBindSequence(t *testing.T) {
	kt := newTestKeytrap(t)

	if err := kt.Bind("g g", "cursor.top"); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	tap(kt, "g")
	tap(kt, "g")
	expectAction(t, kt, "cursor.top")
}

func TestBindInvalidSpec(t *testing.T) {
	kt := newTestKeytrap(t)

	if err := kt.Bind("bogus+x", "nope"); err == nil {
		t.Error("Bind() error = nil, want error for unknown modifier")
	}

	// Earlier bindings keep working after a failed Bind.
	if err := kt.Bind("ctrl+s", "editor.save"); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	tap(kt, "s", "ctrl")
	expectAction(t, kt, "editor.save")
}

func TestRegisterKeymap(t *testing.T) {
	kt := newTestKeytrap(t)

	km := NewKeymap("motions").
		Add("h", "cursor.left").
		Add("l", "cursor.right")
	if err := kt.RegisterKeymap(km); err != nil {
		t.Fatalf("RegisterKeymap() error = %v", err)
	}

	tap(kt, "l")
	expectAction(t, kt, "cursor.right")
}

func TestRecordCapturesSequence(t *testing.T) {
	kt := newTestKeytrap(t)

	done := make(chan []string, 1)
	kt.Record(func(seq []string) { done <- seq }, WithIdleTimeout(30*time.Millisecond))

	if !kt.Recording() {
		t.Error("Recording() = false, want true")
	}

	tap(kt, "s", "ctrl")

	select {
	case seq := <-done:
		if len(seq) != 1 || seq[0] != "ctrl+s" {
			t.Errorf("recorded sequence = %v, want [ctrl+s]", seq)
		}
	case <-time.After(time.Second):
		t.Fatal("recording did not complete")
	}

	if kt.Recording() {
		t.Error("Recording() = true after completion, want false")
	}
}

func TestRecordingSuppressesDispatch(t *testing.T) {
	kt := newTestKeytrap(t)

	if err := kt.Bind("ctrl+s", "editor.save"); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	done := make(chan []string, 1)
	kt.Record(func(seq []string) { done <- seq }, WithIdleTimeout(30*time.Millisecond))

	tap(kt, "s", "ctrl")
	<-done

	// The bound combo was captured, not dispatched.
	expectNoAction(t, kt)

	// Dispatch resumes after the session ends.
	tap(kt, "s", "ctrl")
	expectAction(t, kt, "editor.save")
}

func TestStopRecord(t *testing.T) {
	kt := newTestKeytrap(t)

	called := false
	kt.Record(func([]string) { called = true }, WithIdleTimeout(time.Second))

	tap(kt, "a")
	kt.StopRecord()

	if kt.Recording() {
		t.Error("Recording() = true after StopRecord, want false")
	}
	if called {
		t.Error("completion callback invoked after StopRecord")
	}
}

func TestLiveUpdate(t *testing.T) {
	kt := newTestKeytrap(t)

	updates := make(chan string, 8)
	done := make(chan []string, 1)
	kt.Record(
		func(seq []string) { done <- seq },
		WithLiveUpdate(func(combo string) { updates <- combo }),
		WithIdleTimeout(30*time.Millisecond),
	)

	kt.HandleKey(NewPress("a", "ctrl"))
	kt.HandleKey(NewRelease("a", "ctrl"))
	<-done

	select {
	case combo := <-updates:
		if combo != "ctrl+a" {
			t.Errorf("live update = %q, want %q", combo, "ctrl+a")
		}
	default:
		t.Error("no live update received")
	}
}
