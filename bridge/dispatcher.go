package bridge

import (
	"context"
	"sync"

	"voz/log"
)

// Dispatcher serializes every text-edit operation onto a single run loop.
// Producer connections enqueue from arbitrary goroutines; Run is the only
// place the active target is read or mutated, so the target never sees
// concurrent calls. Enqueueing never blocks and never reorders commands
// from the same producer.
//
// The active target is an unowned slot: the input-method framework creates
// and destroys engines on focus changes, the dispatcher just tracks
// whichever one is current. Commands that arrive while the slot is empty
// are dropped, not queued: a stale edit applied to the next focused
// window would be worse than a lost one.
type Dispatcher struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	target Target
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{wake: make(chan struct{}, 1)}
}

// enqueue appends fn to the FIFO and nudges the run loop.
func (d *Dispatcher) enqueue(fn func()) {
	d.mu.Lock()
	d.queue = append(d.queue, fn)
	d.mu.Unlock()
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Dispatch schedules cmd for execution on the run loop.
func (d *Dispatcher) Dispatch(cmd Command) {
	d.enqueue(func() { d.apply(cmd) })
}

// SetTarget installs t as the active target. Runs on the loop like any
// other command, so it is ordered with respect to in-flight edits.
func (d *Dispatcher) SetTarget(t Target) {
	d.enqueue(func() {
		d.target = t
		log.Info("target acquired")
	})
}

// ClearTarget releases t if it is still the active target. A no-op when
// the slot has already been replaced by a newer engine.
func (d *Dispatcher) ClearTarget(t Target) {
	d.enqueue(func() {
		if d.target == t {
			d.target = nil
			log.Info("target lost")
		}
	})
}

// Run drains the queue until ctx is cancelled. Pending commands at
// cancellation are abandoned; nothing in the protocol expects delivery
// after shutdown.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		d.mu.Lock()
		batch := d.queue
		d.queue = nil
		d.mu.Unlock()

		for _, fn := range batch {
			fn()
		}

		select {
		case <-ctx.Done():
			return
		case <-d.wake:
		}
	}
}

func (d *Dispatcher) apply(cmd Command) {
	t := d.target
	if t == nil {
		log.Debugf("no target, dropping %s", cmd.Op)
		return
	}

	switch cmd.Op {
	case OpPreview:
		d.preview(t, cmd.Text)
	case OpCommit:
		d.commit(t, cmd.Text)
	case OpDelete:
		if cmd.Count > 0 {
			t.DeleteBeforeCursor(cmd.Count)
		}
	case OpReplace:
		if cmd.Count <= 0 {
			// Nothing to delete, identical to a plain commit.
			d.commit(t, cmd.Text)
			return
		}
		t.DeleteBeforeCursor(cmd.Count)
		if cmd.Text != "" {
			t.Commit(cmd.Text)
		}
	}
}

func (d *Dispatcher) preview(t Target, text string) {
	if text == "" {
		t.HidePreview()
		return
	}
	// Terminals can't mark the preview themselves — underline it for them.
	t.ShowPreview(text, !t.Capabilities().SurroundingText)
}

// commit clears the preview before committing. Producers rely on this
// pair being emitted in order and never interleaved: a commit must never
// leave a stale preview behind.
func (d *Dispatcher) commit(t Target, text string) {
	t.HidePreview()
	t.Commit(text)
}
