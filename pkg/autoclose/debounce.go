package autoclose

import (
	"context"
	"time"

	"github.com/yaklabco/goxaml/internal/logging"
	"github.com/yaklabco/goxaml/pkg/editor"
)

// Trigger schedules ev for processing once no newer event has arrived for
// the configured delay. Earlier events of a burst are dropped.
func (t *Transformer) Trigger(ctx context.Context, ev editor.ChangeEvent) {
	t.mu.Lock()
	// Close shuts t.closed under mu, so no wg.Add can race its Wait.
	select {
	case <-t.closed:
		t.mu.Unlock()
		return
	default:
	}

	t.remaining = t.opts.Delay
	t.pending = ev
	if t.waiting {
		t.mu.Unlock()
		return
	}
	t.waiting = true
	t.wg.Add(1)
	t.mu.Unlock()

	go t.wait(ctx)
}

func (t *Transformer) wait(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.opts.Tick)
	defer ticker.Stop()

	for {
		t.mu.Lock()
		if t.remaining <= 0 {
			ev := t.pending
			t.pending = editor.ChangeEvent{}
			t.waiting = false
			t.mu.Unlock()

			t.finish(ctx, ev)
			return
		}
		t.mu.Unlock()

		select {
		case <-ctx.Done():
			t.abandon()
			return
		case <-t.closed:
			t.abandon()
			return
		case <-ticker.C:
		}

		t.mu.Lock()
		t.remaining -= t.opts.Tick
		t.mu.Unlock()
	}
}

func (t *Transformer) abandon() {
	t.mu.Lock()
	t.pending = editor.ChangeEvent{}
	t.remaining = 0
	t.waiting = false
	t.mu.Unlock()
}

func (t *Transformer) finish(ctx context.Context, ev editor.ChangeEvent) {
	out, err := t.Process(ctx, ev)

	switch {
	case err != nil:
		t.opts.Logger.Error("auto-close failed", logging.FieldURI, out.URI, logging.FieldError, err)
	case !out.Applied():
		t.opts.Logger.Debug("auto-close skipped", logging.FieldURI, out.URI, logging.FieldReason, out.Reason.String())
	}

	if t.opts.OnOutcome != nil {
		t.opts.OnOutcome(out, err)
	}
}

// Wait blocks until no debounced pass is pending or running.
func (t *Transformer) Wait() {
	t.wg.Wait()
}

// Close drops any pending event and stops the wait loop. Later triggers
// are ignored.
func (t *Transformer) Close() {
	t.mu.Lock()
	t.closeOnce.Do(func() { close(t.closed) })
	t.mu.Unlock()

	t.Wait()
}
