package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Contact form quota: at most ContactMax submissions per client per ContactWindow.
const (
	ContactMax    = 5
	ContactWindow = 15 * time.Minute
)

// Limiter admits or rejects one event for a client key.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Window is an in-memory sliding-window limiter. State lives for the
// process lifetime only; every replica keeps its own quota.
type Window struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time
}

func NewWindow(max int, window time.Duration) *Window {
	return &Window{
		max:    max,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// NewContactWindow returns the limiter used for the contact form.
func NewContactWindow() *Window { return NewWindow(ContactMax, ContactWindow) }

func (w *Window) Allow(_ context.Context, key string) bool {
	now := w.now()
	cutoff := now.Add(-w.window)

	w.mu.Lock()
	defer w.mu.Unlock()

	kept := prune(w.hits[key], cutoff)
	if len(kept) >= w.max {
		w.hits[key] = kept
		return false
	}
	w.hits[key] = append(kept, now)
	return true
}

// prune drops instants strictly older than cutoff. Instants are stored in
// call order, so the expired ones form a prefix.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && ts[i].Before(cutoff) {
		i++
	}
	if i == 0 {
		return ts
	}
	return append(ts[:0:0], ts[i:]...)
}

// Sweep removes keys whose newest instant has left the window.
func (w *Window) Sweep() int {
	cutoff := w.now().Add(-w.window)
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for k, ts := range w.hits {
		if len(ts) == 0 || ts[len(ts)-1].Before(cutoff) {
			delete(w.hits, k)
			n++
		}
	}
	return n
}

// StartJanitor sweeps idle keys every interval until ctx is cancelled.
func (w *Window) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				w.Sweep()
			}
		}
	}()
}
