package structured

import (
	"context"
	"fmt"
	"sync"
	"time"

	"seenkeeper/internal/models"
	"seenkeeper/internal/providers"
	"seenkeeper/internal/storage"
	"seenkeeper/internal/structures"
)

type State int

const (
	StateUninitialized State = iota
	StateOpening
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateOpening:
		return "opening"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Opener owns the lifetime of the structured store handle. The first
// successful Open is cached and returned to every later caller. A failed open
// is sticky; with a positive reopenInterval it is retried lazily, at most once
// per interval. Callers arriving while an open is in flight wait for it.
type Opener struct {
	mu             sync.Mutex
	path           string
	reopenInterval time.Duration
	logger         providers.Logger

	state    State
	store    *Store
	lastErr  error
	failedAt time.Time
	opening  chan struct{}
	closed   bool

	now    func() time.Time
	openFn func(ctx context.Context, path string) (*Store, error)
}

func NewOpener(conf *structures.Config, logger providers.Logger) *Opener {
	return &Opener{
		path:           conf.Structured.Path,
		reopenInterval: conf.Structured.ReopenInterval,
		logger:         logger,
		now:            time.Now,
		openFn:         Open,
	}
}

func (o *Opener) Open(ctx context.Context) (storage.Store, error) {
	o.mu.Lock()
	for o.state == StateOpening {
		done := o.opening
		o.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: open: %w", models.ErrStoreUnavailable, ctx.Err())
		}
		o.mu.Lock()
	}

	switch o.state {
	case StateReady:
		store := o.store
		o.mu.Unlock()
		return store, nil
	case StateFailed:
		if o.closed || o.reopenInterval <= 0 || o.now().Sub(o.failedAt) < o.reopenInterval {
			err := o.lastErr
			o.mu.Unlock()
			return nil, err
		}
		o.logger.Infof(providers.TypeStorage, "Retrying structured store at %s", o.path)
	}

	o.state = StateOpening
	done := make(chan struct{})
	o.opening = done
	o.mu.Unlock()

	store, err := o.openFn(ctx, o.path)

	o.mu.Lock()
	defer o.mu.Unlock()
	defer close(done)
	o.opening = nil

	if err == nil && o.closed {
		store.Close()
		err = o.lastErr
	}
	if err != nil {
		if !o.closed {
			o.failedAt = o.now()
			o.lastErr = err
			o.logger.Errorf(providers.TypeStorage, "Structured store unavailable: %s", err)
		}
		o.state = StateFailed
		return nil, err
	}

	o.state = StateReady
	o.store = store
	o.lastErr = nil
	o.logger.Infof(providers.TypeStorage, "Structured store ready at %s", o.path)
	return store, nil
}

func (o *Opener) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Close releases the cached handle. Later Open calls fail; the process is
// expected to be shutting down.
func (o *Opener) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.closed = true
	o.lastErr = fmt.Errorf("%w: store closed", models.ErrStoreUnavailable)
	// An in-flight open sees closed and discards its handle.
	if o.state != StateOpening {
		o.state = StateFailed
	}
	if o.store == nil {
		return nil
	}
	err := o.store.Close()
	o.store = nil
	return err
}
