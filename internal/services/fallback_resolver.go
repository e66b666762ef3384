package services

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	"seenkeeper/internal/models"
	"seenkeeper/internal/providers"
	"seenkeeper/internal/storage"
	"seenkeeper/internal/storage/legacy"
)

type Mode string

const (
	ModeStructured Mode = "structured"
	ModeFallback   Mode = "fallback"
)

// FallbackResolver routes every call to the structured store and mirrors
// successful mutations into the legacy mirror. When the structured store
// cannot serve a call, the fallback store answers instead. Calls are
// serialized so read-all/write-all mirroring never interleaves.
type FallbackResolver struct {
	mu       sync.Mutex
	primary  storage.Opener
	fallback storage.Store
	mirror   legacy.Mirror
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	mode     Mode
	// dirty is set when a mirror write failed; SyncMirror clears it.
	dirty bool
	// pending is set when the fallback accepted writes the structured
	// store lacks. It is persisted in the mirror under models.MirrorPendingKey.
	pending       pending
	pendingLoaded bool
}

// pending says how mirror contents flow back into the structured store.
type pending string

const (
	pendingNone pending = ""
	// pendingMerge upserts mirror items and settings into the structured store.
	pendingMerge pending = "merge"
	// pendingReplace is set once the fallback served a clear; the mirror
	// item set replaces the structured one.
	pendingReplace pending = "replace"
)

var _ storage.Store = (*FallbackResolver)(nil)

func NewFallbackResolver(primary storage.Opener, mirror legacy.Mirror, logger providers.Logger, metrics providers.MetricsProviderInterface) *FallbackResolver {
	metrics.SetStoreMode(string(ModeStructured))
	return &FallbackResolver{
		primary:  primary,
		fallback: legacy.NewAdapter(mirror),
		mirror:   mirror,
		logger:   logger,
		metrics:  metrics,
		mode:     ModeStructured,
	}
}

// Mode reports which store served the most recent call.
func (r *FallbackResolver) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

func (r *FallbackResolver) GetAllViewedItems(ctx context.Context) (models.ViewedItems, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items models.ViewedItems
	_, err := r.do(ctx, "get_items", func(s storage.Store) error {
		var err error
		items, err = s.GetAllViewedItems(ctx)
		return err
	})
	return items, err
}

func (r *FallbackResolver) PutViewedItem(ctx context.Context, id string, ts int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.do(ctx, "put_item", func(s storage.Store) error {
		return s.PutViewedItem(ctx, id, ts)
	})
	if s != nil {
		r.mirrorItems(ctx, s, "put_item")
	}
	return err
}

func (r *FallbackResolver) PutViewedItemsBulk(ctx context.Context, items models.ViewedItems) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.do(ctx, "put_bulk", func(s storage.Store) error {
		return s.PutViewedItemsBulk(ctx, items)
	})
	if s != nil {
		r.mirrorItems(ctx, s, "put_bulk")
	}
	return err
}

func (r *FallbackResolver) CountViewedItems(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	_, err := r.do(ctx, "count", func(s storage.Store) error {
		var err error
		n, err = s.CountViewedItems(ctx)
		return err
	})
	return n, err
}

func (r *FallbackResolver) ClearAllViewedItems(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.do(ctx, "clear", func(s storage.Store) error {
		return s.ClearAllViewedItems(ctx)
	})
	if s != nil {
		r.mirrorFailed("clear", r.mirror.WriteAll(ctx, models.ViewedItems{}))
	}
	return err
}

func (r *FallbackResolver) GetSetting(ctx context.Context, key string) ([]byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		value []byte
		found bool
	)
	_, err := r.do(ctx, "get_setting", func(s storage.Store) error {
		var err error
		value, found, err = s.GetSetting(ctx, key)
		return err
	})
	return value, found, err
}

func (r *FallbackResolver) PutSetting(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.do(ctx, "put_setting", func(s storage.Store) error {
		return s.PutSetting(ctx, key, value)
	})
	// The migration guard only has meaning inside the structured store.
	if s != nil && key != models.SettingMigrated {
		r.mirrorFailed("put_setting", r.mirror.WriteSetting(ctx, key, value))
	}
	return err
}

// do runs fn on the structured store, then on the fallback if that failed.
// The structured store is returned only when it served the call.
func (r *FallbackResolver) do(ctx context.Context, op string, fn func(storage.Store) error) (storage.Store, error) {
	s, err := r.primary.Open(ctx)
	if err == nil {
		if err = r.reconcile(ctx, s); err == nil {
			if err = fn(s); err == nil {
				r.setMode(ModeStructured)
				return s, nil
			}
		}
	}
	r.degrade(op, err)

	if err := fn(r.fallback); err != nil {
		r.logger.Errorf(providers.TypeStorage, "Fallback %s failed: %s", op, err)
		return nil, fmt.Errorf("%w: %s: %w", models.ErrStoreUnavailable, op, err)
	}
	if writeOps[op] {
		r.markPending(ctx, op)
	}
	return nil, nil
}

var writeOps = map[string]bool{"put_item": true, "put_bulk": true, "clear": true, "put_setting": true}

func (r *FallbackResolver) loadPending(ctx context.Context) {
	if r.pendingLoaded {
		return
	}
	raw, found, err := r.mirror.ReadSetting(ctx, models.MirrorPendingKey)
	if err != nil {
		r.logger.Warnf(providers.TypeStorage, "Read reconcile marker: %s", err)
		return
	}
	r.pendingLoaded = true
	r.pending = pendingNone
	if !found {
		return
	}
	var p string
	if err := json.Unmarshal(raw, &p); err != nil {
		r.logger.Warnf(providers.TypeStorage, "Invalid reconcile marker %s, merging", raw)
		p = string(pendingMerge)
	}
	r.pending = pending(p)
}

func (r *FallbackResolver) writePending(ctx context.Context, p pending) error {
	raw := []byte("null")
	if p != pendingNone {
		raw, _ = json.Marshal(string(p))
	}
	return r.mirror.WriteSetting(ctx, models.MirrorPendingKey, raw)
}

// markPending records that the mirror is ahead of the structured store. A
// resync from the structured side would now drop those writes.
func (r *FallbackResolver) markPending(ctx context.Context, op string) {
	r.loadPending(ctx)
	next := pendingMerge
	if op == "clear" || r.pending == pendingReplace {
		next = pendingReplace
	}
	r.dirty = false
	if r.pending == next {
		return
	}
	r.pending = next
	r.pendingLoaded = true
	if err := r.writePending(ctx, next); err != nil {
		r.logger.Errorf(providers.TypeStorage, "Persist reconcile marker: %s", err)
	}
}

// reconcile copies writes the fallback accepted into the structured store
// before it serves again. The marker is cleared last, so a failure part way
// is retried on the next call or the next start.
func (r *FallbackResolver) reconcile(ctx context.Context, s storage.Store) error {
	r.loadPending(ctx)
	if r.pending == pendingNone {
		return nil
	}

	items, err := r.mirror.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: read mirror: %w", err)
	}
	if r.pending == pendingReplace {
		if err := s.ClearAllViewedItems(ctx); err != nil {
			return fmt.Errorf("reconcile: %w", err)
		}
	}
	if len(items) > 0 {
		if err := s.PutViewedItemsBulk(ctx, items); err != nil {
			return fmt.Errorf("reconcile: %w", err)
		}
	}

	for _, key := range []string{models.SettingAlertSettings, models.SettingPremiumUnlocked} {
		value, found, err := r.mirror.ReadSetting(ctx, key)
		if err != nil {
			return fmt.Errorf("reconcile: read mirror: %w", err)
		}
		// Premium never goes back to locked.
		if !found || (key == models.SettingPremiumUnlocked && !models.IsTrue(value)) {
			continue
		}
		if err := s.PutSetting(ctx, key, value); err != nil {
			return fmt.Errorf("reconcile: %w", err)
		}
	}

	if err := r.writePending(ctx, pendingNone); err != nil {
		return fmt.Errorf("reconcile: clear marker: %w", err)
	}
	r.logger.Infof(providers.TypeStorage, "Reconciled %d legacy mirror items into structured store (%s)", len(items), r.pending)
	r.pending = pendingNone
	// The structured store may hold ids the mirror never saw.
	r.dirty = true
	return nil
}

func (r *FallbackResolver) degrade(op string, err error) {
	r.metrics.IncFallback(op)
	if r.mode != ModeFallback {
		r.logger.Warnf(providers.TypeStorage, "Structured store failed on %s, serving from legacy mirror: %s", op, err)
	} else {
		r.logger.Debugf(providers.TypeStorage, "Fallback %s: %s", op, err)
	}
	r.setMode(ModeFallback)
}

func (r *FallbackResolver) setMode(mode Mode) {
	if r.mode == mode {
		return
	}
	r.mode = mode
	r.metrics.SetStoreMode(string(mode))
}

func (r *FallbackResolver) mirrorItems(ctx context.Context, s storage.Store, op string) {
	items, err := s.GetAllViewedItems(ctx)
	if err != nil {
		r.mirrorFailed(op, err)
		return
	}
	r.mirrorFailed(op, r.mirror.WriteAll(ctx, items))
}

func (r *FallbackResolver) mirrorFailed(op string, err error) {
	if err == nil {
		return
	}
	err = fmt.Errorf("%w: %s: %w", models.ErrMirrorWriteFailed, op, err)
	r.dirty = true
	r.metrics.IncMirrorWriteFailures(op)
	r.logger.Warnf(providers.TypeStorage, "%s", err)
}

// SyncMirror first folds pending fallback writes into the structured store,
// then rewrites the mirror from it when an earlier mirror write failed. It is
// a no-op while the structured store is down.
func (r *FallbackResolver) SyncMirror(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.primary.Open(ctx)
	if err != nil {
		return false, nil
	}
	if err := r.reconcile(ctx, s); err != nil {
		return false, err
	}
	if !r.dirty {
		return false, nil
	}

	items, err := s.GetAllViewedItems(ctx)
	if err != nil {
		return false, err
	}
	if err := r.mirror.WriteAll(ctx, items); err != nil {
		return false, fmt.Errorf("%w: sync: %w", models.ErrMirrorWriteFailed, err)
	}
	for _, key := range []string{models.SettingAlertSettings, models.SettingPremiumUnlocked} {
		value, found, err := s.GetSetting(ctx, key)
		if err != nil {
			return false, err
		}
		if !found {
			continue
		}
		if err := r.mirror.WriteSetting(ctx, key, value); err != nil {
			return false, fmt.Errorf("%w: sync: %w", models.ErrMirrorWriteFailed, err)
		}
	}
	r.dirty = false
	return true, nil
}
