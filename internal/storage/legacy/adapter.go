package legacy

import (
	"context"

	"seenkeeper/internal/models"
	"seenkeeper/internal/storage"
)

// Adapter serves the storage.Store contract from a Mirror. Item mutations are
// read-all, modify, write-all; callers serialize them.
type Adapter struct {
	mirror Mirror
}

var _ storage.Store = (*Adapter)(nil)

func NewAdapter(mirror Mirror) *Adapter {
	return &Adapter{mirror: mirror}
}

func (a *Adapter) GetAllViewedItems(ctx context.Context) (models.ViewedItems, error) {
	return a.mirror.ReadAll(ctx)
}

func (a *Adapter) PutViewedItem(ctx context.Context, id string, ts int64) error {
	return a.PutViewedItemsBulk(ctx, models.ViewedItems{id: ts})
}

func (a *Adapter) PutViewedItemsBulk(ctx context.Context, items models.ViewedItems) error {
	current, err := a.mirror.ReadAll(ctx)
	if err != nil {
		return err
	}
	for id, ts := range items {
		current[id] = ts
	}
	return a.mirror.WriteAll(ctx, current)
}

func (a *Adapter) CountViewedItems(ctx context.Context) (int, error) {
	items, err := a.mirror.ReadAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (a *Adapter) ClearAllViewedItems(ctx context.Context) error {
	return a.mirror.WriteAll(ctx, models.ViewedItems{})
}

func (a *Adapter) GetSetting(ctx context.Context, key string) ([]byte, bool, error) {
	return a.mirror.ReadSetting(ctx, key)
}

func (a *Adapter) PutSetting(ctx context.Context, key string, value []byte) error {
	return a.mirror.WriteSetting(ctx, key, value)
}
