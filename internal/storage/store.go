package storage

import (
	"context"

	"seenkeeper/internal/models"
)

// Store is the read/write contract shared by the structured store, the legacy
// adapter and the fallback resolver that routes between them.
// Setting values are raw JSON documents.
type Store interface {
	GetAllViewedItems(ctx context.Context) (models.ViewedItems, error)
	PutViewedItem(ctx context.Context, id string, ts int64) error
	PutViewedItemsBulk(ctx context.Context, items models.ViewedItems) error
	CountViewedItems(ctx context.Context) (int, error)
	ClearAllViewedItems(ctx context.Context) error
	GetSetting(ctx context.Context, key string) ([]byte, bool, error)
	PutSetting(ctx context.Context, key string, value []byte) error
}

// Opener hands out the primary store, opening it on first use.
type Opener interface {
	Open(ctx context.Context) (Store, error)
}
