package legacy

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"seenkeeper/internal/models"
	"seenkeeper/internal/providers"
)

// BadgerMirror stores each flat entry as one badger key holding JSON.
type BadgerMirror struct {
	db     *badger.DB
	logger providers.Logger
}

var _ Mirror = (*BadgerMirror)(nil)

// badgerLogger routes badger's internal messages into the storage log.
type badgerLogger struct {
	logger providers.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(providers.TypeStorage, "badger: "+format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf(providers.TypeStorage, "badger: "+format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debugf(providers.TypeStorage, "badger: "+format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(providers.TypeStorage, "badger: "+format, args...)
}

// OpenBadgerMirror opens a badger directory at path. An empty path opens an
// in-memory database.
func OpenBadgerMirror(path string, logger providers.Logger) (*BadgerMirror, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o750); err != nil {
			return nil, fmt.Errorf("create legacy directory %s: %w", path, err)
		}
		opts = badger.DefaultOptions(path).WithSyncWrites(true)
	}
	opts = opts.WithNumVersionsToKeep(1).WithLogger(&badgerLogger{logger: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &BadgerMirror{db: db, logger: logger}, nil
}

func (b *BadgerMirror) ReadAll(ctx context.Context) (models.ViewedItems, error) {
	raw, found, err := b.get(ctx, models.LegacyItemsKey)
	if err != nil {
		return nil, err
	}
	items := models.ViewedItems{}
	if !found || isNull(raw) {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", models.LegacyItemsKey, err)
	}
	return items, nil
}

func (b *BadgerMirror) WriteAll(ctx context.Context, items models.ViewedItems) error {
	if items == nil {
		items = models.ViewedItems{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return b.set(ctx, models.LegacyItemsKey, raw)
}

func (b *BadgerMirror) ReadSetting(ctx context.Context, key string) ([]byte, bool, error) {
	return b.get(ctx, flatKey(key))
}

func (b *BadgerMirror) WriteSetting(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("setting %s: value is not valid JSON", key)
	}
	return b.set(ctx, flatKey(key), value)
}

func (b *BadgerMirror) Close() error {
	return b.db.Close()
}

func (b *BadgerMirror) get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

func (b *BadgerMirror) set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
