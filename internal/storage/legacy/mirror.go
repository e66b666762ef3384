package legacy

import (
	"context"
	"fmt"

	"seenkeeper/internal/models"
	"seenkeeper/internal/providers"
	"seenkeeper/internal/structures"
)

// Mirror is the flat key-value store the extension used before the
// structured store existed. Values are whole JSON documents replaced on every
// write.
type Mirror interface {
	ReadAll(ctx context.Context) (models.ViewedItems, error)
	WriteAll(ctx context.Context, items models.ViewedItems) error
	ReadSetting(ctx context.Context, key string) ([]byte, bool, error)
	WriteSetting(ctx context.Context, key string, value []byte) error
	Close() error
}

// NewMirror opens the backend selected by legacy.driver.
func NewMirror(conf *structures.Config, logger providers.Logger) (Mirror, error) {
	switch conf.Legacy.Driver {
	case "", DriverFile:
		compressor, err := NewZstdCompressor()
		if err != nil {
			return nil, err
		}
		return NewFileMirror(conf.Legacy.Path, conf.Legacy.Compress, compressor, logger), nil
	case DriverBadger:
		return OpenBadgerMirror(conf.Legacy.Path, logger)
	}
	return nil, fmt.Errorf("unknown legacy driver %q", conf.Legacy.Driver)
}

const (
	DriverFile   = "file"
	DriverBadger = "badger"
)

// flatKey maps a logical setting key to the key the extension stored it under.
// Unknown keys are stored as-is.
func flatKey(key string) string {
	if k, ok := models.LegacySettingKey(key); ok {
		return k
	}
	return key
}
