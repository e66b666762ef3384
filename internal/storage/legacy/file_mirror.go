package legacy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"seenkeeper/internal/models"
	"seenkeeper/internal/providers"
)

// FileMirror keeps every flat entry in one JSON document, the same shape as a
// chrome.storage.local export. Reads accept both plain and zstd files.
type FileMirror struct {
	mu         sync.Mutex
	path       string
	compress   bool
	compressor Compressor
	logger     providers.Logger
}

var _ Mirror = (*FileMirror)(nil)

func NewFileMirror(path string, compress bool, compressor Compressor, logger providers.Logger) *FileMirror {
	return &FileMirror{
		path:       path,
		compress:   compress,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileMirror) ReadAll(ctx context.Context) (models.ViewedItems, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	items := models.ViewedItems{}
	raw, ok := doc[models.LegacyItemsKey]
	if !ok || isNull(raw) {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", models.LegacyItemsKey, err)
	}
	return items, nil
}

func (f *FileMirror) WriteAll(ctx context.Context, items models.ViewedItems) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if items == nil {
		items = models.ViewedItems{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return f.update(models.LegacyItemsKey, raw)
}

func (f *FileMirror) ReadSetting(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, false, err
	}
	raw, ok := doc[flatKey(key)]
	if !ok {
		return nil, false, nil
	}
	return []byte(raw), true, nil
}

func (f *FileMirror) WriteSetting(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("setting %s: value is not valid JSON", key)
	}
	return f.update(flatKey(key), value)
}

func (f *FileMirror) Close() error {
	f.compressor.Close()
	return nil
}

func (f *FileMirror) update(key string, raw []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	doc[key] = json.RawMessage(append([]byte(nil), raw...))
	return f.save(doc)
}

func (f *FileMirror) load() (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return doc, nil
	}

	if IsZstd(data) {
		data, err = f.compressor.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", f.path, err)
		}
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *FileMirror) save(doc map[string]json.RawMessage) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if f.compress {
		data, err = f.compressor.Compress(data)
		if err != nil {
			return err
		}
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, f.path); err != nil {
		return err
	}
	f.logger.Debugf(providers.TypeStorage, "Legacy mirror written to %s (%d bytes)", f.path, len(data))
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
