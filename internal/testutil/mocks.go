package testutil

import (
	"context"
	"errors"
	"fmt"
	"seenkeeper/internal/models"
	"seenkeeper/internal/providers"
	"seenkeeper/internal/storage"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu             sync.Mutex
	Fallbacks      map[string]int
	MirrorFailures map[string]int
	MigrationRuns  map[string]int
	StoreMode      string
	ViewedItems    int
	CacheHits      int
	CacheMisses    int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Fallbacks:      make(map[string]int),
		MirrorFailures: make(map[string]int),
		MigrationRuns:  make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObserveMigrationDuration(_ time.Duration)         {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncFallback(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fallbacks[op]++
}
func (m *MockMetrics) IncMirrorWriteFailures(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MirrorFailures[op]++
}
func (m *MockMetrics) IncMigrationRuns(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MigrationRuns[result]++
}
func (m *MockMetrics) SetStoreMode(mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoreMode = mode
}
func (m *MockMetrics) SetViewedItemsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ViewedItems = count
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu            sync.Mutex
	Data          map[string][]byte
	Invalidations int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidations++
	m.Data = make(map[string][]byte)
}

// MockCompressor implements legacy.Compressor with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

var ErrInjected = errors.New("injected failure")

// MemoryMirror implements legacy.Mirror in memory. Setting a Fail* flag makes
// the matching call return ErrInjected.
type MemoryMirror struct {
	mu         sync.Mutex
	Items      models.ViewedItems
	Settings   map[string][]byte
	WriteCalls int

	FailRead  bool
	FailWrite bool
}

func NewMemoryMirror() *MemoryMirror {
	return &MemoryMirror{Settings: make(map[string][]byte)}
}

func (m *MemoryMirror) ReadAll(_ context.Context) (models.ViewedItems, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRead {
		return nil, ErrInjected
	}
	if m.Items == nil {
		return models.ViewedItems{}, nil
	}
	return m.Items.Clone(), nil
}

func (m *MemoryMirror) WriteAll(_ context.Context, items models.ViewedItems) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCalls++
	if m.FailWrite {
		return ErrInjected
	}
	m.Items = items.Clone()
	return nil
}

func (m *MemoryMirror) ReadSetting(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRead {
		return nil, false, ErrInjected
	}
	v, ok := m.Settings[key]
	return v, ok, nil
}

func (m *MemoryMirror) WriteSetting(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCalls++
	if m.FailWrite {
		return ErrInjected
	}
	m.Settings[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryMirror) Close() error { return nil }

// MockStore is an in-memory storage.Store. While Fail is set every call
// returns an error wrapping models.ErrStoreUnavailable.
type MockStore struct {
	mu       sync.Mutex
	Items    models.ViewedItems
	Settings map[string][]byte
	Fail     bool
	Calls    int
}

var _ storage.Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{Items: models.ViewedItems{}, Settings: make(map[string][]byte)}
}

func (m *MockStore) begin(op string) error {
	m.mu.Lock()
	m.Calls++
	if m.Fail {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s: %w", models.ErrStoreUnavailable, op, ErrInjected)
	}
	return nil
}

func (m *MockStore) GetAllViewedItems(_ context.Context) (models.ViewedItems, error) {
	if err := m.begin("get"); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()
	return m.Items.Clone(), nil
}

func (m *MockStore) PutViewedItem(_ context.Context, id string, ts int64) error {
	if err := m.begin("put"); err != nil {
		return err
	}
	defer m.mu.Unlock()
	m.Items[id] = ts
	return nil
}

func (m *MockStore) PutViewedItemsBulk(_ context.Context, items models.ViewedItems) error {
	if err := m.begin("bulk"); err != nil {
		return err
	}
	defer m.mu.Unlock()
	for k, v := range items {
		m.Items[k] = v
	}
	return nil
}

func (m *MockStore) CountViewedItems(_ context.Context) (int, error) {
	if err := m.begin("count"); err != nil {
		return 0, err
	}
	defer m.mu.Unlock()
	return len(m.Items), nil
}

func (m *MockStore) ClearAllViewedItems(_ context.Context) error {
	if err := m.begin("clear"); err != nil {
		return err
	}
	defer m.mu.Unlock()
	m.Items = models.ViewedItems{}
	return nil
}

func (m *MockStore) GetSetting(_ context.Context, key string) ([]byte, bool, error) {
	if err := m.begin("get setting"); err != nil {
		return nil, false, err
	}
	defer m.mu.Unlock()
	v, ok := m.Settings[key]
	return v, ok, nil
}

func (m *MockStore) PutSetting(_ context.Context, key string, value []byte) error {
	if err := m.begin("put setting"); err != nil {
		return err
	}
	defer m.mu.Unlock()
	m.Settings[key] = append([]byte(nil), value...)
	return nil
}

// MockOpener hands out Store, or Err when set, and counts Open calls.
type MockOpener struct {
	mu    sync.Mutex
	Store storage.Store
	Err   error
	Calls int
}

func (m *MockOpener) Open(_ context.Context) (storage.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Store, nil
}
