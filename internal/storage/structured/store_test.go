package structured

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"seenkeeper/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesDatabaseAndParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "seen.db")

	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seen.db")

	s1, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s1.PutViewedItem(ctx, "m1", 10))
	require.NoError(t, s1.Close())

	s2, err := Open(ctx, path)
	require.NoError(t, err)
	defer s2.Close()

	items, err := s2.GetAllViewedItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ViewedItems{"m1": 10}, items)

	var applied int
	require.NoError(t, s2.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 2, applied)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}

func TestOpen_ParentIsFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := Open(context.Background(), filepath.Join(blocker, "seen.db"))
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}

func TestPutViewedItem_Overwrites(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.PutViewedItem(ctx, "X", 100))
	require.NoError(t, s.PutViewedItem(ctx, "X", 200))

	items, err := s.GetAllViewedItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ViewedItems{"X": 200}, items)

	count, err := s.CountViewedItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPutViewedItemsBulk_Cardinality(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	bulk := models.ViewedItems{}
	for i := 0; i < 250; i++ {
		bulk["m"+string(rune('a'+i%26))+string(rune('0'+i/26))] = int64(i + 1)
	}
	require.NoError(t, s.PutViewedItemsBulk(ctx, bulk))

	count, err := s.CountViewedItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(bulk), count)
}

func TestPutViewedItemsBulk_UpsertsExisting(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.PutViewedItem(ctx, "a", 1))
	require.NoError(t, s.PutViewedItemsBulk(ctx, models.ViewedItems{"a": 5, "b": 6}))

	items, err := s.GetAllViewedItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ViewedItems{"a": 5, "b": 6}, items)
}

func TestPutViewedItemsBulk_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	require.NoError(t, s.PutViewedItem(ctx, "keep", 1))

	_, err := s.db.Exec(`CREATE TRIGGER reject_bad BEFORE INSERT ON viewed_items
		WHEN NEW.id = 'bad' BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	bulk := models.ViewedItems{"good1": 2, "good2": 3, "bad": 4}
	err = s.PutViewedItemsBulk(ctx, bulk)
	require.ErrorIs(t, err, models.ErrStoreUnavailable)

	items, err := s.GetAllViewedItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ViewedItems{"keep": 1}, items, "no partial bulk application")
}

func TestClearAllViewedItems(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.PutViewedItemsBulk(ctx, models.ViewedItems{"a": 1, "b": 2}))
	require.NoError(t, s.PutSetting(ctx, models.SettingPremiumUnlocked, []byte("true")))
	require.NoError(t, s.ClearAllViewedItems(ctx))

	count, err := s.CountViewedItems(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	items, err := s.GetAllViewedItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)

	_, found, err := s.GetSetting(ctx, models.SettingPremiumUnlocked)
	require.NoError(t, err)
	assert.True(t, found, "clearing items leaves settings alone")
}

func TestSettings_GetMissing(t *testing.T) {
	s := createTestStore(t)

	value, found, err := s.GetSetting(context.Background(), models.SettingMigrated)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, value)
}

func TestSettings_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.PutSetting(ctx, models.SettingAlertSettings, []byte(`{"ratings":1}`)))
	require.NoError(t, s.PutSetting(ctx, models.SettingAlertSettings, []byte(`{"ratings":2}`)))

	value, found, err := s.GetSetting(ctx, models.SettingAlertSettings)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"ratings":2}`, string(value))
}

func TestOperations_AfterCloseAreUnavailable(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "seen.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.GetAllViewedItems(ctx)
	assert.True(t, errors.Is(err, models.ErrStoreUnavailable))
	assert.ErrorIs(t, s.PutViewedItem(ctx, "a", 1), models.ErrStoreUnavailable)
	_, err = s.CountViewedItems(ctx)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.ErrorIs(t, s.ClearAllViewedItems(ctx), models.ErrStoreUnavailable)
	_, _, err = s.GetSetting(ctx, "k")
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}

func TestExtractUp(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a(x);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a(x);\n", extractUp(content))
	assert.Equal(t, "CREATE TABLE b(x);", extractUp("CREATE TABLE b(x);"))
}
