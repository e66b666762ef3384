package legacy

import (
	"context"
	"path/filepath"
	"testing"

	"seenkeeper/internal/models"
	"seenkeeper/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerMirror_InMemory(t *testing.T) {
	m, err := OpenBadgerMirror("", &testutil.MockLogger{})
	require.NoError(t, err)
	defer m.Close()
	ctx := context.Background()

	items, err := m.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, m.WriteAll(ctx, models.ViewedItems{"m1": 1, "shop_x": 2}))
	items, err = m.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ViewedItems{"m1": 1, "shop_x": 2}, items)

	require.NoError(t, m.WriteSetting(ctx, models.SettingAlertSettings, []byte(`{"ratings":10}`)))
	raw, found, err := m.ReadSetting(ctx, models.SettingAlertSettings)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"ratings":10}`, string(raw))

	_, found, err = m.ReadSetting(ctx, models.SettingPremiumUnlocked)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBadgerMirror_PersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "legacy")
	ctx := context.Background()

	m, err := OpenBadgerMirror(dir, &testutil.MockLogger{})
	require.NoError(t, err)
	require.NoError(t, m.WriteAll(ctx, models.ViewedItems{"m1": 5}))
	require.NoError(t, m.Close())

	m, err = OpenBadgerMirror(dir, &testutil.MockLogger{})
	require.NoError(t, err)
	defer m.Close()

	items, err := m.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ViewedItems{"m1": 5}, items)
}
