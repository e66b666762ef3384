package legacy

import (
	"context"
	"testing"

	"seenkeeper/internal/models"
	"seenkeeper/internal/structures"
	"seenkeeper/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_ItemOperations(t *testing.T) {
	mirror := testutil.NewMemoryMirror()
	a := NewAdapter(mirror)
	ctx := context.Background()

	require.NoError(t, a.PutViewedItem(ctx, "m1", 1))
	require.NoError(t, a.PutViewedItemsBulk(ctx, models.ViewedItems{"m2": 2, "m1": 9}))

	items, err := a.GetAllViewedItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ViewedItems{"m1": 9, "m2": 2}, items)

	n, err := a.CountViewedItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, a.ClearAllViewedItems(ctx))
	n, err = a.CountViewedItems(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAdapter_ReadFailureStopsWrite(t *testing.T) {
	mirror := testutil.NewMemoryMirror()
	mirror.FailRead = true
	a := NewAdapter(mirror)

	err := a.PutViewedItem(context.Background(), "m1", 1)
	assert.ErrorIs(t, err, testutil.ErrInjected)
	assert.Zero(t, mirror.WriteCalls)
}

func TestAdapter_Settings(t *testing.T) {
	a := NewAdapter(testutil.NewMemoryMirror())
	ctx := context.Background()

	require.NoError(t, a.PutSetting(ctx, models.SettingPremiumUnlocked, []byte("true")))
	raw, found, err := a.GetSetting(ctx, models.SettingPremiumUnlocked)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "true", string(raw))
}

func TestNewMirror_SelectsDriver(t *testing.T) {
	conf := &structures.Config{}
	conf.Legacy.Driver = DriverFile
	conf.Legacy.Path = t.TempDir() + "/legacy.json"
	m, err := NewMirror(conf, &testutil.MockLogger{})
	require.NoError(t, err)
	assert.IsType(t, &FileMirror{}, m)
	m.Close()

	conf.Legacy.Driver = DriverBadger
	conf.Legacy.Path = t.TempDir()
	m, err = NewMirror(conf, &testutil.MockLogger{})
	require.NoError(t, err)
	assert.IsType(t, &BadgerMirror{}, m)
	m.Close()

	conf.Legacy.Driver = "redis"
	_, err = NewMirror(conf, &testutil.MockLogger{})
	assert.Error(t, err)
}
