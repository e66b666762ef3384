package services

import (
	"context"
	"testing"
	"time"

	"seenkeeper/internal/models"
	"seenkeeper/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncMirror_OnlyWhenDirty(t *testing.T) {
	f := newResolverFixture()
	ctx := context.Background()

	synced, err := f.resolver.SyncMirror(ctx)
	require.NoError(t, err)
	assert.False(t, synced)

	f.mirror.FailWrite = true
	require.NoError(t, f.resolver.PutViewedItem(ctx, "m1", 1))
	require.NoError(t, f.resolver.PutSetting(ctx, models.SettingPremiumUnlocked, []byte("true")))

	_, err = f.resolver.SyncMirror(ctx)
	assert.ErrorIs(t, err, models.ErrMirrorWriteFailed)

	f.mirror.FailWrite = false
	synced, err = f.resolver.SyncMirror(ctx)
	require.NoError(t, err)
	assert.True(t, synced)
	assert.Equal(t, models.ViewedItems{"m1": 1}, f.mirror.Items)
	assert.Equal(t, "true", string(f.mirror.Settings[models.SettingPremiumUnlocked]))

	synced, err = f.resolver.SyncMirror(ctx)
	require.NoError(t, err)
	assert.False(t, synced)
}

func TestSyncMirror_SkipsWhileStructuredDown(t *testing.T) {
	f := newResolverFixture()
	ctx := context.Background()
	f.mirror.FailWrite = true
	require.NoError(t, f.resolver.PutViewedItem(ctx, "m1", 1))

	f.opener.Err = models.ErrStoreUnavailable
	synced, err := f.resolver.SyncMirror(ctx)
	require.NoError(t, err)
	assert.False(t, synced)
}

func TestMirrorScheduler_RepairsInBackground(t *testing.T) {
	f := newResolverFixture()
	ctx := context.Background()
	f.mirror.FailWrite = true
	require.NoError(t, f.resolver.PutViewedItem(ctx, "m1", 1))
	f.mirror.FailWrite = false

	conf := &structures.Config{}
	conf.Legacy.SyncInterval = time.Second
	s := NewMirrorScheduler(conf, f.logger, f.resolver)
	s.Init()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		items, err := f.mirror.ReadAll(ctx)
		return err == nil && items.Has("m1")
	}, 5*time.Second, 50*time.Millisecond)
}

func TestMirrorScheduler_DisabledAndPersist(t *testing.T) {
	f := newResolverFixture()
	ctx := context.Background()
	f.mirror.FailWrite = true
	require.NoError(t, f.resolver.PutViewedItem(ctx, "m1", 1))
	f.mirror.FailWrite = false

	s := NewMirrorScheduler(&structures.Config{}, f.logger, f.resolver)
	s.Init()
	s.Stop()

	require.NoError(t, s.Persist())
	items, err := f.mirror.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ViewedItems{"m1": 1}, items)
}

func TestSyncMirror_FoldsFallbackWritesFirst(t *testing.T) {
	f := newResolverFixture()
	ctx := context.Background()
	f.mirror.FailWrite = true
	require.NoError(t, f.resolver.PutViewedItem(ctx, "m1", 1))
	f.mirror.FailWrite = false

	f.primary.Fail = true
	require.NoError(t, f.resolver.PutViewedItem(ctx, "m2", 2))
	f.primary.Fail = false

	synced, err := f.resolver.SyncMirror(ctx)
	require.NoError(t, err)
	assert.True(t, synced)
	assert.Equal(t, models.ViewedItems{"m1": 1, "m2": 2}, f.primary.Items)
	assert.Equal(t, models.ViewedItems{"m1": 1, "m2": 2}, f.mirror.Items)
}
