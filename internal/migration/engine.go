package migration

import (
	"context"
	"fmt"
	"time"

	"seenkeeper/internal/models"
	"seenkeeper/internal/providers"
	"seenkeeper/internal/storage"
	"seenkeeper/internal/storage/legacy"
)

type Result string

const (
	ResultSkipped Result = "skipped"
	ResultNoop    Result = "noop"
	ResultDone    Result = "done"
	ResultFailed  Result = "failed"
)

// Engine copies the legacy mirror into the structured store once. The
// migrated setting is written last, so an interrupted run is repeated in
// full on the next start.
type Engine struct {
	opener  storage.Opener
	mirror  legacy.Mirror
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewEngine(opener storage.Opener, mirror legacy.Mirror, logger providers.Logger, metrics providers.MetricsProviderInterface) *Engine {
	return &Engine{
		opener:  opener,
		mirror:  mirror,
		logger:  logger,
		metrics: metrics,
	}
}

// Run is safe to call on every start. An unavailable structured store is not
// an error: the fallback path keeps serving from the mirror.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	result, err := e.run(ctx)
	e.metrics.IncMigrationRuns(string(result))
	e.metrics.ObserveMigrationDuration(time.Since(start))
	return result, err
}

func (e *Engine) run(ctx context.Context) (Result, error) {
	store, err := e.opener.Open(ctx)
	if err != nil {
		e.logger.Warnf(providers.TypeMigration, "Structured store unavailable, migration skipped: %s", err)
		return ResultSkipped, nil
	}

	raw, found, err := store.GetSetting(ctx, models.SettingMigrated)
	if err != nil {
		return e.fail("read migrated flag", err)
	}
	if found && models.IsTrue(raw) {
		e.logger.Debugf(providers.TypeMigration, "Already migrated")
		return ResultNoop, nil
	}

	items, err := e.mirror.ReadAll(ctx)
	if err != nil {
		return e.fail("read legacy items", err)
	}
	if len(items) > 0 {
		if err := store.PutViewedItemsBulk(ctx, items); err != nil {
			return e.fail("copy items", err)
		}
	}

	for _, key := range []string{models.SettingAlertSettings, models.SettingPremiumUnlocked} {
		value, found, err := e.mirror.ReadSetting(ctx, key)
		if err != nil {
			return e.fail("read legacy "+key, err)
		}
		if !found {
			continue
		}
		if err := store.PutSetting(ctx, key, value); err != nil {
			return e.fail("copy "+key, err)
		}
	}

	if err := store.PutSetting(ctx, models.SettingMigrated, []byte("true")); err != nil {
		return e.fail("set migrated flag", err)
	}
	e.logger.Infof(providers.TypeMigration, "Migrated %d viewed items from legacy storage", len(items))
	return ResultDone, nil
}

func (e *Engine) fail(step string, err error) (Result, error) {
	e.logger.Errorf(providers.TypeMigration, "Migration failed at %s: %s", step, err)
	return ResultFailed, fmt.Errorf("%w: %s: %w", models.ErrMigrationFailed, step, err)
}
