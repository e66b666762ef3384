package services

import (
	"context"
	"time"

	"seenkeeper/internal/migration"
	"seenkeeper/internal/models"
	"seenkeeper/internal/providers"
)

type StorageServiceInterface interface {
	Initialize(ctx context.Context)
	GetViewedItems(ctx context.Context) models.ViewedItems
	SaveViewedItem(ctx context.Context, id string) error
	SaveViewedItemsBulk(ctx context.Context, items models.ViewedItems) error
	GetViewedItemsCount(ctx context.Context) int
	ClearAllViewedItems(ctx context.Context) bool
	GetAlertSettings(ctx context.Context) models.AlertSettings
	SaveAlertSettings(ctx context.Context, settings models.AlertSettings) error
	IsPremiumUnlocked(ctx context.Context) bool
	UnlockPremium(ctx context.Context) error
	Mode() Mode
}

// StorageService is the caller-facing API. Reads never return errors: when
// neither store can answer they log and return empty values.
type StorageService struct {
	resolver *FallbackResolver
	settings *SettingsAccessor
	engine   *migration.Engine
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	now      func() time.Time
}

func NewStorageService(resolver *FallbackResolver, engine *migration.Engine, logger providers.Logger, metrics providers.MetricsProviderInterface) *StorageService {
	return &StorageService{
		resolver: resolver,
		settings: NewSettingsAccessor(resolver, logger),
		engine:   engine,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Initialize opens the structured store and runs the one-time migration.
// Failures leave the service in fallback mode.
func (s *StorageService) Initialize(ctx context.Context) {
	result, err := s.engine.Run(ctx)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Initialize: %s", err)
	}
	count := s.GetViewedItemsCount(ctx)
	s.logger.Infof(providers.TypeApp, "Storage ready: mode=%s migration=%s items=%d", s.resolver.Mode(), result, count)
}

func (s *StorageService) GetViewedItems(ctx context.Context) models.ViewedItems {
	items, err := s.resolver.GetAllViewedItems(ctx)
	if err != nil || items == nil {
		if err != nil {
			s.logger.Errorf(providers.TypeStorage, "Get viewed items: %s", err)
		}
		return models.ViewedItems{}
	}
	return items
}

func (s *StorageService) SaveViewedItem(ctx context.Context, id string) error {
	if err := s.resolver.PutViewedItem(ctx, id, s.now().UnixMilli()); err != nil {
		return err
	}
	s.GetViewedItemsCount(ctx)
	return nil
}

func (s *StorageService) SaveViewedItemsBulk(ctx context.Context, items models.ViewedItems) error {
	if len(items) == 0 {
		return nil
	}
	if err := s.resolver.PutViewedItemsBulk(ctx, items); err != nil {
		return err
	}
	s.GetViewedItemsCount(ctx)
	return nil
}

func (s *StorageService) GetViewedItemsCount(ctx context.Context) int {
	n, err := s.resolver.CountViewedItems(ctx)
	if err != nil {
		s.logger.Errorf(providers.TypeStorage, "Count viewed items: %s", err)
		return 0
	}
	s.metrics.SetViewedItemsTotal(n)
	return n
}

func (s *StorageService) ClearAllViewedItems(ctx context.Context) bool {
	if err := s.resolver.ClearAllViewedItems(ctx); err != nil {
		s.logger.Errorf(providers.TypeStorage, "Clear viewed items: %s", err)
		return false
	}
	s.metrics.SetViewedItemsTotal(0)
	s.logger.Infof(providers.TypeStorage, "Viewed items cleared")
	return true
}

func (s *StorageService) GetAlertSettings(ctx context.Context) models.AlertSettings {
	return s.settings.GetAlertSettings(ctx)
}

func (s *StorageService) SaveAlertSettings(ctx context.Context, settings models.AlertSettings) error {
	return s.settings.SaveAlertSettings(ctx, settings)
}

func (s *StorageService) IsPremiumUnlocked(ctx context.Context) bool {
	return s.settings.IsPremiumUnlocked(ctx)
}

func (s *StorageService) UnlockPremium(ctx context.Context) error {
	return s.settings.UnlockPremium(ctx)
}

func (s *StorageService) Mode() Mode {
	return s.resolver.Mode()
}
