package services

import (
	"context"
	"crypto/subtle"
	"strings"

	json "github.com/goccy/go-json"

	"seenkeeper/internal/models"
	"seenkeeper/internal/providers"
	"seenkeeper/internal/storage"
)

type SettingsAccessor struct {
	store  storage.Store
	logger providers.Logger
}

func NewSettingsAccessor(store storage.Store, logger providers.Logger) *SettingsAccessor {
	return &SettingsAccessor{store: store, logger: logger}
}

// GetAlertSettings always returns a fully populated record. Stored fields
// override defaults one by one; missing or undecodable fields keep theirs.
func (a *SettingsAccessor) GetAlertSettings(ctx context.Context) models.AlertSettings {
	raw, found, err := a.store.GetSetting(ctx, models.SettingAlertSettings)
	if err != nil {
		a.logger.Errorf(providers.TypeStorage, "Read alert settings: %s", err)
		return models.DefaultAlertSettings()
	}
	if !found {
		return models.DefaultAlertSettings()
	}
	settings, invalid := models.OverlayAlertSettings(raw)
	if len(invalid) > 0 {
		a.logger.Warnf(providers.TypeStorage, "Alert settings fields reset to defaults: %v", invalid)
	}
	return settings
}

func (a *SettingsAccessor) SaveAlertSettings(ctx context.Context, settings models.AlertSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return a.store.PutSetting(ctx, models.SettingAlertSettings, raw)
}

func (a *SettingsAccessor) IsPremiumUnlocked(ctx context.Context) bool {
	raw, found, err := a.store.GetSetting(ctx, models.SettingPremiumUnlocked)
	if err != nil {
		a.logger.Errorf(providers.TypeStorage, "Read premium flag: %s", err)
		return false
	}
	return found && models.IsTrue(raw)
}

func (a *SettingsAccessor) UnlockPremium(ctx context.Context) error {
	return a.store.PutSetting(ctx, models.SettingPremiumUnlocked, []byte("true"))
}

// MatchPassphrase compares in constant time. Surrounding whitespace in the
// input is ignored.
func MatchPassphrase(want []byte, got string) bool {
	if len(want) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(want, []byte(strings.TrimSpace(got))) == 1
}
