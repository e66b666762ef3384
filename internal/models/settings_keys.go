package models

import "bytes"

// Logical keys of the structured settings collection.
const (
	SettingAlertSettings   = "alertSettings"
	SettingPremiumUnlocked = "premiumUnlocked"
	SettingMigrated        = "migrated"
)

// Flat entry names used by the legacy key-value store.
const (
	LegacyItemsKey   = "mercari_viewed_items"
	LegacyAlertKey   = "mercari_alert_settings"
	LegacyPremiumKey = "mercari_premium_unlocked"

	// MirrorPendingKey marks writes the legacy mirror accepted while the
	// structured store was down. It lives only in the mirror.
	MirrorPendingKey = "seenkeeper_pending_reconcile"
)

// LegacySettingKey maps a logical setting key to its flat legacy entry.
// The migration guard has no legacy counterpart.
func LegacySettingKey(key string) (string, bool) {
	switch key {
	case SettingAlertSettings:
		return LegacyAlertKey, true
	case SettingPremiumUnlocked:
		return LegacyPremiumKey, true
	}
	return "", false
}

// IsTrue reports whether a stored JSON value is exactly the boolean true.
func IsTrue(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("true"))
}
