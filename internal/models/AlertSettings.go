package models

import (
	json "github.com/goccy/go-json"
)

type AlertSettings struct {
	Ratings     int  `json:"ratings" yaml:"ratings"`
	BadRate     int  `json:"badRate" yaml:"badRate"`
	ListedDays  int  `json:"listedDays" yaml:"listedDays"`
	UpdatedDays int  `json:"updatedDays" yaml:"updatedDays"`
	Shipping47  bool `json:"shipping47" yaml:"shipping47"`
	Shipping8   bool `json:"shipping8" yaml:"shipping8"`
}

func DefaultAlertSettings() AlertSettings {
	return AlertSettings{
		Ratings:     100,
		BadRate:     5,
		ListedDays:  180,
		UpdatedDays: 90,
		Shipping47:  false,
		Shipping8:   false,
	}
}

// OverlayAlertSettings merges a stored, possibly partial, record over the defaults.
// Fields are applied one by one: an absent key or a value of the wrong type keeps the default.
// The returned slice names the keys that were present but could not be decoded.
func OverlayAlertSettings(raw []byte) (AlertSettings, []string) {
	settings := DefaultAlertSettings()
	if len(raw) == 0 {
		return settings, nil
	}

	var stored map[string]json.RawMessage
	if err := json.Unmarshal(raw, &stored); err != nil || stored == nil {
		return settings, []string{"*"}
	}

	fields := map[string]any{
		"ratings":     &settings.Ratings,
		"badRate":     &settings.BadRate,
		"listedDays":  &settings.ListedDays,
		"updatedDays": &settings.UpdatedDays,
		"shipping47":  &settings.Shipping47,
		"shipping8":   &settings.Shipping8,
	}

	var invalid []string
	for key, target := range fields {
		value, ok := stored[key]
		if !ok || string(value) == "null" {
			continue
		}
		if err := overlayField(value, target); err != nil {
			invalid = append(invalid, key)
		}
	}
	return settings, invalid
}

// overlayField decodes into a scratch value first so a failed decode leaves target untouched.
func overlayField(value json.RawMessage, target any) error {
	switch t := target.(type) {
	case *int:
		var v int
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		*t = v
	case *bool:
		var v bool
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		*t = v
	}
	return nil
}
