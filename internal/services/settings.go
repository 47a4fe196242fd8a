package services

import (
	"fmt"
	"strconv"

	"github.com/mrlokans/joshua/internal/entities"
)

var settingsKeys = []string{
	entities.MetadataKeyFontSizeScale,
	entities.MetadataKeyKeepScreenOn,
	entities.MetadataKeyNightModeOn,
	entities.MetadataKeySimpleReadingModeOn,
	entities.MetadataKeyHideSearchButton,
	entities.MetadataKeyConsolidateVersesForSharing,
}

// SettingsManager reads and writes user settings.
type SettingsManager struct {
	metadata MetadataStore
}

func NewSettingsManager(metadata MetadataStore) *SettingsManager {
	return &SettingsManager{metadata: metadata}
}

// Read returns the stored settings; unset or unreadable values fall back to defaults.
func (m *SettingsManager) Read() (entities.Settings, error) {
	settings := entities.DefaultSettings()

	values, err := m.metadata.GetMany(settingsKeys...)
	if err != nil {
		return settings, err
	}

	if v, ok := values[entities.MetadataKeyFontSizeScale]; ok {
		if scale, err := strconv.Atoi(v); err == nil && validFontSizeScale(scale) {
			settings.FontSizeScale = scale
		}
	}
	readBool(values, entities.MetadataKeyKeepScreenOn, &settings.KeepScreenOn)
	readBool(values, entities.MetadataKeyNightModeOn, &settings.NightModeOn)
	readBool(values, entities.MetadataKeySimpleReadingModeOn, &settings.SimpleReadingModeOn)
	readBool(values, entities.MetadataKeyHideSearchButton, &settings.HideSearchButton)
	readBool(values, entities.MetadataKeyConsolidateVersesForSharing, &settings.ConsolidateVersesForSharing)
	return settings, nil
}

// Save validates and stores settings. Saving unchanged settings is a no-op.
func (m *SettingsManager) Save(settings entities.Settings) error {
	if !validFontSizeScale(settings.FontSizeScale) {
		return fmt.Errorf("font size scale must be between %d and %d: %w",
			entities.MinFontSizeScale, entities.MaxFontSizeScale, ErrInvalidSettings)
	}

	current, err := m.Read()
	if err != nil {
		return err
	}
	if current == settings {
		return nil
	}

	return m.metadata.SetMany(map[string]string{
		entities.MetadataKeyFontSizeScale:               strconv.Itoa(settings.FontSizeScale),
		entities.MetadataKeyKeepScreenOn:                strconv.FormatBool(settings.KeepScreenOn),
		entities.MetadataKeyNightModeOn:                 strconv.FormatBool(settings.NightModeOn),
		entities.MetadataKeySimpleReadingModeOn:         strconv.FormatBool(settings.SimpleReadingModeOn),
		entities.MetadataKeyHideSearchButton:            strconv.FormatBool(settings.HideSearchButton),
		entities.MetadataKeyConsolidateVersesForSharing: strconv.FormatBool(settings.ConsolidateVersesForSharing),
	})
}

func validFontSizeScale(scale int) bool {
	return scale >= entities.MinFontSizeScale && scale <= entities.MaxFontSizeScale
}

func readBool(values map[string]string, key string, dest *bool) {
	v, ok := values[key]
	if !ok {
		return
	}
	if parsed, err := strconv.ParseBool(v); err == nil {
		*dest = parsed
	}
}
