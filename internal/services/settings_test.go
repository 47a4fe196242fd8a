package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/joshua/internal/entities"
)

// countingMetadata counts writes to the wrapped store.
type countingMetadata struct {
	MetadataStore
	writes int
}

func (c *countingMetadata) Set(key, value string) error {
	c.writes++
	return c.MetadataStore.Set(key, value)
}

func (c *countingMetadata) SetMany(values map[string]string) error {
	c.writes++
	return c.MetadataStore.SetMany(values)
}

func TestSettingsManager_ReadDefaults(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	settings, err := NewSettingsManager(env.metadata).Read()
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultSettings(), settings)
	assert.Equal(t, 2, settings.FontSizeScale)
	assert.True(t, settings.KeepScreenOn)
}

func TestSettingsManager_Save(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	store := &countingMetadata{MetadataStore: env.metadata}
	manager := NewSettingsManager(store)

	settings := entities.Settings{
		FontSizeScale:               4,
		KeepScreenOn:                false,
		NightModeOn:                 true,
		ConsolidateVersesForSharing: true,
	}
	require.NoError(t, manager.Save(settings))
	assert.Equal(t, 1, store.writes)

	read, err := manager.Read()
	require.NoError(t, err)
	assert.Equal(t, settings, read)

	require.NoError(t, manager.Save(settings))
	assert.Equal(t, 1, store.writes)
}

func TestSettingsManager_Save_Invalid(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	manager := NewSettingsManager(env.metadata)
	for _, scale := range []int{0, 7} {
		settings := entities.DefaultSettings()
		settings.FontSizeScale = scale
		err := manager.Save(settings)
		assert.True(t, errors.Is(err, ErrInvalidSettings), "scale %d", scale)
	}
}

func TestSettingsManager_Read_IgnoresCorruptValues(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	require.NoError(t, env.metadata.Set(entities.MetadataKeyFontSizeScale, "99"))
	require.NoError(t, env.metadata.Set(entities.MetadataKeyNightModeOn, "maybe"))

	settings, err := NewSettingsManager(env.metadata).Read()
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultSettings(), settings)
}
