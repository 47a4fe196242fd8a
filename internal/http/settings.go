package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/services"
)

// SettingsController reads and updates the reader settings.
type SettingsController struct {
	settings *services.SettingsManager
}

func NewSettingsController(settings *services.SettingsManager) *SettingsController {
	return &SettingsController{settings: settings}
}

// settingsUpdate holds the fields of a PUT /api/settings body; absent
// fields keep their current value.
type settingsUpdate struct {
	FontSizeScale               *int  `json:"font_size_scale"`
	KeepScreenOn                *bool `json:"keep_screen_on"`
	NightModeOn                 *bool `json:"night_mode_on"`
	SimpleReadingModeOn         *bool `json:"simple_reading_mode_on"`
	HideSearchButton            *bool `json:"hide_search_button"`
	ConsolidateVersesForSharing *bool `json:"consolidate_verses_for_sharing"`
}

func (u settingsUpdate) apply(settings *entities.Settings) {
	if u.FontSizeScale != nil {
		settings.FontSizeScale = *u.FontSizeScale
	}
	setBool(&settings.KeepScreenOn, u.KeepScreenOn)
	setBool(&settings.NightModeOn, u.NightModeOn)
	setBool(&settings.SimpleReadingModeOn, u.SimpleReadingModeOn)
	setBool(&settings.HideSearchButton, u.HideSearchButton)
	setBool(&settings.ConsolidateVersesForSharing, u.ConsolidateVersesForSharing)
}

func setBool(dest *bool, value *bool) {
	if value != nil {
		*dest = *value
	}
}

// GetSettings handles GET /api/settings
func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.settings.Read()
	if err != nil {
		respondInternalError(c, err, "read settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/settings
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var update settingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	settings, err := sc.settings.Read()
	if err != nil {
		respondInternalError(c, err, "read settings")
		return
	}
	update.apply(&settings)

	if err := sc.settings.Save(settings); err != nil {
		respondServiceError(c, err, "save settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}
