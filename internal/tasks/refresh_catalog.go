package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/joshua/internal/entities"
)

// CatalogRefresher reloads the translation catalog.
type CatalogRefresher interface {
	ReloadTranslations(ctx context.Context, forceRefresh bool) ([]entities.TranslationInfo, error)
}

// RefreshCatalogTask reloads the translation catalog. Without Force the
// remote catalog is only fetched when the local one expired.
type RefreshCatalogTask struct {
	Force bool `json:"force"`
}

func (t RefreshCatalogTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_translation_catalog",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func RefreshCatalogProcessor(refresher CatalogRefresher) backlite.QueueProcessor[RefreshCatalogTask] {
	return func(ctx context.Context, task RefreshCatalogTask) error {
		if refresher == nil {
			return fmt.Errorf("catalog refresher not configured")
		}

		translations, err := refresher.ReloadTranslations(ctx, task.Force)
		if err != nil {
			return fmt.Errorf("refresh translation catalog: %w", err)
		}

		log.Printf("[TASK] Translation catalog has %d translations", len(translations))
		return nil
	}
}

func NewRefreshCatalogQueue(refresher CatalogRefresher) backlite.Queue {
	return backlite.NewQueue(RefreshCatalogProcessor(refresher))
}
