package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/jobs"
	"github.com/mrlokans/joshua/internal/remote"
)

// TranslationList groups the catalog for display.
type TranslationList struct {
	Current    *entities.TranslationInfo  `json:"current,omitempty"`
	Downloaded []entities.TranslationInfo `json:"downloaded"`
	Available  []entities.TranslationInfo `json:"available"`
}

// TranslationManager keeps the catalog fresh and downloads and removes translations.
type TranslationManager struct {
	store      TranslationStore
	metadata   MetadataStore
	source     TranslationSource
	reading    *ReadingManager
	guard      *jobs.Guard
	comparator TranslationComparator
	maxAge     time.Duration
	now        func() time.Time

	mu        sync.Mutex
	listeners []func(shortName string)
}

type TranslationManagerConfig struct {
	// MaxAge is how old the local catalog may get before ReloadTranslations refreshes it.
	MaxAge            time.Duration
	PreferredLanguage string
}

func NewTranslationManager(store TranslationStore, metadata MetadataStore, source TranslationSource, reading *ReadingManager, cfg TranslationManagerConfig) *TranslationManager {
	return &TranslationManager{
		store:      store,
		metadata:   metadata,
		source:     source,
		reading:    reading,
		guard:      jobs.NewGuard(),
		comparator: NewTranslationComparator(SortByLanguageThenName, cfg.PreferredLanguage),
		maxAge:     cfg.MaxAge,
		now:        time.Now,
	}
}

// OnTranslationChanged registers fn to be called after a translation is
// installed or removed.
func (m *TranslationManager) OnTranslationChanged(fn func(shortName string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *TranslationManager) translationChanged(shortName string) {
	m.mu.Lock()
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(shortName)
	}
}

// ReloadTranslations returns the catalog, refreshing it from the server when
// forced, when it is empty or when it is older than the configured max age.
// Without force a failed refresh falls back to the local catalog.
func (m *TranslationManager) ReloadTranslations(ctx context.Context, forceRefresh bool) ([]entities.TranslationInfo, error) {
	local, err := m.store.ReadTranslations()
	if err != nil {
		return nil, err
	}

	if !forceRefresh && len(local) > 0 && !m.catalogExpired() {
		return local, nil
	}
	if !m.source.Enabled() {
		if forceRefresh {
			return nil, remote.ErrDisabled
		}
		return local, nil
	}

	catalog, err := m.source.FetchTranslationList(ctx)
	if err != nil {
		if forceRefresh {
			return nil, fmt.Errorf("refresh translation list: %w", err)
		}
		log.Printf("Failed to refresh translation list, using local copy: %v", err)
		return local, nil
	}

	if err := m.store.ReplaceTranslations(catalog); err != nil {
		return nil, err
	}
	if err := m.metadata.Set(entities.MetadataKeyTranslationListRefreshedAt, m.now().Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return m.store.ReadTranslations()
}

func (m *TranslationManager) catalogExpired() bool {
	if m.maxAge <= 0 {
		return false
	}
	value, err := m.metadata.Get(entities.MetadataKeyTranslationListRefreshedAt, "")
	if err != nil || value == "" {
		return true
	}
	refreshedAt, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return true
	}
	return m.now().Sub(refreshedAt) > m.maxAge
}

// AvailableTranslations returns catalog entries not downloaded yet.
func (m *TranslationManager) AvailableTranslations() ([]entities.TranslationInfo, error) {
	return m.filter(false)
}

func (m *TranslationManager) DownloadedTranslations() ([]entities.TranslationInfo, error) {
	return m.filter(true)
}

func (m *TranslationManager) filter(downloaded bool) ([]entities.TranslationInfo, error) {
	translations, err := m.store.ReadTranslations()
	if err != nil {
		return nil, err
	}
	result := make([]entities.TranslationInfo, 0, len(translations))
	for _, t := range translations {
		if t.Downloaded == downloaded {
			result = append(result, t)
		}
	}
	m.comparator.Sort(result)
	return result, nil
}

// ListTranslations splits the catalog into the current translation, the
// other downloaded ones and the ones available for download.
func (m *TranslationManager) ListTranslations() (*TranslationList, error) {
	current, err := m.reading.CurrentTranslation()
	if err != nil {
		return nil, err
	}
	translations, err := m.store.ReadTranslations()
	if err != nil {
		return nil, err
	}

	list := &TranslationList{
		Downloaded: []entities.TranslationInfo{},
		Available:  []entities.TranslationInfo{},
	}
	for _, t := range translations {
		switch {
		case t.ShortName == current && t.Downloaded:
			info := t
			list.Current = &info
		case t.Downloaded:
			list.Downloaded = append(list.Downloaded, t)
		default:
			list.Available = append(list.Available, t)
		}
	}
	m.comparator.Sort(list.Downloaded)
	m.comparator.Sort(list.Available)
	return list, nil
}

// DownloadTranslation downloads and installs a translation. progress
// receives 0..99 while downloading and 100 while installing. A second
// download of the same translation while one is running fails with
// ErrDownloadInProgress. The first installed translation becomes current.
func (m *TranslationManager) DownloadTranslation(ctx context.Context, shortName string, progress chan<- int) error {
	release, ok := m.guard.TryAcquire(shortName)
	if !ok {
		return ErrDownloadInProgress
	}
	defer release()

	info, err := m.find(shortName)
	if err != nil {
		return err
	}

	translation, err := m.source.FetchTranslation(ctx, *info, progress)
	if err != nil {
		return fmt.Errorf("download %s: %w", shortName, err)
	}

	notify(progress, 100)
	if err := m.store.SaveTranslation(translation.Info, translation.BookNames, translation.BookShortNames, translation.Verses); err != nil {
		return fmt.Errorf("install %s: %w", shortName, err)
	}
	log.Printf("[DOWNLOAD] Installed translation %s (%d verses)", shortName, len(translation.Verses))

	current, err := m.reading.CurrentTranslation()
	if err != nil {
		return err
	}
	if current == "" {
		if err := m.reading.SaveCurrentTranslation(shortName); err != nil {
			return err
		}
	}

	m.translationChanged(shortName)
	return nil
}

// IsDownloading reports whether a download of shortName is running.
func (m *TranslationManager) IsDownloading(shortName string) bool {
	return m.guard.InFlight(shortName)
}

// RemoveTranslation uninstalls a translation. The current translation
// cannot be removed.
func (m *TranslationManager) RemoveTranslation(shortName string) error {
	info, err := m.find(shortName)
	if err != nil {
		return err
	}
	if !info.Downloaded {
		return fmt.Errorf("%s: %w", shortName, ErrTranslationNotDownloaded)
	}

	current, err := m.reading.CurrentTranslation()
	if err != nil {
		return err
	}
	if current == shortName {
		return ErrCannotRemoveCurrentTranslation
	}

	if err := m.store.RemoveTranslation(shortName); err != nil {
		return err
	}
	if err := m.reading.RemoveParallelTranslation(shortName); err != nil {
		return err
	}

	m.translationChanged(shortName)
	return nil
}

func (m *TranslationManager) find(shortName string) (*entities.TranslationInfo, error) {
	info, err := m.store.ReadTranslation(shortName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", shortName, ErrTranslationNotFound)
	}
	return info, err
}
