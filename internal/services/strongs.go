package services

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/jobs"
)

const strongNumbersJobKey = "strong_numbers"

// StrongNumberManager downloads and reads Strong's numbers.
type StrongNumberManager struct {
	store  StrongNumberStore
	source StrongNumberSource
	guard  *jobs.Guard
}

func NewStrongNumberManager(store StrongNumberStore, source StrongNumberSource) *StrongNumberManager {
	return &StrongNumberManager{
		store:  store,
		source: source,
		guard:  jobs.NewGuard(),
	}
}

// Download fetches and installs Strong's numbers. progress receives 0..49
// while the verse archive downloads, 50..99 for the lexicon and 100 while
// installing. A concurrent second download fails with ErrDownloadInProgress.
func (m *StrongNumberManager) Download(ctx context.Context, progress chan<- int) error {
	release, ok := m.guard.TryAcquire(strongNumbersJobKey)
	if !ok {
		return ErrDownloadInProgress
	}
	defer release()

	versesProgress, stopVerses := relayProgress(progress, func(v int) int { return v / 2 })
	verses, err := m.source.FetchStrongNumberVerses(ctx, versesProgress)
	stopVerses()
	if err != nil {
		return fmt.Errorf("download Strong's verses: %w", err)
	}

	wordsProgress, stopWords := relayProgress(progress, func(v int) int { return 50 + v/2 })
	words, err := m.source.FetchStrongNumberWords(ctx, wordsProgress)
	stopWords()
	if err != nil {
		return fmt.Errorf("download Strong's words: %w", err)
	}

	notify(progress, 100)
	if err := m.store.Save(verses, words.Hebrew, words.Greek); err != nil {
		return fmt.Errorf("install Strong's numbers: %w", err)
	}
	log.Printf("[DOWNLOAD] Installed Strong's numbers (%d verses, %d hebrew, %d greek)",
		len(verses), len(words.Hebrew), len(words.Greek))
	return nil
}

func (m *StrongNumberManager) IsDownloading() bool {
	return m.guard.InFlight(strongNumbersJobKey)
}

// Read returns the Strong's numbers of a verse in text order. Numbers
// without a lexicon entry are skipped.
func (m *StrongNumberManager) Read(index entities.VerseIndex) ([]entities.StrongNumber, error) {
	if !index.IsValid() {
		return nil, ErrInvalidVerseIndex
	}

	numbers, err := m.store.ReadNumbers(index)
	if err != nil {
		return nil, err
	}
	formatted := make([]string, len(numbers))
	for i, n := range numbers {
		formatted[i] = entities.FormatStrongNumber(index.BookIndex, n)
	}

	words, err := m.store.ReadWords(formatted)
	if err != nil {
		return nil, err
	}

	result := make([]entities.StrongNumber, 0, len(formatted))
	for _, number := range formatted {
		if word, ok := words[number]; ok {
			result = append(result, word)
		}
	}
	return result, nil
}

func (m *StrongNumberManager) HasData() (bool, error) {
	return m.store.HasData()
}
