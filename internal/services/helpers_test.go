package services

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/joshua/internal/database"
	"github.com/mrlokans/joshua/internal/database/annotations"
	"github.com/mrlokans/joshua/internal/database/metadata"
	"github.com/mrlokans/joshua/internal/database/progress"
	"github.com/mrlokans/joshua/internal/database/strongs"
	"github.com/mrlokans/joshua/internal/database/translations"
	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/remote"
)

// fakeSource serves translations and Strong's numbers from memory.
type fakeSource struct {
	mu           sync.Mutex
	disabled     bool
	catalog      []entities.TranslationInfo
	catalogErr   error
	catalogCalls int
	translations map[string]*remote.RemoteTranslation
	// block, when set, holds FetchTranslation until closed.
	block   chan struct{}
	started chan struct{}

	strongVerses map[entities.VerseIndex][]int
	strongWords  *remote.StrongNumberWords
}

func (f *fakeSource) Enabled() bool {
	return !f.disabled
}

func (f *fakeSource) FetchTranslationList(ctx context.Context) ([]entities.TranslationInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogCalls++
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return append([]entities.TranslationInfo(nil), f.catalog...), nil
}

func (f *fakeSource) FetchTranslation(ctx context.Context, info entities.TranslationInfo, progress chan<- int) (*remote.RemoteTranslation, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	notify(progress, 0)
	notify(progress, 50)
	notify(progress, 99)

	f.mu.Lock()
	defer f.mu.Unlock()
	translation, ok := f.translations[info.ShortName]
	if !ok {
		return nil, remote.ErrNotFound
	}
	copied := *translation
	copied.Info = info
	copied.Verses = append([]entities.VerseRow(nil), translation.Verses...)
	return &copied, nil
}

func (f *fakeSource) FetchStrongNumberVerses(ctx context.Context, progress chan<- int) (map[entities.VerseIndex][]int, error) {
	notify(progress, 0)
	notify(progress, 99)
	return f.strongVerses, nil
}

func (f *fakeSource) FetchStrongNumberWords(ctx context.Context, progress chan<- int) (*remote.StrongNumberWords, error) {
	notify(progress, 0)
	notify(progress, 99)
	return f.strongWords, nil
}

func testBookNames(prefix string) []string {
	names := make([]string, entities.BookCount)
	for i := range names {
		names[i] = prefix + string(rune('A'+i%26))
	}
	names[0] = prefix + "Genesis"
	names[42] = prefix + "John"
	return names
}

func testBookShortNames() []string {
	names := make([]string, entities.BookCount)
	for i := range names {
		names[i] = string(rune('a' + i%26))
	}
	names[0] = "Gen."
	names[42] = "John"
	return names
}

func makeRemoteTranslation(verses map[entities.VerseIndex]string) *remote.RemoteTranslation {
	rows := make([]entities.VerseRow, 0, len(verses))
	for index, text := range verses {
		rows = append(rows, entities.VerseRow{
			BookIndex:    index.BookIndex,
			ChapterIndex: index.ChapterIndex,
			VerseIndex:   index.VerseIndex,
			Text:         text,
		})
	}
	return &remote.RemoteTranslation{
		BookNames:      testBookNames(""),
		BookShortNames: testBookShortNames(),
		Verses:         rows,
	}
}

var (
	kjvInfo = entities.TranslationInfo{ShortName: "KJV", Name: "King James Version", Language: "en_gb"}
	esvInfo = entities.TranslationInfo{ShortName: "ESV", Name: "English Standard Version", Language: "en_us"}
	cuvInfo = entities.TranslationInfo{ShortName: "CUV", Name: "Chinese Union Version", Language: "zh_cn"}
)

func newFakeSource() *fakeSource {
	return &fakeSource{
		catalog: []entities.TranslationInfo{kjvInfo, esvInfo, cuvInfo},
		translations: map[string]*remote.RemoteTranslation{
			"KJV": makeRemoteTranslation(map[entities.VerseIndex]string{
				entities.NewVerseIndex(0, 0, 0):  "In the beginning God created the heaven and the earth.",
				entities.NewVerseIndex(0, 0, 1):  "And the earth was without form, and void.",
				entities.NewVerseIndex(0, 0, 2):  "",
				entities.NewVerseIndex(0, 0, 3):  "And God saw the light, that it was good.",
				entities.NewVerseIndex(0, 1, 0):  "Thus the heavens and the earth were finished.",
				entities.NewVerseIndex(42, 0, 0): "In the beginning was the Word.",
			}),
			"ESV": makeRemoteTranslation(map[entities.VerseIndex]string{
				entities.NewVerseIndex(0, 0, 0): "In the beginning, God created the heavens and the earth.",
				entities.NewVerseIndex(0, 0, 1): "The earth was without form and void,",
				entities.NewVerseIndex(0, 0, 2): "and darkness was over the face of the deep.",
			}),
			"CUV": makeRemoteTranslation(map[entities.VerseIndex]string{
				entities.NewVerseIndex(0, 0, 0): "起初，神创造天地。",
			}),
		},
		strongVerses: map[entities.VerseIndex][]int{
			entities.NewVerseIndex(0, 0, 0):  {7225, 430},
			entities.NewVerseIndex(42, 0, 0): {746, 3056},
		},
		strongWords: &remote.StrongNumberWords{
			Hebrew: map[int]string{7225: "beginning", 430: "God"},
			Greek:  map[int]string{746: "beginning", 3056: "word"},
		},
	}
}

type testEnv struct {
	db           *gorm.DB
	source       *fakeSource
	metadata     *metadata.Repository
	progress     *progress.Repository
	reading      *ReadingManager
	translations *TranslationManager
	bookmarks    *BookmarkManager
	highlights   *HighlightManager
	notes        *NoteManager
	strongs      *StrongNumberManager
}

func setupTestEnv(t *testing.T) (*testEnv, func()) {
	dbPath := "./test_services_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	source := newFakeSource()
	metadataRepo := metadata.NewRepository(db)
	translationsRepo := translations.NewRepository(db)

	reading := NewReadingManager(metadataRepo, translationsRepo, translationsRepo)
	env := &testEnv{
		db:       db,
		source:   source,
		metadata: metadataRepo,
		progress: progress.NewRepository(db),
		reading:  reading,
		translations: NewTranslationManager(translationsRepo, metadataRepo, source, reading, TranslationManagerConfig{
			MaxAge:            24 * time.Hour,
			PreferredLanguage: "en",
		}),
		bookmarks:  NewBookmarkManager(annotations.NewBookmarkRepository(db), reading),
		highlights: NewHighlightManager(annotations.NewHighlightRepository(db), reading),
		notes:      NewNoteManager(annotations.NewNoteRepository(db), reading),
		strongs:    NewStrongNumberManager(strongs.NewRepository(db), source),
	}
	env.bookmarks.loc = time.UTC
	env.highlights.loc = time.UTC
	env.notes.loc = time.UTC

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return env, cleanup
}

// install loads the catalog and downloads the given translations; the first
// one becomes current.
func (e *testEnv) install(t *testing.T, shortNames ...string) {
	t.Helper()
	_, err := e.translations.ReloadTranslations(context.Background(), true)
	require.NoError(t, err)
	for _, shortName := range shortNames {
		require.NoError(t, e.translations.DownloadTranslation(context.Background(), shortName, nil))
	}
}
