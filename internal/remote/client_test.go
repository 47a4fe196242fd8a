package remote

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/joshua/internal/entities"
)

func buildZip(t *testing.T, files map[string]any) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		switch v := content.(type) {
		case string:
			_, err = f.Write([]byte(v))
		default:
			err = json.NewEncoder(f).Encode(v)
		}
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func bookNames(prefix string) []string {
	names := make([]string, entities.BookCount)
	for i := range names {
		names[i] = prefix
	}
	return names
}

func translationArchive(t *testing.T) []byte {
	return buildZip(t, map[string]any{
		"books.json": map[string]any{
			"shortName":      "KJV",
			"name":           "King James Version",
			"language":       "en_gb",
			"bookNames":      bookNames("Genesis"),
			"bookShortNames": bookNames("Gen."),
		},
		"0-0.json":   map[string]any{"verses": []string{"In the beginning", "And the earth"}},
		"42-0.json":  map[string]any{"verses": []string{"In the beginning was the Word"}},
		"99-0.json":  map[string]any{"verses": []string{"ignored"}},
		"README.txt": "ignored",
	})
}

func newTestServer(t *testing.T, routes map[string][]byte) (*httptest.Server, *int32) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func drain(progress chan int) []int {
	var values []int
	for {
		select {
		case v := <-progress:
			values = append(values, v)
		default:
			return values
		}
	}
}

func TestClient_FetchTranslationList(t *testing.T) {
	list := []byte(`{"translations":[
		{"name":"King James Version","shortName":"KJV","language":"en_gb","size":1860978},
		{"name":"broken","shortName":"","language":"en_us","size":1}
	]}`)
	server, _ := newTestServer(t, map[string][]byte{"/list.json": list})

	client := NewClient(server.URL+"/", 5*time.Second, nil)
	translations, err := client.FetchTranslationList(context.Background())
	require.NoError(t, err)
	require.Len(t, translations, 1)
	assert.Equal(t, entities.TranslationInfo{
		ShortName: "KJV",
		Name:      "King James Version",
		Language:  "en_gb",
		Size:      1860978,
	}, translations[0])
}

func TestClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/list.json" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)

	_, err := client.FetchTranslationList(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	_, err = client.FetchTranslation(context.Background(), entities.TranslationInfo{ShortName: "XYZ"}, nil)
	assert.True(t, errors.Is(err, ErrNotFound))

	disabled := NewClient("", time.Second, nil)
	assert.False(t, disabled.Enabled())
	_, err = disabled.FetchTranslationList(context.Background())
	assert.True(t, errors.Is(err, ErrDisabled))
}

func TestClient_FetchTranslation(t *testing.T) {
	server, _ := newTestServer(t, map[string][]byte{"/translations/KJV.zip": translationArchive(t)})
	client := NewClient(server.URL, 5*time.Second, nil)

	info := entities.TranslationInfo{ShortName: "KJV", Name: "KJV (catalog)", Language: "en_gb"}
	progress := make(chan int, 128)
	translation, err := client.FetchTranslation(context.Background(), info, progress)
	require.NoError(t, err)

	assert.Equal(t, info, translation.Info)
	assert.Len(t, translation.BookNames, entities.BookCount)
	assert.Equal(t, "Gen.", translation.BookShortNames[0])
	require.Len(t, translation.Verses, 3)

	byIndex := make(map[entities.VerseIndex]string)
	for _, verse := range translation.Verses {
		byIndex[verse.Index()] = verse.Text
	}
	assert.Equal(t, "And the earth", byIndex[entities.NewVerseIndex(0, 0, 1)])
	assert.Equal(t, "In the beginning was the Word", byIndex[entities.NewVerseIndex(42, 0, 0)])

	values := drain(progress)
	require.NotEmpty(t, values)
	assert.Equal(t, 0, values[0])
	assert.Equal(t, 99, values[len(values)-1])
	for i := 1; i < len(values); i++ {
		assert.LessOrEqual(t, values[i-1], values[i])
		assert.LessOrEqual(t, values[i], 99)
	}
}

func TestClient_FetchTranslation_MissingBooks(t *testing.T) {
	archive := buildZip(t, map[string]any{"0-0.json": map[string]any{"verses": []string{"x"}}})
	server, _ := newTestServer(t, map[string][]byte{"/translations/KJV.zip": archive})
	client := NewClient(server.URL, 5*time.Second, nil)

	_, err := client.FetchTranslation(context.Background(), entities.TranslationInfo{ShortName: "KJV"}, nil)
	assert.Error(t, err)
}

func TestClient_FetchTranslation_UsesCache(t *testing.T) {
	server, hits := newTestServer(t, map[string][]byte{"/translations/KJV.zip": translationArchive(t)})
	cache, err := NewArchiveCache(t.TempDir())
	require.NoError(t, err)
	client := NewClient(server.URL, 5*time.Second, cache)

	info := entities.TranslationInfo{ShortName: "KJV"}
	_, err = client.FetchTranslation(context.Background(), info, nil)
	require.NoError(t, err)
	_, err = client.FetchTranslation(context.Background(), info, nil)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	_, ok := cache.Lookup(server.URL + translationPath("KJV"))
	assert.True(t, ok)
}

func TestClient_FetchStrongNumbers(t *testing.T) {
	verses := buildZip(t, map[string]any{
		"0-0.json":  map[string][]int{"0": {7225, 1254, 430}, "1": {776}},
		"42-0.json": map[string][]int{"0": {746, 2258, 3056}},
	})
	words := buildZip(t, map[string]any{
		"hebrew.json": map[string]string{"430": "God"},
		"greek.json":  map[string]string{"3056": "word"},
	})
	server, _ := newTestServer(t, map[string][]byte{
		"/strong_number/sn_verses.zip": verses,
		"/strong_number/sn_words.zip":  words,
	})
	client := NewClient(server.URL, 5*time.Second, nil)

	parsedVerses, err := client.FetchStrongNumberVerses(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, parsedVerses, 3)
	assert.Equal(t, []int{7225, 1254, 430}, parsedVerses[entities.NewVerseIndex(0, 0, 0)])

	parsedWords, err := client.FetchStrongNumberWords(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "God", parsedWords.Hebrew[430])
	assert.Equal(t, "word", parsedWords.Greek[3056])
}

func TestClient_FetchStrongNumberWords_Incomplete(t *testing.T) {
	words := buildZip(t, map[string]any{"hebrew.json": map[string]string{"1": "father"}})
	server, _ := newTestServer(t, map[string][]byte{"/strong_number/sn_words.zip": words})
	client := NewClient(server.URL, 5*time.Second, nil)

	_, err := client.FetchStrongNumberWords(context.Background(), nil)
	assert.Error(t, err)
}

func TestParseChapterFilename(t *testing.T) {
	tests := []struct {
		name    string
		book    int
		chapter int
		ok      bool
	}{
		{"0-0.json", 0, 0, true},
		{"65-21.json", 65, 21, true},
		{"65-22.json", 0, 0, false},
		{"66-0.json", 0, 0, false},
		{"books.json", 0, 0, false},
		{"1-2-3.json", 0, 0, false},
		{"01-2.json", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book, chapter, ok := parseChapterFilename(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.book, book)
				assert.Equal(t, tt.chapter, chapter)
			}
		})
	}
}
