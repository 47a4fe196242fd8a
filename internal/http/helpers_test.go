package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/remote"
	"github.com/mrlokans/joshua/internal/services"
	"github.com/mrlokans/joshua/internal/tasks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseVerseIndexParams_Valid(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "book", Value: "42"}, {Key: "chapter", Value: "2"}, {Key: "verse", Value: "15"}}

	index, ok := parseVerseIndexParams(c)

	assert.True(t, ok)
	assert.Equal(t, entities.NewVerseIndex(42, 2, 15), index)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseVerseIndexParams_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		params  gin.Params
		message string
	}{
		{"not a number", gin.Params{{Key: "book", Value: "abc"}, {Key: "chapter", Value: "0"}, {Key: "verse", Value: "0"}}, "invalid book"},
		{"negative", gin.Params{{Key: "book", Value: "0"}, {Key: "chapter", Value: "-1"}, {Key: "verse", Value: "0"}}, "invalid chapter"},
		{"chapter out of range", gin.Params{{Key: "book", Value: "0"}, {Key: "chapter", Value: "50"}, {Key: "verse", Value: "0"}}, "invalid verse index"},
		{"verse out of range", gin.Params{{Key: "book", Value: "0"}, {Key: "chapter", Value: "0"}, {Key: "verse", Value: "176"}}, "invalid verse index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = tt.params

			index, ok := parseVerseIndexParams(c)

			assert.False(t, ok)
			assert.Equal(t, entities.InvalidVerseIndex, index)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}
}

func TestParseSortQuery(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/?sort=book", nil)

	order, ok := parseSortQuery(c, entities.SortByDate)
	assert.True(t, ok)
	assert.Equal(t, entities.SortByBook, order)

	c.Request = httptest.NewRequest("GET", "/", nil)
	order, ok = parseSortQuery(c, entities.SortByDate)
	assert.True(t, ok)
	assert.Equal(t, entities.SortByDate, order)

	c.Request = httptest.NewRequest("GET", "/?sort=title", nil)
	_, ok = parseSortQuery(c, entities.SortByDate)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseHighlightColor(t *testing.T) {
	tests := []struct {
		input   string
		want    entities.HighlightColor
		wantErr bool
	}{
		{"yellow", entities.HighlightColorYellow, false},
		{"none", entities.HighlightColorNone, false},
		{"#FF2196F3", entities.HighlightColorBlue, false},
		{"-256", entities.HighlightColorYellow, false},
		{"-14575885", entities.HighlightColorBlue, false},
		{"12345", entities.HighlightColorNone, true},
		{"teal", entities.HighlightColorNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			color, err := parseHighlightColor(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, color)
		})
	}
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{services.ErrInvalidVerseIndex, http.StatusBadRequest},
		{services.ErrEmptyQuery, http.StatusBadRequest},
		{fmt.Errorf("KJV: %w", services.ErrTranslationNotDownloaded), http.StatusConflict},
		{services.ErrCannotRemoveCurrentTranslation, http.StatusConflict},
		{tasks.ErrAlreadyQueued, http.StatusConflict},
		{fmt.Errorf("XYZ: %w", services.ErrTranslationNotFound), http.StatusNotFound},
		{services.ErrAnnotationNotFound, http.StatusNotFound},
		{remote.ErrDisabled, http.StatusServiceUnavailable},
		{tasks.ErrQueueDisabled, http.StatusNotImplemented},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, tt.err, "test")

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "disk full")
			}
		})
	}
}
