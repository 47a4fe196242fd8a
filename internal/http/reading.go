package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/services"
)

// ReadingController exposes the reading position, parallel translations
// and chapter text.
type ReadingController struct {
	reading  *services.ReadingManager
	settings *services.SettingsManager
}

func NewReadingController(reading *services.ReadingManager, settings *services.SettingsManager) *ReadingController {
	return &ReadingController{reading: reading, settings: settings}
}

// CurrentReading is the body of GET and PUT /api/reading/current.
type CurrentReading struct {
	Translation string               `json:"translation"`
	VerseIndex  *entities.VerseIndex `json:"verse_index"`
}

// GetCurrent handles GET /api/reading/current
func (rc *ReadingController) GetCurrent(c *gin.Context) {
	translation, err := rc.reading.CurrentTranslation()
	if err != nil {
		respondInternalError(c, err, "read current translation")
		return
	}
	index, err := rc.reading.CurrentVerseIndex()
	if err != nil {
		respondInternalError(c, err, "read current verse")
		return
	}
	c.JSON(http.StatusOK, CurrentReading{Translation: translation, VerseIndex: &index})
}

// PutCurrent handles PUT /api/reading/current. Either field may be omitted.
func (rc *ReadingController) PutCurrent(c *gin.Context) {
	var body CurrentReading
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if body.Translation == "" && body.VerseIndex == nil {
		respondBadRequest(c, "translation or verse_index is required")
		return
	}

	if body.VerseIndex != nil && !body.VerseIndex.IsValid() {
		respondBadRequest(c, services.ErrInvalidVerseIndex.Error())
		return
	}
	if body.Translation != "" {
		if err := rc.reading.SaveCurrentTranslation(body.Translation); err != nil {
			respondServiceError(c, err, "save current translation")
			return
		}
	}
	if body.VerseIndex != nil {
		if err := rc.reading.SaveCurrentVerseIndex(*body.VerseIndex); err != nil {
			respondServiceError(c, err, "save current verse")
			return
		}
	}
	rc.GetCurrent(c)
}

// GetParallel handles GET /api/reading/parallel
func (rc *ReadingController) GetParallel(c *gin.Context) {
	parallel, err := rc.reading.ParallelTranslations()
	if err != nil {
		respondInternalError(c, err, "read parallel translations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"parallel": parallel})
}

// PutParallel handles PUT /api/reading/parallel/:shortName
func (rc *ReadingController) PutParallel(c *gin.Context) {
	if err := rc.reading.RequestParallelTranslation(c.Param("shortName")); err != nil {
		respondServiceError(c, err, "add parallel translation")
		return
	}
	rc.GetParallel(c)
}

// DeleteParallel handles DELETE /api/reading/parallel/:shortName
func (rc *ReadingController) DeleteParallel(c *gin.Context) {
	if err := rc.reading.RemoveParallelTranslation(c.Param("shortName")); err != nil {
		respondServiceError(c, err, "remove parallel translation")
		return
	}
	rc.GetParallel(c)
}

// ClearParallel handles DELETE /api/reading/parallel
func (rc *ReadingController) ClearParallel(c *gin.Context) {
	if err := rc.reading.ClearParallelTranslations(); err != nil {
		respondInternalError(c, err, "clear parallel translations")
		return
	}
	rc.GetParallel(c)
}

// BookResponse is one entry of GET /api/books.
type BookResponse struct {
	BookIndex    int    `json:"book_index"`
	Name         string `json:"name"`
	ShortName    string `json:"short_name"`
	ChapterCount int    `json:"chapter_count"`
}

// Books handles GET /api/books?translation=
func (rc *ReadingController) Books(c *gin.Context) {
	translation, err := translationQuery(c, rc.reading)
	if err != nil {
		respondServiceError(c, err, "resolve translation")
		return
	}
	names, err := rc.reading.ReadBookNames(translation)
	if err != nil {
		respondInternalError(c, err, "read book names")
		return
	}
	shortNames, err := rc.reading.ReadBookShortNames(translation)
	if err != nil {
		respondInternalError(c, err, "read book short names")
		return
	}
	if len(names) == 0 {
		respondServiceError(c, services.ErrTranslationNotDownloaded, "read book names")
		return
	}

	books := make([]BookResponse, len(names))
	for i, name := range names {
		books[i] = BookResponse{BookIndex: i, Name: name, ChapterCount: entities.ChapterCount(i)}
		if i < len(shortNames) {
			books[i].ShortName = shortNames[i]
		}
	}
	c.JSON(http.StatusOK, gin.H{"translation": translation, "books": books})
}

// Verses handles GET /api/verses/:book/:chapter?translation=&parallel=A,B
// Without ?parallel= the saved parallel translations are used.
func (rc *ReadingController) Verses(c *gin.Context) {
	book, chapter, ok := parseChapterParams(c)
	if !ok {
		return
	}
	translation, err := translationQuery(c, rc.reading)
	if err != nil {
		respondServiceError(c, err, "resolve translation")
		return
	}

	var parallel []string
	if raw, present := c.GetQuery("parallel"); present {
		for _, shortName := range strings.Split(raw, ",") {
			if shortName = strings.TrimSpace(shortName); shortName != "" {
				parallel = append(parallel, shortName)
			}
		}
	} else if parallel, err = rc.reading.ParallelTranslations(); err != nil {
		respondInternalError(c, err, "read parallel translations")
		return
	}

	verses, err := rc.reading.ReadVerses(translation, parallel, book, chapter)
	if err != nil {
		respondServiceError(c, err, "read verses")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"translation": translation,
		"parallel":    parallel,
		"verses":      verses,
	})
}

// ShareRequest is the body of POST /api/verses/share.
type ShareRequest struct {
	Verses      []entities.VerseIndex `json:"verses" binding:"required"`
	Consolidate *bool                 `json:"consolidate"`
}

// Share handles POST /api/verses/share. Without "consolidate" the saved
// setting decides.
func (rc *ReadingController) Share(c *gin.Context) {
	var body ShareRequest
	if err := c.ShouldBindJSON(&body); err != nil || len(body.Verses) == 0 {
		respondBadRequest(c, "verses are required")
		return
	}

	consolidate := false
	if body.Consolidate != nil {
		consolidate = *body.Consolidate
	} else {
		settings, err := rc.settings.Read()
		if err != nil {
			respondInternalError(c, err, "read settings")
			return
		}
		consolidate = settings.ConsolidateVersesForSharing
	}

	text, err := rc.reading.ShareVerses(body.Verses, consolidate)
	if err != nil {
		respondServiceError(c, err, "share verses")
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}
