package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/joshua/internal/services"
)

type SearchController struct {
	searcher *services.Searcher
}

func NewSearchController(searcher *services.Searcher) *SearchController {
	return &SearchController{searcher: searcher}
}

// Search handles GET /api/search?q=&instant=true
// Instant searches return a limited, uncached result set for search-as-you-type.
func (sc *SearchController) Search(c *gin.Context) {
	result, err := sc.searcher.Search(c.Request.Context(), services.SearchRequest{
		Query:         c.Query("q"),
		InstantSearch: c.Query("instant") == "true",
	})
	if err != nil {
		respondServiceError(c, err, "search verses")
		return
	}
	c.JSON(http.StatusOK, result)
}
