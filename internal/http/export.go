package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/exporters"
	"github.com/mrlokans/joshua/internal/utils"
)

// ExportController exports every annotation as markdown or EPUB.
type ExportController struct {
	bookmarks  exporters.AnnotationLister
	highlights exporters.AnnotationLister
	notes      exporters.AnnotationLister
	formats    map[string]exporters.Exporter
}

func NewExportController(bookmarks, highlights, notes exporters.AnnotationLister, exportDir string) *ExportController {
	return &ExportController{
		bookmarks:  bookmarks,
		highlights: highlights,
		notes:      notes,
		formats: map[string]exporters.Exporter{
			"markdown": exporters.NewMarkdownExporter(exportDir),
			"epub":     exporters.NewEPUBExporter(exportDir),
		},
	}
}

func (ec *ExportController) collect(c *gin.Context) (*exporters.Document, bool) {
	order, ok := parseSortQuery(c, entities.SortByBook)
	if !ok {
		return nil, false
	}
	doc, err := exporters.Collect(order, ec.bookmarks, ec.highlights, ec.notes)
	if err != nil {
		respondServiceError(c, err, "collect annotations")
		return nil, false
	}
	return doc, true
}

// Markdown handles GET /api/export/markdown?sort= and returns the document
// as an attachment.
func (ec *ExportController) Markdown(c *gin.Context) {
	doc, ok := ec.collect(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+utils.ExportFilename(doc.Title, ".md")+`"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(exporters.GenerateMarkdown(doc)))
}

// Export handles POST /api/export/:format and writes the file to the
// export directory.
func (ec *ExportController) Export(c *gin.Context) {
	exporter, found := ec.formats[c.Param("format")]
	if !found {
		respondBadRequest(c, "unknown export format: "+c.Param("format"))
		return
	}
	doc, ok := ec.collect(c)
	if !ok {
		return
	}

	result, err := exporter.Export(doc)
	if err != nil {
		respondInternalError(c, err, "export annotations")
		return
	}
	c.JSON(http.StatusOK, result)
}
