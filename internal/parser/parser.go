package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"document-qa/internal/helper"
	"document-qa/internal/models"
)

const (
	extPDF  = ".pdf"
	extJSON = ".json"

	jsonContentPath = "content"
	jsonBodyField   = "body"
)

// DocumentLoader turns an uploaded file into ordered pages.
type DocumentLoader interface {
	Load(ctx context.Context, file models.UploadedFile) ([]models.Page, error)
}

// Loader dispatches uploads to the PDF or JSON loader by filename suffix.
type Loader struct {
	tempDir string
}

var _ DocumentLoader = (*Loader)(nil)

// NewLoader stages uploads under tempDir (os.TempDir when empty).
func NewLoader(tempDir string) *Loader {
	return &Loader{tempDir: tempDir}
}

// Load returns one page per PDF page or JSON content record. Unsupported
// suffixes fail before anything is written to disk.
func (l *Loader) Load(ctx context.Context, file models.UploadedFile) ([]models.Page, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case extPDF:
		pages, err := l.stageAndParse(ctx, file, ext, parsePDF)
		if err != nil {
			return nil, models.NewParsingError("Error processing PDF document", err)
		}
		return pages, nil
	case extJSON:
		pages, err := l.stageAndParse(ctx, file, ext, parseJSON)
		if err != nil {
			return nil, models.NewParsingError("Error processing JSON document", err)
		}
		return pages, nil
	default:
		log.Debug().Str("filename", file.Filename).Msg("Rejected document type")
		return nil, models.NewFileTypeError("Unsupported document type")
	}
}

func (l *Loader) stageAndParse(ctx context.Context, file models.UploadedFile, ext string, parse func(path, source string) ([]models.Page, error)) ([]models.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if file.Content == nil {
		return nil, fmt.Errorf("file %q has no content", file.Filename)
	}

	path, cleanup, err := helper.StageTempFile(l.tempDir, file.Content, ext)
	defer cleanup()
	if err != nil {
		return nil, err
	}

	pages, err := parse(path, file.Filename)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("filename", file.Filename).Int("pages", len(pages)).Msg("Loaded document")
	return pages, nil
}

// parsePDF extracts plain text for every page, empty pages included.
func parsePDF(filePath, source string) (pages []models.Page, err error) {
	// the pdf library panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages = make([]models.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		var pageText string
		if !page.V.IsNull() {
			pageText, err = page.GetPlainText(nil)
			if err != nil {
				return nil, fmt.Errorf("failed to read page %d: %w", i, err)
			}
		}
		pages = append(pages, models.Page{
			Content: pageText,
			Source:  source,
			Index:   i - 1,
		})
	}
	return pages, nil
}

// parseJSON extracts every content[].body value, one page per record. A
// record without a body yields an empty page so indices stay aligned.
func parseJSON(filePath, source string) ([]models.Page, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json")
	}

	content := gjson.GetBytes(data, jsonContentPath)
	if !content.IsArray() {
		return nil, fmt.Errorf("expected a %s array, got %s", jsonContentPath, describe(content))
	}

	records := content.Array()
	pages := make([]models.Page, 0, len(records))
	for i, record := range records {
		if !record.IsObject() && record.Type != gjson.Null {
			return nil, fmt.Errorf("%s[%d] is %s, cannot read %s", jsonContentPath, i, describe(record), jsonBodyField)
		}
		pages = append(pages, models.Page{
			Content: bodyText(record.Get(jsonBodyField)),
			Source:  source,
			Index:   i,
		})
	}
	return pages, nil
}

// bodyText renders a body value as text: strings verbatim, containers as
// compact json, null/missing/empty containers as "" and other scalars as
// their json literal.
func bodyText(v gjson.Result) string {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return ""
	case v.Type == gjson.String:
		return v.Str
	case v.IsArray():
		if len(v.Array()) == 0 {
			return ""
		}
		return v.Get("@ugly").Raw
	case v.IsObject():
		if len(v.Map()) == 0 {
			return ""
		}
		return v.Get("@ugly").Raw
	default:
		return v.Raw
	}
}

func describe(v gjson.Result) string {
	switch {
	case !v.Exists():
		return "missing"
	case v.IsArray():
		return "an array"
	case v.IsObject():
		return "an object"
	default:
		return strings.ToLower(v.Type.String())
	}
}
