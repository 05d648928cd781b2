package parser

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-qa/internal/models"
)

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged files left behind")
}

func samplePDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, text := range pages {
		doc.AddPage()
		doc.Cell(40, 10, text)
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestLoadUnsupportedSuffix(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)

	for _, name := range []string{"notes.txt", "report.docx", "noext"} {
		_, err := loader.Load(context.Background(), models.UploadedFile{
			Filename: name,
			Content:  strings.NewReader("irrelevant"),
		})
		require.Error(t, err)
		assert.True(t, models.IsFileTypeError(err), name)
		assert.Equal(t, "Unsupported document type", err.Error())
	}
	assertDirEmpty(t, dir)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)

	doc := `{"content":[
		{"title":"A","body":"first body"},
		{"title":"B"},
		{"title":"C","body":null},
		{"title":"D","body":{"k":[1, 2]}},
		{"title":"E","body":[]},
		{"title":"F","body":42},
		{"title":"G","body":true}
	]}`

	pages, err := loader.Load(context.Background(), models.UploadedFile{
		Filename: "Company.JSON",
		Content:  strings.NewReader(doc),
	})
	require.NoError(t, err)
	require.Len(t, pages, 7)

	want := []string{"first body", "", "", `{"k":[1,2]}`, "", "42", "true"}
	for i, page := range pages {
		assert.Equal(t, want[i], page.Content, "page %d", i)
		assert.Equal(t, i, page.Index)
		assert.Equal(t, "Company.JSON", page.Source)
	}
	assertDirEmpty(t, dir)
}

func TestLoadJSONFailures(t *testing.T) {
	cases := map[string]string{
		"malformed":         `{"content": [`,
		"missing content":   `{"items": []}`,
		"content not array": `{"content": "body"}`,
		"record not object": `{"content": ["body"]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := NewLoader(dir).Load(context.Background(), models.UploadedFile{
				Filename: "doc.json",
				Content:  strings.NewReader(body),
			})
			require.Error(t, err)
			assert.True(t, models.IsParsingError(err))
			assert.True(t, strings.HasPrefix(err.Error(), "Error processing JSON document: "), err.Error())
			assertDirEmpty(t, dir)
		})
	}
}

func TestLoadPDF(t *testing.T) {
	dir := t.TempDir()
	data := samplePDF(t, "Hello first page", "Hello second page")

	pages, err := NewLoader(dir).Load(context.Background(), models.UploadedFile{
		Filename: "sample.pdf",
		Content:  bytes.NewReader(data),
	})
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 0, pages[0].Index)
	assert.Equal(t, 1, pages[1].Index)
	assert.Contains(t, pages[0].Content, "first")
	assert.Contains(t, pages[1].Content, "second")
	assertDirEmpty(t, dir)
}

func TestLoadMalformedPDF(t *testing.T) {
	dir := t.TempDir()

	_, err := NewLoader(dir).Load(context.Background(), models.UploadedFile{
		Filename: "broken.pdf",
		Content:  strings.NewReader("this is not a pdf"),
	})
	require.Error(t, err)
	assert.True(t, models.IsParsingError(err))
	assert.True(t, strings.HasPrefix(err.Error(), "Error processing PDF document: "), err.Error())
	assertDirEmpty(t, dir)
}

func TestLoadCanceledContext(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(dir).Load(ctx, models.UploadedFile{
		Filename: "doc.json",
		Content:  strings.NewReader(`{"content":[]}`),
	})
	require.Error(t, err)
	assert.True(t, models.IsParsingError(err))
	assert.ErrorIs(t, err, context.Canceled)
	assertDirEmpty(t, dir)
}
