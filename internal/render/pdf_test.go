package render

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePDFBreaksAfterSection(t *testing.T) {
	var buf bytes.Buffer
	pages, err := WritePDF(&buf, SampleDocument(), Options{BreakAfter: PageBreakAfter})
	require.NoError(t, err)

	assert.Equal(t, 2, pages)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePDFWithoutBreak(t *testing.T) {
	var buf bytes.Buffer
	pages, err := WritePDF(&buf, SampleDocument(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestWritePDFFlowsLongSections(t *testing.T) {
	long := ""
	for i := 0; i < 400; i++ {
		long += "This *sentence* keeps the **section** going. "
	}
	doc := Document{Content: []Section{{Title: "Long", Body: long}}}

	var buf bytes.Buffer
	pages, err := WritePDF(&buf, doc, Options{})
	require.NoError(t, err)
	assert.Greater(t, pages, 1)
}

func TestWriteFileReportsPageCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.pdf")

	pages, err := WriteFile(path, SampleDocument(), Options{BreakAfter: PageBreakAfter})
	require.NoError(t, err)
	assert.Equal(t, 2, pages)

	pages, err = PageCount(path)
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
}

func TestPageCountMissingFile(t *testing.T) {
	_, err := PageCount(filepath.Join(t.TempDir(), "absent.pdf"))
	assert.Error(t, err)
}
