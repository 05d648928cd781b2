package render

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	fontFamily   = "Helvetica"
	titleSize    = 18.0
	bodySize     = 10.0
	bodyLeading  = 12.0
	sectionSpace = 12.0
	pageMargin   = 72.0 // one inch, in points
)

// Options controls pagination.
type Options struct {
	// BreakAfter forces a new page after the section with this title.
	BreakAfter string
}

// WritePDF renders doc onto letter-size pages and writes the PDF to w. It
// returns the number of pages produced. Section bodies are parsed as markdown
// so emphasis is kept.
func WritePDF(w io.Writer, doc Document, opts Options) (int, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	md := goldmark.New()
	for i, section := range doc.Content {
		writeTitle(pdf, section.Title)

		source := []byte(section.Body)
		r := &sectionRenderer{pdf: pdf, source: source}
		if err := ast.Walk(md.Parser().Parse(text.NewReader(source)), r.walk); err != nil {
			return 0, fmt.Errorf("failed to render section %q: %w", section.Title, err)
		}
		pdf.Ln(sectionSpace)

		if opts.BreakAfter != "" && section.Title == opts.BreakAfter && i < len(doc.Content)-1 {
			pdf.AddPage()
		}
	}

	if err := pdf.Error(); err != nil {
		return 0, fmt.Errorf("failed to generate PDF: %w", err)
	}
	pages := pdf.PageNo()
	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("failed to generate PDF output: %w", err)
	}
	return pages, nil
}

// WriteFile renders doc to path and confirms the page count by reading the
// written file back.
func WriteFile(path string, doc Document, opts Options) (int, error) {
	var buf bytes.Buffer
	if _, err := WritePDF(&buf, doc, opts); err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	pages, err := PageCount(path)
	if err != nil {
		return 0, err
	}
	log.Debug().Str("path", path).Int("pages", pages).Int("bytes", buf.Len()).Msg("PDF written")
	return pages, nil
}

// PageCount reads the page count of an existing PDF file.
func PageCount(path string) (int, error) {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF context: %w", err)
	}
	return pdfCtx.PageCount, nil
}

func writeTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont(fontFamily, "B", titleSize)
	pdf.MultiCell(0, titleSize*1.2, title, "", "C", false)
	pdf.Ln(titleSize / 2)
}

type sectionRenderer struct {
	pdf    *fpdf.Fpdf
	source []byte
	bold   bool
	italic bool
}

func (r *sectionRenderer) updateFont() {
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.pdf.SetFont(fontFamily, style, bodySize)
}

func (r *sectionRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Document:
		if entering {
			r.updateFont()
		}
	case *ast.Paragraph:
		if !entering {
			r.pdf.Ln(bodyLeading)
		}
	case *ast.Emphasis:
		if node.Level == 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.updateFont()
	case *ast.Text:
		if entering {
			r.pdf.Write(bodyLeading, string(node.Segment.Value(r.source)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				r.pdf.Write(bodyLeading, " ")
			}
		}
	case *ast.CodeSpan:
		if entering {
			r.pdf.SetFont("Courier", "", bodySize)
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					r.pdf.Write(bodyLeading, string(t.Segment.Value(r.source)))
				}
			}
			r.updateFont()
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}
