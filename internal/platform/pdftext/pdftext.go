// Package pdftext extracts the text layer from PDF files page by page.
package pdftext

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page holds the text content of a single PDF page.
type Page struct {
	Number int
	Text   string
}

// Result is the outcome of extracting a PDF's text layer.
type Result struct {
	Text      string
	PageCount int
}

// Extract reads the PDF at path and returns its text with page markers.
// Pages with no extractable text are skipped from the output but still
// counted in PageCount.
func Extract(path string) (Result, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]Page, 0, total)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		pages = append(pages, Page{Number: i, Text: text})
	}

	return Result{Text: AssemblePages(pages), PageCount: total}, nil
}

// AssemblePages joins page texts into a single document, prefixing each
// page with a numbered marker. Pages whose text is empty after trimming
// are omitted.
func AssemblePages(pages []Page) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("--- Page %d ---\n%s", p.Number, text))
	}
	return strings.Join(parts, "\n\n")
}
