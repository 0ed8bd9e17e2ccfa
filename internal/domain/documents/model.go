// Package documents manages uploaded clinical PDFs: storage, deduplication,
// text extraction state and retrieval.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// StoragePathPrefix marks file paths that live in object storage rather
// than on local disk. Older records may still carry local paths.
const StoragePathPrefix = "pdfs/"

// Document is an uploaded clinical PDF.
type Document struct {
	ID            uuid.UUID `json:"id"`
	Filename      string    `json:"filename"`
	FilePath      string    `json:"file_path"`
	FileHash      string    `json:"-"`
	ExtractedText *string   `json:"extracted_text"`
	PageCount     *int      `json:"page_count"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// Summary is the list/upload view of a document, without the extracted
// text payload.
type Summary struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	PageCount  *int      `json:"page_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Summary returns the compact view of the document.
func (d *Document) Summary() Summary {
	return Summary{
		ID:         d.ID,
		Filename:   d.Filename,
		PageCount:  d.PageCount,
		UploadedAt: d.UploadedAt,
	}
}
