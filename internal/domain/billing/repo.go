package billing

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows note listings. Status matches exactly, Search
// matches patient names case-insensitively.
type ListFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

// NoteRepository provides access to billing notes.
type NoteRepository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*Note, error)
	List(ctx context.Context, f ListFilter) ([]*Note, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*Stats, error)
	DocumentFilename(ctx context.Context, documentID uuid.UUID) (*string, error)
}

// CodeRepository provides access to extracted CPT codes. Lookups are
// scoped to a billing note so entries of other notes stay unreachable.
type CodeRepository interface {
	Create(ctx context.Context, c *ExtractedCode) error
	GetForNote(ctx context.Context, noteID, codeID uuid.UUID) (*ExtractedCode, error)
	ListByNote(ctx context.Context, noteID uuid.UUID) ([]*ExtractedCode, error)
	Update(ctx context.Context, c *ExtractedCode) error
	Delete(ctx context.Context, noteID, codeID uuid.UUID) error
}

// DiagnosisRepository provides access to extracted ICD-10 diagnoses.
type DiagnosisRepository interface {
	Create(ctx context.Context, d *ExtractedDiagnosis) error
	GetForNote(ctx context.Context, noteID, diagID uuid.UUID) (*ExtractedDiagnosis, error)
	ListByNote(ctx context.Context, noteID uuid.UUID) ([]*ExtractedDiagnosis, error)
	Update(ctx context.Context, d *ExtractedDiagnosis) error
	Delete(ctx context.Context, noteID, diagID uuid.UUID) error
}
