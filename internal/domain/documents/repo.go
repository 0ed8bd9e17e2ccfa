package documents

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides access to document records. GetByHash returns
// (nil, nil) when no document carries the hash.
type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	GetByHash(ctx context.Context, hash string) (*Document, error)
	List(ctx context.Context, limit, offset int) ([]*Document, error)
	SetExtractedText(ctx context.Context, id uuid.UUID, text string, pageCount int) error
	UpdateFilePath(ctx context.Context, id uuid.UUID, path string) error
}
