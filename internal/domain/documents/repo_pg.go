package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbill/medbill/internal/platform/db"
)

type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a Postgres-backed document repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) Create(ctx context.Context, d *Document) error {
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO documents (id, filename, file_path, file_hash, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		d.ID, d.Filename, d.FilePath, d.FileHash, d.UploadedAt)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

const documentColumns = `id, filename, file_path, COALESCE(file_hash,''), extracted_text, page_count, uploaded_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.Filename, &d.FilePath, &d.FileHash, &d.ExtractedText, &d.PageCount, &d.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	d, err := scanDocument(r.conn(ctx).QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

func (r *repoPG) GetByHash(ctx context.Context, hash string) (*Document, error) {
	d, err := scanDocument(r.conn(ctx).QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE file_hash = $1`, hash))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document by hash: %w", err)
	}
	return d, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Document, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+documentColumns+`
		 FROM documents ORDER BY uploaded_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var docs []*Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Filename, &d.FilePath, &d.FileHash, &d.ExtractedText, &d.PageCount, &d.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// SetExtractedText stores the text layer once. Documents that already
// carry extracted text are left untouched so reprocessing never clobbers
// the original extraction.
func (r *repoPG) SetExtractedText(ctx context.Context, id uuid.UUID, text string, pageCount int) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE documents SET extracted_text = $2, page_count = $3
		 WHERE id = $1 AND extracted_text IS NULL`, id, text, pageCount)
	if err != nil {
		return fmt.Errorf("set extracted text: %w", err)
	}
	return nil
}

func (r *repoPG) UpdateFilePath(ctx context.Context, id uuid.UUID, path string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE documents SET file_path = $2 WHERE id = $1`, id, path)
	if err != nil {
		return fmt.Errorf("update file path: %w", err)
	}
	return nil
}
