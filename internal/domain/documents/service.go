package documents

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbill/medbill/internal/platform/blobstore"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrNotPDF rejects uploads that are not PDF files.
	ErrNotPDF = errors.New("only PDF files are accepted")
	// ErrFileMissing is returned when the document record exists but its
	// PDF cannot be located in storage or on disk.
	ErrFileMissing = errors.New("pdf file not found")
)

// Processor runs the extraction pipeline over a stored document and
// returns the ID of the billing note it produced.
type Processor interface {
	Process(ctx context.Context, documentID uuid.UUID) (uuid.UUID, error)
}

// Service coordinates document upload, storage and retrieval.
type Service struct {
	repo      Repository
	store     blobstore.Store
	uploadDir string
	processor Processor
	logger    zerolog.Logger
}

// NewService creates a document service. uploadDir is the scratch
// directory used for text extraction before the local copy is removed.
func NewService(repo Repository, store blobstore.Store, uploadDir string, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		store:     store,
		uploadDir: uploadDir,
		logger:    logger.With().Str("component", "documents").Logger(),
	}
}

// SetProcessor wires the extraction pipeline. Set after construction
// because the pipeline itself depends on the document repository.
func (s *Service) SetProcessor(p Processor) {
	s.processor = p
}

// Upload stores a PDF, deduplicating by content hash, and triggers code
// extraction. A duplicate upload returns the existing document without
// re-running extraction. Extraction failures are logged, not returned:
// the document is kept and can be reprocessed later.
func (s *Service) Upload(ctx context.Context, filename string, content []byte) (*Document, error) {
	if filename == "" || !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, ErrNotPDF
	}

	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	existing, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	id := uuid.New()
	safeName := fmt.Sprintf("%s_%s", id, filename)
	storagePath := StoragePathPrefix + safeName

	if err := s.store.Put(ctx, storagePath, bytes.NewReader(content), int64(len(content)), "application/pdf"); err != nil {
		return nil, fmt.Errorf("store pdf: %w", err)
	}

	// The text extractor reads from disk, so keep a scratch copy until
	// processing finishes.
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	localPath := filepath.Join(s.uploadDir, safeName)
	if err := os.WriteFile(localPath, content, 0o644); err != nil {
		return nil, fmt.Errorf("write scratch copy: %w", err)
	}

	doc := &Document{
		ID:         id,
		Filename:   filename,
		FilePath:   localPath,
		FileHash:   hash,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	if s.processor != nil {
		if _, err := s.processor.Process(ctx, id); err != nil {
			s.logger.Error().Err(err).Stringer("document_id", id).
				Msg("extraction failed, document saved without billing note")
		}
	}

	if err := s.repo.UpdateFilePath(ctx, id, storagePath); err != nil {
		return nil, err
	}
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn().Err(err).Str("path", localPath).Msg("could not remove scratch copy")
	}

	return s.repo.GetByID(ctx, id)
}

// List returns documents ordered by upload time, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Document, error) {
	return s.repo.List(ctx, limit, offset)
}

// Get returns a single document including its extracted text.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.repo.GetByID(ctx, id)
}

// Reprocess re-runs extraction on an existing document and returns the
// ID of the new billing note. Each run creates a fresh note.
func (s *Service) Reprocess(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return uuid.Nil, err
	}
	if s.processor == nil {
		return uuid.Nil, errors.New("extraction pipeline not configured")
	}
	return s.processor.Process(ctx, id)
}

// Download returns the PDF content and the original filename. New
// uploads are served from object storage; records predating object
// storage fall back to their local disk path.
func (s *Service) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if strings.HasPrefix(doc.FilePath, StoragePathPrefix) {
		rc, err := s.store.Get(ctx, doc.FilePath)
		if errors.Is(err, blobstore.ErrObjectNotFound) {
			return nil, "", ErrFileMissing
		}
		if err != nil {
			return nil, "", err
		}
		return rc, doc.Filename, nil
	}

	f, err := os.Open(doc.FilePath)
	if os.IsNotExist(err) {
		return nil, "", ErrFileMissing
	}
	if err != nil {
		return nil, "", err
	}
	return f, doc.Filename, nil
}
