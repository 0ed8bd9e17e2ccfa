package documents

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbill/medbill/internal/platform/blobstore"
)

type mockRepo struct {
	docs map[uuid.UUID]*Document
}

func newMockRepo() *mockRepo {
	return &mockRepo{docs: make(map[uuid.UUID]*Document)}
}

func (m *mockRepo) Create(_ context.Context, d *Document) error {
	cp := *d
	m.docs[d.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Document, error) {
	d, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockRepo) GetByHash(_ context.Context, hash string) (*Document, error) {
	for _, d := range m.docs {
		if d.FileHash == hash {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Document, error) {
	var out []*Document
	for _, d := range m.docs {
		out = append(out, d)
	}
	return out, nil
}

func (m *mockRepo) SetExtractedText(_ context.Context, id uuid.UUID, text string, pageCount int) error {
	d, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	if d.ExtractedText == nil {
		d.ExtractedText = &text
		d.PageCount = &pageCount
	}
	return nil
}

func (m *mockRepo) UpdateFilePath(_ context.Context, id uuid.UUID, path string) error {
	d, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	d.FilePath = path
	return nil
}

type mockProcessor struct {
	calls  int
	noteID uuid.UUID
	err    error
}

func (m *mockProcessor) Process(_ context.Context, _ uuid.UUID) (uuid.UUID, error) {
	m.calls++
	return m.noteID, m.err
}

func newTestService(t *testing.T) (*Service, *mockRepo, *blobstore.MemoryStore, *mockProcessor) {
	t.Helper()
	repo := newMockRepo()
	store := blobstore.NewMemoryStore()
	proc := &mockProcessor{noteID: uuid.New()}
	svc := NewService(repo, store, t.TempDir(), zerolog.Nop())
	svc.SetProcessor(proc)
	return svc, repo, store, proc
}

func TestUpload_RejectsNonPDF(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	if _, err := svc.Upload(context.Background(), "notes.txt", []byte("hello")); !errors.Is(err, ErrNotPDF) {
		t.Errorf("expected ErrNotPDF, got %v", err)
	}
	if _, err := svc.Upload(context.Background(), "", []byte("hello")); !errors.Is(err, ErrNotPDF) {
		t.Errorf("expected ErrNotPDF for empty filename, got %v", err)
	}
}

func TestUpload_StoresAndProcesses(t *testing.T) {
	svc, repo, store, proc := newTestService(t)

	doc, err := svc.Upload(context.Background(), "visit.pdf", []byte("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.FilePath != StoragePathPrefix+doc.ID.String()+"_visit.pdf" {
		t.Errorf("expected storage path after upload, got %q", doc.FilePath)
	}
	if proc.calls != 1 {
		t.Errorf("expected one extraction run, got %d", proc.calls)
	}
	if store.Len() != 1 {
		t.Errorf("expected one stored object, got %d", store.Len())
	}
	if len(repo.docs) != 1 {
		t.Errorf("expected one document record, got %d", len(repo.docs))
	}
}

func TestUpload_DeduplicatesByHash(t *testing.T) {
	svc, _, store, proc := newTestService(t)
	ctx := context.Background()
	content := []byte("%PDF-1.4 same content")

	first, err := svc.Upload(ctx, "a.pdf", content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Upload(ctx, "b.pdf", content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Error("expected duplicate upload to return the existing document")
	}
	if second.Filename != "a.pdf" {
		t.Errorf("expected original filename preserved, got %q", second.Filename)
	}
	if proc.calls != 1 {
		t.Errorf("expected extraction to run once, got %d", proc.calls)
	}
	if store.Len() != 1 {
		t.Errorf("expected one stored object, got %d", store.Len())
	}
}

func TestUpload_KeepsDocumentWhenProcessingFails(t *testing.T) {
	svc, repo, _, proc := newTestService(t)
	proc.err = errors.New("model unavailable")

	doc, err := svc.Upload(context.Background(), "visit.pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("expected upload to succeed despite processing failure, got %v", err)
	}
	if _, ok := repo.docs[doc.ID]; !ok {
		t.Error("expected document record to survive processing failure")
	}
}

func TestReprocess(t *testing.T) {
	svc, _, _, proc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "visit.pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noteID, err := svc.Reprocess(ctx, doc.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if noteID != proc.noteID {
		t.Errorf("expected billing note id %s, got %s", proc.noteID, noteID)
	}
	if proc.calls != 2 {
		t.Errorf("expected two extraction runs, got %d", proc.calls)
	}
}

func TestReprocess_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if _, err := svc.Reprocess(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDownload_FromStorage(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "visit.pdf", []byte("%PDF-1.4 body"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rc, filename, err := svc.Download(ctx, doc.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	if filename != "visit.pdf" {
		t.Errorf("unexpected filename %q", filename)
	}
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF-1.4 body" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestDownload_FileMissing(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	// Legacy record pointing at a local path that no longer exists.
	doc := &Document{
		ID:         uuid.New(),
		Filename:   "old.pdf",
		FilePath:   "/nonexistent/old.pdf",
		FileHash:   "deadbeef",
		UploadedAt: time.Now(),
	}
	repo.Create(ctx, doc)

	if _, _, err := svc.Download(ctx, doc.ID); !errors.Is(err, ErrFileMissing) {
		t.Errorf("expected ErrFileMissing, got %v", err)
	}
}
