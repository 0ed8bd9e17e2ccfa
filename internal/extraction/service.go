// Package extraction runs the document-to-billing-note pipeline: PDF text
// extraction, model-based code extraction, reference cross-referencing and
// persistence.
package extraction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbill/medbill/internal/domain/billing"
	"github.com/medbill/medbill/internal/domain/documents"
	"github.com/medbill/medbill/internal/domain/terminology"
	"github.com/medbill/medbill/internal/llm"
	"github.com/medbill/medbill/internal/platform/db"
	"github.com/medbill/medbill/internal/platform/pdftext"
)

// TextExtractor reads the text layer of a PDF on disk.
type TextExtractor func(path string) (pdftext.Result, error)

// Deps are the collaborators of the pipeline.
type Deps struct {
	Documents documents.Repository
	Notes     billing.NoteRepository
	Codes     billing.CodeRepository
	Diagnoses billing.DiagnosisRepository
	Terms     *terminology.Service
	Extractor llm.Extractor
	RunTx     db.TxRunner

	// ExtractText defaults to pdftext.Extract.
	ExtractText TextExtractor
}

// Service orchestrates the extraction pipeline. It implements
// documents.Processor.
type Service struct {
	deps   Deps
	logger zerolog.Logger
}

// NewService creates the pipeline service.
func NewService(deps Deps, logger zerolog.Logger) *Service {
	if deps.ExtractText == nil {
		deps.ExtractText = pdftext.Extract
	}
	return &Service{
		deps:   deps,
		logger: logger.With().Str("component", "extraction").Logger(),
	}
}

// Process runs the full pipeline over a stored document and returns the
// ID of the billing note it created. Text extraction happens once per
// document; reprocessing reuses the stored text and adds a new note.
func (s *Service) Process(ctx context.Context, documentID uuid.UUID) (uuid.UUID, error) {
	doc, err := s.deps.Documents.GetByID(ctx, documentID)
	if err != nil {
		return uuid.Nil, err
	}

	text := ""
	if doc.ExtractedText != nil {
		text = *doc.ExtractedText
	}
	if text == "" {
		result, err := s.deps.ExtractText(doc.FilePath)
		if err != nil {
			return uuid.Nil, fmt.Errorf("extract pdf text: %w", err)
		}
		if err := s.deps.Documents.SetExtractedText(ctx, documentID, result.Text, result.PageCount); err != nil {
			return uuid.Nil, err
		}
		text = result.Text
		s.logger.Info().Stringer("document_id", documentID).
			Int("pages", result.PageCount).Msg("pdf text extracted")
	}

	extraction, err := s.deps.Extractor.Extract(ctx, text)
	if err != nil {
		return uuid.Nil, fmt.Errorf("model extraction: %w", err)
	}

	s.logger.Info().Stringer("document_id", documentID).
		Int("procedures", len(extraction.Procedures)).
		Int("diagnoses", len(extraction.Diagnoses)).
		Msg("extraction complete")

	now := time.Now().UTC()
	note := &billing.Note{
		ID:               uuid.New(),
		DocumentID:       documentID,
		PatientName:      extraction.PatientName,
		DateOfService:    parseServiceDate(extraction.DateOfService),
		ProviderName:     extraction.ProviderName,
		ClinicalSummary:  &extraction.ClinicalSummary,
		BillingNarrative: &extraction.BillingNarrative,
		Status:           billing.StatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = s.deps.RunTx(ctx, func(ctx context.Context) error {
		if err := s.deps.Notes.Create(ctx, note); err != nil {
			return err
		}
		for _, proc := range extraction.Procedures {
			proc := proc
			ref, err := s.deps.Terms.MatchCPT(ctx, proc.CPTCode)
			if err != nil {
				return err
			}
			code := &billing.ExtractedCode{
				ID:             uuid.New(),
				BillingNoteID:  note.ID,
				CPTCodeRaw:     proc.CPTCode,
				Description:    &proc.Description,
				SupportingText: &proc.SupportingText,
				Confidence:     &proc.Confidence,
				Confirmed:      false,
			}
			if ref != nil {
				code.CPTCodeID = &ref.ID
			}
			if err := s.deps.Codes.Create(ctx, code); err != nil {
				return err
			}
		}
		for _, diag := range extraction.Diagnoses {
			diag := diag
			ref, err := s.deps.Terms.MatchICD10(ctx, diag.ICD10Code)
			if err != nil {
				return err
			}
			entry := &billing.ExtractedDiagnosis{
				ID:             uuid.New(),
				BillingNoteID:  note.ID,
				ICD10CodeRaw:   diag.ICD10Code,
				Description:    &diag.Description,
				SupportingText: &diag.SupportingText,
				Confidence:     &diag.Confidence,
				IsPrimary:      diag.IsPrimary,
			}
			if ref != nil {
				entry.ICD10CodeID = &ref.ID
			}
			if err := s.deps.Diagnoses.Create(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("persist billing note: %w", err)
	}

	return note.ID, nil
}

// parseServiceDate accepts only YYYY-MM-DD; anything else becomes nil
// rather than failing the whole pipeline.
func parseServiceDate(s *string) *billing.Date {
	if s == nil || *s == "" {
		return nil
	}
	d, err := billing.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &d
}
