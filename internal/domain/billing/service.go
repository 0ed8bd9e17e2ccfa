package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNoteNotFound is returned when a billing note does not exist.
	ErrNoteNotFound = errors.New("billing note not found")
	// ErrCodeNotFound is returned when an extracted code does not exist
	// on the given note.
	ErrCodeNotFound = errors.New("extracted code not found")
	// ErrDiagnosisNotFound is returned when an extracted diagnosis does
	// not exist on the given note.
	ErrDiagnosisNotFound = errors.New("extracted diagnosis not found")
	// ErrInvalidStatus rejects status values outside the review lifecycle.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrRawCodeRequired rejects manual code entries without a raw CPT code.
	ErrRawCodeRequired = errors.New("cpt_code_raw is required")
	// ErrRawDiagnosisRequired rejects manual diagnosis entries without a
	// raw ICD-10 code.
	ErrRawDiagnosisRequired = errors.New("icd10_code_raw is required")
)

var validStatuses = map[string]bool{
	StatusDraft: true, StatusReviewed: true, StatusFinalized: true,
}

// UpdateNoteRequest carries a partial note update. Nil fields are left
// unchanged.
type UpdateNoteRequest struct {
	Status           *string `json:"status"`
	PatientName      *string `json:"patient_name"`
	DateOfService    *Date   `json:"date_of_service"`
	ProviderName     *string `json:"provider_name"`
	ClinicalSummary  *string `json:"clinical_summary"`
	BillingNarrative *string `json:"billing_narrative"`
}

// UpdateCodeRequest carries a partial extracted code update.
type UpdateCodeRequest struct {
	CPTCodeRaw     *string  `json:"cpt_code_raw"`
	Description    *string  `json:"description"`
	SupportingText *string  `json:"supporting_text"`
	Confidence     *float64 `json:"confidence"`
}

// AddCodeRequest adds a CPT code to a note manually.
type AddCodeRequest struct {
	CPTCodeRaw     string   `json:"cpt_code_raw"`
	Description    *string  `json:"description"`
	SupportingText *string  `json:"supporting_text"`
	Confidence     *float64 `json:"confidence"`
}

// UpdateDiagnosisRequest carries a partial extracted diagnosis update.
type UpdateDiagnosisRequest struct {
	ICD10CodeRaw   *string  `json:"icd10_code_raw"`
	Description    *string  `json:"description"`
	SupportingText *string  `json:"supporting_text"`
	Confidence     *float64 `json:"confidence"`
	IsPrimary      *bool    `json:"is_primary"`
}

// AddDiagnosisRequest adds an ICD-10 diagnosis to a note manually.
type AddDiagnosisRequest struct {
	ICD10CodeRaw   string   `json:"icd10_code_raw"`
	Description    *string  `json:"description"`
	SupportingText *string  `json:"supporting_text"`
	Confidence     *float64 `json:"confidence"`
	IsPrimary      bool     `json:"is_primary"`
}

// Service implements the billing note review workflow.
type Service struct {
	notes NoteRepository
	codes CodeRepository
	diags DiagnosisRepository
}

// NewService creates a billing service.
func NewService(notes NoteRepository, codes CodeRepository, diags DiagnosisRepository) *Service {
	return &Service{notes: notes, codes: codes, diags: diags}
}

// List returns notes matching the filter, newest first.
func (s *Service) List(ctx context.Context, f ListFilter) ([]*Note, error) {
	return s.notes.List(ctx, f)
}

// Stats returns the dashboard counters.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.notes.Stats(ctx)
}

// Get returns a note with its extracted codes, diagnoses and source
// document filename.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*NoteDetail, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	codes, err := s.codes.ListByNote(ctx, id)
	if err != nil {
		return nil, err
	}
	diags, err := s.diags.ListByNote(ctx, id)
	if err != nil {
		return nil, err
	}
	filename, err := s.notes.DocumentFilename(ctx, note.DocumentID)
	if err != nil {
		return nil, err
	}

	if codes == nil {
		codes = []*ExtractedCode{}
	}
	if diags == nil {
		diags = []*ExtractedDiagnosis{}
	}
	return &NoteDetail{
		Note:               *note,
		ExtractedCodes:     codes,
		ExtractedDiagnoses: diags,
		DocumentFilename:   filename,
	}, nil
}

// Update applies a partial update to a note. A status outside the
// review lifecycle is rejected.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateNoteRequest) (*Note, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !validStatuses[*req.Status] {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *req.Status)
		}
		note.Status = *req.Status
	}
	if req.PatientName != nil {
		note.PatientName = req.PatientName
	}
	if req.DateOfService != nil {
		note.DateOfService = req.DateOfService
	}
	if req.ProviderName != nil {
		note.ProviderName = req.ProviderName
	}
	if req.ClinicalSummary != nil {
		note.ClinicalSummary = req.ClinicalSummary
	}
	if req.BillingNarrative != nil {
		note.BillingNarrative = req.BillingNarrative
	}
	note.UpdatedAt = time.Now().UTC()

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes a note. Extracted entries go with it via cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.notes.Delete(ctx, id)
}

// ConfirmCode sets the reviewer confirmation flag on an extracted code.
func (s *Service) ConfirmCode(ctx context.Context, noteID, codeID uuid.UUID, confirmed bool) (*ExtractedCode, error) {
	code, err := s.codes.GetForNote(ctx, noteID, codeID)
	if err != nil {
		return nil, err
	}
	code.Confirmed = confirmed
	if err := s.codes.Update(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

// UpdateCode applies a partial update to an extracted code.
func (s *Service) UpdateCode(ctx context.Context, noteID, codeID uuid.UUID, req UpdateCodeRequest) (*ExtractedCode, error) {
	code, err := s.codes.GetForNote(ctx, noteID, codeID)
	if err != nil {
		return nil, err
	}
	if req.CPTCodeRaw != nil {
		code.CPTCodeRaw = *req.CPTCodeRaw
	}
	if req.Description != nil {
		code.Description = req.Description
	}
	if req.SupportingText != nil {
		code.SupportingText = req.SupportingText
	}
	if req.Confidence != nil {
		code.Confidence = req.Confidence
	}
	if err := s.codes.Update(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

// DeleteCode removes an extracted code from a note.
func (s *Service) DeleteCode(ctx context.Context, noteID, codeID uuid.UUID) error {
	return s.codes.Delete(ctx, noteID, codeID)
}

// AddCode manually attaches a CPT code to a note. Manual entries start
// unconfirmed and carry no reference match.
func (s *Service) AddCode(ctx context.Context, noteID uuid.UUID, req AddCodeRequest) (*ExtractedCode, error) {
	if req.CPTCodeRaw == "" {
		return nil, ErrRawCodeRequired
	}
	if _, err := s.notes.GetByID(ctx, noteID); err != nil {
		return nil, err
	}
	code := &ExtractedCode{
		ID:             uuid.New(),
		BillingNoteID:  noteID,
		CPTCodeRaw:     req.CPTCodeRaw,
		Description:    req.Description,
		SupportingText: req.SupportingText,
		Confidence:     req.Confidence,
		Confirmed:      false,
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

// UpdateDiagnosis applies a partial update to an extracted diagnosis.
func (s *Service) UpdateDiagnosis(ctx context.Context, noteID, diagID uuid.UUID, req UpdateDiagnosisRequest) (*ExtractedDiagnosis, error) {
	diag, err := s.diags.GetForNote(ctx, noteID, diagID)
	if err != nil {
		return nil, err
	}
	if req.ICD10CodeRaw != nil {
		diag.ICD10CodeRaw = *req.ICD10CodeRaw
	}
	if req.Description != nil {
		diag.Description = req.Description
	}
	if req.SupportingText != nil {
		diag.SupportingText = req.SupportingText
	}
	if req.Confidence != nil {
		diag.Confidence = req.Confidence
	}
	if req.IsPrimary != nil {
		diag.IsPrimary = *req.IsPrimary
	}
	if err := s.diags.Update(ctx, diag); err != nil {
		return nil, err
	}
	return diag, nil
}

// DeleteDiagnosis removes an extracted diagnosis from a note.
func (s *Service) DeleteDiagnosis(ctx context.Context, noteID, diagID uuid.UUID) error {
	return s.diags.Delete(ctx, noteID, diagID)
}

// AddDiagnosis manually attaches an ICD-10 diagnosis to a note.
func (s *Service) AddDiagnosis(ctx context.Context, noteID uuid.UUID, req AddDiagnosisRequest) (*ExtractedDiagnosis, error) {
	if req.ICD10CodeRaw == "" {
		return nil, ErrRawDiagnosisRequired
	}
	if _, err := s.notes.GetByID(ctx, noteID); err != nil {
		return nil, err
	}
	diag := &ExtractedDiagnosis{
		ID:             uuid.New(),
		BillingNoteID:  noteID,
		ICD10CodeRaw:   req.ICD10CodeRaw,
		Description:    req.Description,
		SupportingText: req.SupportingText,
		Confidence:     req.Confidence,
		IsPrimary:      req.IsPrimary,
	}
	if err := s.diags.Create(ctx, diag); err != nil {
		return nil, err
	}
	return diag, nil
}
