// Package billing manages billing notes produced by the extraction
// pipeline and the review workflow over their CPT and ICD-10 entries.
package billing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Note statuses follow the review lifecycle.
const (
	StatusDraft     = "draft"
	StatusReviewed  = "reviewed"
	StatusFinalized = "finalized"
)

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	*d = parsed
	return nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Note is a billing note created from one extraction run over a document.
type Note struct {
	ID               uuid.UUID `json:"id"`
	DocumentID       uuid.UUID `json:"document_id"`
	PatientName      *string   `json:"patient_name"`
	DateOfService    *Date     `json:"date_of_service"`
	ProviderName     *string   `json:"provider_name"`
	ClinicalSummary  *string   `json:"clinical_summary"`
	BillingNarrative *string   `json:"billing_narrative"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ExtractedCode is a CPT code attached to a billing note. CPTCodeID is
// set when the raw code matched the reference set exactly.
type ExtractedCode struct {
	ID             uuid.UUID  `json:"id"`
	BillingNoteID  uuid.UUID  `json:"-"`
	CPTCodeID      *uuid.UUID `json:"cpt_code_id"`
	CPTCodeRaw     string     `json:"cpt_code_raw"`
	Description    *string    `json:"description"`
	SupportingText *string    `json:"supporting_text"`
	Confidence     *float64   `json:"confidence"`
	Confirmed      bool       `json:"confirmed"`
}

// ExtractedDiagnosis is an ICD-10 diagnosis attached to a billing note.
type ExtractedDiagnosis struct {
	ID             uuid.UUID  `json:"id"`
	BillingNoteID  uuid.UUID  `json:"-"`
	ICD10CodeID    *uuid.UUID `json:"icd10_code_id"`
	ICD10CodeRaw   string     `json:"icd10_code_raw"`
	Description    *string    `json:"description"`
	SupportingText *string    `json:"supporting_text"`
	Confidence     *float64   `json:"confidence"`
	IsPrimary      bool       `json:"is_primary"`
}

// NoteDetail is a note with its extracted entries and source filename.
type NoteDetail struct {
	Note
	ExtractedCodes     []*ExtractedCode      `json:"extracted_codes"`
	ExtractedDiagnoses []*ExtractedDiagnosis `json:"extracted_diagnoses"`
	DocumentFilename   *string               `json:"document_filename"`
}

// Stats are the dashboard counters.
type Stats struct {
	TotalNotes     int `json:"total_notes"`
	Draft          int `json:"draft"`
	Reviewed       int `json:"reviewed"`
	Finalized      int `json:"finalized"`
	TotalDocuments int `json:"total_documents"`
}
