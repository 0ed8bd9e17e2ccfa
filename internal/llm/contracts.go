// Package llm defines the provider-agnostic contract for extracting
// billing codes from clinical text.
package llm

import (
	"context"
	"errors"
)

// ErrNoExtraction indicates the model responded without producing a
// usable extraction payload.
var ErrNoExtraction = errors.New("model did not return a valid extraction result")

// Procedure is a single CPT code identified in the document.
type Procedure struct {
	CPTCode        string  `json:"cpt_code"`
	Description    string  `json:"description"`
	SupportingText string  `json:"supporting_text"`
	Confidence     float64 `json:"confidence"`
}

// Diagnosis is a single ICD-10 code identified in the document.
type Diagnosis struct {
	ICD10Code      string  `json:"icd10_code"`
	Description    string  `json:"description"`
	SupportingText string  `json:"supporting_text"`
	Confidence     float64 `json:"confidence"`
	IsPrimary      bool    `json:"is_primary"`
}

// ExtractionResult is the structured output of a coding pass over one
// clinical document. Header fields are pointers because the model may
// not find them in the text.
type ExtractionResult struct {
	PatientName      *string     `json:"patient_name,omitempty"`
	DateOfService    *string     `json:"date_of_service,omitempty"`
	ProviderName     *string     `json:"provider_name,omitempty"`
	ClinicalSummary  string      `json:"clinical_summary"`
	Procedures       []Procedure `json:"procedures"`
	Diagnoses        []Diagnosis `json:"diagnoses"`
	BillingNarrative string      `json:"billing_narrative"`
}

// Extractor turns clinical text into a structured coding result.
type Extractor interface {
	Extract(ctx context.Context, clinicalText string) (*ExtractionResult, error)
}
