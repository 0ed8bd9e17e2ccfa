// Package terminology manages the CPT and ICD-10 reference code sets used
// to cross-reference model output against known billable codes.
package terminology

import "github.com/google/uuid"

// CPTCode is a Current Procedural Terminology reference entry.
type CPTCode struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
}

// ICD10Code is an ICD-10-CM diagnosis reference entry.
type ICD10Code struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
}
