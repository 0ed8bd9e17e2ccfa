package llm

import (
	"encoding/json"
	"testing"
)

const validPayload = `{
	"patient_name": "Jane Doe",
	"date_of_service": "2025-03-14",
	"provider_name": "Dr. Smith",
	"clinical_summary": "Patient seen for recurrent seizures. EEG performed.",
	"procedures": [
		{"cpt_code": "95819", "description": "EEG awake and asleep", "supporting_text": "Routine EEG performed", "confidence": 0.95}
	],
	"diagnoses": [
		{"icd10_code": "G40.309", "description": "Generalized idiopathic epilepsy", "supporting_text": "history of generalized seizures", "confidence": 0.9, "is_primary": true}
	],
	"billing_narrative": "EEG medically necessary for seizure evaluation."
}`

func TestValidateExtraction_Valid(t *testing.T) {
	result, err := ValidateExtraction(json.RawMessage(validPayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PatientName == nil || *result.PatientName != "Jane Doe" {
		t.Errorf("unexpected patient name: %v", result.PatientName)
	}
	if len(result.Procedures) != 1 || result.Procedures[0].CPTCode != "95819" {
		t.Errorf("unexpected procedures: %+v", result.Procedures)
	}
	if len(result.Diagnoses) != 1 || !result.Diagnoses[0].IsPrimary {
		t.Errorf("unexpected diagnoses: %+v", result.Diagnoses)
	}
}

func TestValidateExtraction_MissingRequired(t *testing.T) {
	payload := `{"clinical_summary": "s", "procedures": [], "diagnoses": []}`
	if _, err := ValidateExtraction(json.RawMessage(payload)); err == nil {
		t.Error("expected schema violation for missing billing_narrative")
	}
}

func TestValidateExtraction_WrongItemShape(t *testing.T) {
	payload := `{
		"clinical_summary": "s",
		"procedures": [{"cpt_code": "95819"}],
		"diagnoses": [],
		"billing_narrative": "n"
	}`
	if _, err := ValidateExtraction(json.RawMessage(payload)); err == nil {
		t.Error("expected schema violation for incomplete procedure item")
	}
}

func TestValidateExtraction_NotJSON(t *testing.T) {
	if _, err := ValidateExtraction(json.RawMessage("not json at all")); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestValidateExtraction_NullHeaderFields(t *testing.T) {
	payload := `{
		"patient_name": null,
		"date_of_service": null,
		"provider_name": null,
		"clinical_summary": "s",
		"procedures": [],
		"diagnoses": [],
		"billing_narrative": "n"
	}`
	result, err := ValidateExtraction(json.RawMessage(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PatientName != nil || result.DateOfService != nil || result.ProviderName != nil {
		t.Error("expected null header fields to become nil")
	}
}

func TestValidateExtraction_OptionalHeaderFieldsAbsent(t *testing.T) {
	payload := `{
		"clinical_summary": "s",
		"procedures": [],
		"diagnoses": [],
		"billing_narrative": "n"
	}`
	result, err := ValidateExtraction(json.RawMessage(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PatientName != nil || result.DateOfService != nil || result.ProviderName != nil {
		t.Error("expected absent header fields to stay nil")
	}
}
