package llm

// ToolName is the function-call name the model must use to submit results.
const ToolName = "submit_extraction"

// ToolDescription explains the tool to the model.
const ToolDescription = "Submit the extracted CPT codes, ICD-10 diagnoses, and billing information from the clinical document."

// ExtractionSchema returns the JSON Schema for the extraction tool input.
// The same schema is sent to the provider and used to validate responses
// locally before they are trusted.
func ExtractionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"patient_name": map[string]any{
				"type":        "string",
				"description": "Patient's full name as found in the document, or null if not found",
			},
			"date_of_service": map[string]any{
				"type":        "string",
				"description": "Date of service in YYYY-MM-DD format, or null if not found",
			},
			"provider_name": map[string]any{
				"type":        "string",
				"description": "Treating/ordering provider's name, or null if not found",
			},
			"clinical_summary": map[string]any{
				"type":        "string",
				"description": "A concise 2-4 sentence summary of the clinical encounter, including chief complaint, key findings, and diagnoses",
			},
			"procedures": map[string]any{
				"type":        "array",
				"description": "List of identified CPT codes with supporting evidence",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"cpt_code": map[string]any{
							"type":        "string",
							"description": "The CPT code (e.g., '95819')",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "Description of the procedure/service",
						},
						"supporting_text": map[string]any{
							"type":        "string",
							"description": "Exact text from the document that supports this code",
						},
						"confidence": map[string]any{
							"type":        "number",
							"description": "Confidence score from 0.0 to 1.0",
						},
					},
					"required": []any{"cpt_code", "description", "supporting_text", "confidence"},
				},
			},
			"diagnoses": map[string]any{
				"type":        "array",
				"description": "List of identified ICD-10 diagnosis codes",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"icd10_code": map[string]any{
							"type":        "string",
							"description": "The ICD-10-CM code (e.g., 'G40.309')",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "Description of the diagnosis",
						},
						"supporting_text": map[string]any{
							"type":        "string",
							"description": "Exact text from the document that supports this diagnosis",
						},
						"confidence": map[string]any{
							"type":        "number",
							"description": "Confidence score from 0.0 to 1.0",
						},
						"is_primary": map[string]any{
							"type":        "boolean",
							"description": "Whether this is the primary/principal diagnosis for the encounter",
						},
					},
					"required": []any{"icd10_code", "description", "supporting_text", "confidence", "is_primary"},
				},
			},
			"billing_narrative": map[string]any{
				"type":        "string",
				"description": "A professional billing narrative justifying medical necessity, suitable for insurance submission.",
			},
		},
		"required": []any{"clinical_summary", "procedures", "diagnoses", "billing_narrative"},
	}
}
