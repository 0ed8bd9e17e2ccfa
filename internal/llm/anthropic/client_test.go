package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medbill/medbill/internal/llm"
)

const toolInput = `{
	"clinical_summary": "Seizure follow-up with routine EEG.",
	"procedures": [
		{"cpt_code": "95819", "description": "EEG awake and asleep", "supporting_text": "EEG performed", "confidence": 0.9}
	],
	"diagnoses": [
		{"icd10_code": "G40.309", "description": "Epilepsy", "supporting_text": "seizure disorder", "confidence": 0.85, "is_primary": true}
	],
	"billing_narrative": "EEG necessary for seizure management."
}`

func fakeServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client, srv
}

func TestExtract_ToolUse(t *testing.T) {
	client, _ := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Error("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing version header")
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["model"] != defaultModel {
			t.Errorf("unexpected model %v", req["model"])
		}
		tools, _ := req["tools"].([]any)
		if len(tools) != 1 {
			t.Fatalf("expected one tool, got %d", len(tools))
		}

		resp := map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "I'll extract the codes now."},
				{"type": "tool_use", "name": "submit_extraction", "input": json.RawMessage(toolInput)},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	result, err := client.Extract(context.Background(), "Patient with seizures. EEG performed.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Procedures) != 1 || result.Procedures[0].CPTCode != "95819" {
		t.Errorf("unexpected procedures: %+v", result.Procedures)
	}
	if !result.Diagnoses[0].IsPrimary {
		t.Error("expected primary diagnosis flag")
	}
}

func TestExtract_TextFallback(t *testing.T) {
	client, _ := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": toolInput},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	result, err := client.Extract(context.Background(), "note text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ClinicalSummary == "" {
		t.Error("expected summary from text fallback")
	}
}

func TestExtract_NoUsableOutput(t *testing.T) {
	client, _ := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "I cannot analyze this document."},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	if _, err := client.Extract(context.Background(), "note"); !errors.Is(err, llm.ErrNoExtraction) {
		t.Errorf("expected ErrNoExtraction, got %v", err)
	}
}

func TestExtract_ToolOutputViolatesSchema(t *testing.T) {
	client, _ := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"content": []map[string]any{
				{"type": "tool_use", "name": "submit_extraction", "input": json.RawMessage(`{"clinical_summary": "s"}`)},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	if _, err := client.Extract(context.Background(), "note"); err == nil {
		t.Error("expected error for schema-violating tool output")
	}
}

func TestExtract_APIError(t *testing.T) {
	client, _ := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "rate_limit_error", "message": "rate limited"},
		})
	})

	_, err := client.Extract(context.Background(), "note")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Config{}, zerolog.Nop()); err == nil {
		t.Error("expected error without api key")
	}
}
