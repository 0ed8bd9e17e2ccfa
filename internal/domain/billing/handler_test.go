package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestListHandler_StatusFilter(t *testing.T) {
	svc, notes, _, _ := newFixture()
	seedNote(notes, StatusDraft)
	seedNote(notes, StatusFinalized)
	h := NewHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/billing-notes?status=finalized", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result []Note
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result) != 1 || result[0].Status != StatusFinalized {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestStatsHandler(t *testing.T) {
	svc, notes, _, _ := newFixture()
	seedNote(notes, StatusDraft)
	h := NewHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/billing-notes/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Stats(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var stats map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, key := range []string{"total_notes", "draft", "reviewed", "finalized", "total_documents"} {
		if _, ok := stats[key]; !ok {
			t.Errorf("expected key %q in stats", key)
		}
	}
	if stats["total_notes"] != 1 || stats["draft"] != 1 {
		t.Errorf("unexpected stats: %v", stats)
	}
}

func TestGetHandler_NoteNotFound(t *testing.T) {
	svc, _, _, _ := newFixture()
	h := NewHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.Get(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestUpdateHandler_InvalidStatus(t *testing.T) {
	svc, notes, _, _ := newFixture()
	n := seedNote(notes, StatusDraft)
	h := NewHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"bogus"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(n.ID.String())

	err := h.Update(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestUpdateHandler_PatchesDate(t *testing.T) {
	svc, notes, _, _ := newFixture()
	n := seedNote(notes, StatusDraft)
	h := NewHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"date_of_service":"2025-06-01"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(n.ID.String())

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["date_of_service"] != "2025-06-01" {
		t.Errorf("unexpected date_of_service: %v", resp["date_of_service"])
	}
}

func TestConfirmCodeHandler(t *testing.T) {
	svc, notes, codes, _ := newFixture()
	n := seedNote(notes, StatusDraft)
	code := &ExtractedCode{ID: uuid.New(), BillingNoteID: n.ID, CPTCodeRaw: "95819"}
	codes.Create(context.Background(), code)
	h := NewHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"confirmed":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "code_id")
	c.SetParamValues(n.ID.String(), code.ID.String())

	if err := h.ConfirmCode(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["detail"] != "Code updated" || resp["confirmed"] != true {
		t.Errorf("unexpected response: %v", resp)
	}
}

func TestAddDiagnosisHandler(t *testing.T) {
	svc, notes, _, _ := newFixture()
	n := seedNote(notes, StatusDraft)
	h := NewHandler(svc)

	e := echo.New()
	body := `{"icd10_code_raw":"G43.909","description":"Migraine","is_primary":true}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(n.ID.String())

	if err := h.AddDiagnosis(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var diag ExtractedDiagnosis
	if err := json.Unmarshal(rec.Body.Bytes(), &diag); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if diag.ICD10CodeRaw != "G43.909" || !diag.IsPrimary {
		t.Errorf("unexpected diagnosis: %+v", diag)
	}
}

func TestDeleteHandler_OK(t *testing.T) {
	svc, notes, _, _ := newFixture()
	n := seedNote(notes, StatusDraft)
	h := NewHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(n.ID.String())

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["detail"] != "Billing note deleted" {
		t.Errorf("unexpected response: %v", resp)
	}
}
