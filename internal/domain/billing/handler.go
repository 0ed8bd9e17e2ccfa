package billing

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medbill/medbill/pkg/pagination"
)

// Handler provides REST endpoints for billing note review.
type Handler struct {
	svc *Service
}

// NewHandler creates a new billing handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers billing note routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	notes := api.Group("/billing-notes")
	notes.GET("", h.List)
	notes.GET("/stats", h.Stats)
	notes.GET("/:id", h.Get)
	notes.PATCH("/:id", h.Update)
	notes.DELETE("/:id", h.Delete)

	notes.PATCH("/:id/codes/:code_id/confirm", h.ConfirmCode)
	notes.PUT("/:id/codes/:code_id", h.UpdateCode)
	notes.DELETE("/:id/codes/:code_id", h.DeleteCode)
	notes.POST("/:id/codes", h.AddCode)

	notes.PUT("/:id/diagnoses/:diag_id", h.UpdateDiagnosis)
	notes.DELETE("/:id/diagnoses/:diag_id", h.DeleteDiagnosis)
	notes.POST("/:id/diagnoses", h.AddDiagnosis)
}

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNoteNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Billing note not found")
	case errors.Is(err, ErrCodeNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Extracted code not found")
	case errors.Is(err, ErrDiagnosisNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Extracted diagnosis not found")
	case errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrRawCodeRequired),
		errors.Is(err, ErrRawDiagnosisRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// List handles GET /api/billing-notes
func (h *Handler) List(c echo.Context) error {
	params := pagination.FromContext(c)
	filter := ListFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	notes, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return mapError(err)
	}
	if notes == nil {
		notes = []*Note{}
	}
	return c.JSON(http.StatusOK, notes)
}

// Stats handles GET /api/billing-notes/stats
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Get handles GET /api/billing-notes/:id
func (h *Handler) Get(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Update handles PATCH /api/billing-notes/:id
func (h *Handler) Update(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	note, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, note)
}

// Delete handles DELETE /api/billing-notes/:id
func (h *Handler) Delete(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"detail": "Billing note deleted"})
}

// ConfirmCode handles PATCH /api/billing-notes/:id/codes/:code_id/confirm
func (h *Handler) ConfirmCode(c echo.Context) error {
	noteID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	codeID, err := parseUUIDParam(c, "code_id")
	if err != nil {
		return err
	}
	var req struct {
		Confirmed bool `json:"confirmed"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	code, err := h.svc.ConfirmCode(c.Request().Context(), noteID, codeID, req.Confirmed)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"detail":    "Code updated",
		"confirmed": code.Confirmed,
	})
}

// UpdateCode handles PUT /api/billing-notes/:id/codes/:code_id
func (h *Handler) UpdateCode(c echo.Context) error {
	noteID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	codeID, err := parseUUIDParam(c, "code_id")
	if err != nil {
		return err
	}
	var req UpdateCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	code, err := h.svc.UpdateCode(c.Request().Context(), noteID, codeID, req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, code)
}

// DeleteCode handles DELETE /api/billing-notes/:id/codes/:code_id
func (h *Handler) DeleteCode(c echo.Context) error {
	noteID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	codeID, err := parseUUIDParam(c, "code_id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteCode(c.Request().Context(), noteID, codeID); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"detail": "Code deleted"})
}

// AddCode handles POST /api/billing-notes/:id/codes
func (h *Handler) AddCode(c echo.Context) error {
	noteID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req AddCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	code, err := h.svc.AddCode(c.Request().Context(), noteID, req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, code)
}

// UpdateDiagnosis handles PUT /api/billing-notes/:id/diagnoses/:diag_id
func (h *Handler) UpdateDiagnosis(c echo.Context) error {
	noteID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	diagID, err := parseUUIDParam(c, "diag_id")
	if err != nil {
		return err
	}
	var req UpdateDiagnosisRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	diag, err := h.svc.UpdateDiagnosis(c.Request().Context(), noteID, diagID, req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, diag)
}

// DeleteDiagnosis handles DELETE /api/billing-notes/:id/diagnoses/:diag_id
func (h *Handler) DeleteDiagnosis(c echo.Context) error {
	noteID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	diagID, err := parseUUIDParam(c, "diag_id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteDiagnosis(c.Request().Context(), noteID, diagID); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"detail": "Diagnosis deleted"})
}

// AddDiagnosis handles POST /api/billing-notes/:id/diagnoses
func (h *Handler) AddDiagnosis(c echo.Context) error {
	noteID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req AddDiagnosisRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	diag, err := h.svc.AddDiagnosis(c.Request().Context(), noteID, req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, diag)
}
