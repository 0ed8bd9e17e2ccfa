package terminology

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handler provides REST endpoints for reference code search.
type Handler struct {
	svc *Service
}

// NewHandler creates a new terminology handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers terminology routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	term := api.Group("/terminology")
	term.GET("/cpt", h.SearchCPT)
	term.GET("/cpt/:code", h.GetCPT)
	term.GET("/icd10", h.SearchICD10)
	term.GET("/icd10/:code", h.GetICD10)
}

func getLimit(c echo.Context) int {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return limit
}

// SearchCPT handles GET /api/terminology/cpt?q=...
func (h *Handler) SearchCPT(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter 'q' is required")
	}
	results, err := h.svc.SearchCPT(c.Request().Context(), query, getLimit(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if results == nil {
		results = []*CPTCode{}
	}
	return c.JSON(http.StatusOK, results)
}

// GetCPT handles GET /api/terminology/cpt/:code
func (h *Handler) GetCPT(c echo.Context) error {
	result, err := h.svc.GetCPT(c.Request().Context(), c.Param("code"))
	if errors.Is(err, ErrCodeNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "CPT code not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// SearchICD10 handles GET /api/terminology/icd10?q=...
func (h *Handler) SearchICD10(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter 'q' is required")
	}
	results, err := h.svc.SearchICD10(c.Request().Context(), query, getLimit(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if results == nil {
		results = []*ICD10Code{}
	}
	return c.JSON(http.StatusOK, results)
}

// GetICD10 handles GET /api/terminology/icd10/:code
func (h *Handler) GetICD10(c echo.Context) error {
	result, err := h.svc.GetICD10(c.Request().Context(), c.Param("code"))
	if errors.Is(err, ErrCodeNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "ICD-10 code not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
