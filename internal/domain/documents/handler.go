package documents

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medbill/medbill/pkg/pagination"
)

// Handler provides REST endpoints for document management.
type Handler struct {
	svc *Service
}

// NewHandler creates a new document handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers document routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	docs := api.Group("/documents")
	docs.POST("/upload", h.Upload)
	docs.GET("", h.List)
	docs.GET("/:id", h.Get)
	docs.POST("/:id/reprocess", h.Reprocess)
	docs.GET("/:id/download", h.Download)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid document id")
	}
	return id, nil
}

// Upload handles POST /api/documents/upload
func (h *Handler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file field is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file")
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file")
	}

	doc, err := h.svc.Upload(c.Request().Context(), fileHeader.Filename, content)
	if errors.Is(err, ErrNotPDF) {
		return echo.NewHTTPError(http.StatusBadRequest, "Only PDF files are accepted")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, doc.Summary())
}

// List handles GET /api/documents
func (h *Handler) List(c echo.Context) error {
	params := pagination.FromContext(c)
	docs, err := h.svc.List(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	summaries := make([]Summary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, d.Summary())
	}
	return c.JSON(http.StatusOK, summaries)
}

// Get handles GET /api/documents/:id
func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	doc, err := h.svc.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, doc)
}

// Reprocess handles POST /api/documents/:id/reprocess
func (h *Handler) Reprocess(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	noteID, err := h.svc.Reprocess(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Reprocessing failed: %v", err))
	}
	return c.JSON(http.StatusOK, map[string]string{
		"detail":          "Document reprocessed",
		"billing_note_id": noteID.String(),
	})
}

// Download handles GET /api/documents/:id/download
func (h *Handler) Download(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	rc, filename, err := h.svc.Download(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}
	if errors.Is(err, ErrFileMissing) {
		return echo.NewHTTPError(http.StatusNotFound, "PDF file not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Stream(http.StatusOK, "application/pdf", rc)
}
