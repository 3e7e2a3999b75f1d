package handler

import (
	"net/http"

	"playbook-pipeline/internal/domains/playbook/model"
	"playbook-pipeline/internal/domains/playbook/service"
	"playbook-pipeline/internal/shared/middleware"
	"playbook-pipeline/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler - HTTP handler for the playbook pipeline
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// accessFrom derives the caller capability from the authenticated context.
func accessFrom(c *gin.Context) model.Access {
	return model.Access{
		Allowed: middleware.IsAdmin(c),
		Actor:   middleware.Actor(c),
	}
}

// ListPlaybooks - GET /api/v1/admin/playbooks
// Query params: sku, category, tag, isActive, page, limit
func (h *Handler) ListPlaybooks(c *gin.Context) {
	var req model.ListPlaybooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid query parameters", err)
		return
	}

	result, err := h.service.List(c.Request.Context(), accessFrom(c), req)
	if err != nil {
		handleError(c, err, "Internal server error")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Playbooks, &response.Meta{
		Page:  result.Pagination.Page,
		Limit: result.Pagination.Limit,
		Total: result.Pagination.Total,
		Pages: result.Pagination.Pages,
	})
}

// ValidatePlaybooks - POST /api/v1/admin/playbooks/validate
// Body: { "data": "<raw text>", "format": "json" | "csv" }
func (h *Handler) ValidatePlaybooks(c *gin.Context) {
	req, ok := bindPayload(c)
	if !ok {
		return
	}

	report, err := h.service.Validate(c.Request.Context(), accessFrom(c), req.Data, req.Format)
	if err != nil {
		handleError(c, err, "Internal server error")
		return
	}

	response.Success(c, http.StatusOK, report)
}

// ImportPlaybooks - POST /api/v1/admin/playbooks/import
// Body: { "data": "<raw text>", "format": "json" | "csv" }
func (h *Handler) ImportPlaybooks(c *gin.Context) {
	req, ok := bindPayload(c)
	if !ok {
		return
	}

	access := accessFrom(c)
	log.Info().
		Str("actor", access.Actor).
		Str("format", req.Format).
		Int("bytes", len(req.Data)).
		Msg("[PlaybookHandler] Received import request")

	result, err := h.service.Import(c.Request.Context(), access, req.Data, req.Format)
	if err != nil {
		handleError(c, err, "Failed to import playbooks")
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ExportPlaybooks - GET /api/v1/admin/playbooks/export
// Query params: format, activeOnly, view
func (h *Handler) ExportPlaybooks(c *gin.Context) {
	var req model.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid query parameters", err)
		return
	}

	file, err := h.service.Export(c.Request.Context(), accessFrom(c), req)
	if err != nil {
		handleError(c, err, "Internal server error")
		return
	}

	response.Attachment(c, file.Filename, file.ContentType, file.Content)
}

// ListVersions - GET /api/v1/admin/playbooks/:sku/versions
func (h *Handler) ListVersions(c *gin.Context) {
	versions, err := h.service.ListVersions(c.Request.Context(), accessFrom(c), c.Param("sku"))
	if err != nil {
		handleError(c, err, "Internal server error")
		return
	}

	response.Success(c, http.StatusOK, versions)
}

// PublicCatalog - GET /api/v1/catalog/playbooks (no auth)
func (h *Handler) PublicCatalog(c *gin.Context) {
	entries, err := h.service.PublicCatalog(c.Request.Context())
	if err != nil {
		handleError(c, err, "Failed to fetch playbooks")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"playbooks": entries})
}

func bindPayload(c *gin.Context) (model.PayloadRequest, bool) {
	var req model.PayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return req, false
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "DATA_REQUIRED", "Data required", err)
		return req, false
	}
	return req, true
}
