package handler

import (
	"errors"
	"net/http"

	"playbook-pipeline/internal/domains/playbook/model"
	"playbook-pipeline/internal/shared/middleware"
	"playbook-pipeline/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type errorConfig struct {
	Status  int
	Code    string
	Message string
}

// playbookErrorMap maps sentinel errors to HTTP responses
var playbookErrorMap = map[error]errorConfig{
	model.ErrForbidden:        {http.StatusForbidden, "FORBIDDEN", "Admin access required"},
	model.ErrPlaybookNotFound: {http.StatusNotFound, "NOT_FOUND", "Playbook not found"},
	model.ErrDataRequired:     {http.StatusBadRequest, "DATA_REQUIRED", "Data required"},
	model.ErrTooManyRecords:   {http.StatusRequestEntityTooLarge, "TOO_MANY_RECORDS", "Too many records in one batch"},
	model.ErrInvalidRequest:   {http.StatusBadRequest, "BAD_REQUEST", "Invalid query parameters"},
}

// handleError writes the response for err. fallback is the message used for
// unexpected errors.
func handleError(c *gin.Context, err error, fallback string) {
	for sentinel, cfg := range playbookErrorMap {
		if errors.Is(err, sentinel) {
			response.ErrorResponse(c, cfg.Status, cfg.Code, cfg.Message)
			return
		}
	}

	var (
		formatErr  *model.UnsupportedFormatError
		parseErr   *model.ParseError
		invalidErr *model.ValidationError
		persistErr *model.PersistenceError
	)

	switch {
	case errors.As(err, &formatErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_FORMAT",
			"Invalid format. Use 'json' or 'csv'", gin.H{"format": formatErr.Format})

	case errors.As(err, &parseErr):
		details := gin.H{"message": parseErr.Error()}
		if parseErr.Row > 0 {
			details["row"] = parseErr.Row
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, "PARSE_ERROR", "Failed to parse data", details)

	case errors.As(err, &invalidErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", invalidErr.Errors)

	case errors.As(err, &persistErr):
		log.Error().
			Err(persistErr.Err).
			Str("request_id", c.GetString(middleware.ContextRequestID)).
			Int("row", persistErr.Row).
			Str("sku", persistErr.SKU).
			Msg("[PlaybookHandler] Import failed")
		response.ErrorWithDetails(c, http.StatusInternalServerError, "IMPORT_FAILED", "Failed to import playbooks", gin.H{
			"imported": persistErr.Imported,
			"total":    persistErr.Total,
			"row":      persistErr.Row,
			"sku":      persistErr.SKU,
		})

	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.ContextRequestID)).
			Str("path", c.Request.URL.Path).
			Msg("[PlaybookHandler] Unexpected error")
		response.InternalServerError(c, fallback)
	}
}
