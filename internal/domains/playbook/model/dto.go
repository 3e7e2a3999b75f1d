package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ========================================
// REQUEST DTOs
// ========================================

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 500

	ViewFull   = "full"
	ViewPublic = "public"
)

// PayloadRequest - body of POST /validate and POST /import
type PayloadRequest struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

func (r *PayloadRequest) Normalize() {
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if r.Format == "" {
		r.Format = "json"
	}
}

func (r PayloadRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Data, validation.Required.Error("Data required")),
	)
}

// ListPlaybooksRequest - query of GET /admin/playbooks
type ListPlaybooksRequest struct {
	SKU      string  `form:"sku"`
	Category string  `form:"category"`
	Tag      string  `form:"tag"`
	IsActive *string `form:"isActive"`
	Page     int     `form:"page"`
	Limit    int     `form:"limit"`
}

func (r *ListPlaybooksRequest) Normalize() {
	if r.Page == 0 {
		r.Page = DefaultPage
	}
	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}
}

func (r ListPlaybooksRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Page, validation.Min(1).Error("page must be at least 1")),
		validation.Field(&r.Limit,
			validation.Min(1).Error("limit must be at least 1"),
			validation.Max(MaxLimit).Error("limit must be at most 500"),
		),
	)
}

// Filter converts the query into a repository filter. Any isActive value
// other than "true" filters for inactive playbooks.
func (r ListPlaybooksRequest) Filter() PlaybookFilter {
	f := PlaybookFilter{
		SKUContains:          r.SKU,
		CategoryNameContains: r.Category,
		Tag:                  r.Tag,
	}
	if r.IsActive != nil {
		active := *r.IsActive == "true"
		f.IsActive = &active
	}
	return f
}

// ExportRequest - query of GET /admin/playbooks/export
type ExportRequest struct {
	Format     string `form:"format"`
	ActiveOnly bool   `form:"activeOnly"`
	View       string `form:"view"`
}

func (r *ExportRequest) Normalize() {
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if r.Format == "" {
		r.Format = "json"
	}
	if r.View == "" {
		r.View = ViewFull
	}
}

func (r ExportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.View, validation.In(ViewFull, ViewPublic).Error("view must be 'full' or 'public'")),
	)
}

// ========================================
// QUERY TYPES
// ========================================

// PlaybookFilter - zero values mean "no constraint"
type PlaybookFilter struct {
	SKUContains          string
	CategoryNameContains string
	Tag                  string
	IsActive             *bool
}

// ========================================
// RESPONSE DTOs
// ========================================

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

type ListPlaybooksResponse struct {
	Playbooks  []Playbook `json:"playbooks"`
	Pagination Pagination `json:"pagination"`
}

type ValidationSummary struct {
	Valid    int `json:"valid"`
	Invalid  int `json:"invalid"`
	Warnings int `json:"warnings"`
}

// ValidationReport - diagnostics for one batch
type ValidationReport struct {
	Valid    bool              `json:"valid"`
	Total    int               `json:"total"`
	Errors   []string          `json:"errors"`
	Warnings []string          `json:"warnings"`
	Summary  ValidationSummary `json:"summary"`
}

// NewValidationReport derives Valid and Summary from the collected messages.
func NewValidationReport(total int, errs, warnings []string) *ValidationReport {
	if errs == nil {
		errs = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return &ValidationReport{
		Valid:    len(errs) == 0,
		Total:    total,
		Errors:   errs,
		Warnings: warnings,
		Summary: ValidationSummary{
			Valid:    total - len(errs),
			Invalid:  len(errs),
			Warnings: len(warnings),
		},
	}
}

// AddWarning appends a warning and keeps the summary in step.
func (r *ValidationReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
	r.Summary.Warnings = len(r.Warnings)
}

type ImportResult struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}

// ExportFile - rendered export ready for download
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Access is the capability supplied by the calling context.
type Access struct {
	Allowed bool
	Actor   string
}
