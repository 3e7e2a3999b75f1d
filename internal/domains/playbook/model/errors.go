package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrForbidden        = errors.New("caller is not allowed to manage playbooks")
	ErrPlaybookNotFound = errors.New("playbook not found")
	ErrDataRequired     = errors.New("data required")
	ErrInvalidField     = errors.New("invalid field")
	ErrTooManyRecords   = errors.New("batch exceeds the maximum number of records")
	ErrPriceRange       = errors.New("priceMin exceeds priceMax")
	ErrInvalidRequest   = errors.New("invalid request")
)

// UnsupportedFormatError - format is neither json nor csv
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q: use 'json' or 'csv'", e.Format)
}

// ParseError - payload cannot be decoded in the declared format.
// Row is 1-based over data rows and zero when the failure is not row specific.
type ParseError struct {
	Format string
	Row    int
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("failed to parse ")
	b.WriteString(e.Format)
	b.WriteString(" data")
	if e.Row > 0 {
		fmt.Fprintf(&b, ": row %d", e.Row)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError - batch decoded but the validator reported errors
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s)", len(e.Errors))
}

// PersistenceError - the store rejected a write. Records before Row are committed.
type PersistenceError struct {
	Imported int
	Total    int
	Row      int
	SKU      string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to import row %d (sku %s): %d of %d imported: %v",
		e.Row, e.SKU, e.Imported, e.Total, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
