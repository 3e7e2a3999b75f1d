// Package format converts playbook records to and from their two wire
// formats. Both adapters share one field encoding so a full export can be
// imported again without loss.
package format

import (
	"strings"

	"playbook-pipeline/internal/domains/playbook/model"
)

type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
)

// Parse accepts "json" or "csv" in any case.
func Parse(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case JSON:
		return JSON, nil
	case CSV:
		return CSV, nil
	}
	return "", &model.UnsupportedFormatError{Format: s}
}

func (f Format) ContentType() string {
	if f == CSV {
		return "text/csv"
	}
	return "application/json"
}

// Filename is the attachment name used for downloads.
func (f Format) Filename() string {
	return "playbooks." + string(f)
}

// Decode parses raw into records. Server-assigned fields and explicit nulls
// are dropped.
func Decode(raw []byte, f Format) ([]model.Record, error) {
	switch f {
	case JSON:
		return decodeJSON(raw)
	case CSV:
		return decodeCSV(raw)
	}
	return nil, &model.UnsupportedFormatError{Format: string(f)}
}

// Encode renders records using columns as the field order.
func Encode(records []model.Record, f Format, columns []string) ([]byte, error) {
	switch f {
	case JSON:
		return encodeJSON(records, columns)
	case CSV:
		return encodeCSV(records, columns)
	}
	return nil, &model.UnsupportedFormatError{Format: string(f)}
}

// listSeparator is the in-cell delimiter of a multi-valued CSV column.
func listSeparator(column string) string {
	if column == model.FieldBullets {
		return "|"
	}
	return ","
}

func isListField(column string) bool {
	switch column {
	case model.FieldTags, model.FieldBullets, model.FieldForbiddenPhrases:
		return true
	}
	return false
}

func isObjectField(column string) bool {
	switch column {
	case model.FieldItemSpecifics, model.FieldImageRules, model.FieldPolicyGate:
		return true
	}
	return false
}

func isPriceField(column string) bool {
	return column == model.FieldPriceMin || column == model.FieldPriceMax
}
