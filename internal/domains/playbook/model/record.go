package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// Field names shared by both wire formats.
const (
	FieldID               = "id"
	FieldSKU              = "sku"
	FieldSKUPrefix        = "skuPrefix"
	FieldCategory         = "category"
	FieldTags             = "tags"
	FieldIsActive         = "isActive"
	FieldTitleTemplate    = "titleTemplate"
	FieldSubtitle         = "subtitle"
	FieldBullets          = "bullets"
	FieldItemSpecifics    = "itemSpecifics"
	FieldForbiddenPhrases = "forbiddenPhrases"
	FieldPriceMin         = "priceMin"
	FieldPriceMax         = "priceMax"
	FieldShippingProfile  = "shippingProfile"
	FieldReturnsProfile   = "returnsProfile"
	FieldImageRules       = "imageRules"
	FieldPolicyGate       = "policyGate"
	FieldVersion          = "version"
	FieldCreatedAt        = "createdAt"
	FieldUpdatedAt        = "updatedAt"

	FieldRequireMinCount           = "requireMinCount"
	FieldMustInclude               = "mustInclude"
	FieldRequiresAuthorizationDocs = "requiresAuthorizationDocs"
)

// ServerAssignedFields are owned by the store and ignored on import.
var ServerAssignedFields = []string{FieldID, FieldVersion, FieldCreatedAt, FieldUpdatedAt}

// IsServerAssigned reports whether key is one of ServerAssignedFields.
func IsServerAssigned(key string) bool {
	for _, f := range ServerAssignedFields {
		if f == key {
			return true
		}
	}
	return false
}

// Record is a decoded but unvalidated playbook. Every field is optional and
// loosely typed; values use the shapes encoding/json produces (string,
// float64, bool, []any, map[string]any).
type Record map[string]any

// Has reports whether key is present with a non-nil value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns the value of key when it is a string.
func (r Record) String(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

// Bool returns the value of key when it is a boolean.
func (r Record) Bool(key string) (bool, bool) {
	b, ok := r[key].(bool)
	return b, ok
}

// Number returns the value of key as float64. ok is false when the value is
// not numeric; NaN and infinities are returned with ok true so callers can
// report them precisely.
func (r Record) Number(key string) (float64, bool) {
	return toFloat(r[key])
}

// Strings returns the value of key when it is a sequence of strings.
func (r Record) Strings(key string) ([]string, bool) {
	return toStrings(r[key])
}

// Object returns the value of key when it is a JSON object.
func (r Record) Object(key string) (map[string]any, bool) {
	m, ok := r[key].(map[string]any)
	return m, ok
}

// IsSequence reports whether the value of key is list-shaped.
func (r Record) IsSequence(key string) bool {
	switch r[key].(type) {
	case []any, []string:
		return true
	}
	return false
}

// Clone deep-copies the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case Record:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	case []string:
		return cloneStrings(t)
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN(), false
		}
		return f, true
	}
	return 0, false
}

func toStrings(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return cloneStrings(s), true
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	}
	return nil, false
}

// FormatNumber renders a number the way it was written, without trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
