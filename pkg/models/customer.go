package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one customer row, keyed by column name. There is no fixed
// schema: callers look fields up by name and must tolerate absence.
// Values are either strings (CSV source) or float64 (already-typed sources).
type Record map[string]interface{}

// Number returns the numeric value of a field. A field that is absent,
// empty, or not parseable as a number reports ok=false; the record is then
// treated as not defining that field.
func (r Record) Number(field string) (float64, bool) {
	raw, ok := r[field]
	if !ok || raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Text returns the string form of a field. Numeric values are formatted;
// absent or empty values report ok=false.
func (r Record) Text(field string) (string, bool) {
	raw, ok := r[field]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", false
		}
		return s, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	default:
		return fmt.Sprintf("%v", raw), true
	}
}

// Has reports whether the record defines a non-empty value for the field.
func (r Record) Has(field string) bool {
	_, ok := r.Text(field)
	return ok
}

// Identifier returns a human-usable ID for the record: the first of the
// candidate fields that is present, else the fallback.
func (r Record) Identifier(candidates []string, fallback string) string {
	for _, f := range candidates {
		if v, ok := r.Text(f); ok {
			return v
		}
	}
	return fallback
}
