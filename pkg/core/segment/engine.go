// Package segment partitions customer records into named, possibly
// overlapping subsets. A segment is an independent predicate over a single
// field; membership is a pure function of the record's current values.
package segment

import (
	"fmt"

	"marketing_ai/pkg/models"
)

// Operator is a comparison operator for a segment predicate.
type Operator string

const (
	OpGte   Operator = "gte"        // numeric: field >= value
	OpLt    Operator = "lt"         // numeric: field < value
	OpEq    Operator = "eq"         // string: field == value
	OpIn    Operator = "in"         // string: field in values
	OpNotEq Operator = "not_equals" // string: field != value
)

// Definition describes one named segment predicate.
// Exactly one of Value (numeric comparisons), Match (eq/not_equals) or
// Values (in) is consulted, depending on the operator.
type Definition struct {
	Name     string   `yaml:"name" json:"name"`
	Field    string   `yaml:"field" json:"field"`
	Operator Operator `yaml:"operator" json:"operator"`
	Value    float64  `yaml:"value" json:"value"`
	Match    string   `yaml:"match" json:"match"`
	Values   []string `yaml:"values" json:"values"`
}

// DefaultDefinitions returns the standard five campaign segments.
// homeCountry drives the "international" predicate.
func DefaultDefinitions(homeCountry string) []Definition {
	return []Definition{
		{Name: "high_value", Field: "engagement_score", Operator: OpGte, Value: 80},
		{Name: "at_risk", Field: "engagement_score", Operator: OpLt, Value: 60},
		{Name: "newcomer", Field: "segment", Operator: OpEq, Match: "newcomer"},
		{Name: "loyal", Field: "tier", Operator: OpIn, Values: []string{"gold", "platinum"}},
		{Name: "international", Field: "country", Operator: OpNotEq, Match: homeCountry},
	}
}

// ValidateDefinitions rejects malformed predicates before any evaluation.
// An invalid definition is a caller bug, so this fails fast instead of
// degrading at runtime.
func ValidateDefinitions(defs []Definition) error {
	for _, def := range defs {
		if def.Name == "" {
			return fmt.Errorf("segment definition missing name (field=%q)", def.Field)
		}
		if def.Field == "" {
			return fmt.Errorf("segment %q: missing field", def.Name)
		}
		switch def.Operator {
		case OpGte, OpLt, OpEq, OpNotEq:
			// single-value operators, nothing else to check
		case OpIn:
			if len(def.Values) == 0 {
				return fmt.Errorf("segment %q: operator 'in' requires a non-empty value set", def.Name)
			}
		default:
			return fmt.Errorf("segment %q: unknown operator %q", def.Name, def.Operator)
		}
	}
	return nil
}

// Segment evaluates every definition independently against the record set
// and returns the matching subset per segment name. Segments overlap freely.
// A record missing the referenced field is excluded from that segment; no
// predicate ever errors at evaluation time.
func Segment(records []models.Record, defs []Definition) (map[string][]models.Record, error) {
	if err := ValidateDefinitions(defs); err != nil {
		return nil, err
	}

	out := make(map[string][]models.Record, len(defs))
	for _, def := range defs {
		subset := []models.Record{}
		for _, rec := range records {
			if matches(rec, def) {
				subset = append(subset, rec)
			}
		}
		out[def.Name] = subset
	}
	return out, nil
}

func matches(rec models.Record, def Definition) bool {
	switch def.Operator {
	case OpGte:
		v, ok := rec.Number(def.Field)
		return ok && v >= def.Value
	case OpLt:
		v, ok := rec.Number(def.Field)
		return ok && v < def.Value
	case OpEq:
		v, ok := rec.Text(def.Field)
		return ok && v == def.Match
	case OpNotEq:
		v, ok := rec.Text(def.Field)
		return ok && v != def.Match
	case OpIn:
		v, ok := rec.Text(def.Field)
		if !ok {
			return false
		}
		for _, candidate := range def.Values {
			if v == candidate {
				return true
			}
		}
		return false
	}
	return false
}
