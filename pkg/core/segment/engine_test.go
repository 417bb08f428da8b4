package segment

import (
	"reflect"
	"testing"

	"marketing_ai/pkg/models"
)

func sampleRecords() []models.Record {
	return []models.Record{
		{"name": "Ana", "engagement_score": 92.0, "segment": "loyal", "tier": "gold", "country": "DE"},
		{"name": "Ben", "engagement_score": 45.0, "segment": "newcomer", "tier": "bronze", "country": "US"},
		{"name": "Cleo", "engagement_score": 85.0, "tier": "platinum", "country": "US"},
		{"name": "Dev", "segment": "newcomer", "country": "JP"},
	}
}

func names(records []models.Record) []string {
	out := []string{}
	for _, r := range records {
		n, _ := r.Text("name")
		out = append(out, n)
	}
	return out
}

func TestSegmentStandardDefinitions(t *testing.T) {
	segments, err := Segment(sampleRecords(), DefaultDefinitions("US"))
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	cases := map[string][]string{
		"high_value":    {"Ana", "Cleo"},
		"at_risk":       {"Ben"},
		"newcomer":      {"Ben", "Dev"},
		"loyal":         {"Ana", "Cleo"},
		"international": {"Ana", "Dev"},
	}
	for name, want := range cases {
		got := names(segments[name])
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Segment %q: expected %v, got %v", name, want, got)
		}
	}
}

func TestSegmentOverlap(t *testing.T) {
	// Ana scores high and is on a loyal tier: she must appear in both.
	segments, err := Segment(sampleRecords(), DefaultDefinitions("US"))
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	inHigh := false
	for _, r := range segments["high_value"] {
		if n, _ := r.Text("name"); n == "Ana" {
			inHigh = true
		}
	}
	inLoyal := false
	for _, r := range segments["loyal"] {
		if n, _ := r.Text("name"); n == "Ana" {
			inLoyal = true
		}
	}
	if !inHigh || !inLoyal {
		t.Errorf("Expected Ana in both high_value and loyal (high=%v loyal=%v)", inHigh, inLoyal)
	}
}

func TestSegmentDeterministic(t *testing.T) {
	records := sampleRecords()
	defs := DefaultDefinitions("US")

	first, err := Segment(records, defs)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	second, err := Segment(records, defs)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical subsets on recomputation")
	}
}

func TestSegmentMissingFieldExcluded(t *testing.T) {
	// Dev has no engagement_score and must simply not match numeric predicates.
	segments, err := Segment(sampleRecords(), DefaultDefinitions("US"))
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	for _, r := range segments["at_risk"] {
		if n, _ := r.Text("name"); n == "Dev" {
			t.Error("Record without engagement_score must be excluded from at_risk")
		}
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	segments, err := Segment(nil, DefaultDefinitions("US"))
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	for name, subset := range segments {
		if len(subset) != 0 {
			t.Errorf("Segment %q: expected empty subset, got %d records", name, len(subset))
		}
	}
}

func TestValidateDefinitions(t *testing.T) {
	cases := []struct {
		name    string
		defs    []Definition
		wantErr bool
	}{
		{"valid", DefaultDefinitions("US"), false},
		{"unknown operator", []Definition{{Name: "x", Field: "f", Operator: "between"}}, true},
		{"missing field", []Definition{{Name: "x", Operator: OpEq}}, true},
		{"missing name", []Definition{{Field: "f", Operator: OpEq}}, true},
		{"empty in-set", []Definition{{Name: "x", Field: "f", Operator: OpIn}}, true},
	}

	for _, tc := range cases {
		err := ValidateDefinitions(tc.defs)
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestSegmentCustomDefinitions(t *testing.T) {
	defs := []Definition{
		{Name: "big_spenders", Field: "purchase_count", Operator: OpGte, Value: 5},
	}
	records := []models.Record{
		{"name": "Ana", "purchase_count": 7.0},
		{"name": "Ben", "purchase_count": 2.0},
	}

	segments, err := Segment(records, defs)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if got := names(segments["big_spenders"]); !reflect.DeepEqual(got, []string{"Ana"}) {
		t.Errorf("Expected [Ana], got %v", got)
	}
}
