package insight

import (
	"strings"
	"testing"

	"marketing_ai/pkg/core/calc"
	"marketing_ai/pkg/models"
)

func TestBuildOverviewPromptAggregatesOnly(t *testing.T) {
	records := []models.Record{
		{"name": "Ana", "product_interest": "shoes", "region": "EU"},
		{"name": "Ben", "product_interest": "shoes", "region": "US"},
		{"name": "Cleo", "product_interest": "bags", "region": "EU"},
	}
	snap := calc.MetricsSnapshot{
		Total:              3,
		HighEngagementRate: 0.33,
		AvgEngagement:      71.5,
		RevenuePotential:   450,
	}
	segments := map[string][]models.Record{
		"high_value": records[:1],
		"at_risk":    records[1:],
	}

	got := buildOverviewPrompt(records, snap, segments)

	for _, want := range []string{
		"total customers: 3",
		"high engagement rate: 0.33",
		"- at_risk: 2",
		"- high_value: 1",
		"Top product_interest values:",
		"- shoes: 2",
		"- EU: 2",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Prompt missing %q:\n%s", want, got)
		}
	}

	// Record-level identities must not leak into the overview prompt.
	if strings.Contains(got, "Ana") || strings.Contains(got, "Ben") {
		t.Error("Prompt should not contain individual customer names")
	}
}

func TestBuildOverviewPromptMissingColumns(t *testing.T) {
	snap := calc.MetricsSnapshot{MissingFields: []string{"engagement_score"}}
	got := buildOverviewPrompt(nil, snap, nil)
	if !strings.Contains(got, "unavailable columns: engagement_score") {
		t.Errorf("Prompt missing unavailable-columns line:\n%s", got)
	}
}
