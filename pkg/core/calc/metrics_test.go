package calc

import (
	"math"
	"testing"

	"marketing_ai/pkg/models"
)

func TestComputeEmptySet(t *testing.T) {
	snap := Compute(nil, "engagement_score", DefaultMetricsConfig())

	if snap.Total != 0 {
		t.Errorf("Expected total 0, got %d", snap.Total)
	}
	if snap.HighEngagementRate != 0 {
		t.Errorf("Expected rate 0 on empty set, got %f", snap.HighEngagementRate)
	}
	if snap.AvgEngagement != 0 || snap.RevenuePotential != 0 {
		t.Errorf("Expected neutral snapshot, got %+v", snap)
	}
}

func TestComputeRevenuePotential(t *testing.T) {
	// Revenue per unit 50, purchase counts [2, 0, 4] => 6 * 50 = 300
	cfg := DefaultMetricsConfig()
	cfg.RevenuePerUnit = 50

	records := []models.Record{
		{"engagement_score": 90.0, "purchase_count": 2.0},
		{"engagement_score": 40.0, "purchase_count": 0.0},
		{"engagement_score": 85.0, "purchase_count": 4.0},
	}

	snap := Compute(records, "engagement_score", cfg)

	if snap.RevenuePotential != 300 {
		t.Errorf("Expected revenue potential 300, got %f", snap.RevenuePotential)
	}
	// Two of three records at or above threshold 80
	if math.Abs(snap.HighEngagementRate-2.0/3.0) > 0.0001 {
		t.Errorf("Expected rate 2/3, got %f", snap.HighEngagementRate)
	}
	if math.Abs(snap.AvgEngagement-(90+40+85)/3.0) > 0.0001 {
		t.Errorf("Expected avg %f, got %f", (90+40+85)/3.0, snap.AvgEngagement)
	}
}

func TestComputeMissingColumns(t *testing.T) {
	records := []models.Record{
		{"name": "Ana"},
		{"name": "Ben"},
	}

	snap := Compute(records, "engagement_score", DefaultMetricsConfig())

	if snap.Total != 2 {
		t.Errorf("Expected total 2, got %d", snap.Total)
	}
	if snap.AvgEngagement != 0 || snap.RevenuePotential != 0 {
		t.Errorf("Expected neutral values for missing columns, got %+v", snap)
	}
	if len(snap.MissingFields) != 2 {
		t.Errorf("Expected both columns flagged missing, got %v", snap.MissingFields)
	}
}

func TestComputeStringNumbers(t *testing.T) {
	// CSV sources deliver numbers as strings; accessors must coerce.
	records := []models.Record{
		{"engagement_score": "88", "purchase_count": "3"},
	}

	snap := Compute(records, "engagement_score", DefaultMetricsConfig())

	if snap.HighEngagementRate != 1 {
		t.Errorf("Expected rate 1, got %f", snap.HighEngagementRate)
	}
	if snap.RevenuePotential != 150 {
		t.Errorf("Expected 3*50=150, got %f", snap.RevenuePotential)
	}
}
