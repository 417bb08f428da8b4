// Package calc computes scalar aggregates over a customer record set.
// Everything here is pure: same records in, same snapshot out, and a
// missing column is a degraded result, never an error.
package calc

import (
	"marketing_ai/pkg/models"
)

// MetricsConfig carries the tunables for a snapshot computation.
// RevenuePerUnit is the monetary value assigned to one recorded purchase;
// it comes from configuration, not from the engine.
type MetricsConfig struct {
	EngagementThreshold float64 `yaml:"engagement_threshold" json:"engagement_threshold"`
	RevenuePerUnit      float64 `yaml:"revenue_per_unit" json:"revenue_per_unit"`
	PurchaseField       string  `yaml:"purchase_field" json:"purchase_field"`
}

// DefaultMetricsConfig mirrors the standard campaign setup.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EngagementThreshold: 80,
		RevenuePerUnit:      50,
		PurchaseField:       "purchase_count",
	}
}

// MetricsSnapshot is an immutable aggregate over one record set.
// MissingFields lists columns that no record defined, so callers can tell
// a true zero from an unavailable metric.
type MetricsSnapshot struct {
	Total              int      `json:"total"`
	HighEngagementRate float64  `json:"high_engagement_rate"`
	AvgEngagement      float64  `json:"avg_engagement"`
	RevenuePotential   float64  `json:"revenue_potential"`
	MissingFields      []string `json:"missing_fields,omitempty"`
}

// Compute builds a MetricsSnapshot for the record set.
// An empty set yields the neutral snapshot (all zeros) rather than a
// division by zero. Records lacking the engagement or purchase column are
// skipped for that metric only.
func Compute(records []models.Record, engagementField string, cfg MetricsConfig) MetricsSnapshot {
	snap := MetricsSnapshot{Total: len(records)}
	if len(records) == 0 {
		return snap
	}

	var (
		engagementSum   float64
		engagementCount int
		highCount       int
		purchaseSum     float64
		purchaseCount   int
	)

	for _, rec := range records {
		if v, ok := rec.Number(engagementField); ok {
			engagementSum += v
			engagementCount++
			if v >= cfg.EngagementThreshold {
				highCount++
			}
		}
		if v, ok := rec.Number(cfg.PurchaseField); ok {
			purchaseSum += v
			purchaseCount++
		}
	}

	snap.HighEngagementRate = float64(highCount) / float64(snap.Total)
	if engagementCount > 0 {
		snap.AvgEngagement = engagementSum / float64(engagementCount)
	} else {
		snap.MissingFields = append(snap.MissingFields, engagementField)
	}

	if purchaseCount > 0 {
		snap.RevenuePotential = purchaseSum * cfg.RevenuePerUnit
	} else {
		snap.MissingFields = append(snap.MissingFields, cfg.PurchaseField)
	}

	return snap
}
