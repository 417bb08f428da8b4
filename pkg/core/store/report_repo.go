package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"marketing_ai/pkg/core/campaign"
)

// ReportRepo archives generated campaign reports. Storage is optional:
// without a configured pool the engine works purely in memory and only the
// export path is available.
type ReportRepo struct{}

// NewReportRepo creates a new repository instance.
func NewReportRepo() *ReportRepo {
	return &ReportRepo{}
}

// Save persists one report as a JSONB blob, keyed by report ID.
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS campaign_reports (
//	  id UUID PRIMARY KEY,
//	  content_type TEXT,
//	  report_json JSONB,
//	  created_at TIMESTAMPTZ
//	);
func (r *ReportRepo) Save(ctx context.Context, report *campaign.Report) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO campaign_reports (id, content_type, report_json, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET
			content_type = EXCLUDED.content_type,
			report_json = EXCLUDED.report_json;
	`

	_, err = pool.Exec(ctx, query, report.ID.String(), string(report.ContentType), jsonData, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// Load retrieves an archived report by ID.
func (r *ReportRepo) Load(ctx context.Context, id string) (*campaign.Report, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT report_json FROM campaign_reports WHERE id = $1`

	var jsonData []byte
	err := pool.QueryRow(ctx, query, id).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no report found with id %s", id)
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var report campaign.Report
	if err := json.Unmarshal(jsonData, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}
