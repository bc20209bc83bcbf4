package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/crmgrid/internal/models"
)

// ReportStore reads the three aggregation views. Each call is a plain
// SELECT — the views are recomputed by Postgres on every read, so a report
// is always as fresh as the last committed write. No cache, no refresh, no
// staleness.
type ReportStore struct {
	pool *pgxpool.Pool
}

func NewReportStore(pool *pgxpool.Pool) *ReportStore {
	return &ReportStore{pool: pool}
}

func (s *ReportStore) SalesFunnel(ctx context.Context) ([]models.FunnelStage, error) {
	query := `
		SELECT stage, deal_count, total_value, avg_probability
		FROM view_sales_funnel
		ORDER BY stage`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sales funnel: %w", err)
	}
	defer rows.Close()

	funnel := make([]models.FunnelStage, 0)
	for rows.Next() {
		var f models.FunnelStage
		if err := rows.Scan(&f.Stage, &f.DealCount, &f.TotalValue, &f.AvgProbability); err != nil {
			return nil, fmt.Errorf("scan funnel row: %w", err)
		}
		funnel = append(funnel, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate funnel rows: %w", err)
	}

	return funnel, nil
}

func (s *ReportStore) RevenueForecast(ctx context.Context) ([]models.ForecastBucket, error) {
	query := `
		SELECT close_year, close_month, weighted_forecast, raw_pipeline
		FROM view_revenue_forecast
		ORDER BY close_year, close_month`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query revenue forecast: %w", err)
	}
	defer rows.Close()

	buckets := make([]models.ForecastBucket, 0)
	for rows.Next() {
		var b models.ForecastBucket
		if err := rows.Scan(&b.Year, &b.Month, &b.WeightedForecast, &b.RawPipeline); err != nil {
			return nil, fmt.Errorf("scan forecast row: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate forecast rows: %w", err)
	}

	return buckets, nil
}

func (s *ReportStore) LeadConversionBySource(ctx context.Context) ([]models.SourceConversion, error) {
	query := `
		SELECT source_id, source_name, total_leads, converted_count, conversion_rate
		FROM view_lead_conversion_by_source
		ORDER BY source_id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query lead conversion: %w", err)
	}
	defer rows.Close()

	conversions := make([]models.SourceConversion, 0)
	for rows.Next() {
		var c models.SourceConversion
		// ConversionRate scans into *float64 — the view emits NULL for a
		// source with zero leads, and nil is the honest Go spelling of it.
		if err := rows.Scan(&c.SourceID, &c.SourceName, &c.TotalLeads, &c.ConvertedCount, &c.ConversionRate); err != nil {
			return nil, fmt.Errorf("scan conversion row: %w", err)
		}
		conversions = append(conversions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversion rows: %w", err)
	}

	return conversions, nil
}
