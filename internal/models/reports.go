package models

// Row shapes for the three reporting views. These are read-only — the views
// are recomputed by Postgres on every SELECT, there is no materialization
// and nothing to refresh.

// FunnelStage is one row of view_sales_funnel: all opportunities in a
// stage, counted and summed, with the average probability.
type FunnelStage struct {
	Stage          Stage   `json:"stage"`
	DealCount      int64   `json:"deal_count"`
	TotalValue     float64 `json:"total_value"`
	AvgProbability float64 `json:"avg_probability"`
}

// ForecastBucket is one row of view_revenue_forecast: open (non-closed)
// opportunities grouped by the year/month of their expected close date.
// Opportunities with no expected close date belong to no bucket at all.
type ForecastBucket struct {
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	WeightedForecast float64 `json:"weighted_forecast"`
	RawPipeline      float64 `json:"raw_pipeline"`
}

// SourceConversion is one row of view_lead_conversion_by_source.
//
// ConversionRate is a *float64 because a source with zero leads has no
// rate — the view divides by NULLIF(total, 0), which yields SQL NULL
// rather than a divide-by-zero, and NULL scans into nil here. 0.00 would
// be a lie (it reads as "none of the many leads converted").
type SourceConversion struct {
	SourceID       int32    `json:"source_id"`
	SourceName     string   `json:"source_name"`
	TotalLeads     int64    `json:"total_leads"`
	ConvertedCount int64    `json:"converted_count"`
	ConversionRate *float64 `json:"conversion_rate"`
}
