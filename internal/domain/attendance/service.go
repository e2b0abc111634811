package attendance

import (
	"context"
	"io"
)

// AnalyticsService answers dashboard queries over the cached dataset.
type AnalyticsService interface {
	// GetFilterOptions lists the selectable filter values for the current selection
	GetFilterOptions(ctx context.Context, req FilterRequest) (FilterOptionsResponse, error)

	// GetSummary returns per-employee category sums
	GetSummary(ctx context.Context, req FilterRequest) (SummaryResponse, error)

	// GetRanking ranks one category; limit <= 0 means no limit
	GetRanking(ctx context.Context, req FilterRequest, category string, limit int) (RankingResponse, error)

	// GetDistribution returns the share of each category in the filtered set
	GetDistribution(ctx context.Context, req FilterRequest) (DistributionResponse, error)

	// GetDetail returns the drill-down rows of one employee and category
	GetDetail(ctx context.Context, req DetailRequest) (DetailResult, error)

	// GetDashboard combines options, summary, rankings and distribution
	GetDashboard(ctx context.Context, req FilterRequest) (DashboardResponse, error)

	// ExportWorkbook writes the summary and rankings as an xlsx workbook
	ExportWorkbook(ctx context.Context, req FilterRequest, w io.Writer) error

	// Refresh drops the cached dataset and reloads it
	Refresh(ctx context.Context) (DatasetInfo, error)

	// ReplaceSource uploads a new source file and reloads
	ReplaceSource(ctx context.Context, file io.Reader, filename string) (DatasetInfo, error)
}
