package attendance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"golang.org/x/sync/errgroup"
)

type AnalyticsServiceImpl struct {
	store    *RecordStore
	rules    RuleTable
	uploader attendance.SourceUploader
	location *time.Location
}

// NewAnalyticsService builds the dashboard service. uploader may be nil when
// the source cannot be replaced.
func NewAnalyticsService(
	store *RecordStore,
	rules RuleTable,
	uploader attendance.SourceUploader,
	location *time.Location,
) attendance.AnalyticsService {
	if location == nil {
		location = time.UTC
	}
	return &AnalyticsServiceImpl{
		store:    store,
		rules:    rules,
		uploader: uploader,
		location: location,
	}
}

// query loads the dataset and resolves the request filter.
func (s *AnalyticsServiceImpl) query(ctx context.Context, req attendance.FilterRequest) (*attendance.Dataset, attendance.Filter, error) {
	filter, err := req.ToFilter()
	if err != nil {
		return nil, attendance.Filter{}, err
	}

	ds, err := s.store.Dataset(ctx)
	if err != nil {
		return nil, attendance.Filter{}, err
	}
	return ds, filter, nil
}

func (s *AnalyticsServiceImpl) datasetInfo(ds *attendance.Dataset) attendance.DatasetInfo {
	return NewDatasetInfo(ds, s.location)
}

// NewDatasetInfo describes a dataset with its load time in loc.
func NewDatasetInfo(ds *attendance.Dataset, loc *time.Location) attendance.DatasetInfo {
	if loc == nil {
		loc = time.UTC
	}
	return attendance.DatasetInfo{
		Version:     ds.Version,
		LoadedAt:    ds.LoadedAt.In(loc).Format(time.RFC3339),
		RecordCount: len(ds.Records),
	}
}

func (s *AnalyticsServiceImpl) categoryInfo() []attendance.CategoryInfo {
	out := make([]attendance.CategoryInfo, 0, len(s.rules.Rules))
	for _, rule := range s.rules.Rules {
		out = append(out, attendance.CategoryInfo{Name: rule.Category, Unit: rule.Unit})
	}
	return out
}

func (s *AnalyticsServiceImpl) summaryItems(rows []attendance.SummaryRow) []attendance.SummaryItem {
	items := make([]attendance.SummaryItem, 0, len(rows))
	for _, row := range rows {
		display := make(map[attendance.Category]string, len(row.Counts))
		for c, v := range row.Counts {
			display[c] = FormatCount(v)
		}
		items = append(items, attendance.SummaryItem{
			EmployeeName: row.EmployeeName,
			Department:   row.Department,
			Counts:       row.Counts,
			Display:      display,
			LeaveDays:    row.LeaveDays,
		})
	}
	return items
}

func (s *AnalyticsServiceImpl) ranking(rows []attendance.SummaryRow, category attendance.Category, limit int) attendance.RankingResponse {
	rule, _ := s.rules.Rule(category)
	ranked := Rank(rows, category)
	return attendance.RankingResponse{
		Category:   category,
		Unit:       rule.Unit,
		Rows:       Top(ranked, limit),
		TotalCount: len(ranked),
	}
}

func (s *AnalyticsServiceImpl) distribution(rows []attendance.SummaryRow) attendance.DistributionResponse {
	entries := Distribution(rows, s.rules)
	items := make([]attendance.DistributionItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, attendance.DistributionItem{
			DistributionEntry: e,
			Display:           fmt.Sprintf("%.1f%%", e.Percentage),
		})
	}
	return attendance.DistributionResponse{
		GrandTotal: GrandTotal(entries),
		Entries:    items,
	}
}

// GetFilterOptions lists selectable filter values
func (s *AnalyticsServiceImpl) GetFilterOptions(ctx context.Context, req attendance.FilterRequest) (attendance.FilterOptionsResponse, error) {
	ds, filter, err := s.query(ctx, req)
	if err != nil {
		return attendance.FilterOptionsResponse{}, err
	}

	return attendance.FilterOptionsResponse{
		Dataset:    s.datasetInfo(ds),
		Categories: s.categoryInfo(),
		Options:    Options(ds.Records, filter),
	}, nil
}

// GetSummary returns per-employee category sums
func (s *AnalyticsServiceImpl) GetSummary(ctx context.Context, req attendance.FilterRequest) (attendance.SummaryResponse, error) {
	ds, filter, err := s.query(ctx, req)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	rows := Summarize(Apply(ds.Records, filter), s.rules)
	return attendance.SummaryResponse{
		Dataset: s.datasetInfo(ds),
		Rows:    s.summaryItems(rows),
	}, nil
}

// GetRanking ranks one category. A zero limit applies the chart limit; a
// negative limit returns every ranked row.
func (s *AnalyticsServiceImpl) GetRanking(ctx context.Context, req attendance.FilterRequest, category string, limit int) (attendance.RankingResponse, error) {
	c, err := s.rules.ParseCategory(category)
	if err != nil {
		return attendance.RankingResponse{}, err
	}

	ds, filter, err := s.query(ctx, req)
	if err != nil {
		return attendance.RankingResponse{}, err
	}

	if limit == 0 {
		limit = chartLimit(filter)
	}

	rows := Summarize(Apply(ds.Records, filter), s.rules)
	return s.ranking(rows, c, limit), nil
}

// GetDistribution returns the category shares of the filtered set
func (s *AnalyticsServiceImpl) GetDistribution(ctx context.Context, req attendance.FilterRequest) (attendance.DistributionResponse, error) {
	ds, filter, err := s.query(ctx, req)
	if err != nil {
		return attendance.DistributionResponse{}, err
	}

	rows := Summarize(Apply(ds.Records, filter), s.rules)
	return s.distribution(rows), nil
}

// GetDetail returns the drill-down of one employee and category
func (s *AnalyticsServiceImpl) GetDetail(ctx context.Context, req attendance.DetailRequest) (attendance.DetailResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.DetailResult{}, err
	}

	c, err := s.rules.ParseCategory(req.Category)
	if err != nil {
		return attendance.DetailResult{}, err
	}

	ds, filter, err := s.query(ctx, req.FilterRequest)
	if err != nil {
		return attendance.DetailResult{}, err
	}

	return Detail(Apply(ds.Records, filter), *filter.Employee, c, s.rules)
}

// GetDashboard combines options, summary, rankings and distribution
func (s *AnalyticsServiceImpl) GetDashboard(ctx context.Context, req attendance.FilterRequest) (attendance.DashboardResponse, error) {
	ds, filter, err := s.query(ctx, req)
	if err != nil {
		return attendance.DashboardResponse{}, err
	}

	rows := Summarize(Apply(ds.Records, filter), s.rules)
	limit := chartLimit(filter)
	categories := s.rules.Categories()

	resp := attendance.DashboardResponse{
		Dataset:     s.datasetInfo(ds),
		Categories:  s.categoryInfo(),
		Rankings:    make([]attendance.RankingResponse, len(categories)),
		GeneratedAt: time.Now().In(s.location).Format(time.RFC3339),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		resp.Options = Options(ds.Records, filter)
		return gCtx.Err()
	})

	g.Go(func() error {
		resp.Summary = s.summaryItems(rows)
		return gCtx.Err()
	})

	for i, c := range categories {
		g.Go(func() error {
			resp.Rankings[i] = s.ranking(rows, c, limit)
			return gCtx.Err()
		})
	}

	g.Go(func() error {
		resp.Distribution = s.distribution(rows)
		return gCtx.Err()
	})

	if err := g.Wait(); err != nil {
		return attendance.DashboardResponse{}, err
	}
	return resp, nil
}

// chartLimit truncates chart feeds unless a single employee is selected.
func chartLimit(f attendance.Filter) int {
	if f.Employee != nil {
		return 0
	}
	return ChartLimit
}

// ExportWorkbook writes the filtered summary and rankings as xlsx
func (s *AnalyticsServiceImpl) ExportWorkbook(ctx context.Context, req attendance.FilterRequest, w io.Writer) error {
	ds, filter, err := s.query(ctx, req)
	if err != nil {
		return err
	}

	rows := Summarize(Apply(ds.Records, filter), s.rules)
	return WriteWorkbook(w, rows, s.rules)
}

// Refresh drops the cache and reloads the source
func (s *AnalyticsServiceImpl) Refresh(ctx context.Context) (attendance.DatasetInfo, error) {
	ds, err := s.store.Reload(ctx)
	if err != nil {
		return attendance.DatasetInfo{}, err
	}
	return s.datasetInfo(ds), nil
}

// ReplaceSource stores a new source file and reloads
func (s *AnalyticsServiceImpl) ReplaceSource(ctx context.Context, file io.Reader, filename string) (attendance.DatasetInfo, error) {
	if s.uploader == nil {
		return attendance.DatasetInfo{}, attendance.ErrSourceReadOnly
	}

	if err := s.uploader.Replace(ctx, file, filename); err != nil {
		return attendance.DatasetInfo{}, fmt.Errorf("failed to replace source: %w", err)
	}
	slog.Info("Attendance source replaced", "filename", filename)

	return s.Refresh(ctx)
}
