package attendance

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestService(t *testing.T, rows []attendance.RawRow, rules RuleTable, uploader attendance.SourceUploader) attendance.AnalyticsService {
	t.Helper()
	store := NewRecordStore(&fakeLoader{rows: rows}, rules, time.Minute)
	loc, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)
	return NewAnalyticsService(store, rules, uploader, loc)
}

func TestEndToEnd_EnglishLabels(t *testing.T) {
	rows := []attendance.RawRow{
		row("A", "X", "2024-03-04", "sick leave"),
		row("A", "X", "2024-03-18", "tardiness"),
		row("B", "Y", "2024-04-02", "sick leave (half-day)"),
	}
	records := Normalize(rows, EnglishRules)
	assert.Equal(t, 1.0, records[0].LeaveDays)
	assert.Equal(t, 1.0, records[1].LeaveDays)
	assert.Equal(t, 0.5, records[2].LeaveDays)
	assert.Equal(t, 0.5, records[2].Count("sick/personal"))

	march := attendance.Period{Year: 2024, Month: time.March}
	filtered := Apply(records, attendance.Filter{Month: &march, Department: strPtr("X")})

	summaries := Summarize(filtered, EnglishRules)
	require.Len(t, summaries, 1)
	assert.Equal(t, "A", summaries[0].EmployeeName)
	assert.Equal(t, "X", summaries[0].Department)
	assert.Equal(t, map[attendance.Category]float64{
		"sick/personal": 1,
		"absence":       0,
		"tardiness":     1,
		"vacation":      0,
	}, summaries[0].Counts)

	ranked := Rank(summaries, "sick/personal")
	require.Len(t, ranked, 1)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "A", ranked[0].EmployeeName)
	assert.Equal(t, "1", ranked[0].Display)

	dist := Distribution(summaries, EnglishRules)
	require.Len(t, dist, 2)
	assert.Equal(t, attendance.Category("sick/personal"), dist[0].Category)
	assert.Equal(t, 50.0, dist[0].Percentage)
	assert.Equal(t, attendance.Category("tardiness"), dist[1].Category)
	assert.Equal(t, 50.0, dist[1].Percentage)
}

func TestAnalyticsService_GetRanking_Limits(t *testing.T) {
	var rows []attendance.RawRow
	for i := 0; i < 25; i++ {
		rows = append(rows, row(string(rune('A'+i)), "X", "2024-01-01", LabelAbsent))
	}
	svc := newTestService(t, rows, DefaultRules, nil)
	ctx := context.Background()

	resp, err := svc.GetRanking(ctx, attendance.FilterRequest{}, "absence", 0)
	require.NoError(t, err)
	assert.Len(t, resp.Rows, ChartLimit)
	assert.Equal(t, 25, resp.TotalCount)
	assert.Equal(t, attendance.UnitDays, resp.Unit)

	resp, err = svc.GetRanking(ctx, attendance.FilterRequest{}, "absence", -1)
	require.NoError(t, err)
	assert.Len(t, resp.Rows, 25)

	resp, err = svc.GetRanking(ctx, attendance.FilterRequest{}, "absence", 3)
	require.NoError(t, err)
	assert.Len(t, resp.Rows, 3)

	resp, err = svc.GetRanking(ctx, attendance.FilterRequest{Employee: "B"}, "absence", 0)
	require.NoError(t, err)
	assert.Len(t, resp.Rows, 1)

	_, err = svc.GetRanking(ctx, attendance.FilterRequest{}, "overtime", 0)
	assert.ErrorIs(t, err, attendance.ErrUnknownCategory)
}

func TestAnalyticsService_GetDashboard(t *testing.T) {
	svc := newTestService(t, []attendance.RawRow{
		row("A", "X", "2024-01-01", LabelSick),
		row("B", "Y", "2024-02-01", LabelVacation),
	}, DefaultRules, nil)

	resp, err := svc.GetDashboard(context.Background(), attendance.FilterRequest{Month: "2024-01"})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Dataset.RecordCount)
	assert.Contains(t, resp.Dataset.LoadedAt, "+07:00")
	require.Len(t, resp.Summary, 1)
	require.Len(t, resp.Rankings, 4)
	assert.Equal(t, CategorySickPersonal, resp.Rankings[0].Category)
	assert.Len(t, resp.Rankings[0].Rows, 1)
	assert.Empty(t, resp.Rankings[3].Rows)
	require.Len(t, resp.Distribution.Entries, 1)
	assert.Equal(t, "100.0%", resp.Distribution.Entries[0].Display)
	assert.Equal(t, []string{"X"}, resp.Options.Departments)
}

func TestAnalyticsService_EmptySource(t *testing.T) {
	svc := newTestService(t, nil, DefaultRules, nil)
	ctx := context.Background()

	summary, err := svc.GetSummary(ctx, attendance.FilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, summary.Rows)

	dist, err := svc.GetDistribution(ctx, attendance.FilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, dist.Entries)
	assert.Equal(t, 0.0, dist.GrandTotal)

	opts, err := svc.GetFilterOptions(ctx, attendance.FilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, opts.Options.Years)
	assert.Len(t, opts.Categories, 4)
}

func TestAnalyticsService_Validation(t *testing.T) {
	svc := newTestService(t, nil, DefaultRules, nil)
	ctx := context.Background()

	_, err := svc.GetSummary(ctx, attendance.FilterRequest{Year: "1999"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "year")

	_, err = svc.GetDetail(ctx, attendance.DetailRequest{Category: "absence"})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "employee")
}

func TestAnalyticsService_GetDetail(t *testing.T) {
	svc := newTestService(t, []attendance.RawRow{
		row("A", "X", "2024-01-01", LabelAbsent),
		row("A", "X", "2024-02-01", LabelAbsent+HalfDayMarker),
	}, DefaultRules, nil)

	result, err := svc.GetDetail(context.Background(), attendance.DetailRequest{
		FilterRequest: attendance.FilterRequest{Employee: "A", Year: "2567"},
		Category:      "absence",
	})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, "1.5", result.TotalDisplay)
}

type recordingUploader struct {
	loader   *fakeLoader
	filename string
}

func (u *recordingUploader) Replace(ctx context.Context, file io.Reader, filename string) error {
	if _, err := io.ReadAll(file); err != nil {
		return err
	}
	u.filename = filename
	u.loader.set([]attendance.RawRow{row("New", "X", "2024-05-01", LabelLate)}, nil)
	return nil
}

func TestAnalyticsService_ReplaceSource(t *testing.T) {
	ctx := context.Background()

	t.Run("read only", func(t *testing.T) {
		svc := newTestService(t, nil, DefaultRules, nil)
		_, err := svc.ReplaceSource(ctx, strings.NewReader(""), "a.xlsx")
		assert.ErrorIs(t, err, attendance.ErrSourceReadOnly)
	})

	t.Run("reloads after replace", func(t *testing.T) {
		loader := &fakeLoader{rows: []attendance.RawRow{row("Old", "X", "2024-01-01", LabelLate)}}
		uploader := &recordingUploader{loader: loader}
		store := NewRecordStore(loader, DefaultRules, time.Hour)
		svc := NewAnalyticsService(store, DefaultRules, uploader, nil)

		before, err := svc.GetSummary(ctx, attendance.FilterRequest{})
		require.NoError(t, err)
		require.Equal(t, "Old", before.Rows[0].EmployeeName)

		info, err := svc.ReplaceSource(ctx, strings.NewReader("bytes"), "new.xlsx")
		require.NoError(t, err)
		assert.Equal(t, "new.xlsx", uploader.filename)
		assert.NotEqual(t, before.Dataset.Version, info.Version)

		after, err := svc.GetSummary(ctx, attendance.FilterRequest{})
		require.NoError(t, err)
		assert.Equal(t, "New", after.Rows[0].EmployeeName)
	})
}

func TestAnalyticsService_ExportWorkbook(t *testing.T) {
	svc := newTestService(t, []attendance.RawRow{
		row("A", "X", "2024-01-01", LabelSick),
		row("A", "X", "2024-01-02", LabelSick+HalfDayMarker),
		row("B", "Y", "2024-01-03", LabelLate),
	}, DefaultRules, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportWorkbook(context.Background(), attendance.FilterRequest{}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "rank-sick-personal", "rank-absence", "rank-tardiness", "rank-vacation"}, f.GetSheetList())

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ชื่อ-สกุล", "แผนก", "ลาป่วย/ลากิจ", "ขาด", "สาย", "ลาพักผ่อน"}, rows[0])
	assert.Equal(t, "A", rows[1][0])
	assert.Equal(t, "1.5", rows[1][2])

	ranked, err := f.GetRows("rank-tardiness")
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, []string{"1", "B", "Y", "1"}, ranked[1])

	empty, err := f.GetRows("rank-vacation")
	require.NoError(t, err)
	assert.Len(t, empty, 1, "header only")
}
