package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/marks-analytics-api/internal/analytics"
	"github.com/noah-isme/marks-analytics-api/internal/models"
	appErrors "github.com/noah-isme/marks-analytics-api/pkg/errors"
	"github.com/noah-isme/marks-analytics-api/pkg/export"
)

// Report names accepted by the export endpoint.
const (
	ReportOverview     = "overview"
	ReportSubjects     = "subjects"
	ReportToppers      = "toppers"
	ReportDistribution = "distribution"
	ReportTimeline     = "timeline"
)

type analyticsReports interface {
	Overview(ctx context.Context, params analytics.Params) (models.AnalyticsOverview, bool, error)
	SubjectAverages(ctx context.Context, params analytics.Params) ([]models.SubjectAverage, bool, error)
	TopStudents(ctx context.Context, params analytics.Params, limit int) ([]models.TopStudent, bool, error)
	Distribution(ctx context.Context, params analytics.Params, rawBins string) ([]models.HistogramBucket, bool, error)
	Timeline(ctx context.Context, params analytics.Params) ([]models.TimelinePoint, bool, error)
}

// ExportRequest selects the report and its filters.
type ExportRequest struct {
	Report string
	Format export.Format
	Params analytics.Params
	Limit  int
	Bins   string
}

// ExportResult is a rendered document ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders analytics reports as CSV or PDF documents.
type ExportService struct {
	reports analyticsReports
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs the export service.
func NewExportService(reports analyticsReports, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{reports: reports, logger: logger, now: time.Now}
}

// Export computes the requested report and renders it.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	if req.Format == "" {
		req.Format = export.FormatCSV
	}
	renderer, err := export.ForFormat(export.Format(strings.ToLower(string(req.Format))))
	if err != nil {
		return nil, appErrors.Validation(err, "Invalid format")
	}

	dataset, err := s.dataset(ctx, req)
	if err != nil {
		return nil, err
	}

	payload, err := renderer.Render(dataset)
	if err != nil {
		s.logger.Error("render export", zap.String("report", req.Report), zap.Error(err))
		return nil, appErrors.Internal(err, "Error generating export")
	}

	filename := fmt.Sprintf("%s-%s.%s", req.Report, s.now().UTC().Format("20060102-150405"), renderer.Extension())
	return &ExportResult{Filename: filename, ContentType: renderer.ContentType(), Data: payload}, nil
}

func (s *ExportService) dataset(ctx context.Context, req ExportRequest) (export.Dataset, error) {
	switch req.Report {
	case ReportOverview:
		overview, _, err := s.reports.Overview(ctx, req.Params)
		if err != nil {
			return export.Dataset{}, err
		}
		return overviewDataset(overview), nil
	case ReportSubjects:
		subjects, _, err := s.reports.SubjectAverages(ctx, req.Params)
		if err != nil {
			return export.Dataset{}, err
		}
		return subjectsDataset(subjects), nil
	case ReportToppers:
		toppers, _, err := s.reports.TopStudents(ctx, req.Params, req.Limit)
		if err != nil {
			return export.Dataset{}, err
		}
		return toppersDataset(toppers), nil
	case ReportDistribution:
		buckets, _, err := s.reports.Distribution(ctx, req.Params, req.Bins)
		if err != nil {
			return export.Dataset{}, err
		}
		return distributionDataset(buckets), nil
	case ReportTimeline:
		points, _, err := s.reports.Timeline(ctx, req.Params)
		if err != nil {
			return export.Dataset{}, err
		}
		return timelineDataset(points), nil
	default:
		return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, "Invalid report")
	}
}

func overviewDataset(o models.AnalyticsOverview) export.Dataset {
	return export.Dataset{
		Title:   "Analytics Overview",
		Headers: []string{"Metric", "Value"},
		Rows: []map[string]string{
			{"Metric": "Students", "Value": strconv.Itoa(o.Students)},
			{"Metric": "Total Entries", "Value": strconv.Itoa(o.TotalEntries)},
			{"Metric": "Average Percentage", "Value": formatPercent(o.AveragePercentage)},
			{"Metric": "Pass Rate", "Value": formatPercent(o.PassRate)},
			{"Metric": "Average Attendance", "Value": formatPercent(o.AverageAttendance)},
		},
	}
}

func subjectsDataset(subjects []models.SubjectAverage) export.Dataset {
	rows := make([]map[string]string, 0, len(subjects))
	for _, sub := range subjects {
		rows = append(rows, map[string]string{
			"Subject": sub.Subject,
			"Average": formatPercent(sub.AvgPercent),
			"Entries": strconv.Itoa(sub.Count),
		})
	}
	return export.Dataset{Title: "Subject Averages", Headers: []string{"Subject", "Average", "Entries"}, Rows: rows}
}

func toppersDataset(toppers []models.TopStudent) export.Dataset {
	rows := make([]map[string]string, 0, len(toppers))
	for i, t := range toppers {
		rows = append(rows, map[string]string{
			"Rank":       strconv.Itoa(i + 1),
			"Name":       t.Name,
			"Roll No":    t.RollNo,
			"Class":      t.ClassName,
			"Average":    formatPercent(t.AvgPercent),
			"Attendance": formatPercent(t.AttendancePercent),
		})
	}
	return export.Dataset{Title: "Top Students", Headers: []string{"Rank", "Name", "Roll No", "Class", "Average", "Attendance"}, Rows: rows}
}

func distributionDataset(buckets []models.HistogramBucket) export.Dataset {
	rows := make([]map[string]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, map[string]string{"Range": b.Range, "Count": strconv.Itoa(b.Count)})
	}
	return export.Dataset{Title: "Score Distribution", Headers: []string{"Range", "Count"}, Rows: rows}
}

func timelineDataset(points []models.TimelinePoint) export.Dataset {
	rows := make([]map[string]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, map[string]string{
			"Exam":    p.ExamLabel,
			"Date":    p.ExamDate.UTC().Format("2006-01-02"),
			"Average": formatPercent(p.AvgPercent),
		})
	}
	return export.Dataset{Title: "Exam Timeline", Headers: []string{"Exam", "Date", "Average"}, Rows: rows}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
