package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/marks-analytics-api/internal/analytics"
	"github.com/noah-isme/marks-analytics-api/internal/models"
	"github.com/noah-isme/marks-analytics-api/internal/service"
	appErrors "github.com/noah-isme/marks-analytics-api/pkg/errors"
)

type fakeAnalyticsSrv struct {
	lastParams analytics.Params
	lastLimit  int
	lastBins   string
	hit        bool
	err        error
}

func (f *fakeAnalyticsSrv) Overview(_ context.Context, params analytics.Params) (models.AnalyticsOverview, bool, error) {
	f.lastParams = params
	return models.AnalyticsOverview{Students: 3, TotalEntries: 3, AveragePercentage: 53.33, PassRate: 66.67}, f.hit, f.err
}

func (f *fakeAnalyticsSrv) SubjectAverages(_ context.Context, params analytics.Params) ([]models.SubjectAverage, bool, error) {
	f.lastParams = params
	return []models.SubjectAverage{}, f.hit, f.err
}

func (f *fakeAnalyticsSrv) TopStudents(_ context.Context, params analytics.Params, limit int) ([]models.TopStudent, bool, error) {
	f.lastParams = params
	f.lastLimit = limit
	return []models.TopStudent{{StudentID: "s1", Name: "Asha", AvgPercent: 90}}, f.hit, f.err
}

func (f *fakeAnalyticsSrv) Distribution(_ context.Context, params analytics.Params, bins string) ([]models.HistogramBucket, bool, error) {
	f.lastParams = params
	f.lastBins = bins
	return []models.HistogramBucket{{Range: "0-40", Count: 1}}, f.hit, f.err
}

func (f *fakeAnalyticsSrv) Timeline(_ context.Context, params analytics.Params) ([]models.TimelinePoint, bool, error) {
	f.lastParams = params
	return []models.TimelinePoint{}, f.hit, f.err
}

func (f *fakeAnalyticsSrv) SystemMetrics() models.AnalyticsSystemMetrics {
	return models.AnalyticsSystemMetrics{}
}

type fakeExporter struct {
	last service.ExportRequest
	err  error
}

func (f *fakeExporter) Export(_ context.Context, req service.ExportRequest) (*service.ExportResult, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &service.ExportResult{Filename: "subjects.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("Subject\n")}, nil
}

func TestAnalyticsOverviewEnvelope(t *testing.T) {
	srv := &fakeAnalyticsSrv{hit: true}
	h := NewAnalyticsHandler(srv, nil, "/api")
	c, rec := newTestContext(http.MethodGet, "/api/admin/analytics/overview?batch=2024&semester=2&section=A&examType=final", nil)

	h.Overview(c)

	body := requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, true, body["success"])
	overview := body["overview"].(map[string]interface{})
	assert.Equal(t, 66.67, overview["passRate"])
	assert.Equal(t, true, body["meta"].(map[string]interface{})["cache_hit"])
	assert.Equal(t, analytics.Params{Batch: "2024", Semester: "2", Section: "A", ExamType: "final"}, srv.lastParams)
}

func TestAnalyticsToppersLimit(t *testing.T) {
	srv := &fakeAnalyticsSrv{}
	h := NewAnalyticsHandler(srv, nil, "/api")

	c, rec := newTestContext(http.MethodGet, "/toppers?limit=1", nil)
	h.Toppers(c)
	body := requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, 1, srv.lastLimit)
	toppers := body["toppers"].([]interface{})
	require.Len(t, toppers, 1)
	assert.Equal(t, 0.0, toppers[0].(map[string]interface{})["attendancePercent"])

	c, rec = newTestContext(http.MethodGet, "/toppers?limit=ten", nil)
	h.Toppers(c)
	body = requireStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "Invalid limit", body["message"])
}

func TestAnalyticsDistributionPassesBins(t *testing.T) {
	srv := &fakeAnalyticsSrv{}
	h := NewAnalyticsHandler(srv, nil, "/api")
	c, rec := newTestContext(http.MethodGet, "/distribution?subject=Math&bins=0-50,50-100", nil)

	h.Distribution(c)

	body := requireStatus(t, rec, http.StatusOK)
	assert.Len(t, body["histogram"], 1)
	assert.Equal(t, "0-50,50-100", srv.lastBins)
	assert.Equal(t, "Math", srv.lastParams.Subject)
}

func TestAnalyticsFailureHidesCause(t *testing.T) {
	srv := &fakeAnalyticsSrv{err: appErrors.Internal(assert.AnError, "Error computing timeline")}
	h := NewAnalyticsHandler(srv, nil, "/api")
	c, rec := newTestContext(http.MethodGet, "/timeline", nil)

	h.Timeline(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Error computing timeline","code":"INTERNAL_ERROR"}`, rec.Body.String())
}

func TestAnalyticsIndexListsEndpoints(t *testing.T) {
	h := NewAnalyticsHandler(&fakeAnalyticsSrv{}, nil, "/api/")
	c, rec := newTestContext(http.MethodGet, "/api/admin/analytics", nil)

	h.Index(c)

	body := requireStatus(t, rec, http.StatusOK)
	endpoints := body["endpoints"].([]interface{})
	require.Len(t, endpoints, 5)
	assert.Equal(t, "/api/admin/analytics/overview", endpoints[0])
	assert.Equal(t, "/api/admin/analytics/timeline", endpoints[4])
}

func TestAnalyticsExportStreamsDocument(t *testing.T) {
	exporter := &fakeExporter{}
	h := NewAnalyticsHandler(&fakeAnalyticsSrv{}, exporter, "/api")
	c, rec := newTestContext(http.MethodGet, "/export?report=Subjects&batch=2024", nil)

	h.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="subjects.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "subjects", exporter.last.Report)
	assert.Equal(t, "csv", string(exporter.last.Format))
	assert.Equal(t, "2024", exporter.last.Params.Batch)
}

func TestAnalyticsExportValidationError(t *testing.T) {
	exporter := &fakeExporter{err: appErrors.Clone(appErrors.ErrValidation, "Invalid report")}
	h := NewAnalyticsHandler(&fakeAnalyticsSrv{}, exporter, "/api")
	c, rec := newTestContext(http.MethodGet, "/export?report=grades", nil)

	h.Export(c)

	body := requireStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "Invalid report", body["message"])
}
