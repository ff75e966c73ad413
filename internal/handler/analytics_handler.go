package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/marks-analytics-api/internal/analytics"
	"github.com/noah-isme/marks-analytics-api/internal/middleware"
	"github.com/noah-isme/marks-analytics-api/internal/models"
	"github.com/noah-isme/marks-analytics-api/internal/service"
	appErrors "github.com/noah-isme/marks-analytics-api/pkg/errors"
	"github.com/noah-isme/marks-analytics-api/pkg/export"
	"github.com/noah-isme/marks-analytics-api/pkg/response"
)

type analyticsService interface {
	Overview(ctx context.Context, params analytics.Params) (models.AnalyticsOverview, bool, error)
	SubjectAverages(ctx context.Context, params analytics.Params) ([]models.SubjectAverage, bool, error)
	TopStudents(ctx context.Context, params analytics.Params, limit int) ([]models.TopStudent, bool, error)
	Distribution(ctx context.Context, params analytics.Params, rawBins string) ([]models.HistogramBucket, bool, error)
	Timeline(ctx context.Context, params analytics.Params) ([]models.TimelinePoint, bool, error)
	SystemMetrics() models.AnalyticsSystemMetrics
}

type reportExporter interface {
	Export(ctx context.Context, req service.ExportRequest) (*service.ExportResult, error)
}

// AnalyticsHandler exposes the admin analytics endpoints.
type AnalyticsHandler struct {
	analytics analyticsService
	exporter  reportExporter
	prefix    string
}

// NewAnalyticsHandler constructs the analytics handler. prefix is the API
// prefix used when listing endpoints.
func NewAnalyticsHandler(svc analyticsService, exporter reportExporter, prefix string) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc, exporter: exporter, prefix: strings.TrimSuffix(prefix, "/")}
}

// Index godoc
// @Summary List analytics endpoints
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/analytics [get]
func (h *AnalyticsHandler) Index(c *gin.Context) {
	base := h.prefix + "/admin/analytics/"
	endpoints := []string{
		base + service.OpOverview,
		base + service.OpSubjects,
		base + service.OpToppers,
		base + service.OpDistribution,
		base + service.OpTimeline,
	}
	response.Message(c, "Available analytics endpoints", response.Payload{"endpoints": endpoints})
}

// Overview godoc
// @Summary Cohort overview
// @Tags Analytics
// @Produce json
// @Param batch query string false "Batch"
// @Param semester query int false "Semester"
// @Param section query string false "Section"
// @Param examType query string false "Exam type"
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Failure
// @Router /admin/analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, hit, err := h.analytics.Overview(c.Request.Context(), analyticsParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, hit, response.Payload{"overview": overview})
}

// Subjects godoc
// @Summary Mean percentage per subject
// @Tags Analytics
// @Produce json
// @Param batch query string false "Batch"
// @Param semester query int false "Semester"
// @Param section query string false "Section"
// @Param examType query string false "Exam type"
// @Success 200 {object} response.Envelope
// @Router /admin/analytics/subjects [get]
func (h *AnalyticsHandler) Subjects(c *gin.Context) {
	subjects, hit, err := h.analytics.SubjectAverages(c.Request.Context(), analyticsParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, hit, response.Payload{"subjects": subjects})
}

// Toppers godoc
// @Summary Top students by mean percentage
// @Tags Analytics
// @Produce json
// @Param batch query string false "Batch"
// @Param semester query int false "Semester"
// @Param section query string false "Section"
// @Param examType query string false "Exam type"
// @Param limit query int false "Number of students" default(10)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Failure
// @Router /admin/analytics/toppers [get]
func (h *AnalyticsHandler) Toppers(c *gin.Context) {
	limit, err := parseLimit(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	toppers, hit, err := h.analytics.TopStudents(c.Request.Context(), analyticsParams(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, hit, response.Payload{"toppers": toppers})
}

// Distribution godoc
// @Summary Histogram of mark percentages
// @Tags Analytics
// @Produce json
// @Param batch query string false "Batch"
// @Param semester query int false "Semester"
// @Param section query string false "Section"
// @Param subject query string false "Subject"
// @Param bins query string false "Comma separated low-high ranges" default(0-40,40-60,60-75,75-90,90-100)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Failure
// @Router /admin/analytics/distribution [get]
func (h *AnalyticsHandler) Distribution(c *gin.Context) {
	histogram, hit, err := h.analytics.Distribution(c.Request.Context(), analyticsParams(c), c.Query("bins"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, hit, response.Payload{"histogram": histogram})
}

// Timeline godoc
// @Summary Mean percentage per exam sitting
// @Tags Analytics
// @Produce json
// @Param batch query string false "Batch"
// @Param semester query int false "Semester"
// @Param section query string false "Section"
// @Param subject query string false "Subject"
// @Success 200 {object} response.Envelope
// @Router /admin/analytics/timeline [get]
func (h *AnalyticsHandler) Timeline(c *gin.Context) {
	points, hit, err := h.analytics.Timeline(c.Request.Context(), analyticsParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, hit, response.Payload{"timeline": points})
}

// System returns instrumentation metrics snapshots.
func (h *AnalyticsHandler) System(c *gin.Context) {
	h.respond(c, false, response.Payload{"system": h.analytics.SystemMetrics()})
}

// Export godoc
// @Summary Download an analytics report
// @Tags Analytics
// @Produce text/csv
// @Produce application/pdf
// @Param report query string true "overview, subjects, toppers, distribution or timeline"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Failure
// @Router /admin/analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	limit, err := parseLimit(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exporter.Export(c.Request.Context(), service.ExportRequest{
		Report: strings.ToLower(c.Query("report")),
		Format: export.Format(c.DefaultQuery("format", string(export.FormatCSV))),
		Params: analyticsParams(c),
		Limit:  limit,
		Bins:   c.Query("bins"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

func (h *AnalyticsHandler) respond(c *gin.Context, hit bool, payload response.Payload) {
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, payload, nil, middleware.ExtractMeta(c))
}

func analyticsParams(c *gin.Context) analytics.Params {
	return analytics.Params{
		Batch:    c.Query("batch"),
		Semester: c.Query("semester"),
		Section:  c.Query("section"),
		ExamType: c.Query("examType"),
		Subject:  c.Query("subject"),
	}
}

func parseLimit(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Validation(err, "Invalid limit")
	}
	return limit, nil
}
