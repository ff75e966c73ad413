package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/marks-analytics-api/internal/analytics"
	"github.com/noah-isme/marks-analytics-api/internal/models"
	appErrors "github.com/noah-isme/marks-analytics-api/pkg/errors"
)

// Analytics operation names used in logs, metrics and cache keys.
const (
	OpOverview     = "overview"
	OpSubjects     = "subjects"
	OpToppers      = "toppers"
	OpDistribution = "distribution"
	OpTimeline     = "timeline"
)

var operationFailures = map[string]string{
	OpOverview:     "Error computing overview",
	OpSubjects:     "Error computing subject averages",
	OpToppers:      "Error computing toppers",
	OpDistribution: "Error computing distribution",
	OpTimeline:     "Error computing timeline",
}

// AnalyticsCachePattern matches every cached analytics payload.
const AnalyticsCachePattern = "analytics:*"

// AnalyticsRepository is the record store contract consumed by the
// aggregation engine.
type AnalyticsRepository interface {
	MarkScores(ctx context.Context, pred analytics.Predicate) ([]models.MarkScore, error)
	CountStudents(ctx context.Context, pred analytics.Predicate) (int, error)
	AttendanceScores(ctx context.Context, pred analytics.Predicate) ([]models.AttendanceScore, error)
	StudentsByIDs(ctx context.Context, ids []string) ([]models.Student, error)
	AttendanceByStudentIDs(ctx context.Context, ids []string) ([]models.Attendance, error)
}

// AnalyticsConfig tunes ranking limits.
type AnalyticsConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// AnalyticsService computes the marks and attendance aggregations. Every
// operation is read-only; results are cached only when the cache service is
// enabled.
type AnalyticsService struct {
	repo    AnalyticsRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     AnalyticsConfig
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(repo AnalyticsRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg AnalyticsConfig) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	return &AnalyticsService{repo: repo, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

type marksSummary struct {
	totalEntries int
	avgPercent   float64
	passRate     float64
}

// Overview summarises the cohort: student count, marks entries, mean
// percentage, pass rate and mean attendance.
func (s *AnalyticsService) Overview(ctx context.Context, params analytics.Params) (models.AnalyticsOverview, bool, error) {
	pred := analytics.Resolve(params, analytics.FieldBatch, analytics.FieldSemester, analytics.FieldSection, analytics.FieldExamType)
	return cached(ctx, s, OpOverview, pred, func(ctx context.Context) (models.AnalyticsOverview, error) {
		cohort := pred.Only(analytics.FieldBatch, analytics.FieldSemester, analytics.FieldSection)

		var students int
		err := s.observe("analytics_count_students", func() (err error) {
			students, err = s.repo.CountStudents(ctx, cohort)
			return err
		})
		if err != nil {
			return models.AnalyticsOverview{}, err
		}

		scores, err := s.markScores(ctx, pred)
		if err != nil {
			return models.AnalyticsOverview{}, err
		}

		var attendance []models.AttendanceScore
		err = s.observe("analytics_attendance_scores", func() (err error) {
			attendance, err = s.repo.AttendanceScores(ctx, cohort)
			return err
		})
		if err != nil {
			return models.AnalyticsOverview{}, err
		}

		marks := summarizeMarks(scores).Value()
		return models.AnalyticsOverview{
			Students:          students,
			TotalEntries:      marks.totalEntries,
			AveragePercentage: analytics.Round2(marks.avgPercent),
			PassRate:          analytics.Round2(marks.passRate * 100),
			AverageAttendance: analytics.Round2(summarizeAttendance(attendance).Value()),
		}, nil
	})
}

// SubjectAverages returns the mean percentage per subject, best first.
func (s *AnalyticsService) SubjectAverages(ctx context.Context, params analytics.Params) ([]models.SubjectAverage, bool, error) {
	pred := analytics.Resolve(params, analytics.FieldBatch, analytics.FieldSemester, analytics.FieldSection, analytics.FieldExamType)
	return cached(ctx, s, OpSubjects, pred, func(ctx context.Context) ([]models.SubjectAverage, error) {
		scores, err := s.markScores(ctx, pred)
		if err != nil {
			return nil, err
		}
		return subjectAverages(scores), nil
	})
}

// TopStudents ranks students by mean percentage and attaches identity and
// attendance. A limit below 1 selects the configured default.
func (s *AnalyticsService) TopStudents(ctx context.Context, params analytics.Params, limit int) ([]models.TopStudent, bool, error) {
	limit = s.effectiveLimit(limit)
	pred := analytics.Resolve(params, analytics.FieldBatch, analytics.FieldSemester, analytics.FieldSection, analytics.FieldExamType)
	return cached(ctx, s, OpToppers, pred, func(ctx context.Context) ([]models.TopStudent, error) {
		scores, err := s.markScores(ctx, pred)
		if err != nil {
			return nil, err
		}
		ranked := rankStudents(scores)
		if len(ranked) == 0 {
			return []models.TopStudent{}, nil
		}

		ids := make([]string, len(ranked))
		for i, r := range ranked {
			ids[i] = r.studentID
		}
		var students []models.Student
		var records []models.Attendance
		err = s.observe("analytics_student_lookup", func() (err error) {
			if students, err = s.repo.StudentsByIDs(ctx, ids); err != nil {
				return err
			}
			records, err = s.repo.AttendanceByStudentIDs(ctx, ids)
			return err
		})
		if err != nil {
			return nil, err
		}
		return joinToppers(ranked, students, records, limit), nil
	}, limitKey(limit))
}

// Distribution buckets mark percentages into bins. An empty bins string
// selects DefaultBins; malformed bins are a validation failure.
func (s *AnalyticsService) Distribution(ctx context.Context, params analytics.Params, rawBins string) ([]models.HistogramBucket, bool, error) {
	bins, err := analytics.ParseBins(rawBins)
	if err != nil {
		return nil, false, appErrors.Validation(err, "Invalid bins: expected comma separated low-high ranges")
	}
	pred := analytics.Resolve(params, analytics.FieldBatch, analytics.FieldSemester, analytics.FieldSection, analytics.FieldSubject)
	return cached(ctx, s, OpDistribution, pred, func(ctx context.Context) ([]models.HistogramBucket, error) {
		scores, err := s.markScores(ctx, pred)
		if err != nil {
			return nil, err
		}
		percents := make([]float64, len(scores))
		for i, sc := range scores {
			percents[i] = analytics.Percent(sc.Marks, sc.Total)
		}
		counts := analytics.Histogram(bins, percents)
		buckets := make([]models.HistogramBucket, len(bins))
		for i, b := range bins {
			buckets[i] = models.HistogramBucket{Range: b.Label(), Count: counts[i]}
		}
		return buckets, nil
	}, "bins="+binsKey(bins))
}

// Timeline returns the mean percentage of each exam sitting ordered by date.
func (s *AnalyticsService) Timeline(ctx context.Context, params analytics.Params) ([]models.TimelinePoint, bool, error) {
	pred := analytics.Resolve(params, analytics.FieldBatch, analytics.FieldSemester, analytics.FieldSection, analytics.FieldSubject)
	return cached(ctx, s, OpTimeline, pred, func(ctx context.Context) ([]models.TimelinePoint, error) {
		scores, err := s.markScores(ctx, pred)
		if err != nil {
			return nil, err
		}
		return timeline(scores), nil
	})
}

// SystemMetrics returns the instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.AnalyticsSystemMetrics {
	return s.metrics.Snapshot()
}

func (s *AnalyticsService) effectiveLimit(limit int) int {
	if limit < 1 {
		limit = s.cfg.DefaultLimit
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	return limit
}

func (s *AnalyticsService) markScores(ctx context.Context, pred analytics.Predicate) ([]models.MarkScore, error) {
	var scores []models.MarkScore
	err := s.observe("analytics_mark_scores", func() (err error) {
		scores, err = s.repo.MarkScores(ctx, pred)
		return err
	})
	return scores, err
}

func (s *AnalyticsService) observe(label string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.ObserveDBQuery(label, time.Since(start))
	return err
}

// cached runs compute behind the optional cache and converts store failures
// into the operation's StoreFailure error.
func cached[T any](ctx context.Context, s *AnalyticsService, op string, pred analytics.Predicate, compute func(context.Context) (T, error), extra ...string) (T, bool, error) {
	key := analyticsCacheKey(op, pred, extra...)
	generation := s.cache.Generation()
	var hit T
	if s.cache.Enabled() {
		if ok, _ := s.cache.Get(ctx, key, &hit); ok {
			s.metrics.RecordAnalyticsOperation(op, "cached")
			return hit, true, nil
		}
	}

	value, err := compute(ctx)
	if err != nil {
		s.logger.Error("analytics operation failed", zap.String("operation", op), zap.Error(err))
		s.metrics.RecordAnalyticsOperation(op, "failed")
		var zero T
		return zero, false, appErrors.Internal(err, operationFailures[op])
	}

	s.metrics.RecordAnalyticsOperation(op, "computed")
	if s.cache.Enabled() && s.cache.Generation() == generation {
		_ = s.cache.Set(ctx, key, value, 0)
		// A write that raced an invalidation must not outlive it.
		if s.cache.Generation() != generation {
			_ = s.cache.Invalidate(ctx, key)
		}
	}
	return value, false, nil
}

func analyticsCacheKey(op string, pred analytics.Predicate, extra ...string) string {
	parts := append([]string{"analytics", op}, pred.CacheKeyParts()...)
	parts = append(parts, extra...)
	return strings.Join(parts, ":")
}

func limitKey(limit int) string {
	return "limit=" + strconv.Itoa(limit)
}

func binsKey(bins []analytics.Bin) string {
	labels := make([]string, len(bins))
	for i, b := range bins {
		labels[i] = b.Label()
	}
	return strings.Join(labels, ",")
}

func summarizeMarks(scores []models.MarkScore) analytics.Result[marksSummary] {
	if len(scores) == 0 {
		return analytics.Empty[marksSummary]()
	}
	var mean analytics.Mean
	passed := 0
	for _, sc := range scores {
		p := analytics.Percent(sc.Marks, sc.Total)
		mean.Add(p)
		if analytics.Passed(p) {
			passed++
		}
	}
	return analytics.Computed(marksSummary{
		totalEntries: mean.Count(),
		avgPercent:   mean.Value(),
		passRate:     float64(passed) / float64(len(scores)),
	})
}

func summarizeAttendance(records []models.AttendanceScore) analytics.Result[float64] {
	if len(records) == 0 {
		return analytics.Empty[float64]()
	}
	var mean analytics.Mean
	for _, r := range records {
		mean.Add(analytics.AttendancePercent(r.PresentDays, r.TotalDays))
	}
	return analytics.Computed(mean.Value())
}

func subjectAverages(scores []models.MarkScore) []models.SubjectAverage {
	order := make([]string, 0)
	groups := make(map[string]*analytics.Mean)
	for _, sc := range scores {
		m, ok := groups[sc.Subject]
		if !ok {
			m = &analytics.Mean{}
			groups[sc.Subject] = m
			order = append(order, sc.Subject)
		}
		m.Add(analytics.Percent(sc.Marks, sc.Total))
	}
	out := make([]models.SubjectAverage, len(order))
	for i, subject := range order {
		m := groups[subject]
		out[i] = models.SubjectAverage{Subject: subject, AvgPercent: analytics.Round2(m.Value()), Count: m.Count()}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgPercent > out[j].AvgPercent })
	return out
}

type rankedStudent struct {
	studentID  string
	avgPercent float64
}

func rankStudents(scores []models.MarkScore) []rankedStudent {
	order := make([]string, 0)
	groups := make(map[string]*analytics.Mean)
	for _, sc := range scores {
		m, ok := groups[sc.StudentID]
		if !ok {
			m = &analytics.Mean{}
			groups[sc.StudentID] = m
			order = append(order, sc.StudentID)
		}
		m.Add(analytics.Percent(sc.Marks, sc.Total))
	}
	ranked := make([]rankedStudent, len(order))
	for i, id := range order {
		ranked[i] = rankedStudent{studentID: id, avgPercent: analytics.Round2(groups[id].Value())}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].avgPercent > ranked[j].avgPercent })
	return ranked
}

// joinToppers attaches identities, dropping students without one, then
// truncates to limit.
func joinToppers(ranked []rankedStudent, students []models.Student, records []models.Attendance, limit int) []models.TopStudent {
	byID := make(map[string]models.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}
	attendance := make(map[string]models.Attendance, len(records))
	for _, r := range records {
		attendance[r.StudentID] = r
	}

	out := make([]models.TopStudent, 0, min(limit, len(ranked)))
	for _, r := range ranked {
		if len(out) == limit {
			break
		}
		st, ok := byID[r.studentID]
		if !ok {
			continue
		}
		top := models.TopStudent{
			StudentID:  st.ID,
			Name:       st.Name,
			RollNo:     st.RollNo,
			ClassName:  st.ClassName,
			AvgPercent: r.avgPercent,
		}
		if a, ok := attendance[r.studentID]; ok {
			top.AttendancePercent = analytics.Round2(analytics.AttendancePercent(a.PresentDays, a.TotalDays))
		}
		out = append(out, top)
	}
	return out
}

type sitting struct {
	label string
	date  int64
}

func timeline(scores []models.MarkScore) []models.TimelinePoint {
	order := make([]sitting, 0)
	dates := make(map[sitting]time.Time)
	groups := make(map[sitting]*analytics.Mean)
	for _, sc := range scores {
		key := sitting{label: sc.ExamLabel, date: sc.ExamDate.UnixNano()}
		m, ok := groups[key]
		if !ok {
			m = &analytics.Mean{}
			groups[key] = m
			dates[key] = sc.ExamDate.UTC()
			order = append(order, key)
		}
		m.Add(analytics.Percent(sc.Marks, sc.Total))
	}
	points := make([]models.TimelinePoint, len(order))
	for i, key := range order {
		points[i] = models.TimelinePoint{ExamLabel: key.label, ExamDate: dates[key], AvgPercent: analytics.Round2(groups[key].Value())}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].ExamDate.Before(points[j].ExamDate) })
	return points
}
