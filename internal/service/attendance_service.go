package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/marks-analytics-api/internal/analytics"
	"github.com/noah-isme/marks-analytics-api/internal/models"
	appErrors "github.com/noah-isme/marks-analytics-api/pkg/errors"
)

type attendanceRepository interface {
	Upsert(ctx context.Context, record *models.Attendance) error
	List(ctx context.Context) ([]models.AttendanceDetail, error)
}

type attendanceStudentLookup interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
}

// AttendanceService maintains the per-student attendance counters.
type AttendanceService struct {
	repo      attendanceRepository
	students  attendanceStudentLookup
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, students attendanceStudentLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, students: students, cache: cache, validator: validate, logger: logger}
}

// Upsert stores the counters of one student, replacing any earlier record.
func (s *AttendanceService) Upsert(ctx context.Context, req models.UpsertAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "All fields required")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, notFoundOr(err, "Student not found", "failed to load student")
	}
	record := &models.Attendance{
		StudentID:   req.StudentID,
		PresentDays: *req.PresentDays,
		TotalDays:   *req.TotalDays,
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, appErrors.Internal(err, "Error saving attendance")
	}
	s.cache.InvalidateAnalytics(ctx)
	return record, nil
}

// List returns every record with the student's name and roll number.
func (s *AttendanceService) List(ctx context.Context) ([]models.AttendanceDetail, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "Error fetching attendance")
	}
	if records == nil {
		records = []models.AttendanceDetail{}
	}
	return records, nil
}

// Summary averages attendance percentages across all records. Records with
// no tracked days count as 0%.
func (s *AttendanceService) Summary(ctx context.Context) (*models.AttendanceOverview, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "Error fetching attendance")
	}
	var mean analytics.Mean
	for _, r := range records {
		mean.Add(analytics.AttendancePercent(r.PresentDays, r.TotalDays))
	}
	return &models.AttendanceOverview{Records: mean.Count(), AvgAttendance: analytics.Round2(mean.Value())}, nil
}

// Distribution returns each student's attendance percentage.
func (s *AttendanceService) Distribution(ctx context.Context) ([]models.AttendanceShare, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "Error fetching attendance")
	}
	shares := make([]models.AttendanceShare, 0, len(records))
	for _, r := range records {
		name := r.StudentName
		if name == "" {
			name = "Unknown"
		}
		shares = append(shares, models.AttendanceShare{
			StudentID:  r.StudentID,
			Student:    name,
			Percentage: analytics.Round2(analytics.AttendancePercent(r.PresentDays, r.TotalDays)),
		})
	}
	return shares, nil
}
