package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/marks-analytics-api/internal/models"
	appErrors "github.com/noah-isme/marks-analytics-api/pkg/errors"
)

type marksRepository interface {
	List(ctx context.Context, filter models.MarksFilter) ([]models.MarksDetail, int, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.MarksDetail, error)
	FindByID(ctx context.Context, id string) (*models.Marks, error)
	Create(ctx context.Context, m *models.Marks) error
	Update(ctx context.Context, m *models.Marks) error
	Delete(ctx context.Context, id string) error
}

type marksStudentLookup interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error)
}

// MarksService records exam scores and serves them back to admins and the
// owning student.
type MarksService struct {
	repo      marksRepository
	students  marksStudentLookup
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewMarksService constructs the marks service.
func NewMarksService(repo marksRepository, students marksStudentLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *MarksService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarksService{repo: repo, students: students, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// List returns filtered marks with pagination metadata.
func (s *MarksService) List(ctx context.Context, filter models.MarksFilter) ([]models.MarksDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "Error fetching marks")
	}
	if items == nil {
		items = []models.MarksDetail{}
	}
	return items, paginate(filter.Page, filter.PageSize, total), nil
}

// Add records a score for an existing student. Cohort fields left empty are
// copied from the student.
func (s *MarksService) Add(ctx context.Context, req models.CreateMarksRequest) (*models.Marks, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid marks payload")
	}
	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, notFoundOr(err, "Student not found", "failed to load student")
	}

	entry := &models.Marks{
		StudentID: student.ID,
		Subject:   req.Subject,
		Marks:     *req.Marks,
		Total:     req.Total,
		ExamType:  req.ExamType,
		ExamLabel: req.ExamLabel,
		Batch:     req.Batch,
		Semester:  req.Semester,
		Section:   req.Section,
	}
	if entry.ExamType == "" {
		entry.ExamType = models.ExamTypeOther
	}
	if req.ExamDate != nil {
		entry.ExamDate = req.ExamDate.UTC()
	} else {
		entry.ExamDate = s.now().UTC()
	}
	if entry.Batch == "" {
		entry.Batch = student.Batch
	}
	if entry.Semester == nil {
		entry.Semester = student.Semester
	}
	if entry.Section == "" {
		entry.Section = student.Section
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Internal(err, "Error adding marks")
	}
	s.cache.InvalidateAnalytics(ctx)
	return entry, nil
}

// Update applies a partial update to an entry.
func (s *MarksService) Update(ctx context.Context, id string, req models.UpdateMarksRequest) (*models.Marks, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid marks payload")
	}
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Marks not found", "failed to load marks")
	}

	assign(&entry.Subject, req.Subject)
	assign(&entry.ExamLabel, req.ExamLabel)
	assign(&entry.Batch, req.Batch)
	assign(&entry.Section, req.Section)
	if req.Marks != nil {
		entry.Marks = *req.Marks
	}
	if req.Total != nil {
		entry.Total = *req.Total
	}
	if req.ExamType != nil {
		entry.ExamType = *req.ExamType
	}
	if req.ExamDate != nil {
		entry.ExamDate = req.ExamDate.UTC()
	}
	if req.Semester != nil {
		entry.Semester = req.Semester
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, notFoundOr(err, "Marks not found", "Error updating marks")
	}
	s.cache.InvalidateAnalytics(ctx)
	return entry, nil
}

// Delete removes an entry.
func (s *MarksService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Marks not found", "Error deleting marks")
	}
	s.cache.InvalidateAnalytics(ctx)
	return nil
}

// ListForUser returns the marks of the student profile owned by userID,
// newest exam first.
func (s *MarksService) ListForUser(ctx context.Context, userID string) ([]models.MarksDetail, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "Student not found", "failed to load profile")
	}
	if !student.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
	}
	items, err := s.repo.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "Error fetching marks")
	}
	if items == nil {
		items = []models.MarksDetail{}
	}
	return items, nil
}
