package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/marks-analytics-api/internal/models"
	appErrors "github.com/noah-isme/marks-analytics-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Deactivate(ctx context.Context, id string) error
}

type studentAccountRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	CreateWithStudent(ctx context.Context, user *models.User, student *models.Student) error
	UpdateWithStudent(ctx context.Context, user *models.User, student *models.Student) error
}

// StudentService handles admin student management and the student's own
// profile.
type StudentService struct {
	repo      studentRepository
	accounts  studentAccountRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, accounts studentAccountRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, accounts: accounts, cache: cache, validator: validate, logger: logger}
}

// List returns active students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "Error fetching students")
	}
	if students == nil {
		students = []models.StudentDetail{}
	}
	return students, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Student not found", "failed to load student")
	}
	return student, nil
}

// Create enrolls a student together with a login account.
func (s *StudentService) Create(ctx context.Context, req models.CreateStudentRequest) (*models.StudentDetail, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student payload")
	}
	exists, err := s.accounts.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Email already exists")
	}

	password := req.Password
	if password == "" {
		password = req.Email
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	user := &models.User{Name: req.Name, Email: req.Email, PasswordHash: string(hash), Role: models.RoleStudent}
	student := &models.Student{
		Name:      req.Name,
		RollNo:    req.RollNo,
		ClassName: req.ClassName,
		Batch:     req.Batch,
		Semester:  req.Semester,
		Section:   req.Section,
	}
	if err := s.accounts.CreateWithStudent(ctx, user, student); err != nil {
		return nil, appErrors.Internal(err, "Error creating student")
	}
	s.cache.InvalidateAnalytics(ctx)
	return &models.StudentDetail{Student: *student, Email: &user.Email}, nil
}

// Update applies a partial admin update to the profile and its account.
func (s *StudentService) Update(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student payload")
	}
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	student := detail.Student
	assign(&student.Name, req.Name)
	assign(&student.RollNo, req.RollNo)
	assign(&student.ClassName, req.ClassName)
	assign(&student.Batch, req.Batch)
	assign(&student.Section, req.Section)
	if req.Semester != nil {
		student.Semester = req.Semester
	}

	if student.UserID == nil {
		if req.Email != nil || req.Password != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Student has no linked account")
		}
		if err := s.repo.Update(ctx, &student); err != nil {
			return nil, notFoundOr(err, "Student not found", "Error updating student")
		}
		s.cache.InvalidateAnalytics(ctx)
		return &models.StudentDetail{Student: student}, nil
	}

	user, err := s.accounts.FindByID(ctx, *student.UserID)
	if err != nil {
		return nil, notFoundOr(err, "Student not found", "failed to load account")
	}
	user.Name = student.Name
	user.PasswordHash = ""
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		exists, err := s.accounts.ExistsByEmail(ctx, email, user.ID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to check email")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Email already exists")
		}
		user.Email = email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to hash password")
		}
		user.PasswordHash = string(hash)
	}
	if err := s.accounts.UpdateWithStudent(ctx, user, &student); err != nil {
		return nil, notFoundOr(err, "Student not found", "Error updating student")
	}
	s.cache.InvalidateAnalytics(ctx)
	return &models.StudentDetail{Student: student, Email: &user.Email}, nil
}

// Delete deactivates a student. Marks already recorded stay in analytics.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return notFoundOr(err, "Student not found", "Error deleting student")
	}
	s.cache.InvalidateAnalytics(ctx)
	return nil
}

// Profile returns the profile owned by the authenticated account.
func (s *StudentService) Profile(ctx context.Context, userID string) (*models.StudentDetail, error) {
	student, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "Student not found", "failed to load profile")
	}
	if !student.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
	}
	return student, nil
}

// UpsertProfile creates or updates the caller's own profile. The boolean
// reports whether a new profile was created. A deactivated profile is not
// recreated.
func (s *StudentService) UpsertProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.StudentDetail, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Validation(err, "invalid profile payload")
	}
	existing, err := s.repo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, false, appErrors.Internal(err, "failed to load profile")
	}

	if existing != nil && !existing.Active {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
	}

	created := existing == nil
	var student models.Student
	if created {
		user, err := s.accounts.FindByID(ctx, userID)
		if err != nil {
			return nil, false, notFoundOr(err, "User not found", "failed to load account")
		}
		student = models.Student{UserID: &user.ID, Name: user.Name}
	} else {
		student = existing.Student
	}
	student.RollNo = req.RollNo
	student.ClassName = req.ClassName
	student.Batch = req.Batch
	student.Section = req.Section
	if req.Semester != nil {
		student.Semester = req.Semester
	}

	if created {
		err = s.repo.Create(ctx, &student)
	} else {
		err = s.repo.Update(ctx, &student)
	}
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to save profile")
	}
	s.cache.InvalidateAnalytics(ctx)

	detail, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to load profile")
	}
	return detail, created, nil
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func notFoundOr(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Internal(err, internal)
}
