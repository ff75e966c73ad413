package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/marks-analytics-api/internal/analytics"
	"github.com/noah-isme/marks-analytics-api/internal/models"
)

const studentDetailColumns = `s.id, s.user_id, s.name, s.roll_no, s.class_name, s.batch, s.semester, s.section, s.active, s.created_at, s.updated_at, u.email`

// StudentRepository manages persistence for student profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func pageBounds(page, size int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size, (page - 1) * size
}

// List returns active students matching the filter, newest first.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	base := "FROM students s LEFT JOIN users u ON u.id = s.user_id"
	conditions := []string{"s.active = TRUE"}
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.name) LIKE $%d OR LOWER(u.email) LIKE $%d OR LOWER(s.roll_no) LIKE $%d)", n, n, n))
	}
	pred := analytics.Resolve(analytics.Params{Batch: filter.Batch, Semester: filter.Semester, Section: filter.Section},
		analytics.FieldBatch, analytics.FieldSemester, analytics.FieldSection)
	cohort, args := pred.Where(studentColumns, args)
	conditions = append(conditions, cohort...)

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))
	_, size, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY s.created_at DESC LIMIT %d OFFSET %d", studentDetailColumns, base, size, offset)
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches an active student by ID. Deactivated students are
// reported as sql.ErrNoRows, returned unwrapped.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	query := "SELECT " + studentDetailColumns + " FROM students s LEFT JOIN users u ON u.id = s.user_id WHERE s.id = $1 AND s.active = TRUE"
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByUserID fetches the profile owned by an account, active or not, so
// callers can tell a deactivated profile from a missing one.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error) {
	query := "SELECT " + studentDetailColumns + " FROM students s LEFT JOIN users u ON u.id = s.user_id WHERE s.user_id = $1"
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, userID); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a new student profile.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	return insertStudent(ctx, r.db, student)
}

// Update modifies the profile fields of a student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	return updateStudent(ctx, r.db, student)
}

// Deactivate soft deletes a student. sql.ErrNoRows is returned when no
// active student has the ID.
func (r *StudentRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE students SET active = FALSE, updated_at = $2 WHERE id = $1 AND active = TRUE`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate student: %w", err)
	}
	return requireAffected(res)
}

func insertStudent(ctx context.Context, ext sqlx.ExtContext, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	student.Active = true
	const query = `INSERT INTO students (id, user_id, name, roll_no, class_name, batch, semester, section, active, created_at, updated_at)
        VALUES (:id, :user_id, :name, :roll_no, :class_name, :batch, :semester, :section, :active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func updateStudent(ctx context.Context, ext sqlx.ExtContext, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET name = :name, roll_no = :roll_no, class_name = :class_name, batch = :batch, semester = :semester, section = :section, updated_at = :updated_at WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, ext, query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
