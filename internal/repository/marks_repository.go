package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/marks-analytics-api/internal/analytics"
	"github.com/noah-isme/marks-analytics-api/internal/models"
)

const marksDetailSelect = `SELECT m.id, m.student_id, m.subject, m.marks, m.total, m.exam_type, m.exam_label, m.exam_date, m.batch, m.semester, m.section, m.created_at, m.updated_at,
        COALESCE(s.name, '') AS student_name, COALESCE(s.roll_no, '') AS student_roll_no, COALESCE(s.class_name, '') AS student_class_name
        FROM marks m LEFT JOIN students s ON s.id = m.student_id`

// MarksRepository persists exam marks entries.
type MarksRepository struct {
	db *sqlx.DB
}

// NewMarksRepository constructs a MarksRepository.
func NewMarksRepository(db *sqlx.DB) *MarksRepository {
	return &MarksRepository{db: db}
}

// List returns marks entries newest exam first with the owning student's
// identity.
func (r *MarksRepository) List(ctx context.Context, filter models.MarksFilter) ([]models.MarksDetail, int, error) {
	pred := analytics.Resolve(analytics.Params{
		Batch:    filter.Batch,
		Semester: filter.Semester,
		Section:  filter.Section,
		ExamType: filter.ExamType,
		Subject:  filter.Subject,
	})
	conditions, args := pred.Where(markColumns, nil)
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("m.student_id = $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	_, size, offset := pageBounds(filter.Page, filter.PageSize)
	query := fmt.Sprintf("%s%s ORDER BY m.exam_date DESC, m.id DESC LIMIT %d OFFSET %d", marksDetailSelect, where, size, offset)

	var items []models.MarksDetail
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list marks: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM marks m"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count marks: %w", err)
	}
	return items, total, nil
}

// ListByStudent returns every entry of one student, newest exam first.
func (r *MarksRepository) ListByStudent(ctx context.Context, studentID string) ([]models.MarksDetail, error) {
	query := marksDetailSelect + " WHERE m.student_id = $1 ORDER BY m.exam_date DESC, m.id DESC"
	var items []models.MarksDetail
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list student marks: %w", err)
	}
	return items, nil
}

// FindByID fetches a marks entry. sql.ErrNoRows is returned unwrapped.
func (r *MarksRepository) FindByID(ctx context.Context, id string) (*models.Marks, error) {
	const query = `SELECT id, student_id, subject, marks, total, exam_type, exam_label, exam_date, batch, semester, section, created_at, updated_at FROM marks WHERE id = $1`
	var m models.Marks
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a marks entry.
func (r *MarksRepository) Create(ctx context.Context, m *models.Marks) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.ExamDate.IsZero() {
		m.ExamDate = m.CreatedAt
	}
	m.UpdatedAt = now
	const query = `INSERT INTO marks (id, student_id, subject, marks, total, exam_type, exam_label, exam_date, batch, semester, section, created_at, updated_at)
        VALUES (:id, :student_id, :subject, :marks, :total, :exam_type, :exam_label, :exam_date, :batch, :semester, :section, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("create marks: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of an entry.
func (r *MarksRepository) Update(ctx context.Context, m *models.Marks) error {
	m.UpdatedAt = time.Now().UTC()
	const query = `UPDATE marks SET subject = :subject, marks = :marks, total = :total, exam_type = :exam_type, exam_label = :exam_label, exam_date = :exam_date,
        batch = :batch, semester = :semester, section = :section, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, m)
	if err != nil {
		return fmt.Errorf("update marks: %w", err)
	}
	return requireAffected(res)
}

// Delete removes an entry.
func (r *MarksRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM marks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete marks: %w", err)
	}
	return requireAffected(res)
}
