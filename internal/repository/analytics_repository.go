package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/marks-analytics-api/internal/analytics"
	"github.com/noah-isme/marks-analytics-api/internal/models"
)

var (
	markColumns = map[analytics.Field]string{
		analytics.FieldBatch:    "m.batch",
		analytics.FieldSemester: "m.semester",
		analytics.FieldSection:  "m.section",
		analytics.FieldExamType: "m.exam_type",
		analytics.FieldSubject:  "m.subject",
	}
	studentColumns = map[analytics.Field]string{
		analytics.FieldBatch:    "s.batch",
		analytics.FieldSemester: "s.semester",
		analytics.FieldSection:  "s.section",
	}
)

// AnalyticsRepository is the read side of the record store used by the
// aggregation engine. It only fetches rows; reductions happen in the service.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func whereClause(pred analytics.Predicate, columns map[analytics.Field]string, args []interface{}, base ...string) (string, []interface{}) {
	conditions, args := pred.Where(columns, args)
	conditions = append(append([]string{}, base...), conditions...)
	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// MarkScores returns the marks entries matching pred in exam date order.
func (r *AnalyticsRepository) MarkScores(ctx context.Context, pred analytics.Predicate) ([]models.MarkScore, error) {
	where, args := whereClause(pred, markColumns, nil)
	query := "SELECT m.id, m.student_id, m.subject, m.marks, m.total, m.exam_label, m.exam_date FROM marks m" +
		where + " ORDER BY m.exam_date ASC, m.id ASC"

	var scores []models.MarkScore
	if err := r.db.SelectContext(ctx, &scores, query, args...); err != nil {
		return nil, fmt.Errorf("query mark scores: %w", err)
	}
	return scores, nil
}

// CountStudents counts active students in the cohort selected by pred.
// Only batch, semester and section apply.
func (r *AnalyticsRepository) CountStudents(ctx context.Context, pred analytics.Predicate) (int, error) {
	where, args := whereClause(pred, studentColumns, nil, "s.active = TRUE")
	query := "SELECT COUNT(*) FROM students s" + where

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

// AttendanceScores returns attendance counters of active students in the
// cohort selected by pred.
func (r *AnalyticsRepository) AttendanceScores(ctx context.Context, pred analytics.Predicate) ([]models.AttendanceScore, error) {
	where, args := whereClause(pred, studentColumns, nil, "s.active = TRUE")
	query := "SELECT a.student_id, a.present_days, a.total_days FROM attendance a JOIN students s ON s.id = a.student_id" +
		where + " ORDER BY a.student_id ASC"

	var scores []models.AttendanceScore
	if err := r.db.SelectContext(ctx, &scores, query, args...); err != nil {
		return nil, fmt.Errorf("query attendance scores: %w", err)
	}
	return scores, nil
}

// StudentsByIDs loads identities of the active students among ids. Missing
// and deactivated ids are absent from the result.
func (r *AnalyticsRepository) StudentsByIDs(ctx context.Context, ids []string) ([]models.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id, user_id, name, roll_no, class_name, batch, semester, section, active, created_at, updated_at
        FROM students WHERE active = TRUE AND id = ANY($1)`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("query students by ids: %w", err)
	}
	return students, nil
}

// AttendanceByStudentIDs loads the attendance record of each given student.
func (r *AnalyticsRepository) AttendanceByStudentIDs(ctx context.Context, ids []string) ([]models.Attendance, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id, student_id, present_days, total_days, created_at, updated_at
        FROM attendance WHERE student_id = ANY($1)`
	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("query attendance by student ids: %w", err)
	}
	return records, nil
}
