package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/marks-analytics-api/internal/models"
)

// AttendanceRepository stores the single attendance record of each student.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert creates the student's record or replaces its counters. ID and
// CreatedAt are refreshed from the stored row.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.UpdatedAt = now
	const query = `INSERT INTO attendance (id, student_id, present_days, total_days, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $5)
        ON CONFLICT (student_id) DO UPDATE SET present_days = EXCLUDED.present_days, total_days = EXCLUDED.total_days, updated_at = EXCLUDED.updated_at
        RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query, record.ID, record.StudentID, record.PresentDays, record.TotalDays, now)
	if err := row.Scan(&record.ID, &record.CreatedAt); err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

// List returns every record with the owning student's identity.
func (r *AttendanceRepository) List(ctx context.Context) ([]models.AttendanceDetail, error) {
	const query = `SELECT a.id, a.student_id, a.present_days, a.total_days, a.created_at, a.updated_at,
        COALESCE(s.name, '') AS student_name, COALESCE(s.roll_no, '') AS student_roll_no
        FROM attendance a LEFT JOIN students s ON s.id = a.student_id
        ORDER BY s.name ASC, a.id ASC`
	var records []models.AttendanceDetail
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}
