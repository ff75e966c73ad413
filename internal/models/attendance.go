package models

import "time"

// Attendance holds the aggregate attendance counters for one student.
type Attendance struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"studentId"`
	PresentDays int       `db:"present_days" json:"presentDays"`
	TotalDays   int       `db:"total_days" json:"totalDays"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// AttendanceDetail extends the record with student metadata.
type AttendanceDetail struct {
	Attendance
	StudentName   string `db:"student_name" json:"studentName"`
	StudentRollNo string `db:"student_roll_no" json:"studentRollNo"`
}

// AttendanceShare is the per-student attendance percentage.
type AttendanceShare struct {
	StudentID  string  `json:"studentId"`
	Student    string  `json:"student"`
	Percentage float64 `json:"percentage"`
}

// AttendanceOverview summarises attendance across all records.
type AttendanceOverview struct {
	Records       int     `json:"records"`
	AvgAttendance float64 `json:"avgAttendance"`
}

// UpsertAttendanceRequest sets the counters of one student.
type UpsertAttendanceRequest struct {
	StudentID   string `json:"studentId" validate:"required"`
	PresentDays *int   `json:"presentDays" validate:"required,gte=0"`
	TotalDays   *int   `json:"totalDays" validate:"required,gte=0"`
}
