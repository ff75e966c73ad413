package models

import "time"

// ExamType enumerates supported exam categories.
type ExamType string

const (
	ExamTypeMidterm    ExamType = "midterm"
	ExamTypeFinal      ExamType = "final"
	ExamTypeAssignment ExamType = "assignment"
	ExamTypeQuiz       ExamType = "quiz"
	ExamTypeOther      ExamType = "other"
)

// Valid returns true when the exam type is a supported value.
func (t ExamType) Valid() bool {
	switch t {
	case ExamTypeMidterm, ExamTypeFinal, ExamTypeAssignment, ExamTypeQuiz, ExamTypeOther:
		return true
	default:
		return false
	}
}

// Marks is a single scored exam entry. Batch, semester and section are copied
// from the student so analytics can filter without a join.
type Marks struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"studentId"`
	Subject   string    `db:"subject" json:"subject"`
	Marks     float64   `db:"marks" json:"marks"`
	Total     float64   `db:"total" json:"total"`
	ExamType  ExamType  `db:"exam_type" json:"examType"`
	ExamLabel string    `db:"exam_label" json:"examLabel"`
	ExamDate  time.Time `db:"exam_date" json:"examDate"`
	Batch     string    `db:"batch" json:"batch"`
	Semester  *int      `db:"semester" json:"semester,omitempty"`
	Section   string    `db:"section" json:"section"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// MarksDetail carries the marks entry with the owning student's identity.
type MarksDetail struct {
	Marks
	StudentName      string `db:"student_name" json:"studentName"`
	StudentRollNo    string `db:"student_roll_no" json:"studentRollNo"`
	StudentClassName string `db:"student_class_name" json:"studentClassName"`
}

// MarksFilter scopes admin marks listings.
type MarksFilter struct {
	Subject   string
	ExamType  string
	Batch     string
	Semester  string
	Section   string
	StudentID string
	Page      int
	PageSize  int
}

// CreateMarksRequest records a score. Cohort fields default to the
// student's when empty.
type CreateMarksRequest struct {
	StudentID string     `json:"studentId" validate:"required"`
	Subject   string     `json:"subject" validate:"required"`
	Marks     *float64   `json:"marks" validate:"required,gte=0"`
	Total     float64    `json:"total" validate:"required,gte=1"`
	ExamType  ExamType   `json:"examType" validate:"omitempty,oneof=midterm final assignment quiz other"`
	ExamLabel string     `json:"examLabel"`
	ExamDate  *time.Time `json:"examDate"`
	Batch     string     `json:"batch"`
	Semester  *int       `json:"semester" validate:"omitempty,min=1,max=12"`
	Section   string     `json:"section"`
}

// UpdateMarksRequest carries a partial update; nil fields are kept.
type UpdateMarksRequest struct {
	Subject   *string    `json:"subject" validate:"omitempty,min=1"`
	Marks     *float64   `json:"marks" validate:"omitempty,gte=0"`
	Total     *float64   `json:"total" validate:"omitempty,gte=1"`
	ExamType  *ExamType  `json:"examType" validate:"omitempty,oneof=midterm final assignment quiz other"`
	ExamLabel *string    `json:"examLabel"`
	ExamDate  *time.Time `json:"examDate"`
	Batch     *string    `json:"batch"`
	Semester  *int       `json:"semester" validate:"omitempty,min=1,max=12"`
	Section   *string    `json:"section"`
}
