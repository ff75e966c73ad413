package models

import "time"

// Student is the academic profile linked to an account.
type Student struct {
	ID        string    `db:"id" json:"id"`
	UserID    *string   `db:"user_id" json:"userId,omitempty"`
	Name      string    `db:"name" json:"name"`
	RollNo    string    `db:"roll_no" json:"rollNo"`
	ClassName string    `db:"class_name" json:"className"`
	Batch     string    `db:"batch" json:"batch"`
	Semester  *int      `db:"semester" json:"semester,omitempty"`
	Section   string    `db:"section" json:"section"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// StudentDetail decorates a student with account data.
type StudentDetail struct {
	Student
	Email *string `db:"email" json:"email,omitempty"`
}

// StudentFilter encapsulates search parameters for listing students. Search
// is a case-insensitive match on name, email and roll number; the remaining
// filters are exact.
type StudentFilter struct {
	Search   string
	Batch    string
	Semester string
	Section  string
	Page     int
	PageSize int
}

// CreateStudentRequest is the admin payload for enrolling a student. The
// password defaults to the email when omitted.
type CreateStudentRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"omitempty,min=6"`
	RollNo    string `json:"rollNo"`
	ClassName string `json:"className"`
	Batch     string `json:"batch"`
	Semester  *int   `json:"semester" validate:"omitempty,min=1,max=12"`
	Section   string `json:"section"`
}

// UpdateStudentRequest carries a partial admin update; nil fields are kept.
type UpdateStudentRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=6"`
	RollNo    *string `json:"rollNo"`
	ClassName *string `json:"className"`
	Batch     *string `json:"batch"`
	Semester  *int    `json:"semester" validate:"omitempty,min=1,max=12"`
	Section   *string `json:"section"`
}

// UpdateProfileRequest is the self-service profile payload.
type UpdateProfileRequest struct {
	RollNo    string `json:"rollNo"`
	ClassName string `json:"className"`
	Batch     string `json:"batch"`
	Semester  *int   `json:"semester" validate:"omitempty,min=1,max=12"`
	Section   string `json:"section"`
}
