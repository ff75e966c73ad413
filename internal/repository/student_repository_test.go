package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/marks-analytics-api/internal/models"
)

var studentDetailRowColumns = []string{"id", "user_id", "name", "roll_no", "class_name", "batch", "semester", "section", "active", "created_at", "updated_at", "email"}

func TestStudentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(studentDetailRowColumns).
		AddRow("s1", "u1", "Asha", "R-1", "10A", "2024", 3, "A", true, now, now, "asha@example.com")
	base := "FROM students s LEFT JOIN users u ON u.id = s.user_id WHERE s.active = TRUE AND (LOWER(s.name) LIKE $1 OR LOWER(u.email) LIKE $1 OR LOWER(s.roll_no) LIKE $1) AND s.batch = $2 AND s.semester = $3"
	mock.ExpectQuery(regexp.QuoteMeta(base + " ORDER BY s.created_at DESC LIMIT 5 OFFSET 5")).
		WithArgs("%asha%", "2024", 3).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) " + base)).
		WithArgs("%asha%", "2024", 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	students, total, err := repo.List(context.Background(), models.StudentFilter{Search: "Asha", Batch: "2024", Semester: "3", Page: 2, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, 6, total)
	require.NotNil(t, students[0].Email)
	assert.Equal(t, "asha@example.com", *students[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListDefaults(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.active = TRUE ORDER BY s.created_at DESC LIMIT 10 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows(studentDetailRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students s")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	students, total, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{Name: "Asha", RollNo: "R-1"}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.NotEmpty(t, student.ID)
	assert.True(t, student.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeactivateMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET active = FALSE")).
		WithArgs("missing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Deactivate(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByUserID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.user_id = $1")).
		WithArgs("u1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUserID(context.Background(), "u1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByIDSkipsInactive(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.id = $1 AND s.active = TRUE")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(studentDetailRowColumns).
			AddRow("s1", "u1", "Asha", "R-1", "10A", "2024", 3, "A", true, now, now, "asha@example.com"))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.id = $1 AND s.active = TRUE")).
		WithArgs("s2").
		WillReturnRows(sqlmock.NewRows(studentDetailRowColumns))

	student, err := repo.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, student.Active)

	_, err = repo.FindByID(context.Background(), "s2")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
