package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/marks-analytics-api/internal/models"
	appErrors "github.com/noah-isme/marks-analytics-api/pkg/errors"
)

type mockMarksRepo struct {
	entries   map[string]*models.Marks
	created   []*models.Marks
	byStudent map[string][]models.MarksDetail
	listErr   error
}

func (m *mockMarksRepo) List(_ context.Context, _ models.MarksFilter) ([]models.MarksDetail, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return nil, 0, nil
}

func (m *mockMarksRepo) ListByStudent(_ context.Context, studentID string) ([]models.MarksDetail, error) {
	return m.byStudent[studentID], nil
}

func (m *mockMarksRepo) FindByID(_ context.Context, id string) (*models.Marks, error) {
	if e, ok := m.entries[id]; ok {
		copy := *e
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMarksRepo) Create(_ context.Context, entry *models.Marks) error {
	entry.ID = "m-new"
	m.created = append(m.created, entry)
	return nil
}

func (m *mockMarksRepo) Update(_ context.Context, entry *models.Marks) error {
	if _, ok := m.entries[entry.ID]; !ok {
		return sql.ErrNoRows
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockMarksRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.entries[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.entries, id)
	return nil
}

func floatPtr(v float64) *float64 { return &v }

func cohortStudents() *mockStudentRepo {
	semester := 3
	userID := "u1"
	return &mockStudentRepo{students: map[string]*models.StudentDetail{
		"s1": {Student: models.Student{ID: "s1", UserID: &userID, Name: "Asha", Batch: "2024", Semester: &semester, Section: "A", Active: true}},
	}}
}

func TestMarksAddDefaultsFromStudent(t *testing.T) {
	repo := &mockMarksRepo{}
	svc := NewMarksService(repo, cohortStudents(), nil, nil, nil)
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	entry, err := svc.Add(context.Background(), models.CreateMarksRequest{StudentID: "s1", Subject: " Math ", Marks: floatPtr(0), Total: 50})
	require.NoError(t, err)
	assert.Equal(t, "Math", entry.Subject)
	assert.Equal(t, 0.0, entry.Marks)
	assert.Equal(t, models.ExamTypeOther, entry.ExamType)
	assert.Equal(t, fixed, entry.ExamDate)
	assert.Equal(t, "2024", entry.Batch)
	require.NotNil(t, entry.Semester)
	assert.Equal(t, 3, *entry.Semester)
	assert.Equal(t, "A", entry.Section)
}

func TestMarksAddKeepsExplicitCohort(t *testing.T) {
	repo := &mockMarksRepo{}
	svc := NewMarksService(repo, cohortStudents(), nil, nil, nil)
	semester := 4

	entry, err := svc.Add(context.Background(), models.CreateMarksRequest{
		StudentID: "s1", Subject: "Physics", Marks: floatPtr(40), Total: 100,
		ExamType: models.ExamTypeFinal, Batch: "2023", Semester: &semester, Section: "B",
	})
	require.NoError(t, err)
	assert.Equal(t, "2023", entry.Batch)
	assert.Equal(t, 4, *entry.Semester)
	assert.Equal(t, "B", entry.Section)
	assert.Equal(t, models.ExamTypeFinal, entry.ExamType)
}

func TestMarksAddValidation(t *testing.T) {
	svc := NewMarksService(&mockMarksRepo{}, cohortStudents(), nil, nil, nil)

	_, err := svc.Add(context.Background(), models.CreateMarksRequest{StudentID: "s1", Subject: "Math", Total: 100})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Add(context.Background(), models.CreateMarksRequest{StudentID: "s1", Subject: "Math", Marks: floatPtr(5), Total: 0})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Add(context.Background(), models.CreateMarksRequest{StudentID: "s1", Subject: "Math", Marks: floatPtr(5), Total: 10, ExamType: "viva"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Add(context.Background(), models.CreateMarksRequest{StudentID: "missing", Subject: "Math", Marks: floatPtr(5), Total: 10})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestMarksUpdatePartial(t *testing.T) {
	repo := &mockMarksRepo{entries: map[string]*models.Marks{
		"m1": {ID: "m1", StudentID: "s1", Subject: "Math", Marks: 30, Total: 50, ExamType: models.ExamTypeQuiz},
	}}
	cacheRepo := &stubCacheRepo{}
	svc := NewMarksService(repo, cohortStudents(), NewCacheService(cacheRepo, nil, 0, nil, true), nil, nil)

	entry, err := svc.Update(context.Background(), "m1", models.UpdateMarksRequest{Marks: floatPtr(45)})
	require.NoError(t, err)
	assert.Equal(t, 45.0, entry.Marks)
	assert.Equal(t, 50.0, entry.Total)
	assert.Equal(t, "Math", entry.Subject)
	assert.Equal(t, []string{AnalyticsCachePattern}, cacheRepo.deleted)

	_, err = svc.Update(context.Background(), "nope", models.UpdateMarksRequest{})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestMarksDelete(t *testing.T) {
	repo := &mockMarksRepo{entries: map[string]*models.Marks{"m1": {ID: "m1"}}}
	svc := NewMarksService(repo, cohortStudents(), nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "m1"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "m1"), appErrors.ErrNotFound)
}

func TestMarksListForUser(t *testing.T) {
	repo := &mockMarksRepo{byStudent: map[string][]models.MarksDetail{
		"s1": {{Marks: models.Marks{ID: "m2"}}, {Marks: models.Marks{ID: "m1"}}},
	}}
	svc := NewMarksService(repo, cohortStudents(), nil, nil, nil)

	items, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "m2", items[0].ID)

	_, err = svc.ListForUser(context.Background(), "u2")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestMarksListFailureIsInternal(t *testing.T) {
	svc := NewMarksService(&mockMarksRepo{listErr: assert.AnError}, cohortStudents(), nil, nil, nil)
	_, _, err := svc.List(context.Background(), models.MarksFilter{})
	assert.ErrorIs(t, err, appErrors.ErrInternal)

	items, page, err := NewMarksService(&mockMarksRepo{}, nil, nil, nil, nil).List(context.Background(), models.MarksFilter{})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Equal(t, 10, page.PageSize)
}

func TestMarksRejectDeletedStudent(t *testing.T) {
	students := cohortStudents()
	students.students["s1"].Active = false
	repo := &mockMarksRepo{byStudent: map[string][]models.MarksDetail{"s1": {{Marks: models.Marks{ID: "m1"}}}}}
	svc := NewMarksService(repo, students, nil, nil, nil)

	_, err := svc.Add(context.Background(), models.CreateMarksRequest{StudentID: "s1", Subject: "Math", Marks: floatPtr(5), Total: 10})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Empty(t, repo.created)

	_, err = svc.ListForUser(context.Background(), "u1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
