package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/marks-analytics-api/internal/models"
	appErrors "github.com/noah-isme/marks-analytics-api/pkg/errors"
)

type mockStudentRepo struct {
	students    map[string]*models.StudentDetail
	created     []*models.Student
	updated     []*models.Student
	deactivated []string
	total       int
}

func (m *mockStudentRepo) List(_ context.Context, _ models.StudentFilter) ([]models.StudentDetail, int, error) {
	out := make([]models.StudentDetail, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, *s)
	}
	return out, m.total, nil
}

func (m *mockStudentRepo) FindByID(_ context.Context, id string) (*models.StudentDetail, error) {
	if s, ok := m.students[id]; ok && s.Active {
		copy := *s
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByUserID(_ context.Context, userID string) (*models.StudentDetail, error) {
	for _, s := range m.students {
		if s.UserID != nil && *s.UserID == userID {
			copy := *s
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(_ context.Context, student *models.Student) error {
	student.ID = "s-new"
	student.Active = true
	m.created = append(m.created, student)
	if m.students == nil {
		m.students = map[string]*models.StudentDetail{}
	}
	m.students[student.ID] = &models.StudentDetail{Student: *student}
	return nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *models.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return sql.ErrNoRows
	}
	m.updated = append(m.updated, student)
	m.students[student.ID] = &models.StudentDetail{Student: *student}
	return nil
}

func (m *mockStudentRepo) Deactivate(_ context.Context, id string) error {
	s, ok := m.students[id]
	if !ok || !s.Active {
		return sql.ErrNoRows
	}
	s.Active = false
	m.deactivated = append(m.deactivated, id)
	return nil
}

type mockAccountRepo struct {
	users       map[string]*models.User
	takenEmails map[string]string
	created     []*models.User
	updated     []*models.User
}

func (m *mockAccountRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) ExistsByEmail(_ context.Context, email, excludeID string) (bool, error) {
	owner, ok := m.takenEmails[email]
	return ok && owner != excludeID, nil
}

func (m *mockAccountRepo) CreateWithStudent(_ context.Context, user *models.User, student *models.Student) error {
	user.ID = "u-new"
	student.ID = "s-new"
	student.UserID = &user.ID
	m.created = append(m.created, user)
	return nil
}

func (m *mockAccountRepo) UpdateWithStudent(_ context.Context, user *models.User, _ *models.Student) error {
	m.updated = append(m.updated, user)
	return nil
}

func strPtr(s string) *string { return &s }

func TestStudentServiceCreateDefaultsPassword(t *testing.T) {
	accounts := &mockAccountRepo{}
	svc := NewStudentService(&mockStudentRepo{}, accounts, nil, nil, zap.NewNop())

	sem := 2
	detail, err := svc.Create(context.Background(), models.CreateStudentRequest{Name: "Asha", Email: "Asha@example.com", RollNo: "R-1", Semester: &sem})
	require.NoError(t, err)
	assert.Equal(t, "s-new", detail.ID)
	assert.Equal(t, "asha@example.com", *detail.Email)
	require.Len(t, accounts.created, 1)
	assert.Equal(t, models.RoleStudent, accounts.created[0].Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(accounts.created[0].PasswordHash), []byte("asha@example.com")))
}

func TestStudentServiceCreateDuplicateEmail(t *testing.T) {
	accounts := &mockAccountRepo{takenEmails: map[string]string{"asha@example.com": "u1"}}
	svc := NewStudentService(&mockStudentRepo{}, accounts, nil, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateStudentRequest{Name: "Asha", Email: "asha@example.com"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestStudentServiceUpdateLinkedAccount(t *testing.T) {
	userID := "u1"
	repo := &mockStudentRepo{students: map[string]*models.StudentDetail{
		"s1": {Student: models.Student{ID: "s1", UserID: &userID, Name: "Asha", Batch: "2023", Active: true}},
	}}
	accounts := &mockAccountRepo{
		users:       map[string]*models.User{"u1": {ID: "u1", Name: "Asha", Email: "asha@example.com", PasswordHash: "old"}},
		takenEmails: map[string]string{"asha@example.com": "u1"},
	}
	svc := NewStudentService(repo, accounts, nil, nil, nil)

	detail, err := svc.Update(context.Background(), "s1", models.UpdateStudentRequest{Batch: strPtr("2024"), Email: strPtr("asha@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "2024", detail.Batch)
	require.Len(t, accounts.updated, 1)
	assert.Empty(t, accounts.updated[0].PasswordHash)
}

func TestStudentServiceUpdateUnlinkedRejectsEmail(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.StudentDetail{"s1": {Student: models.Student{ID: "s1", Active: true}}}}
	svc := NewStudentService(repo, &mockAccountRepo{}, nil, nil, nil)

	_, err := svc.Update(context.Background(), "s1", models.UpdateStudentRequest{Email: strPtr("x@example.com")})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	detail, err := svc.Update(context.Background(), "s1", models.UpdateStudentRequest{Name: strPtr("Ben")})
	require.NoError(t, err)
	assert.Equal(t, "Ben", detail.Name)
}

func TestStudentServiceDeleteInvalidatesCache(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.StudentDetail{"s1": {Student: models.Student{ID: "s1", Active: true}}}}
	cacheRepo := &stubCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, 0, nil, true)
	svc := NewStudentService(repo, &mockAccountRepo{}, cache, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "s1"))
	assert.Equal(t, []string{"s1"}, repo.deactivated)
	assert.Equal(t, []string{AnalyticsCachePattern}, cacheRepo.deleted)

	assert.ErrorIs(t, svc.Delete(context.Background(), "missing"), appErrors.ErrNotFound)
}

func TestStudentServiceUpsertProfileCreatesThenUpdates(t *testing.T) {
	repo := &mockStudentRepo{}
	accounts := &mockAccountRepo{users: map[string]*models.User{"u1": {ID: "u1", Name: "Asha"}}}
	svc := NewStudentService(repo, accounts, nil, nil, nil)

	detail, created, err := svc.UpsertProfile(context.Background(), "u1", models.UpdateProfileRequest{RollNo: "R-9", Batch: "2024"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Asha", detail.Name)
	assert.Equal(t, "R-9", detail.RollNo)

	detail, created, err = svc.UpsertProfile(context.Background(), "u1", models.UpdateProfileRequest{RollNo: "R-10", Batch: "2024"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "R-10", detail.RollNo)
	assert.Len(t, repo.created, 1)
	assert.Len(t, repo.updated, 1)
}

func TestStudentServiceProfileNotFound(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockAccountRepo{}, nil, nil, nil)
	_, err := svc.Profile(context.Background(), "u404")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceListPagination(t *testing.T) {
	repo := &mockStudentRepo{total: 25}
	svc := NewStudentService(repo, &mockAccountRepo{}, nil, nil, nil)

	students, page, err := svc.List(context.Background(), models.StudentFilter{Page: 2})
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 25, page.Total)
}

func TestStudentServiceDeletedStudentIsHidden(t *testing.T) {
	userID := "u1"
	repo := &mockStudentRepo{students: map[string]*models.StudentDetail{
		"s1": {Student: models.Student{ID: "s1", UserID: &userID, Name: "Asha", Active: true}},
	}}
	accounts := &mockAccountRepo{users: map[string]*models.User{"u1": {ID: "u1", Name: "Asha"}}}
	svc := NewStudentService(repo, accounts, nil, nil, nil)
	require.NoError(t, svc.Delete(context.Background(), "s1"))

	_, err := svc.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Update(context.Background(), "s1", models.UpdateStudentRequest{Name: strPtr("Ben")})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Profile(context.Background(), "u1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, _, err = svc.UpsertProfile(context.Background(), "u1", models.UpdateProfileRequest{RollNo: "R-1", Batch: "2024"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Empty(t, repo.created)
	assert.Empty(t, repo.updated)

	assert.ErrorIs(t, svc.Delete(context.Background(), "s1"), appErrors.ErrNotFound)
}
