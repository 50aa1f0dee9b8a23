package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/faculty-workload-api/internal/models"
	appErrors "github.com/campusops/faculty-workload-api/pkg/errors"
)

type mockFacultyRepo struct {
	items      map[string]*models.Faculty
	listResult []models.Faculty
	listTotal  int
	deleted    []string
}

func (m *mockFacultyRepo) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	return m.listResult, m.listTotal, nil
}

func (m *mockFacultyRepo) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	if f, ok := m.items[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFacultyRepo) Create(ctx context.Context, faculty *models.Faculty) error {
	if m.items == nil {
		m.items = make(map[string]*models.Faculty)
	}
	if faculty.ID == "" {
		faculty.ID = "generated"
	}
	cp := *faculty
	m.items[faculty.ID] = &cp
	return nil
}

func (m *mockFacultyRepo) Update(ctx context.Context, faculty *models.Faculty) error {
	cp := *faculty
	m.items[faculty.ID] = &cp
	return nil
}

func (m *mockFacultyRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func TestFacultyServiceCreate(t *testing.T) {
	repo := &mockFacultyRepo{}
	svc := NewFacultyService(repo, nil, validator.New(), zap.NewNop())

	faculty, err := svc.Create(context.Background(), CreateFacultyRequest{
		Name:       "  Dr. Rao  ",
		Department: "Computer Science",
		MaxHours:   14,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Rao", faculty.Name)
	assert.NotEmpty(t, faculty.ID)
}

func TestFacultyServiceCreateRejectsBlankName(t *testing.T) {
	svc := NewFacultyService(&mockFacultyRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateFacultyRequest{Name: "   ", Department: "Physics"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFacultyServiceUpdateNotFound(t *testing.T) {
	svc := NewFacultyService(&mockFacultyRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "missing", UpdateFacultyRequest{Name: "N", Department: "D"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestFacultyServiceDelete(t *testing.T) {
	repo := &mockFacultyRepo{items: map[string]*models.Faculty{
		"f1": {ID: "f1", Name: "Dr. Rao", Department: "CS"},
	}}
	svc := NewFacultyService(repo, nil, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "f1"))
	assert.Equal(t, []string{"f1"}, repo.deleted)

	err := svc.Delete(context.Background(), "f1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
