package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/faculty-workload-api/internal/models"
	appErrors "github.com/campusops/faculty-workload-api/pkg/errors"
)

type mockSubjectRepo struct {
	items   map[string]*models.Subject
	deleted []string
}

func (m *mockSubjectRepo) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	return nil, 0, nil
}

func (m *mockSubjectRepo) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if s, ok := m.items[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, fmt.Errorf("find subject %s: %w", id, sql.ErrNoRows)
}

func (m *mockSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	if m.items == nil {
		m.items = make(map[string]*models.Subject)
	}
	if subject.ID == "" {
		subject.ID = "generated"
	}
	cp := *subject
	m.items[subject.ID] = &cp
	return nil
}

func (m *mockSubjectRepo) Update(ctx context.Context, subject *models.Subject) error {
	cp := *subject
	m.items[subject.ID] = &cp
	return nil
}

func (m *mockSubjectRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func TestSubjectServiceCreate(t *testing.T) {
	repo := &mockSubjectRepo{}
	svc := NewSubjectService(repo, nil, validator.New(), zap.NewNop())

	subject, err := svc.Create(context.Background(), CreateSubjectRequest{
		Name:        "  Algorithms  ",
		Semester:    3,
		CreditHours: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", subject.Name)
	assert.NotEmpty(t, subject.ID)
}

func TestSubjectServiceCreateRejectsBlankName(t *testing.T) {
	svc := NewSubjectService(&mockSubjectRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "   ", Semester: 3})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceCreateRejectsNegativeSemester(t *testing.T) {
	svc := NewSubjectService(&mockSubjectRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Algorithms", Semester: -1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceUpdateNotFound(t *testing.T) {
	svc := NewSubjectService(&mockSubjectRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "missing", UpdateSubjectRequest{Name: "Algorithms"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceDelete(t *testing.T) {
	repo := &mockSubjectRepo{items: map[string]*models.Subject{
		"s1": {ID: "s1", Name: "Algorithms", Semester: 3},
	}}
	svc := NewSubjectService(repo, nil, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "s1"))
	assert.Equal(t, []string{"s1"}, repo.deleted)

	err := svc.Delete(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
