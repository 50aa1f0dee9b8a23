package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusops/faculty-workload-api/internal/models"
	appErrors "github.com/campusops/faculty-workload-api/pkg/errors"
)

type mockUserRepo struct {
	users        map[string]*models.User
	tokens       map[string]*models.RefreshToken
	revokedUsers []string
	wipedAll     int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  make(map[string]*models.User),
		tokens: make(map[string]*models.RefreshToken),
	}
}

func (m *mockUserRepo) addUser(id, username, password string, role models.UserRole, active bool) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.users[id] = &models.User{
		ID: id, Username: username, PasswordHash: string(hash), Role: role, Active: active,
	}
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.FindByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "generated"
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (m *mockUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	cp := *token
	m.tokens[token.Token] = &cp
	return nil
}

func (m *mockUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if rt, ok := m.tokens[token]; ok {
		cp := *rt
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) RevokeRefreshToken(ctx context.Context, id string) error {
	for _, rt := range m.tokens {
		if rt.ID == id {
			rt.Revoked = true
		}
	}
	return nil
}

func (m *mockUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	m.revokedUsers = append(m.revokedUsers, userID)
	for _, rt := range m.tokens {
		if rt.UserID == userID {
			rt.Revoked = true
		}
	}
	return nil
}

func (m *mockUserRepo) RevokeAllRefreshTokens(ctx context.Context) (int64, error) {
	m.wipedAll++
	var n int64
	for _, rt := range m.tokens {
		if !rt.Revoked {
			rt.Revoked = true
			n++
		}
	}
	return n, nil
}

func newAuthService(repo *mockUserRepo, singleSession bool) *AuthService {
	return NewAuthService(repo, nil, zap.NewNop(), AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "test",
		SingleSession:      singleSession,
	})
}

func TestAuthServiceLogin(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser("u1", "admin", "secret123", models.RoleAdmin, true)
	svc := newAuthService(repo, true)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "admin", res.User.Username)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser("u1", "admin", "secret123", models.RoleAdmin, true)
	svc := newAuthService(repo, true)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginSingleSessionRevokesOthers(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser("u1", "admin", "secret123", models.RoleAdmin, true)
	svc := newAuthService(repo, true)

	first, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "secret123"})
	require.NoError(t, err)

	assert.Equal(t, []string{"u1", "u1"}, repo.revokedUsers)
	stored := repo.tokens[first.RefreshToken]
	require.NotNil(t, stored)
	assert.True(t, stored.Revoked)
}

func TestAuthServiceSignup(t *testing.T) {
	repo := newMockUserRepo()
	svc := newAuthService(repo, false)

	res, err := svc.Signup(context.Background(), models.SignupRequest{Username: "newuser", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleFaculty, res.User.Role)
	assert.NotEmpty(t, res.AccessToken)

	_, err = svc.Signup(context.Background(), models.SignupRequest{Username: "newuser", Password: "other456"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshRotation(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser("u1", "admin", "secret123", models.RoleAdmin, true)
	svc := newAuthService(repo, false)

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The used token is revoked; replaying it fails.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRevokeAllSessions(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser("u1", "admin", "secret123", models.RoleAdmin, true)
	repo.addUser("u2", "prof", "secret123", models.RoleFaculty, true)
	svc := newAuthService(repo, false)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "prof", Password: "secret123"})
	require.NoError(t, err)

	revoked, err := svc.RevokeAllSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), revoked)
	assert.Equal(t, 1, repo.wipedAll)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser("u1", "admin", "secret123", models.RoleAdmin, true)
	svc := newAuthService(repo, false)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.AccessToken + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
