package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository/memory"
	"github.com/jwalitptl/dentalcare-api/pkg/auth"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
	"github.com/jwalitptl/dentalcare-api/pkg/security"
)

func newTestService() *Service {
	store := memory.NewStore()
	return NewService(
		store.Users(),
		auth.NewJWTService("test-secret", time.Hour, "dentalcare-test"),
		security.NewBcryptHasher(bcrypt.MinCost),
	)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Status()
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &model.RegisterRequest{
		Name:     "Dr. Rao",
		Email:    "Rao@Clinic.example",
		Password: "s3cret-pass",
		Role:     "dentist",
	})
	require.NoError(t, err)
	assert.Equal(t, "rao@clinic.example", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	resp, err := svc.Login(ctx, &model.LoginRequest{Email: "rao@clinic.example", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "dentist", claims.Role)
}

func TestService_RegisterDefaults(t *testing.T) {
	svc := newTestService()

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name: "Front Desk", Email: "desk@clinic.example", Password: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, defaultRole, user.Role)
}

func TestService_RegisterErrors(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{Name: "A", Email: "a@clinic.example", Password: "short"})
	assert.Equal(t, 400, statusOf(t, err))

	_, err = svc.Register(ctx, &model.RegisterRequest{Name: "A", Email: "a@clinic.example", Password: "long-enough"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, &model.RegisterRequest{Name: "B", Email: "A@clinic.example", Password: "long-enough"})
	assert.Equal(t, 409, statusOf(t, err))
}

func TestService_LoginFailures(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{Name: "A", Email: "a@clinic.example", Password: "long-enough"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "a@clinic.example", Password: "wrong-password"})
	assert.Equal(t, 401, statusOf(t, err))
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "nobody@clinic.example", Password: "long-enough"})
	assert.Equal(t, 401, statusOf(t, err))

	_, err = svc.ValidateToken(ctx, "not-a-token")
	assert.Equal(t, 401, statusOf(t, err))
}
