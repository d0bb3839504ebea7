package admins

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func TestEnsureAdminAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository(), bcrypt.MinCost)
	ctx := context.Background()

	a, err := svc.EnsureAdmin(ctx, "admin", "pass")
	require.NoError(t, err)
	require.Equal(t, "admin", a.AdminID)
	require.NotEqual(t, "pass", a.PasswordHash)

	got, err := svc.Authenticate(ctx, "admin", "pass")
	require.NoError(t, err)
	require.Equal(t, "admin", got.AdminID)

	_, err = svc.Authenticate(ctx, "admin", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody", "pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "admin", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureAdmin_RotatesPassword(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	first, err := svc.EnsureAdmin(ctx, "admin", "old")
	require.NoError(t, err)
	second, err := svc.EnsureAdmin(ctx, "admin", "new")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	_, err = svc.Authenticate(ctx, "admin", "old")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "admin", "new")
	require.NoError(t, err)

	_, err = svc.EnsureAdmin(ctx, "", "x")
	require.Error(t, err)
}

type failingRepo struct{}

func (failingRepo) GetByAdminID(ctx context.Context, adminID string) (*models.Admin, error) {
	return nil, errors.New("connection reset")
}

func (failingRepo) UpsertPassword(ctx context.Context, adminID, passwordHash string) (*models.Admin, error) {
	return nil, errors.New("connection reset")
}

func TestAuthenticate_StorageErrorIsNotCredentialError(t *testing.T) {
	svc := NewService(failingRepo{}, bcrypt.MinCost)
	_, err := svc.Authenticate(context.Background(), "admin", "pass")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrInvalidCredentials))
}
