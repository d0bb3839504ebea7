package admins

import (
	"context"
	"errors"
	"fmt"

	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/models"
	"github.com/teacherdesk/teacherdesk/backend/go-services/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both an unknown admin id and a wrong password.
var ErrInvalidCredentials = errors.New("invalid admin id or password")

// Service authenticates admins. It grants no per-admin scope.
type Service struct {
	repo Repository
	cost int
}

func NewService(r Repository, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{repo: r, cost: cost}
}

// Authenticate returns the admin when adminID and password match a stored account.
func (s *Service) Authenticate(ctx context.Context, adminID, password string) (*models.Admin, error) {
	if adminID == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	a, err := s.repo.GetByAdminID(ctx, adminID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Debugf("admin auth: %s not found", adminID)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return a, nil
}

// EnsureAdmin creates the admin or resets its password. It is idempotent.
func (s *Service) EnsureAdmin(ctx context.Context, adminID, password string) (*models.Admin, error) {
	if adminID == "" || password == "" {
		return nil, errors.New("admin id and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpsertPassword(ctx, adminID, string(hash))
}
