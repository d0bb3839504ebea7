package teachers

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/models"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/regnum"
	"github.com/teacherdesk/teacherdesk/backend/go-services/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest carries the fields accepted by Register.
type RegisterRequest struct {
	Name        string      `json:"name" validate:"required"`
	JoiningDate string      `json:"joiningDate" validate:"required"`
	Password    string      `json:"password" validate:"required"`
	BirthDate   string      `json:"birthDate" validate:"required"`
	Streams     []string    `json:"streams"`
	Subjects    []string    `json:"subjects"`
	McaTeacher  models.Flag `json:"mcaTeacher"`
}

// UpdateRequest is the allow-list of fields a client may change. RegisterNumber
// is accepted so that clients echoing the full record still decode, but it is
// never written.
type UpdateRequest struct {
	Name           *string      `json:"name,omitempty"`
	JoiningDate    *string      `json:"joiningDate,omitempty"`
	BirthDate      *string      `json:"birthDate,omitempty"`
	Streams        *[]string    `json:"streams,omitempty"`
	Subjects       *[]string    `json:"subjects,omitempty"`
	McaTeacher     *models.Flag `json:"mcaTeacher,omitempty"`
	Password       *string      `json:"password,omitempty"`
	RegisterNumber *string      `json:"registerNumber,omitempty"`
}

// Service encapsulates the teacher account lifecycle
type Service struct {
	repo     Repository
	gen      *regnum.Generator
	cost     int
	validate *validator.Validate
}

// NewService wires a Service. cost is the bcrypt cost; values outside bcrypt's
// range fall back to bcrypt.DefaultCost (10).
func NewService(repo Repository, gen *regnum.Generator, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Service{repo: repo, gen: gen, cost: cost, validate: v}
}

// Register validates the request, hashes the password, derives a register
// number and persists the teacher.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if err := s.validateStruct(req); err != nil {
		return "", err
	}
	if _, err := regnum.JoiningYear(req.JoiningDate); err != nil {
		return "", &ValidationError{Field: "joiningDate", Reason: "must start with a 4-digit year"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	rn, err := s.gen.Generate(ctx, req.JoiningDate, req.Streams)
	if err != nil {
		return "", fmt.Errorf("generate register number: %w", err)
	}

	t := &models.Teacher{
		Name:           req.Name,
		JoiningDate:    req.JoiningDate,
		PasswordHash:   string(hash),
		BirthDate:      req.BirthDate,
		Streams:        nonNil(req.Streams),
		Subjects:       nonNil(req.Subjects),
		RegisterNumber: rn,
		McaTeacher:     req.McaTeacher,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return "", fmt.Errorf("create teacher %s: %w", rn, err)
	}
	logger.Infof("teacher registered: registerNumber=%s", rn)
	return rn, nil
}

// SignIn checks a teacher's credentials. Unknown register numbers and wrong
// passwords both yield ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, registerNumber, password string) error {
	if registerNumber == "" || password == "" {
		return ErrInvalidCredentials
	}
	t, err := s.repo.GetByRegisterNumber(ctx, registerNumber)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Debugf("sign-in: register number %s not found", registerNumber)
			return ErrInvalidCredentials
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Debugf("sign-in: password mismatch for %s", registerNumber)
			return ErrInvalidCredentials
		}
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, registerNumber string) (*models.Teacher, error) {
	return s.repo.GetByRegisterNumber(ctx, registerNumber)
}

func (s *Service) List(ctx context.Context) ([]*models.Teacher, error) {
	return s.repo.List(ctx)
}

// Update applies the allow-listed fields of req. The register number never changes.
func (s *Service) Update(ctx context.Context, registerNumber string, req UpdateRequest) (*models.Teacher, error) {
	patch := models.TeacherPatch{
		Name:        req.Name,
		JoiningDate: req.JoiningDate,
		BirthDate:   req.BirthDate,
		Streams:     req.Streams,
		Subjects:    req.Subjects,
	}
	if req.McaTeacher != nil {
		b := bool(*req.McaTeacher)
		patch.McaTeacher = &b
	}
	required := []struct {
		field string
		v     *string
	}{{"name", req.Name}, {"joiningDate", req.JoiningDate}, {"birthDate", req.BirthDate}, {"password", req.Password}}
	for _, r := range required {
		if r.v != nil && *r.v == "" {
			return nil, &ValidationError{Field: r.field, Reason: "cannot be empty"}
		}
	}
	if req.RegisterNumber != nil && *req.RegisterNumber != registerNumber {
		logger.Warnf("update %s: ignoring attempt to change registerNumber to %q", registerNumber, *req.RegisterNumber)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		patch.PasswordHash = &h
	}
	return s.repo.Update(ctx, registerNumber, patch)
}

func (s *Service) Delete(ctx context.Context, registerNumber string) error {
	return s.repo.Delete(ctx, registerNumber)
}

// Count returns the number of stored teachers.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) validateStruct(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field(), Reason: "is required"}
	}
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
