package teachers

import (
	"context"
	"sync"

	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is an in-memory Repository used when no MongoDB is
// configured and in tests. It enforces register number uniqueness like the
// Mongo unique index does.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	store map[string]*models.Teacher
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*models.Teacher)}
}

func (m *MemoryRepository) Create(ctx context.Context, t *models.Teacher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.store[t.RegisterNumber]; exists {
		return ErrDuplicateRegisterNumber
	}
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	m.store[t.RegisterNumber] = t.Clone()
	m.order = append(m.order, t.RegisterNumber)
	return nil
}

func (m *MemoryRepository) GetByRegisterNumber(ctx context.Context, registerNumber string) (*models.Teacher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.store[registerNumber]; ok {
		return t.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) List(ctx context.Context) ([]*models.Teacher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Teacher, 0, len(m.order))
	for _, rn := range m.order {
		out = append(out, m.store[rn].Clone())
	}
	return out, nil
}

func (m *MemoryRepository) Update(ctx context.Context, registerNumber string, patch models.TeacherPatch) (*models.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[registerNumber]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(t)
	return t.Clone(), nil
}

func (m *MemoryRepository) Delete(ctx context.Context, registerNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[registerNumber]; !ok {
		return ErrNotFound
	}
	delete(m.store, registerNumber)
	for i, rn := range m.order {
		if rn == registerNumber {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.store)), nil
}
