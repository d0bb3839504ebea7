package admins

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by repositories when no admin matches.
var ErrNotFound = errors.New("admin not found")

// Repository defines persistence operations for admins
type Repository interface {
	GetByAdminID(ctx context.Context, adminID string) (*models.Admin, error)
	UpsertPassword(ctx context.Context, adminID, passwordHash string) (*models.Admin, error)
}

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) GetByAdminID(ctx context.Context, adminID string) (*models.Admin, error) {
	var a models.Admin
	if err := r.col.FindOne(ctx, bson.M{"adminId": adminID}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &a, nil
}

func (r *MongoRepository) UpsertPassword(ctx context.Context, adminID, passwordHash string) (*models.Admin, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var a models.Admin
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"adminId": adminID},
		bson.M{"$set": bson.M{"password": passwordHash}},
		opts,
	).Decode(&a)
	if err != nil {
		return nil, fmt.Errorf("upsert admin: %w", err)
	}
	return &a, nil
}

// MemoryRepository is an in-memory Repository for memory mode and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*models.Admin
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: map[string]*models.Admin{}}
}

func (m *MemoryRepository) GetByAdminID(ctx context.Context, adminID string) (*models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[adminID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryRepository) UpsertPassword(ctx context.Context, adminID, passwordHash string) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[adminID]
	if !ok {
		a = &models.Admin{ID: primitive.NewObjectID(), AdminID: adminID}
		m.store[adminID] = a
	}
	a.PasswordHash = passwordHash
	cp := *a
	return &cp, nil
}
