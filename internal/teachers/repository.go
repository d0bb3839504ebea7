package teachers

import (
	"context"
	"errors"
	"fmt"

	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository defines persistence operations for teachers. Implementations must
// reject a second record with the same register number.
type Repository interface {
	Create(ctx context.Context, t *models.Teacher) error
	GetByRegisterNumber(ctx context.Context, registerNumber string) (*models.Teacher, error)
	List(ctx context.Context) ([]*models.Teacher, error)
	Update(ctx context.Context, registerNumber string, patch models.TeacherPatch) (*models.Teacher, error)
	Delete(ctx context.Context, registerNumber string) error
	Count(ctx context.Context) (int64, error)
}

// MongoRepository implements Repository using a Mongo collection.
// The unique index on registerNumber is created by database.EnsureIndexes.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, t *models.Teacher) error {
	res, err := r.col.InsertOne(ctx, t)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateRegisterNumber
		}
		return fmt.Errorf("insert teacher: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid
	}
	return nil
}

func (r *MongoRepository) GetByRegisterNumber(ctx context.Context, registerNumber string) (*models.Teacher, error) {
	var t models.Teacher
	if err := r.col.FindOne(ctx, bson.M{"registerNumber": registerNumber}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find teacher: %w", err)
	}
	return &t, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]*models.Teacher, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer cur.Close(ctx)
	out := []*models.Teacher{}
	for cur.Next(ctx) {
		var t models.Teacher
		if err := cur.Decode(&t); err != nil {
			return nil, fmt.Errorf("decode teacher: %w", err)
		}
		out = append(out, &t)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) Update(ctx context.Context, registerNumber string, patch models.TeacherPatch) (*models.Teacher, error) {
	if patch.Empty() {
		return r.GetByRegisterNumber(ctx, registerNumber)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Teacher
	err := r.col.FindOneAndUpdate(ctx, bson.M{"registerNumber": registerNumber}, bson.M{"$set": patch.SetDocument()}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update teacher: %w", err)
	}
	return &updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, registerNumber string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"registerNumber": registerNumber})
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count teachers: %w", err)
	}
	return n, nil
}
