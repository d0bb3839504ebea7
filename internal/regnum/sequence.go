package regnum

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Counter reports how many teachers exist.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// CountSequencer returns count+1. It reads then uses the count without any
// locking, so concurrent callers can receive the same value; the unique index
// on registerNumber rejects the losing write.
type CountSequencer struct {
	counter Counter
}

func NewCountSequencer(c Counter) *CountSequencer { return &CountSequencer{counter: c} }

func (s *CountSequencer) Next(ctx context.Context) (int64, error) {
	n, err := s.counter.Count(ctx)
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// MongoCounter is an atomic sequence stored as {_id: name, seq: n} in a counters collection.
type MongoCounter struct {
	col  *mongo.Collection
	name string
}

func NewMongoCounter(col *mongo.Collection, name string) *MongoCounter {
	return &MongoCounter{col: col, name: name}
}

func (m *MongoCounter) Next(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": m.name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// Seed raises the stored sequence to at least n so numbers already issued are not handed out again.
func (m *MongoCounter) Seed(ctx context.Context, n int64) error {
	_, err := m.col.UpdateOne(ctx, bson.M{"_id": m.name}, bson.M{"$max": bson.M{"seq": n}}, options.Update().SetUpsert(true))
	return err
}

// RedisCounter is an atomic sequence backed by INCR.
type RedisCounter struct {
	client *redis.Client
	key    string
}

func NewRedisCounter(client *redis.Client, key string) *RedisCounter {
	if key == "" {
		key = "seq:teachers"
	}
	return &RedisCounter{client: client, key: key}
}

func (r *RedisCounter) Next(ctx context.Context) (int64, error) {
	return r.client.Incr(ctx, r.key).Result()
}

// seedMax sets KEYS[1] to ARGV[1] only when the stored value is lower.
var seedMax = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local n = tonumber(ARGV[1])
if cur < n then
  redis.call('SET', KEYS[1], ARGV[1])
  return n
end
return cur
`)

// Seed raises the stored sequence to at least n in one atomic step.
func (r *RedisCounter) Seed(ctx context.Context, n int64) error {
	return seedMax.Run(ctx, r.client, []string{r.key}, strconv.FormatInt(n, 10)).Err()
}

// MemoryCounter is an in-process atomic sequence.
type MemoryCounter struct {
	n atomic.Int64
}

func (m *MemoryCounter) Next(ctx context.Context) (int64, error) {
	return m.n.Add(1), nil
}

// Seed raises the sequence to at least n.
func (m *MemoryCounter) Seed(ctx context.Context, n int64) error {
	for {
		cur := m.n.Load()
		if cur >= n || m.n.CompareAndSwap(cur, n) {
			return nil
		}
	}
}
