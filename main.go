package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teacherdesk/teacherdesk/backend/go-services/handlers"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/admins"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/config"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/database"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/regnum"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/sessions"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/teachers"
	"github.com/teacherdesk/teacherdesk/backend/go-services/pkg/logger"
	"github.com/teacherdesk/teacherdesk/backend/go-services/pkg/metrics"
	"github.com/teacherdesk/teacherdesk/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

// seeder is implemented by the sequences that must start above issued numbers.
type seeder interface {
	Seed(ctx context.Context, n int64) error
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()
	logger.Infof("config loaded: storage=%s sequence=%s redis=%v jwt_secret_set=%v", cfg.Storage, cfg.Register.Sequence, cfg.Redis.Addr() != "", cfg.JWT.Secret != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	checks := map[string]handlers.Check{}

	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		} else {
			logger.Infof("connected to Redis: %s", addr)
		}
		defer func() { _ = rdb.Close() }()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	var (
		db          *mongo.Database
		teacherRepo teachers.Repository
		adminRepo   admins.Repository
	)
	if cfg.Storage == "mongo" {
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, func(attempt int, err error) {
			logger.Warnf("attempt %d/5: failed to connect to MongoDB: %v", attempt, err)
		})
		if err != nil {
			logger.Fatalf("%v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db = client.Database(cfg.MongoDB.Database)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			logger.Fatalf("failed to create indexes: %v", err)
		}
		teacherRepo = teachers.NewMongoRepository(db.Collection(database.TeachersCollection))
		adminRepo = admins.NewMongoRepository(db.Collection(database.AdminsCollection))
		checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		logger.Infof("connected to MongoDB database %q", cfg.MongoDB.Database)
	} else {
		logger.Warnf("STORAGE=memory: data is lost on restart")
		teacherRepo = teachers.NewMemoryRepository()
		adminRepo = admins.NewMemoryRepository()
	}

	seq, err := newSequencer(ctx, cfg, db, rdb, teacherRepo)
	if err != nil {
		logger.Fatalf("register sequence: %v", err)
	}
	teacherSvc := teachers.NewService(teacherRepo, regnum.NewGenerator(cfg.Register.StreamCodes, seq), cfg.Register.BcryptCost)
	adminSvc := admins.NewService(adminRepo, cfg.Register.BcryptCost)

	if cfg.Admin.ID != "" && cfg.Admin.Password != "" {
		if _, err := adminSvc.EnsureAdmin(ctx, cfg.Admin.ID, cfg.Admin.Password); err != nil {
			logger.Fatalf("failed to seed admin %s: %v", cfg.Admin.ID, err)
		}
		logger.Infof("admin %s ensured", cfg.Admin.ID)
	}

	var (
		sessionsSvc *sessions.Service
		blacklist   *sessions.Blacklist
	)
	switch {
	case rdb != nil:
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(rdb, "session:"))
		blacklist = sessions.NewBlacklist(rdb)
		logger.Infof("using Redis for session storage")
	case db != nil:
		srepo, err := sessions.NewMongoRepository(ctx, db.Collection(database.SessionsCollection))
		if err != nil {
			logger.Fatalf("failed to prepare sessions collection: %v", err)
		}
		sessionsSvc = sessions.NewService(srepo)
		logger.Infof("using MongoDB for session storage; access tokens cannot be revoked without Redis")
	default:
		sessionsSvc = sessions.NewService(sessions.NewMemoryRepository())
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(logger.L()), gin.Recovery(), middleware.CORS())

	var limit []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			limit = append(limit, middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			limit = append(limit, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
		logger.Infof("rate limiting sign-in routes: rps=%.2f burst=%d redis=%v", cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.UseRedis && rdb != nil)
	}

	handlers.RegisterHealth(r, startTime, checks)
	handlers.NewTeacherHandler(teacherSvc, cfg.Server.RequestTimeout).Register(r, limit...)
	handlers.NewAdminHandler(cfg, adminSvc, teacherSvc, sessionsSvc, blacklist).Register(r, limit...)
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting teacher service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("forced shutdown: %v", err)
	}
}

// newSequencer picks the register-number sequence source and raises it to the
// highest sequence already stored (or the teacher count, if larger) so numbers
// issued before a restart are not reused.
func newSequencer(ctx context.Context, cfg *config.Config, db *mongo.Database, rdb *redis.Client, repo teachers.Repository) (regnum.Sequencer, error) {
	var seq regnum.Sequencer
	switch cfg.Register.Sequence {
	case config.SequenceCount:
		logger.Warnf("REGISTER_SEQUENCE=count: concurrent registrations may collide and fail")
		return regnum.NewCountSequencer(repo), nil
	case config.SequenceRedis:
		if rdb == nil {
			return nil, errors.New("REGISTER_SEQUENCE=redis requires REDIS_HOST")
		}
		seq = regnum.NewRedisCounter(rdb, "")
	default:
		if db != nil {
			seq = regnum.NewMongoCounter(db.Collection(database.CountersCollection), database.TeachersCollection)
		} else {
			seq = &regnum.MemoryCounter{}
		}
	}
	n, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count teachers: %w", err)
	}
	existing, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	issued := make([]string, 0, len(existing))
	for _, t := range existing {
		issued = append(issued, t.RegisterNumber)
	}
	n = max(n, regnum.HighestSequence(issued))
	if s, ok := seq.(seeder); ok {
		if err := s.Seed(ctx, n); err != nil {
			return nil, fmt.Errorf("seed sequence: %w", err)
		}
	}
	return seq, nil
}
