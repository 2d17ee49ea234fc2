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

	"github.com/bookstore/bookstore-api/handlers"
	"github.com/bookstore/bookstore-api/internal/auth"
	bookhandler "github.com/bookstore/bookstore-api/internal/books/handler"
	bookservice "github.com/bookstore/bookstore-api/internal/books/service"
	"github.com/bookstore/bookstore-api/internal/config"
	"github.com/bookstore/bookstore-api/internal/database"
	"github.com/bookstore/bookstore-api/internal/password"
	"github.com/bookstore/bookstore-api/internal/revocation"
	"github.com/bookstore/bookstore-api/internal/storage"
	"github.com/bookstore/bookstore-api/internal/tokens"
	"github.com/bookstore/bookstore-api/internal/users"
	"github.com/bookstore/bookstore-api/pkg/logger"
	"github.com/bookstore/bookstore-api/pkg/metrics"
	"github.com/bookstore/bookstore-api/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal, LOG_FORMAT: text|json
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.SetFormat(os.Getenv("LOG_FORMAT"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.SetFormat(cfg.Log.Format)
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v", cfg.MongoDB.URI != "", cfg.Redis.Addr() != "", cfg.MinIO.Endpoint != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Lightweight CORS middleware: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})
	r.Use(middleware.RequestLogger(logger.L()), gin.Recovery())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis first: the rate limiter and the revocation list both prefer it
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis ping failed (%s): %v", addr, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("connected to Redis at %s", addr)
			defer func() { _ = rdb.Close() }()
		}
	}

	// MongoDB with retry/backoff; memory stores when unset (development)
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		mongoClient, err = database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second,
			func(attempt int, err error) {
				logger.Warnf("attempt %d/5: failed to connect to MongoDB: %v", attempt, err)
			})
		if err != nil {
			logger.Fatalf("could not connect to MongoDB: %v", err)
		}
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	} else {
		logger.Warn("MONGODB_URI not set: using in-memory stores, data is lost on restart")
	}

	hasher := password.NewBcryptHasher(cfg.Password.BcryptCost)
	tokenSvc, err := tokens.NewService(cfg.JWT.Secret, tokens.WithTTLs(cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL))
	if err != nil {
		logger.Fatalf("token service: %v", err)
	}
	// the limiter runs before RequireUser, so it reads the subject from a valid access token itself
	if cfg.RateLimit.Enabled {
		keyOnUser := middleware.KeyOnTokenSubject(tokenSvc)
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win, keyOnUser))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst, keyOnUser))
		}
	}

	var (
		userRepo users.Repository
		bookSvc  bookservice.Service
		revoked  revocation.Store
	)
	if mongoClient != nil {
		db := mongoClient.Database(cfg.MongoDB.Database)
		mu := users.NewMongoRepository(db.Collection("users"))
		if err := mu.EnsureIndexes(ctx); err != nil {
			logger.Fatalf("users indexes: %v", err)
		}
		userRepo = mu
		bookSvc = bookservice.NewMongoService(db.Collection("books"))
	} else {
		userRepo = users.NewMemoryRepository()
		bookSvc = bookservice.NewMemoryService()
	}
	switch {
	case rdb != nil:
		revoked = revocation.NewRedisStore(rdb, "")
		logger.Infof("revocation list: redis")
	case mongoClient != nil:
		ms := revocation.NewMongoStore(mongoClient.Database(cfg.MongoDB.Database).Collection("revoked_tokens"))
		if err := ms.EnsureIndexes(ctx); err != nil {
			logger.Fatalf("revocation indexes: %v", err)
		}
		revoked = ms
		logger.Infof("revocation list: mongodb")
	default:
		revoked = revocation.NewMemoryStore()
		logger.Infof("revocation list: memory")
	}

	var covers bookhandler.CoverStore
	if cfg.MinIO.Endpoint != "" {
		s, err := storage.NewMinIOStorage(cfg.MinIO)
		if err == nil {
			err = s.EnsureBucket(ctx)
		}
		if err != nil {
			logger.Warnf("cover storage disabled: %v", err)
		} else {
			covers = s
		}
	}

	userSvc := users.NewService(userRepo, hasher)
	authSvc := auth.NewService(userSvc, tokenSvc, revoked)
	requireUser := middleware.RequireUser(authSvc)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when configured dependencies answer
	r.GET("/ready", func(c *gin.Context) {
		rctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		ready := true
		deps := map[string]bool{}
		if mongoClient != nil {
			deps["mongodb"] = mongoClient.Ping(rctx, nil) == nil
			ready = ready && deps["mongodb"]
		}
		if rdb != nil {
			deps["redis"] = rdb.Ping(rctx).Err() == nil
			ready = ready && deps["redis"]
		}
		deps["covers"] = covers != nil
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handlers.NewAuthHandler(authSvc).Register(r, requireUser)
	bookhandler.RegisterBookRoutes(r, bookSvc, covers, requireUser)
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
		logger.Infof("starting bookstore API on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
