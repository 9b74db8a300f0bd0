package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jokeoftheday/jotd/handlers"
	"github.com/jokeoftheday/jotd/internal/backup"
	"github.com/jokeoftheday/jotd/internal/cache"
	"github.com/jokeoftheday/jotd/internal/config"
	"github.com/jokeoftheday/jotd/internal/database"
	"github.com/jokeoftheday/jotd/internal/dedup"
	"github.com/jokeoftheday/jotd/internal/joke/repository"
	"github.com/jokeoftheday/jotd/internal/joke/service"
	"github.com/jokeoftheday/jotd/internal/oidc"
	"github.com/jokeoftheday/jotd/internal/store"
	"github.com/jokeoftheday/jotd/pkg/logger"
	"github.com/jokeoftheday/jotd/pkg/metrics"
	"github.com/jokeoftheday/jotd/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: store=%s redis=%v backup=%v", cfg.Store.Backend, cfg.Redis.Host != "", cfg.Backup.Endpoint != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS for the embed widget: the iframe loader fetches the
	// joke cross-origin. Production can front this with a stricter policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	// Redis is optional: it powers the read-through document cache and the
	// distributed rate limiter when present.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v; continuing without cache", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Backing store selection: github (production), mongo, or memory (dev).
	ctx := context.Background()
	var blobStore store.Store
	var mongoClient *mongo.Client
	switch cfg.Store.Backend {
	case "github":
		blobStore = store.NewGitHubStore(store.GitHubConfig{
			Token:  cfg.GitHub.Token,
			Owner:  cfg.GitHub.Owner,
			Repo:   cfg.GitHub.Repo,
			Path:   cfg.Store.Path,
			Branch: cfg.GitHub.Branch,
		})
	case "mongo":
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		}
		defer func() { _ = mongoClient.Disconnect(ctx) }()
		col := mongoClient.Database(cfg.MongoDB.Database).Collection("documents")
		blobStore = store.NewMongoStore(col, cfg.Store.Path)
	default:
		logger.Warnf("using in-memory store (backend=%q); data will not survive restarts", cfg.Store.Backend)
		blobStore = store.NewMemoryStore()
	}

	var docCache *cache.DocumentCache
	if redisClient != nil {
		docCache = cache.New(redisClient, "jotd:document:"+cfg.Store.Path, cfg.Redis.CacheTTL)
	}

	var archiver *backup.Archiver
	if cfg.Backup.Endpoint != "" {
		archiver, err = backup.New(backup.Config{
			Endpoint:  cfg.Backup.Endpoint,
			AccessKey: cfg.Backup.AccessKey,
			SecretKey: cfg.Backup.SecretKey,
			UseSSL:    cfg.Backup.UseSSL,
			Bucket:    cfg.Backup.Bucket,
			Prefix:    cfg.Backup.Prefix,
		})
		if err != nil {
			logger.Warnf("backup archiver disabled: %v", err)
			archiver = nil
		}
	}

	loc, err := time.LoadLocation(cfg.Jokes.Timezone)
	if err != nil {
		logger.Warnf("invalid timezone %q, falling back to UTC: %v", cfg.Jokes.Timezone, err)
		loc = time.UTC
	}

	repo := repository.New(blobStore, docCache, cfg.Store.Path)
	guard := dedup.NewGuard(dedup.DefaultThreshold)
	svc := service.New(repo, guard, archiver, loc)

	// Admin verifier: OIDC when an issuer is configured, otherwise the
	// static-secret JWT verifier. With neither, admin routes stay open —
	// acceptable only in development.
	var verifier middleware.Verifier
	if cfg.Admin.OIDCIssuer != "" && cfg.Admin.OIDCClientID != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.Admin.OIDCIssuer, cfg.Admin.OIDCClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	}
	if verifier == nil && cfg.Admin.JWTSecret != "" {
		verifier = &middleware.JWTVerifier{Secret: cfg.Admin.JWTSecret}
	}
	if verifier == nil {
		logger.Warnf("no admin verifier configured; admin routes are unauthenticated")
	}

	handlers.NewJokesHandler(svc, cfg.Jokes.DefaultRatings).Register(r, verifier)
	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{"store": blobStore != nil}
		if !deps["store"] {
			ready = false
		}
		if cfg.Redis.Host != "" {
			deps["redis"] = redisClient != nil
			if cfg.RateLimit.UseRedis && !deps["redis"] {
				ready = false
			}
		}
		status := http.StatusOK
		label := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			label = "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting joke-of-the-day service on %s (tz=%s)", addr, loc)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
