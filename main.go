package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postboard/postboard/handlers"
	"github.com/postboard/postboard/internal/cache"
	"github.com/postboard/postboard/internal/config"
	"github.com/postboard/postboard/internal/database"
	"github.com/postboard/postboard/internal/post/repository"
	"github.com/postboard/postboard/internal/post/service"
	"github.com/postboard/postboard/internal/storage"
	"github.com/postboard/postboard/internal/tokens"
	"github.com/postboard/postboard/internal/users"
	"github.com/postboard/postboard/pkg/logger"
	"github.com/postboard/postboard/pkg/metrics"
	"github.com/postboard/postboard/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v storage=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Storage.Endpoint != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	codec, err := tokens.NewCodec(cfg.JWT.Secret)
	if err != nil {
		logger.Fatalf("token codec: %v", err)
	}

	var postCache *cache.PostCache
	if addr := cfg.Redis.Addr(); addr != "" {
		rc := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rc.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis unavailable at %s, post cache disabled: %v", addr, err)
			_ = rc.Close()
		} else {
			defer rc.Close()
			postCache = cache.NewPostCache(rc, "", cfg.Redis.CacheTTL)
			logger.Infof("post cache enabled on %s (ttl=%s)", addr, cfg.Redis.CacheTTL)
		}
	}

	var userRepo users.UserRepository = users.NewMemoryUserRepository()
	var postRepo repository.Repository = repository.NewMemoryRepo()
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		mongoClient = connectMongo(ctx, cfg.MongoDB)
		if mongoClient != nil {
			defer func() { _ = mongoClient.Disconnect(context.Background()) }()
			db := mongoClient.Database(cfg.MongoDB.Database)
			userRepo = users.NewMongoUserRepository(ctx, db.Collection("users"))
			postRepo = repository.NewMongoRepo(ctx, db.Collection("posts"))
		}
	}
	if mongoClient == nil {
		logger.Warn("using in-memory stores; data is lost on restart")
	}

	userSvc := users.NewService(userRepo)
	var postSvc service.Service
	if postCache != nil {
		postSvc = service.NewService(postRepo, userSvc, postCache)
	} else {
		postSvc = service.NewService(postRepo, userSvc, nil)
	}

	var images *storage.ImageStore
	if cfg.Storage.Endpoint != "" {
		images, err = storage.NewImageStore(ctx, storage.Config{
			Endpoint:   cfg.Storage.Endpoint,
			AccessKey:  cfg.Storage.AccessKey,
			SecretKey:  cfg.Storage.SecretKey,
			UseSSL:     cfg.Storage.UseSSL,
			Bucket:     cfg.Storage.Bucket,
			PresignTTL: cfg.Storage.PresignTTL,
		})
		if err != nil {
			logger.Warnf("image storage unavailable, uploads disabled: %v", err)
			images = nil
		}
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(cors(), gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		rctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		ready := true
		deps := gin.H{"store": "memory", "cache": "disabled", "storage": "disabled"}
		if mongoClient != nil {
			deps["store"] = "mongodb"
			if err := mongoClient.Ping(rctx, nil); err != nil {
				deps["store"] = "unreachable"
				ready = false
			}
		}
		if postCache != nil {
			deps["cache"] = "redis"
			if err := postCache.Ping(rctx); err != nil {
				// cache is optional; reads fall through to the store
				deps["cache"] = "unreachable"
			}
		}
		if images != nil {
			deps["storage"] = "minio"
			if err := images.Ping(rctx); err != nil {
				deps["storage"] = "unreachable"
			}
		}
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	gate := middleware.AuthMiddleware(codec)
	api := r.Group("/api")
	handlers.NewAuthHandler(codec, userSvc, cfg.JWT.TTL).Register(api, gate)
	handlers.NewPostHandler(postSvc).Register(api, gate)
	if images != nil {
		handlers.NewImageHandler(images).Register(api, gate)
	} else {
		logger.Warn("image upload route not registered: storage is not configured")
	}
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
		logger.Infof("postboard listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown: %v", err)
	}
}

// connectMongo retries with backoff to tolerate startup races. It returns nil
// when every attempt fails.
func connectMongo(ctx context.Context, cfg config.MongoDBConfig) *mongo.Client {
	const maxAttempts = 5
	backoff := time.Second
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err := database.ConnectMongo(ctx, cfg.URI, cfg.Timeout)
		if err == nil {
			logger.Infof("connected to MongoDB database %q", cfg.Database)
			return client
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil
			}
			backoff *= 2
		}
	}
	return nil
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, "+middleware.TokenHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
