package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/sbilibin2017/memeshare/docs"

	"github.com/sbilibin2017/memeshare/internal/db"
	"github.com/sbilibin2017/memeshare/internal/facades"
	"github.com/sbilibin2017/memeshare/internal/handlers"
	"github.com/sbilibin2017/memeshare/internal/jwt"
	"github.com/sbilibin2017/memeshare/internal/logger"
	"github.com/sbilibin2017/memeshare/internal/middlewares"
	"github.com/sbilibin2017/memeshare/internal/repositories"
	"github.com/sbilibin2017/memeshare/internal/services"
)

// connectDB opens PostgreSQL, retrying until it answers or ctx is done.
func connectDB(ctx context.Context, cfg *config, onRetry func(int, error)) (*sqlx.DB, error) {
	logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.PGHost, "port", cfg.PGPort, "db", cfg.PGDB)
	return db.Connect(ctx, "pgx", cfg.dsn(), db.Options{
		MaxOpenConns: cfg.PGMaxOpenConns,
		MaxIdleConns: cfg.PGMaxIdleConns,
		RetryDelay:   cfg.DBRetryDelay,
		OnRetry:      onRetry,
	})
}

// migrate applies the schema migrations and returns.
func migrate(ctx context.Context, cfg *config) error {
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	conn, err := connectDB(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	return db.MigrationsUp(conn)
}

// newMediaHost returns the upload backend selected by MEDIA_PROVIDER.
func newMediaHost(cfg *config) (services.MediaHost, error) {
	switch cfg.MediaProvider {
	case "cloudinary":
		host, err := facades.NewCloudinaryFacadeFromParams(
			cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			return nil, err
		}
		return host, nil
	case "s3":
		host, err := facades.NewS3FacadeFromRegion(cfg.S3Region, cfg.S3Bucket)
		if err != nil {
			return nil, err
		}
		return host, nil
	}
	return nil, fmt.Errorf("unknown media provider %q", cfg.MediaProvider)
}

// newKafkaWriter returns a post event writer, or nil when no brokers are configured.
func newKafkaWriter(cfg *config) *kafka.Writer {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaPostEventsTopic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// run initializes the logger, gRPC health server, database, Redis, Kafka
// writer and HTTP server. It sets up routes and handles graceful shutdown.
func run(ctx context.Context, cfg *config) error {
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	logger.Log.Infow("Logger initialized", "level", cfg.LogLevel)

	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// gRPC health server, NOT_SERVING until the database is up
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	grpcSrv := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.AppHost, cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("gRPC listen failed: %w", err)
	}
	go func() {
		logger.Log.Infow("gRPC health server listening", "addr", lis.Addr().String())
		if err := grpcSrv.Serve(lis); err != nil {
			logger.Log.Errorw("gRPC server stopped", "error", err)
		}
	}()
	defer func() {
		healthSrv.Shutdown()
		grpcSrv.GracefulStop()
		logger.Log.Info("gRPC server stopped gracefully")
	}()

	// Connect to PostgreSQL
	conn, err := connectDB(ctxShutdown, cfg, func(int, error) {
		healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	})
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer conn.Close()

	if err := db.MigrationsUp(conn); err != nil {
		return err
	}
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err := rdb.Ping(ctxShutdown).Err(); err != nil {
		logger.Log.Warnw("Redis unavailable, profiles are served from the database", "error", err)
	}
	defer rdb.Close()

	// Kafka writer for post events
	var postEvents services.KafkaWriter
	if w := newKafkaWriter(cfg); w != nil {
		defer w.Close()
		postEvents = w
	} else {
		logger.Log.Infow("KAFKA_BROKERS not set, post events are not published")
	}

	mediaHost, err := newMediaHost(cfg)
	if err != nil {
		return err
	}

	tokens := jwt.New(jwt.WithSecretKey(cfg.JWTSecretKey), jwt.WithExpiration(cfg.JWTExp))

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(conn)
	userWriteRepo := repositories.NewUserWriteRepository(conn)
	postReadRepo := repositories.NewPostReadRepository(conn)
	postWriteRepo := repositories.NewPostWriteRepository(conn, middlewares.GetTxFromContext)
	profileCache := repositories.NewProfileCacheRepository(rdb, cfg.RedisExp)

	// Initialize services
	mediaService := services.NewMediaService(mediaHost, cfg.UploadDir, cfg.MediaUploadTimeout)
	authService := services.NewAuthService(userReadRepo, userWriteRepo, tokens, mediaService)
	postService := services.NewPostService(postReadRepo, postWriteRepo, mediaService, postEvents,
		services.WithAfterCommit(middlewares.AfterCommit))
	userService := services.NewUserService(userReadRepo, userWriteRepo, mediaService, profileCache)

	router := newRouter(routes{
		signup:     handlers.NewSignupHandler(authService),
		login:      handlers.NewLoginHandler(authService),
		listPosts:  handlers.NewPostListHandler(postService),
		getPost:    handlers.NewPostGetHandler(postService),
		createPost: handlers.NewPostCreateHandler(postService),
		updatePost: handlers.NewPostUpdateHandler(postService),
		deletePost: handlers.NewPostDeleteHandler(postService),
		likePost:   handlers.NewPostLikeHandler(postService),
		listUsers:  handlers.NewUserListHandler(userService),
		getUser:    handlers.NewUserGetHandler(userService),
		updateUser: handlers.NewUserUpdateHandler(userService),
		deleteUser: handlers.NewUserDeleteHandler(userService),
		auth:       middlewares.AuthMiddleware(tokens),
		tx:         middlewares.TxMiddleware(conn),
		swaggerURL: fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort),
		staticDir:  cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
