package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	feeapp "github.com/schoolms/backend/internal/application/fee"
	gradingapp "github.com/schoolms/backend/internal/application/grading"
	identityapp "github.com/schoolms/backend/internal/application/identity"
	learnerapp "github.com/schoolms/backend/internal/application/learner"
	reportapp "github.com/schoolms/backend/internal/application/report"
	"github.com/schoolms/backend/internal/infrastructure/auth"
	"github.com/schoolms/backend/internal/infrastructure/cache"
	"github.com/schoolms/backend/internal/infrastructure/config"
	"github.com/schoolms/backend/internal/infrastructure/event"
	"github.com/schoolms/backend/internal/infrastructure/logger"
	"github.com/schoolms/backend/internal/infrastructure/persistence"
	"github.com/schoolms/backend/internal/infrastructure/printing"
	"github.com/schoolms/backend/internal/infrastructure/storage"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
	"github.com/schoolms/backend/internal/interfaces/http/handler"
	"github.com/schoolms/backend/internal/interfaces/http/middleware"
	"github.com/schoolms/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/schoolms/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			School Management API
//	@version		1.0
//	@description	Multi-tenant school management: learners, attendance, fees, payments, CBC grading and reports.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()
	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}

	// Telemetry logs through a bootstrap logger; the final logger tees into
	// the OTLP log bridge it creates.
	bootLog := logger.New(logCfg)
	tel, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.App.Name, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log := logger.New(logCfg, tel.Logs.Core())
	defer func() { _ = log.Sync() }()

	log.Info("Starting school backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentDB(db.DB, telemetry.DBConfig{
		TraceEnabled: cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:   cfg.Telemetry.DBLogFullSQL,
		DBName:       cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	if _, err := telemetry.RegisterPoolMetrics(db.DB, tel.Meter.Meter("schoolms/db")); err != nil {
		log.Warn("Failed to register pool metrics", zap.Error(err))
	}
	log.Info("Database connected successfully")

	redisClient := connectRedis(ctx, cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	idempotencyStore, err := cache.NewIdempotencyStore(cfg.Idempotency, redisOrNil(redisClient), log)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	var revocation auth.RevocationList = auth.NewInMemoryRevocationList()
	if redisClient != nil {
		revocation = auth.NewRedisRevocationList(redisClient)
	}

	objectStore, err := storage.New(cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	renderer := printing.NewRenderer(cfg.Printing, log)
	defer func() { _ = renderer.Close() }()

	eventBus := event.NewInMemoryEventBus(log, event.WithHandlerTimeout(cfg.Event.HandlerTimeout))

	// Repositories
	schoolRepo := persistence.NewGormSchoolRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	learnerRepo := persistence.NewGormLearnerRepository(db.DB)
	attendanceRepo := persistence.NewGormAttendanceRepository(db.DB)
	feeTypeRepo := persistence.NewGormFeeTypeRepository(db.DB)
	structureRepo := persistence.NewGormFeeStructureRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	gradingSystemRepo := persistence.NewGormGradingSystemRepository(db.DB)
	aggregationRepo := persistence.NewGormAggregationConfigRepository(db.DB)
	scoreRepo := persistence.NewGormScoreRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(schoolRepo, userRepo, jwtService,
		identityapp.WithRevocationList(revocation),
		identityapp.WithAuthLogger(log),
	)
	schoolService := identityapp.NewSchoolService(schoolRepo, cfg.App.BootstrapToken,
		identityapp.WithSchoolEventPublisher(eventBus),
		identityapp.WithSchoolLogger(log),
	)
	userService := identityapp.NewUserService(userRepo, schoolRepo,
		identityapp.WithUserEventPublisher(eventBus),
		identityapp.WithPasswordChangeRevocation(revocation, cfg.JWT.RefreshTokenExpiration),
		identityapp.WithUserLogger(log),
	)

	// Learners
	learnerService := learnerapp.NewLearnerService(learnerRepo,
		learnerapp.WithLearnerEventPublisher(eventBus),
		learnerapp.WithLearnerLogger(log),
	)
	attendanceService := learnerapp.NewAttendanceService(learnerRepo, attendanceRepo)

	// Fees
	feeTypeService := feeapp.NewFeeTypeService(feeTypeRepo)
	structureService := feeapp.NewFeeStructureService(structureRepo, feeTypeRepo, invoiceRepo)
	invoiceService := feeapp.NewInvoiceService(invoiceRepo, paymentRepo, structureRepo, learnerRepo, schoolRepo,
		feeapp.WithInvoiceEventPublisher(eventBus),
		feeapp.WithInvoiceMetrics(tel.Business),
		feeapp.WithInvoiceLogger(log),
	)
	paymentService := feeapp.NewPaymentService(invoiceRepo, paymentRepo,
		feeapp.WithIdempotencyStore(idempotencyStore, cfg.Idempotency.TTL),
		feeapp.WithPaymentEventPublisher(eventBus),
		feeapp.WithPaymentMetrics(tel.Business),
		feeapp.WithPaymentLogger(log),
	)
	receiptService := feeapp.NewReceiptService(paymentRepo, invoiceRepo, learnerRepo, schoolRepo, userRepo, renderer, objectStore,
		feeapp.WithReceiptLinkExpiry(cfg.Storage.PresignExpiry),
		feeapp.WithReceiptMetrics(tel.Business),
		feeapp.WithReceiptLogger(log),
	)

	// Grading
	gradingService := gradingapp.NewGradingService(gradingSystemRepo)
	aggregationService := gradingapp.NewAggregationConfigService(aggregationRepo)
	scoreService := gradingapp.NewScoreService(scoreRepo, aggregationRepo, gradingSystemRepo, learnerRepo,
		gradingapp.WithScoreLogger(log),
	)

	// Reports
	dashboardService := reportapp.NewDashboardService(reportRepo)
	var exports handler.ExportService
	if cfg.Storage.Enabled {
		exports = reportapp.NewExportService(dashboardService, objectStore,
			reportapp.WithExportLinkExpiry(cfg.Storage.PresignExpiry),
			reportapp.WithExportLogger(log),
		)
	}

	// Events
	if cfg.Printing.Enabled && cfg.Storage.Enabled && cfg.Printing.PrerenderAsync {
		prerender := feeapp.NewReceiptPrerenderHandler(receiptService, log)
		eventBus.Subscribe(event.NewIdempotentHandler(prerender, idempotencyStore, log))
		log.Info("Receipt prerendering enabled")
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access database pool", zap.Error(err))
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, sqlDB)
	if redisClient != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		School:     handler.NewSchoolHandler(schoolService),
		User:       handler.NewUserHandler(userService),
		Learner:    handler.NewLearnerHandler(learnerService, invoiceService),
		Attendance: handler.NewAttendanceHandler(attendanceService),
		Fee:        handler.NewFeeHandler(feeTypeService, structureService),
		Invoice:    handler.NewInvoiceHandler(invoiceService, paymentService, receiptService),
		Grading:    handler.NewGradingHandler(gradingService, aggregationService, scoreService),
		Report:     handler.NewReportHandler(dashboardService, exports),
		System:     systemHandler,
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order: request ID, recovery, tracing, access log, security headers,
	// CORS, body limit, rate limit, metrics
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled))
	engine.Use(logger.GinMiddleware(log))

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.IsProduction()
	engine.Use(middleware.SecureWithConfig(security))

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(cors))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	var limiters []*middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		limiters = append(limiters, limiter)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	var credentialLimit []gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		limiters = append(limiters, limiter)
		credentialLimit = append(credentialLimit, middleware.RateLimit(limiter))
	}
	defer func() {
		for _, l := range limiters {
			l.Stop()
		}
	}()

	engine.Use(middleware.HTTPMetrics(tel.Meter.Meter("schoolms/http")))

	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:       jwtService,
		Revocation:       revocation,
		SkipPaths:        router.PublicPaths(r.BasePath()),
		SkipPathPrefixes: []string{"/swagger"},
		Logger:           log,
	})

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r.Use(
		jwtMiddleware,
		middleware.TenantGuard(log),
		middleware.SpanEnricher(),
		middleware.Profiling(cfg.Telemetry.ProfilingEnabled),
	)
	r.Mount(router.Groups(handlers, credentialLimit...)...).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown incomplete", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// connectRedis returns a connected client, or nil when Redis is unreachable
// and nothing requires it
func connectRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) *redis.Client {
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err == nil {
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		return client
	}
	if cfg.Idempotency.Backend == cache.BackendRedis {
		log.Fatal("Redis is required by the idempotency backend", zap.Error(err))
	}
	log.Warn("Redis unavailable, token revocation is per instance", zap.Error(err))
	return nil
}

// redisOrNil keeps a nil *redis.Client from becoming a non-nil interface
func redisOrNil(c *redis.Client) redis.UniversalClient {
	if c == nil {
		return nil
	}
	return c
}
