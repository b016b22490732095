package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interview-tayari/config"
	_ "interview-tayari/docs" // Important for Swagger
	"interview-tayari/internal/delivery/http/middleware"
	v1 "interview-tayari/internal/delivery/http/v1"
	"interview-tayari/internal/delivery/http/web"
	"interview-tayari/internal/domain"
	"interview-tayari/internal/listing"
	"interview-tayari/internal/repository/postgres"
	supabaserepo "interview-tayari/internal/repository/supabase"
	"interview-tayari/internal/session"
	"interview-tayari/internal/usecase"
	"interview-tayari/migrations"
	"interview-tayari/pkg/auth"
	"interview-tayari/pkg/database"
	"interview-tayari/pkg/logger"
	"interview-tayari/pkg/objectstore"
	"interview-tayari/pkg/redis"
	"interview-tayari/pkg/security"
	"interview-tayari/pkg/security/antivirus"
	"interview-tayari/pkg/supabase"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Interview Tayari API
// @version         1.0
// @description     Share and browse verified interview experiences.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	if err := logger.Init(cfg.LogLevel, cfg.AppEnv); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Log.Infow("Starting interview-tayari", "port", cfg.Port, "env", cfg.AppEnv)

	ctx := context.Background()

	// 3. Setup Supabase
	client, err := supabase.New(supabase.Config{
		URL:     cfg.SupabaseUrl,
		Key:     cfg.SupabaseKey,
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		logger.Log.Fatalw("Failed to create Supabase client", "error", err)
	}
	gateway := supabaserepo.NewAuthGateway(client)

	// 4. Setup Database (optional)
	var dbPool *pgxpool.Pool
	if cfg.DBUrl != "" {
		if err := database.Migrate(cfg.DBUrl, migrations.FS); err != nil {
			logger.Log.Fatalw("Failed to run migrations", "error", err)
		}
		dbPool, err = database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Fatalw("Failed to connect to database", "error", err)
		}
		defer dbPool.Close()
	}

	// 5. Setup Redis (optional)
	var redisClient *goredis.Client
	if cfg.UpstashRedisURL != "" {
		redisClient, err = redis.Connect(ctx, redis.Config{
			URL:      cfg.UpstashRedisURL,
			Password: cfg.UpstashRedisPassword,
		})
		if err != nil {
			logger.Log.Warnw("Redis unavailable, using in-memory sessions and limits", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// 6. Setup Repositories
	var experienceRepo domain.ExperienceRepository
	if dbPool != nil {
		experienceRepo = postgres.NewExperienceRepository(dbPool)
	} else {
		experienceRepo = supabaserepo.NewExperienceRepository(client)
	}

	// 7. Setup Object Storage
	var store domain.ObjectStore
	if cfg.S3Enabled() {
		s3Client, err := objectstore.NewS3Client(ctx, objectstore.S3Config{
			Provider:        objectstore.S3Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
		})
		if err != nil {
			logger.Log.Fatalw("Failed to create S3 client", "error", err)
		}
		store = objectstore.NewS3Store(s3Client, cfg.S3Bucket)
	} else {
		store = objectstore.NewSupabaseStore(client, cfg.SupabaseStorageBucket, domain.AccessTokenFrom)
	}

	// 8. Setup Sessions
	var sessionStore session.Store = session.NewMemoryStore()
	if redisClient != nil {
		sessionStore = session.NewRedisStore(redisClient)
	}
	holder := session.NewHolder(gateway, gateway, sessionStore, cfg.SessionTTL)
	holder.Start()
	defer holder.Close()

	drafts := session.NewDraftStore()

	// 9. Setup UseCases
	listingUC := usecase.NewListingUsecase(experienceRepo)
	var scanner usecase.FileScanner
	var clamav *antivirus.ClamAVScanner
	if cfg.ClamAVAddress != "" {
		clamav = antivirus.NewClamAVScanner(cfg.ClamAVAddress, cfg.ClamAVTimeout)
		scanner = clamav
	}
	submissionUC := usecase.NewSubmissionUsecase(experienceRepo, store, security.NewUploadLimiter(redisClient, cfg.UploadDailyLimit), scanner)
	authUC := usecase.NewAuthUsecase(gateway, security.NewLoginTracker(redisClient, security.DefaultLoginTrackerConfig()))
	dashboardUC := usecase.NewDashboardUsecase(experienceRepo)
	exportUC := usecase.NewExportUsecase(listingUC)

	listings := listing.NewRegistry(listingUC)
	holder.OnEnd(func(sessionID string) {
		listings.Drop(sessionID)
		_ = drafts.Delete(context.Background(), sessionID)
	})

	checks := map[string]usecase.HealthCheck{}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redis.HealthCheck(ctx, redisClient) }
	}
	if dbPool != nil {
		checks["database"] = dbPool.Ping
	}
	if clamav != nil {
		checks["clamav"] = clamav.Ping
	}
	healthUC := usecase.NewHealthUsecase(checks)

	// 10. Setup Auth Verifier (JWKS with HS256 fallback)
	verifier := auth.NewVerifier(cfg.SupabaseJWTSecret, auth.NewProvider(cfg.JWKSURL()))

	// 11. Setup Pages
	pages, err := web.NewHandler(web.Deps{
		Sessions:     holder,
		AuthUC:       authUC,
		SubmissionUC: submissionUC,
		ListingUC:    listingUC,
		DashboardUC:  dashboardUC,
		Listings:     listings,
		Drafts:       drafts,
		Cookie: middleware.CookieConfig{
			Name:   cfg.SessionCookieName,
			TTL:    cfg.SessionTTL,
			Secure: cfg.CookieSecure,
		},
	})
	if err != nil {
		logger.Log.Fatalw("Failed to load page templates", "error", err)
	}

	// 12. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:       authUC,
		SubmissionUC: submissionUC,
		ListingUC:    listingUC,
		ExportUC:     exportUC,
		DashboardUC:  dashboardUC,
		HealthUC:     healthUC,
		Verifier:     verifier,
		Redis:        redisClient,
		Pages:        pages,
		Config:       cfg,
	})

	// 13. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Errorw("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
