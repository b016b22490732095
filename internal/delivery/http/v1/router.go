package v1

import (
	"net/http"

	"interview-tayari/config"
	"interview-tayari/internal/delivery/http/middleware"
	"interview-tayari/internal/delivery/http/request"
	"interview-tayari/internal/delivery/http/response"
	"interview-tayari/internal/domain"
	"interview-tayari/internal/usecase"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Pages mounts the server-rendered pages on the engine.
type Pages interface {
	Register(r *gin.Engine)
}

type RouterDeps struct {
	AuthUC       domain.AuthUsecase
	SubmissionUC domain.SubmissionUsecase
	ListingUC    domain.ListingUsecase
	ExportUC     domain.ExportUsecase
	DashboardUC  domain.DashboardUsecase
	HealthUC     usecase.HealthUsecase
	Verifier     middleware.TokenVerifier
	Redis        *goredis.Client
	Pages        Pages
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = request.MaxMultipartMemory
	request.RegisterValidators()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.CORSAllowedOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.SupabaseUrl))
	r.Use(middleware.RateLimitMiddleware(deps.Redis, middleware.DefaultRateLimitConfig()))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		status, healthy := deps.HealthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authLimiter := middleware.RateLimitMiddleware(deps.Redis,
		middleware.AuthRateLimitConfig(deps.Config.RateLimitAuthThreshold, deps.Config.RateLimitWindow()))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier))
	{
		NewAuthHandler(v1, protected, deps.AuthUC, authLimiter)
		NewExperienceHandler(v1, protected, deps.SubmissionUC, deps.ListingUC, deps.ExportUC)
		NewDashboardHandler(protected, deps.DashboardUC)
	}

	if deps.Pages != nil {
		deps.Pages.Register(r)
	}

	return r
}
