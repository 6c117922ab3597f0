package router

import (
	"github.com/gin-gonic/gin"

	"luxbyte/internal/config"
	"luxbyte/internal/domain"
	"luxbyte/internal/handler"
	"luxbyte/internal/middleware"
	"luxbyte/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	manifestH *handler.ManifestHandler,
	regH *handler.RegistrationHandler,
	uploadH *handler.UploadHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/signup", authH.Signup)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	// Public manifests: clients render the requirement list before signup
	v1.GET("/activities", manifestH.ListActivities)
	v1.GET("/activities/:activity/manifest", manifestH.GetManifest)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Registration lifecycle
	regs := protected.Group("/registrations")
	regs.POST("", regH.Create)
	regs.GET("", regH.List)
	regs.GET("/:id", regH.GetByID)
	regs.POST("/:id/slots", regH.EnsureSlots)
	regs.GET("/:id/checklist", regH.GetChecklist)
	regs.POST("/:id/submit", regH.Submit)

	// Per-slot upload pipeline
	regs.POST("/:id/slots/:slot/upload", uploadH.Upload)
	regs.POST("/:id/slots/:slot/retry-persist", uploadH.RetryPersist)
	regs.DELETE("/:id/slots/:slot", uploadH.Remove)
	regs.DELETE("/:id/slots/:slot/file", uploadH.Delete)
	regs.GET("/:id/documents/:docID/url", uploadH.DownloadURL)

	// Admin review
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authSvc))
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/registrations", regH.AdminList)
	admin.GET("/registrations/export", exportH.RegistrationsXLSX)
	admin.POST("/registrations/:id/review", regH.Review)

	return r
}
