package handlers

import (
	"webflash/internal/logger"
	"webflash/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerPublicRoutes(router)
	h.registerProtectedRoutes(router)

	// Flash progress stream; session ids are unguessable uuids.
	router.GET("/ws/flash/:id", h.wsFlashProgress)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerPublicRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/config/parse", h.parseConfig)

		fw := api.Group("/firmware")
		fw.GET("/resolve", h.resolveFirmware)
		fw.GET("/legacy", h.legacyFirmware)
		fw.GET("/availability", h.availability)
		fw.GET("/changelog", h.changelog)
		fw.GET("/versions", h.versions)
		fw.GET("/updates", h.checkUpdates)
		fw.GET("/install-manifest", h.installManifest)

		api.GET("/presets", h.listPresets)
		api.GET("/presets/:name", h.getPreset)
	}
}

func (h *Handler) registerProtectedRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		api.POST("/manifest/reload", h.reloadManifest)

		flash := api.Group("/flash")
		flash.POST("", h.startFlash)
		flash.GET("/:id", h.getFlash)
		flash.DELETE("/:id", h.cancelFlash)

		api.GET("/history", h.listHistory)
		api.DELETE("/history", h.clearHistory)

		saved := api.Group("/saved-presets")
		saved.GET("", h.listSavedPresets)
		saved.POST("", h.savePreset)
		saved.DELETE("/:id", h.deleteSavedPreset)
		saved.POST("/:id/apply", h.applySavedPreset)

		api.GET("/logs", h.getLogs)
	}
}
