// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"recruiting-wizard/internal/common/config"
	"recruiting-wizard/internal/common/logger"
	"recruiting-wizard/internal/common/storage"
	"recruiting-wizard/internal/records"
	"recruiting-wizard/internal/wizard/controller"
)

// ApplicationDirectory is the slice of the records repository the admin API
// needs.
type ApplicationDirectory interface {
	List(ctx context.Context, archived *bool) ([]*records.ApplicationRecord, error)
	GetByID(ctx context.Context, id string) (*records.ApplicationRecord, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetArchived(ctx context.Context, id string, archived bool) error
	Delete(ctx context.Context, id string) error
	GetStats(ctx context.Context) (*records.Stats, error)
}

// Server exposes the wizard session API to candidates and the applications
// API to authenticated admins.
type Server struct {
	wizard    *controller.Controller
	directory ApplicationDirectory
	blobs     storage.BlobStore
	cfg       config.ServerConfig
	signedTTL time.Duration
	log       logger.Logger
}

func New(
	wizard *controller.Controller,
	directory ApplicationDirectory,
	blobs storage.BlobStore,
	cfg config.ServerConfig,
	signedTTL time.Duration,
	log logger.Logger,
) *Server {
	return &Server{
		wizard:    wizard,
		directory: directory,
		blobs:     blobs,
		cfg:       cfg,
		signedTTL: signedTTL,
		log:       log,
	}
}

// Router builds the full route tree.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	corsCfg := cors.DefaultConfig()
	if len(s.cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = s.cfg.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	sessions := api.Group("/sessions")
	{
		sessions.POST("", s.createSession)
		sessions.GET("/:id", s.getSession)
		sessions.POST("/:id/intro", s.updateIntro)
		sessions.PATCH("/:id/mission", s.updateMission)
		sessions.PATCH("/:id/outcomes/:key", s.updateOutcome)
		sessions.PATCH("/:id/competencies/:index", s.updateCompetency)
		sessions.PATCH("/:id/personal-info", s.updatePersonalInfo)
		sessions.POST("/:id/files", s.addDocuments)
		sessions.DELETE("/:id/files/:name", s.removeDocument)
		sessions.POST("/:id/photo", s.setPhoto)
		sessions.DELETE("/:id/photo", s.removePhoto)
		sessions.POST("/:id/next", s.next)
		sessions.POST("/:id/back", s.back)
		sessions.POST("/:id/modal/close", s.closeModal)
		sessions.POST("/:id/submit", s.submit)
	}

	admin := api.Group("/admin", s.adminAuth())
	{
		admin.GET("/applications", s.listApplications)
		admin.GET("/applications/:id", s.getApplication)
		admin.PATCH("/applications/:id/status", s.updateApplicationStatus)
		admin.POST("/applications/:id/archive", s.archiveApplication)
		admin.POST("/applications/:id/unarchive", s.unarchiveApplication)
		admin.DELETE("/applications/:id", s.deleteApplication)
		admin.GET("/stats", s.getStats)
		admin.GET("/files/signed-url", s.signedURL)
	}

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request handled", map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}

// adminAuth guards the admin group with a static bearer token.
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.AdminToken == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "admin API is not configured",
			})
			return
		}
		if c.GetHeader("Authorization") != "Bearer "+s.cfg.AdminToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or missing admin token",
			})
			return
		}
		c.Next()
	}
}
