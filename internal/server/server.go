package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mkoudela/shoplens/internal/assistant"
	"github.com/mkoudela/shoplens/internal/config"
	"github.com/mkoudela/shoplens/internal/dataset"
)

type Server struct {
	router    *gin.Engine
	ds        *dataset.Dataset
	assistant assistant.Client
	cfg       *config.Config
	log       *zap.Logger

	mu       sync.Mutex
	sessions map[string]string // chat session ID -> assistant thread ID
}

// NewServer creates a new server instance
func NewServer(ds *dataset.Dataset, client assistant.Client, cfg *config.Config, log *zap.Logger) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	server := &Server{
		router:    router,
		ds:        ds,
		assistant: client,
		cfg:       cfg,
		log:       log,
		sessions:  make(map[string]string),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
		api.GET("/kpis", s.getKPIs)
		api.GET("/reports", s.listReports)
		api.GET("/reports/:name", s.getReport)
		api.GET("/rfm", s.getRFM)
		api.GET("/rfm/segments", s.getRFMSegments)
		api.GET("/plan", s.getPlanAchievement)

		chat := api.Group("/chat")
		{
			chat.POST("/sessions", s.createChatSession)
			chat.POST("/sessions/:id/messages", s.postChatMessage)
			chat.GET("/sessions/:id/messages", s.listChatMessages)
			chat.GET("/files/:id", s.getChatFile)
		}
	}
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	if len(s.ds.Orders) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "dataset is empty",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "shoplens",
		"version": "0.1.0",
		"orders":  len(s.ds.Orders),
	})
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
