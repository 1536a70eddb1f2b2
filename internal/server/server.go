package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/extractkit/invoice-extraction-service/internal/config"
	"github.com/extractkit/invoice-extraction-service/internal/handler"
	"github.com/extractkit/invoice-extraction-service/internal/middleware"
	"github.com/extractkit/invoice-extraction-service/internal/service"
)

// Server represents the HTTP server for the invoice extraction service
type Server struct {
	router            *gin.Engine
	httpServer        *http.Server
	extractionHandler *handler.ExtractionHandler
	extractor         service.FileExtractor
	config            *config.Config
}

// NewServer creates and configures a new server instance
func NewServer(cfg *config.Config) *Server {
	// Create router
	router := gin.Default()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestResponseLogger(middleware.LoggerConfig{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
	}))

	// Create server
	server := &Server{
		router: router,
		config: cfg,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}

	// Configure routes
	server.setupRoutes()

	return server
}

// SetExtractionHandler sets the extraction handler and registers its routes
func (s *Server) SetExtractionHandler(extractionHandler *handler.ExtractionHandler) {
	s.extractionHandler = extractionHandler
	extractionHandler.RegisterRoutes(s.router)
}

// SetExtractor sets the extraction service so it is shut down with the server
func (s *Server) SetExtractor(extractor service.FileExtractor) {
	s.extractor = extractor
}

// GetRouter returns the gin router instance
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// setupRoutes configures the application-level routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Service information endpoint
	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "invoice-extraction-service",
			"endpoints": gin.H{
				"upload":      "POST /api/upload",
				"extractions": "GET /api/extractions",
				"health":      "GET /health",
				"docs":        "GET /api-docs/index.html",
			},
		})
	})

	// API documentation endpoints
	// Access the Swagger UI at http://localhost:8080/api-docs/index.html
	swaggerHandler := ginSwagger.WrapHandler(swaggerFiles.Handler)
	s.router.GET("/api-docs/*any", swaggerHandler)

	s.router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api-docs/index.html")
	})
}

// Start begins listening for requests and handles graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("Server listening on port %d", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down server...")

	return s.Shutdown()
}

// Shutdown gracefully stops the server and the extraction worker pool.
// In-flight requests are drained before the pool closes; a request still
// entering the pool during the drain must get its response envelope.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	if s.extractor != nil {
		s.extractor.Shutdown()
	}

	log.Println("Server exited gracefully")
	return nil
}
