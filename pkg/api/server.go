package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stratovia/cloudgate/pkg/auth"
	"github.com/stratovia/cloudgate/pkg/config"
	"github.com/stratovia/cloudgate/pkg/listing"
	"github.com/stratovia/cloudgate/pkg/machine"
	"github.com/stratovia/cloudgate/pkg/resolve"
)

// Server represents the gateway API server
type Server struct {
	config     *config.Config
	log        logrus.FieldLogger
	jwtManager *auth.JWTManager
	resolver   *resolve.Resolver
	pipeline   *listing.Pipeline
	machines   machine.Client
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer creates a new gateway server instance
func NewServer(cfg *config.Config, log logrus.FieldLogger, jwtManager *auth.JWTManager, resolver *resolve.Resolver, pipeline *listing.Pipeline, machines machine.Client) *Server {
	server := &Server{
		config:     cfg,
		log:        log.WithField("component", "api"),
		jwtManager: jwtManager,
		resolver:   resolver,
		pipeline:   pipeline,
		machines:   machines,
	}

	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes. The route patterns registered here
// are the same constants the resolver's decision policy keys on.
func (s *Server) setupRoutes() {
	s.router = gin.New()

	// Global middleware
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(s.corsMiddleware())
	s.router.Use(s.errorHandlerMiddleware())

	// Health endpoint: no auth, no pre-load.
	s.router.GET(resolve.RoutePing, s.pingHandler)

	// Tenant-scoped endpoints.
	account := s.router.Group("/:account")
	account.Use(auth.JWTMiddleware(s.jwtManager))
	account.Use(s.versionMiddleware())
	account.Use(s.preloadMiddleware())
	{
		account.GET("/packages", s.listPackagesHandler)
		account.GET("/packages/:id", s.getPackageHandler)

		account.GET("/images", s.listImagesHandler)
		account.GET("/images/:id", s.getImageHandler)
		account.GET("/images/:id/acl", s.getImageACLHandler)
		account.DELETE("/images/:id", s.deleteImageHandler)

		// Deprecated aliases for the legacy 6.5 track.
		account.GET("/datasets", s.listImagesHandler)
		account.GET("/datasets/:id", s.getImageHandler)

		account.GET("/machines", s.listMachinesHandler)
		account.POST("/machines", s.createMachineHandler)
		account.POST("/machines/:id", s.machineActionHandler)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	address := fmt.Sprintf(":%d", s.config.API.Port)
	s.log.WithField("address", address).Info("starting API server")

	s.httpServer = &http.Server{
		Addr:         address,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if s.config.API.TLSCert != "" && s.config.API.TLSKey != "" {
		if _, err := os.Stat(s.config.API.TLSCert); err != nil {
			return fmt.Errorf("TLS certificate file error: %w", err)
		}
		if _, err := os.Stat(s.config.API.TLSKey); err != nil {
			return fmt.Errorf("TLS key file error: %w", err)
		}
		return s.httpServer.ListenAndServeTLS(s.config.API.TLSCert, s.config.API.TLSKey)
	}

	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// GetRouter returns the gin router (useful for testing)
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) pingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ping": "pong"})
}
