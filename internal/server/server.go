// Package server provides the HTTP layer: the agent endpoint and the CRUD
// endpoints over the transit entities.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/movi-ai/movi/internal/agent"
	"github.com/movi-ai/movi/internal/store"
)

// Server wires the gin engine, the action controller and the store.
type Server struct {
	engine     *gin.Engine
	controller *agent.Controller
	store      *store.Store
}

// New creates a server with all routes registered.
func New(controller *agent.Controller, s *store.Store) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	srv := &Server{
		engine:     engine,
		controller: controller,
		store:      s,
	}
	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying gin engine (used by tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP listener.
func (s *Server) Run(addr string) error {
	slog.Info("starting server", "addr", addr)
	return s.engine.Run(addr)
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/invoke_agent", s.handleInvokeAgent)

	s.engine.GET("/stops", s.handleListStops)
	s.engine.POST("/stops", s.handleCreateStop)
	s.engine.GET("/stops/:id", s.handleGetStop)
	s.engine.GET("/paths", s.handleListPaths)
	s.engine.POST("/paths", s.handleCreatePath)
	s.engine.GET("/paths/:id", s.handleGetPath)
	s.engine.GET("/routes", s.handleListRoutes)
	s.engine.POST("/routes", s.handleCreateRoute)
	s.engine.GET("/routes/:id", s.handleGetRoute)
	s.engine.GET("/vehicles", s.handleListVehicles)
	s.engine.POST("/vehicles", s.handleCreateVehicle)
	s.engine.GET("/vehicles/:id", s.handleGetVehicle)
	s.engine.GET("/drivers", s.handleListDrivers)
	s.engine.POST("/drivers", s.handleCreateDriver)
	s.engine.GET("/drivers/:id", s.handleGetDriver)
	s.engine.GET("/trips", s.handleListTrips)
	s.engine.POST("/trips", s.handleCreateTrip)
	s.engine.GET("/trips/:id", s.handleGetTrip)
	s.engine.GET("/deployments", s.handleListDeployments)
	s.engine.POST("/deployments", s.handleCreateDeployment)
	s.engine.GET("/trips/:id/deployment", s.handleGetDeployment)
	s.engine.DELETE("/trips/:id/deployment", s.handleDeleteDeployment)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Movi Agent Backend is running."})
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "Movi Agent server is healthy."})
}

// requestLogger logs each request with method, path and status.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status())
	}
}
