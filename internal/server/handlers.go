package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/movi-ai/movi/internal/agent"
	apperrors "github.com/movi-ai/movi/internal/errors"
	"github.com/movi-ai/movi/internal/model"
	"github.com/movi-ai/movi/internal/store"
)

// fallbackReply is the only thing the user sees when a turn fails.
// Internals stay in the logs.
const fallbackReply = "I'm sorry, I encountered an internal error and couldn't complete your request. Please try again."

// chatMessage is one entry of the client-side transcript.
type chatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content"`
}

// invokeAgentRequest is the body of POST /invoke_agent. The final entry
// of Messages is the new user message; everything before it is history.
type invokeAgentRequest struct {
	Messages    []chatMessage `json:"messages" binding:"required,min=1"`
	CurrentPage string        `json:"currentPage"`
	Image       string        `json:"image"`
}

// invokeAgentResponse mirrors a single assistant chat message.
type invokeAgentResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (s *Server) handleInvokeAgent(c *gin.Context) {
	var req invokeAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	last := req.Messages[len(req.Messages)-1]
	if last.Role != model.RoleUser {
		c.JSON(http.StatusBadRequest, gin.H{"error": "last message must have role 'user'"})
		return
	}

	history := make([]model.Message, 0, len(req.Messages)-1)
	for _, m := range req.Messages[:len(req.Messages)-1] {
		switch m.Role {
		case model.RoleUser, model.RoleAssistant:
			history = append(history, model.Message{
				Role:    m.Role,
				Content: m.Content,
			})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported message role: " + m.Role})
			return
		}
	}

	conv := agent.NewConversation(history, last.Content, req.CurrentPage, req.Image)
	reply, err := s.controller.Turn(c.Request.Context(), conv)
	if err != nil {
		slog.Error("agent turn failed", "error", err, "category", apperrors.GetCategory(err))
		c.JSON(http.StatusInternalServerError, invokeAgentResponse{
			Role:    model.RoleAssistant,
			Content: fallbackReply,
		})
		return
	}

	c.JSON(http.StatusOK, invokeAgentResponse{
		Role:    reply.Role,
		Content: reply.Content,
	})
}

// ------------------------------------------------------------
// CRUD handlers
// ------------------------------------------------------------

// pathID parses the :id path parameter. Writes the 400 response itself
// on a malformed value.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// respondEntity writes a fetched record, or 404 when the store returned
// nil for the id.
func respondEntity[T any](c *gin.Context, record *T, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

type createStopRequest struct {
	Name      string  `json:"name" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

func (s *Server) handleListStops(c *gin.Context) {
	stops, err := s.store.ListStops(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stops)
}

func (s *Server) handleCreateStop(c *gin.Context) {
	var req createStopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stop, err := s.store.CreateStop(c.Request.Context(), req.Name, req.Latitude, req.Longitude)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stop)
}

func (s *Server) handleGetStop(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	stop, err := s.store.GetStopByID(c.Request.Context(), id)
	respondEntity(c, stop, err)
}

type createPathRequest struct {
	Name    string  `json:"name" binding:"required"`
	StopIDs []int64 `json:"stop_ids" binding:"required,min=2"`
}

func (s *Server) handleListPaths(c *gin.Context) {
	paths, err := s.store.ListPaths(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paths)
}

func (s *Server) handleCreatePath(c *gin.Context) {
	var req createPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	path, err := s.store.CreatePath(c.Request.Context(), req.Name, req.StopIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, path)
}

func (s *Server) handleGetPath(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	path, err := s.store.GetPathByID(c.Request.Context(), id)
	respondEntity(c, path, err)
}

type createRouteRequest struct {
	PathID      int64  `json:"path_id" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	ShiftTime   string `json:"shift_time" binding:"required"`
	Direction   string `json:"direction"`
	StartPoint  string `json:"start_point"`
	EndPoint    string `json:"end_point"`
}

func (s *Server) handleListRoutes(c *gin.Context) {
	routes, err := s.store.ListRoutes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

func (s *Server) handleCreateRoute(c *gin.Context) {
	var req createRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	route, err := s.store.CreateRoute(c.Request.Context(), &store.Route{
		PathID:      req.PathID,
		DisplayName: req.DisplayName,
		ShiftTime:   req.ShiftTime,
		Direction:   req.Direction,
		StartPoint:  req.StartPoint,
		EndPoint:    req.EndPoint,
		Status:      store.RouteStatusActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, route)
}

func (s *Server) handleGetRoute(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	route, err := s.store.GetRouteByID(c.Request.Context(), id)
	respondEntity(c, route, err)
}

type createVehicleRequest struct {
	LicensePlate string `json:"license_plate" binding:"required"`
	Type         string `json:"type"`
	Capacity     int    `json:"capacity" binding:"required"`
}

func (s *Server) handleListVehicles(c *gin.Context) {
	vehicles, err := s.store.ListVehicles(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func (s *Server) handleCreateVehicle(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicle, err := s.store.CreateVehicle(c.Request.Context(), req.LicensePlate, req.Type, req.Capacity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

func (s *Server) handleGetVehicle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	vehicle, err := s.store.GetVehicleByID(c.Request.Context(), id)
	respondEntity(c, vehicle, err)
}

type createDriverRequest struct {
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
}

func (s *Server) handleListDrivers(c *gin.Context) {
	drivers, err := s.store.ListDrivers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

func (s *Server) handleCreateDriver(c *gin.Context) {
	var req createDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	driver, err := s.store.CreateDriver(c.Request.Context(), req.Name, req.PhoneNumber)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, driver)
}

func (s *Server) handleGetDriver(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	driver, err := s.store.GetDriverByID(c.Request.Context(), id)
	respondEntity(c, driver, err)
}

type createTripRequest struct {
	RouteID     int64  `json:"route_id" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

func (s *Server) handleListTrips(c *gin.Context) {
	trips, err := s.store.ListTrips(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

func (s *Server) handleCreateTrip(c *gin.Context) {
	var req createTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	trip, err := s.store.CreateTrip(c.Request.Context(), req.RouteID, req.DisplayName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

func (s *Server) handleGetTrip(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	trip, err := s.store.GetTripByID(c.Request.Context(), id)
	respondEntity(c, trip, err)
}

type createDeploymentRequest struct {
	TripID    int64 `json:"trip_id" binding:"required"`
	VehicleID int64 `json:"vehicle_id" binding:"required"`
	DriverID  int64 `json:"driver_id" binding:"required"`
}

func (s *Server) handleListDeployments(c *gin.Context) {
	deployments, err := s.store.ListDeployments(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployments)
}

func (s *Server) handleCreateDeployment(c *gin.Context) {
	var req createDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deployment, err := s.store.CreateDeployment(c.Request.Context(), req.TripID, req.VehicleID, req.DriverID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deployment)
}

func (s *Server) handleGetDeployment(c *gin.Context) {
	tripID, ok := pathID(c)
	if !ok {
		return
	}
	deployment, err := s.store.GetDeploymentByTripID(c.Request.Context(), tripID)
	respondEntity(c, deployment, err)
}

func (s *Server) handleDeleteDeployment(c *gin.Context) {
	tripID, ok := pathID(c)
	if !ok {
		return
	}
	removed, err := s.store.DeleteDeploymentByTripID(c.Request.Context(), tripID)
	if err != nil {
		writeError(c, err)
		return
	}
	if removed == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip has no deployment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": removed})
}

// writeError maps an application error onto an HTTP status.
func writeError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		slog.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.CodeEntityNotFound:
		status = http.StatusNotFound
	case apperrors.CodeValidationFailed:
		status = http.StatusBadRequest
	case apperrors.CodeConflict:
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "code", appErr.Code, "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": appErr.Message})
}
