package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tillpos/internal/till"
)

type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) syncUnavailable(c *gin.Context) bool {
	if s.engine == nil {
		c.JSON(http.StatusServiceUnavailable, APIResponse{
			Success: false,
			Message: "Remote mirror is not configured",
			Error:   string(till.ErrCodeSyncFailure),
		})
		return true
	}
	return false
}

func (s *Server) SyncStatus(c *gin.Context) {
	if s.syncUnavailable(c) {
		return
	}
	c.JSON(http.StatusOK, successResponse("Sync status retrieved successfully", s.engine.Status()))
}

func (s *Server) SyncPush(c *gin.Context) {
	if s.syncUnavailable(c) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := s.engine.PushNow(ctx, s.till.PackState()); err != nil {
		c.JSON(http.StatusBadGateway, APIResponse{
			Success: false,
			Message: err.Error(),
			Error:   string(till.ErrCodeSyncFailure),
		})
		return
	}
	c.JSON(http.StatusOK, successResponse("State pushed", nil))
}

// SyncPull fetches the remote snapshot and applies it over the local state.
// Remote wins on pull; that is the point of asking for one.
func (s *Server) SyncPull(c *gin.Context) {
	if s.syncUnavailable(c) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	state, ok, err := s.engine.Pull(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, APIResponse{
			Success: false,
			Message: err.Error(),
			Error:   string(till.ErrCodeSyncFailure),
		})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, successResponse("No remote state yet", nil))
		return
	}

	s.till.RestoreState(state)
	c.JSON(http.StatusOK, successResponse("State pulled", nil))
}

func (s *Server) SetAutosync(c *gin.Context) {
	if s.syncUnavailable(c) {
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	s.engine.SetAutosync(req.Enabled)
	c.JSON(http.StatusOK, successResponse("Autosync updated", s.engine.Status()))
}

func (s *Server) SetRealtime(c *gin.Context) {
	if s.syncUnavailable(c) {
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	if err := s.engine.SetRealtime(req.Enabled); err != nil {
		c.JSON(http.StatusBadGateway, errorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, successResponse("Realtime updated", s.engine.Status()))
}
