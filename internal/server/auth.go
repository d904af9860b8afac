package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tillpos/internal/till"
	"tillpos/internal/utils"
)

type EditorLoginRequest struct {
	Pin string `json:"pin" binding:"required"`
}

type AdminLoginRequest struct {
	AdminNo int    `json:"admin_no" binding:"required"`
	Pin     string `json:"pin" binding:"required"`
}

func (s *Server) EditorLogin(c *gin.Context) {
	var req EditorLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	if err := till.CheckEditorPin(s.cfg.EditorPIN, req.Pin); err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}

	s.issueToken(c, utils.ScopeEditor, 0)
}

func (s *Server) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	var verifyErr error
	s.till.View(func(t *till.Till) {
		verifyErr = t.Pins.Verify(req.AdminNo, req.Pin)
	})
	if verifyErr != nil {
		status, body := failureResponse(verifyErr)
		c.JSON(status, body)
		return
	}

	s.issueToken(c, utils.ScopeAdmin, req.AdminNo)
}

func (s *Server) issueToken(c *gin.Context, scope string, adminNo int) {
	token, exp, err := utils.GenerateToken([]byte(s.cfg.JWTSecret), scope, adminNo, s.cfg.JWTTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to issue token"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Authorized", map[string]interface{}{
		"token":      token,
		"expires_at": exp,
		"scope":      scope,
	}))
}

func (s *Server) Health(c *gin.Context) {
	status := "healthy"
	detail := gin.H{
		"status":    status,
		"message":   "Server is running",
		"timestamp": time.Now(),
	}
	if s.engine != nil {
		sync := s.engine.Status()
		if sync.LastError != "" {
			status = "degraded"
			detail["status"] = status
		}
		detail["sync"] = sync
	}

	httpStatus := http.StatusOK
	if status != "healthy" {
		httpStatus = http.StatusPartialContent
	}
	c.JSON(httpStatus, detail)
}
