package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tillpos/internal/till"
)

type StartShiftRequest struct {
	Worker string `json:"worker" binding:"required"`
}

type ChangeShiftRequest struct {
	ConfirmCurrent string `json:"confirm_current" binding:"required"`
	Next           string `json:"next" binding:"required"`
}

type EndDayRequest struct {
	EndedBy string `json:"ended_by" binding:"required"`
}

func (s *Server) GetShift(c *gin.Context) {
	var meta till.DayMeta
	s.till.View(func(t *till.Till) { meta = t.Day })
	c.JSON(http.StatusOK, successResponse("Shift retrieved successfully", meta))
}

func (s *Server) StartShift(c *gin.Context) {
	var req StartShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	res, err := s.till.StartShift(req.Worker)
	if err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Shift started", res))
}

func (s *Server) ChangeShift(c *gin.Context) {
	var req ChangeShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	if err := s.till.ChangeShift(req.ConfirmCurrent, req.Next); err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Shift handed over", nil))
}

func (s *Server) EndDay(c *gin.Context) {
	var req EndDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	summary, err := s.till.EndDay(req.EndedBy)
	if err != nil {
		// The day is already settled when only the report failed; return the
		// summary so the operator still sees the numbers.
		if till.IsCode(err, till.ErrCodeReportFailure) {
			c.JSON(http.StatusOK, APIResponse{
				Success: true,
				Message: "Day settled, but the report could not be written: " + err.Error(),
				Error:   string(till.ErrCodeReportFailure),
				Data:    summary,
			})
			return
		}
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Day settled", summary))
}

func (s *Server) ShiftReport(c *gin.Context) {
	var active bool
	s.till.View(func(t *till.Till) { active = t.Day.Active() })
	if !active {
		status, body := failureResponse(&till.TillError{Code: till.ErrCodeNoActiveShift, Message: "no active shift"})
		c.JSON(status, body)
		return
	}

	summary := s.till.BuildSummary()
	_ = s.till.Do(func(t *till.Till) error {
		at := summary.GeneratedAt
		t.Day.LastReportAt = &at
		return nil
	})
	c.JSON(http.StatusOK, successResponse("Report built", summary))
}
