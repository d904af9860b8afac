package server

import (
	"net/http"

	"tillpos/internal/till"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func failureResponse(err error) (int, APIResponse) {
	code := till.CodeOf(err)
	return statusFor(code), APIResponse{
		Success: false,
		Message: err.Error(),
		Error:   string(code),
	}
}

func statusFor(code till.ErrorCode) int {
	switch code {
	case till.ErrCodeNotFound:
		return http.StatusNotFound
	case till.ErrCodeNotAuthorized, till.ErrCodeNoPinSet:
		return http.StatusUnauthorized
	case till.ErrCodeNoActiveShift,
		till.ErrCodeInsufficientStock,
		till.ErrCodeInvalidTransition,
		till.ErrCodeAlreadyTerminal,
		till.ErrCodeInventoryLocked:
		return http.StatusConflict
	case till.ErrCodeSyncFailure, till.ErrCodeReportFailure:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
