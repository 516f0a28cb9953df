package api

import (
	"errors"
	"net/http"
)

type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "bad request"}
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "not found"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "internal server error"}
	ErrRateLimited    = &AppError{Code: http.StatusTooManyRequests, Message: "too many requests, slow down a little"}
	ErrAIUnavailable  = &AppError{Code: http.StatusServiceUnavailable, Message: "assistant is not available right now"}
	ErrNoWeatherKey   = &AppError{Code: http.StatusServiceUnavailable, Message: "weather service is not configured"}
	ErrWeatherUpstream = &AppError{Code: http.StatusBadGateway, Message: "weather provider request failed"}
)

func NewBadRequestError(msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: msg}
}

func NewValidationError(msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: msg}
}

func HandleError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		JSONErrorMessage(w, appErr.Code, appErr.Message)
		return
	}
	JSONErrorMessage(w, http.StatusInternalServerError, "internal server error")
}
