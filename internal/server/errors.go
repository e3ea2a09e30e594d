package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/smartstudy/internal/analysis"
)

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, errorEnvelope{Error: apiError{Message: msg, Code: code}})
}

// statusFor maps pipeline error kinds to HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, analysis.ErrTooShort):
		return http.StatusUnprocessableEntity, "too_short"
	case errors.Is(err, analysis.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, analysis.ErrMalformedResponse):
		return http.StatusBadGateway, "malformed_response"
	case errors.Is(err, analysis.ErrUpstream):
		return http.StatusBadGateway, "upstream_error"
	}
	return http.StatusInternalServerError, "internal"
}
