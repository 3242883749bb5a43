package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dailyyoga/menuhub/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("httpapi: invalid config: %s", msg)
}

// ErrServe the listener failed
func ErrServe(err error) error {
	return fmt.Errorf("httpapi: serve failed: %w", err)
}

// requestError is a client error detected before the catalog is reached
type requestError struct {
	status int
	detail string
}

func (e *requestError) Error() string {
	return e.detail
}

func badRequest(detail string) error {
	return &requestError{status: http.StatusBadRequest, detail: detail}
}

func unprocessable(detail string) error {
	return &requestError{status: http.StatusUnprocessableEntity, detail: detail}
}

type errorOut struct {
	Detail string `json:"detail"`
}

// writeError maps err to a status and a {"detail": ...} body
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		reqErr  *requestError
		invalid validator.ValidationErrors
	)
	status := http.StatusInternalServerError
	detail := "internal server error"

	switch {
	case errors.As(err, &reqErr):
		status, detail = reqErr.status, reqErr.detail
	case errors.As(err, &invalid):
		status, detail = http.StatusUnprocessableEntity, describe(invalid)
	case errors.Is(err, repository.ErrNotFound):
		status, detail = http.StatusNotFound, repository.Message(err)
	case errors.Is(err, repository.ErrAlreadyExists):
		status, detail = http.StatusBadRequest, repository.Message(err)
	default:
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	s.writeJSON(w, status, errorOut{Detail: detail})
}

func describe(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, e.Field()+" is required")
		case "min":
			if e.Param() == "1" {
				msgs = append(msgs, e.Field()+" must not be empty")
				break
			}
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", e.Field(), e.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
