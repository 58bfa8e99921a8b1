package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/career-hub/internal/calculators"
	"github.com/jonathan/career-hub/internal/quiz"
	"github.com/jonathan/career-hub/internal/schemas"
	"github.com/jonathan/career-hub/internal/wages"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates an optional feature that is not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation   *ErrValidation
		input        *calculators.InputError
		schemaErr    *schemas.ValidationError
		state        *quiz.StateError
		conflict     *quiz.ConflictError
		quizMissing  *quiz.NotFoundError
		wagesMissing *wages.NotFoundError
		unavailable  *ErrUnavailable
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &input), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &quizMissing), errors.As(err, &wagesMissing):
		return http.StatusNotFound
	case errors.As(err, &state), errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
