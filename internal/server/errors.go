// Package server provides the HTTP REST API for the essay coach.
package server

import (
	"errors"
	"net/http"

	"github.com/everwrite/essay-coach/internal/review"
)

// HTTPStatus maps service errors onto HTTP status codes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, review.ErrInput):
		return http.StatusBadRequest
	case errors.Is(err, review.ErrAssistNotFound):
		return http.StatusNotFound
	case errors.Is(err, review.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, review.ErrUpstreamGeneration):
		return http.StatusBadGateway
	case errors.Is(err, review.ErrState):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether the client may retry the request unchanged.
func Retryable(err error) bool {
	return errors.Is(err, review.ErrUpstreamGeneration) ||
		errors.Is(err, review.ErrConcurrentModification)
}
