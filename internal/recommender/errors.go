package recommender

import (
	"errors"
	"net/http"

	"github.com/2beens/weightrec/internal/catalog"
	"github.com/2beens/weightrec/internal/features"
	"github.com/2beens/weightrec/internal/model"
)

var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrTraining         = errors.New("model training failed")
	ErrModelNotLoaded   = errors.New("model not loaded")
)

// StatusCode maps a service error to the HTTP status it is reported with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMissingParameter),
		errors.Is(err, catalog.ErrUnknownExercise),
		errors.Is(err, catalog.ErrUnknownGoal),
		errors.Is(err, catalog.ErrUnknownLevel),
		errors.Is(err, features.ErrInvalidInput),
		errors.Is(err, model.ErrUnknownCategory):
		return http.StatusBadRequest
	case errors.Is(err, ErrModelNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
