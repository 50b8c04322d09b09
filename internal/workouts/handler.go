package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/weightrec/internal/features"
	"github.com/2beens/weightrec/internal/recommender"
	"github.com/2beens/weightrec/internal/telemetry/tracing"
	"github.com/2beens/weightrec/pkg"
)

//go:generate mockgen -source=handler.go -destination=handler_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	Add(ctx context.Context, workout *Workout) (*Workout, error)
	ListPage(ctx context.Context, page, size int) (_ []Workout, total int, err error)
}

type workoutTracker interface {
	LogWorkout(ctx context.Context, in features.Input) (recommender.LogResult, error)
	Retrain(ctx context.Context) (*recommender.FitReport, error)
}

type trainingSetSizer interface {
	TrainingSetSize() int
}

type LogWorkoutResponse struct {
	Workout         *Workout               `json:"workout"`
	Buffered        int                    `json:"buffered"`
	Retrained       bool                   `json:"retrained"`
	TrainingSetSize int                    `json:"trainingSetSize"`
	Report          *recommender.FitReport `json:"report,omitempty"`
}

type RetrainResponse struct {
	Retrained       bool                   `json:"retrained"`
	TrainingSetSize int                    `json:"trainingSetSize"`
	Report          *recommender.FitReport `json:"report,omitempty"`
}

type ListResponse struct {
	Workouts []Workout `json:"workouts"`
	Total    int       `json:"total"`
}

type Handler struct {
	repo      workoutsRepo
	tracker   workoutTracker
	sizer     trainingSetSizer
	validator *validator.Validate
}

// NewHandler creates the workout logging handler. A nil repo disables the history.
func NewHandler(repo workoutsRepo, tracker workoutTracker, sizer trainingSetSizer) *Handler {
	return &Handler{
		repo:      repo,
		tracker:   tracker,
		sizer:     sizer,
		validator: validator.New(),
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.add")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		pkg.WriteJSONError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Errorf("log workout, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := handler.validator.Struct(workout); err != nil {
		pkg.WriteJSONError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	res, logErr := handler.tracker.LogWorkout(ctx, workout.Input())
	if logErr != nil && !errors.Is(logErr, recommender.ErrTraining) {
		pkg.WriteJSONError(w, logErr.Error(), recommender.StatusCode(logErr))
		return
	}

	// the workout is in the buffer from here on, a failed retrain included
	if handler.repo != nil {
		if _, err := handler.repo.Add(ctx, &workout); err != nil {
			log.Errorf("store workout [%s %dx%d]: %s", workout.Exercise, workout.Sets, workout.Reps, err)
			pkg.WriteJSONError(w, "failed to store workout", http.StatusInternalServerError)
			return
		}
	}
	if logErr != nil {
		pkg.WriteJSONError(w, logErr.Error(), http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, LogWorkoutResponse{
		Workout:         &workout,
		Buffered:        res.Buffered,
		Retrained:       res.Retrained,
		TrainingSetSize: handler.sizer.TrainingSetSize(),
		Report:          res.Report,
	}, http.StatusCreated)
}

func (handler *Handler) HandleRetrain(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.retrain")
	defer span.End()

	report, err := handler.tracker.Retrain(ctx)
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, RetrainResponse{
		Retrained:       report != nil,
		TrainingSetSize: handler.sizer.TrainingSetSize(),
		Report:          report,
	}, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	if handler.repo == nil {
		pkg.WriteJSONError(w, "workout history disabled", http.StatusNotFound)
		return
	}

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		pkg.WriteJSONError(w, "error, page NaN", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		pkg.WriteJSONError(w, "error, size NaN", http.StatusBadRequest)
		return
	}

	list, total, err := handler.repo.ListPage(ctx, page, size)
	if err != nil {
		if errors.Is(err, ErrInvalidPage) {
			pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("list workouts, page %d size %d: %s", page, size, err)
		pkg.WriteJSONError(w, "failed to list workouts", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListResponse{
		Workouts: list,
		Total:    total,
	}, http.StatusOK)
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
