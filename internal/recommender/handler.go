package recommender

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/weightrec/internal/catalog"
	"github.com/2beens/weightrec/internal/features"
	"github.com/2beens/weightrec/internal/telemetry/tracing"
	"github.com/2beens/weightrec/pkg"
)

const defaultLevel = string(catalog.LevelIntermediate)

type TrainResponse struct {
	Message string `json:"message"`
	CVMAE   string `json:"cv_mae"`
	TestMAE string `json:"test_mae"`
}

type PredictResponse struct {
	PredictedWeight float64 `json:"predicted_weight"`
	Sets            int     `json:"sets"`
	Reps            int     `json:"reps"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

type ModelResponse struct {
	Metadata
	BufferSize int `json:"bufferSize"`
}

type Handler struct {
	service *Service
	tracker *Tracker
}

// NewHandler creates the model API handler. tracker may be nil.
func NewHandler(service *Service, tracker *Tracker) *Handler {
	return &Handler{
		service: service,
		tracker: tracker,
	}
}

func (handler *Handler) HandleTrain(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.train")
	defer span.End()

	report, err := handler.service.Train(ctx)
	if err != nil {
		log.Errorf("train: %s", err)
		pkg.WriteJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, TrainResponse{
		Message: "Model retrained successfully",
		CVMAE:   report.CV.String(),
		TestMAE: fmt.Sprintf("%.2f kg", report.TestMAE),
	}, http.StatusOK)
}

func (handler *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.predict")
	defer span.End()

	query := r.URL.Query()
	sets := queryInt(query.Get("sets"))
	reps := queryInt(query.Get("reps"))
	workoutType := query.Get("workout_type")
	if sets == 0 || reps == 0 || workoutType == "" {
		writeErrorMessage(w,
			fmt.Errorf("%w: sets, reps, workout_type", ErrMissingParameter),
			"Missing required parameters: sets, reps, workout_type",
		)
		return
	}

	prediction, err := handler.service.Predict(ctx, features.Input{
		Exercise:        workoutType,
		Sets:            sets,
		Reps:            reps,
		ExperienceLevel: queryOrDefault(query.Get("experience_level"), defaultLevel),
		PreviousSuccess: boolFlag(query.Get("previous_success")),
	})
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownExercise) {
			pkg.WriteJSONError(w, fmt.Sprintf("Invalid workout type: '%s'", workoutType), http.StatusBadRequest)
			return
		}
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, PredictResponse{
		PredictedWeight: roundTenth(prediction.Weight),
		Sets:            prediction.Sets,
		Reps:            prediction.Reps,
	}, http.StatusOK)
}

func (handler *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recommend")
	defer span.End()

	query := r.URL.Query()
	goal := query.Get("goal")
	if goal == "" {
		writeErrorMessage(w, fmt.Errorf("%w: goal", ErrMissingParameter), "Goal is required")
		return
	}

	recommendations, err := handler.service.Recommend(
		ctx,
		goal,
		queryOrDefault(query.Get("user_strength_level"), defaultLevel),
		boolFlag(query.Get("previous_success")),
	)
	switch {
	case errors.Is(err, catalog.ErrUnknownGoal):
		pkg.WriteJSONError(w, "Invalid goal. Must be one of: strength, hypertrophy, endurance", http.StatusBadRequest)
		return
	case errors.Is(err, catalog.ErrUnknownLevel):
		pkg.WriteJSONError(w, "Invalid strength level. Must be one of: beginner, intermediate, advanced", http.StatusBadRequest)
		return
	case err != nil:
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, recommendations, http.StatusOK)
}

func (handler *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, HealthResponse{
		Status:      "healthy",
		ModelLoaded: handler.service.ModelLoaded(),
	}, http.StatusOK)
}

func (handler *Handler) HandleModel(w http.ResponseWriter, _ *http.Request) {
	resp := ModelResponse{Metadata: handler.service.Metadata()}
	if handler.tracker != nil {
		resp.BufferSize = handler.tracker.BufferSize()
	}
	pkg.WriteJSON(w, resp, http.StatusOK)
}

func writeError(w http.ResponseWriter, err error) {
	writeErrorMessage(w, err, err.Error())
}

// writeErrorMessage replies with the status mapped from err and a client facing message.
func writeErrorMessage(w http.ResponseWriter, err error, message string) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("request failed: %s", err)
	} else {
		log.Debugf("bad request: %s", err)
	}
	pkg.WriteJSONError(w, message, status)
}

// queryInt returns 0, which counts as missing, for anything that is not an integer.
// Negative values pass through and are rejected as invalid input.
func queryInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func queryOrDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// boolFlag treats a missing flag as true, and anything but "true" as false.
func boolFlag(s string) bool {
	if s == "" {
		return true
	}
	return strings.ToLower(s) == "true"
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
