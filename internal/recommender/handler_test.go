package recommender_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/weightrec/internal/recommender"
	"github.com/2beens/weightrec/internal/telemetry/metrics"
	"github.com/2beens/weightrec/pkg"
)

func newTestHandler(t *testing.T) (*recommender.Handler, *recommender.Service) {
	t.Helper()
	service, _ := bootstrappedService(t)
	tracker, err := recommender.NewTracker(service, 10, metrics.NewTestManager())
	require.NoError(t, err)
	return recommender.NewHandler(service, tracker), service
}

func serve(handlerFunc http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	handlerFunc(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var errResp pkg.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	return errResp.Error
}

func TestHandler_HandleHealth(t *testing.T) {
	service, _ := newTestService(t, "", nil)
	handler := recommender.NewHandler(service, nil)

	rec := serve(handler.HandleHealth, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","model_loaded":false}`, rec.Body.String())

	_, err := service.Train(t.Context())
	require.NoError(t, err)
	rec = serve(handler.HandleHealth, "/health")
	assert.JSONEq(t, `{"status":"healthy","model_loaded":true}`, rec.Body.String())
}

func TestHandler_HandlePredict(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := serve(handler.HandlePredict, "/predict?sets=5&reps=5&workout_type=bench_press&experience_level=intermediate&previous_success=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pkg.ContentType.JSON, rec.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 3)
	assert.Equal(t, 5.0, resp["sets"])
	assert.Equal(t, 5.0, resp["reps"])
	weight, ok := resp["predicted_weight"].(float64)
	require.True(t, ok)
	assert.Greater(t, weight, 0.0)

	// defaults for level and previous success
	rec = serve(handler.HandlePredict, "/predict?sets=3&reps=10&workout_type=squat")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_HandlePredict_BadRequests(t *testing.T) {
	handler, _ := newTestHandler(t)

	for name, tc := range map[string]struct {
		target  string
		message string
	}{
		"missing sets": {
			target:  "/predict?reps=5&workout_type=bench_press",
			message: "Missing required parameters: sets, reps, workout_type",
		},
		"zero reps": {
			target:  "/predict?sets=5&reps=0&workout_type=bench_press",
			message: "Missing required parameters: sets, reps, workout_type",
		},
		"missing workout type": {
			target:  "/predict?sets=5&reps=5",
			message: "Missing required parameters: sets, reps, workout_type",
		},
		"unknown workout type": {
			target:  "/predict?sets=5&reps=5&workout_type=zercher_squat",
			message: "Invalid workout type: 'zercher_squat'",
		},
	} {
		t.Run(name, func(t *testing.T) {
			rec := serve(handler.HandlePredict, tc.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.message, errorMessage(t, rec))
		})
	}

	rec := serve(handler.HandlePredict, "/predict?sets=-3&reps=5&workout_type=bench_press")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "invalid input")

	rec = serve(handler.HandlePredict, "/predict?sets=3&reps=5&workout_type=bench_press&experience_level=elite")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "unknown experience level")
}

func TestHandler_HandlePredict_NotLoaded(t *testing.T) {
	service, _ := newTestService(t, "", nil)
	handler := recommender.NewHandler(service, nil)

	rec := serve(handler.HandlePredict, "/predict?sets=5&reps=5&workout_type=bench_press")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "model not loaded", errorMessage(t, rec))
}

func TestHandler_HandleRecommend(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := serve(handler.HandleRecommend, "/recommend?goal=strength&user_strength_level=beginner")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]recommender.Recommendation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 4)
	for _, exercise := range []string{"deadlift", "squat", "bench_press", "overhead_press"} {
		r, ok := resp[exercise]
		require.True(t, ok, exercise)
		assert.Equal(t, 5, r.Sets)
		assert.Equal(t, 5, r.Reps)
		assert.Greater(t, r.PredictedWeight, 0.0)
	}

	rec = serve(handler.HandleRecommend, "/recommend?goal=hypertrophy")
	require.Equal(t, http.StatusOK, rec.Code)
	var hypertrophy map[string]recommender.Recommendation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hypertrophy))
	assert.Len(t, hypertrophy, 4)
	assert.Equal(t, 12, hypertrophy["bicep_curl"].Reps)
	assert.NotContains(t, hypertrophy, "deadlift")
	assert.NotContains(t, hypertrophy, "squat")
}

func TestHandler_HandleRecommend_BadRequests(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := serve(handler.HandleRecommend, "/recommend")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Goal is required", errorMessage(t, rec))

	rec = serve(handler.HandleRecommend, "/recommend?goal=power")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid goal. Must be one of: strength, hypertrophy, endurance", errorMessage(t, rec))

	rec = serve(handler.HandleRecommend, "/recommend?goal=strength&user_strength_level=elite")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid strength level. Must be one of: beginner, intermediate, advanced", errorMessage(t, rec))
}

func TestHandler_HandleTrain(t *testing.T) {
	handler, service := newTestHandler(t)

	rec := serve(handler.HandleTrain, "/train")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 3)
	assert.Equal(t, "Model retrained successfully", resp["message"])
	assert.Regexp(t, `^\d+\.\d{2} kg ± \d+\.\d{2} kg$`, resp["cv_mae"])
	assert.Regexp(t, `^\d+\.\d{2} kg$`, resp["test_mae"])
	assert.Equal(t, uint64(2), service.Metadata().Version)
}

func TestHandler_HandleModel(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := serve(handler.HandleModel, "/model")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp recommender.ModelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Loaded)
	assert.Equal(t, uint64(1), resp.Version)
	assert.Equal(t, 510, resp.TrainingSetSize)
	assert.Equal(t, 0, resp.BufferSize)
	assert.False(t, resp.TrainedAt.IsZero())
}
