//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/weightrec/internal/recommender"
	"github.com/2beens/weightrec/internal/workouts"
)

func (s *IntegrationTestSuite) get(ctx context.Context, path string) (int, []byte) {
	t := s.T()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverEndpoint+path, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) post(ctx context.Context, path string, body any) (int, []byte) {
	t := s.T()
	var reqBody io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) TestHealthAndModel() {
	ctx := context.Background()
	t := s.T()

	status, body := s.get(ctx, "/health")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"healthy","model_loaded":true}`, string(body))

	status, body = s.get(ctx, "/model")
	require.Equal(t, http.StatusOK, status)
	var modelResp recommender.ModelResponse
	require.NoError(t, json.Unmarshal(body, &modelResp))
	assert.True(t, modelResp.Loaded)
	assert.Positive(t, modelResp.Version)

	// bootstrap stored the fitted model
	assert.FileExists(t, s.modelPath)
}

func (s *IntegrationTestSuite) TestPredictAndRecommend() {
	ctx := context.Background()
	t := s.T()

	status, body := s.get(ctx, "/predict?sets=5&reps=5&workout_type=deadlift&experience_level=advanced")
	require.Equal(t, http.StatusOK, status)
	var prediction recommender.PredictResponse
	require.NoError(t, json.Unmarshal(body, &prediction))
	assert.Positive(t, prediction.PredictedWeight)

	status, body = s.get(ctx, "/predict?sets=5&workout_type=deadlift")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Missing required parameters")

	status, body = s.get(ctx, "/recommend?goal=endurance&user_strength_level=beginner&previous_success=false")
	require.Equal(t, http.StatusOK, status)
	var plan map[string]recommender.Recommendation
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.Len(t, plan, 3)
	assert.Equal(t, 15, plan["leg_press"].Reps)

	status, _ = s.get(ctx, "/recommend?goal=power")
	assert.Equal(t, http.StatusBadRequest, status)
}

func (s *IntegrationTestSuite) TestWorkoutsRetrainLoop() {
	ctx := context.Background()
	t := s.T()

	var rowsBefore int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM weightrec_workout`).Scan(&rowsBefore))

	logged := []workouts.Workout{
		{Exercise: "bench_press", Sets: 5, Reps: 5, Weight: 85, ExperienceLevel: "intermediate", PreviousSuccess: true},
		{Exercise: "deadlift", Sets: 4, Reps: 6, Weight: 150, ExperienceLevel: "advanced", PreviousSuccess: true},
		{Exercise: "squat", Sets: 5, Reps: 5, Weight: 120, ExperienceLevel: "intermediate", PreviousSuccess: true},
	}

	var last workouts.LogWorkoutResponse
	for i, w := range logged {
		status, body := s.post(ctx, "/workouts", w)
		require.Equal(t, http.StatusCreated, status, string(body))
		require.NoError(t, json.Unmarshal(body, &last))
		require.NotNil(t, last.Workout)
		assert.Positive(t, last.Workout.ID)
		if i < len(logged)-1 {
			assert.False(t, last.Retrained)
			assert.Equal(t, i+1, last.Buffered)
		}
	}
	// the third workout hits the threshold
	assert.True(t, last.Retrained)
	require.NotNil(t, last.Report)
	assert.Equal(t, recommender.TriggerRetrain, last.Report.Trigger)

	var rowsAfter int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM weightrec_workout`).Scan(&rowsAfter))
	assert.Equal(t, rowsBefore+len(logged), rowsAfter)

	status, body := s.get(ctx, fmt.Sprintf("/workouts/list/page/1/size/%d", len(logged)))
	require.Equal(t, http.StatusOK, status)
	var list workouts.ListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Workouts, len(logged))
	assert.Equal(t, "squat", list.Workouts[0].Exercise)

	// nothing buffered, nothing to do
	status, body = s.post(ctx, "/workouts/retrain", nil)
	require.Equal(t, http.StatusOK, status)
	var retrain workouts.RetrainResponse
	require.NoError(t, json.Unmarshal(body, &retrain))
	assert.False(t, retrain.Retrained)

	status, _ = s.post(ctx, "/workouts", map[string]any{"exercise": "squat", "sets": 0, "reps": 5, "weight": 100})
	assert.Equal(t, http.StatusBadRequest, status)
}

func (s *IntegrationTestSuite) TestTrainRateLimited() {
	ctx := context.Background()
	t := s.T()

	status, body := s.get(ctx, "/train")
	require.Equal(t, http.StatusOK, status, string(body))
	var trainResp recommender.TrainResponse
	require.NoError(t, json.Unmarshal(body, &trainResp))
	assert.Equal(t, "Model retrained successfully", trainResp.Message)

	status, _ = s.get(ctx, "/train")
	require.Equal(t, http.StatusOK, status)

	// two per minute
	status, _ = s.get(ctx, "/train")
	assert.Equal(t, http.StatusTooEarly, status)
}
