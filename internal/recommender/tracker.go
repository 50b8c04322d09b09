package recommender

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/weightrec/internal/features"
	"github.com/2beens/weightrec/internal/telemetry/metrics"
	"github.com/2beens/weightrec/internal/telemetry/tracing"
)

const DefaultRetrainThreshold = 10

//go:generate mockgen -source=tracker.go -destination=tracker_mocks_test.go -package=recommender_test

type modelRefitter interface {
	RefitWith(ctx context.Context, extra []features.Sample) (*FitReport, error)
}

type LogResult struct {
	Buffered  int        `json:"buffered"`
	Retrained bool       `json:"retrained"`
	Report    *FitReport `json:"report,omitempty"`
}

// Tracker buffers logged workouts and folds them into the training set once the
// buffer reaches the threshold. Retraining happens on the logging caller.
type Tracker struct {
	refitter  modelRefitter
	threshold int
	metrics   *metrics.Manager

	mu       sync.Mutex
	buffer   []features.Sample
	retrains int
}

func NewTracker(refitter modelRefitter, threshold int, metricsManager *metrics.Manager) (*Tracker, error) {
	if refitter == nil {
		return nil, errors.New("model refitter is nil")
	}
	if metricsManager == nil {
		return nil, errors.New("metrics manager is nil")
	}
	if threshold <= 0 {
		threshold = DefaultRetrainThreshold
	}
	return &Tracker{
		refitter:  refitter,
		threshold: threshold,
		metrics:   metricsManager,
	}, nil
}

// LogWorkout buffers a performed workout. When the buffer reaches the threshold the
// model is refitted before LogWorkout returns. A failed refit keeps the buffer.
func (t *Tracker) LogWorkout(ctx context.Context, in features.Input) (_ LogResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.log_workout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	v, err := features.Compute(in)
	if err != nil {
		return LogResult{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.buffer = append(t.buffer, features.Sample{Features: v, Weight: in.Weight})
	t.metrics.CounterWorkoutsLogged.Inc()
	t.metrics.GaugeTrackerBuffer.Set(float64(len(t.buffer)))
	log.Debugf("workout logged: %s %dx%d @ %.1fkg, buffer %d/%d",
		v.WorkoutType, v.Sets, v.Reps, in.Weight, len(t.buffer), t.threshold)

	if len(t.buffer) < t.threshold {
		return LogResult{Buffered: len(t.buffer)}, nil
	}

	report, err := t.retrainLocked(ctx)
	if err != nil {
		return LogResult{Buffered: len(t.buffer)}, err
	}
	return LogResult{
		Buffered:  len(t.buffer),
		Retrained: true,
		Report:    report,
	}, nil
}

// Retrain flushes the buffer into a refit. It returns a nil report when there is
// nothing buffered.
func (t *Tracker) Retrain(ctx context.Context) (*FitReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.retrainLocked(ctx)
}

func (t *Tracker) retrainLocked(ctx context.Context) (*FitReport, error) {
	if len(t.buffer) == 0 {
		return nil, nil
	}

	report, err := t.refitter.RefitWith(ctx, t.buffer)
	if err != nil {
		log.Errorf("retrain with %d logged workouts: %s", len(t.buffer), err)
		if !errors.Is(err, ErrTraining) {
			err = errors.Join(ErrTraining, err)
		}
		return nil, err
	}

	t.retrains++
	t.buffer = nil
	t.metrics.GaugeTrackerBuffer.Set(0)
	if report != nil {
		log.Infof("model retrained with logged workouts, test MAE %.2f kg", report.TestMAE)
	}
	return report, nil
}

func (t *Tracker) BufferSize() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buffer)
}

func (t *Tracker) Retrains() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.retrains
}
