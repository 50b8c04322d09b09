package recommender

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/weightrec/internal/catalog"
	"github.com/2beens/weightrec/internal/features"
	"github.com/2beens/weightrec/internal/model"
	"github.com/2beens/weightrec/internal/synth"
	"github.com/2beens/weightrec/internal/telemetry/metrics"
	"github.com/2beens/weightrec/internal/telemetry/tracing"
	"github.com/2beens/weightrec/pkg"
)

const (
	TriggerBootstrap = "bootstrap"
	TriggerTrain     = "train"
	TriggerRetrain   = "retrain"
)

// weightModel is the part of a fitted pipeline the prediction path needs.
type weightModel interface {
	Predict(v features.FeatureVector) (float64, error)
}

type ServiceParams struct {
	ModelConfig  model.Config
	Synthetic    synth.Config
	TestFraction float64
	SplitSeed    uint64
	// ModelPath is where every fitted model is written; empty disables persistence.
	ModelPath string
	// Cache is optional.
	Cache   *PredictionCache
	Metrics *metrics.Manager
}

type FitReport struct {
	RunID        uuid.UUID       `json:"runId"`
	Trigger      string          `json:"trigger"`
	Version      uint64          `json:"version"`
	TrainingRows int             `json:"trainingRows"`
	TestMAE      float64         `json:"testMae"`
	CV           *model.CVResult `json:"cv,omitempty"`
	Duration     time.Duration   `json:"duration"`
}

type Prediction struct {
	Weight float64
	Sets   int
	Reps   int
}

type Recommendation struct {
	Sets            int     `json:"sets"`
	Reps            int     `json:"reps"`
	PredictedWeight float64 `json:"predicted_weight"`
}

type Metadata struct {
	Loaded          bool      `json:"loaded"`
	Version         uint64    `json:"version"`
	TrainedAt       time.Time `json:"trainedAt"`
	TrainingRows    int       `json:"trainingRows"`
	TrainingSetSize int       `json:"trainingSetSize"`
	TestMAE         float64   `json:"testMae"`
}

// Service owns the served model and the training set it grows from.
// Fits are serialized by fitMu and run without holding mu, so predictions keep
// using the previous model until the new one is swapped in.
type Service struct {
	cfg       model.Config
	modelPath string
	cache     *PredictionCache
	metrics   *metrics.Manager

	// static synthetic split, never modified after NewService
	baseTrain []features.Sample
	testSet   []features.Sample

	fitMu sync.Mutex

	mu          sync.RWMutex
	pipeline    *model.Pipeline
	version     uint64
	testMAE     float64
	trainingSet []features.Sample
}

func NewService(params ServiceParams) (*Service, error) {
	if err := params.ModelConfig.Validate(); err != nil {
		return nil, err
	}
	if params.Metrics == nil {
		return nil, errors.New("metrics manager is nil")
	}
	if params.TestFraction <= 0 || params.TestFraction >= 1 {
		params.TestFraction = synth.DefaultTestFraction
	}

	samples := synth.Generate(params.Synthetic)
	train, test := synth.Split(samples, params.TestFraction, params.SplitSeed)
	if len(train) == 0 || len(test) == 0 {
		return nil, fmt.Errorf("synthetic split too small: %d train, %d test rows", len(train), len(test))
	}

	log.Debugf("generated %d synthetic rows, %d train / %d test", len(samples), len(train), len(test))
	params.Metrics.GaugeTrainingSetSize.Set(float64(len(train)))

	return &Service{
		cfg:         params.ModelConfig,
		modelPath:   params.ModelPath,
		cache:       params.Cache,
		metrics:     params.Metrics,
		baseTrain:   train,
		testSet:     test,
		trainingSet: slices.Clone(train),
	}, nil
}

// Bootstrap loads the stored model when there is a usable one, otherwise fits a new
// model on the synthetic training split.
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.modelPath != "" {
		exists, err := pkg.PathExists(s.modelPath, false)
		if err != nil {
			return fmt.Errorf("check model path: %w", err)
		}
		if exists {
			err := s.loadStored()
			if err == nil {
				return nil
			}
			log.Warnf("stored model [%s] unusable, fitting a new one: %s", s.modelPath, err)
		}
	}

	s.fitMu.Lock()
	defer s.fitMu.Unlock()
	_, err := s.refit(ctx, TriggerBootstrap, s.baseTrain, nil)
	return err
}

func (s *Service) loadStored() error {
	p, err := model.Load(s.modelPath)
	if err != nil {
		return err
	}
	testMAE, err := model.Evaluate(p, s.testSet)
	if err != nil {
		return fmt.Errorf("evaluate stored model: %w", err)
	}

	version, trainingSetSize := s.swap(p, testMAE, nil)
	s.observeModel(version, trainingSetSize, testMAE)
	log.Infof("loaded model from [%s], trained at %s on %d rows, test MAE %.2f kg",
		s.modelPath, p.TrainedAt.Format(time.RFC3339), p.TrainingRows, testMAE)
	return nil
}

// Train cross-validates and refits on the synthetic training split. Logged workouts
// already folded into the training set stay there and are used by the next retrain.
func (s *Service) Train(ctx context.Context) (_ *FitReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.recommender.train")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.fitMu.Lock()
	defer s.fitMu.Unlock()

	cv, err := model.CrossValidate(ctx, s.cfg, s.baseTrain)
	if err != nil {
		return nil, s.fitFailed(TriggerTrain, fmt.Errorf("cross validate: %w", err))
	}
	s.metrics.GaugeCVMAE.Set(cv.Mean)

	report, err := s.refit(ctx, TriggerTrain, s.baseTrain, nil)
	if err != nil {
		return nil, err
	}
	report.CV = &cv
	return report, nil
}

// RefitWith fits a new model on the training set plus extra. On success the union
// becomes the training set; on failure neither the model nor the training set change.
func (s *Service) RefitWith(ctx context.Context, extra []features.Sample) (_ *FitReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.recommender.refit")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.fitMu.Lock()
	defer s.fitMu.Unlock()

	s.mu.RLock()
	union := make([]features.Sample, 0, len(s.trainingSet)+len(extra))
	union = append(union, s.trainingSet...)
	s.mu.RUnlock()
	union = append(union, extra...)

	return s.refit(ctx, TriggerRetrain, union, union)
}

// refit must be called with fitMu held. A nil newTrainingSet keeps the current one.
func (s *Service) refit(ctx context.Context, trigger string, samples, newTrainingSet []features.Sample) (*FitReport, error) {
	runID := uuid.New()
	logger := log.WithFields(log.Fields{
		"run_id":  runID.String(),
		"trigger": trigger,
		"rows":    len(samples),
	})
	logger.Debug("fitting model")

	start := time.Now()
	p, err := model.Fit(ctx, s.cfg, samples)
	if err != nil {
		return nil, s.fitFailed(trigger, err)
	}
	testMAE, err := model.Evaluate(p, s.testSet)
	if err != nil {
		return nil, s.fitFailed(trigger, fmt.Errorf("evaluate: %w", err))
	}

	if s.modelPath != "" {
		if err := model.Save(s.modelPath, p); err != nil {
			// the fitted model is still served, only the file is stale
			logger.Errorf("save model to [%s]: %s", s.modelPath, err)
		}
	}

	version, trainingSetSize := s.swap(p, testMAE, newTrainingSet)
	duration := time.Since(start)

	s.observeModel(version, trainingSetSize, testMAE)
	s.metrics.CounterFits.WithLabelValues(trigger, "ok").Inc()
	s.metrics.HistFitDuration.WithLabelValues(trigger).Observe(duration.Seconds())

	logger.WithFields(log.Fields{
		"version":  version,
		"duration": duration.String(),
	}).Infof("model fitted, test MAE %.2f kg, training set size %d", testMAE, trainingSetSize)

	return &FitReport{
		RunID:        runID,
		Trigger:      trigger,
		Version:      version,
		TrainingRows: len(samples),
		TestMAE:      testMAE,
		Duration:     duration,
	}, nil
}

func (s *Service) fitFailed(trigger string, err error) error {
	s.metrics.CounterFits.WithLabelValues(trigger, "error").Inc()
	log.Errorf("%s fit failed: %s", trigger, err)
	return fmt.Errorf("%w: %w", ErrTraining, err)
}

func (s *Service) swap(p *model.Pipeline, testMAE float64, trainingSet []features.Sample) (version uint64, trainingSetSize int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pipeline = p
	s.version++
	s.testMAE = testMAE
	if trainingSet != nil {
		s.trainingSet = trainingSet
	}
	if s.cache != nil {
		s.cache.Clear()
	}
	return s.version, len(s.trainingSet)
}

func (s *Service) observeModel(version uint64, trainingSetSize int, testMAE float64) {
	s.metrics.GaugeModelVersion.Set(float64(version))
	s.metrics.GaugeTrainingSetSize.Set(float64(trainingSetSize))
	s.metrics.GaugeTestMAE.Set(testMAE)
}

func (s *Service) snapshot() (*model.Pipeline, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pipeline, s.version
}

// Predict estimates the working weight for a prescription with an unknown weight.
func (s *Service) Predict(ctx context.Context, in features.Input) (_ Prediction, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "service.recommender.predict")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	in.Weight = 0
	v, err := features.Compute(in)
	if err != nil {
		return Prediction{}, err
	}

	p, version := s.snapshot()
	if p == nil {
		return Prediction{}, ErrModelNotLoaded
	}

	weight, err := s.predictCached(p, version, v)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{
		Weight: weight,
		Sets:   v.Sets,
		Reps:   v.Reps,
	}, nil
}

// Recommend predicts a weight for every exercise of the goal's fixed plan.
func (s *Service) Recommend(ctx context.Context, goal, level string, previousSuccess bool) (_ map[string]Recommendation, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "service.recommender.recommend")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	g, err := catalog.ParseGoal(goal)
	if err != nil {
		return nil, err
	}
	lvl, err := catalog.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	templates, err := catalog.GoalTemplates(g)
	if err != nil {
		return nil, err
	}

	p, version := s.snapshot()
	if p == nil {
		return nil, ErrModelNotLoaded
	}

	recommendations := make(map[string]Recommendation, len(templates))
	for _, t := range templates {
		v, err := features.Compute(features.Input{
			Exercise:        t.Exercise,
			Sets:            t.Sets,
			Reps:            t.Reps,
			ExperienceLevel: string(lvl),
			PreviousSuccess: previousSuccess,
		})
		if err != nil {
			return nil, fmt.Errorf("features for %s: %w", t.Exercise, err)
		}
		weight, err := s.predictCached(p, version, v)
		if err != nil {
			return nil, fmt.Errorf("predict %s: %w", t.Exercise, err)
		}
		recommendations[t.Exercise] = Recommendation{
			Sets:            t.Sets,
			Reps:            t.Reps,
			PredictedWeight: weight,
		}
	}
	return recommendations, nil
}

func (s *Service) predictCached(m weightModel, version uint64, v features.FeatureVector) (float64, error) {
	s.metrics.CounterPredictions.Inc()
	if s.cache != nil {
		if weight, ok := s.cache.Get(version, v); ok {
			s.metrics.CounterPredictionCacheHits.Inc()
			return weight, nil
		}
	}

	weight, err := bootstrapPredict(m, v)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		s.cache.Set(version, v, weight)
	}
	return weight, nil
}

// bootstrapPredict fills the weight derived features with a provisional prediction
// made from zero placeholders, then predicts again. Always two model calls.
func bootstrapPredict(m weightModel, v features.FeatureVector) (float64, error) {
	provisional, err := m.Predict(v.WithWeight(0))
	if err != nil {
		return 0, err
	}
	return m.Predict(v.WithWeight(provisional))
}

func (s *Service) ModelLoaded() bool {
	p, _ := s.snapshot()
	return p != nil
}

func (s *Service) Metadata() Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()

	md := Metadata{
		Loaded:          s.pipeline != nil,
		Version:         s.version,
		TrainingSetSize: len(s.trainingSet),
		TestMAE:         s.testMAE,
	}
	if s.pipeline != nil {
		md.TrainedAt = s.pipeline.TrainedAt
		md.TrainingRows = s.pipeline.TrainingRows
	}
	return md
}

func (s *Service) TrainingSetSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trainingSet)
}
