package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/2beens/weightrec/internal/config"
	"github.com/2beens/weightrec/internal/db"
	"github.com/2beens/weightrec/internal/middleware"
	"github.com/2beens/weightrec/internal/recommender"
	"github.com/2beens/weightrec/internal/synth"
	"github.com/2beens/weightrec/internal/telemetry/metrics"
	"github.com/2beens/weightrec/internal/telemetry/tracing"
	"github.com/2beens/weightrec/internal/workouts"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config       *config.Config
	dbPool       *pgxpool.Pool
	workoutsRepo *workouts.Repo
	redisClient  *redis.Client
	trainLimiter middleware.RequestRateLimiter

	service *recommender.Service
	tracker *recommender.Tracker

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	DBUser                  string
	DBPassword              string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	var extraCollectors []prometheus.Collector
	var dbPool *pgxpool.Pool
	var workoutsRepo *workouts.Repo
	if cfg.PostgresHost != "" {
		var err error
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         params.DBUser,
			DBPassword:     params.DBPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}

		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		extraCollectors = append(extraCollectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))

		workoutsRepo = workouts.NewRepo(dbPool)
		if err := workoutsRepo.EnsureSchema(ctx); err != nil {
			log.Errorf("workout history disabled, ensure schema: %s", err)
			workoutsRepo = nil
		}
	} else {
		log.Debugln("postgres host not set, workout history disabled")
	}

	promRegistry := metrics.SetupPrometheus(extraCollectors...)
	metricsManager := metrics.NewManager("weightrec", "api", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "weightrec-api", rdb)
	if err != nil {
		return nil, err
	}

	service, err := recommender.NewService(recommender.ServiceParams{
		ModelConfig: cfg.Model,
		Synthetic: synth.Config{
			Samples: cfg.SyntheticSamples,
			Seed:    cfg.SyntheticSeed,
		},
		TestFraction: cfg.TestFraction,
		SplitSeed:    cfg.SplitSeed,
		ModelPath:    cfg.ModelPath,
		Cache:        recommender.NewPredictionCache(cfg.PredictionCacheSizeMB, cfg.PredictionCacheTTLSec),
		Metrics:      metricsManager,
	})
	if err != nil {
		return nil, fmt.Errorf("new recommender service: %w", err)
	}

	bootstrapStart := time.Now()
	if err := service.Bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("bootstrap model: %w", err)
	}
	log.Infof("model ready in %s", time.Since(bootstrapStart))

	tracker, err := recommender.NewTracker(service, cfg.RetrainThreshold, metricsManager)
	if err != nil {
		return nil, fmt.Errorf("new tracker: %w", err)
	}

	return &Server{
		config:       cfg,
		versionInfo:  params.VersionInfo,
		dbPool:       dbPool,
		workoutsRepo: workoutsRepo,
		redisClient:  rdb,
		trainLimiter: redis_rate.NewLimiter(rdb),
		service:      service,
		tracker:      tracker,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	if s.service == nil || s.tracker == nil {
		return nil, errors.New("recommender service not set")
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("weightrec-router"))

	apiHandler := recommender.NewHandler(s.service, s.tracker)
	r.Handle(
		"/train",
		middleware.RateLimit(s.trainLimiter, "train", s.config.TrainRateLimitPerMin, s.metricsManager)(
			http.HandlerFunc(apiHandler.HandleTrain),
		),
	).Methods("GET", "OPTIONS").Name("train")
	r.HandleFunc("/predict", apiHandler.HandlePredict).Methods("GET", "OPTIONS").Name("predict")
	r.HandleFunc("/recommend", apiHandler.HandleRecommend).Methods("GET", "OPTIONS").Name("recommend")
	r.HandleFunc("/health", apiHandler.HandleHealth).Methods("GET", "OPTIONS").Name("health")
	r.HandleFunc("/model", apiHandler.HandleModel).Methods("GET", "OPTIONS").Name("model")

	// a typed nil repo must not reach the handler as a non-nil interface
	var workoutsHandler *workouts.Handler
	if s.workoutsRepo != nil {
		workoutsHandler = workouts.NewHandler(s.workoutsRepo, s.tracker, s.service)
	} else {
		workoutsHandler = workouts.NewHandler(nil, s.tracker, s.service)
	}
	r.HandleFunc("/workouts", workoutsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("log-workout")
	r.HandleFunc("/workouts/retrain", workoutsHandler.HandleRetrain).Methods("POST", "OPTIONS").Name("retrain")
	r.HandleFunc("/workouts/list/page/{page}/size/{size}", workoutsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")

	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(s.versionInfo))
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest(middleware.DefaultMaxBodyBytes))

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler: otelhttp.NewHandler(router, "weightrec-api"),
		Addr:    ipAndPort,
		// a /train or a threshold retrain runs on the request goroutine
		WriteTimeout: 10 * time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", metrics.NewMetricsHandler(s.promRegistry))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var errs error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("shutdown metrics http server: %w", err))
		}
		log.Warnln("metrics server shut down")
	}

	// anything still buffered is folded in before the process goes away
	if s.tracker != nil && s.tracker.BufferSize() > 0 {
		log.Infof("flushing %d buffered workouts before shutdown", s.tracker.BufferSize())
		if _, err := s.tracker.Retrain(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("final retrain: %w", err))
		}
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close redis client: %w", err))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	return errs
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
