// Package main provides the offline trainer: fit and store a model, replay example
// workouts through the retrain loop, and print example recommendations.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2beens/weightrec/internal/logging"
	"github.com/2beens/weightrec/internal/model"
	"github.com/2beens/weightrec/internal/recommender"
	"github.com/2beens/weightrec/internal/synth"
	"github.com/2beens/weightrec/internal/telemetry/metrics"
)

var rootCmd = &cobra.Command{
	Use:   "trainer",
	Short: "Offline weight recommendation model tooling",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logging.Setup(logging.LoggerSetupParams{
			LogToStdout: true,
			LogLevel:    logLevel,
		})
	},
}

var (
	modelPath string
	samples   int
	seed      uint64
	fast      bool
	logLevel  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&modelPath, "model-path", "model.gob.gz", "Path of the stored model")
	rootCmd.PersistentFlags().IntVar(&samples, "samples", synth.DefaultConfig().Samples, "Number of synthetic rows to generate")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 42, "Seed for the synthetic data, the split and the model")
	rootCmd.PersistentFlags().BoolVar(&fast, "fast", false, "Use small ensembles (quick runs, worse accuracy)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level")
}

func modelConfig() model.Config {
	cfg := model.DefaultConfig()
	cfg.Seed = seed
	if fast {
		cfg.Forest.Trees = 40
		cfg.Boosting.Stages = 60
		cfg.Boosting.LearningRate = 0.1
	}
	return cfg
}

func newService() (*recommender.Service, *metrics.Manager, error) {
	// metrics are only read by the process itself, nothing is exported
	metricsManager := metrics.NewManager("weightrec", "trainer", nil)
	service, err := recommender.NewService(recommender.ServiceParams{
		ModelConfig: modelConfig(),
		Synthetic: synth.Config{
			Samples: samples,
			Seed:    seed,
		},
		TestFraction: synth.DefaultTestFraction,
		SplitSeed:    seed,
		ModelPath:    modelPath,
		Metrics:      metricsManager,
	})
	return service, metricsManager, err
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("load .env: %s", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
