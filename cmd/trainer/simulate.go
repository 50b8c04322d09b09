package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2beens/weightrec/internal/features"
	"github.com/2beens/weightrec/internal/recommender"
)

var exampleWorkouts = []features.Input{
	{Exercise: "bench_press", Sets: 5, Reps: 5, Weight: 85, ExperienceLevel: "intermediate", PreviousSuccess: true},
	{Exercise: "deadlift", Sets: 4, Reps: 6, Weight: 150, ExperienceLevel: "advanced", PreviousSuccess: true},
	{Exercise: "squat", Sets: 5, Reps: 5, Weight: 120, ExperienceLevel: "intermediate", PreviousSuccess: true},
	{Exercise: "overhead_press", Sets: 4, Reps: 8, Weight: 45, ExperienceLevel: "beginner", PreviousSuccess: false},
	{Exercise: "bicep_curl", Sets: 3, Reps: 12, Weight: 22.5, ExperienceLevel: "intermediate", PreviousSuccess: true},
	{Exercise: "barbell_row", Sets: 4, Reps: 8, Weight: 70, ExperienceLevel: "intermediate", PreviousSuccess: true},
	{Exercise: "leg_press", Sets: 3, Reps: 15, Weight: 140, ExperienceLevel: "beginner", PreviousSuccess: true},
	{Exercise: "tricep_extension", Sets: 3, Reps: 12, Weight: 25, ExperienceLevel: "intermediate", PreviousSuccess: true},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Log the example workouts and force a retrain",
	RunE:  runSimulate,
}

var simulateThreshold int

func init() {
	simulateCmd.Flags().IntVar(&simulateThreshold, "threshold", recommender.DefaultRetrainThreshold, "Buffered workouts that trigger a retrain")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	service, metricsManager, err := newService()
	if err != nil {
		return err
	}
	if err := service.Bootstrap(ctx); err != nil {
		return err
	}

	tracker, err := recommender.NewTracker(service, simulateThreshold, metricsManager)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, w := range exampleWorkouts {
		res, err := tracker.LogWorkout(ctx, w)
		if err != nil {
			return fmt.Errorf("log %s: %w", w.Exercise, err)
		}
		fmt.Fprintf(out, "logged %s %dx%d @ %.1fkg (buffered %d)\n", w.Exercise, w.Sets, w.Reps, w.Weight, res.Buffered)
		if res.Retrained {
			fmt.Fprintf(out, "  retrained: version %d, test MAE %.2f kg\n", res.Report.Version, res.Report.TestMAE)
		}
	}

	report, err := tracker.Retrain(ctx)
	if err != nil {
		return err
	}
	if report != nil {
		fmt.Fprintf(out, "final retrain: version %d on %d rows, test MAE %.2f kg\n", report.Version, report.TrainingRows, report.TestMAE)
	}
	fmt.Fprintf(out, "training set size: %d\n", service.TrainingSetSize())
	return nil
}
