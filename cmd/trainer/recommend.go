package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2beens/weightrec/internal/catalog"
)

type recommendCase struct {
	goal            string
	level           string
	previousSuccess bool
}

var exampleCases = []recommendCase{
	{goal: "strength", level: "beginner", previousSuccess: true},
	{goal: "strength", level: "advanced", previousSuccess: true},
	{goal: "hypertrophy", level: "intermediate", previousSuccess: true},
	{goal: "endurance", level: "intermediate", previousSuccess: false},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print workout plans for the example goal and level combinations",
	Long:  "Loads the model stored at --model-path (fitting one when there is none) and prints a plan per example case.",
	RunE:  runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	service, _, err := newService()
	if err != nil {
		return err
	}
	if err := service.Bootstrap(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, c := range exampleCases {
		plan, err := service.Recommend(ctx, c.goal, c.level, c.previousSuccess)
		if err != nil {
			return fmt.Errorf("recommend %s/%s: %w", c.goal, c.level, err)
		}

		templates, err := catalog.GoalTemplates(catalog.Goal(c.goal))
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\nWorkout plan for %s level, %s goal:\n", c.level, c.goal)
		for _, t := range templates {
			r := plan[t.Exercise]
			fmt.Fprintf(out, "%s: %dx%d @ %.1fkg\n", t.Exercise, r.Sets, r.Reps, r.PredictedWeight)
		}
	}
	return nil
}
