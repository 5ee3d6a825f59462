package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-engine/internal/learning"
)

var retrainCmd = &cobra.Command{
	Use:   "retrain",
	Short: "Retrain scoring weights from the feedback log",
	Long:  "Retrain derives labeled examples from the feedback log and produces a new weight vector version. Past versions and the feedback log itself are never modified. With too few labeled outcomes no new version is produced and the current one stays active.",
	RunE:  runRetrain,
}

var retrainIfDue bool

func init() {
	retrainCmd.Flags().BoolVar(&retrainIfDue, "if-due", false, "Only retrain when enough new signals accumulated since the active version")

	rootCmd.AddCommand(retrainCmd)
}

func runRetrain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	learner := e.newLearner()

	if retrainIfDue {
		due, err := learner.ShouldRetrain(ctx)
		if err != nil {
			return err
		}
		if !due {
			fmt.Fprintf(os.Stdout, "Fewer than %d new signals since the active version; skipping retrain\n",
				e.cfg.MinSignals)
			return nil
		}
	}

	weights, err := learner.Retrain(ctx)
	if err != nil {
		if errors.Is(err, learning.ErrInsufficientSignals) {
			fmt.Fprintf(os.Stdout, "Not enough labeled outcomes yet (need %d); keeping the current weight vector\n",
				e.cfg.MinSignals)
			return nil
		}
		return err
	}

	fmt.Fprintf(os.Stdout, "Trained weight vector version %d on %d examples\n",
		weights.Version, weights.TrainedOn)
	return printJSON(weights)
}
