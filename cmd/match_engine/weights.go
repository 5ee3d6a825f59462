package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show a stored weight vector version",
	Long:  "Weights prints the current weight vector, or a specific retained version with --version. Useful for inspecting how retraining has shifted the feature weights over time.",
	RunE:  runWeights,
}

var weightsVersion int

func init() {
	weightsCmd.Flags().IntVar(&weightsVersion, "version", 0, "Version to show (default: current)")

	rootCmd.AddCommand(weightsCmd)
}

func runWeights(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	if weightsVersion > 0 {
		w, err := e.db.GetWeightVector(ctx, weightsVersion)
		if err != nil {
			return err
		}
		if w == nil {
			return fmt.Errorf("weight vector version %d not found", weightsVersion)
		}
		return printJSON(w)
	}

	w, err := e.db.CurrentWeightVector(ctx)
	if err != nil {
		return err
	}
	return printJSON(w)
}
