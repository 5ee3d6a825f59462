package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-engine/internal/lifecycle"
	"github.com/jonathan/job-match-engine/internal/recommend"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream status changes, stale flags, and new recommendations",
	Long:  "Watch runs until interrupted, polling the engine and printing one JSON event per line: status transitions as they are appended, applications that cross the idle threshold, and jobs that newly enter the top recommendations.",
	RunE:  runWatch,
}

var (
	watchResumeVersion string
	watchTopN          int
	watchInterval      time.Duration
)

func init() {
	watchCmd.Flags().StringVarP(&watchResumeVersion, "resume-version", "r", "", "Resume version id (required)")
	watchCmd.Flags().IntVarP(&watchTopN, "top", "n", 5, "Ranking depth that counts as a recommendation")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Minute, "Poll interval")
	watchCmd.MarkFlagRequired("resume-version") //nolint:errcheck

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	resumeVersionID, err := uuid.Parse(watchResumeVersion)
	if err != nil {
		return fmt.Errorf("invalid resume version id: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	feed := recommend.NewFeed()
	events, cancel := feed.Subscribe(64)
	defer cancel()

	detector := lifecycle.NewDetector(e.db, e.cfg.StaleAfter())
	recommender := recommend.New(e.db, e.db, e.log)
	watcher := recommend.NewWatcher(feed, detector, e.db, recommender,
		resumeVersionID, watchTopN, watchInterval, e.log)

	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	enc := json.NewEncoder(os.Stdout)
	for {
		select {
		case event := <-events:
			if err := enc.Encode(event); err != nil {
				return err
			}
		case <-ctx.Done():
			<-done
			return nil
		}
	}
}
