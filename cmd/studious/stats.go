package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/studious/internal/config"
	"github.com/vovakirdan/studious/internal/platform/tui"
	"github.com/vovakirdan/studious/internal/storage"
)

var (
	flagStatsLimit int
	flagStatsRun   int64
	flagStatsClear bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show run history and FPS statistics",
	Long: `Display per-scene statistics and the most recent runs from the run
history database. With --run, print the FPS reports of a single run.

Examples:
  studious stats
  studious stats --limit 20
  studious stats --run 12
  studious stats --clear`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagStatsLimit, "limit", 10, "Number of recent runs to show")
	statsCmd.Flags().Int64Var(&flagStatsRun, "run", 0, "Show the FPS reports of one run")
	statsCmd.Flags().BoolVar(&flagStatsClear, "clear", false, "Delete all stored runs")
}

func runStats(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(storePath(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	switch {
	case flagStatsClear:
		if err := store.ClearRuns(); err != nil {
			return err
		}
		fmt.Println("Run history cleared.")
		return nil

	case flagStatsRun > 0:
		return printRun(store, flagStatsRun)
	}

	scenes, err := store.SceneStats()
	if err != nil {
		return err
	}
	runs, err := store.RecentRuns(flagStatsLimit)
	if err != nil {
		return err
	}
	fmt.Print(tui.RenderStats(scenes, runs))
	return nil
}

func printRun(store *storage.Store, id int64) error {
	run, err := store.RunByID(id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no run with id %d", id)
	}
	reports, err := store.RunReports(id)
	if err != nil {
		return err
	}

	fmt.Printf("Run %d - %s (%s, %s profile)\n", run.ID, run.Scene, run.Mode, run.Profile)
	fmt.Printf("  Started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	if !run.EndedAt.IsZero() {
		fmt.Printf("  Ended:    %s (%s)\n", run.EndedAt.Format("2006-01-02 15:04:05"), run.StopReason)
	}
	fmt.Printf("  Frames:   %d\n", run.Frames)
	fmt.Printf("  Exit:     %d\n", run.ExitCode)
	fmt.Println()

	if len(reports) == 0 {
		fmt.Println("No FPS reports recorded.")
		return nil
	}
	for i, fps := range reports {
		fmt.Printf("  %3d  FPS: %.2f\n", i+1, fps)
	}
	return nil
}

// storePath is the database the stats command reads, even when recording
// is disabled for runs.
func storePath(cfg config.StudiousConfig) string {
	if cfg.Storage.Path == "" {
		return config.DefaultConfig().Storage.Path
	}
	return cfg.Storage.Path
}
