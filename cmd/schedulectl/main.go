// Command schedulectl is an operator CLI for inspecting the calendar and
// on-disk schedule cache without standing up the HTTP server, grounded on
// cuemby-warren's cmd/warren flag-per-subcommand cobra tree.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpeix-go/schedule-backend/internal/calendar"
	"github.com/mpeix-go/schedule-backend/internal/cache/persistent"
	"github.com/mpeix-go/schedule-backend/pkg/config"
	"github.com/mpeix-go/schedule-backend/pkg/envutil"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "schedulectl",
	Short: "Operator tooling for the schedule backend",
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Inspect calendar/semester calculations",
}

var weekOfSemesterCmd = &cobra.Command{
	Use:   "week-of-semester DATE",
	Short: "Print the week-of-semester for DATE (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", args[0], err)
		}

		configPath, _ := cmd.Flags().GetString("shift-config")
		shiftRepo := calendar.NewShiftRepository(configPath)
		defer shiftRepo.Close()
		engine := calendar.NewEngine(shiftRepo)

		weekStart := calendar.MondayOf(date)
		wos := engine.WeekOfSemester(weekStart)

		if wos == calendar.NonStudying {
			fmt.Printf("%s (week of %s): not a studying week\n", args[0], weekStart.Format("2006-01-02"))
			return nil
		}
		fmt.Printf("%s (week of %s): week %d of semester\n", args[0], weekStart.Format("2006-01-02"), wos)
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the on-disk schedule cache",
}

var cacheInspectCmd = &cobra.Command{
	Use:   "inspect KEY",
	Short: "Print the raw blob stored for KEY",
	Long: `Print the raw JSON blob stored for KEY in the filesystem cache tier.

KEY is the same string internal/schedule.Key.String() produces, e.g.
"2026/group А-01-22 [2026-01-05].cache".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		store, err := persistent.NewFilesystemStore(dir)
		if err != nil {
			return fmt.Errorf("failed to open cache directory %q: %w", dir, err)
		}

		blob, err := store.Get(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to read key %q: %w", args[0], err)
		}

		fmt.Println(string(blob))
		return nil
	},
}

func init() {
	weekOfSemesterCmd.Flags().String("shift-config", envutil.GetOr("SCHEDULE_SHIFT_CONFIG_PATH", "./schedule_shift.toml"), "Path to the semester shift config")
	calendarCmd.AddCommand(weekOfSemesterCmd)

	cacheInspectCmd.Flags().String("dir", defaultCacheDir(), "Schedule cache directory")
	cacheCmd.AddCommand(cacheInspectCmd)

	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(cacheCmd)
}

// defaultCacheDir runs config.Load and returns its SCHEDULE_CACHE_DIR, so the
// CLI works against the same directory the server writes to; it returns
// "./cache" when loading the configuration fails.
func defaultCacheDir() string {
	cfg, err := config.Load()
	if err != nil {
		return "./cache"
	}
	return cfg.ScheduleCache.Dir
}
