package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Emil-Stampfly-He/rest-reminder/internal/config"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/logbook"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/monitor"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/notify"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/plot"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/plugin"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/procwatch"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/stats"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/ui"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/web"
)

var (
	cfgPath string
	cfg     *config.Config
)

// NewRootCmd builds a fresh command tree. The interactive shell creates
// one per input line so repeated executions don't share flag state.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rest-reminder",
		Short: "Detects if you're working too long and reminds you to rest",
		Long:  `Rest Reminder watches for your work applications and reminds you to take a break after working non-stop for too long. It also answers time-accounting queries against the work log it keeps.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip config loading for help command
			if cmd.Name() == "help" {
				return nil
			}
			var err error
			cfg, err = config.LoadConfig(cfgPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (default: ~/.rest-reminder/config.toml)")

	rootCmd.AddCommand(newRestCmd())
	rootCmd.AddCommand(newCountPreciseCmd())
	rootCmd.AddCommand(newCountCmd())
	rootCmd.AddCommand(newCountSingleDayCmd())
	rootCmd.AddCommand(newPlotCmd())
	rootCmd.AddCommand(newGenCmd())
	rootCmd.AddCommand(newWebCmd())
	rootCmd.AddCommand(newInfoCmd())
	return rootCmd
}

func newRestCmd() *cobra.Command {
	var (
		logTo     string
		threshold uint64
		apps      []string
	)
	cmd := &cobra.Command{
		Use:   "rest",
		Short: "Start monitoring and remind you to rest",
		Long:  "Watch for the configured applications and, once one has been running continuously past the threshold, pop a break reminder and append the work interval to the log.",
		Run: func(cmd *cobra.Command, args []string) {
			if !cmd.Flags().Changed("log-to") {
				logTo = cfg.LogPath
			}
			if !cmd.Flags().Changed("time") {
				threshold = cfg.Time
			}
			if !cmd.Flags().Changed("app") {
				apps = cfg.Apps
			}

			ui.Warnf("Starting Rest Reminder...")

			plugins := plugin.NewManager()
			if err := plugins.Load(cfg.PluginDir); err != nil {
				ui.Alertf("Failed to load plugins: %v", err)
			}

			m := monitor.New(
				procwatch.NewSystemSource(),
				notify.NewPopup(),
				plugins,
				logTo,
				time.Duration(threshold)*time.Second,
				apps,
			)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := m.Run(ctx); err != nil {
				ui.Alertf("Monitoring failed: %v", err)
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVarP(&logTo, "log-to", "l", "", "Where to save the log file")
	cmd.Flags().Uint64VarP(&threshold, "time", "t", 3600, "How many seconds to work non stop before reminding")
	cmd.Flags().StringSliceVarP(&apps, "app", "a", nil, "What software(s) to detect")
	return cmd
}

func newCountPreciseCmd() *cobra.Command {
	var (
		logLocation string
		startStr    string
		endStr      string
	)
	cmd := &cobra.Command{
		Use:   "count-precise",
		Short: "Count work time between precise timestamps",
		Run: func(cmd *cobra.Command, args []string) {
			if !cmd.Flags().Changed("log-location") {
				logLocation = cfg.LogPath
			}
			start, err := logbook.ParseLocalDateTime(startStr)
			if err != nil {
				fail(err)
			}
			end, err := logbook.ParseLocalDateTime(endStr)
			if err != nil {
				fail(err)
			}
			sec, err := stats.PreciseRange(logLocation, start, end)
			if err != nil {
				fail(err)
			}
			printWorkTime(sec, "during this period of time")
		},
	}
	cmd.Flags().StringVarP(&logLocation, "log-location", "l", "", "Log file path")
	cmd.Flags().StringVarP(&startStr, "start", "s", "", "Start time (YYYY-MM-DD HH:MM:SS)")
	cmd.Flags().StringVarP(&endStr, "end", "e", "", "End time (YYYY-MM-DD HH:MM:SS)")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func newCountCmd() *cobra.Command {
	var (
		logLocation string
		startStr    string
		endStr      string
	)
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count work time between two days",
		Run: func(cmd *cobra.Command, args []string) {
			if !cmd.Flags().Changed("log-location") {
				logLocation = cfg.LogPath
			}
			startDay, err := logbook.ParseLocalDay(startStr)
			if err != nil {
				fail(err)
			}
			endDay, err := logbook.ParseLocalDay(endStr)
			if err != nil {
				fail(err)
			}
			sec, err := stats.DayRange(logLocation, startDay, endDay)
			if err != nil {
				fail(err)
			}
			printWorkTime(sec, "during these days")
		},
	}
	cmd.Flags().StringVarP(&logLocation, "log-location", "l", "", "Log file path")
	cmd.Flags().StringVarP(&startStr, "start", "s", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&endStr, "end", "e", "", "End date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func newCountSingleDayCmd() *cobra.Command {
	var (
		logLocation string
		dayStr      string
	)
	cmd := &cobra.Command{
		Use:   "count-single-day",
		Short: "Count work time for a specific day",
		Run: func(cmd *cobra.Command, args []string) {
			if !cmd.Flags().Changed("log-location") {
				logLocation = cfg.LogPath
			}
			day, err := logbook.ParseLocalDay(dayStr)
			if err != nil {
				fail(err)
			}
			sec, err := stats.SingleDay(logLocation, day)
			if err != nil {
				fail(err)
			}
			printWorkTime(sec, "during this day")
		},
	}
	cmd.Flags().StringVarP(&logLocation, "log-location", "l", "", "Log file path")
	cmd.Flags().StringVarP(&dayStr, "day", "d", "", "Date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("day")
	return cmd
}

func newPlotCmd() *cobra.Command {
	var (
		logLocation  string
		plotLocation string
		startStr     string
		endStr       string
	)
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Generate work time trend plot",
		Run: func(cmd *cobra.Command, args []string) {
			if !cmd.Flags().Changed("log-location") {
				logLocation = cfg.LogPath
			}
			if !cmd.Flags().Changed("plot-location") {
				plotLocation = cfg.PlotPath
			}
			startDay, err := logbook.ParseLocalDay(startStr)
			if err != nil {
				fail(err)
			}
			endDay, err := logbook.ParseLocalDay(endStr)
			if err != nil {
				fail(err)
			}

			ui.Warnf("Generating plot...")
			if err := plot.Render(logLocation, plotLocation, startDay, endDay); err != nil {
				fail(fmt.Errorf("failed to plot your working trend: %w", err))
			}
			ui.Successf("Plot generated successfully!")
		},
	}
	cmd.Flags().StringVarP(&logLocation, "log-location", "l", "", "Log file path")
	cmd.Flags().StringVarP(&plotLocation, "plot-location", "p", "", "Output plot file path")
	cmd.Flags().StringVarP(&startStr, "start", "s", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&endStr, "end", "e", "", "End date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func newGenCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "(FOR DEV USE ONLY) Generate plugin template",
		Run: func(cmd *cobra.Command, args []string) {
			ui.Warnf("Generating plugin template...")
			if err := plugin.Template(cfg.PluginDir, name); err != nil {
				fail(err)
			}
			fmt.Println("Successfully generated plugin.")
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Template file name")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newWebCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "web",
		Short: "Start web mode",
		Run: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err == nil {
				fmt.Println("Loaded environment from .env")
			}
			addr := cfg.WebAddr
			if env := os.Getenv("REST_REMINDER_ADDR"); env != "" {
				addr = env
			}

			plugins := plugin.NewManager()
			if err := plugins.Load(cfg.PluginDir); err != nil {
				ui.Alertf("Failed to load plugins: %v", err)
			}

			ui.Warnf("Starting web server...")
			srv := web.NewServer(plugins, nil)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ui.Successf("Web server started: http://%s", addr)
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				fail(err)
			}
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show loaded configuration",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Config loaded:\n")
			fmt.Printf("  Log path:   %s\n", cfg.LogPath)
			fmt.Printf("  Threshold:  %d seconds\n", cfg.Time)
			fmt.Printf("  Apps:       %v\n", cfg.Apps)
			fmt.Printf("  Plugin dir: %s\n", cfg.PluginDir)
			fmt.Printf("  Web addr:   %s\n", cfg.WebAddr)
			fmt.Printf("  Plot path:  %s\n", cfg.PlotPath)
		},
	}
}

// printWorkTime prints a second count the three ways the user expects.
func printWorkTime(sec int64, suffix string) {
	fmt.Printf("You worked %v seconds %s\n", sec, suffix)
	fmt.Printf("Or %v minutes\n", float64(sec)/60.0)
	fmt.Printf("Or %v hours\n", float64(sec)/3600.0)
}

func fail(err error) {
	ui.Alertf("%v", err)
	os.Exit(1)
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
