package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/coursegen/coursegen/internal/broker"
	"github.com/coursegen/coursegen/internal/course"
	"github.com/coursegen/coursegen/internal/op"
	"github.com/coursegen/coursegen/internal/report"
	"github.com/coursegen/coursegen/internal/scheduler"
	"github.com/coursegen/coursegen/internal/spec"
	"github.com/coursegen/coursegen/internal/watcher"
)

var (
	dataDir    string
	outputDir  string
	watchMode  bool
	reportPath string
)

func init() {
	rootCmd.Flags().StringVarP(&dataDir, "data-dir", "d", "", "Course content root (default: the outline's grandparent directory)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output root (default: <data-dir>/output)")
	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Keep running and rebuild on filesystem changes")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "Write per-operation outcomes to a SQLite report file")
}

var rootCmd = &cobra.Command{
	Use:           "coursegen <outline.xml>",
	Short:         "Build a course's output matrix from its declarative outline",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		outlinePath, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if dataDir == "" {
			dataDir = filepath.Dir(filepath.Dir(outlinePath))
		}
		if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
			return fmt.Errorf("data directory %s does not exist", dataDir)
		}
		if outputDir == "" {
			outputDir = filepath.Join(dataDir, "output")
		}

		courseSpec, err := spec.ParseFile(outlinePath)
		if err != nil {
			return err
		}
		c, err := course.FromSpec(courseSpec, dataDir, outputDir)
		if err != nil {
			return err
		}

		client, err := broker.Connect(ctx, broker.URLFromEnv())
		if err != nil {
			return err
		}
		defer client.Close()

		var reportWriter *report.Writer
		if reportPath != "" {
			reportWriter, err = report.Open(reportPath)
			if err != nil {
				return err
			}
			defer reportWriter.Close()
		}

		env := op.NewEnv(client, reportWriter)
		sched := scheduler.New(c, env)
		sched.ProcessAll(ctx)

		if !watchMode {
			return nil
		}
		w, err := watcher.New(c, sched)
		if err != nil {
			return fmt.Errorf("starting change watcher: %w", err)
		}
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	// A .env next to the working directory is a convenience for local
	// development; its absence is not an error.
	_ = godotenv.Load()
	setupLogging()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
