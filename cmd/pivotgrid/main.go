package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ============================================================================
// PIVOTGRID CLI — Query response or CSV → render-ready grid
// ============================================================================

const version = "0.3.0"

var (
	logLevel string
	logFile  string
	noColor  bool

	logOutput io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "pivotgrid",
	Short: "Reshape BI query results into pivot grids",
	Long: `pivotgrid turns a BI query response (fields, pivots, cell rows) or a plain
CSV file into a render-ready grid: column plan, flat rows, subtotals,
conditional-formatting ranges. Output as JSON, CSV or XLSX.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logOutput != nil {
			logOutput.Close()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&logFile, "log-file", "", "Write logs to a rotating file instead of stderr")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(renderCmd, csvCmd, discoverCmd, optionsCmd, configSchemaCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var panel *errorPanel
		if !errors.As(err, &panel) {
			color.Red("Error: %s", err)
		}
		os.Exit(1)
	}
}

// setupLogging installs the default slog logger: tint on stderr, or a text
// handler over a lumberjack file.
func setupLogging() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	color.NoColor = color.NoColor || noColor

	var handler slog.Handler
	if logFile != "" {
		lj := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		logOutput = lj
		handler = slog.NewTextHandler(lj, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			NoColor:    noColor || runtime.GOOS == "windows",
			TimeFormat: "15:04:05",
		})
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
