package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapsim/heap/alloc"
	"github.com/joshuapare/heapsim/heap/printer"
	"github.com/joshuapare/heapsim/internal/config"
	"github.com/joshuapare/heapsim/internal/format"
	"github.com/joshuapare/heapsim/internal/logger"
)

var (
	// Global flags
	verbose      bool
	quiet        bool
	jsonOut      bool
	noColor      bool
	configPath   string
	capacityFlag string
	strategyFlag string

	// cfg is resolved once per invocation by loadConfig.
	cfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Simulate a first-fit/best-fit heap allocator",
	Long: `heapctl drives a simulated heap: a fixed-size arena carved into blocks
with headers, split on allocation and coalesced on free. It can run the
built-in demo, execute allocator scripts, or serve a JSON API.`,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return loadConfig() },
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().
		StringVar(&capacityFlag, "capacity", "", "Arena size in bytes, K/M suffixes allowed (default 1M)")
	rootCmd.PersistentFlags().
		StringVarP(&strategyFlag, "strategy", "s", "", "Placement strategy: first-fit or best-fit")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers flags over the config file and environment, then sets
// up logging.
func loadConfig() error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if capacityFlag != "" {
		n, err := format.ParseSize(capacityFlag)
		if err != nil {
			return errors.Wrap(err, "--capacity")
		}
		c.Capacity = config.Size(n)
	}
	if strategyFlag != "" {
		s, err := alloc.ParseStrategy(strategyFlag)
		if err != nil {
			return errors.Wrap(err, "--strategy")
		}
		c.Strategy = s
	}
	if noColor {
		c.Log.NoColor = true
		c.Report.Color = false
	}
	switch {
	case quiet:
		c.Log.Level = logrus.ErrorLevel.String()
	case verbose:
		c.Log.Level = logrus.DebugLevel.String()
	}
	if err := c.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.Options{
		Level:   c.Log.Level,
		Out:     os.Stderr,
		NoColor: c.Log.NoColor,
	}); err != nil {
		return errors.Wrap(err, "log level")
	}
	cfg = c
	return nil
}

// newAllocator builds the engine described by cfg.
func newAllocator() (*alloc.Allocator, error) {
	printVerbose("Creating %d byte arena (%s)\n", int(cfg.Capacity), cfg.Strategy)
	return alloc.New(int(cfg.Capacity), cfg.Strategy)
}

// printerOptions returns report options for stdout, narrowing the memory
// map to fit the terminal.
func printerOptions() printer.Options {
	opts := cfg.PrinterOptions()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	if cols, ok := terminalWidth(os.Stdout); ok {
		opts.MapWidth = fitMapWidth(opts.MapWidth, cols)
	}
	return opts
}

// mapSuffixWidth leaves room for the " 1001-1050" range after each map line.
const mapSuffixWidth = 12

// fitMapWidth shrinks width so a map line plus its range suffix fits in cols.
func fitMapWidth(width, cols int) int {
	avail := cols - mapSuffixWidth
	if avail < 10 {
		return width
	}
	return min(width, avail)
}

// stdout returns where command output goes, honouring --quiet.
func stdout() io.Writer {
	if quiet {
		return io.Discard
	}
	return os.Stdout
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode. With --json it goes
// to stderr so stdout stays parseable.
func printInfo(format string, args ...interface{}) {
	if quiet {
		return
	}
	if jsonOut {
		fmt.Fprintf(os.Stderr, format, args...)
		return
	}
	fmt.Fprintf(os.Stdout, format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
