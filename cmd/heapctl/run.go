package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapsim/heap/script"
	"github.com/joshuapare/heapsim/internal/logger"
)

var runStrict bool

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script|->",
		Short: "Execute an allocator script",
		Long: `The run command executes a line-oriented allocator script against a
fresh arena. Use - to read the script from standard input.

Commands:
  alloc <label> <size>   free <label>   free-all   strategy <name>
  reset   report   blocks   map   check   echo <text>

Failed allocations and frees are logged and counted; a failed check stops
the run. With --strict any failure makes the command exit non-zero.

Example:
  heapctl run testdata/scripts/fragment.heap
  echo "alloc a 1K" | heapctl run - --capacity 4K`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), args)
		},
	}
	cmd.Flags().BoolVar(&runStrict, "strict", false, "Exit non-zero if any alloc or free fails")
	return cmd
}

func runRun(ctx context.Context, args []string) error {
	printVerbose("Parsing script: %s\n", args[0])

	s, err := script.ParseFile(args[0])
	if err != nil {
		return err
	}
	return runScript(ctx, s)
}

// runScript executes s against a fresh allocator built from cfg.
func runScript(ctx context.Context, s *script.Script) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newAllocator()
	if err != nil {
		return err
	}

	r := script.NewRunner(a, stdout(), script.WithPrinterOptions(printerOptions()))
	res, err := r.Run(ctx, s)
	if err != nil {
		return err
	}

	logger.Component("heapctl").WithField("script", s.Name).
		Infof("%d commands, %d allocs, %d frees, %d failures",
			res.Commands, res.Allocs, res.Frees, res.Failures())
	if runStrict && res.Failures() > 0 {
		return errors.Errorf("%s: %d alloc/free failure(s)", s.Name, res.Failures())
	}
	return nil
}
