package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapsim/heap/script"
)

var demoPrint bool

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in allocation demo",
		Long: `The demo command allocates 1K, 10K, 100K and 5K blocks under first-fit,
frees the second and fourth to fragment the arena, places a 3K block,
switches to best-fit for a 1K block, then frees everything to show
coalescing. Reports, block tables and memory maps are printed along the way.

Example:
  heapctl demo
  heapctl demo --strategy best-fit --json
  heapctl demo --print > demo.heap`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&demoPrint, "print", false, "Print the demo script instead of running it")
	return cmd
}

type demoSource struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

func runDemo(ctx context.Context) error {
	if demoPrint {
		if quiet {
			return nil
		}
		if jsonOut {
			return printJSON(demoSource{Name: script.Demo().Name, Source: script.DemoSource()})
		}
		fmt.Fprint(os.Stdout, script.DemoSource())
		return nil
	}
	return runScript(ctx, script.Demo())
}
