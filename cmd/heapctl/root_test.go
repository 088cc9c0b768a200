package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapsim/heap/alloc"
	"github.com/joshuapare/heapsim/heap/printer"
	"github.com/joshuapare/heapsim/internal/config"
)

func TestLoadConfigFlags(t *testing.T) {
	resetFlags(t, func() {
		capacityFlag = "64K"
		strategyFlag = "best"
		jsonOut = true
	})

	assert.Equal(t, config.Size(64<<10), cfg.Capacity)
	assert.Equal(t, alloc.BestFit, cfg.Strategy)
	assert.False(t, cfg.Report.Color, "--no-color disables map colours")

	a, err := newAllocator()
	require.NoError(t, err)
	assert.Equal(t, 64<<10, a.Capacity())
	assert.Equal(t, alloc.BestFit, a.Strategy())

	opts := printerOptions()
	assert.Equal(t, printer.FormatJSON, opts.Format)
}

func TestLoadConfigRejectsBadFlags(t *testing.T) {
	resetFlags(t, nil)

	capacityFlag = "huge"
	assert.Error(t, loadConfig())

	capacityFlag = "16"
	assert.ErrorIs(t, loadConfig(), alloc.ErrCapacityTooSmall)

	capacityFlag, strategyFlag = "", "worst-fit"
	assert.ErrorIs(t, loadConfig(), alloc.ErrUnknownStrategy)

	strategyFlag = ""
	configPath = "does/not/exist.yaml"
	assert.Error(t, loadConfig())
	configPath = ""
}

func TestLoadConfigEnv(t *testing.T) {
	resetFlags(t, nil)

	t.Setenv(config.EnvStrategy, "best-fit")
	require.NoError(t, loadConfig())
	assert.Equal(t, alloc.BestFit, cfg.Strategy)

	strategyFlag = "first-fit"
	require.NoError(t, loadConfig())
	assert.Equal(t, alloc.FirstFit, cfg.Strategy, "flags win over the environment")
	strategyFlag = ""
}

func TestFitMapWidth(t *testing.T) {
	assert.Equal(t, 50, fitMapWidth(50, 200))
	assert.Equal(t, 28, fitMapWidth(50, 40))
	assert.Equal(t, 50, fitMapWidth(50, 15), "too narrow to bother")
}

func TestVersionCommand(t *testing.T) {
	resetFlags(t, nil)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	output, err := captureOutput(t, rootCmd.Execute)
	require.NoError(t, err)
	assertContains(t, output, []string{"heapctl dev", "commit: none"})
}

func TestVersionCommandJSON(t *testing.T) {
	resetFlags(t, nil)
	rootCmd.SetArgs([]string{"version", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		jsonOut = false
	}()

	output, err := captureOutput(t, rootCmd.Execute)
	require.NoError(t, err)
	assertJSON(t, output)
	assertContains(t, output, []string{`"version": "dev"`, `"commit": "none"`, `"built": "unknown"`})
	assertNotContains(t, output, []string{"heapctl dev"})
}

func TestPrintInfoStaysOffStdoutWithJSON(t *testing.T) {
	resetFlags(t, func() { jsonOut = true })
	defer func() { jsonOut = false }()

	output, err := captureOutput(t, func() error {
		printInfo("Memory allocator API running on http://%s\n", cfg.Server.Addr())
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, output)
}
