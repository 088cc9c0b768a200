package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapsim/heap/alloc"
	"github.com/joshuapare/heapsim/internal/format"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "heapsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func noEnv(string) (string, bool) { return "", false }

// clearEnv unsets every HEAP_* override for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{EnvCapacity, EnvStrategy, EnvAddr, EnvLogLevel} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefaults(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Size(1<<20), cfg.Capacity)
	assert.Equal(t, alloc.FirstFit, cfg.Strategy)
	assert.Equal(t, "localhost:3000", cfg.Server.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 50, cfg.Report.MapWidth)
	assert.Equal(t, 100, cfg.Report.MapSymbols)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
capacity: 64K
strategy: best-fit
server:
  host: 0.0.0.0
  port: 8080
log:
  level: debug
  no_color: true
report:
  map_width: 25
`)
	clearEnv(t)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Size(64<<10), cfg.Capacity)
	assert.Equal(t, alloc.BestFit, cfg.Strategy)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.NoColor)
	assert.Equal(t, 25, cfg.Report.MapWidth)
	assert.Equal(t, 100, cfg.Report.MapSymbols, "unset keys keep defaults")
}

func TestLoadPlainIntegerCapacity(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, "capacity: 4096\n"))
	require.NoError(t, err)
	assert.Equal(t, Size(4096), cfg.Capacity)
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, New(), cfg)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "strategy: worst-fit\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "capacity: lots\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")

	_, err = Load(writeConfig(t, "capacity: 16\n"))
	require.ErrorIs(t, err, alloc.ErrCapacityTooSmall)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvCapacity: "2M",
		EnvStrategy: "BEST_FIT",
		EnvAddr:     ":9000",
		EnvLogLevel: "warn",
	}
	cfg := New()
	require.NoError(t, cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))

	assert.Equal(t, Size(2<<20), cfg.Capacity)
	assert.Equal(t, alloc.BestFit, cfg.Strategy)
	assert.Equal(t, "", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestApplyEnvErrors(t *testing.T) {
	for key, val := range map[string]string{
		EnvCapacity: "big",
		EnvStrategy: "next-fit",
		EnvAddr:     "no-port",
	} {
		cfg := New()
		err := cfg.ApplyEnv(func(k string) (string, bool) {
			if k == key {
				return val, true
			}
			return "", false
		})
		require.Error(t, err, key)
		assert.Contains(t, err.Error(), key)
	}
}

func TestApplyEnvCapacityOverflow(t *testing.T) {
	cfg := New()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		if k == EnvCapacity {
			return "17592186044417M", true
		}
		return "", false
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflows")
	assert.Equal(t, Size(format.DefaultCapacity), cfg.Capacity, "capacity keeps its default")
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "strategy: best-fit\n")
	t.Setenv(EnvStrategy, "first-fit")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, alloc.FirstFit, cfg.Strategy)
}

func TestValidate(t *testing.T) {
	cfg := New()
	cfg.Server.Port = 70000
	require.Error(t, cfg.Validate())

	cfg = New()
	cfg.Report.MapWidth = 0
	require.Error(t, cfg.Validate())

	cfg = New()
	cfg.Strategy = alloc.Strategy(5)
	require.ErrorIs(t, cfg.Validate(), alloc.ErrUnknownStrategy)

	require.NoError(t, New().ApplyEnv(noEnv))
}

func TestPrinterOptions(t *testing.T) {
	cfg := New()
	cfg.Report.MapWidth = 30
	cfg.Report.Color = false

	opts := cfg.PrinterOptions()
	assert.Equal(t, 30, opts.MapWidth)
	assert.Equal(t, 100, opts.MapSymbols)
	assert.False(t, opts.Color)
}
