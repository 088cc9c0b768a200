package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/heapsim/internal/config"
	"github.com/joshuapare/heapsim/internal/logger"
)

// resetFlags restores global flags, clears HEAP_* overrides and loads a
// fresh config. Extra setup can adjust flags before loading.
func resetFlags(t *testing.T, setup func()) {
	t.Helper()

	for _, key := range []string{config.EnvCapacity, config.EnvStrategy, config.EnvAddr, config.EnvLogLevel} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	verbose, quiet, jsonOut, noColor = false, false, false, true
	configPath, capacityFlag, strategyFlag = "", "", ""
	demoPrint, runStrict, serveAddr = false, false, ""
	if setup != nil {
		setup()
	}

	if err := loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if err := logger.Init(logger.Options{Out: io.Discard}); err != nil {
		t.Fatalf("logger.Init: %v", err)
	}
}

// scriptPath returns the absolute path to a test script file
func scriptPath(t *testing.T, name string) string {
	t.Helper()
	// Go up two directories from cmd/heapctl to repo root
	path := filepath.Join("..", "..", "testdata", "scripts", name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("test file not found: %s", path)
	}
	return path
}

// writeScript writes body to a temporary script file.
func writeScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.heap")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Drain concurrently so large outputs cannot fill the pipe
	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() {
		_, copyErr := buf.ReadFrom(r)
		done <- copyErr
	}()

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	if err := <-done; err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	r.Close()

	return buf.String(), fnErr
}

// assertJSON checks that output is a stream of valid JSON documents
func assertJSON(t *testing.T, output string) {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(output))
	for dec.More() {
		var result interface{}
		if err := dec.Decode(&result); err != nil {
			t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
			return
		}
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
