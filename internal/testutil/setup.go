// Package testutil holds fixtures shared by tests across packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/heapsim/heap/alloc"
	"github.com/joshuapare/heapsim/internal/logger"
)

// NewAllocator creates an allocator with logging silenced.
// Calls t.Fatal if construction fails.
//
// Example:
//
//	a := testutil.NewAllocator(t, 1024, alloc.FirstFit)
func NewAllocator(t testing.TB, capacity int, s alloc.Strategy) *alloc.Allocator {
	t.Helper()

	a, err := alloc.New(capacity, s, alloc.WithLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("Failed to create allocator: %v", err)
	}
	return a
}

// NewFragmented returns a 1 KiB allocator laid out as [F100][A200][F676]:
// two allocations with the first one freed again.
func NewFragmented(t testing.TB, s alloc.Strategy) *alloc.Allocator {
	t.Helper()

	a := NewAllocator(t, 1024, s)
	first, err := a.Alloc(100)
	if err != nil {
		t.Fatalf("Alloc(100): %v", err)
	}
	if _, err = a.Alloc(200); err != nil {
		t.Fatalf("Alloc(200): %v", err)
	}
	if err = a.Free(first); err != nil {
		t.Fatalf("Free: %v", err)
	}
	return a
}

// ResolvePath finds a repository-relative file from whichever package
// directory the test runs in. Calls t.Skip if it cannot be found.
func ResolvePath(t testing.TB, relativePath string) string {
	t.Helper()

	// Try paths in order of likelihood
	candidates := []string{
		relativePath,                  // Direct path (from repo root)
		"../" + relativePath,          // From package one level deep
		"../../" + relativePath,       // From package two levels deep (e.g., heap/script/)
		"../../../" + relativePath,    // From package three levels deep
		"../../../../" + relativePath, // From package four levels deep
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			abs, absErr := filepath.Abs(path)
			if absErr != nil {
				return path
			}
			return abs
		}
	}

	t.Skipf("Test file not found at any candidate path starting from: %s", relativePath)
	return "" // unreachable
}
