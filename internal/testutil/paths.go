package testutil

// Test script paths relative to the repository root.
// These constants should be used instead of hardcoding paths in test files.
const (
	// ScriptFragment allocates, frees every other block and checks the ledger.
	ScriptFragment = "testdata/scripts/fragment.heap"

	// ScriptStrategies shows first-fit and best-fit choosing different holes.
	ScriptStrategies = "testdata/scripts/strategies.heap"

	// ScriptBadSyntax fails to parse on line 3.
	ScriptBadSyntax = "testdata/scripts/bad_syntax.heap"
)
