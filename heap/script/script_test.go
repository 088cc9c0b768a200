package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapsim/heap/alloc"
	"github.com/joshuapare/heapsim/internal/testutil"
)

func TestParse(t *testing.T) {
	src := `
# comment line
alloc a 100   # trailing comment
ALLOC b 2K
free a
strategy BEST_FIT
echo hello   world
free-all
report
`
	s, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, s.Commands, 7)

	assert.Equal(t, Command{Line: 3, Op: OpAlloc, Label: "a", Size: 100}, s.Commands[0])
	assert.Equal(t, Command{Line: 4, Op: OpAlloc, Label: "b", Size: 2048}, s.Commands[1])
	assert.Equal(t, Command{Line: 5, Op: OpFree, Label: "a"}, s.Commands[2])
	assert.Equal(t, Command{Line: 6, Op: OpStrategy, Strategy: alloc.BestFit}, s.Commands[3])
	assert.Equal(t, "hello world", s.Commands[4].Text)
	assert.Equal(t, OpFreeAll, s.Commands[5].Op)
	assert.Equal(t, OpReport, s.Commands[6].Op)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown command", "alloc a 1\nmalloc b 2\n", `line 2: unknown command "malloc"`},
		{"missing size", "alloc a\n", "line 1: alloc takes 2 argument(s), got 1"},
		{"extra argument", "reset now\n", "line 1: reset takes 0 argument(s), got 1"},
		{"bad size", "\n\nalloc a 1Q\n", `line 3: invalid size "1Q"`},
		{"bad strategy", "strategy worst-fit\n", "line 1:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseStrategyErrorKeepsSentinel(t *testing.T) {
	_, err := Parse(strings.NewReader("strategy next-fit\n"))
	require.ErrorIs(t, err, alloc.ErrUnknownStrategy)
}

func TestParseFile(t *testing.T) {
	path := testutil.ResolvePath(t, testutil.ScriptFragment)

	s, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Name)
	assert.NotEmpty(t, s.Commands)

	bad := testutil.ResolvePath(t, testutil.ScriptBadSyntax)
	_, err = ParseFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "bad_syntax.heap")

	_, err = ParseFile("does/not/exist.heap")
	require.Error(t, err)
}

func TestDemoParses(t *testing.T) {
	s := Demo()
	assert.Equal(t, "demo", s.Name)
	assert.NotEmpty(t, s.Commands)
	assert.Contains(t, DemoSource(), "alloc block3 100K")
}
