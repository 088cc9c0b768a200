// Package script parses and runs line-oriented allocator scripts.
//
// A script is one command per line; blank lines and text after '#' are
// ignored:
//
//	alloc <label> <size>     allocate size bytes and bind the handle to label
//	free <label>             free the block bound to label
//	free-all                 free every live block
//	strategy <name>          switch placement (first-fit, best-fit)
//	reset                    wipe the arena
//	report | blocks | map    print state through heap/printer
//	check                    verify ledger invariants; a failure stops the run
//	echo <text>              print text
//
// Sizes accept K and M suffixes (binary units): 10K is 10240 bytes.
package script

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/joshuapare/heapsim/heap/alloc"
	"github.com/joshuapare/heapsim/internal/format"
)

// Op identifies a script command.
type Op string

const (
	OpAlloc    Op = "alloc"
	OpFree     Op = "free"
	OpFreeAll  Op = "free-all"
	OpStrategy Op = "strategy"
	OpReset    Op = "reset"
	OpReport   Op = "report"
	OpBlocks   Op = "blocks"
	OpMap      Op = "map"
	OpCheck    Op = "check"
	OpEcho     Op = "echo"
)

// arity is the number of arguments each op takes; -1 means free text.
var arity = map[Op]int{
	OpAlloc:    2,
	OpFree:     1,
	OpFreeAll:  0,
	OpStrategy: 1,
	OpReset:    0,
	OpReport:   0,
	OpBlocks:   0,
	OpMap:      0,
	OpCheck:    0,
	OpEcho:     -1,
}

// Command is one parsed line.
type Command struct {
	Line     int
	Op       Op
	Label    string         // alloc, free
	Size     int            // alloc
	Strategy alloc.Strategy // strategy
	Text     string         // echo
}

// Script is a parsed, syntactically valid script.
type Script struct {
	Name     string
	Commands []Command
}

// Parse reads a script. Errors carry the 1-based line number.
func Parse(r io.Reader) (*Script, error) {
	s := &Script{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		cmd, err := parseCommand(fields)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		cmd.Line = line
		s.Commands = append(s.Commands, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	return s, nil
}

// ParseFile parses the script at path. "-" reads standard input.
func ParseFile(path string) (*Script, error) {
	if path == "-" {
		s, err := Parse(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(err, "stdin")
		}
		s.Name = "stdin"
		return s, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open script")
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	s.Name = path
	return s, nil
}

func parseCommand(fields []string) (Command, error) {
	op := Op(strings.ToLower(fields[0]))
	args := fields[1:]

	want, ok := arity[op]
	if !ok {
		return Command{}, errors.Errorf("unknown command %q", fields[0])
	}
	if want >= 0 && len(args) != want {
		return Command{}, errors.Errorf("%s takes %d argument(s), got %d", op, want, len(args))
	}

	cmd := Command{Op: op}
	switch op {
	case OpAlloc:
		size, err := format.ParseSize(args[1])
		if err != nil {
			return Command{}, errors.WithStack(err)
		}
		cmd.Label, cmd.Size = args[0], size
	case OpFree:
		cmd.Label = args[0]
	case OpStrategy:
		s, err := alloc.ParseStrategy(args[0])
		if err != nil {
			return Command{}, err
		}
		cmd.Strategy = s
	case OpEcho:
		cmd.Text = strings.Join(args, " ")
	}
	return cmd, nil
}
