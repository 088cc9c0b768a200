package script

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/heapsim/heap/alloc"
	"github.com/joshuapare/heapsim/heap/printer"
	"github.com/joshuapare/heapsim/internal/logger"
)

// Result tallies a run. Allocation and free failures are counted, not fatal.
type Result struct {
	Commands      int
	Allocs        int
	AllocFailures int
	Frees         int
	FreeFailures  int
}

// Failures returns the number of failed allocs and frees.
func (r Result) Failures() int {
	return r.AllocFailures + r.FreeFailures
}

// Runner executes scripts against one allocator. Labels persist across runs
// until the allocator is reset.
type Runner struct {
	alloc  *alloc.Allocator
	out    io.Writer
	print  *printer.Printer
	asJSON bool // Printer emits JSON; echo text goes to the log
	log    logrus.FieldLogger
	labels map[string]alloc.Handle
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger for per-command events.
func WithLogger(l logrus.FieldLogger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithPrinterOptions sets how report, blocks and map render.
func WithPrinterOptions(opts printer.Options) RunnerOption {
	return func(r *Runner) {
		r.print = printer.New(r.alloc, r.out, opts)
		r.asJSON = opts.Format == printer.FormatJSON
	}
}

// NewRunner creates a runner that prints to out.
func NewRunner(a *alloc.Allocator, out io.Writer, opts ...RunnerOption) *Runner {
	r := &Runner{
		alloc:  a,
		out:    out,
		log:    logger.Component("script"),
		labels: make(map[string]alloc.Handle),
	}
	r.print = printer.New(a, out, printer.DefaultOptions())
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle returns the live handle bound to label.
func (r *Runner) Handle(label string) (alloc.Handle, bool) {
	h, ok := r.labels[label]
	return h, ok
}

// Run executes s. It stops early on a failed check, a print error or ctx
// cancellation; the partial Result is returned alongside the error.
func (r *Runner) Run(ctx context.Context, s *Script) (Result, error) {
	var res Result
	for _, cmd := range s.Commands {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Commands++
		if err := r.exec(cmd, &res); err != nil {
			return res, errors.Wrapf(err, "%sline %d", scriptPrefix(s), cmd.Line)
		}
	}

	r.log.WithFields(logrus.Fields{
		"commands": res.Commands,
		"failures": res.Failures(),
	}).Debug("script finished")
	return res, nil
}

func scriptPrefix(s *Script) string {
	if s.Name == "" {
		return ""
	}
	return s.Name + ": "
}

func (r *Runner) exec(cmd Command, res *Result) error {
	log := r.log.WithField("line", cmd.Line)

	switch cmd.Op {
	case OpAlloc:
		r.allocate(log, cmd, res)
	case OpFree:
		r.free(log, cmd, res)
	case OpFreeAll:
		n := r.alloc.FreeAll()
		clear(r.labels)
		res.Frees += n
		log.WithField("count", n).Info("freed all blocks")
	case OpStrategy:
		r.alloc.SetStrategy(cmd.Strategy)
		log.WithField("strategy", cmd.Strategy).Info("strategy set")
	case OpReset:
		r.alloc.Reset()
		clear(r.labels)
		log.Info("arena reset")
	case OpReport:
		return r.print.PrintReport()
	case OpBlocks:
		return r.print.PrintBlocks()
	case OpMap:
		return r.print.PrintMap()
	case OpCheck:
		if err := r.alloc.Check(); err != nil {
			return err
		}
		log.Debug("check passed")
	case OpEcho:
		if r.asJSON {
			log.WithField("text", cmd.Text).Info("echo")
			return nil
		}
		_, err := fmt.Fprintln(r.out, cmd.Text)
		return err
	default:
		return errors.Errorf("unknown command %q", cmd.Op)
	}
	return nil
}

func (r *Runner) allocate(log logrus.FieldLogger, cmd Command, res *Result) {
	log = log.WithFields(logrus.Fields{"label": cmd.Label, "size": cmd.Size})

	if _, live := r.labels[cmd.Label]; live {
		res.AllocFailures++
		log.Warn("alloc failed: label already holds a live block")
		return
	}

	h, err := r.alloc.Alloc(cmd.Size)
	if err != nil {
		res.AllocFailures++
		log.WithError(err).Warn("alloc failed")
		return
	}
	r.labels[cmd.Label] = h
	res.Allocs++
	log.WithField("handle", int(h)).Info("allocated")
}

func (r *Runner) free(log logrus.FieldLogger, cmd Command, res *Result) {
	log = log.WithField("label", cmd.Label)

	h, ok := r.labels[cmd.Label]
	if !ok {
		res.FreeFailures++
		log.Warn("free failed: unknown label")
		return
	}
	if err := r.alloc.Free(h); err != nil {
		res.FreeFailures++
		log.WithError(err).Warn("free failed")
		return
	}
	delete(r.labels, cmd.Label)
	res.Frees++
	log.WithField("handle", int(h)).Info("freed")
}
