// Package printer renders allocator state as reports, block tables and a
// symbolic memory map, in text or JSON.
package printer

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapsim/heap/alloc"
)

const (
	DefaultMapWidth   = 50
	DefaultMapSymbols = 100
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text format.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// ParseFormat maps a name to a Format.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatText, FormatJSON:
		return Format(name), nil
	}
	return "", fmt.Errorf("printer: unknown format %q", name)
}

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// MapSymbols is how many symbols the whole arena spans in PrintMap.
	// Each symbol stands for capacity/MapSymbols bytes.
	// Default: 100
	MapSymbols int

	// MapWidth is the number of symbols per map line.
	// Default: 50
	MapWidth int

	// Color enables lipgloss styling of map symbols. It has no effect when the
	// writer is not a terminal.
	// Default: false
	Color bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:     FormatText,
		MapSymbols: DefaultMapSymbols,
		MapWidth:   DefaultMapWidth,
		Color:      false,
	}
}

// Source is the read side of an allocator. *alloc.Allocator satisfies it.
type Source interface {
	Capacity() int
	Strategy() alloc.Strategy
	Stats() alloc.Stats
	Blocks() []alloc.BlockInfo
}

// Printer handles formatted output of allocator state.
type Printer struct {
	opts   Options
	writer io.Writer
	src    Source
	num    *message.Printer
}

// New creates a new Printer.
//
// Example:
//
//	a, _ := alloc.New(1<<20, alloc.FirstFit)
//	p := printer.New(a, os.Stdout, printer.DefaultOptions())
//	p.PrintReport()
func New(src Source, w io.Writer, opts Options) *Printer {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if opts.MapSymbols <= 0 {
		opts.MapSymbols = DefaultMapSymbols
	}
	if opts.MapWidth <= 0 {
		opts.MapWidth = DefaultMapWidth
	}
	return &Printer{
		opts:   opts,
		writer: w,
		src:    src,
		num:    message.NewPrinter(language.English),
	}
}

// PrintReport prints capacity, strategy and the aggregate statistics.
func (p *Printer) PrintReport() error {
	if p.opts.Format == FormatJSON {
		return p.writeJSON(p.report())
	}
	return p.printReportText()
}

// PrintBlocks prints every block in address order.
func (p *Printer) PrintBlocks() error {
	if p.opts.Format == FormatJSON {
		return p.writeJSON(blocksJSON(p.src.Blocks()))
	}
	return p.printBlocksText()
}

// PrintMap prints the symbolic memory map.
func (p *Printer) PrintMap() error {
	if p.opts.Format == FormatJSON {
		return p.writeJSON(p.memoryMap())
	}
	return p.printMapText()
}

// PrintSnapshot prints report, blocks and map. In JSON mode the three are
// combined into one object.
func (p *Printer) PrintSnapshot() error {
	if p.opts.Format == FormatJSON {
		return p.writeJSON(Snapshot{
			Report: p.report(),
			Blocks: blocksJSON(p.src.Blocks()),
			Map:    p.memoryMap(),
		})
	}
	if err := p.printReportText(); err != nil {
		return err
	}
	if err := p.printBlocksText(); err != nil {
		return err
	}
	return p.printMapText()
}

// bytesPerSymbol is the map resolution; never zero.
func (p *Printer) bytesPerSymbol() int {
	return max(1, p.src.Capacity()/p.opts.MapSymbols)
}

// mapSymbols returns one rune per symbol: 'A' for allocated, 'F' for free.
// Every block gets at least one symbol.
func (p *Printer) mapSymbols() []rune {
	per := p.bytesPerSymbol()
	var out []rune
	for _, b := range p.src.Blocks() {
		n := max(1, b.Size/per)
		sym := 'F'
		if b.Allocated {
			sym = 'A'
		}
		for range n {
			out = append(out, sym)
		}
	}
	return out
}
