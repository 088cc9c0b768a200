package printer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/heapsim/internal/format"
)

const (
	colorAllocated = lipgloss.Color("#FF4B4B")
	colorFree      = lipgloss.Color("#04B575")
	colorTitle     = lipgloss.Color("#7D56F4")
)

// printReportText prints the report block.
func (p *Printer) printReportText() error {
	s := p.src.Stats()
	capacity := p.src.Capacity()

	p.title("MEMORY ALLOCATOR REPORT")
	p.num.Fprintf(p.writer, "Total Memory: %d bytes\n", capacity)
	p.num.Fprintf(p.writer, "Allocation Strategy: %s\n", p.src.Strategy())
	p.num.Fprintf(p.writer, "Total Allocated: %d bytes (%.2f%%)\n",
		s.AllocatedBytes, format.Percent(s.AllocatedBytes, capacity))
	p.num.Fprintf(p.writer, "Total Free: %d bytes (%.2f%%)\n",
		s.FreeBytes, format.Percent(s.FreeBytes, capacity))
	p.num.Fprintf(p.writer, "Allocated Blocks: %d\n", s.AllocatedBlocks)
	p.num.Fprintf(p.writer, "Free Blocks: %d\n", s.FreeBlocks)
	p.num.Fprintf(p.writer, "Largest Free Block: %d bytes\n", s.LargestFree)
	p.num.Fprintf(p.writer, "Memory Fragmentation: %.2f%%\n", s.Fragmentation*100)
	_, err := p.num.Fprintln(p.writer)
	return err
}

// printBlocksText prints a fixed-width table of blocks.
func (p *Printer) printBlocksText() error {
	p.title("BLOCK DETAILS")
	p.num.Fprintf(p.writer, "%-12s %-12s %-10s %-10s\n", "Offset", "Size", "Status", "Handle")
	p.num.Fprintf(p.writer, "%s\n", strings.Repeat("-", 47))
	for _, b := range p.src.Blocks() {
		status := "Free"
		handle := "-"
		if b.Allocated {
			status = "Allocated"
			handle = p.num.Sprintf("%d", int(b.Handle()))
		}
		p.num.Fprintf(p.writer, "%-12d %-12d %-10s %-10s\n", b.Offset, b.Size, status, handle)
	}
	_, err := p.num.Fprintln(p.writer)
	return err
}

// printMapText prints the map, wrapping every MapWidth symbols with a range suffix.
func (p *Printer) printMapText() error {
	p.title("MEMORY MAP")
	p.num.Fprintf(p.writer, "Each symbol represents %d bytes\n", p.bytesPerSymbol())
	p.num.Fprintf(p.writer, "[%s] = Allocated, [%s] = Free\n", p.symbol('A'), p.symbol('F'))

	syms := p.mapSymbols()
	width := p.opts.MapWidth
	for start := 0; start < len(syms); start += width {
		end := min(start+width, len(syms))
		var line strings.Builder
		for _, r := range syms[start:end] {
			line.WriteString(p.symbol(r))
		}
		p.num.Fprintf(p.writer, "%s %d-%d\n", line.String(), start+1, end)
	}
	_, err := p.num.Fprintln(p.writer)
	return err
}

func (p *Printer) title(name string) {
	line := "===== " + name + " ====="
	if p.opts.Color {
		line = lipgloss.NewRenderer(p.writer).NewStyle().Bold(true).Foreground(colorTitle).Render(line)
	}
	p.num.Fprintf(p.writer, "%s\n", line)
}

// symbol renders one map symbol, coloured when enabled.
func (p *Printer) symbol(r rune) string {
	s := string(r)
	if !p.opts.Color {
		return s
	}
	c := colorFree
	if r == 'A' {
		c = colorAllocated
	}
	return lipgloss.NewRenderer(p.writer).NewStyle().Foreground(c).Render(s)
}
