package printer

import (
	"encoding/json"
	"fmt"

	"github.com/joshuapare/heapsim/heap/alloc"
	"github.com/joshuapare/heapsim/internal/format"
)

// Report is the JSON form of PrintReport.
type Report struct {
	TotalMemory      int     `json:"totalMemory"`
	Strategy         string  `json:"strategy"`
	AllocatedBytes   int     `json:"allocatedBytes"`
	AllocatedPercent float64 `json:"allocatedPercent"`
	FreeBytes        int     `json:"freeBytes"`
	FreePercent      float64 `json:"freePercent"`
	AllocatedBlocks  int     `json:"allocatedBlocks"`
	FreeBlocks       int     `json:"freeBlocks"`
	LargestFree      int     `json:"largestFreeBlock"`
	Fragmentation    float64 `json:"fragmentation"`
}

// Block is the JSON form of one ledger entry.
type Block struct {
	Address   int  `json:"address"`
	Handle    int  `json:"handle,omitempty"`
	Size      int  `json:"size"`
	Allocated bool `json:"allocated"`
}

// MemoryMap is the JSON form of PrintMap.
type MemoryMap struct {
	BytesPerSymbol int    `json:"bytesPerSymbol"`
	Symbols        string `json:"symbols"`
}

// Snapshot combines everything PrintSnapshot emits.
type Snapshot struct {
	Report Report    `json:"report"`
	Blocks []Block   `json:"blocks"`
	Map    MemoryMap `json:"map"`
}

// NewReport builds the report view of src.
func NewReport(src Source) Report {
	s := src.Stats()
	capacity := src.Capacity()
	return Report{
		TotalMemory:      capacity,
		Strategy:         src.Strategy().String(),
		AllocatedBytes:   s.AllocatedBytes,
		AllocatedPercent: format.Percent(s.AllocatedBytes, capacity),
		FreeBytes:        s.FreeBytes,
		FreePercent:      format.Percent(s.FreeBytes, capacity),
		AllocatedBlocks:  s.AllocatedBlocks,
		FreeBlocks:       s.FreeBlocks,
		LargestFree:      s.LargestFree,
		Fragmentation:    s.Fragmentation,
	}
}

// NewBlock builds the JSON view of b. Free blocks carry no handle.
func NewBlock(b alloc.BlockInfo) Block {
	out := Block{Address: b.Offset, Size: b.Size, Allocated: b.Allocated}
	if b.Allocated {
		out.Handle = int(b.Handle())
	}
	return out
}

func (p *Printer) report() Report {
	return NewReport(p.src)
}

func (p *Printer) memoryMap() MemoryMap {
	return MemoryMap{
		BytesPerSymbol: p.bytesPerSymbol(),
		Symbols:        string(p.mapSymbols()),
	}
}

func blocksJSON(blocks []alloc.BlockInfo) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, NewBlock(b))
	}
	return out
}

func (p *Printer) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}
