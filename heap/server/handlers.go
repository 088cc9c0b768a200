package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/joshuapare/heapsim/heap/alloc"
	"github.com/joshuapare/heapsim/heap/printer"
)

// maxBodyBytes caps request bodies; every request is a tiny JSON object.
const maxBodyBytes = 1 << 12

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	TotalAllocated   int     `json:"totalAllocated"`
	TotalFree        int     `json:"totalFree"`
	AllocatedBlocks  int     `json:"allocatedBlocks"`
	FreeBlocks       int     `json:"freeBlocks"`
	LargestFreeBlock int     `json:"largestFreeBlock"`
	Fragmentation    float64 `json:"fragmentation"`
	Strategy         string  `json:"strategy"`
	TotalMemory      int     `json:"totalMemory"`
	AllocatedPercent float64 `json:"allocatedPercent"`
}

// AllocateRequest is the body of POST /api/allocate.
type AllocateRequest struct {
	Size int `json:"size"`
}

// AllocateResponse is the success body of POST /api/allocate.
type AllocateResponse struct {
	Handle  int `json:"handle"`
	Address int `json:"address"`
	Size    int `json:"size"`
}

// DeallocateRequest is the body of POST /api/deallocate. Address is the
// header offset reported by /api/blocks; Handle wins when both are set.
type DeallocateRequest struct {
	Handle  *int `json:"handle,omitempty"`
	Address *int `json:"address,omitempty"`
}

// StrategyRequest is the body of POST /api/strategy.
type StrategyRequest struct {
	Strategy string `json:"strategy"`
}

// SuccessResponse acknowledges a state change.
type SuccessResponse struct {
	Success  bool   `json:"success"`
	Strategy string `json:"strategy,omitempty"`
}

// CheckResponse is the success body of GET /api/check.
type CheckResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	r := printer.NewReport(s.alloc)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, StatsResponse{
		TotalAllocated:   r.AllocatedBytes,
		TotalFree:        r.FreeBytes,
		AllocatedBlocks:  r.AllocatedBlocks,
		FreeBlocks:       r.FreeBlocks,
		LargestFreeBlock: r.LargestFree,
		Fragmentation:    r.Fragmentation,
		Strategy:         r.Strategy,
		TotalMemory:      r.TotalMemory,
		AllocatedPercent: r.AllocatedPercent,
	})
}

func (s *Server) handleBlocks(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	blocks := s.alloc.Blocks()
	s.mu.Unlock()

	out := make([]printer.Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, printer.NewBlock(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCheck(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	err := s.alloc.Check()
	s.mu.Unlock()

	if err != nil {
		s.log.WithError(err).Error("ledger check failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, CheckResponse{OK: true})
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	var req AllocateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	h, err := s.alloc.Alloc(req.Size)
	var info alloc.BlockInfo
	if err == nil {
		info, err = s.alloc.Lookup(h)
	}
	s.mu.Unlock()

	switch {
	case errors.Is(err, alloc.ErrBadSize):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, alloc.ErrNoSpace):
		s.log.WithField("size", req.Size).Warn("allocation failed: not enough memory")
		writeError(w, http.StatusConflict, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, AllocateResponse{
			Handle:  int(h),
			Address: info.Offset,
			Size:    info.Size,
		})
	}
}

func (s *Server) handleDeallocate(w http.ResponseWriter, r *http.Request) {
	var req DeallocateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var h alloc.Handle
	switch {
	case req.Handle != nil:
		h = alloc.Handle(*req.Handle)
	case req.Address != nil:
		h = alloc.Handle(*req.Address + alloc.HeaderSize)
	default:
		writeError(w, http.StatusBadRequest, errors.New("handle or address is required"))
		return
	}

	s.mu.Lock()
	err := s.alloc.Free(h)
	s.mu.Unlock()

	if err != nil {
		s.log.WithError(err).WithField("handle", int(h)).Warn("invalid deallocation")
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	var req StrategyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	strategy, err := alloc.ParseStrategy(req.Strategy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	s.alloc.SetStrategy(strategy)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Strategy: strategy.String()})
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.alloc.Reset()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
