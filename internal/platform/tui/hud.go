package tui

import (
	"fmt"
	"math"
	"sync/atomic"
)

// HUD receives FPS reports from the frame loop and hands the latest one to
// the display goroutine.
type HUD struct {
	bits    atomic.Uint64
	reports atomic.Int64
}

// NewHUD creates a HUD with no reports yet.
func NewHUD() *HUD {
	return &HUD{}
}

// ReportFPS stores the latest report.
func (h *HUD) ReportFPS(fps float64) {
	h.bits.Store(math.Float64bits(fps))
	h.reports.Add(1)
}

// FPS returns the latest report, and false before the first one.
func (h *HUD) FPS() (float64, bool) {
	if h.reports.Load() == 0 {
		return 0, false
	}
	return math.Float64frombits(h.bits.Load()), true
}

// Reports returns how many reports were received.
func (h *HUD) Reports() int64 {
	return h.reports.Load()
}

// String formats the latest report the way the console reporter does.
func (h *HUD) String() string {
	fps, ok := h.FPS()
	if !ok {
		return "FPS: --"
	}
	return fmt.Sprintf("FPS: %.2f", fps)
}
