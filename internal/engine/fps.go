package engine

import (
	"fmt"
	"io"
	"math"
)

// DefaultSampleInterval is the accumulated frame time, in seconds, after
// which an FPS report is produced.
const DefaultSampleInterval = 1.0

// Reporter receives periodic frame-rate reports.
type Reporter interface {
	ReportFPS(fps float64)
}

// ReporterFunc adapts a plain function to the Reporter interface.
type ReporterFunc func(fps float64)

// ReportFPS calls f(fps).
func (f ReporterFunc) ReportFPS(fps float64) {
	f(fps)
}

// WriterReporter prints one "FPS: <rate>" line per report.
type WriterReporter struct {
	w io.Writer
}

// NewWriterReporter creates a reporter that writes to w.
func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

// ReportFPS writes the report line. Write errors are ignored: the line is
// purely informational.
func (r *WriterReporter) ReportFPS(fps float64) {
	fmt.Fprintf(r.w, "FPS: %.2f\n", fps)
}

// MultiReporter forwards each report to every non-nil reporter in order.
type MultiReporter []Reporter

// ReportFPS fans the report out.
func (m MultiReporter) ReportFPS(fps float64) {
	for _, r := range m {
		if r != nil {
			r.ReportFPS(fps)
		}
	}
}

// FPSSampler turns per-frame deltas into a periodic average frame rate.
//
// Samples accumulate in a window together with their running sum. Once the
// sum reaches the interval, the mean delta is converted to a rate, handed to
// the reporter, and the window starts over. A disabled sampler keeps no
// samples at all.
//
// Deltas are not validated: zero or negative samples are accepted and skew
// the average. A window whose mean is zero or not finite produces no report.
//
// FPSSampler is not safe for concurrent use; it belongs to the loop goroutine.
type FPSSampler struct {
	enabled  bool
	interval float64
	reporter Reporter

	samples     []float64
	accumulated float64
	reports     int
	suppressed  int
}

// NewFPSSampler creates a sampler. A non-positive interval falls back to
// DefaultSampleInterval.
func NewFPSSampler(enabled bool, interval float64, reporter Reporter) *FPSSampler {
	if interval <= 0 || math.IsNaN(interval) {
		interval = DefaultSampleInterval
	}
	return &FPSSampler{
		enabled:  enabled,
		interval: interval,
		reporter: reporter,
	}
}

// Enabled reports whether the sampler collects samples.
func (s *FPSSampler) Enabled() bool {
	return s.enabled
}

// Interval returns the reporting interval in seconds.
func (s *FPSSampler) Interval() float64 {
	return s.interval
}

// Add feeds one frame delta. It returns the reported rate and true when this
// sample closed a window that produced a report.
func (s *FPSSampler) Add(delta float64) (fps float64, reported bool) {
	if !s.enabled {
		return 0, false
	}

	s.samples = append(s.samples, delta)
	s.accumulated += delta

	// A NaN sample poisons the running sum; close the window so it cannot
	// grow without bound.
	if s.accumulated < s.interval && !math.IsNaN(s.accumulated) {
		return 0, false
	}

	fps, ok := meanRate(s.samples)
	s.samples = s.samples[:0]
	s.accumulated = 0

	if !ok {
		s.suppressed++
		return 0, false
	}

	s.reports++
	if s.reporter != nil {
		s.reporter.ReportFPS(fps)
	}
	return fps, true
}

// Len returns the number of samples in the current window.
func (s *FPSSampler) Len() int {
	return len(s.samples)
}

// Accumulated returns the summed frame time of the current window.
func (s *FPSSampler) Accumulated() float64 {
	return s.accumulated
}

// Reports returns how many reports have been emitted.
func (s *FPSSampler) Reports() int {
	return s.reports
}

// Suppressed returns how many windows closed without a usable mean.
func (s *FPSSampler) Suppressed() int {
	return s.suppressed
}

// meanRate returns 1/mean(samples), or false when the window is empty or the
// mean cannot be inverted into a finite rate.
func meanRate(samples []float64) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}

	var sum float64
	for _, d := range samples {
		sum += d
	}
	mean := sum / float64(len(samples))
	if mean == 0 || math.IsNaN(mean) || math.IsInf(mean, 0) {
		return 0, false
	}

	fps := 1.0 / mean
	if math.IsNaN(fps) || math.IsInf(fps, 0) {
		return 0, false
	}
	return fps, true
}
