package storage

import "sync"

// Recorder collects FPS reports in memory while a run is in progress, so the
// frame loop never waits on the database. Flush them with FinishRun.
type Recorder struct {
	mu      sync.Mutex
	reports []float64
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// ReportFPS records one report.
func (r *Recorder) ReportFPS(fps float64) {
	r.mu.Lock()
	r.reports = append(r.reports, fps)
	r.mu.Unlock()
}

// Reports returns a copy of the recorded reports.
func (r *Recorder) Reports() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.reports))
	copy(out, r.reports)
	return out
}

// Len returns the number of recorded reports.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}
