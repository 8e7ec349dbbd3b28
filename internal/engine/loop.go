// Package engine implements the frame-scheduling loop that drives a game
// session: per-iteration timing, input polling, the simulation step, error
// propagation and the diagnostic FPS sampler.
//
// The loop runs on a single goroutine and never sleeps. It is bounded only by
// the session's shutdown flag, a failing simulation step, or an optional
// frame/time budget for headless runs.
package engine

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/studious/internal/core"
)

// Session is the simulation driven by the loop.
//
// PollInput, Shutdown and IsShutDown may be called from input goroutines as
// well as from the loop, so implementations must make them safe for
// concurrent use. Update is only ever called from the loop goroutine.
type Session interface {
	// PollInput reports whether an input event of the given kind is pending.
	PollInput(kind core.GameInput) bool

	// Update advances the simulation by one tick. Zero means success; any
	// other value aborts the loop and is propagated verbatim.
	Update() int

	// Shutdown requests the loop to stop at its next condition check.
	Shutdown()

	// IsShutDown reports whether shutdown has been requested.
	IsShutDown() bool
}

// LoopConfig controls diagnostics and the optional budgets.
type LoopConfig struct {
	ShowFPS        bool          // Collect samples and emit FPS reports
	SampleInterval float64       // Seconds of frame time per report (default 1.0)
	MaxFrames      int           // Stop after this many frames; 0 = unbounded
	TimeBudget     time.Duration // Stop once this much clock time has passed; 0 = unbounded
}

// DefaultLoopConfig returns an unbounded loop with FPS reporting enabled.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		ShowFPS:        true,
		SampleInterval: DefaultSampleInterval,
	}
}

// Frame describes one completed iteration.
type Frame struct {
	Index int     // Zero-based iteration number
	Start uint64  // Clock ticks before input polling
	End   uint64  // Clock ticks after the simulation step
	Delta float64 // (End - Start) / frequency, in seconds
}

// StopReason records why Run returned.
type StopReason int

const (
	StopNone StopReason = iota
	StopShutdown
	StopFailure
	StopFrameBudget
	StopTimeBudget
)

// String returns a human-readable stop reason.
func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "running"
	case StopShutdown:
		return "shutdown"
	case StopFailure:
		return "failure"
	case StopFrameBudget:
		return "frame budget"
	case StopTimeBudget:
		return "time budget"
	default:
		return "unknown"
	}
}

// Loop drives a Session one frame at a time.
// A Loop is confined to the goroutine that calls Run or Step.
type Loop struct {
	session Session
	clock   Clock
	config  LoopConfig
	sampler *FPSSampler
	logger  *log.Logger
	onFrame func(Frame)

	frames    int
	origin    uint64
	started   bool
	lastDelta float64
	reason    StopReason
}

// NewLoop creates a loop for the session. reporter may be nil, in which case
// windows are still sampled but reports go nowhere.
func NewLoop(session Session, clock Clock, cfg LoopConfig, reporter Reporter) *Loop {
	return &Loop{
		session: session,
		clock:   clock,
		config:  cfg,
		sampler: NewFPSSampler(cfg.ShowFPS, cfg.SampleInterval, reporter),
		logger:  log.New(io.Discard),
	}
}

// SetLogger sets the logger used for start/stop and failure events.
func (l *Loop) SetLogger(logger *log.Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// SetFrameHook registers a callback invoked on the loop goroutine after each
// completed frame.
func (l *Loop) SetFrameHook(fn func(Frame)) {
	l.onFrame = fn
}

// Run iterates until the session is shut down or a step fails.
// It returns nil on shutdown and a *SimulationError on failure.
func (l *Loop) Run() error {
	l.logger.Debug("frame loop starting",
		"show_fps", l.config.ShowFPS,
		"max_frames", l.config.MaxFrames,
		"time_budget", l.config.TimeBudget,
	)

	for !l.session.IsShutDown() {
		if _, err := l.Step(); err != nil {
			l.logger.Error("frame loop aborted", "error", err, "frames", l.frames)
			return err
		}
	}

	if l.reason == StopNone {
		l.reason = StopShutdown
	}
	l.logger.Info("frame loop stopped", "reason", l.reason, "frames", l.frames)
	return nil
}

// Step runs exactly one iteration: timestamp, quit poll, update, timestamp,
// FPS sample, budget check. A failed update returns a *SimulationError
// without sampling.
func (l *Loop) Step() (Frame, error) {
	start := l.clock.Now()
	if !l.started {
		l.origin = start
		l.started = true
	}

	if l.session.PollInput(core.InputQuit) {
		l.session.Shutdown()
	}

	if code := l.session.Update(); code != 0 {
		l.reason = StopFailure
		return Frame{}, &SimulationError{Code: code, Frame: l.frames}
	}

	end := l.clock.Now()
	frame := Frame{
		Index: l.frames,
		Start: start,
		End:   end,
		Delta: DeltaSeconds(start, end, l.clock.Frequency()),
	}
	l.lastDelta = frame.Delta
	l.frames++

	l.sampler.Add(frame.Delta)
	l.checkBudget(end)

	if l.onFrame != nil {
		l.onFrame(frame)
	}
	return frame, nil
}

// checkBudget shuts the session down once a configured budget is spent, so
// the loop exits through its normal condition check.
func (l *Loop) checkBudget(now uint64) {
	if l.config.MaxFrames <= 0 && l.config.TimeBudget <= 0 {
		return
	}
	if l.session.IsShutDown() {
		return
	}

	if l.config.MaxFrames > 0 && l.frames >= l.config.MaxFrames {
		l.reason = StopFrameBudget
		l.session.Shutdown()
		return
	}

	if l.config.TimeBudget > 0 {
		elapsed := DeltaSeconds(l.origin, now, l.clock.Frequency())
		if elapsed >= l.config.TimeBudget.Seconds() {
			l.reason = StopTimeBudget
			l.session.Shutdown()
		}
	}
}

// Frames returns the number of completed iterations.
func (l *Loop) Frames() int {
	return l.frames
}

// LastDelta returns the delta of the most recent completed frame.
func (l *Loop) LastDelta() float64 {
	return l.lastDelta
}

// StopReason returns why the loop stopped, or StopNone while it runs.
func (l *Loop) StopReason() StopReason {
	return l.reason
}

// Sampler exposes the FPS sampler for inspection.
func (l *Loop) Sampler() *FPSSampler {
	return l.sampler
}
