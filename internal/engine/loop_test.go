package engine

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/studious/internal/core"
)

// scriptedClock replays a fixed tick sequence, cycling when it runs out.
type scriptedClock struct {
	ticks []uint64
	freq  uint64
	next  int
	log   *[]string
}

func (c *scriptedClock) Now() uint64 {
	if c.log != nil {
		*c.log = append(*c.log, "now")
	}
	t := c.ticks[c.next%len(c.ticks)]
	c.next++
	return t
}

func (c *scriptedClock) Frequency() uint64 {
	return c.freq
}

// steppingClock advances by a fixed amount on every read.
type steppingClock struct {
	now  uint64
	step uint64
	freq uint64
}

func (c *steppingClock) Now() uint64 {
	c.now += c.step
	return c.now
}

func (c *steppingClock) Frequency() uint64 {
	return c.freq
}

// scriptedSession requests quit on a given poll and returns scripted codes.
type scriptedSession struct {
	quitOnPoll int   // 1-based poll number that reports quit; 0 = never
	codes      []int // Update results in order; missing entries are 0

	polls     int
	updates   int
	shutdowns int
	shutdown  bool
	log       *[]string
}

func (s *scriptedSession) PollInput(kind core.GameInput) bool {
	if s.log != nil {
		*s.log = append(*s.log, "poll:"+kind.String())
	}
	if kind != core.InputQuit {
		return false
	}
	s.polls++
	return s.quitOnPoll > 0 && s.polls == s.quitOnPoll
}

func (s *scriptedSession) Update() int {
	if s.log != nil {
		*s.log = append(*s.log, "update")
	}
	s.updates++
	if s.updates <= len(s.codes) {
		return s.codes[s.updates-1]
	}
	return 0
}

func (s *scriptedSession) Shutdown() {
	if s.log != nil {
		*s.log = append(*s.log, "shutdown")
	}
	s.shutdowns++
	s.shutdown = true
}

func (s *scriptedSession) IsShutDown() bool {
	if s.log != nil {
		*s.log = append(*s.log, "check")
	}
	return s.shutdown
}

func newTestClock() *steppingClock {
	return &steppingClock{step: 1000, freq: 1_000_000}
}

func TestLoopCleanShutdown(t *testing.T) {
	session := &scriptedSession{quitOnPoll: 3}
	loop := NewLoop(session, newTestClock(), DefaultLoopConfig(), nil)

	if err := loop.Run(); err != nil {
		t.Fatalf("Run() = %v, expected nil", err)
	}
	// The frame that polls quit still runs its update.
	if session.updates != 3 {
		t.Errorf("updates = %d, expected 3", session.updates)
	}
	if loop.Frames() != 3 {
		t.Errorf("Frames() = %d, expected 3", loop.Frames())
	}
	if loop.StopReason() != StopShutdown {
		t.Errorf("StopReason() = %v, expected shutdown", loop.StopReason())
	}
	if ExitCode(nil) != 0 {
		t.Error("ExitCode(nil) should be 0")
	}
}

func TestLoopPropagatesFailureCode(t *testing.T) {
	tests := []struct {
		name    string
		failAt  int
		code    int
		quitAt  int
		wantRun int
	}{
		{"first frame", 1, 7, 0, 1},
		{"second frame", 2, -3, 0, 2},
		{"fifth frame", 5, 42, 0, 5},
		{"fails on the quit frame", 4, 9, 4, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			codes := make([]int, tc.failAt+10)
			codes[tc.failAt-1] = tc.code
			session := &scriptedSession{codes: codes, quitOnPoll: tc.quitAt}
			loop := NewLoop(session, newTestClock(), DefaultLoopConfig(), nil)

			err := loop.Run()

			var simErr *SimulationError
			if !errors.As(err, &simErr) {
				t.Fatalf("Run() = %v, expected *SimulationError", err)
			}
			if simErr.Code != tc.code {
				t.Errorf("Code = %d, expected %d", simErr.Code, tc.code)
			}
			if simErr.Frame != tc.failAt-1 {
				t.Errorf("Frame = %d, expected %d", simErr.Frame, tc.failAt-1)
			}
			if session.updates != tc.wantRun {
				t.Errorf("updates = %d, expected %d", session.updates, tc.wantRun)
			}
			if loop.Frames() != tc.failAt-1 {
				t.Errorf("Frames() = %d, expected %d", loop.Frames(), tc.failAt-1)
			}
			if ExitCode(err) != tc.code {
				t.Errorf("ExitCode() = %d, expected %d", ExitCode(err), tc.code)
			}
			if loop.StopReason() != StopFailure {
				t.Errorf("StopReason() = %v, expected failure", loop.StopReason())
			}
		})
	}
}

func TestLoopFirstFrameFailureEmitsNoReport(t *testing.T) {
	var out bytes.Buffer
	session := &scriptedSession{codes: []int{3}}
	clock := &scriptedClock{ticks: []uint64{0, 5000}, freq: 1000}
	loop := NewLoop(session, clock, DefaultLoopConfig(), NewWriterReporter(&out))

	if code := ExitCode(loop.Run()); code != 3 {
		t.Errorf("exit code = %d, expected 3", code)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected FPS output %q", out.String())
	}
	if loop.Sampler().Len() != 0 {
		t.Errorf("sampler holds %d samples, expected 0", loop.Sampler().Len())
	}
}

func TestLoopStepOrder(t *testing.T) {
	var calls []string
	session := &scriptedSession{quitOnPoll: 2, log: &calls}
	clock := &scriptedClock{ticks: []uint64{0}, freq: 1, log: &calls}
	loop := NewLoop(session, clock, LoopConfig{}, nil)

	if err := loop.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	expected := []string{
		"check",
		"now", "poll:Quit", "update", "now", "check",
		"now", "poll:Quit", "shutdown", "update", "now", "check",
	}
	if strings.Join(calls, ",") != strings.Join(expected, ",") {
		t.Errorf("call order:\n got      %v\n expected %v", calls, expected)
	}
}

func TestLoopClockScenario(t *testing.T) {
	var out bytes.Buffer
	session := &scriptedSession{quitOnPoll: 4}
	clock := &scriptedClock{ticks: []uint64{1000, 2000, 1000, 3000}, freq: 1000}
	loop := NewLoop(session, clock, DefaultLoopConfig(), NewWriterReporter(&out))

	var deltas []float64
	loop.SetFrameHook(func(f Frame) { deltas = append(deltas, f.Delta) })

	if err := loop.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[0] != "FPS: 1.00" {
		t.Errorf("first report = %q, expected %q", lines[0], "FPS: 1.00")
	}
	expected := "FPS: 1.00\nFPS: 0.50\nFPS: 1.00\nFPS: 0.50\n"
	if out.String() != expected {
		t.Errorf("output = %q, expected %q", out.String(), expected)
	}

	wantDeltas := []float64{1, 2, 1, 2}
	if len(deltas) != len(wantDeltas) {
		t.Fatalf("got %d frames, expected %d", len(deltas), len(wantDeltas))
	}
	for i := range wantDeltas {
		if deltas[i] != wantDeltas[i] {
			t.Errorf("delta[%d] = %v, expected %v", i, deltas[i], wantDeltas[i])
		}
	}
	if loop.LastDelta() != 2 {
		t.Errorf("LastDelta() = %v, expected 2", loop.LastDelta())
	}
}

func TestLoopStepReturnsFrame(t *testing.T) {
	session := &scriptedSession{}
	clock := &scriptedClock{ticks: []uint64{10, 40}, freq: 100}
	loop := NewLoop(session, clock, LoopConfig{}, nil)

	frame, err := loop.Step()
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if frame.Index != 0 || frame.Start != 10 || frame.End != 40 {
		t.Errorf("frame = %+v, expected index 0, ticks 10..40", frame)
	}
	if frame.Delta != 0.3 {
		t.Errorf("Delta = %v, expected 0.3", frame.Delta)
	}
}

func TestLoopAlreadyShutDown(t *testing.T) {
	session := &scriptedSession{shutdown: true}
	loop := NewLoop(session, newTestClock(), DefaultLoopConfig(), nil)

	if err := loop.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if session.updates != 0 {
		t.Errorf("updates = %d, expected 0", session.updates)
	}
}

func TestLoopFrameBudget(t *testing.T) {
	session := &scriptedSession{}
	cfg := DefaultLoopConfig()
	cfg.MaxFrames = 5
	loop := NewLoop(session, newTestClock(), cfg, nil)

	if err := loop.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if session.updates != 5 {
		t.Errorf("updates = %d, expected 5", session.updates)
	}
	if session.shutdowns != 1 {
		t.Errorf("shutdowns = %d, expected 1", session.shutdowns)
	}
	if loop.StopReason() != StopFrameBudget {
		t.Errorf("StopReason() = %v, expected frame budget", loop.StopReason())
	}
}

func TestLoopTimeBudget(t *testing.T) {
	session := &scriptedSession{}
	// Every clock read advances 0.1s; frame k ends at (2k+1)*0.1s after the
	// first start, so a 1s budget is spent at the end of frame index 5.
	clock := &steppingClock{step: 100, freq: 1000}
	cfg := LoopConfig{TimeBudget: time.Second}
	loop := NewLoop(session, clock, cfg, nil)

	if err := loop.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if loop.Frames() != 6 {
		t.Errorf("Frames() = %d, expected 6", loop.Frames())
	}
	if loop.StopReason() != StopTimeBudget {
		t.Errorf("StopReason() = %v, expected time budget", loop.StopReason())
	}
}

func TestLoopFPSDisabled(t *testing.T) {
	var out bytes.Buffer
	session := &scriptedSession{quitOnPoll: 50}
	clock := &scriptedClock{ticks: []uint64{0, 1000}, freq: 1000}
	loop := NewLoop(session, clock, LoopConfig{ShowFPS: false}, NewWriterReporter(&out))

	if err := loop.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("disabled FPS printed %q", out.String())
	}
	if loop.Sampler().Enabled() {
		t.Error("sampler should be disabled")
	}
}

func TestExitCodeForeignError(t *testing.T) {
	if got := ExitCode(errors.New("boom")); got != 1 {
		t.Errorf("ExitCode(foreign) = %d, expected 1", got)
	}
}

func TestDeltaSeconds(t *testing.T) {
	tests := []struct {
		name             string
		start, end, freq uint64
		want             float64
	}{
		{"one second", 1000, 2000, 1000, 1.0},
		{"two seconds", 1000, 3000, 1000, 2.0},
		{"backwards clock", 3000, 1000, 1000, -2.0},
		{"zero frequency", 0, 10, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeltaSeconds(tc.start, tc.end, tc.freq); got != tc.want {
				t.Errorf("DeltaSeconds() = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestMonotonicClock(t *testing.T) {
	c := NewMonotonicClock()
	if c.Frequency() != 1_000_000_000 {
		t.Errorf("Frequency() = %d, expected 1e9", c.Frequency())
	}

	prev := c.Now()
	for i := 0; i < 1000; i++ {
		now := c.Now()
		if now < prev {
			t.Fatalf("clock went backwards: %d < %d", now, prev)
		}
		prev = now
	}
}
