package core

import "sync"

// GameInput is a discrete input event kind, abstracted from physical keys.
type GameInput int

const (
	InputNone GameInput = iota
	InputQuit           // Q, Ctrl+C, window close, SIGINT
	InputPause          // P - freeze physics
	InputUp             // W, Up arrow
	InputDown           // S, Down arrow
	InputLeft           // A, Left arrow
	InputRight          // D, Right arrow
	InputJump           // Space
	InputScreenshot     // Ctrl+S - dump the current frame to disk
)

// String returns a human-readable name for the input kind.
func (g GameInput) String() string {
	switch g {
	case InputNone:
		return "None"
	case InputQuit:
		return "Quit"
	case InputPause:
		return "Pause"
	case InputUp:
		return "Up"
	case InputDown:
		return "Down"
	case InputLeft:
		return "Left"
	case InputRight:
		return "Right"
	case InputJump:
		return "Jump"
	case InputScreenshot:
		return "Screenshot"
	default:
		return "Unknown"
	}
}

// InputQueue collects input events produced on one goroutine (terminal
// reader, SSH session, signal handler) and consumed by the frame loop on
// another. All methods are safe for concurrent use.
type InputQueue struct {
	mu      sync.Mutex
	pending map[GameInput]int

	resize  bool
	resizeW int
	resizeH int
}

// NewInputQueue creates an empty queue.
func NewInputQueue() *InputQueue {
	return &InputQueue{
		pending: make(map[GameInput]int),
	}
}

// Push records one occurrence of an input event.
func (q *InputQueue) Push(kind GameInput) {
	if kind == InputNone {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending[kind]++
}

// Poll reports whether an event of the given kind is pending and consumes
// one occurrence of it.
func (q *InputQueue) Poll(kind GameInput) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := q.pending[kind]
	if n == 0 {
		return false
	}
	if n == 1 {
		delete(q.pending, kind)
	} else {
		q.pending[kind] = n - 1
	}
	return true
}

// Pending returns how many occurrences of kind are waiting.
func (q *InputQueue) Pending(kind GameInput) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending[kind]
}

// RequestResize records a new viewport size. Only the latest request is kept.
func (q *InputQueue) RequestResize(width, height int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.resize = true
	q.resizeW = width
	q.resizeH = height
}

// TakeResize returns and clears the latest resize request, if any.
func (q *InputQueue) TakeResize() (width, height int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.resize {
		return 0, 0, false
	}
	q.resize = false
	return q.resizeW, q.resizeH, true
}

// Clear drops every pending event and resize request.
func (q *InputQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for k := range q.pending {
		delete(q.pending, k)
	}
	q.resize = false
}
