// Package playback advances a motion timeline at a fixed logical frame
// rate, independent of how often the host renders.
package playback

import "math"

const (
	// FPS is the logical playback rate.
	FPS = 30
	// Step is the duration of one logical frame in seconds.
	Step = 1.0 / FPS
)

// State is the clock's playback state.
type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	default:
		return "idle"
	}
}

// Clock selects the current frame index. The zero value is Idle.
type Clock struct {
	length      int
	index       int
	accumulated float64
}

// Reset installs a timeline of the given length and rewinds to {0, 0}.
// A length of zero puts the clock in Idle.
func (c *Clock) Reset(length int) {
	if length < 0 {
		length = 0
	}
	c.length = length
	c.index = 0
	c.accumulated = 0
}

// State reports Idle or Playing.
func (c *Clock) State() State {
	if c.length > 0 {
		return Playing
	}
	return Idle
}

// Index returns the current frame index, always in [0, length-1] while playing.
func (c *Clock) Index() int { return c.index }

// Accumulated returns the time carried toward the next frame.
func (c *Clock) Accumulated() float64 { return c.accumulated }

// Len returns the installed timeline length.
func (c *Clock) Len() int { return c.length }

// Advance adds dt seconds and moves at most one frame forward once more
// than one Step has accumulated. The step is subtracted, not reset, so
// time carried past a stall is played out one frame per call.
func (c *Clock) Advance(dt float64) (bool, int) {
	if c.length == 0 {
		return false, 0
	}
	if dt > 0 && !math.IsInf(dt, 0) {
		c.accumulated += dt
	}
	if c.accumulated <= Step {
		return false, c.index
	}
	c.accumulated -= Step
	c.index = (c.index + 1) % c.length
	return true, c.index
}
