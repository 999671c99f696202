package replay

import "time"

// Speeds is the enumerated set of playback multipliers.
var Speeds = []int{1, 2, 5, 10}

// Clock is the single continuously-advancing virtual playback clock.
// Elapsed time accumulates as frameDelta x speed, clamped to [0, duration];
// reaching the end stops playback. Seeking sets the elapsed time directly
// and pauses so the clock cannot race ahead from a stale frame delta.
type Clock struct {
	elapsed  time.Duration
	duration time.Duration
	speedIdx int
	playing  bool
}

// NewClock returns a paused clock at zero covering [0, duration] at 1x.
func NewClock(duration time.Duration) *Clock {
	if duration < 0 {
		duration = 0
	}
	return &Clock{duration: duration}
}

// Elapsed returns the current virtual time.
func (c *Clock) Elapsed() time.Duration { return c.elapsed }

// ElapsedMS returns the current virtual time in milliseconds, the unit the
// replay fold consumes.
func (c *Clock) ElapsedMS() int64 { return c.elapsed.Milliseconds() }

// Duration returns the clock's end time.
func (c *Clock) Duration() time.Duration { return c.duration }

// Playing reports whether the clock is advancing.
func (c *Clock) Playing() bool { return c.playing }

// Speed returns the current multiplier.
func (c *Clock) Speed() int { return Speeds[c.speedIdx] }

// CycleSpeed advances to the next multiplier, wrapping around.
func (c *Clock) CycleSpeed() { c.speedIdx = (c.speedIdx + 1) % len(Speeds) }

// Play starts advancing. Starting at the very end rewinds to zero first.
func (c *Clock) Play() {
	if c.elapsed >= c.duration {
		c.elapsed = 0
	}
	c.playing = true
}

// Pause stops advancing.
func (c *Clock) Pause() { c.playing = false }

// Toggle flips between playing and paused.
func (c *Clock) Toggle() {
	if c.playing {
		c.Pause()
	} else {
		c.Play()
	}
}

// Advance moves the clock forward by frameDelta of wall-clock time scaled
// by the speed multiplier. It does nothing while paused. Reaching the end
// clamps and pauses.
func (c *Clock) Advance(frameDelta time.Duration) {
	if !c.playing || frameDelta <= 0 {
		return
	}
	c.elapsed += frameDelta * time.Duration(c.Speed())
	if c.elapsed >= c.duration {
		c.elapsed = c.duration
		c.playing = false
	}
}

// Seek jumps to t, clamped into [0, duration], and pauses playback.
func (c *Clock) Seek(t time.Duration) {
	if t < 0 {
		t = 0
	}
	if t > c.duration {
		t = c.duration
	}
	c.elapsed = t
	c.playing = false
}

// Progress returns elapsed/duration in [0, 1].
func (c *Clock) Progress() float64 {
	if c.duration <= 0 {
		return 0
	}
	return float64(c.elapsed) / float64(c.duration)
}
