// Package daycycle flips the world between day and night on a fixed clock.
package daycycle

import "fmt"

type Phase int

const (
	Day Phase = iota
	Night
)

func (p Phase) String() string {
	if p == Night {
		return "night"
	}
	return "day"
}

const (
	DefaultDaySeconds   = 20
	DefaultNightSeconds = 20
)

// Cycle starts at dawn and repeats day then night.
type Cycle struct {
	DaySeconds   float64
	NightSeconds float64

	elapsed float64
}

func New(day, night float64) (*Cycle, error) {
	if day <= 0 || night <= 0 {
		return nil, fmt.Errorf("daycycle: day %.2fs and night %.2fs must both be positive", day, night)
	}
	return &Cycle{DaySeconds: day, NightSeconds: night}, nil
}

func Default() *Cycle {
	return &Cycle{DaySeconds: DefaultDaySeconds, NightSeconds: DefaultNightSeconds}
}

func (c *Cycle) period() float64 {
	return c.DaySeconds + c.NightSeconds
}

// Tick advances the clock and reports whether the phase flipped. A dt longer
// than a whole period still reports at most one flip, judged on the phase
// before and after.
func (c *Cycle) Tick(dt float64) bool {
	if c == nil || dt <= 0 {
		return false
	}
	before := c.Phase()
	c.elapsed += dt
	if p := c.period(); p > 0 {
		for c.elapsed >= p {
			c.elapsed -= p
		}
	}
	return c.Phase() != before
}

func (c *Cycle) Phase() Phase {
	if c == nil || c.elapsed < c.DaySeconds {
		return Day
	}
	return Night
}

func (c *Cycle) IsNight() bool {
	return c.Phase() == Night
}

// Progress is the fraction of the current phase already spent.
func (c *Cycle) Progress() float64 {
	if c == nil {
		return 0
	}
	if c.Phase() == Day {
		return c.elapsed / c.DaySeconds
	}
	return (c.elapsed - c.DaySeconds) / c.NightSeconds
}

// Toggle jumps to the start of the other phase.
func (c *Cycle) Toggle() {
	if c == nil {
		return
	}
	if c.IsNight() {
		c.elapsed = 0
		return
	}
	c.elapsed = c.DaySeconds
}
