package common

// Timer is an explicit countdown advanced by the caller's dt.
type Timer struct {
	Duration  float64
	Remaining float64
	Repeat    bool

	finished bool
}

func NewTimer(duration float64, repeat bool) Timer {
	return Timer{Duration: duration, Remaining: duration, Repeat: repeat}
}

// Tick advances the timer and reports whether it finished during this call.
// A repeating timer rearms itself, carrying over any overshoot.
func (t *Timer) Tick(dt float64) bool {
	if t == nil || dt <= 0 {
		return false
	}
	if t.finished && !t.Repeat {
		return false
	}
	t.Remaining -= dt
	if t.Remaining > 0 {
		t.finished = false
		return false
	}
	t.finished = true
	if t.Repeat {
		if t.Duration > 0 {
			for t.Remaining <= 0 {
				t.Remaining += t.Duration
			}
		} else {
			t.Remaining = 0
		}
	} else {
		t.Remaining = 0
	}
	return true
}

// Finished reports whether the last Tick completed the countdown.
func (t *Timer) Finished() bool {
	return t != nil && t.finished
}

func (t *Timer) Reset() {
	if t == nil {
		return
	}
	t.Remaining = t.Duration
	t.finished = false
}

// Elapsed returns the fraction of the current cycle already spent, in [0,1].
func (t *Timer) Elapsed() float64 {
	if t == nil || t.Duration <= 0 {
		return 1
	}
	return Clamp(1-t.Remaining/t.Duration, 0, 1)
}
