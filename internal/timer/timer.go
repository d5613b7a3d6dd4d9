package timer

import "time"

// Repeat configures a repeating timer.
type Repeat func(*repeat)

type repeat struct {
	count     int // 0 means unlimited
	intervals []float64
}

// Count stops the timer after it has fired n times.
func Count(n int) Repeat {
	return func(r *repeat) {
		if n > 0 {
			r.count = n
		}
	}
}

// Intervals replaces the timer's period with a set of periods. After each
// firing the next period is picked at random from the set.
func Intervals(d ...time.Duration) Repeat {
	return func(r *repeat) {
		if len(d) == 0 {
			return
		}
		r.intervals = r.intervals[:0]
		for _, v := range d {
			r.intervals = append(r.intervals, v.Seconds())
		}
	}
}

func newRepeat(interval time.Duration, opts []Repeat) repeat {
	r := repeat{intervals: []float64{interval.Seconds()}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// timer is one scheduled callback. update advances it by dt seconds and
// reports whether it is due; fire runs it and reports whether it stays
// scheduled.
type timer interface {
	update(dt float64) bool
	fire() bool
}

// periodic is the shared clock of Every and Until timers. The accumulator
// starts at zero so the first tick fires.
type periodic struct {
	repeat
	acc  float64
	pick func(n int) int
}

func (p *periodic) update(dt float64) bool {
	p.acc -= dt
	if p.acc > 0 {
		return false
	}
	p.acc += p.intervals[p.pick(len(p.intervals))]
	return true
}

// spend counts one firing and reports whether the count is exhausted.
func (p *periodic) spend() bool {
	if p.count == 0 {
		return false
	}
	p.count--
	return p.count == 0
}

type everyTimer struct {
	periodic
	fn func()
}

func (t *everyTimer) fire() bool {
	t.fn()
	return !t.spend()
}

type untilTimer struct {
	periodic
	fn func() bool
}

func (t *untilTimer) fire() bool {
	keep := t.fn()
	if t.spend() {
		return false
	}
	return keep
}

type afterTimer struct {
	left float64
	fn   func()
}

func (t *afterTimer) update(dt float64) bool {
	t.left -= dt
	return t.left <= 0
}

func (t *afterTimer) fire() bool {
	t.fn()
	return false
}

// duringTimer fires every tick until its duration has elapsed, then runs
// its after callback once.
type duringTimer struct {
	left  float64
	fn    func()
	after func()
}

func (t *duringTimer) update(dt float64) bool {
	t.left -= dt
	return true
}

func (t *duringTimer) fire() bool {
	t.fn()
	if t.left > 0 {
		return true
	}
	if t.after != nil {
		t.after()
	}
	return false
}
