package host

import (
	"sort"

	"github.com/san-kum/terrainbg/internal/loop"
)

type TimerID uint64

type timer struct {
	id  TimerID
	due float64
	seq uint64
	fn  func()
}

type frame struct {
	id        loop.FrameID
	fn        func(now float64)
	cancelled bool
}

// Queue holds pending frame callbacks, timers and idle callbacks. Nothing
// runs until Pump is called, so the owner decides what "now" is.
type Queue struct {
	now float64

	nextFrame loop.FrameID
	frames    []*frame
	running   []*frame

	nextTimer TimerID
	seq       uint64
	timers    []timer

	idle []func()
}

func (q *Queue) Now() float64 { return q.now }

func (q *Queue) RequestFrame(fn func(now float64)) loop.FrameID {
	q.nextFrame++
	q.frames = append(q.frames, &frame{id: q.nextFrame, fn: fn})
	return q.nextFrame
}

// CancelFrame drops a queued callback. It also covers callbacks in the
// batch currently being pumped that have not run yet.
func (q *Queue) CancelFrame(id loop.FrameID) {
	for i, f := range q.frames {
		if f.id == id {
			q.frames = append(q.frames[:i], q.frames[i+1:]...)
			return
		}
	}
	for _, f := range q.running {
		if f.id == id {
			f.cancelled = true
			return
		}
	}
}

// After runs fn once, ms milliseconds after the current time.
func (q *Queue) After(ms float64, fn func()) TimerID {
	q.nextTimer++
	q.seq++
	q.timers = append(q.timers, timer{id: q.nextTimer, due: q.now + ms, seq: q.seq, fn: fn})
	return q.nextTimer
}

func (q *Queue) CancelTimer(id TimerID) {
	for i, t := range q.timers {
		if t.id == id {
			q.timers = append(q.timers[:i], q.timers[i+1:]...)
			return
		}
	}
}

// Idle runs fn on the next Pump, after timers and before frames.
func (q *Queue) Idle(fn func()) { q.idle = append(q.idle, fn) }

// Pending reports the number of queued frame callbacks.
func (q *Queue) Pending() int { return len(q.frames) }

// Timers reports the number of armed timers.
func (q *Queue) Timers() int { return len(q.timers) }

// Pump moves the clock to now and runs everything that is due: timers in
// deadline order, then idle callbacks, then the frame callbacks queued
// before this call. Callbacks queued while pumping wait for the next Pump.
func (q *Queue) Pump(now float64) {
	if now > q.now {
		q.now = now
	}

	for {
		t, ok := q.popDue()
		if !ok {
			break
		}
		t.fn()
	}

	idle := q.idle
	q.idle = nil
	for _, fn := range idle {
		fn()
	}

	q.running = q.frames
	q.frames = nil
	for _, f := range q.running {
		if !f.cancelled {
			f.fn(q.now)
		}
	}
	q.running = nil
}

func (q *Queue) popDue() (timer, bool) {
	if len(q.timers) == 0 {
		return timer{}, false
	}
	sort.SliceStable(q.timers, func(i, j int) bool {
		if q.timers[i].due != q.timers[j].due {
			return q.timers[i].due < q.timers[j].due
		}
		return q.timers[i].seq < q.timers[j].seq
	})
	t := q.timers[0]
	if t.due > q.now {
		return timer{}, false
	}
	q.timers = q.timers[1:]
	return t, true
}
