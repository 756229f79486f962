package metrics

// FPSWindow is the span, in milliseconds, over which FPS is measured.
const FPSWindow = 1000.0

// Frames counts loop ticks and measures the achieved render rate.
type Frames struct {
	rendered int
	skipped  int

	windowStart  float64
	windowCount  int
	fps          float64
	lastRender   float64
	haveRender   bool
	intervals    []float64
	maxIntervals int
}

func NewFrames(maxIntervals int) *Frames {
	return &Frames{
		maxIntervals: maxIntervals,
		intervals:    make([]float64, 0, maxIntervals),
	}
}

func (f *Frames) Name() string { return "fps" }

// Observe records one tick at time now (ms). rendered says whether the tick
// produced a frame.
func (f *Frames) Observe(now float64, rendered bool) {
	if !rendered {
		f.skipped++
		return
	}
	f.rendered++

	if f.haveRender && f.maxIntervals > 0 {
		if len(f.intervals) == f.maxIntervals {
			copy(f.intervals, f.intervals[1:])
			f.intervals = f.intervals[:len(f.intervals)-1]
		}
		f.intervals = append(f.intervals, now-f.lastRender)
	}
	f.lastRender = now
	f.haveRender = true

	f.windowCount++
	if now-f.windowStart >= FPSWindow {
		f.fps = float64(f.windowCount) * FPSWindow / (now - f.windowStart)
		f.windowCount = 0
		f.windowStart = now
	}
}

// Value is the FPS measured over the last complete window.
func (f *Frames) Value() float64 { return f.fps }
func (f *Frames) FPS() float64   { return f.fps }
func (f *Frames) Rendered() int  { return f.rendered }
func (f *Frames) Skipped() int   { return f.skipped }

// Intervals returns the most recent render-to-render intervals in ms.
func (f *Frames) Intervals() []float64 {
	out := make([]float64, len(f.intervals))
	copy(out, f.intervals)
	return out
}

func (f *Frames) Reset() {
	f.rendered = 0
	f.skipped = 0
	f.windowStart = 0
	f.windowCount = 0
	f.fps = 0
	f.lastRender = 0
	f.haveRender = false
	f.intervals = f.intervals[:0]
}
