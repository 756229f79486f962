package loop

// Clock is the animation time source. Time only moves forward and only
// while frames are being rendered.
type Clock struct {
	Time       float64 // noise time, fed to the displacement stage
	LastFrame  float64 // host timestamp of the last rendered frame, ms
	LastUpdate float64 // host timestamp Time was last advanced at, ms

	synced bool
}

// Advance moves Time forward by speed × the wall-clock ms since the last
// update. The first call after Hold only resynchronises.
func (c *Clock) Advance(now, speed float64) {
	if !c.synced {
		c.LastUpdate = now
		c.synced = true
		return
	}
	if dt := now - c.LastUpdate; dt > 0 {
		c.Time += speed * dt
		c.LastUpdate = now
	}
}

// Hold drops the reference point so time spent paused or hidden is not
// counted on the next Advance.
func (c *Clock) Hold() { c.synced = false }

func (c *Clock) Reset() { *c = Clock{} }
