package loop

import "testing"

func TestClock_FirstAdvanceOnlySyncs(t *testing.T) {
	var c Clock
	c.Advance(5000, 0.001)
	if c.Time != 0 {
		t.Errorf("first advance moved time to %v", c.Time)
	}
	c.Advance(6000, 0.001)
	if c.Time != 1 {
		t.Errorf("expected time 1 after 1000ms at 0.001, got %v", c.Time)
	}
}

func TestClock_HoldSkipsGap(t *testing.T) {
	var c Clock
	c.Advance(0, 1)
	c.Advance(100, 1)
	c.Hold()
	c.Advance(10_000, 1)
	c.Advance(10_050, 1)
	if c.Time != 150 {
		t.Errorf("expected 150, got %v", c.Time)
	}
}

func TestClock_NeverGoesBack(t *testing.T) {
	var c Clock
	c.Advance(100, 1)
	c.Advance(200, 1)
	c.Advance(150, 1)
	if c.Time != 100 {
		t.Errorf("time moved backwards or forwards on stale timestamp: %v", c.Time)
	}
	if c.LastUpdate != 200 {
		t.Errorf("stale timestamp replaced last update: %v", c.LastUpdate)
	}
}

func TestClock_Reset(t *testing.T) {
	c := Clock{Time: 3, LastFrame: 4, LastUpdate: 5, synced: true}
	c.Reset()
	if c != (Clock{}) {
		t.Errorf("reset left %+v", c)
	}
}
