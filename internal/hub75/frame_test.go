package hub75

import "testing"

// exposureWindow is one maximal run of unblanked ticks, tagged with the row
// address driven while it was open.
type exposureWindow struct {
	ticks int
	row   int
}

// collectWindows free-runs the scheduler with the row drain always reporting
// done, so exposure timing is the only variable.
func collectWindows(f *frameCtl, n int) ([]exposureWindow, []int) {
	var windows []exposureWindow
	var latchRuns []int
	open := 0
	row := -1
	latch := 0
	for len(windows) < n {
		if !f.blanked() {
			open++
			row = f.rowActive
		} else if open > 0 {
			windows = append(windows, exposureWindow{ticks: open, row: row})
			open = 0
		}
		if f.latch() {
			latch++
		} else if latch > 0 {
			latchRuns = append(latchRuns, latch)
			latch = 0
		}
		f.step(frameIn{shiftingDone: true, enable: true})
	}
	return windows, latchRuns
}

func TestExposureWindowsAreBinaryWeighted(t *testing.T) {
	const prescale = 16
	f := newFrameCtl(24, prescale)
	windows, latchRuns := collectWindows(&f, 1+3*bitPlanes)

	// The very first window is the reset plane (plane 0); from then on each
	// cycle walks plane 7 down to plane 0.
	if windows[0].ticks != prescale {
		t.Fatalf("reset window = %d ticks, want %d", windows[0].ticks, prescale)
	}
	for i, w := range windows[1:] {
		plane := bitPlanes - 1 - i%bitPlanes
		want := (1 << uint(plane)) * prescale
		if w.ticks != want {
			t.Fatalf("window %d = %d ticks, want %d (plane %d)", i, w.ticks, want, plane)
		}
	}

	// Eight consecutive full-cycle windows expose every weight exactly once.
	sum := 0
	for _, w := range windows[1 : 1+bitPlanes] {
		sum += w.ticks
	}
	if want := (1<<uint(bitPlanes) - 1) * prescale; sum != want {
		t.Fatalf("full cycle exposes %d ticks, want %d", sum, want)
	}

	for i, l := range latchRuns {
		if l != latchTicks {
			t.Fatalf("latch pulse %d is %d ticks wide, want %d", i, l, latchTicks)
		}
	}
}

func TestRowAddressLagsOneLatchBehindSchedule(t *testing.T) {
	const scan = 24
	f := newFrameCtl(scan, 2)
	// Enough windows for two full sweeps of the scan plus the reset plane.
	windows, _ := collectWindows(&f, 1+2*scan*bitPlanes)

	// Within one row's cycle the heavy plane-7 window already carries the
	// new row, and the closing plane-0 window still carries it: the address
	// bus moves together with the plane-7 data, one latch after the
	// scheduler advanced.
	for i, w := range windows[1:] {
		cycle := i / bitPlanes
		wantRow := (cycle + 1) % scan
		if w.row != wantRow {
			t.Fatalf("window %d (cycle %d, plane %d): row %d, want %d",
				i, cycle, bitPlanes-1-i%bitPlanes, w.row, wantRow)
		}
	}
}

func TestSchedulerHoldsWhileDrainBusy(t *testing.T) {
	f := newFrameCtl(16, 1)
	f.step(frameIn{shiftingDone: true, enable: true}) // leave reset

	// A busy drain keeps the scheduler in WAIT indefinitely.
	for i := 0; i < 100; i++ {
		f.step(frameIn{shiftingDone: false, enable: true})
		if f.latch() {
			t.Fatalf("latched at tick %d while the drain was busy", i)
		}
	}
	if f.state != frameWait {
		t.Fatalf("scheduler left WAIT: state %d", f.state)
	}

	// Dropping enable has the same effect.
	for i := 0; i < 100; i++ {
		f.step(frameIn{shiftingDone: true, enable: false})
		if f.latch() {
			t.Fatalf("latched at tick %d while disabled", i)
		}
	}

	// As soon as both hold, the latch window opens on the next tick.
	f.step(frameIn{shiftingDone: true, enable: true})
	if !f.latch() {
		t.Fatal("latch did not open once the drain went idle")
	}
}
