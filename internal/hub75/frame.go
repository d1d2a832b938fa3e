package hub75

// latchTicks is the fixed width of the latch pulse window and of the
// post-latch settle blanking.
const latchTicks = 8

// bitPlanes is the color depth driven per channel.
const bitPlanes = 8

type frameState uint8

const (
	frameReset frameState = iota
	frameWait
	frameLatch
)

// frameCtl is the frame/exposure scheduler. After reset it loops between
// WAIT and LATCH: WAIT holds until the current plane's exposure has drained
// and the row drain has finished, LATCH drives the latch pulse for a fixed
// window and then rotates the BCM schedule, staying on the same row for the
// next lower plane or moving to the next scan row once plane 0 completes.
type frameCtl struct {
	scan     int
	prescale int

	state      frameState
	counter    int // latch window countdown
	bitPlane   int
	brightness int
	rowActive  int // row driven on the address bus
	rowSelect  int // row whose planes are being scheduled
}

type frameIn struct {
	shiftingDone bool
	enable       bool
}

func newFrameCtl(scan, prescale int) frameCtl {
	return frameCtl{scan: scan, prescale: prescale}
}

// startShifting pulses when a new shift of the row buffers must begin: once
// out of reset and at the end of every latch window.
func (f *frameCtl) startShifting() bool {
	return f.state == frameReset || (f.state == frameLatch && f.counter == 0)
}

func (f *frameCtl) latch() bool { return f.state == frameLatch }

// blanked holds the output-enable line inactive while the exposure counter
// has drained and throughout the latch/settle window.
func (f *frameCtl) blanked() bool {
	return f.brightness == 0 || f.counter != 0
}

func (f *frameCtl) step(in frameIn) {
	nextCounter := f.counter
	if f.counter != 0 {
		nextCounter--
	}
	nextBright := f.brightness
	if f.brightness != 0 && f.counter == 0 {
		nextBright--
	}

	switch f.state {
	case frameReset:
		f.state = frameWait

	case frameWait:
		if f.brightness == 0 && in.shiftingDone && in.enable {
			nextCounter = latchTicks - 1
			f.state = frameLatch
		}

	case frameLatch:
		if f.counter == 0 {
			// Exposure for the plane just latched onto the pins:
			// binary weighted by the outgoing plane number.
			nextBright = (1 << uint(f.bitPlane)) * f.prescale
			if f.bitPlane != 0 {
				f.bitPlane--
				f.rowActive = f.rowSelect
			} else {
				// Wrap at scan, which need not be a power of two.
				// rowActive deliberately keeps the old row here: the
				// data latched this window is still plane 0 of the
				// outgoing row. The address bus catches up at the
				// next latch, together with the plane-7 data of the
				// freshly swapped buffer.
				if f.rowSelect >= f.scan-1 {
					f.rowSelect = 0
				} else {
					f.rowSelect++
				}
				f.bitPlane = bitPlanes - 1
			}
			nextCounter = latchTicks - 1
			f.state = frameWait
		}
	}

	f.counter = nextCounter
	f.brightness = nextBright
}
