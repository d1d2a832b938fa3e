package hub75

const (
	// One tick of row-buffer read latency plus two ticks of output path
	// latency. The shift clock is held low until the first datum has
	// made it through.
	rowPipeDelay   = 1
	rowOutputDelay = 2
)

// rowClock paces the serializer: a counter over every buffer position plus
// the pipeline settle window, a delayed copy of that counter whose low bit
// is both the shift clock and the top/bottom buffer select, and a shifting
// flag whose fall is one of the scheduler's two wait conditions.
type rowClock struct {
	geom Geometry

	counter    int
	bufCounter int
	clk        bool
	shifting   bool
}

func newRowClock(geom Geometry) rowClock {
	return rowClock{geom: geom}
}

func (rc *rowClock) counterMax() int {
	return rc.geom.bufferDepth() + rowPipeDelay + rowOutputDelay
}

// bufferSelect is the parity that pairs the serializer's reads with the
// clock edges despite the output latency.
func (rc *rowClock) bufferSelect() int {
	return rc.bufCounter & 1
}

func (rc *rowClock) step(start bool) {
	nextClk := rc.bufCounter >= rowOutputDelay && rc.bufCounter&1 == 1
	nextBuf := rc.counter

	switch {
	case rc.counter == 0 && start:
		rc.counter = 1
		rc.shifting = true
	case rc.counter == rc.counterMax()-1:
		rc.counter = 0
		rc.shifting = false
	case rc.counter > 0:
		rc.counter++
	}

	rc.clk = nextClk
	rc.bufCounter = nextBuf
}
