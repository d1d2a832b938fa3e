package hub75

type rowCtlState uint8

const (
	rowIdle rowCtlState = iota
	rowWaitStart
	rowShift
)

// rowCtl owns the ping/pong buffer assignment and sequences one shift pass
// per bit plane. The buffer swap is the pipeline's only synchronization
// point: it happens exclusively on the plane-0 exit, and only once both the
// drain (row clock idle) and the fill (reader done) hold at the same tick.
type rowCtl struct {
	state     rowCtlState
	drainSide int // pair member being drained; the other side is filled
}

type rowIn struct {
	startShifting bool
	bit           int
	rowShifting   bool
	readerDone    bool
}

// memStart pulses a new row prefetch, only when entering the top plane: the
// other seven planes reuse the row fetched once.
func (r *rowCtl) memStart(startShifting bool, bit int) bool {
	return r.state == rowIdle && startShifting && bit == bitPlanes-1
}

func (r *rowCtl) rowStart(startShifting bool) bool {
	return r.state == rowIdle && startShifting
}

// shiftingDone is the scheduler-facing handshake: quiet in IDLE with no
// start pending. A stalled fill keeps the FSM in SHIFT_OUT, which holds
// this low and simply slows the exposure loop down.
func (r *rowCtl) shiftingDone(startShifting bool) bool {
	return r.state == rowIdle && !startShifting
}

func (r *rowCtl) fillSide() int { return 1 - r.drainSide }

func (r *rowCtl) step(in rowIn) {
	switch r.state {
	case rowIdle:
		if in.startShifting {
			r.state = rowWaitStart
		}
	case rowWaitStart:
		if in.rowShifting {
			r.state = rowShift
		}
	case rowShift:
		switch {
		case in.bit == 0 && !in.rowShifting && in.readerDone:
			r.drainSide = 1 - r.drainSide
			r.state = rowIdle
		case in.bit != 0 && !in.rowShifting:
			r.state = rowIdle
		}
	}
}

// nextRow is the row a prefetch targets: one past the scheduler's current
// row, wrapping at the scan rate.
func nextRow(rowSelect, scan int) int {
	if rowSelect >= scan-1 {
		return 0
	}
	return rowSelect + 1
}
