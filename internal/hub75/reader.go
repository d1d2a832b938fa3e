package hub75

// rsvDepth bounds the number of read requests in flight against the shared
// memory port.
const rsvDepth = 16

// reader is the memory read pipeline: it pairs the address generator with
// the external read port under a reservation-level credit counter, then runs
// every returned word through palette resolution, gamma correction and the
// strobed per-channel buffer write, one stage per tick.
type reader struct {
	geom Geometry

	rsv      int
	srcReady bool

	// palette stage
	palRaw    uint32 // masked raw word, used in direct-RGB mode
	palLookup uint32 // synchronous palette memory read
	palValid  bool
	palDone   bool

	// gamma stage
	gammaData  uint32
	gammaValid bool
	gammaDone  bool

	// buffer write stage
	bufCounter int
	bufferDone bool
	done       bool

	// observed by tests only: buffer set written this tick, or -1
	lastWrite int
}

type readerIn struct {
	start    bool // new sweep begins: clear completion state
	indexed  bool
	issue    bool // address accepted by the read port this tick
	complete bool // word consumed from the read port this tick
	srcValid bool
	srcData  uint32
	agDone   bool // address generator idle: no more addresses coming
	fill     *RowBufferSet
	fillSide int
	palette  *Palette
}

func newReader(geom Geometry) reader {
	return reader{geom: geom, lastWrite: -1}
}

// doneOut is the fill-done handshake: the registered done flag, masked while
// a new start pulse is clearing it.
func (r *reader) doneOut(start bool) bool {
	return !start && r.done
}

func (r *reader) step(in readerIn) {
	// ramDone is the three-way conjunction that ends a sweep: the address
	// generator has drained, no reservations remain, and no word is still
	// presented by the port. All three must be sampled the same tick.
	ramDone := in.agDone && r.rsv == 0 && !in.srcValid

	// Stages commit in reverse order so every stage reads its upstream
	// neighbour's previous-tick values.

	// Buffer write.
	r.lastWrite = -1
	if r.gammaValid {
		p := r.geom.decodeSweep(r.bufCounter)
		in.fill.buf[p.channel][r.geom.bufferIndex(p)] = r.gammaData
		r.lastWrite = in.fillSide
		r.bufCounter++
	} else if r.gammaDone && !r.bufferDone {
		r.bufCounter = 0
		r.done = true
	}
	r.bufferDone = r.gammaDone

	// Gamma correction.
	pal := r.palRaw
	if in.indexed {
		pal = r.palLookup
	}
	r.gammaData = gammaWord(pal)
	r.gammaValid = r.palValid
	r.gammaDone = r.palDone

	// Palette resolution. The palette memory read is synchronous, so the
	// lookup result lands together with the buffered raw word.
	r.palRaw = in.srcData & 0xFFFFFF
	r.palLookup = in.palette.Read(uint8(in.srcData & 0xFF))
	r.palValid = in.srcValid
	r.palDone = ramDone

	// Reservation level: up on issue without completion, down on
	// completion without issue. Bounded by construction, never negative.
	if in.issue {
		if !in.complete {
			r.rsv++
		}
	} else if in.complete {
		r.rsv--
	}

	// Source-ready register: held high for the whole sweep so returned
	// words retire the tick they appear, dropped only once fully drained.
	switch {
	case in.srcValid:
		r.srcReady = true
	case in.agDone && r.rsv == 0:
		r.srcReady = false
	default:
		r.srcReady = true
	}

	if in.start {
		r.done = false
	}
}
