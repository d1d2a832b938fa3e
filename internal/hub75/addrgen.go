package hub75

// addrDelay is the internal pipeline depth of the address generator: one
// tick for the panel-config lookup, one for the address arithmetic.
const addrDelay = 2

// sweepPos is one decoded position of the linear row-fetch sweep. The
// counter is decoded mixed-radix, column fastest, so every count maps to a
// unique (channel, chain, half, column) tuple even when the column count is
// not a power of two.
type sweepPos struct {
	column  int
	half    int
	chain   int
	channel int
}

func (g Geometry) decodeSweep(c int) sweepPos {
	return sweepPos{
		column:  c % g.Columns,
		half:    c / g.Columns % 2,
		chain:   c / (g.Columns * 2) % g.ChainLength,
		channel: c / (g.Columns * 2 * g.ChainLength),
	}
}

// bufferIndex is the row-buffer slot for a sweep position: half interleaved
// in the low bit so the serializer's buffer-select toggle walks top/bottom
// alternately.
func (g Geometry) bufferIndex(p sweepPos) int {
	return (p.chain*g.Columns+p.column)*2 + p.half
}

// RotateTile maps a panel-local (column, combined half-row) position onto
// tile-local canvas axes for one of the four clockwise rotations.
func RotateTile(rot uint8, column, rowComb, colMax, rowsPerHalf int) (x, y int) {
	switch rot & 3 {
	case 0:
		return column, rowComb
	case 1:
		return rowsPerHalf - 1 - rowComb, column
	case 2:
		return colMax - column, rowsPerHalf - 1 - rowComb
	default:
		return rowComb, colMax - column
	}
}

// addrGen sweeps every (channel, chain, half, column) position of one
// scanned row and turns each into an external-memory word address, two
// ticks behind the counter. It stalls in place whenever enable is low.
type addrGen struct {
	geom Geometry

	counter int
	started bool

	// stage 1: config lookup
	cfg      PanelSlot
	cfgValid bool
	prev     int

	// stage 2: address arithmetic
	adr   uint32
	valid bool
}

type addrGenIn struct {
	start  bool // begin a new sweep this tick
	enable bool // read-port sink ready and issuance not inhibited
	row    int  // scan row being fetched
	width  int  // canvas row stride in pixels
	base   uint32
	panels *[NumOutputs][]PanelSlot
}

func newAddrGen(geom Geometry) addrGen {
	return addrGen{geom: geom}
}

func (a *addrGen) step(in addrGenIn) {
	total := a.geom.sweepLen()
	// The pipe advances freely while its output stage is empty (startup ramp
	// and end-of-sweep drain included); once a valid address is presented, a
	// stall freezes everything in place so the address is held, not dropped.
	en := in.enable || !a.valid
	running := in.start || a.counter != 0

	// Stage 2 consumes stage 1's previous-tick values. The started flag
	// clears on the falling edge of validity draining out of the pipe,
	// which is what downstream done tracking keys on.
	if en {
		wasValid := a.valid
		a.valid = a.cfgValid
		a.adr = a.address(in)
		if wasValid && !a.cfgValid {
			a.started = false
		}
	}

	if en {
		p := a.geom.decodeSweep(a.counter)
		a.cfg = in.panels[p.channel][p.chain]
		a.cfgValid = running
		a.prev = a.counter
	}

	switch {
	case a.counter == 0 && in.start:
		a.counter = 1
	case a.counter == 0:
		// idle
	case a.counter == total-1 && en:
		a.counter = 0
	case en:
		a.counter++
	}
	if in.start {
		a.started = true
	}
}

// address computes the framebuffer word address for the stage-1 position.
func (a *addrGen) address(in addrGenIn) uint32 {
	p := a.geom.decodeSweep(a.prev)
	rowComb := p.half*a.geom.rowsPerHalf() + in.row
	x, y := RotateTile(a.cfg.Rot, p.column, rowComb, a.geom.Columns-1, a.geom.rowsPerHalf())
	off := (y+int(a.cfg.Y)*16)*in.width + x + int(a.cfg.X)*16
	return in.base + uint32(off)
}

// SweepEntry is the analytic form of one sweep position, used by the audit
// tool and by cross-checks against the stepped generator.
type SweepEntry struct {
	Channel int
	Chain   int
	Half    int
	Column  int
	Addr    uint32
}

// SweepAddresses enumerates the full row sweep for a register file without
// stepping the pipeline. Entry order matches emission order.
func SweepAddresses(geom Geometry, regs *Registers, row int) []SweepEntry {
	out := make([]SweepEntry, 0, geom.sweepLen())
	for c := 0; c < geom.sweepLen(); c++ {
		p := geom.decodeSweep(c)
		cfg := regs.Panel[p.channel][p.chain]
		rowComb := p.half*geom.rowsPerHalf() + row
		x, y := RotateTile(cfg.Rot, p.column, rowComb, geom.Columns-1, geom.rowsPerHalf())
		off := (y+int(cfg.Y)*16)*int(regs.Ctrl.Width) + x + int(cfg.X)*16
		out = append(out, SweepEntry{
			Channel: p.channel,
			Chain:   p.chain,
			Half:    p.half,
			Column:  p.column,
			Addr:    regs.FBBase + uint32(off),
		})
	}
	return out
}
