package hub75

import "fmt"

// NumOutputs is the number of physical HUB75 output channels the controller
// drives. Each channel carries two half-rows of pixel data.
const NumOutputs = 8

// Geometry fixes the physical shape of the attached panels. It is build-time
// configuration: changing it means re-instantiating the pipeline.
type Geometry struct {
	Columns     int // pixels per row per chained panel
	Rows        int // physical rows per panel (two halves)
	Scan        int // distinct row addresses per frame (e.g. 24 for 1/24 scan)
	ChainLength int // panels daisy-chained behind one output
}

func (g Geometry) rowsPerHalf() int { return g.Rows / 2 }

// sweepLen is the number of framebuffer words fetched per row sweep.
func (g Geometry) sweepLen() int {
	return g.Columns * 2 * g.ChainLength * NumOutputs
}

// bufferDepth is the number of entries in one per-channel row buffer.
func (g Geometry) bufferDepth() int {
	return g.Columns * 2 * g.ChainLength
}

func (g Geometry) validate() error {
	if g.Columns <= 0 || g.Rows <= 0 || g.Rows%2 != 0 {
		return fmt.Errorf("invalid panel size %dx%d", g.Columns, g.Rows)
	}
	if g.Scan <= 0 {
		return fmt.Errorf("invalid scan rate %d", g.Scan)
	}
	if g.ChainLength <= 0 {
		return fmt.Errorf("invalid chain length %d", g.ChainLength)
	}
	return nil
}

// Ctrl mirrors the ctrl register: framebuffer word format, master enable and
// the canvas row stride in pixels.
type Ctrl struct {
	Indexed bool
	Enabled bool
	Width   uint16
}

// PanelSlot is the placement of one (output, chain) panel segment on the
// logical canvas: tile offsets in multiples of 16 pixels plus a clockwise
// rotation in 90 degree steps.
type PanelSlot struct {
	X   uint8
	Y   uint8
	Rot uint8 // 0..3
}

// Registers is the control-register surface consumed from the external
// control plane. The pipeline samples it while sweeping; updates are
// guaranteed visible no earlier than the next row-fetch sweep that reads
// them, and no mid-sweep consistency is promised.
type Registers struct {
	Ctrl   Ctrl
	FBBase uint32 // framebuffer base, in 32-bit words (20 bits)
	Panel  [NumOutputs][]PanelSlot
}

// NewRegisters allocates a register file for the given chain length with
// identity placement everywhere.
func NewRegisters(chainLength int) *Registers {
	r := &Registers{}
	for o := range r.Panel {
		r.Panel[o] = make([]PanelSlot, chainLength)
	}
	return r
}

// SetPanel writes one panel[output][chain] register.
func (r *Registers) SetPanel(output, chain int, slot PanelSlot) error {
	if output < 0 || output >= NumOutputs || chain < 0 || chain >= len(r.Panel[output]) {
		return fmt.Errorf("panel slot out of range: output %d chain %d", output, chain)
	}
	r.Panel[output][chain] = slot
	return nil
}
