// Package hub75 implements the pixel-processing and timing pipeline of a
// HUB75 LED matrix controller as a deterministic tick-stepped simulation.
//
// Six synchronous components advance in lockstep on a shared tick: the
// frame/exposure scheduler, the row controller, the address generator, the
// memory read pipeline, the row clock and the output serializer. Every tick
// first derives all cross-component wires from the previous tick's committed
// state, then commits every component's next state from that snapshot, so no
// component ever observes another's same-tick update.
package hub75

import "fmt"

// ReadPort is the external DMA-style memory read port. Issue and SourceAck
// are commit-phase actions; the Sink/Source accessors report the port's
// previous-tick state.
type ReadPort interface {
	SinkReady() bool
	Issue(addr uint32)
	SourceValid() bool
	SourceData() uint32
	SourceAck()
	Step()
}

// Controller is the composed pipeline. It owns no goroutines: Tick advances
// the whole machine by exactly one shared clock.
type Controller struct {
	geom    Geometry
	regs    *Registers
	palette *Palette
	port    ReadPort

	frame frameCtl
	row   rowCtl
	ag    addrGen
	rd    reader
	rc    rowClock
	out   serializer
	pair  rowBufferPair

	inhibit bool
	pins    PinState
	ticks   uint64
}

// New builds a pipeline for the given geometry against an external read
// port. prescale stretches every BCM exposure window.
func New(geom Geometry, regs *Registers, palette *Palette, port ReadPort, prescale int) (*Controller, error) {
	if err := geom.validate(); err != nil {
		return nil, err
	}
	if prescale <= 0 {
		return nil, fmt.Errorf("invalid prescale %d", prescale)
	}
	if regs == nil || palette == nil || port == nil {
		return nil, fmt.Errorf("registers, palette and read port are all required")
	}
	for o := range regs.Panel {
		if len(regs.Panel[o]) != geom.ChainLength {
			return nil, fmt.Errorf("register file has %d chain slots for output %d, geometry wants %d",
				len(regs.Panel[o]), o, geom.ChainLength)
		}
	}
	return &Controller{
		geom:    geom,
		regs:    regs,
		palette: palette,
		port:    port,
		frame:   newFrameCtl(geom.Scan, prescale),
		ag:      newAddrGen(geom),
		rd:      newReader(geom),
		rc:      newRowClock(geom),
		pair:    newRowBufferPair(geom.bufferDepth()),
	}, nil
}

// SetInhibit pauses read issuance, yielding memory bandwidth to another
// subsystem. A long inhibition only delays fill-done; it never corrupts
// in-flight data.
func (c *Controller) SetInhibit(v bool) { c.inhibit = v }

// Pins returns the physical interface state as of the last Tick.
func (c *Controller) Pins() PinState { return c.pins }

// Ticks returns the number of ticks stepped since construction.
func (c *Controller) Ticks() uint64 { return c.ticks }

// BitPlane returns the active BCM bit plane, for instrumentation.
func (c *Controller) BitPlane() int { return c.frame.bitPlane }

// RowSelect returns the scheduler's current scan row.
func (c *Controller) RowSelect() int { return c.frame.rowSelect }

// DrainBuffer returns the row-buffer set currently owned by the serializer.
func (c *Controller) DrainBuffer() *RowBufferSet { return &c.pair.bufs[c.row.drainSide] }

// FillBuffer returns the row-buffer set currently owned by the read
// pipeline.
func (c *Controller) FillBuffer() *RowBufferSet { return &c.pair.bufs[c.row.fillSide()] }

// Tick advances the pipeline by one shared clock in two phases: wire
// derivation from committed state, then commit.
func (c *Controller) Tick() {
	// Phase 1: sample registered state and derive every cross-component
	// combinational wire.
	startShifting := c.frame.startShifting()
	bit := c.frame.bitPlane
	memStart := c.row.memStart(startShifting, bit)
	rowStart := c.row.rowStart(startShifting)
	shiftDone := c.row.shiftingDone(startShifting)
	fetchRow := nextRow(c.frame.rowSelect, c.geom.Scan)

	sinkReady := c.port.SinkReady()
	srcValid := c.port.SourceValid()
	srcData := c.port.SourceData()

	agValid := c.ag.valid
	agAddr := c.ag.adr
	agDone := !c.ag.started

	enable := sinkReady && !c.inhibit
	issue := agValid && !c.inhibit && sinkReady
	complete := srcValid && c.rd.srcReady
	readerDone := c.rd.doneOut(memStart)

	rcCounter := c.rc.counter
	rcShifting := c.rc.shifting
	bufSel := c.rc.bufferSelect()

	ctrl := c.regs.Ctrl
	drain := &c.pair.bufs[c.row.drainSide]
	fill := &c.pair.bufs[c.row.fillSide()]
	fillSide := c.row.fillSide()

	// Phase 2: commit.
	if issue {
		c.port.Issue(agAddr)
	}
	if complete {
		c.port.SourceAck()
	}
	c.port.Step()

	c.ag.step(addrGenIn{
		start:  memStart,
		enable: enable,
		row:    fetchRow,
		width:  int(ctrl.Width),
		base:   c.regs.FBBase,
		panels: &c.regs.Panel,
	})
	c.rd.step(readerIn{
		start:    memStart,
		indexed:  ctrl.Indexed,
		issue:    issue,
		complete: complete,
		srcValid: srcValid,
		srcData:  srcData,
		agDone:   agDone,
		fill:     fill,
		fillSide: fillSide,
		palette:  c.palette,
	})
	c.rc.step(rowStart)
	c.out.step(serializerIn{
		drain:  drain,
		addr:   rcCounter,
		bufSel: bufSel,
		bit:    bit,
	})
	c.row.step(rowIn{
		startShifting: startShifting,
		bit:           bit,
		rowShifting:   rcShifting,
		readerDone:    readerDone,
	})
	c.frame.step(frameIn{
		shiftingDone: shiftDone,
		enable:       ctrl.Enabled,
	})

	c.pins = PinState{
		Common: CommonPins{
			Clk:   c.rc.clk,
			Lat:   c.frame.latch(),
			Blank: c.frame.blanked(),
			Row:   c.frame.rowActive,
		},
		Outputs: c.out.pins,
	}
	c.ticks++
}

// Run steps the pipeline n ticks.
func (c *Controller) Run(n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}
