package hub75

// CommonPins are the HUB75 signals shared by all output channels.
//
// Blank is the output-enable line in its inactive sense: true means the
// panel drivers are off. It is held true through the latch pulse and the
// post-latch settle window.
type CommonPins struct {
	Clk   bool
	Lat   bool
	Blank bool
	Row   int // row address bus, log2(scan) bits wide
}

// OutputPins is one channel's six data lines: top-half and bottom-half
// R/G/B, both updated together on buffer-select parity.
type OutputPins struct {
	R0, G0, B0 bool
	R1, G1, B1 bool
}

// PinState is the full physical interface as of the end of one tick.
type PinState struct {
	Common  CommonPins
	Outputs [NumOutputs]OutputPins
}
