// Package panelview models the receiving side of the HUB75 connector: shift
// registers clocked by the pipeline's shift clock, output latches driven by
// the latch pulse, and per-LED exposure integration across the BCM planes.
// Integrated exposure divided by the exposure prescale reconstructs the
// 8-bit gamma-corrected value each LED was driven with, which makes the
// model both the preview source and the end-to-end test oracle.
package panelview

import (
	"fmt"

	"github.com/ledworks/hub75core/internal/hub75"
)

type rgbBit struct {
	r, g, b bool
}

// Panel observes PinState snapshots tick by tick.
type Panel struct {
	columns  int
	rows     int
	scan     int
	chain    int
	prescale int
	width    int // columns * chain

	prevClk bool
	prevLat bool
	edge    int

	// shift register contents per channel and half, pending latch
	pending [hub75.NumOutputs][2][]rgbBit
	// latched outputs currently driving the LEDs
	latched [hub75.NumOutputs][2][]rgbBit

	// exposure ticks per channel, physical row, column, color
	accum [hub75.NumOutputs][][][3]int

	latches int
}

// New builds a panel model matching the pipeline's geometry and prescale.
func New(geom hub75.Geometry, prescale int) (*Panel, error) {
	if prescale <= 0 {
		return nil, fmt.Errorf("invalid prescale %d", prescale)
	}
	p := &Panel{
		columns:  geom.Columns,
		rows:     geom.Rows,
		scan:     geom.Scan,
		chain:    geom.ChainLength,
		prescale: prescale,
		width:    geom.Columns * geom.ChainLength,
	}
	for ch := range p.pending {
		for half := 0; half < 2; half++ {
			p.pending[ch][half] = make([]rgbBit, p.width)
			p.latched[ch][half] = make([]rgbBit, p.width)
		}
		p.accum[ch] = make([][][3]int, p.rows)
		for y := range p.accum[ch] {
			p.accum[ch][y] = make([][3]int, p.width)
		}
	}
	return p, nil
}

// Observe consumes one tick's pin state.
func (p *Panel) Observe(pins hub75.PinState) {
	if pins.Common.Clk && !p.prevClk {
		p.shiftIn(pins)
	}
	p.prevClk = pins.Common.Clk

	if pins.Common.Lat && !p.prevLat {
		for ch := range p.latched {
			copy(p.latched[ch][0], p.pending[ch][0])
			copy(p.latched[ch][1], p.pending[ch][1])
		}
		p.edge = 0
		p.latches++
	}
	p.prevLat = pins.Common.Lat

	if !pins.Common.Blank {
		p.expose(pins.Common.Row)
	}
}

func (p *Panel) shiftIn(pins hub75.PinState) {
	if p.edge >= p.width {
		// Extra clocks past the row length fall off the far end.
		return
	}
	for ch := range pins.Outputs {
		o := pins.Outputs[ch]
		p.pending[ch][0][p.edge] = rgbBit{o.R0, o.G0, o.B0}
		p.pending[ch][1][p.edge] = rgbBit{o.R1, o.G1, o.B1}
	}
	p.edge++
}

func (p *Panel) expose(row int) {
	if row < 0 || row >= p.scan {
		return
	}
	half := p.rows / 2
	for ch := range p.latched {
		for half2 := 0; half2 < 2; half2++ {
			y := row + half2*half
			if y >= p.rows {
				continue
			}
			line := p.latched[ch][half2]
			acc := p.accum[ch][y]
			for x := range line {
				if line[x].r {
					acc[x][0]++
				}
				if line[x].g {
					acc[x][1]++
				}
				if line[x].b {
					acc[x][2]++
				}
			}
		}
	}
}

// Latches returns the number of latch pulses observed; one frame of the BCM
// schedule is 8 planes times the scan rate.
func (p *Panel) Latches() int { return p.latches }

// FrameLatches is the latch count that makes up one complete frame.
func (p *Panel) FrameLatches() int { return 8 * p.scan }

// Reset clears exposure integration and the latch counter for a new frame.
func (p *Panel) Reset() {
	for ch := range p.accum {
		for y := range p.accum[ch] {
			for x := range p.accum[ch][y] {
				p.accum[ch][y][x] = [3]int{}
			}
		}
	}
	p.latches = 0
}

// Value reconstructs the 8-bit channel values one LED was driven with over
// the integrated exposure window.
func (p *Panel) Value(channel, y, x int) (r, g, b uint8) {
	a := p.accum[channel][y][x]
	return clamp8(a[0] / p.prescale), clamp8(a[1] / p.prescale), clamp8(a[2] / p.prescale)
}

// ChannelImage flattens one channel's reconstruction to packed RGB bytes,
// row major.
func (p *Panel) ChannelImage(channel int) []byte {
	img := make([]byte, p.rows*p.width*3)
	for y := 0; y < p.rows; y++ {
		for x := 0; x < p.width; x++ {
			r, g, b := p.Value(channel, y, x)
			i := (y*p.width + x) * 3
			img[i], img[i+1], img[i+2] = r, g, b
		}
	}
	return img
}

// Size returns the per-channel image dimensions.
func (p *Panel) Size() (w, h int) { return p.width, p.rows }

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
