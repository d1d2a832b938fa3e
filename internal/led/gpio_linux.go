//go:build linux

package led

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/ledworks/hub75core/internal/hub75"
)

// GPIO mirrors the simulated pin states onto real GPIO lines via periph.io.
// Only channel 0's data pins are wired; that is enough to drive a single
// directly connected panel from the simulation.
type GPIO struct {
	clk, lat, oe           gpio.PinOut
	r0, g0, b0, r1, g1, b1 gpio.PinOut
}

// PinNames selects the host GPIO lines by periph name (e.g. "GPIO17").
type PinNames struct {
	Clk, Lat, OE           string
	R0, G0, B0, R1, G1, B1 string
}

func NewGPIO(names PinNames) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	lookup := func(name string) (gpio.PinOut, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("gpio pin %q not found", name)
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("gpio pin %q: %w", name, err)
		}
		return p, nil
	}
	g := &GPIO{}
	var err error
	for _, bind := range []struct {
		dst  *gpio.PinOut
		name string
	}{
		{&g.clk, names.Clk}, {&g.lat, names.Lat}, {&g.oe, names.OE},
		{&g.r0, names.R0}, {&g.g0, names.G0}, {&g.b0, names.B0},
		{&g.r1, names.R1}, {&g.g1, names.G1}, {&g.b1, names.B1},
	} {
		if *bind.dst, err = lookup(bind.name); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Write drives one tick's pin state out. Errors are returned for the first
// failing line; the panel tolerates a partially driven tick far better than
// the tick loop tolerates blocking.
func (g *GPIO) Write(pins hub75.PinState) error {
	out := pins.Outputs[0]
	for _, drive := range []struct {
		pin   gpio.PinOut
		level bool
	}{
		{g.clk, pins.Common.Clk},
		{g.lat, pins.Common.Lat},
		{g.oe, pins.Common.Blank},
		{g.r0, out.R0}, {g.g0, out.G0}, {g.b0, out.B0},
		{g.r1, out.R1}, {g.g1, out.G1}, {g.b1, out.B1},
	} {
		if err := drive.pin.Out(gpio.Level(drive.level)); err != nil {
			return err
		}
	}
	return nil
}

func (g *GPIO) Close() error { return nil }
