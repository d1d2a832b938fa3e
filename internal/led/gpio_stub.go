//go:build !linux

package led

import (
	"fmt"

	"github.com/ledworks/hub75core/internal/hub75"
)

type GPIO struct{}

type PinNames struct {
	Clk, Lat, OE           string
	R0, G0, B0, R1, G1, B1 string
}

func NewGPIO(names PinNames) (*GPIO, error) {
	return nil, fmt.Errorf("gpio sink not supported on this platform")
}

func (g *GPIO) Write(pins hub75.PinState) error {
	return fmt.Errorf("gpio sink not supported on this platform")
}

func (g *GPIO) Close() error { return nil }
