// Package config loads the simulator's YAML configuration and applies the
// panel layout grid onto the controller's register surface.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ledworks/hub75core/internal/hub75"
)

// posUnit is the register granularity for tile offsets: 16 pixels.
const posUnit = 16

type Geometry struct {
	Columns int `yaml:"columns"` // e.g. 96, 128
	Rows    int `yaml:"rows"`    // e.g. 48, 64
	Scan    int `yaml:"scan"`    // e.g. 24 for 1/24 scan
	Chain   int `yaml:"chain"`   // panels per output, default 1
}

// Assign places one (output, chain) panel segment on the virtual grid, in
// whole-panel units.
type Assign struct {
	Output int `yaml:"output"` // 0..7
	Chain  int `yaml:"chain"`  // 0..chain-1
	Col    int `yaml:"col"`
	Row    int `yaml:"row"`
	Rot    int `yaml:"rot"` // clockwise 90 degree steps, 0..3
}

type Preview struct {
	Addr    string `yaml:"addr"`    // websocket listen address
	Channel int    `yaml:"channel"` // channel streamed when not composing
	Compose bool   `yaml:"compose"` // assemble the canvas from all slots
	TickHz  int    `yaml:"tick_hz"` // simulated clock rate
}

type GPIO struct {
	Enabled bool   `yaml:"enabled"`
	Clk     string `yaml:"clk"`
	Lat     string `yaml:"lat"`
	OE      string `yaml:"oe"`
	R0      string `yaml:"r0"`
	G0      string `yaml:"g0"`
	B0      string `yaml:"b0"`
	R1      string `yaml:"r1"`
	G1      string `yaml:"g1"`
	B1      string `yaml:"b1"`
}

type Config struct {
	Geometry Geometry `yaml:"geometry"`
	GridCols int      `yaml:"grid_cols"`
	GridRows int      `yaml:"grid_rows"`
	Panels   []Assign `yaml:"panels"`

	Indexed  bool   `yaml:"indexed"`
	Pattern  string `yaml:"pattern"`
	FBBase   uint32 `yaml:"fb_base"` // framebuffer base, 32-bit words
	Prescale int    `yaml:"prescale"`

	Preview Preview `yaml:"preview,omitempty"`
	GPIO    GPIO    `yaml:"gpio,omitempty"`
}

// Default is a single 96x48 1/24-scan panel on output 0.
func Default() *Config {
	return &Config{
		Geometry: Geometry{Columns: 96, Rows: 48, Scan: 24, Chain: 1},
		GridCols: 1,
		GridRows: 1,
		Panels:   []Assign{{Output: 0, Chain: 0, Col: 0, Row: 0}},
		Pattern:  "grid",
		Prescale: 16,
		Preview:  Preview{Addr: ":8080", Compose: true, TickHz: 1_000_000},
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// VirtualWidth is the canvas row stride in pixels.
func (c *Config) VirtualWidth() int { return c.Geometry.Columns * c.GridCols }

// VirtualHeight is the canvas height in pixels.
func (c *Config) VirtualHeight() int { return c.Geometry.Rows * c.GridRows }

// Hub75Geometry converts the YAML geometry into the pipeline's form.
func (c *Config) Hub75Geometry() hub75.Geometry {
	chain := c.Geometry.Chain
	if chain <= 0 {
		chain = 1
	}
	return hub75.Geometry{
		Columns:     c.Geometry.Columns,
		Rows:        c.Geometry.Rows,
		Scan:        c.Geometry.Scan,
		ChainLength: chain,
	}
}

// Apply writes the grid assignments and canvas stride into the register
// file. Panel offsets must fall on the 16-pixel register granularity.
func (c *Config) Apply(regs *hub75.Registers) error {
	if c.Geometry.Columns%posUnit != 0 || c.Geometry.Rows%posUnit != 0 {
		return fmt.Errorf("panel size %dx%d is not a multiple of %d",
			c.Geometry.Columns, c.Geometry.Rows, posUnit)
	}
	regs.Ctrl.Width = uint16(c.VirtualWidth())
	regs.Ctrl.Indexed = c.Indexed
	regs.FBBase = c.FBBase
	for _, a := range c.Panels {
		if a.Col < 0 || a.Col >= c.GridCols || a.Row < 0 || a.Row >= c.GridRows {
			return fmt.Errorf("panel output %d chain %d placed off the %dx%d grid",
				a.Output, a.Chain, c.GridCols, c.GridRows)
		}
		slot := hub75.PanelSlot{
			X:   uint8(a.Col * c.Geometry.Columns / posUnit),
			Y:   uint8(a.Row * c.Geometry.Rows / posUnit),
			Rot: uint8(a.Rot & 3),
		}
		if err := regs.SetPanel(a.Output, a.Chain, slot); err != nil {
			return err
		}
	}
	return nil
}
