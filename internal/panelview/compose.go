package panelview

import "github.com/ledworks/hub75core/internal/hub75"

// Compose places every configured (output, chain) segment's reconstruction
// back onto the logical canvas, inverting nothing: it applies the same
// rotation-plus-tile-offset mapping the address generator used, so a correct
// pipeline reproduces the framebuffer contents (after gamma) exactly.
func (p *Panel) Compose(regs *hub75.Registers, vw, vh int) []byte {
	img := make([]byte, vw*vh*3)
	rowsPerHalf := p.rows / 2
	for ch := 0; ch < hub75.NumOutputs; ch++ {
		for k := 0; k < p.chain; k++ {
			slot := regs.Panel[ch][k]
			for y := 0; y < p.rows; y++ {
				for col := 0; col < p.columns; col++ {
					x, cy := hub75.RotateTile(slot.Rot, col, y, p.columns-1, rowsPerHalf)
					cx := x + int(slot.X)*16
					cy += int(slot.Y) * 16
					if cx < 0 || cx >= vw || cy < 0 || cy >= vh {
						continue
					}
					r, g, b := p.Value(ch, y, k*p.columns+col)
					i := (cy*vw + cx) * 3
					img[i], img[i+1], img[i+2] = r, g, b
				}
			}
		}
	}
	return img
}
