package hub75

// Palette is the externally writable 256-entry color table used in indexed
// framebuffer mode. The pipeline only ever reads it; writes from the control
// plane become visible no earlier than the read sweep that looks them up.
type Palette struct {
	mem [256]uint32
}

// Write stores a 24-bit 0x00BBGGRR entry.
func (p *Palette) Write(index uint8, rgb uint32) {
	p.mem[index] = rgb & 0xFFFFFF
}

// Read returns the entry for index.
func (p *Palette) Read(index uint8) uint32 {
	return p.mem[index]
}

// SetRGB stores an entry from separate channel values.
func (p *Palette) SetRGB(index uint8, r, g, b uint8) {
	p.mem[index] = uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}
