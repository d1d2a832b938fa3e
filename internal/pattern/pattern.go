// Package pattern generates framebuffer content for bring-up and preview:
// the same grid, rainbow and solid test patterns the display's tooling
// ships, packed as 0x00BBGGRR words.
package pattern

import "fmt"

// Names lists the supported pattern identifiers.
var Names = []string{"grid", "rainbow", "solid_white", "solid_red", "solid_green", "solid_blue"}

// RGB packs channel values into a framebuffer word.
func RGB(r, g, b uint8) uint32 {
	return uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// HSVToRGB converts h in [0,360), s and v in [0,255] using the same integer
// arithmetic the firmware patterns use.
func HSVToRGB(h uint16, s, v uint8) (r, g, b uint8) {
	if s == 0 {
		return v, v, v
	}
	region := h / 60
	remainder := uint32(h%60) * 255 / 60

	p := uint32(v) * (255 - uint32(s)) / 255
	q := uint32(v) * (255 - uint32(s)*remainder/255) / 255
	t := uint32(v) * (255 - uint32(s)*(255-remainder)/255) / 255

	switch region {
	case 0:
		return v, uint8(t), uint8(p)
	case 1:
		return uint8(q), v, uint8(p)
	case 2:
		return uint8(p), v, uint8(t)
	case 3:
		return uint8(p), uint8(q), v
	case 4:
		return uint8(t), uint8(p), v
	default:
		return v, uint8(p), uint8(q)
	}
}

// Generate fills a width*height word slice with the named pattern.
func Generate(name string, width, height int) ([]uint32, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid pattern size %dx%d", width, height)
	}
	buf := make([]uint32, width*height)
	switch name {
	case "grid":
		grid(buf, width, height)
	case "rainbow":
		rainbow(buf, width, height)
	case "solid_white":
		fill(buf, RGB(255, 255, 255))
	case "solid_red":
		fill(buf, RGB(255, 0, 0))
	case "solid_green":
		fill(buf, RGB(0, 255, 0))
	case "solid_blue":
		fill(buf, RGB(0, 0, 255))
	default:
		return nil, fmt.Errorf("unknown pattern %q", name)
	}
	return buf, nil
}

func fill(buf []uint32, w uint32) {
	for i := range buf {
		buf[i] = w
	}
}

// grid draws white horizontal rules at 0, 1/4, 1/2, 3/4 and the last row,
// colored verticals at the same stops, and a diagonal X.
func grid(buf []uint32, w, h int) {
	vColors := []uint32{
		RGB(255, 0, 0),
		RGB(0, 255, 0),
		RGB(0, 0, 255),
		RGB(255, 255, 0),
		RGB(0, 255, 255),
	}
	for row := 0; row < h; row++ {
		hLine := row == 0 || row == h/4 || row == h/2 || row == 3*h/4 || row == h-1
		for col := 0; col < w; col++ {
			var word uint32
			switch {
			case hLine:
				word = RGB(255, 255, 255)
			case col == 0:
				word = vColors[0]
			case col == w/4:
				word = vColors[1]
			case col == w/2:
				word = vColors[2]
			case col == 3*w/4:
				word = vColors[3]
			case col == w-1:
				word = vColors[4]
			case col*h/w == row || (w-1-col)*h/w == row:
				word = RGB(128, 128, 128)
			}
			buf[row*w+col] = word
		}
	}
}

func rainbow(buf []uint32, w, h int) {
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			hue := uint16((col * 360 / w) % 360)
			sat := uint8(255)
			val := uint8(64 + row*191/maxInt(1, h-1))
			r, g, b := HSVToRGB(hue, sat, val)
			buf[row*w+col] = RGB(r, g, b)
		}
	}
}

// GenerateIndexed produces an indexed-mode framebuffer plus the palette it
// references: the pattern quantized to at most 256 distinct words.
func GenerateIndexed(name string, width, height int) (indices []uint32, palette []uint32, err error) {
	rgb, err := Generate(name, width, height)
	if err != nil {
		return nil, nil, err
	}
	lookup := map[uint32]uint32{}
	indices = make([]uint32, len(rgb))
	for i, w := range rgb {
		idx, ok := lookup[w]
		if !ok {
			if len(lookup) >= 256 {
				return nil, nil, fmt.Errorf("pattern %q needs more than 256 palette entries", name)
			}
			idx = uint32(len(lookup))
			lookup[w] = idx
			palette = append(palette, w)
		}
		indices[i] = idx
	}
	return indices, palette, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
