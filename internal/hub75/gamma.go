package hub75

import "math"

// Gamma value for LED perceived-brightness correction, applied once per
// channel between palette resolution and the row buffers.
const gammaExp = 2.8

var gammaTable = buildGammaTable()

func buildGammaTable() [256]uint8 {
	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(math.Pow(float64(i)/255.0, gammaExp)*255.0 + 0.5)
	}
	return lut
}

// Gamma maps a linear 8-bit channel value to its corrected value.
func Gamma(v uint8) uint8 { return gammaTable[v] }

// gammaWord corrects the three packed channels of a 0x00BBGGRR word.
func gammaWord(w uint32) uint32 {
	r := uint32(gammaTable[w&0xFF])
	g := uint32(gammaTable[(w>>8)&0xFF])
	b := uint32(gammaTable[(w>>16)&0xFF])
	return b<<16 | g<<8 | r
}
