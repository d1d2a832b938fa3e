package hub75

import "testing"

func TestGammaEndpoints(t *testing.T) {
	if Gamma(0) != 0 {
		t.Fatalf("gamma(0) = %d, want 0", Gamma(0))
	}
	if Gamma(255) != 255 {
		t.Fatalf("gamma(255) = %d, want 255", Gamma(255))
	}
}

func TestGammaMonotonic(t *testing.T) {
	for i := 1; i < 256; i++ {
		if Gamma(uint8(i)) < Gamma(uint8(i-1)) {
			t.Fatalf("gamma not monotonic at %d: %d < %d", i, Gamma(uint8(i)), Gamma(uint8(i-1)))
		}
	}
}

func TestGammaWordChannels(t *testing.T) {
	// 0x00BBGGRR packing: each channel must be corrected independently.
	w := gammaWord(0x00204080)
	r := uint8(w & 0xFF)
	g := uint8(w >> 8 & 0xFF)
	b := uint8(w >> 16 & 0xFF)
	if r != Gamma(0x80) || g != Gamma(0x40) || b != Gamma(0x20) {
		t.Fatalf("gammaWord(0x00204080) = %06x, want channels (%d,%d,%d)",
			w, Gamma(0x80), Gamma(0x40), Gamma(0x20))
	}
	if w>>24 != 0 {
		t.Fatalf("gammaWord leaked into the top byte: %08x", w)
	}
}
