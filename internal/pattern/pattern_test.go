package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGBPacking(t *testing.T) {
	assert.Equal(t, uint32(0x0000FF), RGB(255, 0, 0), "red sits in the low byte")
	assert.Equal(t, uint32(0x00FF00), RGB(0, 255, 0))
	assert.Equal(t, uint32(0xFF0000), RGB(0, 0, 255))
	assert.Equal(t, uint32(0x204080), RGB(0x80, 0x40, 0x20))
}

func TestHSVToRGBPrimaries(t *testing.T) {
	tests := []struct {
		name    string
		h       uint16
		s, v    uint8
		r, g, b uint8
	}{
		{"red", 0, 255, 255, 255, 0, 0},
		{"green", 120, 255, 255, 0, 255, 0},
		{"blue", 240, 255, 255, 0, 0, 255},
		{"desaturated is gray", 180, 0, 77, 77, 77, 77},
		{"dark red", 0, 255, 10, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := HSVToRGB(tt.h, tt.s, tt.v)
			assert.Equal(t, [3]uint8{tt.r, tt.g, tt.b}, [3]uint8{r, g, b})
		})
	}
}

func TestGenerateSolidsAndErrors(t *testing.T) {
	buf, err := Generate("solid_green", 16, 8)
	require.NoError(t, err)
	require.Len(t, buf, 16*8)
	for _, w := range buf {
		assert.Equal(t, RGB(0, 255, 0), w)
	}

	_, err = Generate("plaid", 16, 8)
	assert.Error(t, err)
	_, err = Generate("grid", 0, 8)
	assert.Error(t, err)
}

func TestGridLandmarks(t *testing.T) {
	const w, h = 96, 48
	buf, err := Generate("grid", w, h)
	require.NoError(t, err)

	white := RGB(255, 255, 255)
	for _, row := range []int{0, h / 4, h / 2, 3 * h / 4, h - 1} {
		for col := 0; col < w; col++ {
			require.Equal(t, white, buf[row*w+col], "rule at row %d col %d", row, col)
		}
	}
	// Verticals keep their colors between the rules.
	assert.Equal(t, RGB(255, 0, 0), buf[1*w+0])
	assert.Equal(t, RGB(0, 255, 0), buf[1*w+w/4])
	assert.Equal(t, RGB(0, 0, 255), buf[1*w+w/2])
}

func TestGenerateIndexedRoundTrips(t *testing.T) {
	for _, name := range []string{"grid", "solid_white", "solid_red", "solid_green", "solid_blue"} {
		indices, palette, err := GenerateIndexed(name, 96, 48)
		require.NoError(t, err, name)
		require.LessOrEqual(t, len(palette), 256, name)

		rgb, err := Generate(name, 96, 48)
		require.NoError(t, err)
		for i, idx := range indices {
			require.Less(t, int(idx), len(palette), "%s: index out of palette", name)
			require.Equal(t, rgb[i], palette[idx], "%s: pixel %d", name, i)
		}
	}
}

func TestGenerateIndexedRejectsTooManyColors(t *testing.T) {
	// The full-size rainbow sweeps more distinct words than the palette
	// holds, which indexed mode must refuse rather than quantize silently.
	_, _, err := GenerateIndexed("rainbow", 96, 48)
	assert.Error(t, err)
}
