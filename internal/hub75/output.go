package hub75

// serializer extracts the active BCM bit from each channel's row buffer and
// deinterleaves the half-alternating stream onto the six physical data
// lines per channel. Pins commit in pairs: the top and bottom half update
// together one tick after the buffer-select transition back to zero.
type serializer struct {
	datR   [NumOutputs]uint32           // registered row-buffer reads
	outBuf [NumOutputs][3][2]bool       // staged bits per channel, color, half
	pins   [NumOutputs]OutputPins
}

type serializerIn struct {
	drain  *RowBufferSet
	addr   int // row clock counter
	bufSel int // delayed counter parity
	bit    int // active bit plane
}

func (s *serializer) step(in serializerIn) {
	// Pin commit first: it consumes the staged bits from previous ticks.
	if in.bufSel == 0 {
		for ch := range s.pins {
			s.pins[ch] = OutputPins{
				R0: s.outBuf[ch][0][0], R1: s.outBuf[ch][0][1],
				G0: s.outBuf[ch][1][0], G1: s.outBuf[ch][1][1],
				B0: s.outBuf[ch][2][0], B1: s.outBuf[ch][2][1],
			}
		}
	}

	for ch := range s.outBuf {
		word := s.datR[ch]
		for color := 0; color < 3; color++ {
			bit := word>>(uint(color*8+in.bit))&1 == 1
			s.outBuf[ch][color][in.bufSel] = bit
		}
	}

	depth := len(in.drain.buf[0])
	for ch := range s.datR {
		s.datR[ch] = in.drain.buf[ch][in.addr%depth]
	}
}
