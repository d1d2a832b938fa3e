package hub75

// RowBufferSet holds one fully processed row for all eight output channels:
// gamma-corrected 24-bit words, top/bottom halves interleaved in the low
// address bit.
type RowBufferSet struct {
	buf [NumOutputs][]uint32
}

func newRowBufferSet(depth int) RowBufferSet {
	var s RowBufferSet
	for i := range s.buf {
		s.buf[i] = make([]uint32, depth)
	}
	return s
}

// At returns the word for one channel at a buffer index.
func (s *RowBufferSet) At(channel, index int) uint32 {
	return s.buf[channel][index]
}

// rowBufferPair is the ping/pong pair: exactly one side is being filled by
// the read pipeline while the other is drained by the serializer. The swap
// is the row controller's single synchronization point.
type rowBufferPair struct {
	bufs [2]RowBufferSet
}

func newRowBufferPair(depth int) rowBufferPair {
	return rowBufferPair{bufs: [2]RowBufferSet{newRowBufferSet(depth), newRowBufferSet(depth)}}
}
