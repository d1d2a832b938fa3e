package hub75

import "testing"

// stepDrain runs the row clock and the serializer in lockstep the way the
// composed pipeline does, returning the pin state captured at every shift
// clock rising edge.
func stepDrain(t *testing.T, geom Geometry, drain *RowBufferSet, bit int) [][NumOutputs]OutputPins {
	t.Helper()
	rc := newRowClock(geom)
	var out serializer
	var edges [][NumOutputs]OutputPins
	prevClk := false
	start := true
	for tick := 0; tick < 10*rc.counterMax(); tick++ {
		addr := rc.counter
		sel := rc.bufferSelect()
		rc.step(start)
		out.step(serializerIn{drain: drain, addr: addr, bufSel: sel, bit: bit})
		start = false
		if rc.clk && !prevClk {
			edges = append(edges, out.pins)
		}
		prevClk = rc.clk
		if !rc.shifting && tick > 0 {
			return edges
		}
	}
	t.Fatal("drain pass never completed")
	return nil
}

func TestSerializerPairsHalvesPerClockEdge(t *testing.T) {
	geom := Geometry{Columns: 8, Rows: 2, Scan: 1, ChainLength: 1}
	depth := geom.bufferDepth()
	drain := newRowBufferSet(depth)
	// Equal R/G/B per entry so every color carries the entry index.
	for i := 0; i < depth; i++ {
		w := uint32(i) * 0x010101
		for ch := 0; ch < NumOutputs; ch++ {
			drain.buf[ch][i] = w
		}
	}

	for _, bit := range []int{0, 1, 2} {
		edges := stepDrain(t, geom, &drain, bit)
		if len(edges) != depth/2 {
			t.Fatalf("bit %d: %d clock edges, want %d", bit, len(edges), depth/2)
		}
		for k, pins := range edges {
			// Edge k shifts buffer entries 2k (top half) and 2k+1 (bottom).
			top := (2*k)>>uint(bit)&1 == 1
			bot := (2*k+1)>>uint(bit)&1 == 1
			for ch := 0; ch < NumOutputs; ch++ {
				p := pins[ch]
				if p.R0 != top || p.G0 != top || p.B0 != top {
					t.Fatalf("bit %d edge %d ch %d: top half %+v, want %v", bit, k, ch, p, top)
				}
				if p.R1 != bot || p.G1 != bot || p.B1 != bot {
					t.Fatalf("bit %d edge %d ch %d: bottom half %+v, want %v", bit, k, ch, p, bot)
				}
			}
		}
	}
}

func TestSerializerChannelsAndColorsAreIndependent(t *testing.T) {
	geom := Geometry{Columns: 4, Rows: 2, Scan: 1, ChainLength: 1}
	depth := geom.bufferDepth()
	drain := newRowBufferSet(depth)
	// Channel 3 carries red only in its top-half entries, channel 5 carries
	// blue only in its bottom-half entries. Everything else stays dark.
	for i := 0; i < depth; i += 2 {
		drain.buf[3][i] = 0x0000FF
	}
	for i := 1; i < depth; i += 2 {
		drain.buf[5][i] = 0xFF0000
	}

	edges := stepDrain(t, geom, &drain, 7)
	for k, pins := range edges {
		for ch := 0; ch < NumOutputs; ch++ {
			p := pins[ch]
			want := OutputPins{}
			switch ch {
			case 3:
				want.R0 = true
			case 5:
				want.B1 = true
			}
			if p != want {
				t.Fatalf("edge %d ch %d: pins %+v, want %+v", k, ch, p, want)
			}
		}
	}
}
