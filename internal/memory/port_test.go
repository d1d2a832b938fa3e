package memory

import "testing"

func TestPortCompletesInIssueOrder(t *testing.T) {
	ram := []uint32{10, 11, 12, 13, 14, 15, 16, 17}
	p, err := NewPort(ram, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetLatencyRange(1, 5, 99); err != nil {
		t.Fatal(err)
	}

	var got []uint32
	next := uint32(0)
	for tick := 0; tick < 200 && len(got) < len(ram); tick++ {
		if p.SinkReady() && next < uint32(len(ram)) {
			p.Issue(next)
			next++
		}
		if p.SourceValid() {
			got = append(got, p.SourceData())
			p.SourceAck()
		}
		p.Step()
	}
	if len(got) != len(ram) {
		t.Fatalf("retired %d words, want %d", len(got), len(ram))
	}
	for i, w := range got {
		if w != ram[i] {
			t.Fatalf("completion %d = %d, want %d: order not FIFO", i, w, ram[i])
		}
	}
}

func TestPortBackpressuresAtQueueDepth(t *testing.T) {
	ram := make([]uint32, 4)
	p, err := NewPort(ram, 50)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < QueueDepth; i++ {
		if !p.SinkReady() {
			t.Fatalf("sink not ready at %d in flight", i)
		}
		p.Issue(uint32(i))
		p.Step()
	}
	if p.SinkReady() {
		t.Fatalf("sink still ready with %d in flight", p.InFlight())
	}
	if p.InFlight() != QueueDepth {
		t.Fatalf("in flight = %d, want %d", p.InFlight(), QueueDepth)
	}

	// Retiring one word frees exactly one slot.
	for tick := 0; tick < 100 && !p.SourceValid(); tick++ {
		p.Step()
	}
	if !p.SourceValid() {
		t.Fatal("no completion after the latency elapsed")
	}
	p.SourceAck()
	if !p.SinkReady() {
		t.Fatal("sink not ready after retiring a word")
	}
}

func TestPortHeadOfLineBlocking(t *testing.T) {
	ram := []uint32{1, 2}
	p, err := NewPort(ram, 1)
	if err != nil {
		t.Fatal(err)
	}
	// Force a slow head request ahead of a fast one by stepping the fast one
	// in before the head matures.
	p.latency = 10
	p.Issue(0)
	p.latency = 1
	p.Issue(1)
	for i := 0; i < 5; i++ {
		p.Step()
		if p.SourceValid() {
			t.Fatalf("short request overtook the queue head at tick %d", i)
		}
	}
	for i := 0; i < 20 && !p.SourceValid(); i++ {
		p.Step()
	}
	if p.SourceData() != 1 {
		t.Fatalf("head completion = %d, want 1", p.SourceData())
	}
	p.SourceAck()
	if !p.SourceValid() || p.SourceData() != 2 {
		t.Fatal("second completion did not follow immediately behind the head")
	}
}
