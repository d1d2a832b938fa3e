// Package memory models the external DMA-style read port the pipeline
// fetches framebuffer words through: a bounded request queue with
// configurable completion latency, strict FIFO ordering, and a plain
// word-addressed backing store the control plane writes into.
package memory

import (
	"fmt"
	"math/rand"
)

// QueueDepth bounds the number of requests the port accepts before
// backpressuring the issuer.
const QueueDepth = 16

type request struct {
	addr      uint32
	remaining int
}

// Port is a tick-stepped read port over a word-addressed RAM.
//
// Issue and SourceAck take effect during the commit phase of a tick;
// SinkReady, SourceValid and SourceData report the state as of the previous
// Step. Completions come back strictly in issue order: a short-latency
// request queued behind a long one waits at the head of the line.
type Port struct {
	ram     []uint32
	latency int

	minLatency int
	maxLatency int
	rng        *rand.Rand

	pending []request
	ready   []uint32
}

// NewPort wraps ram with a fixed completion latency in ticks (minimum 1).
func NewPort(ram []uint32, latency int) (*Port, error) {
	if len(ram) == 0 {
		return nil, fmt.Errorf("empty backing RAM")
	}
	if latency < 1 {
		return nil, fmt.Errorf("latency must be at least 1 tick, got %d", latency)
	}
	return &Port{ram: ram, latency: latency}, nil
}

// SetLatencyRange switches to per-request random latencies in [min, max],
// seeded for reproducible stall schedules.
func (p *Port) SetLatencyRange(min, max int, seed int64) error {
	if min < 1 || max < min {
		return fmt.Errorf("invalid latency range [%d, %d]", min, max)
	}
	p.minLatency, p.maxLatency = min, max
	p.rng = rand.New(rand.NewSource(seed))
	return nil
}

func (p *Port) nextLatency() int {
	if p.rng == nil {
		return p.latency
	}
	return p.minLatency + p.rng.Intn(p.maxLatency-p.minLatency+1)
}

// SinkReady reports whether the port can accept another request.
func (p *Port) SinkReady() bool {
	return len(p.pending)+len(p.ready) < QueueDepth
}

// Issue queues a read of one 32-bit word.
func (p *Port) Issue(addr uint32) {
	p.pending = append(p.pending, request{addr: addr, remaining: p.nextLatency()})
}

// SourceValid reports whether a completed word is being presented.
func (p *Port) SourceValid() bool { return len(p.ready) > 0 }

// SourceData returns the presented word, or zero when none is.
func (p *Port) SourceData() uint32 {
	if len(p.ready) == 0 {
		return 0
	}
	return p.ready[0]
}

// SourceAck retires the presented word.
func (p *Port) SourceAck() {
	if len(p.ready) > 0 {
		p.ready = p.ready[1:]
	}
}

// Step ages every pending request one tick and moves matured head-of-queue
// requests to the completion side.
func (p *Port) Step() {
	for i := range p.pending {
		if p.pending[i].remaining > 0 {
			p.pending[i].remaining--
		}
	}
	for len(p.pending) > 0 && p.pending[0].remaining == 0 {
		p.ready = append(p.ready, p.ram[int(p.pending[0].addr)%len(p.ram)])
		p.pending = p.pending[1:]
	}
}

// InFlight returns the number of unretired requests, for assertions.
func (p *Port) InFlight() int { return len(p.pending) + len(p.ready) }

// RAM returns the backing store for external producers to write into.
func (p *Port) RAM() []uint32 { return p.ram }

// WriteWord stores one framebuffer word.
func (p *Port) WriteWord(addr uint32, w uint32) {
	p.ram[int(addr)%len(p.ram)] = w
}
