package led

import "github.com/ledworks/hub75core/internal/hub75"

// Sink receives the pipeline's physical pin state once per tick.
type Sink interface {
	Write(pins hub75.PinState) error
	Close() error
}
