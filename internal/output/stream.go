package output

import (
	"github.com/temirov/folderwalk/internal/services/stream"
)

// StreamRenderer consumes walk events one at a time and finalizes the
// rendered document on Flush.
type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}
