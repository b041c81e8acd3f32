// Package clipboard exports rendered output to the system clipboard.
package clipboard

import (
	"bytes"

	"github.com/atotto/clipboard"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)

// Capture buffers everything written through it so a completed render can be
// copied in a single call. Writes never fail.
type Capture struct {
	buffer bytes.Buffer
}

func (capture *Capture) Write(data []byte) (int, error) {
	return capture.buffer.Write(data)
}

// Text returns the captured output.
func (capture *Capture) Text() string {
	return capture.buffer.String()
}
