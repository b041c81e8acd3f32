package stream

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/temirov/folderwalk/internal/types"
	"github.com/temirov/folderwalk/internal/walk"
)

type emitter struct {
	ctx context.Context
	out chan<- Event
}

func newEmitter(ctx context.Context, out chan<- Event) *emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &emitter{ctx: ctx, out: out}
}

func (e *emitter) send(event Event) error {
	if e.out == nil {
		return fmt.Errorf("stream: event channel is nil")
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	case e.out <- event:
		return nil
	}
}

func (e *emitter) warn(message string) {
	if message == "" {
		return
	}
	_ = e.send(Event{Kind: EventKindWarning, Message: message})
}

// StreamWalk walks the subtree described by options and converts every node
// into an Event on out. The root is validated before the start event so an
// invalid root produces no output at all. The caller owns the channel and
// closes it after StreamWalk returns.
func StreamWalk(ctx context.Context, options walk.Options, out chan<- Event) error {
	if options.Root == "" {
		return fmt.Errorf("stream: walk root path is empty")
	}
	if validateError := walk.ValidateRoot(options.Root); validateError != nil {
		return validateError
	}

	emitter := newEmitter(ctx, out)
	if sendError := emitter.send(Event{Kind: EventKindStart, RootLabel: filepath.Base(filepath.Clean(options.Root))}); sendError != nil {
		return sendError
	}

	walkOptions := options
	walkOptions.Warn = func(message string) {
		emitter.warn(message)
	}

	walkError := walk.Stream(walkOptions, func(node types.TreeNode) error {
		nodeCopy := node
		return emitter.send(Event{Kind: EventKindNode, Node: &nodeCopy})
	})
	if walkError != nil {
		_ = emitter.send(Event{Kind: EventKindError, Message: walkError.Error()})
		return walkError
	}

	return emitter.send(Event{Kind: EventKindDone})
}
