// Package stream bridges the walker and a renderer with a context-aware
// event channel.
package stream

import (
	"github.com/temirov/folderwalk/internal/types"
)

// EventKind identifies the payload carried by an Event.
type EventKind string

const (
	// EventKindStart opens the stream and names the walked root.
	EventKindStart EventKind = "start"
	// EventKindNode carries one emitted tree node.
	EventKindNode EventKind = "node"
	// EventKindWarning carries a recoverable traversal problem.
	EventKindWarning EventKind = "warning"
	// EventKindError reports a walk failure after emission started.
	EventKindError EventKind = "error"
	// EventKindDone terminates a successfully completed stream.
	EventKindDone EventKind = "done"
)

// Event is one element of the walk event stream consumed by a renderer.
// The payload field matching Kind is populated; Message carries the text of
// both warning and error events.
type Event struct {
	Kind      EventKind
	RootLabel string
	Node      *types.TreeNode
	Message   string
}
