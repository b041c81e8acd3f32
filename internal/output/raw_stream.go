package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/temirov/folderwalk/internal/services/stream"
	"github.com/temirov/folderwalk/internal/types"
)

// Options configures a tree stream renderer.
type Options struct {
	// Glyphs selects the connector set used for branches and gutters.
	Glyphs GlyphSet
	// IncludeSummary appends the aggregate summary line after the tree.
	IncludeSummary bool
	// ShowTokens appends per-file token annotations to entry lines.
	ShowTokens bool
	// Model names the tokenizer encoding reported in the summary.
	Model string
}

type rawSummary struct {
	files  int
	bytes  int64
	tokens int
}

type treeStreamRenderer struct {
	writer       io.Writer
	stderr       io.Writer
	options      Options
	summary      rawSummary
	warningColor *color.Color
	errorColor   *color.Color
}

// NewTreeStreamRenderer builds the raw text renderer consuming walk events.
// Rendered lines go to writer; warnings and errors go to stderr and are
// colored unless color output is globally disabled.
func NewTreeStreamRenderer(writer io.Writer, stderr io.Writer, options Options) StreamRenderer {
	return &treeStreamRenderer{
		writer:       writer,
		stderr:       stderr,
		options:      options,
		warningColor: color.New(color.FgYellow),
		errorColor:   color.New(color.FgRed),
	}
}

func (renderer *treeStreamRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindStart:
		return renderer.writeHeader(event.RootLabel)
	case stream.EventKindNode:
		return renderer.handleNode(event.Node)
	case stream.EventKindWarning:
		renderer.writeMessage(renderer.warningColor, event.Message)
	case stream.EventKindError:
		renderer.writeMessage(renderer.errorColor, event.Message)
	}
	return nil
}

// Flush appends the summary trailer once the walk completes.
func (renderer *treeStreamRenderer) Flush() error {
	if !renderer.options.IncludeSummary || renderer.writer == nil {
		return nil
	}
	summary := types.WalkSummary{
		TotalFiles:     renderer.summary.files,
		TotalSizeBytes: renderer.summary.bytes,
		TotalTokens:    renderer.summary.tokens,
	}
	if summary.TotalTokens > 0 {
		summary.Model = renderer.options.Model
	}
	_, writeError := fmt.Fprintf(renderer.writer, "\n%s\n", FormatSummaryLine(summary))
	return writeError
}

func (renderer *treeStreamRenderer) writeHeader(rootLabel string) error {
	if renderer.writer == nil {
		return nil
	}
	_, writeError := fmt.Fprintf(renderer.writer, "%s\n", rootLabel)
	return writeError
}

func (renderer *treeStreamRenderer) handleNode(node *types.TreeNode) error {
	if node == nil || renderer.writer == nil {
		return nil
	}
	if node.Kind == types.NodeKindFile {
		renderer.summary.files++
		renderer.summary.bytes += node.SizeBytes
		renderer.summary.tokens += node.Tokens
	}
	if _, writeError := fmt.Fprintf(renderer.writer, "%s\n", FormatNodeLine(*node, renderer.options.Glyphs, renderer.options.ShowTokens)); writeError != nil {
		return writeError
	}
	if node.Kind == types.NodeKindFile && node.Content != nil {
		return writeContentBlock(renderer.writer, node.Content, NodeGutterPrefix(*node, renderer.options.Glyphs))
	}
	return nil
}

func (renderer *treeStreamRenderer) writeMessage(messageColor *color.Color, message string) {
	if message == "" || renderer.stderr == nil {
		return
	}
	messageColor.Fprintln(renderer.stderr, message)
}
