// Package output renders walk events as connector-drawn tree text.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/folderwalk/internal/types"
	"github.com/temirov/folderwalk/internal/utils"
)

const (
	directorySuffix = "/"

	symlinkTargetFormat = "%s -> %s"
	tokenCountFormat    = " (%d tokens)"

	contentStartFence  = "--- FILE CONTENT START ---"
	contentEndFence    = "--- FILE CONTENT END ---"
	contentBlockIndent = "    "

	unreadableFileFormat = "[Could not read file: %s]"
	binaryOmittedFormat  = "[Binary file content omitted: %s]"
)

// NodeGutterPrefix returns the gutter columns drawn before a node's
// connector. The first ancestor flag covers the root level, which draws no
// column of its own.
func NodeGutterPrefix(node types.TreeNode, glyphs GlyphSet) string {
	ancestorFlags := node.AncestorLastFlags
	if len(ancestorFlags) > 0 {
		ancestorFlags = ancestorFlags[1:]
	}
	var builder strings.Builder
	for _, ancestorWasLast := range ancestorFlags {
		if ancestorWasLast {
			builder.WriteString(glyphs.LastPadding)
		} else {
			builder.WriteString(glyphs.BranchPadding)
		}
	}
	return builder.String()
}

// FormatNodeLine returns the rendered entry line for node without a trailing
// newline. Directories carry a trailing slash and symbolic links show their
// target; token annotations apply to counted files only.
func FormatNodeLine(node types.TreeNode, glyphs GlyphSet, showTokens bool) string {
	connector := glyphs.BranchConnector
	if node.IsLastSibling {
		connector = glyphs.LastConnector
	}
	label := node.Name
	switch node.Kind {
	case types.NodeKindDirectory:
		label += directorySuffix
	case types.NodeKindSymlink:
		label = fmt.Sprintf(symlinkTargetFormat, label, node.SymlinkTarget)
	case types.NodeKindFile:
		if showTokens && node.Tokens > 0 {
			label += fmt.Sprintf(tokenCountFormat, node.Tokens)
		}
	}
	return NodeGutterPrefix(node, glyphs) + connector + label
}

// writeContentBlock renders the content block that follows a file's entry
// line. Every block line is indented by the node's gutter prefix plus four
// spaces; fences wrap readable text while read failures and binary files
// collapse to a single marker line.
func writeContentBlock(writer io.Writer, content *types.FileContent, gutterPrefix string) error {
	blockIndent := gutterPrefix + contentBlockIndent
	if content.ReadError != "" {
		_, writeError := fmt.Fprintf(writer, "%s%s\n", blockIndent, fmt.Sprintf(unreadableFileFormat, content.ReadError))
		return writeError
	}
	if content.IsBinary {
		_, writeError := fmt.Fprintf(writer, "%s%s\n", blockIndent, fmt.Sprintf(binaryOmittedFormat, content.MimeType))
		return writeError
	}
	if _, writeError := fmt.Fprintf(writer, "%s%s\n", blockIndent, contentStartFence); writeError != nil {
		return writeError
	}
	for _, contentLine := range contentLines(content.Text) {
		if _, writeError := fmt.Fprintf(writer, "%s%s\n", blockIndent, contentLine); writeError != nil {
			return writeError
		}
	}
	_, writeError := fmt.Fprintf(writer, "%s%s\n", blockIndent, contentEndFence)
	return writeError
}

// contentLines splits text into rendered lines. A single trailing newline
// collapses so files with and without one produce the same block.
func contentLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// FormatSummaryLine formats a WalkSummary into the trailing summary line.
func FormatSummaryLine(summary types.WalkSummary) string {
	label := "files"
	if summary.TotalFiles == 1 {
		label = "file"
	}
	tokenSuffix := ""
	if summary.TotalTokens > 0 {
		tokenSuffix = fmt.Sprintf(", %d tokens", summary.TotalTokens)
	}
	modelSuffix := ""
	if summary.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s", summary.TotalFiles, label, utils.FormatFileSize(summary.TotalSizeBytes), tokenSuffix, modelSuffix)
}
