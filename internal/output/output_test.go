package output

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/temirov/folderwalk/internal/types"
	"github.com/temirov/folderwalk/internal/utils"
)

func TestFormatNodeLineVariants(t *testing.T) {
	testCases := []struct {
		name       string
		node       types.TreeNode
		glyphs     GlyphSet
		showTokens bool
		expected   string
	}{
		{
			name: "branch_file_unicode",
			node: types.TreeNode{
				Name:              "a.txt",
				Kind:              types.NodeKindFile,
				Depth:             1,
				AncestorLastFlags: []bool{true},
			},
			glyphs:   UnicodeGlyphs,
			expected: "├── a.txt",
		},
		{
			name: "last_directory_unicode",
			node: types.TreeNode{
				Name:              "src",
				Kind:              types.NodeKindDirectory,
				Depth:             1,
				IsLastSibling:     true,
				AncestorLastFlags: []bool{true},
			},
			glyphs:   UnicodeGlyphs,
			expected: "└── src/",
		},
		{
			name: "last_file_ascii",
			node: types.TreeNode{
				Name:              "a.txt",
				Kind:              types.NodeKindFile,
				Depth:             1,
				IsLastSibling:     true,
				AncestorLastFlags: []bool{true},
			},
			glyphs:   ASCIIGlyphs,
			expected: "`-- a.txt",
		},
		{
			name: "symlink_with_target",
			node: types.TreeNode{
				Name:              "shortcut",
				Kind:              types.NodeKindSymlink,
				Depth:             1,
				IsLastSibling:     true,
				AncestorLastFlags: []bool{true},
				SymlinkTarget:     "/tmp/real",
			},
			glyphs:   UnicodeGlyphs,
			expected: "└── shortcut -> /tmp/real",
		},
		{
			name: "nested_gutter_mixed_flags",
			node: types.TreeNode{
				Name:              "deep.txt",
				Kind:              types.NodeKindFile,
				Depth:             3,
				IsLastSibling:     true,
				AncestorLastFlags: []bool{true, false, true},
			},
			glyphs:   UnicodeGlyphs,
			expected: "│       └── deep.txt",
		},
		{
			name: "token_annotation_shown",
			node: types.TreeNode{
				Name:              "counted.txt",
				Kind:              types.NodeKindFile,
				Depth:             1,
				AncestorLastFlags: []bool{true},
				Tokens:            7,
			},
			glyphs:     UnicodeGlyphs,
			showTokens: true,
			expected:   "├── counted.txt (7 tokens)",
		},
		{
			name: "token_annotation_suppressed",
			node: types.TreeNode{
				Name:              "counted.txt",
				Kind:              types.NodeKindFile,
				Depth:             1,
				AncestorLastFlags: []bool{true},
				Tokens:            7,
			},
			glyphs:   UnicodeGlyphs,
			expected: "├── counted.txt",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rendered := FormatNodeLine(testCase.node, testCase.glyphs, testCase.showTokens)
			if rendered != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, rendered)
			}
		})
	}
}

func TestNodeGutterPrefixSkipsRootColumn(t *testing.T) {
	node := types.TreeNode{
		Depth:             3,
		AncestorLastFlags: []bool{true, false, true},
	}
	gutter := NodeGutterPrefix(node, UnicodeGlyphs)
	if gutter != "│       " {
		t.Fatalf("expected mixed gutter, got %q", gutter)
	}

	rootLevelNode := types.TreeNode{
		Depth:             1,
		AncestorLastFlags: []bool{true},
	}
	if prefix := NodeGutterPrefix(rootLevelNode, UnicodeGlyphs); prefix != "" {
		t.Fatalf("expected empty gutter at root level, got %q", prefix)
	}
}

func TestWriteContentBlockRoundTrip(t *testing.T) {
	content := &types.FileContent{Text: "line one\n\nline three\n"}

	var buffer bytes.Buffer
	if err := writeContentBlock(&buffer, content, ""); err != nil {
		t.Fatalf("writeContentBlock error: %v", err)
	}

	expected := "    --- FILE CONTENT START ---\n" +
		"    line one\n" +
		"    \n" +
		"    line three\n" +
		"    --- FILE CONTENT END ---\n"
	if buffer.String() != expected {
		t.Fatalf("expected block:\n%q\ngot:\n%q", expected, buffer.String())
	}

	blockLines := strings.Split(strings.TrimSuffix(buffer.String(), "\n"), "\n")
	var recovered []string
	for _, blockLine := range blockLines[1 : len(blockLines)-1] {
		recovered = append(recovered, strings.TrimPrefix(blockLine, "    "))
	}
	if strings.Join(recovered, "\n")+"\n" != content.Text {
		t.Fatalf("round trip mismatch: %q", strings.Join(recovered, "\n"))
	}
}

func TestWriteContentBlockUsesGutterIndent(t *testing.T) {
	content := &types.FileContent{Text: "x\n"}

	var buffer bytes.Buffer
	if err := writeContentBlock(&buffer, content, "│   "); err != nil {
		t.Fatalf("writeContentBlock error: %v", err)
	}
	for _, blockLine := range strings.Split(strings.TrimSuffix(buffer.String(), "\n"), "\n") {
		if !strings.HasPrefix(blockLine, "│       ") {
			t.Fatalf("expected gutter-aligned indent, got %q", blockLine)
		}
	}
}

func TestWriteContentBlockMarkers(t *testing.T) {
	var unreadableBuffer bytes.Buffer
	unreadable := &types.FileContent{ReadError: "permission denied"}
	if err := writeContentBlock(&unreadableBuffer, unreadable, ""); err != nil {
		t.Fatalf("writeContentBlock error: %v", err)
	}
	if unreadableBuffer.String() != "    [Could not read file: permission denied]\n" {
		t.Fatalf("unexpected unreadable marker: %q", unreadableBuffer.String())
	}

	var binaryBuffer bytes.Buffer
	binary := &types.FileContent{IsBinary: true, MimeType: "application/octet-stream"}
	if err := writeContentBlock(&binaryBuffer, binary, ""); err != nil {
		t.Fatalf("writeContentBlock error: %v", err)
	}
	if binaryBuffer.String() != "    [Binary file content omitted: application/octet-stream]\n" {
		t.Fatalf("unexpected binary marker: %q", binaryBuffer.String())
	}
}

func TestFormatSummaryLine(t *testing.T) {
	testCases := []struct {
		name     string
		summary  types.WalkSummary
		expected string
	}{
		{
			name:     "single_file",
			summary:  types.WalkSummary{TotalFiles: 1, TotalSizeBytes: 5},
			expected: fmt.Sprintf("Summary: 1 file, %s", utils.FormatFileSize(5)),
		},
		{
			name:     "multiple_files_with_tokens",
			summary:  types.WalkSummary{TotalFiles: 2, TotalSizeBytes: 1536, TotalTokens: 42, Model: "gpt-4o"},
			expected: fmt.Sprintf("Summary: 2 files, %s, 42 tokens (model: gpt-4o)", utils.FormatFileSize(1536)),
		},
		{
			name:     "empty_walk",
			summary:  types.WalkSummary{},
			expected: fmt.Sprintf("Summary: 0 files, %s", utils.FormatFileSize(0)),
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rendered := FormatSummaryLine(testCase.summary)
			if rendered != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, rendered)
			}
		})
	}
}
