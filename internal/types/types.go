// Package types defines the cross-package data structures used by the folderwalk CLI.
package types

const (
	NodeKindFile      = "file"
	NodeKindDirectory = "directory"
	NodeKindSymlink   = "symlink"
)

// FileContent carries the outcome of reading one regular file for inclusion.
type FileContent struct {
	Text      string
	IsBinary  bool
	MimeType  string
	ReadError string
}

// TreeNode represents one filesystem entry emitted by the walker.
//
// Depth counts edges from the walk root; the root itself is depth zero and is
// rendered as the header line, never as a TreeNode. AncestorLastFlags has
// exactly Depth entries, one per ancestor level starting at the root, where
// true records that the ancestor was the last entry among its siblings.
type TreeNode struct {
	Path              string
	Name              string
	Kind              string
	Depth             int
	IsLastSibling     bool
	AncestorLastFlags []bool
	SymlinkTarget     string
	SizeBytes         int64
	Tokens            int
	Content           *FileContent
}

// WalkSummary captures aggregate information about the rendered tree.
type WalkSummary struct {
	TotalFiles     int
	TotalSizeBytes int64
	TotalTokens    int
	Model          string
}
