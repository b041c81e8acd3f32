// Package walk implements the depth-first traversal that produces the ordered
// node stream rendered by folderwalk.
package walk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/folderwalk/internal/tokenizer"
	"github.com/temirov/folderwalk/internal/types"
)

const (
	// warningReadDirectoryFormat is used when a directory listing fails and the directory is rendered empty.
	warningReadDirectoryFormat = "Warning: cannot read directory %s: %v"
	// warningStatEntryFormat is used when file information cannot be retrieved for an entry.
	warningStatEntryFormat = "Warning: unable to stat %s: %v"

	// symlinkUnreadableTarget labels symbolic links whose target cannot be resolved.
	symlinkUnreadableTarget = "<unreadable>"
)

// DefaultExcludedNames lists the entry names pruned from every walk unless
// default exclusions are disabled.
var DefaultExcludedNames = []string{"node_modules", ".git", "target"}

// Root validation failures returned by Stream before any node is emitted.
var (
	ErrRootNotFound     = errors.New("root path does not exist")
	ErrRootNotDirectory = errors.New("root path is not a directory")
)

// Options configures a single traversal.
type Options struct {
	// Root is the directory whose subtree is walked. The caller resolves it
	// to an absolute path.
	Root string
	// MaxDepth caps the emitted node depth when positive; zero walks the
	// whole subtree. Directories at the cap are listed but not expanded.
	MaxDepth int
	// IncludeContent attaches the bytes of every regular file to its node.
	IncludeContent bool
	// ExcludedNames prunes entries by exact base name.
	ExcludedNames []string
	// ExcludedPaths prunes entries by exact path, letting the caller hide
	// its own artifacts from the listing.
	ExcludedPaths []string
	// TokenCounter enables token estimation for text files when non-nil.
	TokenCounter tokenizer.Counter
	// TokenModel names the model the counter encodes for.
	TokenModel string
	// Warn receives recoverable traversal problems. Optional.
	Warn func(message string)
}

// walkEntry is one surviving directory entry awaiting emission.
type walkEntry struct {
	name string
	path string
	kind string
	info os.FileInfo
}

type treeWalker struct {
	options       Options
	handler       func(types.TreeNode) error
	excludedNames map[string]struct{}
	excludedPaths map[string]struct{}
}

// Stream walks the subtree under options.Root depth first and passes every
// surviving entry to handler in render order. Only root validation failures
// and handler errors abort the walk; unreadable directories and entries are
// reported through options.Warn and skipped.
func Stream(options Options, handler func(types.TreeNode) error) error {
	if handler == nil {
		return fmt.Errorf("walk handler is nil")
	}

	walker := &treeWalker{options: options, handler: handler}
	if walker.options.Warn == nil {
		walker.options.Warn = func(string) {}
	}
	walker.excludedNames = make(map[string]struct{}, len(options.ExcludedNames))
	for _, excludedName := range options.ExcludedNames {
		walker.excludedNames[excludedName] = struct{}{}
	}
	walker.excludedPaths = make(map[string]struct{}, len(options.ExcludedPaths))
	for _, excludedPath := range options.ExcludedPaths {
		walker.excludedPaths[filepath.Clean(excludedPath)] = struct{}{}
	}

	if validateError := ValidateRoot(options.Root); validateError != nil {
		return validateError
	}

	return walker.walkDirectory(options.Root, 1, []bool{true})
}

// ValidateRoot reports whether rootPath can serve as a walk root. Missing
// paths map to ErrRootNotFound and non-directories to ErrRootNotDirectory;
// symbolic links to directories are followed and accepted.
func ValidateRoot(rootPath string) error {
	rootInfo, statError := os.Stat(rootPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, rootPath)
		}
		return fmt.Errorf("accessing root %s: %w", rootPath, statError)
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotDirectory, rootPath)
	}
	return nil
}

// walkDirectory emits the surviving entries of directoryPath at childDepth.
// childAncestorFlags records, per ancestor level starting at the root,
// whether that ancestor was the last entry among its siblings; every node
// emitted here shares this slice and recursion always extends a fresh copy.
func (walker *treeWalker) walkDirectory(directoryPath string, childDepth int, childAncestorFlags []bool) error {
	entries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		// A failed open yields no entries and renders the directory empty; a
		// partial listing keeps whatever was read.
		walker.options.Warn(fmt.Sprintf(warningReadDirectoryFormat, directoryPath, readError))
		if len(entries) == 0 {
			return nil
		}
	}

	children := make([]walkEntry, 0, len(entries))
	for _, entry := range entries {
		entryName := entry.Name()
		if _, isExcluded := walker.excludedNames[entryName]; isExcluded {
			continue
		}
		childPath := filepath.Join(directoryPath, entryName)
		if _, isExcluded := walker.excludedPaths[childPath]; isExcluded {
			continue
		}
		entryInfo, infoError := entry.Info()
		if infoError != nil {
			walker.options.Warn(fmt.Sprintf(warningStatEntryFormat, childPath, infoError))
			continue
		}
		entryKind := types.NodeKindFile
		switch {
		case entryInfo.Mode()&os.ModeSymlink != 0:
			entryKind = types.NodeKindSymlink
		case entry.IsDir():
			entryKind = types.NodeKindDirectory
		}
		children = append(children, walkEntry{name: entryName, path: childPath, kind: entryKind, info: entryInfo})
	}

	sortEntries(children)

	for childIndex, child := range children {
		node := types.TreeNode{
			Path:              child.path,
			Name:              child.name,
			Kind:              child.kind,
			Depth:             childDepth,
			IsLastSibling:     childIndex == len(children)-1,
			AncestorLastFlags: childAncestorFlags,
		}

		switch child.kind {
		case types.NodeKindSymlink:
			linkTarget, readLinkError := os.Readlink(child.path)
			if readLinkError != nil {
				linkTarget = symlinkUnreadableTarget
			}
			node.SymlinkTarget = linkTarget
		case types.NodeKindFile:
			node.SizeBytes = child.info.Size()
			inspection := inspectFile(child.path, fileInspectionConfig{
				IncludeContent: walker.options.IncludeContent,
				TokenCounter:   walker.options.TokenCounter,
				Warn:           walker.options.Warn,
			})
			node.Content = inspection.Content
			node.Tokens = inspection.Tokens
		}

		if handlerError := walker.handler(node); handlerError != nil {
			return handlerError
		}

		if child.kind == types.NodeKindDirectory && (walker.options.MaxDepth == 0 || childDepth < walker.options.MaxDepth) {
			grandChildFlags := make([]bool, len(childAncestorFlags)+1)
			copy(grandChildFlags, childAncestorFlags)
			grandChildFlags[len(childAncestorFlags)] = node.IsLastSibling
			if walkError := walker.walkDirectory(child.path, childDepth+1, grandChildFlags); walkError != nil {
				return walkError
			}
		}
	}

	return nil
}

// sortEntries orders siblings directories first, then by lower-cased name,
// with the raw name as a tie break so the order is total.
func sortEntries(entries []walkEntry) {
	sort.Slice(entries, func(firstIndex, secondIndex int) bool {
		firstEntry, secondEntry := entries[firstIndex], entries[secondIndex]
		firstIsDirectory := firstEntry.kind == types.NodeKindDirectory
		secondIsDirectory := secondEntry.kind == types.NodeKindDirectory
		if firstIsDirectory != secondIsDirectory {
			return firstIsDirectory
		}
		firstLower := strings.ToLower(firstEntry.name)
		secondLower := strings.ToLower(secondEntry.name)
		if firstLower != secondLower {
			return firstLower < secondLower
		}
		return firstEntry.name < secondEntry.name
	})
}
