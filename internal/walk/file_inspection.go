package walk

import (
	"fmt"
	"os"

	"github.com/temirov/folderwalk/internal/tokenizer"
	"github.com/temirov/folderwalk/internal/types"
	"github.com/temirov/folderwalk/internal/utils"
)

const (
	// warningFileReadFormat is used when a file cannot be read for token estimation.
	warningFileReadFormat = "Warning: failed to read file %s: %v"
	// warningTokenCountFormat is used when token estimation fails for a file.
	warningTokenCountFormat = "Warning: failed to count tokens for %s: %v"
)

type fileInspectionConfig struct {
	IncludeContent bool
	TokenCounter   tokenizer.Counter
	Warn           func(string)
}

type fileInspectionResult struct {
	Content *types.FileContent
	Tokens  int
}

// inspectFile reads a regular file when content inclusion or token counting
// requires its bytes. A read failure becomes a content marker when content
// was requested and a warning otherwise. Binary files carry their MIME type
// instead of text and are never token counted.
func inspectFile(filePath string, config fileInspectionConfig) fileInspectionResult {
	warn := config.Warn
	if warn == nil {
		warn = func(string) {}
	}

	if !config.IncludeContent && config.TokenCounter == nil {
		return fileInspectionResult{}
	}

	fileBytes, readError := os.ReadFile(filePath)
	if readError != nil {
		if config.IncludeContent {
			return fileInspectionResult{Content: &types.FileContent{ReadError: readError.Error()}}
		}
		warn(fmt.Sprintf(warningFileReadFormat, filePath, readError))
		return fileInspectionResult{}
	}

	if utils.IsBinary(fileBytes) {
		if config.IncludeContent {
			return fileInspectionResult{Content: &types.FileContent{IsBinary: true, MimeType: utils.DetectMimeType(filePath)}}
		}
		return fileInspectionResult{}
	}

	result := fileInspectionResult{}
	if config.IncludeContent {
		result.Content = &types.FileContent{Text: string(fileBytes)}
	}
	if config.TokenCounter != nil {
		countResult, countError := tokenizer.CountBytes(config.TokenCounter, fileBytes)
		if countError != nil {
			warn(fmt.Sprintf(warningTokenCountFormat, filePath, countError))
		} else if countResult.Counted {
			result.Tokens = countResult.Tokens
		}
	}
	return result
}
