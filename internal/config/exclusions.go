package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/temirov/folderwalk/internal/utils"
)

// commentLinePrefix marks a comment line inside an exclusion list file.
const commentLinePrefix = "#"

// LoadExclusionNames reads an exclusion list file and returns the entry names
// it lists. Blank lines and lines starting with # are skipped. A missing file
// yields no names.
//
// #nosec G304
func LoadExclusionNames(listFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(listFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", listFilePath, closeError)
		}
	}()

	var exclusionNames []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentLinePrefix) {
			continue
		}
		exclusionNames = append(exclusionNames, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return utils.DeduplicateNames(exclusionNames), nil
}
