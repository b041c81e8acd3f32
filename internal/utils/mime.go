package utils

import (
	"io"
	"net/http"
	"os"
)

// UnknownMimeType is reported when the file content cannot be sniffed.
const UnknownMimeType = "application/octet-stream"

// DetectMimeType returns the MIME type of the file at filePath.
// It reads up to sniffLength bytes and uses http.DetectContentType.
// If the file cannot be read, UnknownMimeType is returned.
func DetectMimeType(filePath string) string {
	fileHandle, openError := os.Open(filePath)
	if openError != nil {
		return UnknownMimeType
	}
	defer fileHandle.Close()

	buffer := make([]byte, sniffLength)
	bytesRead, readError := fileHandle.Read(buffer)
	if readError != nil && readError != io.EOF {
		return UnknownMimeType
	}

	return http.DetectContentType(buffer[:bytesRead])
}
