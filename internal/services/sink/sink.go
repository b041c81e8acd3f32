// Package sink provides the destinations rendered tree text streams into.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// fileBufferSize is the buffered writer capacity used for file output.
const fileBufferSize = 128 * 1024

const (
	lockFileSuffix  = ".lock"
	tempFilePattern = ".%s.tmp-*"
)

// Sink receives rendered output and publishes it on Close.
type Sink interface {
	io.Writer
	// ArtifactPaths lists filesystem paths the sink may create so the
	// caller can hide them from the walk.
	ArtifactPaths() []string
	// Close publishes the output.
	Close() error
	// Abort discards pending output and removes temporary artifacts.
	Abort()
}

var (
	_ Sink = (*StdoutSink)(nil)
	_ Sink = (*FileSink)(nil)
)

// StdoutSink streams rendered output directly to an underlying writer.
type StdoutSink struct {
	writer io.Writer
}

// NewStdoutSink wraps writer as a Sink without buffering or locking.
func NewStdoutSink(writer io.Writer) *StdoutSink {
	return &StdoutSink{writer: writer}
}

func (sink *StdoutSink) Write(data []byte) (int, error) {
	return sink.writer.Write(data)
}

func (sink *StdoutSink) ArtifactPaths() []string { return nil }

func (sink *StdoutSink) Close() error { return nil }

func (sink *StdoutSink) Abort() {}

// FileSink buffers rendered output into a hidden temporary file next to the
// destination and publishes it with an atomic rename on Close. An advisory
// lock on the destination's lock file serializes concurrent runs against the
// same root; until Close succeeds a previously published destination stays
// untouched.
type FileSink struct {
	destinationPath string
	lockPath        string
	tempPath        string
	lock            *flock.Flock
	tempFile        *os.File
	writer          *bufio.Writer
}

// NewFileSink acquires the destination lock and opens the temporary file the
// output streams into. The destination itself is not touched until Close.
func NewFileSink(destinationPath string) (*FileSink, error) {
	lockPath := destinationPath + lockFileSuffix
	fileLock := flock.New(lockPath)
	if lockError := fileLock.Lock(); lockError != nil {
		return nil, fmt.Errorf("failed to acquire lock on %s: %w", lockPath, lockError)
	}

	destinationDirectory := filepath.Dir(destinationPath)
	tempFile, tempError := os.CreateTemp(destinationDirectory, fmt.Sprintf(tempFilePattern, filepath.Base(destinationPath)))
	if tempError != nil {
		_ = fileLock.Unlock()
		_ = os.Remove(lockPath)
		return nil, fmt.Errorf("failed to create temp file in %s: %w", destinationDirectory, tempError)
	}

	return &FileSink{
		destinationPath: destinationPath,
		lockPath:        lockPath,
		tempPath:        tempFile.Name(),
		lock:            fileLock,
		tempFile:        tempFile,
		writer:          bufio.NewWriterSize(tempFile, fileBufferSize),
	}, nil
}

func (sink *FileSink) Write(data []byte) (int, error) {
	return sink.writer.Write(data)
}

// ArtifactPaths lists the destination, temporary, and lock file paths.
func (sink *FileSink) ArtifactPaths() []string {
	return []string{sink.destinationPath, sink.tempPath, sink.lockPath}
}

// Close flushes and syncs the temporary file, renames it over the
// destination, and releases the lock. Any failure discards the temporary
// file and leaves a previously published destination unchanged.
func (sink *FileSink) Close() error {
	defer sink.releaseLock()

	if flushError := sink.writer.Flush(); flushError != nil {
		sink.discardTemp()
		return fmt.Errorf("failed to flush output: %w", flushError)
	}
	if syncError := sink.tempFile.Sync(); syncError != nil {
		sink.discardTemp()
		return fmt.Errorf("failed to sync output: %w", syncError)
	}
	if closeError := sink.tempFile.Close(); closeError != nil {
		_ = os.Remove(sink.tempPath)
		return fmt.Errorf("failed to close output: %w", closeError)
	}
	if chmodError := os.Chmod(sink.tempPath, 0o644); chmodError != nil {
		_ = os.Remove(sink.tempPath)
		return fmt.Errorf("failed to set permissions on %s: %w", sink.tempPath, chmodError)
	}
	if renameError := os.Rename(sink.tempPath, sink.destinationPath); renameError != nil {
		_ = os.Remove(sink.tempPath)
		return fmt.Errorf("failed to publish %s: %w", sink.destinationPath, renameError)
	}
	return nil
}

// Abort discards pending output and releases the lock.
func (sink *FileSink) Abort() {
	sink.discardTemp()
	sink.releaseLock()
}

func (sink *FileSink) discardTemp() {
	_ = sink.tempFile.Close()
	_ = os.Remove(sink.tempPath)
}

func (sink *FileSink) releaseLock() {
	_ = sink.lock.Unlock()
	// Publishes are atomic renames, so a waiter racing onto a fresh lock
	// file cannot observe a torn destination.
	_ = os.Remove(sink.lockPath)
}
