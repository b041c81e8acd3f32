package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSinkPublishesAtomically(t *testing.T) {
	destinationDir := t.TempDir()
	destinationPath := filepath.Join(destinationDir, "files.txt")

	fileSink, sinkError := NewFileSink(destinationPath)
	if sinkError != nil {
		t.Fatalf("NewFileSink error: %v", sinkError)
	}
	if _, writeError := fileSink.Write([]byte("rendered tree\n")); writeError != nil {
		t.Fatalf("write error: %v", writeError)
	}

	if _, statError := os.Stat(destinationPath); !os.IsNotExist(statError) {
		t.Fatalf("destination must not exist before Close, stat returned %v", statError)
	}

	if closeError := fileSink.Close(); closeError != nil {
		t.Fatalf("close error: %v", closeError)
	}

	published, readError := os.ReadFile(destinationPath)
	if readError != nil {
		t.Fatalf("read destination: %v", readError)
	}
	if string(published) != "rendered tree\n" {
		t.Fatalf("unexpected destination content: %q", string(published))
	}

	remaining, readDirError := os.ReadDir(destinationDir)
	if readDirError != nil {
		t.Fatalf("read dir: %v", readDirError)
	}
	if len(remaining) != 1 || remaining[0].Name() != "files.txt" {
		names := make([]string, 0, len(remaining))
		for _, entry := range remaining {
			names = append(names, entry.Name())
		}
		t.Fatalf("expected only the destination after Close, got %v", names)
	}
}

func TestFileSinkAbortKeepsPreviousArtifact(t *testing.T) {
	destinationDir := t.TempDir()
	destinationPath := filepath.Join(destinationDir, "files.txt")
	if err := os.WriteFile(destinationPath, []byte("previous run\n"), 0o644); err != nil {
		t.Fatalf("seed destination: %v", err)
	}

	fileSink, sinkError := NewFileSink(destinationPath)
	if sinkError != nil {
		t.Fatalf("NewFileSink error: %v", sinkError)
	}
	if _, writeError := fileSink.Write([]byte("half a tree")); writeError != nil {
		t.Fatalf("write error: %v", writeError)
	}
	fileSink.Abort()

	preserved, readError := os.ReadFile(destinationPath)
	if readError != nil {
		t.Fatalf("read destination: %v", readError)
	}
	if string(preserved) != "previous run\n" {
		t.Fatalf("abort must keep the previous artifact, got %q", string(preserved))
	}

	remaining, readDirError := os.ReadDir(destinationDir)
	if readDirError != nil {
		t.Fatalf("read dir: %v", readDirError)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected temp and lock files to be removed, found %d entries", len(remaining))
	}
}

func TestFileSinkArtifactPathsCoverEverythingItCreates(t *testing.T) {
	destinationDir := t.TempDir()
	destinationPath := filepath.Join(destinationDir, "files.txt")

	fileSink, sinkError := NewFileSink(destinationPath)
	if sinkError != nil {
		t.Fatalf("NewFileSink error: %v", sinkError)
	}
	defer fileSink.Abort()

	artifactPaths := make(map[string]struct{})
	for _, artifactPath := range fileSink.ArtifactPaths() {
		artifactPaths[artifactPath] = struct{}{}
	}
	if _, covered := artifactPaths[destinationPath]; !covered {
		t.Fatalf("artifact paths must include the destination: %v", fileSink.ArtifactPaths())
	}

	entries, readDirError := os.ReadDir(destinationDir)
	if readDirError != nil {
		t.Fatalf("read dir: %v", readDirError)
	}
	for _, entry := range entries {
		entryPath := filepath.Join(destinationDir, entry.Name())
		if _, covered := artifactPaths[entryPath]; !covered {
			t.Fatalf("on-disk artifact %s missing from ArtifactPaths %v", entryPath, fileSink.ArtifactPaths())
		}
	}
}

func TestStdoutSinkPassesThrough(t *testing.T) {
	var buffer bytes.Buffer
	stdoutSink := NewStdoutSink(&buffer)

	if _, writeError := stdoutSink.Write([]byte("streamed")); writeError != nil {
		t.Fatalf("write error: %v", writeError)
	}
	if closeError := stdoutSink.Close(); closeError != nil {
		t.Fatalf("close error: %v", closeError)
	}
	if stdoutSink.ArtifactPaths() != nil {
		t.Fatalf("stdout sink must not report artifacts")
	}
	if buffer.String() != "streamed" {
		t.Fatalf("unexpected buffered output: %q", buffer.String())
	}
}
