package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExtractReturnsTrimmedText(t *testing.T) {
	path := write(t, "note.txt", []byte("  hello wages  \n"))
	text, meta, err := New().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !meta.Success {
		t.Fatalf("extraction = %+v", meta)
	}
	if text != "hello wages" {
		t.Fatalf("text = %q", text)
	}
}

func TestExtractZeroByteFileFailsWithoutError(t *testing.T) {
	path := write(t, "empty.txt", nil)
	_, meta, err := New().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("outcome failures must not be errors, got %v", err)
	}
	if meta.Success || meta.FailureReason != "zero-byte file" {
		t.Fatalf("extraction = %+v", meta)
	}
}

func TestExtractBinaryContentFailsWithoutError(t *testing.T) {
	path := write(t, "blob.bin", []byte{0xff, 0xfe, 0x00, 0x80})
	_, meta, err := New().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("outcome failures must not be errors, got %v", err)
	}
	if meta.Success || meta.FailureReason != "binary content" {
		t.Fatalf("extraction = %+v", meta)
	}
}

func TestExtractMissingFileIsInfrastructureError(t *testing.T) {
	_, meta, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	if err == nil {
		t.Fatalf("expected an error for an unreadable file")
	}
	if meta.Success {
		t.Fatalf("extraction must not be marked successful")
	}
}
