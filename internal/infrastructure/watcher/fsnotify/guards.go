package fsnotify

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CheckFile runs the pre-classification guards. It returns "" when the
// file is fit for intake, otherwise a short rejection reason.
func CheckFile(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "file_not_found"
	}
	if info.IsDir() {
		return "not_a_file"
	}
	if info.Size() == 0 {
		return "zero_byte_file"
	}

	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return "temp_or_hidden_file"
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tmp", ".crdownload", ".partial":
		return "incomplete_download"
	}

	f, err := os.Open(path)
	if err != nil {
		// Still being written or exclusively held by the producer.
		return "file_locked"
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		head := make([]byte, 4096)
		n, err := f.Read(head)
		if err != nil && err != io.EOF {
			return "file_locked"
		}
		if bytes.Contains(head[:n], []byte("/Encrypt")) {
			return "password_protected_pdf"
		}
	}
	return ""
}
