// Package pdftext extracts embedded text from PDF files. Scanned PDFs
// without a text layer come back empty but successful; the low keyword
// and pattern evidence then routes them to review.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/autofiler/autofiler/internal/core/domain"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, path string) (string, domain.Extraction, error) {
	if encrypted, err := isEncrypted(path); err != nil {
		return "", domain.Extraction{Success: false, FailureReason: "unreadable"}, fmt.Errorf("probe pdf: %w", err)
	} else if encrypted {
		return "", domain.Extraction{Success: false, FailureReason: "password-protected"}, nil
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", domain.Extraction{Success: false, FailureReason: "malformed pdf"}, nil
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", domain.Extraction{Success: false, FailureReason: "no extractable text"}, nil
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", domain.Extraction{Success: false, FailureReason: "no extractable text"}, nil
	}

	return strings.TrimSpace(buf.String()), domain.Extraction{
		Success: true,
		Pages:   reader.NumPage(),
	}, nil
}

// isEncrypted sniffs the leading bytes for an /Encrypt entry; opening an
// encrypted PDF would fail with a less useful error.
func isEncrypted(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 4096)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return false, err
	}
	return bytes.Contains(head[:n], []byte("/Encrypt")), nil
}
