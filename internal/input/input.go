package input

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/nguyentantai21042004/transcript-flow/internal/apperror"
)

const plainText = "text/plain"

// ReadUpload reads one uploaded transcript. The declared content type must be
// text/plain; when it is missing or generic the content is sniffed instead.
func ReadUpload(r io.Reader, contentType string, maxBytes int64) (string, error) {
	declared := strings.ToLower(strings.TrimSpace(contentType))
	sniff := declared == "" || strings.HasPrefix(declared, "application/octet-stream")

	if !sniff && !strings.HasPrefix(declared, plainText) {
		return "", fmt.Errorf("content type %q: %w", contentType, apperror.ErrInvalidFileType)
	}

	data, err := readLimited(r, maxBytes)
	if err != nil {
		return "", err
	}

	if sniff && !IsPlainText(data) {
		return "", fmt.Errorf("detected %s: %w", mimetype.Detect(data).String(), apperror.ErrInvalidFileType)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("content is not valid UTF-8: %w", apperror.ErrFileRead)
	}

	return string(data), nil
}

// ReadPath reads a transcript from disk, applying the same validation as uploads.
func ReadPath(path string, maxBytes int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w: %v", path, apperror.ErrFileRead, err)
	}
	defer f.Close()

	return ReadUpload(f, "", maxBytes)
}

// IsPlainText reports whether data sniffs as plain text.
func IsPlainText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	return mimetype.Detect(data).Is(plainText)
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	var buf bytes.Buffer
	src := r
	if maxBytes > 0 {
		src = io.LimitReader(r, maxBytes+1)
	}
	if _, err := buf.ReadFrom(src); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrFileRead, err)
	}
	if maxBytes > 0 && int64(buf.Len()) > maxBytes {
		return nil, fmt.Errorf("file exceeds %d bytes: %w", maxBytes, apperror.ErrFileRead)
	}
	return buf.Bytes(), nil
}
