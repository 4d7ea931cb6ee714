// Package document turns uploaded resume files into plain text.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxSize is the largest document accepted unless WithMaxSize says otherwise.
const DefaultMaxSize int64 = 5 << 20

var (
	ErrEmpty           = errors.New("document is empty")
	ErrTooLarge        = errors.New("document exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported document type")
)

// Kind is a supported document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindText Kind = "text"
)

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

type options struct {
	maxSize int64
}

type Option func(*options)

// WithMaxSize overrides the size limit. Zero or negative disables it.
func WithMaxSize(size int64) Option {
	return func(o *options) {
		o.maxSize = size
	}
}

func newOptions(opts []Option) options {
	o := options{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Detect picks the decoder for data using its leading bytes and the file extension.
func Detect(name string, data []byte) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(name))
	contentType := http.DetectContentType(data)

	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return KindPDF, nil
	case ext == ".docx" && bytes.HasPrefix(data, zipMagic):
		return KindDOCX, nil
	case strings.HasPrefix(contentType, "text/plain") && (ext == "" || ext == ".txt" || ext == ".text" || ext == ".md"):
		return KindText, nil
	}

	return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, filepath.Base(name), contentType)
}

// Decode extracts the text of a document. The name is only used for
// type detection and error messages.
func Decode(name string, data []byte, opts ...Option) (string, error) {
	o := newOptions(opts)

	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", name, ErrEmpty)
	}

	if o.maxSize > 0 && int64(len(data)) > o.maxSize {
		return "", fmt.Errorf("%s: %w: %d bytes, limit %d", name, ErrTooLarge, len(data), o.maxSize)
	}

	kind, err := Detect(name, data)
	if err != nil {
		return "", err
	}

	var text string
	switch kind {
	case KindPDF:
		text, err = decodePDF(data)
	case KindDOCX:
		text, err = decodeDOCX(data)
	default:
		text = string(data)
	}
	if err != nil {
		return "", fmt.Errorf("decode %s %s: %w", kind, name, err)
	}

	text = strings.ToValidUTF8(text, "")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: no readable text: %w", name, ErrEmpty)
	}

	return text, nil
}

// DecodeFile reads path and decodes it.
func DecodeFile(path string, opts ...Option) (string, error) {
	o := newOptions(opts)

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat document: %w", err)
	}

	if o.maxSize > 0 && info.Size() > o.maxSize {
		return "", fmt.Errorf("%s: %w: %d bytes, limit %d", path, ErrTooLarge, info.Size(), o.maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	return Decode(path, data, opts...)
}
