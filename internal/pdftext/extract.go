// Package pdftext turns an uploaded PDF into normalized plain text suitable
// for prompting: extraction, encoding cleanup, truncation and content floors.
package pdftext

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

const (
	// MaxChars bounds the text sent downstream to keep completion cost sane.
	MaxChars = 15000
	// MinWords is the floor below which a document cannot produce a
	// meaningful summary.
	MinWords = 50
)

// ErrEmptyContent marks a document with no extractable text, typically an
// image-only or unparseable PDF.
var ErrEmptyContent = errors.New("no extractable text")

type InsufficientContentError struct {
	Words int
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("document contains too little text (%d words)", e.Words)
}

// Extractor is the consumed parsing capability: raw PDF bytes in, plain text out.
type Extractor interface {
	Extract(r io.ReaderAt, size int64) (string, error)
}

type PDFExtractor struct{}

func (PDFExtractor) Extract(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmptyContent, err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmptyContent, err)
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmptyContent, err)
	}
	return string(data), nil
}

// Normalize coerces text to valid UTF-8 and strips non-printable control
// characters while preserving ordinary whitespace.
func Normalize(text string) string {
	text = strings.ToValidUTF8(text, "")
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// Truncate caps text at max runes, returning the capped text and the original
// rune length for observability.
func Truncate(text string, max int) (string, int) {
	runes := []rune(text)
	origLen := len(runes)
	if max > 0 && origLen > max {
		return string(runes[:max]), origLen
	}
	return text, origLen
}

func WordCount(text string) int {
	return len(strings.Fields(text))
}
