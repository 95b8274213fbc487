package pdftext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize_StripsControlCharsKeepsWhitespace(t *testing.T) {
	in := "hello\x00 world\x07\nline\ttwo\r\n\x1fdone\x7f"
	out := Normalize(in)
	require.Equal(t, "hello world\nline\ttwo\r\ndone", out)
}

func TestNormalize_CoercesInvalidUTF8(t *testing.T) {
	in := "valid \xff\xfe text"
	out := Normalize(in)
	require.True(t, strings.Contains(out, "valid"))
	require.True(t, strings.Contains(out, "text"))
	require.True(t, utf8Valid(out))
}

func utf8Valid(s string) bool {
	for _, r := range s {
		if r == '�' {
			return false
		}
	}
	return true
}

func TestTruncate(t *testing.T) {
	text, origLen := Truncate("abcdef", 4)
	require.Equal(t, "abcd", text)
	require.Equal(t, 6, origLen)

	text, origLen = Truncate("abc", 4)
	require.Equal(t, "abc", text)
	require.Equal(t, 3, origLen)
}

func TestTruncate_RuneBoundary(t *testing.T) {
	text, origLen := Truncate("日本語のテキスト", 3)
	require.Equal(t, "日本語", text)
	require.Equal(t, 8, origLen)
}

func TestWordCount(t *testing.T) {
	require.Equal(t, 0, WordCount(""))
	require.Equal(t, 0, WordCount("  \n\t "))
	require.Equal(t, 5, WordCount("one two  three\nfour\tfive"))
}

func TestInsufficientContentError_MentionsWordCount(t *testing.T) {
	err := &InsufficientContentError{Words: 10}
	require.Contains(t, err.Error(), "10 words")
}
