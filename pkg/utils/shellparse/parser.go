// Package shellparse splits and joins shell-quoted word lists. The sandbox
// uses it for directory lists taken from environment variables, where a
// path may contain spaces.
package shellparse

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrUnclosedQuote is returned when a quoted string is not properly closed
	ErrUnclosedQuote = errors.New("unclosed quote")

	// ErrTrailingEscape is returned when a backslash appears at the end of input
	ErrTrailingEscape = errors.New("trailing escape character")
)

type quoteState int

const (
	bare quoteState = iota
	single
	double
)

// Split breaks input into words using POSIX shell rules: whitespace
// separates words, single quotes are literal, double quotes honour
// backslash escapes of " \ $ and `, and a bare backslash escapes any rune.
//
//	Split(`/sdk/res "/my project/res"`) => ["/sdk/res", "/my project/res"]
func Split(input string) ([]string, error) {
	words := []string{}
	var word strings.Builder
	inWord := false
	state := bare

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch state {
		case single:
			if ch == '\'' {
				state = bare
			} else {
				word.WriteRune(ch)
			}

		case double:
			switch ch {
			case '"':
				state = bare
			case '\\':
				if i+1 >= len(runes) {
					return nil, ErrTrailingEscape
				}
				i++
				if !strings.ContainsRune(`"\$`+"`", runes[i]) {
					word.WriteRune('\\')
				}
				word.WriteRune(runes[i])
			default:
				word.WriteRune(ch)
			}

		default:
			switch {
			case unicode.IsSpace(ch):
				if inWord {
					words = append(words, word.String())
					word.Reset()
					inWord = false
				}
			case ch == '\\':
				if i+1 >= len(runes) {
					return nil, ErrTrailingEscape
				}
				i++
				word.WriteRune(runes[i])
				inWord = true
			case ch == '\'':
				state = single
				inWord = true
			case ch == '"':
				state = double
				inWord = true
			default:
				word.WriteRune(ch)
				inWord = true
			}
		}
	}

	switch state {
	case single:
		return nil, fmt.Errorf("%w: single quote", ErrUnclosedQuote)
	case double:
		return nil, fmt.Errorf("%w: double quote", ErrUnclosedQuote)
	}
	if inWord {
		words = append(words, word.String())
	}
	return words, nil
}

// MustSplit is like Split but panics on error.
func MustSplit(input string) []string {
	words, err := Split(input)
	if err != nil {
		panic(fmt.Sprintf("shellparse.MustSplit: %v", err))
	}
	return words
}

// Join quotes each word as needed so that Split(Join(words)) == words.
func Join(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = quote(w)
	}
	return strings.Join(quoted, " ")
}

func quote(word string) string {
	if word == "" {
		return "''"
	}
	if !strings.ContainsFunc(word, needsQuote) {
		return word
	}
	if !strings.Contains(word, "'") {
		return "'" + word + "'"
	}

	var b strings.Builder
	b.WriteByte('"')
	for _, ch := range word {
		if strings.ContainsRune(`"\$`+"`", ch) {
			b.WriteByte('\\')
		}
		b.WriteRune(ch)
	}
	b.WriteByte('"')
	return b.String()
}

func needsQuote(ch rune) bool {
	return unicode.IsSpace(ch) || strings.ContainsRune(`'"\$`+"`", ch)
}
