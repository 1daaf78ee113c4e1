// Package tokens counts and trims text in cl100k_base tokens. When the BPE
// ranks cannot be loaded it falls back to a rune based estimate.
package tokens

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const encoding = "cl100k_base"

// runesPerToken is the usual English ratio for cl100k_base.
const runesPerToken = 4

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

func getTokenizer() (*tiktoken.Tiktoken, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding(encoding)
	})
	return tk, tkErr
}

// Count returns the number of tokens in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	enc, err := getTokenizer()
	if err != nil {
		return estimate(text)
	}
	return len(enc.Encode(text, nil, nil))
}

// Truncate cuts text down to at most max tokens.
func Truncate(text string, max int) string {
	if max <= 0 || text == "" {
		return ""
	}
	enc, err := getTokenizer()
	if err != nil {
		return truncateRunes(text, max*runesPerToken)
	}
	ids := enc.Encode(text, nil, nil)
	if len(ids) <= max {
		return text
	}
	return enc.Decode(ids[:max])
}

func estimate(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + runesPerToken - 1) / runesPerToken
}

func truncateRunes(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max])
}
