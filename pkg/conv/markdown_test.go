package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty input", input: "", expected: ""},
		{name: "plain text", input: "Doug is on vacation", expected: "Doug is on vacation\n"},
		{name: "bold text", input: "**Molly**", expected: "<strong>Molly</strong>\n"},
		{name: "inline code", input: "`when`", expected: "<code>when</code>\n"},
		{name: "header tags stripped", input: "# Answer", expected: "Answer\n"},
		{name: "script tags sanitized", input: "<script>alert('xss')</script>", expected: "\n"},
		{name: "link", input: "[docs](https://example.com)", expected: "<a href=\"https://example.com\">docs</a>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MarkdownToTelegramHTML([]byte(tt.input)))
		})
	}
}

func TestMarkdownToSlack(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty input", input: "", expected: ""},
		{name: "plain text", input: "Hello world", expected: "Hello world"},
		{name: "bold", input: "**bold**", expected: "*bold*"},
		{name: "italic", input: "*italic*", expected: "_italic_"},
		{name: "strikethrough", input: "~~gone~~", expected: "~gone~"},
		{name: "inline code is escaped", input: "`x < y`", expected: "`x &lt; y`"},
		{name: "link", input: "[docs](https://example.com)", expected: "<https://example.com|docs>"},
		{name: "heading then body", input: "# Title\n\nbody", expected: "*Title*\n\nbody"},
		{name: "bullet list", input: "- one\n- two", expected: "• one\n• two"},
		{name: "ordered list", input: "1. one\n2. two", expected: "1. one\n2. two"},
		{name: "angle brackets escaped", input: "a < b & c > d", expected: "a &lt; b &amp; c &gt; d"},
		{name: "code block", input: "```\nx := 1\n```", expected: "```\nx := 1\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MarkdownToSlack([]byte(tt.input)))
		})
	}
}

func TestMarkdownToPlain(t *testing.T) {
	got := MarkdownToPlain([]byte("Doug is **on vacation**, see [the calendar](https://example.com)."))

	assert.Contains(t, got, "Doug is")
	assert.Contains(t, got, "on vacation")
	assert.Contains(t, got, "https://example.com")
	assert.NotContains(t, got, "<a")
	assert.NotContains(t, got, "<strong>")
}
