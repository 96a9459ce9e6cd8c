package clap

import (
	"strings"
)

// maxResponseFiles bounds response-file expansion per parse, which also
// stops a file that includes itself.
const maxResponseFiles = 64

// SplitResponseFile splits response-file text into tokens.
//
// Tokens are separated by ASCII whitespace. An unescaped double quote toggles
// a mode in which whitespace is kept. A run of n backslashes followed by a
// quote yields n/2 backslashes, and when n is odd the quote itself is literal.
// Backslashes not followed by a quote are kept as is. A line whose first
// non-blank character is '#' outside quotes is a comment.
func SplitResponseFile(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")

	var (
		tokens    []string
		cur       strings.Builder
		inToken   bool
		quoted    bool
		lineStart = true
	)
	flush := func() {
		if inToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inToken = false
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		if !quoted && isASCIISpace(c) {
			flush()
			if c == '\n' || c == '\r' {
				lineStart = true
			}
			continue
		}
		if lineStart && !quoted && !inToken && c == '#' {
			for i < len(text) && text[i] != '\n' {
				i++
			}
			continue
		}
		lineStart = false

		switch c {
		case '\\':
			n := 0
			for i < len(text) && text[i] == '\\' {
				n++
				i++
			}
			if i < len(text) && text[i] == '"' {
				cur.WriteString(strings.Repeat(`\`, n/2))
				if n%2 == 1 {
					cur.WriteByte('"')
				} else {
					quoted = !quoted
				}
			} else {
				cur.WriteString(strings.Repeat(`\`, n))
				i--
			}
			inToken = true
		case '"':
			quoted = !quoted
			inToken = true
		default:
			cur.WriteByte(c)
			inToken = true
		}
	}
	flush()
	return tokens
}

func isASCIISpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// readResponseFile loads and splits the file named by a marker token.
func (p *parser) readResponseFile(path string) ([]string, error) {
	data, err := p.app.readFile(path)
	if err != nil {
		return nil, err
	}
	return SplitResponseFile(string(data)), nil
}
