package clap

// Cursor walks a token sequence. It only moves forward, except that Splice
// may replace the current token with the contents of a response file.
type Cursor struct {
	tokens []string
	pos    int
}

// NewCursor wraps tokens. The slice is copied so splicing never touches the
// caller's argv.
func NewCursor(tokens []string) *Cursor {
	return &Cursor{tokens: append([]string(nil), tokens...)}
}

// Peek returns the current token without consuming it.
func (c *Cursor) Peek() (string, bool) {
	if c.pos >= len(c.tokens) {
		return "", false
	}
	return c.tokens[c.pos], true
}

// PeekAt returns the token n positions ahead of the current one.
func (c *Cursor) PeekAt(n int) (string, bool) {
	i := c.pos + n
	if i < 0 || i >= len(c.tokens) {
		return "", false
	}
	return c.tokens[i], true
}

// Advance consumes and returns the current token.
func (c *Cursor) Advance() (string, bool) {
	tok, ok := c.Peek()
	if ok {
		c.pos++
	}
	return tok, ok
}

// Remaining is the number of unconsumed tokens.
func (c *Cursor) Remaining() int {
	return len(c.tokens) - c.pos
}

// Done reports whether every token has been consumed.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.tokens)
}

// Pos is the index of the current token.
func (c *Cursor) Pos() int {
	return c.pos
}

// Rest returns the unconsumed tokens.
func (c *Cursor) Rest() []string {
	return c.tokens[c.pos:]
}

// Splice replaces the current token with repl. The cursor stays at the same
// index, now pointing at the first replacement token.
func (c *Cursor) Splice(repl []string) {
	if c.Done() {
		return
	}
	out := make([]string, 0, len(c.tokens)-1+len(repl))
	out = append(out, c.tokens[:c.pos]...)
	out = append(out, repl...)
	out = append(out, c.tokens[c.pos+1:]...)
	c.tokens = out
}
