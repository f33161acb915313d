package lexer

import "aoc/internal/source"

// Cursor walks the bytes of one file. Off never exceeds Limit; reads past
// Limit yield 0, which no token starts with.
type Cursor struct {
	src   []byte
	file  source.FileID
	Off   uint32
	Limit uint32
}

func NewCursor(f *source.File) Cursor {
	return Cursor{src: f.Content, file: f.ID, Limit: f.Len()}
}

func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// Peek returns the current byte.
func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt смотрит на n байт вперёд.
func (c *Cursor) PeekAt(n uint32) byte {
	if i := c.Off + n; i < c.Limit {
		return c.src[i]
	}
	return 0
}

func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.src[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// Accept consumes s if the input continues with it.
func (c *Cursor) Accept(s string) bool {
	end := c.Off + uint32(len(s))
	if end > c.Limit || string(c.src[c.Off:end]) != s {
		return false
	}
	c.Off = end
	return true
}

// Mark is a saved offset for SpanFrom and Reset.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.Off}
}

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

// byte classes; Oberon identifiers are ASCII only.
const (
	clsLetter uint8 = 1 << iota
	clsDigit
	clsHexLetter
)

var classes = func() (t [256]uint8) {
	for b := 'a'; b <= 'z'; b++ {
		t[b] |= clsLetter
		t[b-'a'+'A'] |= clsLetter
	}
	t['_'] |= clsLetter
	for b := '0'; b <= '9'; b++ {
		t[b] |= clsDigit
	}
	for b := 'a'; b <= 'f'; b++ {
		t[b] |= clsHexLetter
		t[b-'a'+'A'] |= clsHexLetter
	}
	return t
}()

func isIdentStartByte(b byte) bool    { return classes[b]&clsLetter != 0 }
func isIdentContinueByte(b byte) bool { return classes[b]&(clsLetter|clsDigit) != 0 }
func isDec(b byte) bool               { return classes[b]&clsDigit != 0 }
func isHex(b byte) bool               { return classes[b]&(clsDigit|clsHexLetter) != 0 }
