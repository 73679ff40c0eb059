// FILE: src/internal/challenge/cursor.go
package challenge

const eof = -1

// cursor is a read position in a header value. Methods return a new cursor
// and never modify the receiver, so saving a position is a plain copy.
type cursor struct {
	buf string
	pos int
}

func (c cursor) cur() int {
	if c.pos >= len(c.buf) {
		return eof
	}
	return int(c.buf[c.pos])
}

func (c cursor) peek() int {
	if c.pos+1 >= len(c.buf) {
		return eof
	}
	return int(c.buf[c.pos+1])
}

func (c cursor) eof() bool {
	return c.pos >= len(c.buf)
}

func (c cursor) next() cursor {
	if c.pos < len(c.buf) {
		c.pos++
	}
	return c
}

func (c cursor) isOWS() bool {
	ch := c.cur()
	return ch == ' ' || ch == '\t'
}

// ows skips optional whitespace
func (c cursor) ows() cursor {
	for c.isOWS() {
		c = c.next()
	}
	return c
}

// until advances to the first byte contained in terms, or to the end
func (c cursor) until(terms string) (string, cursor) {
	start := c.pos
	for !c.eof() && !isTerm(byte(c.cur()), terms) {
		c = c.next()
	}
	return c.buf[start:c.pos], c
}

func isTerm(b byte, terms string) bool {
	for i := 0; i < len(terms); i++ {
		if terms[i] == b {
			return true
		}
	}
	return false
}
