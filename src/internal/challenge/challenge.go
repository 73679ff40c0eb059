// FILE: src/internal/challenge/challenge.go
package challenge

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformed marks a header that does not follow the challenge grammar
	ErrMalformed = errors.New("malformed auth header")
	// ErrEmptyHeader is returned by ParseFirst when no challenge is present
	ErrEmptyHeader = errors.New("no challenge in auth header")
)

// Param is a single auth-param, name is lower-cased
type Param struct {
	Name  string
	Value string
}

// Challenge is one scheme and its parameters from a WWW-Authenticate value
type Challenge struct {
	Scheme string
	params []Param
}

// Param returns the value of the named parameter, matching case-insensitively.
// If a name repeats the last occurrence wins.
func (c *Challenge) Param(name string) (string, bool) {
	name = strings.ToLower(name)
	for i := len(c.params) - 1; i >= 0; i-- {
		if c.params[i].Name == name {
			return c.params[i].Value, true
		}
	}
	return "", false
}

// Params returns a copy of the parameters in header order
func (c *Challenge) Params() []Param {
	out := make([]Param, len(c.params))
	copy(out, c.params)
	return out
}

func (c *Challenge) String() string {
	if len(c.params) == 0 {
		return c.Scheme
	}
	parts := make([]string, len(c.params))
	for i, p := range c.params {
		parts[i] = fmt.Sprintf("%s=%q", p.Name, p.Value)
	}
	return c.Scheme + " " + strings.Join(parts, ", ")
}

// Parser reads challenges one at a time from a header value.
type Parser struct {
	checkpoint cursor
	started    bool
	err        error
}

// NewParser creates a parser positioned at the first challenge
func NewParser(header string) *Parser {
	return &Parser{checkpoint: cursor{buf: header}.ows()}
}

// Next parses the challenge at the current position and advances past it.
// It returns nil, nil once the input is exhausted. Errors are sticky.
func (p *Parser) Next() (*Challenge, error) {
	if p.err != nil {
		return nil, p.err
	}
	c := p.checkpoint
	if c.eof() {
		return nil, nil
	}

	if p.started {
		var err error
		if c, err = commaOWS(c); err != nil {
			p.err = err
			return nil, err
		}
		// trailing comma
		if c.eof() {
			p.checkpoint = c
			return nil, nil
		}
	}

	ch, c, err := parseChallenge(c)
	if err != nil {
		p.err = err
		return nil, err
	}
	p.checkpoint = c
	p.started = true
	return ch, nil
}

// ParseFirst returns the first challenge in header
func ParseFirst(header string) (*Challenge, error) {
	ch, err := NewParser(header).Next()
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrEmptyHeader
	}
	return ch, nil
}

// ParseAll returns every challenge in header
func ParseAll(header string) ([]*Challenge, error) {
	p := NewParser(header)
	var out []*Challenge
	for {
		ch, err := p.Next()
		if err != nil {
			return nil, err
		}
		if ch == nil {
			return out, nil
		}
		out = append(out, ch)
	}
}

// ParseInfo parses an Authentication-Info value. The value is normally a
// bare auth-param list; a leading scheme token is accepted and kept.
func ParseInfo(header string) (*Challenge, error) {
	c := cursor{buf: header}.ows()
	ch := &Challenge{}

	_, _, ok, err := parseParam(c)
	if err != nil {
		return nil, err
	}
	if !ok {
		name, after := c.until(" ,")
		if name == "" {
			return nil, fmt.Errorf("%w: expected auth-param at %d", ErrMalformed, c.pos)
		}
		ch.Scheme = strings.ToLower(name)
		c = after.ows()
	}

	params, c, err := parseParams(c)
	if err != nil {
		return nil, err
	}
	if c.cur() == ',' {
		c = c.next().ows()
	}
	if !c.eof() {
		return nil, fmt.Errorf("%w: unexpected input at %d", ErrMalformed, c.pos)
	}
	ch.params = params
	return ch, nil
}

func parseChallenge(c cursor) (*Challenge, cursor, error) {
	name, c := c.until(" ,")
	if name == "" {
		return nil, c, fmt.Errorf("%w: expected scheme at %d", ErrMalformed, c.pos)
	}
	ch := &Challenge{Scheme: strings.ToLower(name)}
	if c.cur() != ' ' {
		return ch, c, nil
	}
	for c.cur() == ' ' {
		c = c.next()
	}

	params, c, err := parseParams(c)
	if err != nil {
		return nil, c, err
	}
	ch.params = params
	return ch, c, nil
}

func parseParams(c cursor) ([]Param, cursor, error) {
	var params []Param
	for {
		start := c
		if c.eof() {
			break
		}
		if len(params) > 0 {
			var err error
			if c, err = commaOWS(c); err != nil {
				return nil, c, err
			}
		}

		param, after, ok, err := parseParam(c)
		if err != nil {
			return nil, after, err
		}
		if !ok {
			// not a param, leave it for the next challenge
			c = start
			break
		}
		params = append(params, param)
		c = after.ows()
	}
	return params, c, nil
}

// parseParam reports ok=false when the token at c is not followed by '='
func parseParam(c cursor) (Param, cursor, bool, error) {
	if c.eof() {
		return Param{}, c, false, nil
	}

	name, c := c.until(" \t=,")
	c = c.ows()
	if c.cur() != '=' {
		return Param{}, c, false, nil
	}
	c = c.next().ows()

	var value string
	if c.cur() == '"' {
		var err error
		if value, c, err = parseQuoted(c); err != nil {
			return Param{}, c, false, err
		}
	} else {
		value, c = c.until(" \t,")
	}

	return Param{Name: strings.ToLower(name), Value: value}, c.ows(), true, nil
}

func parseQuoted(c cursor) (string, cursor, error) {
	start := c.pos
	if c.cur() != '"' {
		return "", c, fmt.Errorf("%w: expected '\"' at %d", ErrMalformed, c.pos)
	}
	c = c.next()

	var sb strings.Builder
	for {
		switch c.cur() {
		case eof:
			return "", c, fmt.Errorf("%w: unterminated quoted-string starting at %d", ErrMalformed, start)
		case '"':
			return sb.String(), c.next(), nil
		case '\\':
			if c.peek() == eof {
				return "", c, fmt.Errorf("%w: unterminated quoted-string starting at %d", ErrMalformed, start)
			}
			sb.WriteByte(byte(c.peek()))
			c = c.next().next()
		default:
			sb.WriteByte(byte(c.cur()))
			c = c.next()
		}
	}
}

func commaOWS(c cursor) (cursor, error) {
	if c.cur() != ',' {
		return c, fmt.Errorf("%w: expected ',' at %d", ErrMalformed, c.pos)
	}
	return c.next().ows(), nil
}
