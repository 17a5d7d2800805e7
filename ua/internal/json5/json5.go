// Copyright 2021 Converter Systems LLC. All rights reserved.

// Package json5 parses JSON text leniently. Besides plain JSON it accepts
// comments, trailing commas, unquoted keys, single-quoted strings,
// hexadecimal numbers, a leading plus sign and the literals Infinity and NaN.
package json5

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/gammazero/deque"
)

// Kind is the kind of a parsed value.
type Kind uint8

// Kinds
const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "invalid"
}

// Value is a node of the parsed tree.
type Value struct {
	Kind Kind
	// Text holds the content of a string or the literal of a number.
	Text string
	Bool bool
	// Items holds the elements of an array or the member values of an object.
	Items []*Value
	// Keys holds the member names of an object.
	Keys []string
	// Offset is the position of the value in the input.
	Offset int
}

// Get returns the value of the last member with the key.
func (v *Value) Get(key string) (*Value, bool) {
	for i := len(v.Keys) - 1; i >= 0; i-- {
		if v.Keys[i] == key {
			return v.Items[i], true
		}
	}
	return nil, false
}

// IsNull returns true for a missing value or null.
func (v *Value) IsNull() bool {
	return v == nil || v.Kind == Null
}

// SyntaxError describes malformed input.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("json5: %s at offset %d", e.Msg, e.Offset)
}

// Parse parses the first value of data. It returns the value and the offset
// just past its last byte. Containers nested deeper than maxDepth fail.
func Parse(data []byte, maxDepth int) (*Value, int, error) {
	p := &parser{data: data}
	var root *Value
	stack := deque.Deque[*Value]{}
	for {
		if err := p.skipSpace(); err != nil {
			return nil, 0, err
		}
		var parent *Value
		if stack.Len() > 0 {
			parent = stack.Back()
		}
		if parent != nil && parent.Kind == Object {
			key, err := p.key()
			if err != nil {
				return nil, 0, err
			}
			if err := p.skipSpace(); err != nil {
				return nil, 0, err
			}
			if !p.consume(':') {
				return nil, 0, p.fail("expected ':' after key")
			}
			if err := p.skipSpace(); err != nil {
				return nil, 0, err
			}
			parent.Keys = append(parent.Keys, key)
		}
		v, err := p.value()
		if err != nil {
			return nil, 0, err
		}
		if parent == nil {
			root = v
		} else {
			parent.Items = append(parent.Items, v)
		}
		if v.Kind == Array || v.Kind == Object {
			if stack.Len() >= maxDepth {
				return nil, 0, p.fail("exceeded max depth")
			}
			stack.PushBack(v)
			if err := p.skipSpace(); err != nil {
				return nil, 0, err
			}
			if !p.consume(closer(v.Kind)) {
				continue
			}
			stack.PopBack()
		}
		// a value is complete, consume separators and closing brackets.
		for {
			if stack.Len() == 0 {
				return root, p.pos, nil
			}
			if err := p.skipSpace(); err != nil {
				return nil, 0, err
			}
			c := closer(stack.Back().Kind)
			if p.consume(c) {
				stack.PopBack()
				continue
			}
			if !p.consume(',') {
				if p.pos >= len(p.data) {
					return nil, 0, p.fail("unexpected end of input")
				}
				return nil, 0, p.fail(fmt.Sprintf("expected ',' or '%c'", c))
			}
			if err := p.skipSpace(); err != nil {
				return nil, 0, err
			}
			if p.consume(c) {
				stack.PopBack()
				continue
			}
			break
		}
	}
}

// SkipSpace returns the number of leading bytes of data that are whitespace
// or comments.
func SkipSpace(data []byte) (int, error) {
	p := &parser{data: data}
	err := p.skipSpace()
	return p.pos, err
}

func closer(k Kind) byte {
	if k == Array {
		return ']'
	}
	return '}'
}

type parser struct {
	data []byte
	pos  int
}

func (p *parser) fail(msg string) error {
	return &SyntaxError{Offset: p.pos, Msg: msg}
}

func (p *parser) consume(c byte) bool {
	if p.pos < len(p.data) && p.data[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) hasPrefix(s string) bool {
	return strings.HasPrefix(string(p.data[p.pos:min(len(p.data), p.pos+len(s))]), s)
}

func (p *parser) skipSpace() error {
	for p.pos < len(p.data) {
		switch c := p.data[p.pos]; c {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			p.pos++
		case '/':
			switch {
			case p.hasPrefix("//"):
				for p.pos < len(p.data) && p.data[p.pos] != '\n' {
					p.pos++
				}
			case p.hasPrefix("/*"):
				end := strings.Index(string(p.data[p.pos+2:]), "*/")
				if end < 0 {
					return p.fail("unterminated comment")
				}
				p.pos += end + 4
			default:
				return nil
			}
		case 0xC2, 0xE2, 0xEF:
			// no-break space, line and paragraph separators, byte order mark
			r, n := utf8.DecodeRune(p.data[p.pos:])
			if r != '\u00a0' && r != '\u2028' && r != '\u2029' && r != '\ufeff' {
				return nil
			}
			p.pos += n
		default:
			return nil
		}
	}
	return nil
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func (p *parser) key() (string, error) {
	if p.pos >= len(p.data) {
		return "", p.fail("unexpected end of input")
	}
	if c := p.data[p.pos]; c == '"' || c == '\'' {
		return p.string(c)
	}
	start := p.pos
	for p.pos < len(p.data) && isIdentByte(p.data[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", p.fail("expected key")
	}
	return string(p.data[start:p.pos]), nil
}

func (p *parser) literal(s string) bool {
	if !p.hasPrefix(s) {
		return false
	}
	end := p.pos + len(s)
	if end < len(p.data) && isIdentByte(p.data[end]) {
		return false
	}
	p.pos = end
	return true
}

func (p *parser) value() (*Value, error) {
	if p.pos >= len(p.data) {
		return nil, p.fail("unexpected end of input")
	}
	v := &Value{Offset: p.pos}
	switch c := p.data[p.pos]; {
	case c == '{':
		p.pos++
		v.Kind = Object
	case c == '[':
		p.pos++
		v.Kind = Array
	case c == '"' || c == '\'':
		s, err := p.string(c)
		if err != nil {
			return nil, err
		}
		v.Kind = String
		v.Text = s
	case p.literal("null"):
		v.Kind = Null
	case p.literal("true"):
		v.Kind = Bool
		v.Bool = true
	case p.literal("false"):
		v.Kind = Bool
	case c == '-' || c == '+' || c == '.' || c == 'I' || c == 'N' || ('0' <= c && c <= '9'):
		s, err := p.number()
		if err != nil {
			return nil, err
		}
		v.Kind = Number
		v.Text = s
	default:
		return nil, p.fail(fmt.Sprintf("unexpected character %q", c))
	}
	return v, nil
}

func (p *parser) digits(hex bool) int {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if !('0' <= c && c <= '9') && !(hex && (('a' <= c && c <= 'f') || ('A' <= c && c <= 'F'))) {
			break
		}
		p.pos++
	}
	return p.pos - start
}

func (p *parser) number() (string, error) {
	start := p.pos
	if p.data[p.pos] == '-' || p.data[p.pos] == '+' {
		p.pos++
	}
	switch {
	case p.literal("Infinity"), p.literal("NaN"):
		return string(p.data[start:p.pos]), nil
	case p.hasPrefix("0x") || p.hasPrefix("0X"):
		p.pos += 2
		if p.digits(true) == 0 {
			return "", p.fail("invalid hexadecimal number")
		}
	default:
		n := p.digits(false)
		if p.consume('.') {
			n += p.digits(false)
		}
		if n == 0 {
			return "", p.fail("invalid number")
		}
		if p.consume('e') || p.consume('E') {
			if !p.consume('+') {
				p.consume('-')
			}
			if p.digits(false) == 0 {
				return "", p.fail("invalid exponent")
			}
		}
	}
	if p.pos < len(p.data) && isIdentByte(p.data[p.pos]) {
		return "", p.fail("invalid number")
	}
	return string(p.data[start:p.pos]), nil
}

func (p *parser) string(quote byte) (string, error) {
	p.pos++
	start := p.pos
	// fast path without escapes
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == quote {
			s := string(p.data[start:p.pos])
			p.pos++
			return s, nil
		}
		if c == '\\' || c == '\n' || c == '\r' {
			break
		}
		p.pos++
	}
	var b strings.Builder
	b.Write(p.data[start:p.pos])
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\n' || c == '\r':
			return "", p.fail("newline in string")
		case c != '\\':
			b.WriteByte(c)
			p.pos++
			continue
		}
		p.pos++
		if p.pos >= len(p.data) {
			break
		}
		e := p.data[p.pos]
		p.pos++
		switch e {
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\r':
			// line continuation
			p.consume('\n')
		case '\n':
			// line continuation
		case 'x':
			r, err := p.hex(2)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
		case 'u':
			r, err := p.hex(4)
			if err != nil {
				return "", err
			}
			if utf16.IsSurrogate(r) && p.hasPrefix("\\u") {
				p.pos += 2
				r2, err := p.hex(4)
				if err != nil {
					return "", err
				}
				r = utf16.DecodeRune(r, r2)
			}
			b.WriteRune(r)
		default:
			// quotes, backslash, slash and any other character stand for themselves
			b.WriteByte(e)
		}
	}
	return "", p.fail("unterminated string")
}

func (p *parser) hex(n int) (rune, error) {
	if p.pos+n > len(p.data) {
		return 0, p.fail("invalid escape")
	}
	u, err := strconv.ParseUint(string(p.data[p.pos:p.pos+n]), 16, 32)
	if err != nil {
		return 0, p.fail("invalid escape")
	}
	p.pos += n
	return rune(u), nil
}
