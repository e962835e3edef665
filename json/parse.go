package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/zoobzio/spanned"
)

type kind uint8

const (
	kindNull kind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
)

// node is one parsed JSON value with its byte span.
type node struct {
	kind  kind
	start spanned.Position
	end   spanned.Position

	b    bool
	num  json.Number
	str  string
	keys []string // object keys, parallel to kids
	kids []*node  // array elements or object values
}

// parser builds a node tree from the token stream of encoding/json.
// InputOffset marks the end of each token; the start of a value is found by
// skipping separators from the previous offset.
type parser struct {
	data []byte
	dec  *json.Decoder
}

func parse(data []byte) (*node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	p := &parser{data: data, dec: dec}

	root, err := p.value()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, p.syntax(err)
		}
		return nil, spanned.NewSyntaxError(spanned.Position(p.skip(int(root.end))), "trailing data after top-level value")
	}
	return root, nil
}

// skip returns the offset of the next significant byte at or after off.
func (p *parser) skip(off int) int {
	for off < len(p.data) {
		switch p.data[off] {
		case ' ', '\t', '\n', '\r', ':', ',':
			off++
		default:
			return off
		}
	}
	return off
}

func (p *parser) value() (*node, error) {
	start := spanned.Position(p.skip(int(p.dec.InputOffset())))
	tok, err := p.dec.Token()
	if err != nil {
		return nil, p.syntax(err)
	}

	n := &node{start: start}
	switch t := tok.(type) {
	case nil:
		n.kind = kindNull
	case bool:
		n.kind = kindBool
		n.b = t
	case json.Number:
		n.kind = kindNumber
		n.num = t
	case string:
		n.kind = kindString
		n.str = t
	case json.Delim:
		switch t {
		case '[':
			n.kind = kindArray
			if err := p.array(n); err != nil {
				return nil, err
			}
		case '{':
			n.kind = kindObject
			if err := p.object(n); err != nil {
				return nil, err
			}
		default:
			return nil, spanned.NewSyntaxError(start, "unexpected %q", rune(t))
		}
	}
	n.end = spanned.Position(p.dec.InputOffset())
	return n, nil
}

func (p *parser) array(n *node) error {
	for p.dec.More() {
		kid, err := p.value()
		if err != nil {
			return err
		}
		n.kids = append(n.kids, kid)
	}
	return p.close()
}

func (p *parser) object(n *node) error {
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return p.syntax(err)
		}
		key, ok := tok.(string)
		if !ok {
			return spanned.NewSyntaxError(spanned.Position(p.dec.InputOffset()), "object key is not a string")
		}
		kid, err := p.value()
		if err != nil {
			return err
		}
		n.keys = append(n.keys, key)
		n.kids = append(n.kids, kid)
	}
	return p.close()
}

// close consumes the closing delimiter of an array or object.
func (p *parser) close() error {
	if _, err := p.dec.Token(); err != nil {
		return p.syntax(err)
	}
	return nil
}

func (p *parser) syntax(err error) error {
	var se *json.SyntaxError
	switch {
	case errors.As(err, &se):
		return spanned.NewSyntaxError(spanned.Position(se.Offset), "%s", se.Error())
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return spanned.NewSyntaxError(spanned.Position(len(p.data)), "unexpected end of input")
	}
	return spanned.NewSyntaxError(spanned.Position(p.dec.InputOffset()), "%s", err.Error())
}
