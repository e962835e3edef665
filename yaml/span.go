package yaml

import (
	"bytes"
	"unicode/utf8"

	"github.com/zoobzio/spanned"
	"gopkg.in/yaml.v3"
)

// document holds the source and the spans computed so far.
type document struct {
	src        []byte
	lineStarts []int
	ends       map[*yaml.Node]spanned.Position
	inFlow     map[*yaml.Node]bool // nodes nested in a flow collection
}

func newDocument(src []byte) *document {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &document{
		src:        src,
		lineStarts: starts,
		ends:       make(map[*yaml.Node]spanned.Position),
		inFlow:     make(map[*yaml.Node]bool),
	}
}

// markFlow records which nodes sit inside a flow collection, where plain
// scalars end at flow indicators.
func (doc *document) markFlow(n *yaml.Node, flow bool) {
	if flow {
		doc.inFlow[n] = true
	}
	kidsFlow := flow || (n.Kind != yaml.ScalarNode && n.Style&yaml.FlowStyle != 0)
	for _, kid := range n.Content {
		doc.markFlow(kid, kidsFlow)
	}
}

// offset converts a 1-based line and a 1-based column counted in runes.
func (doc *document) offset(line, col int) spanned.Position {
	if line < 1 {
		return 0
	}
	if line > len(doc.lineStarts) {
		return spanned.Position(len(doc.src))
	}
	off := doc.lineStarts[line-1]
	for c := 1; c < col && off < len(doc.src) && doc.src[off] != '\n'; c++ {
		_, size := utf8.DecodeRune(doc.src[off:])
		off += size
	}
	return spanned.Position(off)
}

func (doc *document) start(n *yaml.Node) spanned.Position {
	return doc.offset(n.Line, n.Column)
}

// end returns the offset immediately after n.
func (doc *document) end(n *yaml.Node) spanned.Position {
	if e, ok := doc.ends[n]; ok {
		return e
	}
	e := doc.computeEnd(n)
	if s := doc.start(n); e < s {
		e = s
	}
	doc.ends[n] = e
	return e
}

func (doc *document) computeEnd(n *yaml.Node) spanned.Position {
	start := int(doc.start(n))
	switch n.Kind {
	case yaml.AliasNode:
		return spanned.Position(start + 1 + len(n.Value))
	case yaml.ScalarNode:
		return spanned.Position(doc.scalarEnd(n, start))
	case yaml.MappingNode, yaml.SequenceNode:
		if n.Style&yaml.FlowStyle != 0 {
			if e, ok := doc.flowEnd(start); ok {
				return spanned.Position(e)
			}
		}
		end := spanned.Position(start)
		for _, kid := range n.Content {
			if e := doc.end(kid); e > end {
				end = e
			}
		}
		return end
	}
	return spanned.Position(start)
}

func (doc *document) scalarEnd(n *yaml.Node, start int) int {
	src := doc.src
	switch {
	case n.Style&yaml.DoubleQuotedStyle != 0:
		if i := bytes.IndexByte(src[start:], '"'); i >= 0 {
			return quotedEnd(src, start+i, '"')
		}
	case n.Style&yaml.SingleQuotedStyle != 0:
		if i := bytes.IndexByte(src[start:], '\''); i >= 0 {
			return quotedEnd(src, start+i, '\'')
		}
	case n.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0:
		return doc.blockEnd(start)
	}
	if bytes.HasPrefix(src[start:], []byte(n.Value)) {
		return start + len(n.Value)
	}
	if doc.inFlow[n] {
		return plainEnd(src, start, true)
	}
	return doc.foldedPlainEnd(start)
}

// foldedPlainEnd finds the end of a block-context plain scalar, which may
// continue on lines indented deeper than the line it starts on.
func (doc *document) foldedPlainEnd(start int) int {
	src := doc.src
	end := plainEnd(src, start, false)
	headerStart := bytes.LastIndexByte(src[:start], '\n') + 1
	parentIndent := indentOf(src[headerStart:])

	for next := lineEnd(src, start) + 1; next < len(src); {
		le := lineEnd(src, next)
		line := src[next:le]
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 0 {
			if indentOf(line) <= parentIndent || trimmed[0] == '#' {
				break
			}
			end = plainEnd(src, next+indentOf(line), false)
		}
		next = le + 1
	}
	return end
}

func lineEnd(src []byte, from int) int {
	if i := bytes.IndexByte(src[from:], '\n'); i >= 0 {
		return from + i
	}
	return len(src)
}

// quotedEnd returns the offset after the closing quote of a string opening at open.
func quotedEnd(src []byte, open int, quote byte) int {
	for i := open + 1; i < len(src); i++ {
		switch {
		case quote == '"' && src[i] == '\\':
			i++
		case src[i] == quote:
			if quote == '\'' && i+1 < len(src) && src[i+1] == '\'' {
				i++
				continue
			}
			return i + 1
		}
	}
	return len(src)
}

// plainEnd scans a plain scalar to the end of its line, stopping at a
// comment and, inside flow collections, at a flow indicator. Trailing blanks
// are not included.
func plainEnd(src []byte, start int, flow bool) int {
	end := start
	for i := start; i < len(src); i++ {
		c := src[i]
		if c == '\n' || c == '\r' {
			break
		}
		if c == '#' && i > start && (src[i-1] == ' ' || src[i-1] == '\t') {
			break
		}
		if flow && (c == ',' || c == ']' || c == '}') {
			break
		}
		if c != ' ' && c != '\t' {
			end = i + 1
		}
	}
	return end
}

// blockEnd finds the end of a literal or folded block scalar whose indicator
// is at start: the last non-blank line indented deeper than the indicator's line.
func (doc *document) blockEnd(start int) int {
	src := doc.src
	end := plainEnd(src, start, false)
	headerStart := bytes.LastIndexByte(src[:start], '\n') + 1
	parentIndent := indentOf(src[headerStart:])

	for next := lineEnd(src, start) + 1; next < len(src); {
		le := lineEnd(src, next)
		line := src[next:le]
		if len(bytes.TrimSpace(line)) > 0 {
			if indentOf(line) <= parentIndent {
				break
			}
			end = next + len(bytes.TrimRight(line, " \t\r"))
		}
		next = le + 1
	}
	return end
}

func indentOf(line []byte) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

// flowEnd returns the offset after the bracket matching the first '[' or '{'
// at or after start.
func (doc *document) flowEnd(start int) (int, bool) {
	src := doc.src
	depth := 0
	for i := start; i < len(src); i++ {
		switch c := src[i]; c {
		case '"', '\'':
			i = quotedEnd(src, i, c) - 1
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		case '#':
			if i > start && (src[i-1] == ' ' || src[i-1] == '\t') {
				if j := bytes.IndexByte(src[i:], '\n'); j >= 0 {
					i += j
				} else {
					i = len(src)
				}
			}
		}
	}
	return 0, false
}
