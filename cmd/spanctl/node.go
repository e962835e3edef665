package main

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/zoobzio/spanned"
)

// node is one decoded value. Children carry their own spans.
type node struct {
	Kind   string
	Scalar any
	Items  []spanned.Spanned[node]
	Fields []field
}

type field struct {
	Key   string
	Value spanned.Spanned[node]
}

func (n *node) DecodeFrom(d spanned.Deserializer) error {
	return d.DecodeAny(&nodeVisitor{n: n})
}

type nodeVisitor struct {
	n *node
}

func (v *nodeVisitor) scalar(kind string, value any) error {
	v.n.Kind = kind
	v.n.Scalar = value
	return nil
}

func (v *nodeVisitor) VisitNil() error { return v.scalar("null", nil) }
func (v *nodeVisitor) VisitBool(b bool) error { return v.scalar("bool", b) }
func (v *nodeVisitor) VisitInt(n int64) error { return v.scalar("int", n) }
func (v *nodeVisitor) VisitUint(n uint64) error { return v.scalar("uint", n) }
func (v *nodeVisitor) VisitFloat(f float64) error { return v.scalar("float", f) }
func (v *nodeVisitor) VisitString(s string) error { return v.scalar("string", s) }
func (v *nodeVisitor) VisitBytes(b []byte) error { return v.scalar("bytes", b) }

func (v *nodeVisitor) VisitSeq(seq spanned.SeqAccess) error {
	v.n.Kind = "seq"
	for {
		var item spanned.Spanned[node]
		ok, err := seq.NextElement(func(d spanned.Deserializer) error { return spanned.DecodeValue(d, &item) })
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		v.n.Items = append(v.n.Items, item)
	}
}

func (v *nodeVisitor) VisitMap(m spanned.MapAccess) error {
	v.n.Kind = "map"
	for {
		key, ok, err := m.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		f := field{Key: key}
		if err := m.NextValue(func(d spanned.Deserializer) error { return spanned.DecodeValue(d, &f.Value) }); err != nil {
			return err
		}
		v.n.Fields = append(v.n.Fields, f)
	}
}

// entry is one line of spans output.
type entry struct {
	Path  string
	Kind  string
	Start spanned.Position
	End   spanned.Position
	Value string
}

// flatten walks root depth first, parents before children.
func flatten(root spanned.Spanned[node]) []entry {
	var out []entry
	var walk func(path string, s spanned.Spanned[node])
	walk = func(path string, s spanned.Spanned[node]) {
		n := s.Value()
		e := entry{Path: path, Kind: n.Kind, Start: s.Start(), End: s.End()}
		if n.Kind != "seq" && n.Kind != "map" {
			e.Value = preview(n.Scalar)
		}
		out = append(out, e)
		for i, item := range n.Items {
			walk(fmt.Sprintf("%s[%d]", path, i), item)
		}
		for _, f := range n.Fields {
			walk(path+pathKey(f.Key), f.Value)
		}
	}
	walk("$", root)
	return out
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// pathKey renders a map key as a path step. Keys that could be misread as
// path syntax are quoted in brackets.
func pathKey(key string) string {
	if bareKey.MatchString(key) {
		return "." + key
	}
	return "[" + strconv.Quote(key) + "]"
}

const previewLimit = 40

func preview(v any) string {
	var s string
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		s = fmt.Sprintf("%q", x)
	case []byte:
		return fmt.Sprintf("<%d bytes>", len(x))
	default:
		s = fmt.Sprint(x)
	}
	if utf8.RuneCountInString(s) > previewLimit {
		r := []rune(s)
		s = string(r[:previewLimit-3]) + "..."
	}
	return s
}

// lineIndex converts byte offsets to 1-based line and rune column.
type lineIndex struct {
	src    []byte
	starts []int
}

func newLineIndex(src []byte) *lineIndex {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{src: src, starts: starts}
}

func (li *lineIndex) position(off spanned.Position) (line, col int, ok bool) {
	if off < 0 || int(off) > len(li.src) {
		return 0, 0, false
	}
	line = sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > int(off) })
	start := li.starts[line-1]
	return line, utf8.RuneCount(li.src[start:off]) + 1, true
}
