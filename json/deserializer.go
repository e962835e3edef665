package json

import (
	"errors"
	"strconv"

	"github.com/zoobzio/spanned"
)

// deserializer is positioned at one node of the parsed tree.
type deserializer struct {
	n *node
}

func (d *deserializer) DecodeAny(v spanned.Visitor) error {
	n := d.n
	switch n.kind {
	case kindNull:
		return v.VisitNil()
	case kindBool:
		return v.VisitBool(n.b)
	case kindNumber:
		return visitNumber(n.num.String(), v)
	case kindString:
		return v.VisitString(n.str)
	case kindArray:
		return v.VisitSeq(&seqAccess{kids: n.kids})
	default:
		return v.VisitMap(&mapAccess{keys: n.keys, kids: n.kids})
	}
}

// DecodeStruct answers span requests with the node's span and treats every
// other aggregate request like DecodeAny.
func (d *deserializer) DecodeStruct(name string, fields []string, v spanned.Visitor) error {
	if ok, err := spanned.Intercept(name, fields, d.n.start, d.n.end, d, v); ok {
		return err
	}
	return d.DecodeAny(v)
}

func (d *deserializer) DecodeOption(v spanned.OptionVisitor) error {
	if d.n.kind == kindNull {
		return v.VisitNone()
	}
	return v.VisitSome(d)
}

// visitNumber prefers integers and falls back to float64.
func visitNumber(s string, v spanned.Visitor) error {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v.VisitInt(i)
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v.VisitUint(u)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return spanned.NewTypeError("number "+s, "number within float64 range")
	}
	return v.VisitFloat(f)
}

type seqAccess struct {
	kids []*node
	i    int
}

func (s *seqAccess) NextElement(fn func(spanned.Deserializer) error) (bool, error) {
	if s.i >= len(s.kids) {
		return false, nil
	}
	kid := s.kids[s.i]
	s.i++
	return true, fn(&deserializer{n: kid})
}

var errNoEntry = errors.New("json: NextValue called past the last entry")

type mapAccess struct {
	keys []string
	kids []*node
	i    int
}

func (m *mapAccess) NextKey() (string, bool, error) {
	if m.i >= len(m.keys) {
		return "", false, nil
	}
	return m.keys[m.i], true, nil
}

func (m *mapAccess) NextValue(fn func(spanned.Deserializer) error) error {
	if m.i >= len(m.kids) {
		return errNoEntry
	}
	kid := m.kids[m.i]
	m.i++
	return fn(&deserializer{n: kid})
}
