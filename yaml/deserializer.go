package yaml

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/zoobzio/spanned"
	"gopkg.in/yaml.v3"
)

var errNoEntry = errors.New("yaml: NextValue called past the last entry")

// deserializer is positioned at one node. A nil node is an empty document.
type deserializer struct {
	doc *document
	n   *yaml.Node
}

// resolve follows aliases to the anchored node.
func (d *deserializer) resolve() *yaml.Node {
	n := d.n
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func (d *deserializer) DecodeAny(v spanned.Visitor) error {
	n := d.resolve()
	if n == nil {
		return v.VisitNil()
	}
	switch n.Kind {
	case yaml.SequenceNode:
		return v.VisitSeq(&seqAccess{doc: d.doc, kids: n.Content})
	case yaml.MappingNode:
		return v.VisitMap(&mapAccess{doc: d.doc, content: n.Content})
	case yaml.ScalarNode:
		return visitScalar(n, v)
	}
	return v.VisitNil()
}

// DecodeStruct answers span requests with the span of the node as written,
// so an alias spans the alias itself rather than its anchor.
func (d *deserializer) DecodeStruct(name string, fields []string, v spanned.Visitor) error {
	if d.n != nil {
		if ok, err := spanned.Intercept(name, fields, d.doc.start(d.n), d.doc.end(d.n), d, v); ok {
			return err
		}
	}
	return d.DecodeAny(v)
}

func (d *deserializer) DecodeOption(v spanned.OptionVisitor) error {
	n := d.resolve()
	if n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null") {
		return v.VisitNone()
	}
	return v.VisitSome(d)
}

// visitScalar dispatches on the resolved tag.
func visitScalar(n *yaml.Node, v spanned.Visitor) error {
	switch n.ShortTag() {
	case "!!null":
		return v.VisitNil()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return err
		}
		return v.VisitBool(b)
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return v.VisitInt(i)
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return err
		}
		return v.VisitUint(u)
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		return v.VisitFloat(f)
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return err
		}
		return v.VisitBytes(b)
	}
	return v.VisitString(n.Value)
}

type seqAccess struct {
	doc  *document
	kids []*yaml.Node
	i    int
}

func (s *seqAccess) NextElement(fn func(spanned.Deserializer) error) (bool, error) {
	if s.i >= len(s.kids) {
		return false, nil
	}
	kid := s.kids[s.i]
	s.i++
	return true, fn(&deserializer{doc: s.doc, n: kid})
}

// mapAccess walks key/value pairs laid out flat in content.
type mapAccess struct {
	doc     *document
	content []*yaml.Node
	i       int
}

func (m *mapAccess) NextKey() (string, bool, error) {
	if m.i+1 >= len(m.content) {
		return "", false, nil
	}
	key := m.content[m.i]
	for key.Kind == yaml.AliasNode && key.Alias != nil {
		key = key.Alias
	}
	return key.Value, true, nil
}

func (m *mapAccess) NextValue(fn func(spanned.Deserializer) error) error {
	if m.i+1 >= len(m.content) {
		return errNoEntry
	}
	val := m.content[m.i+1]
	m.i += 2
	return fn(&deserializer{doc: m.doc, n: val})
}
