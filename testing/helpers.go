// Package testing provides scripted decoders for exercising span negotiation.
//
// A Decoder walks an in-memory Node tree and answers span requests according
// to its Behavior, so the requesting side can be checked against well-formed,
// malformed and non-participating decoders without a real source format.
package testing

import (
	"errors"
	"sync"

	"github.com/zoobzio/spanned"
)

// Behavior selects how a Decoder answers span requests.
type Behavior int

const (
	// Plain ignores span requests and visits the data directly.
	Plain Behavior = iota
	// Echo answers with start, end and value keyed by the received field names.
	Echo
	// Reversed answers with value, end and start.
	Reversed
	// OmitValue answers with start and end only.
	OmitValue
	// OmitSpan answers with the value only.
	OmitSpan
	// OmitEnd answers with start and value only.
	OmitEnd
	// Duplicate answers with start twice.
	Duplicate
	// Foreign answers with an extra key outside the field list.
	Foreign
	// BadStart answers with a string where the start position belongs.
	BadStart
	// Renamed answers with start, end and value under ordinary key names.
	Renamed
)

func (b Behavior) String() string {
	switch b {
	case Plain:
		return "plain"
	case Echo:
		return "echo"
	case Reversed:
		return "reversed"
	case OmitValue:
		return "omit-value"
	case OmitSpan:
		return "omit-span"
	case OmitEnd:
		return "omit-end"
	case Duplicate:
		return "duplicate"
	case Foreign:
		return "foreign"
	case BadStart:
		return "bad-start"
	case Renamed:
		return "renamed"
	}
	return "unknown"
}

// Node is a value together with its span. Value holds a scalar, []*Node for
// a sequence, []Member for a map, or nil.
type Node struct {
	Start spanned.Position
	End   spanned.Position
	Value any
}

// Member is one entry of a map Node.
type Member struct {
	Key  string
	Node *Node
}

// Scalar returns a leaf node.
func Scalar(v any, start, end spanned.Position) *Node {
	return &Node{Start: start, End: end, Value: v}
}

// Seq returns a sequence node.
func Seq(start, end spanned.Position, kids ...*Node) *Node {
	return &Node{Start: start, End: end, Value: kids}
}

// Map returns a map node.
func Map(start, end spanned.Position, members ...Member) *Node {
	return &Node{Start: start, End: end, Value: members}
}

// Log records what a Decoder tree was asked. It is shared by every decoder
// derived from the same root.
type Log struct {
	mu       sync.Mutex
	requests int
	names    []string
}

// Requests returns the number of span requests received.
func (l *Log) Requests() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requests
}

// Names returns the aggregate names of every DecodeStruct call, in order.
func (l *Log) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.names...)
}

func (l *Log) record(name string, request bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, name)
	if request {
		l.requests++
	}
}

// Decoder is a spanned.Deserializer over a Node tree.
type Decoder struct {
	node     *Node
	behavior Behavior
	log      *Log
}

// NewDecoder returns a Decoder positioned at root.
func NewDecoder(root *Node, behavior Behavior) *Decoder {
	return &Decoder{node: root, behavior: behavior, log: &Log{}}
}

// Log returns the request log shared by this decoder tree.
func (d *Decoder) Log() *Log {
	return d.log
}

func (d *Decoder) child(n *Node) *Decoder {
	return &Decoder{node: n, behavior: d.behavior, log: d.log}
}

func (d *Decoder) DecodeAny(v spanned.Visitor) error {
	if d.node == nil {
		return v.VisitNil()
	}
	switch x := d.node.Value.(type) {
	case []*Node:
		return v.VisitSeq(&seqAccess{parent: d, kids: x})
	case []Member:
		entries := make([]entry, len(x))
		for i, m := range x {
			entries[i] = entry{key: m.Key, value: d.child(m.Node)}
		}
		return v.VisitMap(&mapAccess{entries: entries})
	}
	return spanned.ValueDeserializer(d.node.Value).DecodeAny(v)
}

func (d *Decoder) DecodeStruct(name string, fields []string, v spanned.Visitor) error {
	request := spanned.IsRequest(name, fields)
	d.log.record(name, request)
	if !request || d.behavior == Plain || d.node == nil {
		return d.DecodeAny(v)
	}

	start := spanned.ValueDeserializer(int64(d.node.Start))
	end := spanned.ValueDeserializer(int64(d.node.End))
	var entries []entry
	switch d.behavior {
	case Echo:
		_, err := spanned.Intercept(name, fields, d.node.Start, d.node.End, d, v)
		return err
	case Reversed:
		entries = []entry{{fields[2], d}, {fields[1], end}, {fields[0], start}}
	case OmitValue:
		entries = []entry{{fields[0], start}, {fields[1], end}}
	case OmitSpan:
		entries = []entry{{fields[2], d}}
	case OmitEnd:
		entries = []entry{{fields[0], start}, {fields[2], d}}
	case Duplicate:
		entries = []entry{{fields[0], start}, {fields[0], start}, {fields[1], end}, {fields[2], d}}
	case Foreign:
		entries = []entry{{fields[0], start}, {"extra", start}, {fields[1], end}, {fields[2], d}}
	case BadStart:
		entries = []entry{{fields[0], spanned.ValueDeserializer("zero")}, {fields[1], end}, {fields[2], d}}
	case Renamed:
		entries = []entry{{"start", start}, {"end", end}, {"value", d}}
	default:
		return d.DecodeAny(v)
	}
	return v.VisitMap(&mapAccess{entries: entries})
}

func (d *Decoder) DecodeOption(v spanned.OptionVisitor) error {
	if d.node == nil || d.node.Value == nil {
		return v.VisitNone()
	}
	return v.VisitSome(d)
}

var errNoEntry = errors.New("testing: NextValue called past the last entry")

type seqAccess struct {
	parent *Decoder
	kids   []*Node
	i      int
}

func (s *seqAccess) NextElement(fn func(spanned.Deserializer) error) (bool, error) {
	if s.i >= len(s.kids) {
		return false, nil
	}
	kid := s.kids[s.i]
	s.i++
	return true, fn(s.parent.child(kid))
}

type entry struct {
	key   string
	value spanned.Deserializer
}

type mapAccess struct {
	entries []entry
	i       int
}

func (m *mapAccess) NextKey() (string, bool, error) {
	if m.i >= len(m.entries) {
		return "", false, nil
	}
	return m.entries[m.i].key, true, nil
}

func (m *mapAccess) NextValue(fn func(spanned.Deserializer) error) error {
	if m.i >= len(m.entries) {
		return errNoEntry
	}
	e := m.entries[m.i]
	m.i++
	return fn(e.value)
}
