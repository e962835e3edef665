package spanned

// replay re-delivers a value that has already been handed to a visitor.
// Spanned uses it to pass data from a non-participating decoder on to the
// ordinary decoding of T.
type replay struct {
	visit func(Visitor) error
	null  bool
}

func (r replay) DecodeAny(v Visitor) error {
	return r.visit(v)
}

func (r replay) DecodeStruct(_ string, _ []string, v Visitor) error {
	return r.visit(v)
}

func (r replay) DecodeOption(v OptionVisitor) error {
	if r.null {
		return v.VisitNone()
	}
	return v.VisitSome(r)
}

func replayNil() replay {
	return replay{visit: func(v Visitor) error { return v.VisitNil() }, null: true}
}

func replayBool(b bool) replay {
	return replay{visit: func(v Visitor) error { return v.VisitBool(b) }}
}

func replayInt(n int64) replay {
	return replay{visit: func(v Visitor) error { return v.VisitInt(n) }}
}

func replayUint(n uint64) replay {
	return replay{visit: func(v Visitor) error { return v.VisitUint(n) }}
}

func replayFloat(f float64) replay {
	return replay{visit: func(v Visitor) error { return v.VisitFloat(f) }}
}

func replayString(s string) replay {
	return replay{visit: func(v Visitor) error { return v.VisitString(s) }}
}

func replayBytes(b []byte) replay {
	return replay{visit: func(v Visitor) error { return v.VisitBytes(b) }}
}

func replaySeq(seq SeqAccess) replay {
	return replay{visit: func(v Visitor) error { return v.VisitSeq(seq) }}
}

func replayMap(m MapAccess) replay {
	return replay{visit: func(v Visitor) error { return v.VisitMap(m) }}
}

// prefixedMap puts back a key that was read to inspect the map.
type prefixedMap struct {
	key     string
	pending bool
	rest    MapAccess
}

func (m *prefixedMap) NextKey() (string, bool, error) {
	if m.pending {
		m.pending = false
		return m.key, true, nil
	}
	return m.rest.NextKey()
}

func (m *prefixedMap) NextValue(fn func(Deserializer) error) error {
	return m.rest.NextValue(fn)
}

// emptyMap stands in for a map whose end was already observed.
type emptyMap struct{}

func (emptyMap) NextKey() (string, bool, error) { return "", false, nil }

func (emptyMap) NextValue(func(Deserializer) error) error {
	return newTypeError("value", "key")
}
