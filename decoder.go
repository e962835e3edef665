package spanned

// Deserializer is the type-directed dispatch surface a format exposes.
// A Deserializer is positioned at exactly one value and is consumed by a
// single call to one of its methods.
type Deserializer interface {
	// DecodeAny feeds the value to v using whatever shape the data has.
	DecodeAny(v Visitor) error

	// DecodeStruct asks for a named aggregate with the given field list.
	// Self-describing formats usually treat this exactly like DecodeAny.
	// A span-aware format checks the request with Intercept first.
	DecodeStruct(name string, fields []string, v Visitor) error

	// DecodeOption calls v.VisitNone for a nil value and v.VisitSome with a
	// Deserializer for the same value otherwise.
	DecodeOption(v OptionVisitor) error
}

// OptionVisitor receives the outcome of DecodeOption.
type OptionVisitor interface {
	VisitNone() error
	VisitSome(d Deserializer) error
}

// Visitor receives one value from a Deserializer.
// Embed BaseVisitor to reject every shape that is not overridden.
type Visitor interface {
	VisitNil() error
	VisitBool(b bool) error
	VisitInt(n int64) error
	VisitUint(n uint64) error
	VisitFloat(f float64) error
	VisitString(s string) error
	VisitBytes(b []byte) error
	VisitSeq(seq SeqAccess) error
	VisitMap(m MapAccess) error
}

// SeqAccess iterates the elements of a sequence.
type SeqAccess interface {
	// NextElement decodes the next element with fn.
	// It reports false, without calling fn, once the sequence is exhausted.
	NextElement(fn func(Deserializer) error) (bool, error)
}

// MapAccess iterates the entries of a map.
// Every key returned by NextKey must be followed by exactly one NextValue.
type MapAccess interface {
	// NextKey returns the next key, or false once the map is exhausted.
	NextKey() (string, bool, error)

	// NextValue decodes the value belonging to the last key with fn.
	NextValue(fn func(Deserializer) error) error
}

// Decodable bypasses reflection in DecodeValue.
// Types implement it on their pointer receiver to take over their own
// decoding; Spanned is the primary implementation.
type Decodable interface {
	DecodeFrom(d Deserializer) error
}

// BaseVisitor rejects every shape with a TypeError naming Expected.
type BaseVisitor struct {
	Expected string
}

func (b BaseVisitor) VisitNil() error { return b.reject("nil") }
func (b BaseVisitor) VisitBool(bool) error { return b.reject("bool") }
func (b BaseVisitor) VisitInt(int64) error { return b.reject("integer") }
func (b BaseVisitor) VisitUint(uint64) error { return b.reject("unsigned integer") }
func (b BaseVisitor) VisitFloat(float64) error { return b.reject("float") }
func (b BaseVisitor) VisitString(string) error { return b.reject("string") }
func (b BaseVisitor) VisitBytes([]byte) error { return b.reject("bytes") }
func (b BaseVisitor) VisitSeq(SeqAccess) error { return b.reject("sequence") }
func (b BaseVisitor) VisitMap(MapAccess) error { return b.reject("map") }
func (b BaseVisitor) reject(got string) error { return newTypeError(got, b.Expected) }
