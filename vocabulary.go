package spanned

// Sentinel vocabulary shared by convention between decoders and Spanned.
// A decoder recognizes a span request purely by comparing the aggregate name
// and field list it receives against these values. Changing any of them
// breaks every decoder that hardcodes them.
//
// Ordinary data using an aggregate with exactly this name and field list
// would be misread as a span request. The prefix makes that unlikely, not
// impossible.
const (
	// Name is the aggregate name carried by a span request.
	Name = "$__spanned_private_Spanned"

	// FieldStart names the entry holding the start position.
	FieldStart = "$__spanned_private_start"

	// FieldEnd names the entry holding the end position.
	FieldEnd = "$__spanned_private_end"

	// FieldValue names the entry holding the spanned value.
	FieldValue = "$__spanned_private_value"
)

// Fields is the ordered field list of a span request.
// It is an array so that every use is a copy.
var Fields = [3]string{FieldStart, FieldEnd, FieldValue}

// IsRequest reports whether name and fields form a span request.
// Fields are compared in order and by value.
func IsRequest(name string, fields []string) bool {
	if name != Name || len(fields) != len(Fields) {
		return false
	}
	for i, f := range fields {
		if f != Fields[i] {
			return false
		}
	}
	return true
}

// fieldIndex returns the slot (0 start, 1 end, 2 value) of key within the
// field list sent with a request, or -1.
func fieldIndex(fields []string, key string) int {
	for i, f := range fields {
		if f == key {
			return i
		}
	}
	return -1
}
