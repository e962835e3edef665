package spanned

import "testing"

func TestIsRequest(t *testing.T) {
	tests := []struct {
		name   string
		agg    string
		fields []string
		want   bool
	}{
		{"exact", Name, []string{FieldStart, FieldEnd, FieldValue}, true},
		{"wrong name", "Spanned", []string{FieldStart, FieldEnd, FieldValue}, false},
		{"reordered", Name, []string{FieldEnd, FieldStart, FieldValue}, false},
		{"short", Name, []string{FieldStart, FieldEnd}, false},
		{"long", Name, []string{FieldStart, FieldEnd, FieldValue, "x"}, false},
		{"lookalike", Name, []string{"start", "end", "value"}, false},
		{"nil fields", Name, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRequest(tt.agg, tt.fields); got != tt.want {
				t.Errorf("IsRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRequest_ComparesByValue(t *testing.T) {
	// Built at runtime so the strings do not share storage with the constants.
	fields := []string{
		string([]byte(FieldStart)),
		string([]byte(FieldEnd)),
		string([]byte(FieldValue)),
	}
	if !IsRequest(string([]byte(Name)), fields) {
		t.Error("IsRequest should match equal strings")
	}
}

func TestFields_IsCopied(t *testing.T) {
	local := Fields
	local[0] = "mutated"

	if Fields[0] != FieldStart {
		t.Error("modifying a copy of Fields should not affect Fields")
	}
}

func TestFieldIndex(t *testing.T) {
	fields := Fields[:]
	if got := fieldIndex(fields, FieldEnd); got != 1 {
		t.Errorf("fieldIndex(end) = %d, want 1", got)
	}
	if got := fieldIndex(fields, "other"); got != -1 {
		t.Errorf("fieldIndex(other) = %d, want -1", got)
	}
}
