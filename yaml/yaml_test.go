package yaml

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/spanned"
)

func TestNew(t *testing.T) {
	f := New()
	if f == nil {
		t.Fatal("New() returned nil")
	}
	if got := f.ContentType(); got != "application/yaml" {
		t.Errorf("ContentType() = %q, want %q", got, "application/yaml")
	}
}

const serviceDoc = "name: demo\n" +
	"port: 8080\n" +
	"tags: [a, \"b c\"]\n" +
	"nested:\n" +
	"  key: value\n"

type service struct {
	Name   spanned.Spanned[string]                    `span:"name"`
	Port   spanned.Spanned[int]                       `span:"port"`
	Tags   spanned.Spanned[[]spanned.Spanned[string]] `span:"tags"`
	Nested spanned.Spanned[map[string]string]         `span:"nested"`
}

func assertSpan[T any](t *testing.T, name string, s spanned.Spanned[T], start, end spanned.Position) {
	t.Helper()
	gotStart, gotEnd := s.Span()
	if gotStart != start || gotEnd != end {
		t.Errorf("%s span = %d..%d, want %d..%d", name, gotStart, gotEnd, start, end)
	}
}

func TestUnmarshal_Spans(t *testing.T) {
	var svc service
	if err := Unmarshal([]byte(serviceDoc), &svc); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if svc.Name.Value() != "demo" {
		t.Errorf("name = %q, want %q", svc.Name.Value(), "demo")
	}
	assertSpan(t, "name", svc.Name, 6, 10)

	if svc.Port.Value() != 8080 {
		t.Errorf("port = %d, want 8080", svc.Port.Value())
	}
	assertSpan(t, "port", svc.Port, 17, 21)

	assertSpan(t, "tags", svc.Tags, 28, 38)
	tags := svc.Tags.Value()
	if len(tags) != 2 {
		t.Fatalf("len(tags) = %d, want 2", len(tags))
	}
	if tags[0].Value() != "a" || tags[1].Value() != "b c" {
		t.Errorf("tags = %v", tags)
	}
	assertSpan(t, "tags[0]", tags[0], 29, 30)
	assertSpan(t, "tags[1]", tags[1], 32, 37)

	if want := map[string]string{"key": "value"}; !reflect.DeepEqual(svc.Nested.Value(), want) {
		t.Errorf("nested = %v, want %v", svc.Nested.Value(), want)
	}
	assertSpan(t, "nested", svc.Nested, 49, 59)
}

func TestUnmarshal_SpanSlicesSource(t *testing.T) {
	var svc service
	if err := Unmarshal([]byte(serviceDoc), &svc); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	src := serviceDoc
	tests := []struct {
		name  string
		start spanned.Position
		end   spanned.Position
		want  string
	}{
		{"port", svc.Port.Start(), svc.Port.End(), "8080"},
		{"tags", svc.Tags.Start(), svc.Tags.End(), `[a, "b c"]`},
		{"nested", svc.Nested.Start(), svc.Nested.End(), "key: value"},
	}
	for _, tt := range tests {
		if got := src[tt.start:tt.end]; got != tt.want {
			t.Errorf("%s slices to %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestUnmarshal_BlockScalar(t *testing.T) {
	doc := "text: |\n  hello\n  world\nnext: 1\n"
	var v struct {
		Text spanned.Spanned[string] `span:"text"`
		Next int                     `span:"next"`
	}
	if err := Unmarshal([]byte(doc), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if v.Text.Value() != "hello\nworld\n" {
		t.Errorf("text = %q", v.Text.Value())
	}
	assertSpan(t, "text", v.Text, 6, 23)
	if v.Next != 1 {
		t.Errorf("next = %d, want 1", v.Next)
	}
}

func TestUnmarshal_MultiLinePlainScalar(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		want  string
		start spanned.Position
		end   spanned.Position
	}{
		{"mapping value", "key: hello\n  world\nnext: 1\n", "hello world", 5, 18},
		{"trailing comment", "key: hello\n  big world # note\nnext: 1\n", "hello big world", 5, 22},
		{"commas in block context", "key: a, b\n  c, d\n", "a, b c, d", 5, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Key spanned.Spanned[string] `span:"key"`
			}
			if err := Unmarshal([]byte(tt.doc), &v); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if v.Key.Value() != tt.want {
				t.Errorf("key = %q, want %q", v.Key.Value(), tt.want)
			}
			assertSpan(t, "key", v.Key, tt.start, tt.end)
		})
	}
}

func TestUnmarshal_MultiLineSequenceItem(t *testing.T) {
	var v struct {
		Key []spanned.Spanned[string] `span:"key"`
	}
	if err := Unmarshal([]byte("key:\n  - one\n    two\n  - three\n"), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(v.Key) != 2 {
		t.Fatalf("len(key) = %d, want 2", len(v.Key))
	}
	if v.Key[0].Value() != "one two" {
		t.Errorf("key[0] = %q, want %q", v.Key[0].Value(), "one two")
	}
	assertSpan(t, "key[0]", v.Key[0], 9, 20)
	assertSpan(t, "key[1]", v.Key[1], 25, 30)
}

func TestUnmarshal_FlowPlainScalars(t *testing.T) {
	var v struct {
		List []spanned.Spanned[string] `span:"list"`
	}
	if err := Unmarshal([]byte("list: [ab, cd ]\n"), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(v.List) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(v.List))
	}
	assertSpan(t, "list[0]", v.List[0], 7, 9)
	assertSpan(t, "list[1]", v.List[1], 11, 13)
}

func TestUnmarshal_QuotedScalar(t *testing.T) {
	var v struct {
		Q spanned.Spanned[string] `span:"q"`
	}
	if err := Unmarshal([]byte(`q: "a\"b"`), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if v.Q.Value() != `a"b` {
		t.Errorf("q = %q, want %q", v.Q.Value(), `a"b`)
	}
	assertSpan(t, "q", v.Q, 3, 9)
}

func TestUnmarshal_AliasSpansAlias(t *testing.T) {
	var v struct {
		Base int                  `span:"base"`
		Copy spanned.Spanned[int] `span:"copy"`
	}
	if err := Unmarshal([]byte("base: &b 5\ncopy: *b\n"), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if v.Base != 5 || v.Copy.Value() != 5 {
		t.Errorf("base = %d, copy = %d, want 5, 5", v.Base, v.Copy.Value())
	}
	assertSpan(t, "copy", v.Copy, 17, 19)
}

func TestUnmarshal_NestedSpanned(t *testing.T) {
	var v struct {
		N spanned.Spanned[spanned.Spanned[int]] `span:"n"`
	}
	if err := Unmarshal([]byte("n: 12\n"), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if v.N.Value().Value() != 12 {
		t.Errorf("n = %d, want 12", v.N.Value().Value())
	}
	assertSpan(t, "outer", v.N, 3, 5)
	assertSpan(t, "inner", v.N.Value(), 3, 5)
}

func TestUnmarshal_ScalarTags(t *testing.T) {
	var v struct {
		Hex   int     `span:"hex"`
		Float float64 `span:"float"`
		Flag  bool    `span:"flag"`
		Null  *string `span:"null"`
		Str   string  `span:"str"`
	}
	doc := "hex: 0x1F\nfloat: 1.5\nflag: true\nnull: ~\nstr: '12'\n"
	if err := Unmarshal([]byte(doc), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if v.Hex != 31 || v.Float != 1.5 || !v.Flag || v.Null != nil || v.Str != "12" {
		t.Errorf("Unmarshal() = %+v", v)
	}
}

func TestUnmarshal_EmptyDocument(t *testing.T) {
	var v any = "unchanged"
	if err := Unmarshal(nil, &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if v != nil {
		t.Errorf("Unmarshal() = %v, want nil", v)
	}
}

func TestUnmarshal_SyntaxError(t *testing.T) {
	var v any
	err := Unmarshal([]byte("a: [1, 2\n"), &v)
	if !errors.Is(err, spanned.ErrParse) {
		t.Errorf("Unmarshal() error = %v, want ErrParse", err)
	}
	if !errors.Is(err, spanned.ErrSyntax) {
		t.Errorf("Unmarshal() error = %v, want ErrSyntax", err)
	}
}

func TestMarshal_SpannedWritesValueOnly(t *testing.T) {
	var svc service
	if err := Unmarshal([]byte(serviceDoc), &svc); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	data, err := spanned.Marshal(context.Background(), New(), map[string]any{"port": svc.Port})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != "port: 8080\n" {
		t.Errorf("Marshal() = %q, want %q", data, "port: 8080\n")
	}
}
