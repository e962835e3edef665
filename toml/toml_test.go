package toml

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/zoobzio/spanned"
)

func TestNew(t *testing.T) {
	f := New()
	if f == nil {
		t.Fatal("New() returned nil")
	}
	if got := f.ContentType(); got != "application/toml" {
		t.Errorf("ContentType() = %q, want %q", got, "application/toml")
	}
}

const serviceDoc = `title = "demo"
port = 8080
ratio = 0.5
enabled = true

[owner]
name = "ada"
tags = ["a", "b"]

[[servers]]
host = "alpha"

[[servers]]
host = "beta"
`

type owner struct {
	Name string   `span:"name"`
	Tags []string `span:"tags"`
}

type server struct {
	Host spanned.Spanned[string] `span:"host"`
}

type service struct {
	Title   spanned.Spanned[string]   `span:"title"`
	Port    spanned.Spanned[int]      `span:"port"`
	Ratio   float64                   `span:"ratio"`
	Enabled bool                      `span:"enabled"`
	Owner   spanned.Spanned[owner]    `span:"owner"`
	Servers []spanned.Spanned[server] `span:"servers"`
}

func TestUnmarshal_SpansAreUnknown(t *testing.T) {
	var svc service
	if err := Unmarshal([]byte(serviceDoc), &svc); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if svc.Title.Value() != "demo" || svc.Port.Value() != 8080 {
		t.Errorf("title/port = %q/%d, want demo/8080", svc.Title.Value(), svc.Port.Value())
	}
	if svc.Ratio != 0.5 || !svc.Enabled {
		t.Errorf("ratio/enabled = %v/%v, want 0.5/true", svc.Ratio, svc.Enabled)
	}
	if want := (owner{Name: "ada", Tags: []string{"a", "b"}}); !reflect.DeepEqual(svc.Owner.Value(), want) {
		t.Errorf("owner = %+v, want %+v", svc.Owner.Value(), want)
	}
	if len(svc.Servers) != 2 {
		t.Fatalf("len(servers) = %d, want 2", len(svc.Servers))
	}
	if svc.Servers[1].Value().Host.Value() != "beta" {
		t.Errorf("servers[1].host = %q, want beta", svc.Servers[1].Value().Host.Value())
	}

	if svc.Title.Known() || svc.Port.Known() || svc.Owner.Known() {
		t.Error("Known() = true for a TOML value, want false")
	}
	for i, s := range svc.Servers {
		if s.Known() || s.Value().Host.Known() {
			t.Errorf("servers[%d]: Known() = true, want false", i)
		}
		if s.Start() != spanned.Unknown || s.End() != spanned.Unknown {
			t.Errorf("servers[%d]: span = %d..%d, want Unknown", i, s.Start(), s.End())
		}
	}
}

func TestUnmarshal_TypeMismatch(t *testing.T) {
	var svc service
	err := Unmarshal([]byte(`port = "eighty"`), &svc)
	if !errors.Is(err, spanned.ErrUnmarshal) {
		t.Errorf("Unmarshal() error = %v, want ErrUnmarshal", err)
	}
	if !errors.Is(err, spanned.ErrInvalidType) {
		t.Errorf("Unmarshal() error = %v, want ErrInvalidType", err)
	}
}

func TestUnmarshal_SyntaxError(t *testing.T) {
	var v any
	err := Unmarshal([]byte("key = 1\nbad line\n"), &v)
	if !errors.Is(err, spanned.ErrParse) {
		t.Errorf("Unmarshal() error = %v, want ErrParse", err)
	}
	var se *spanned.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("Unmarshal() error = %v, want *SyntaxError", err)
	}
	if se.Offset < 8 {
		t.Errorf("Offset = %d, want an offset on line 2", se.Offset)
	}
}

func TestOrdered_FollowsSourceOrder(t *testing.T) {
	src := "zeta = 1\nalpha = 2\n\n[mid]\ny = 3\nx = 4\n"
	var tree map[string]any
	md, err := toml.Decode(src, &tree)
	if err != nil {
		t.Fatalf("toml.Decode() error: %v", err)
	}

	got := ordered(tree, nil, keyOrder(md))
	entries, ok := got.([]spanned.Entry)
	if !ok {
		t.Fatalf("ordered() returned %T, want []spanned.Entry", got)
	}
	var keys []string
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	if want := []string{"zeta", "alpha", "mid"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}

	mid, ok := entries[2].Value.([]spanned.Entry)
	if !ok || len(mid) != 2 || mid[0].Key != "y" || mid[1].Key != "x" {
		t.Errorf("mid = %#v, want y then x", entries[2].Value)
	}
}

func TestMarshal_SpannedWritesValueOnly(t *testing.T) {
	var svc service
	if err := Unmarshal([]byte(serviceDoc), &svc); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	out := struct {
		Title spanned.Spanned[string] `toml:"title"`
		Port  spanned.Spanned[int]    `toml:"port"`
	}{Title: svc.Title, Port: svc.Port}

	data, err := spanned.Marshal(context.Background(), New(), out)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if want := "title = \"demo\"\nport = 8080\n"; string(data) != want {
		t.Errorf("Marshal() = %q, want %q", data, want)
	}
}
