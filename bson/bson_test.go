package bson

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/zoobzio/spanned"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNew(t *testing.T) {
	f := New()
	if f == nil {
		t.Fatal("New() returned nil")
	}
	if got := f.ContentType(); got != "application/bson" {
		t.Errorf("ContentType() = %q, want %q", got, "application/bson")
	}
}

type account struct {
	ID      spanned.Spanned[string]    `span:"_id"`
	Balance spanned.Spanned[int64]     `span:"balance"`
	Opened  time.Time                  `span:"opened"`
	Labels  spanned.Spanned[[]string]  `span:"labels"`
	Owner   spanned.Spanned[ownerInfo] `span:"owner"`
}

type ownerInfo struct {
	Name string `span:"name"`
}

func TestUnmarshal_SpansAreUnknown(t *testing.T) {
	id := primitive.NewObjectID()
	opened := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	data, err := bson.Marshal(bson.D{
		{Key: "_id", Value: id},
		{Key: "balance", Value: int64(250)},
		{Key: "opened", Value: primitive.NewDateTimeFromTime(opened)},
		{Key: "labels", Value: bson.A{"gold", "early"}},
		{Key: "owner", Value: bson.D{{Key: "name", Value: "ada"}}},
	})
	if err != nil {
		t.Fatalf("bson.Marshal() error: %v", err)
	}

	var a account
	if err := Unmarshal(data, &a); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if a.ID.Value() != id.Hex() {
		t.Errorf("_id = %q, want %q", a.ID.Value(), id.Hex())
	}
	if a.Balance.Value() != 250 {
		t.Errorf("balance = %d, want 250", a.Balance.Value())
	}
	if !opened.Equal(a.Opened) {
		t.Errorf("opened = %v, want %v", a.Opened, opened)
	}
	if want := []string{"gold", "early"}; !reflect.DeepEqual(a.Labels.Value(), want) {
		t.Errorf("labels = %v, want %v", a.Labels.Value(), want)
	}
	if a.Owner.Value().Name != "ada" {
		t.Errorf("owner.name = %q, want %q", a.Owner.Value().Name, "ada")
	}

	if a.ID.Known() || a.Balance.Known() || a.Labels.Known() || a.Owner.Known() {
		t.Error("Known() = true for a BSON value, want false")
	}
	if a.Owner.Start() != spanned.Unknown {
		t.Errorf("owner start = %d, want Unknown", a.Owner.Start())
	}
}

func TestUnmarshal_Null(t *testing.T) {
	data, err := bson.Marshal(bson.D{{Key: "p", Value: nil}})
	if err != nil {
		t.Fatalf("bson.Marshal() error: %v", err)
	}

	var v struct {
		P spanned.Spanned[*int] `span:"p"`
	}
	if err := Unmarshal(data, &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if v.P.Value() != nil {
		t.Errorf("p = %v, want nil", *v.P.Value())
	}
	if v.P.Known() {
		t.Error("Known() = true, want false")
	}
}

func TestMarshal_SpannedWritesValueOnly(t *testing.T) {
	in := struct {
		N spanned.Spanned[int32] `bson:"n"`
	}{N: spanned.New(int32(9), 3, 4)}

	data, err := spanned.Marshal(context.Background(), New(), in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var out bson.M
	if err := bson.Unmarshal(data, &out); err != nil {
		t.Fatalf("bson.Unmarshal() error: %v", err)
	}
	if out["n"] != int32(9) {
		t.Errorf("n = %#v, want int32(9)", out["n"])
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	var v any
	err := Unmarshal([]byte("invalid bson"), &v)
	if !errors.Is(err, spanned.ErrParse) {
		t.Errorf("Unmarshal() error = %v, want ErrParse", err)
	}
}
