package util

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestTableError_Format(t *testing.T) {
	err := NewError("Cannot read records").
		WithMessage("bad header").
		WithCauses("file is empty").
		WithSuggestions("erptable view other.csv")

	out := err.Format()
	for _, want := range []string{"Error: Cannot read records", "bad header", "• file is empty", "$ erptable view other.csv"} {
		if !strings.Contains(out, want) {
			t.Fatalf("formatted error missing %q:\n%s", want, out)
		}
	}
}

func TestTableError_Unwrap(t *testing.T) {
	err := ViewNotFoundError("ghost", []string{"approvals"})
	if !errors.Is(err, ErrViewNotFound) {
		t.Fatal("expected errors.Is to find ErrViewNotFound")
	}
	if !strings.Contains(err.Format(), "approvals") {
		t.Fatal("known views missing from message")
	}
}

func TestRedactURL(t *testing.T) {
	cases := map[string]string{
		"postgres://erp:s3cret@db:5432/rm":  "postgres://erp:****@db:5432/rm",
		"postgres://erp@db/rm":              "postgres://erp@db/rm",
		"postgres://db/rm":                  "postgres://db/rm",
		"host=db user=erp password=x":       "host=db user=erp password=x",
	}
	for in, want := range cases {
		if got := RedactURL(in); got != want {
			t.Errorf("RedactURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToValidUTF8_Windows1252(t *testing.T) {
	// "Requisição" encoded as Windows-1252
	raw := string([]byte{'R', 'e', 'q', 'u', 'i', 's', 'i', 0xE7, 0xE3, 'o'})
	if got := ToValidUTF8(raw); got != "Requisição" {
		t.Fatalf("got %q", got)
	}
	if got := ToValidUTF8("já válido"); got != "já válido" {
		t.Fatalf("valid input changed: %q", got)
	}
}

func TestCleanCell(t *testing.T) {
	if got := CleanCell("\ufeff  CODCOLIGADA "); got != "CODCOLIGADA" {
		t.Fatalf("got %q", got)
	}
}

func TestIDSource_Deterministic(t *testing.T) {
	at := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	a := NewIDSource(rand.New(rand.NewSource(42))).At(at)
	b := NewIDSource(rand.New(rand.NewSource(42))).At(at)
	if a != b {
		t.Fatalf("same seed produced %s and %s", a, b)
	}

	ts, err := ParseULID(a)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !ts.Equal(at) {
		t.Fatalf("timestamp = %v, want %v", ts, at)
	}
	if got := ShortID(a); len(got) != 7 || got != strings.ToLower(a[len(a)-7:]) {
		t.Fatalf("ShortID = %q", got)
	}
}
