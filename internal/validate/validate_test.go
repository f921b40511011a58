package validate_test

import (
	"strings"
	"testing"

	"github.com/engYuns/rengintech/internal/validate"
)

func TestEmail(t *testing.T) {
	for _, s := range []string{"a@b.com", "first.last+tag@sub.example.org"} {
		if _, ok := validate.Email(s); !ok {
			t.Fatalf("%q rejected", s)
		}
	}
	for _, s := range []string{"", "a@b", "@b.com", "a b@c.com", strings.Repeat("a", 250) + "@b.com"} {
		if _, ok := validate.Email(s); ok {
			t.Fatalf("%q accepted", s)
		}
	}
}

func TestID(t *testing.T) {
	if _, ok := validate.ID("3f1c2a9e-0d4b-4e0a-9a77-2b1f3c4d5e6f"); !ok {
		t.Fatal("uuid rejected")
	}
	for _, s := range []string{"", "../etc", "a/b", strings.Repeat("x", 65)} {
		if _, ok := validate.ID(s); ok {
			t.Fatalf("%q accepted", s)
		}
	}
}

func TestText(t *testing.T) {
	if s, ok := validate.Text("  hi  ", 10); !ok || s != "hi" {
		t.Fatalf("got %q %v", s, ok)
	}
	if _, ok := validate.Text("   ", 10); ok {
		t.Fatal("blank accepted")
	}
	if _, ok := validate.Text("abcdef", 5); ok {
		t.Fatal("over-long accepted")
	}
}
