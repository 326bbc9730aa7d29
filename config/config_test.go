package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/docweave/vpath"
)

func docOrigin(p string) Origin {
	return Origin{Scope: ScopeDocument, Path: vpath.MustParse(p)}
}

func TestDecodeAndGet(t *testing.T) {
	cfg, err := Decode([]byte("title: Intro\nperson:\n  name: Mary\n  age: 35\n"), docOrigin("/doc.md"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s, err := cfg.GetString("title"); err != nil || s != "Intro" {
		t.Errorf("title = %q (%v), want Intro", s, err)
	}
	if s, err := cfg.GetString("person.name"); err != nil || s != "Mary" {
		t.Errorf("person.name = %q (%v), want Mary", s, err)
	}
	if n, err := cfg.GetInt("person.age"); err != nil || n != 35 {
		t.Errorf("person.age = %d (%v), want 35", n, err)
	}
	if _, ok := cfg.Get("person.email"); ok {
		t.Error("expected miss for person.email")
	}
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte(":\n  - ["), docOrigin("/broken.md"))
	if err == nil {
		t.Fatal("expected decode error")
	}
	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected *Error, got %T", err)
	}
}

func TestFallbackChain(t *testing.T) {
	root, _ := Decode([]byte("a: root\nb: root\nc: root\n"), Origin{Scope: ScopeRoot})
	tree, _ := Decode([]byte("b: tree\nc: tree\n"), Origin{Scope: ScopeTree, Path: vpath.MustParse("/docs")})
	doc, _ := Decode([]byte("c: doc\n"), docOrigin("/docs/intro.md"))

	cfg := doc.WithFallback(tree.WithFallback(root))

	tests := []struct{ key, want string }{
		{"a", "root"},
		{"b", "tree"},
		{"c", "doc"},
	}
	for _, tt := range tests {
		if got := cfg.StringOr(tt.key, ""); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestWithValue_DoesNotMutate(t *testing.T) {
	base, _ := Decode([]byte("nested:\n  a: 1\n"), docOrigin("/d.md"))
	derived := base.WithValue("nested.b", 2)

	if _, ok := base.Get("nested.b"); ok {
		t.Error("WithValue mutated the original config")
	}
	if n, err := derived.GetInt("nested.b"); err != nil || n != 2 {
		t.Errorf("nested.b = %d (%v), want 2", n, err)
	}
	if n, err := derived.GetInt("nested.a"); err != nil || n != 1 {
		t.Errorf("nested.a = %d (%v), want 1", n, err)
	}
}

func TestTypedGetters(t *testing.T) {
	cfg, _ := Decode([]byte("flag: true\nnum: 7\nlist: [a, b]\nsingle: x\n"), docOrigin("/d.md"))

	if b, err := cfg.GetBool("flag"); err != nil || !b {
		t.Errorf("flag = %v (%v), want true", b, err)
	}
	if _, err := cfg.GetBool("num"); err == nil {
		t.Error("expected type error for bool(num)")
	}
	if l, err := cfg.GetStringList("list"); err != nil || len(l) != 2 || l[0] != "a" {
		t.Errorf("list = %v (%v)", l, err)
	}
	if l, err := cfg.GetStringList("single"); err != nil || len(l) != 1 || l[0] != "x" {
		t.Errorf("single = %v (%v), want one-element list", l, err)
	}
}

func TestAggregate(t *testing.T) {
	cfg := New(docOrigin("/d.md"))
	_, err1 := cfg.GetString("missing.one")
	_, err2 := cfg.GetString("missing.two")

	err := Aggregate([]error{err1, nil, err2})
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "missing.one") || !strings.Contains(msg, "missing.two") {
		t.Errorf("aggregated message should name all keys: %s", msg)
	}

	if Aggregate(nil) != nil {
		t.Error("empty aggregate must be nil")
	}
	if got := Aggregate([]error{err1}); got != err1 {
		t.Error("single-error aggregate must return the error unchanged")
	}
}

func TestNilConfig(t *testing.T) {
	var cfg *Config
	if _, ok := cfg.Get("anything"); ok {
		t.Error("nil config must miss")
	}
	if cfg.StringOr("k", "d") != "d" {
		t.Error("nil config must fall back to default")
	}
}
