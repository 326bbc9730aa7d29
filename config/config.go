// Package config provides the key-value configuration model attached to
// documents and trees. A Config is an immutable snapshot: lookups fall back
// through a chain of parent scopes (document -> tree -> root), and every
// scope remembers its Origin for diagnostics. The concrete markup for
// configuration sections (YAML front matter) is decoded in decode.go.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/docweave/vpath"
)

// Scope identifies the tree level a configuration originated from.
type Scope int

const (
	ScopeDocument Scope = iota
	ScopeTree
	ScopeRoot
)

func (s Scope) String() string {
	switch s {
	case ScopeDocument:
		return "document"
	case ScopeTree:
		return "tree"
	default:
		return "root"
	}
}

// Origin records where a configuration was defined.
type Origin struct {
	Scope Scope
	Path  vpath.Path
}

func (o Origin) String() string {
	return fmt.Sprintf("%s scope at %s", o.Scope, o.Path)
}

// Config is an immutable key-value store with fallback chaining. The zero
// value of *Config (nil) behaves as an empty configuration.
type Config struct {
	values   map[string]any
	origin   Origin
	fallback *Config
}

// New returns an empty configuration for the given origin.
func New(origin Origin) *Config {
	return &Config{origin: origin}
}

// Origin returns the scope this configuration was defined in.
func (c *Config) Origin() Origin {
	if c == nil {
		return Origin{Scope: ScopeRoot, Path: vpath.Root}
	}
	return c.origin
}

// Get resolves a dotted key against this configuration, consulting the
// fallback chain when the key is absent locally. A miss is not an error.
func (c *Config) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	if v, ok := navigate(c.values, strings.Split(key, ".")); ok {
		return v, true
	}
	return c.fallback.Get(key)
}

func navigate(v any, segs []string) (any, bool) {
	for _, seg := range segs {
		switch cur := v.(type) {
		case map[string]any:
			next, ok := cur[seg]
			if !ok {
				return nil, false
			}
			v = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(cur) {
				return nil, false
			}
			v = cur[idx]
		default:
			return nil, false
		}
	}
	return v, true
}

// Has reports whether the key resolves anywhere in the chain.
func (c *Config) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// GetString resolves a key to a string. Scalar values are rendered with
// their natural formatting; missing keys and non-scalar values error.
func (c *Config) GetString(key string) (string, error) {
	v, ok := c.Get(key)
	if !ok {
		return "", c.missing(key)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case bool:
		return strconv.FormatBool(s), nil
	case int:
		return strconv.Itoa(s), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	default:
		return "", c.wrongType(key, "string", v)
	}
}

// GetInt resolves a key to an int.
func (c *Config) GetInt(key string) (int, error) {
	v, ok := c.Get(key)
	if !ok {
		return 0, c.missing(key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, c.wrongType(key, "int", v)
		}
		return i, nil
	default:
		return 0, c.wrongType(key, "int", v)
	}
}

// GetBool resolves a key to a bool.
func (c *Config) GetBool(key string) (bool, error) {
	v, ok := c.Get(key)
	if !ok {
		return false, c.missing(key)
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		p, err := strconv.ParseBool(b)
		if err != nil {
			return false, c.wrongType(key, "bool", v)
		}
		return p, nil
	default:
		return false, c.wrongType(key, "bool", v)
	}
}

// GetStringList resolves a key to a list of strings. A single string value
// is returned as a one-element list.
func (c *Config) GetStringList(key string) ([]string, error) {
	v, ok := c.Get(key)
	if !ok {
		return nil, c.missing(key)
	}
	switch l := v.(type) {
	case string:
		return []string{l}, nil
	case []string:
		return l, nil
	case []any:
		out := make([]string, 0, len(l))
		for _, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, c.wrongType(key, "string list", v)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, c.wrongType(key, "string list", v)
	}
}

// StringOr resolves a key to a string, substituting a default on any miss
// or type mismatch.
func (c *Config) StringOr(key, fallback string) string {
	if s, err := c.GetString(key); err == nil {
		return s
	}
	return fallback
}

// IntOr resolves a key to an int with a default.
func (c *Config) IntOr(key string, fallback int) int {
	if n, err := c.GetInt(key); err == nil {
		return n
	}
	return fallback
}

// WithValue returns a copy with the dotted key set. The receiver is not
// modified.
func (c *Config) WithValue(key string, value any) *Config {
	out := &Config{origin: c.Origin(), values: map[string]any{}}
	if c != nil {
		for k, v := range c.values {
			out.values[k] = v
		}
		out.fallback = c.fallback
	}
	segs := strings.Split(key, ".")
	m := out.values
	for _, seg := range segs[:len(segs)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
		} else {
			// Copy the nested level so the original chain stays untouched.
			copied := make(map[string]any, len(next))
			for k, v := range next {
				copied[k] = v
			}
			next = copied
		}
		m[seg] = next
		m = next
	}
	m[segs[len(segs)-1]] = value
	return out
}

// WithFallback returns a copy that consults other for keys missing in c.
// An existing fallback chain is preserved ahead of other.
func (c *Config) WithFallback(other *Config) *Config {
	if other == nil {
		return c
	}
	if c == nil {
		return other
	}
	out := &Config{values: c.values, origin: c.origin}
	if c.fallback != nil {
		out.fallback = c.fallback.WithFallback(other)
	} else {
		out.fallback = other
	}
	return out
}

func (c *Config) missing(key string) error {
	return &Error{Key: key, Origin: c.Origin(), Message: "not found"}
}

func (c *Config) wrongType(key, want string, got any) error {
	return &Error{Key: key, Origin: c.Origin(), Message: fmt.Sprintf("expected %s, got %T", want, got)}
}
