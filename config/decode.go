package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Decode parses a YAML configuration section into a Config. Empty input
// yields an empty configuration rather than an error.
func Decode(data []byte, origin Origin) (*Config, error) {
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, &Error{Origin: origin, Message: fmt.Sprintf("invalid configuration: %v", err)}
	}
	if values == nil {
		values = map[string]any{}
	}
	return &Config{values: normalize(values).(map[string]any), origin: origin}, nil
}

// normalize rewrites the decoded value tree so nested maps are uniformly
// map[string]any, which is what dotted-key navigation expects.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprintf("%v", k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	default:
		return v
	}
}
