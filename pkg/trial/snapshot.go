package trial

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/trialscope/trialscope/pkg/flatten"
)

// Snapshot is one reported metrics row. Keys keep the order they were
// first seen in, and access is presence-checked: callers look a key up
// before trusting it exists. The zero Snapshot is empty and usable.
type Snapshot struct {
	keys []string
	vals map[string]Value
}

// Set stores v under key. A new key appends to the order; an existing key
// keeps its position and takes the new value.
func (s *Snapshot) Set(key string, v Value) {
	if s.vals == nil {
		s.vals = make(map[string]Value)
	}

	_, exists := s.vals[key]
	if !exists {
		s.keys = append(s.keys, key)
	}

	s.vals[key] = v
}

// Lookup returns the value stored under key.
func (s Snapshot) Lookup(key string) (Value, bool) {
	v, ok := s.vals[key]

	return v, ok
}

// Keys returns the snapshot's keys in first-seen order.
func (s Snapshot) Keys() []string {
	return slices.Clone(s.keys)
}

// Len returns the number of keys.
func (s Snapshot) Len() int { return len(s.keys) }

// Equal reports whether both snapshots hold the same keys in the same
// order with equal values.
func (s Snapshot) Equal(o Snapshot) bool {
	if !slices.Equal(s.keys, o.keys) {
		return false
	}

	for k, v := range s.vals {
		if o.vals[k] != v {
			return false
		}
	}

	return true
}

// Sub returns the snapshot of keys nested under prefix, with the prefix
// and separator stripped.
func (s Snapshot) Sub(prefix string) Snapshot {
	var out Snapshot

	p := prefix + flatten.Separator

	for _, k := range s.keys {
		rest, found := strings.CutPrefix(k, p)
		if !found || rest == "" {
			continue
		}

		out.Set(rest, s.vals[k])
	}

	return out
}

// MarshalJSON writes an ordered JSON object.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyText, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %s: %w", k, err)
		}

		buf.Write(keyText)
		buf.WriteByte(':')

		valText, err := json.Marshal(s.vals[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value of %s: %w", k, err)
		}

		buf.Write(valText)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML renders an ordered YAML mapping.
func (s Snapshot) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, k := range s.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: k}

		valNode := &yaml.Node{}

		err := valNode.Encode(s.vals[k].Interface())
		if err != nil {
			return nil, fmt.Errorf("encode value of %s: %w", k, err)
		}

		node.Content = append(node.Content, keyNode, valNode)
	}

	return node, nil
}

// Map returns the snapshot as a plain map, losing key order. Used for
// codecs that define their own canonical ordering.
func (s Snapshot) Map() map[string]any {
	m := make(map[string]any, len(s.keys))

	for k, v := range s.vals {
		m[k] = v.Interface()
	}

	return m
}
