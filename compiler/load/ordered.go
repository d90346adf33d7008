package load

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is one key/value pair of a Map.
type Entry[V any] struct {
	Key   string
	Value V
	Line  int
}

// Map is a mapping decoded with its document order preserved.
// Catalogue semantics depend on key order (child slots, property writes,
// field blocks), so descriptors never use Go maps.
type Map[V any] []Entry[V]

// UnmarshalYAML implements yaml.Unmarshaler for Map.
func (m *Map[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping, got %s", node.Line, kindName(node.Kind))
	}
	out := make(Map[V], 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		var value V
		if err := v.Decode(&value); err != nil {
			return fmt.Errorf("key %q: %w", k.Value, err)
		}
		out = append(out, Entry[V]{Key: k.Value, Value: value, Line: k.Line})
	}
	*m = out
	return nil
}

// Keys returns the keys in document order.
func (m Map[V]) Keys() []string {
	keys := make([]string, len(m))
	for i := range m {
		keys[i] = m[i].Key
	}
	return keys
}

// Get returns the value stored under key.
func (m Map[V]) Get(key string) (V, bool) {
	for i := range m {
		if m[i].Key == key {
			return m[i].Value, true
		}
	}
	var zero V
	return zero, false
}

// LiteralKind classifies a scalar literal.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralBool
	LiteralNull
)

// Literal is a scalar value kept as its source text, so numbers are
// written back exactly as the catalogue spells them.
type Literal struct {
	Text string
	Kind LiteralKind
}

// UnmarshalYAML implements yaml.Unmarshaler for Literal.
func (l *Literal) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar literal, got %s", node.Line, kindName(node.Kind))
	}
	l.Text = node.Value
	switch node.ShortTag() {
	case "!!int":
		l.Kind = LiteralInt
	case "!!float":
		l.Kind = LiteralFloat
	case "!!bool":
		l.Kind = LiteralBool
	case "!!null":
		l.Kind = LiteralNull
	default:
		l.Kind = LiteralString
	}
	return nil
}

// String returns the source text.
func (l Literal) String() string { return l.Text }

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}
