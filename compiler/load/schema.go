package load

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// PropertyDictPath is where the schema document declares the recognized
// node properties.
var PropertyDictPath = []string{"definitions", "operation_property_dict", "properties"}

// Property value types understood by the generator. An empty type leaves
// the property untyped.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeNumber  = "number"
)

// PropertySchema describes one recognized node property.
type PropertySchema struct {
	Name        string
	Type        string
	Title       string
	Description string
	// Enum holds the legal tags in schema order. Empty for open domains.
	Enum []string
	Line int
}

// IsEnum reports whether the property has an enumerated domain.
func (p *PropertySchema) IsEnum() bool { return len(p.Enum) > 0 }

// HasEnum reports whether v belongs to the enumerated domain.
func (p *PropertySchema) HasEnum(v string) bool {
	for _, e := range p.Enum {
		if e == v {
			return true
		}
	}
	return false
}

// Schema is a compiled catalogue schema.
type Schema struct {
	Path string
	// Properties in schema order.
	Properties []*PropertySchema
	props      map[string]*PropertySchema
	compiled   *jsonschema.Schema
}

// Property returns the schema of the named property.
func (s *Schema) Property(name string) (*PropertySchema, bool) {
	p, ok := s.props[name]
	return p, ok
}

// NewSchema returns a schema holding the given properties and no
// validation rules. It is used to build catalogues in memory.
func NewSchema(props ...*PropertySchema) *Schema {
	s := &Schema{props: make(map[string]*PropertySchema, len(props))}
	for _, p := range props {
		s.Properties = append(s.Properties, p)
		s.props[p.Name] = p
	}
	return s
}

// LoadSchema reads and compiles a schema document.
func LoadSchema(path string) (*Schema, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	return compileSchema(doc)
}

// compileSchema checks the document against the draft-4 meta-schema and
// extracts the ordered property dictionary.
func compileSchema(doc *document) (*Schema, error) {
	buf, err := doc.jsonBytes()
	if err != nil {
		return nil, &SchemaError{Path: doc.path, Message: "cannot encode schema", Cause: err}
	}
	url := "mem:///" + filepath.ToSlash(filepath.Base(doc.path))
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft4
	if err := c.AddResource(url, bytes.NewReader(buf)); err != nil {
		return nil, &SchemaError{Path: doc.path, Message: "cannot register schema", Cause: err}
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, &SchemaError{Path: doc.path, Message: "schema does not satisfy the draft-4 meta-schema", Cause: err}
	}
	s := &Schema{
		Path:     doc.path,
		props:    make(map[string]*PropertySchema),
		compiled: compiled,
	}
	dict := lookup(doc.root, PropertyDictPath...)
	if dict == nil || dict.Kind != yaml.MappingNode {
		return nil, &SchemaError{Path: doc.path, Message: "missing definitions.operation_property_dict.properties"}
	}
	for i := 0; i+1 < len(dict.Content); i += 2 {
		k, v := dict.Content[i], dict.Content[i+1]
		p, err := decodeProperty(k.Value, v)
		if err != nil {
			return nil, &SchemaError{Path: doc.path, Message: fmt.Sprintf("property %q", k.Value), Cause: err}
		}
		p.Line = k.Line
		s.Properties = append(s.Properties, p)
		s.props[p.Name] = p
	}
	return s, nil
}

type rawProperty struct {
	Type        yaml.Node `yaml:"type"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Enum        []Literal `yaml:"enum"`
}

func decodeProperty(name string, n *yaml.Node) (*PropertySchema, error) {
	var raw rawProperty
	if err := n.Decode(&raw); err != nil {
		return nil, err
	}
	p := &PropertySchema{
		Name:        name,
		Title:       raw.Title,
		Description: raw.Description,
		Type:        schemaType(&raw.Type),
	}
	for _, e := range raw.Enum {
		p.Enum = append(p.Enum, e.Text)
	}
	return p, nil
}

// schemaType resolves "type": "x" and "type": ["x", "null"] to "x".
func schemaType(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value
	case yaml.SequenceNode:
		for _, c := range n.Content {
			if c.Value != "null" {
				return c.Value
			}
		}
	}
	return ""
}

// Validate checks a decoded catalogue value against the schema.
func (s *Schema) Validate(path string, v any) error {
	if s.compiled == nil {
		return nil
	}
	err := s.compiled.Validate(v)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Path: path, Message: err.Error(), Cause: err}
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return &ValidationError{
		Path:     path,
		Location: leaf.InstanceLocation,
		Message:  leaf.Message,
		Cause:    err,
	}
}

// lookup walks mapping keys from n and returns the final value node.
func lookup(n *yaml.Node, keys ...string) *yaml.Node {
	for _, key := range keys {
		if n == nil || n.Kind != yaml.MappingNode {
			return nil
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				next = n.Content[i+1]
				break
			}
		}
		n = next
	}
	return n
}
