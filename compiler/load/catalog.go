package load

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extra payload names accepted in Descriptor.Extras.
const (
	ExtraString   = "string"
	ExtraFunction = "function"
	ExtraVariable = "variable"
)

// Catalog is a loaded and validated catalogue of node kinds.
type Catalog struct {
	// Path of the catalogue document.
	Path string
	// SchemaPath of the schema the catalogue was validated against.
	SchemaPath string
	// Descriptors in catalogue order.
	Descriptors []*Descriptor
	// Schema is the compiled catalogue schema.
	Schema *Schema
}

// Properties returns the recognized node properties in schema order.
func (c *Catalog) Properties() []*PropertySchema {
	return c.Schema.Properties
}

// Descriptor is one node kind entry of the catalogue.
type Descriptor struct {
	Name        string       `yaml:"name"`
	BaseName    string       `yaml:"base_name"`
	Extras      []string     `yaml:"extras"`
	ExtraFields Map[*Field]  `yaml:"extra_fields"`
	Props       Map[Literal] `yaml:"props"`
	SafeProps   Map[Literal] `yaml:"safe_props"`
	Sons        Map[*Slot]   `yaml:"sons"`
	Alias       Map[string]  `yaml:"alias"`
	Ranges      Map[Range]   `yaml:"ranges"`
	Line        int          `yaml:"-"`
}

// Generated reports whether the descriptor produces a type. Entries without
// a base_name only contribute an Operation tag.
func (d *Descriptor) Generated() bool { return d.BaseName != "" }

// HasProps reports whether the descriptor declares a props mapping, even an
// empty one.
func (d *Descriptor) HasProps() bool { return d.Props != nil }

// Field is an extra_fields entry.
type Field struct {
	Type    string   `yaml:"type"`
	Default *Literal `yaml:"default"`
}

// Private reports whether name marks a non-public field.
func Private(name string) bool { return strings.HasSuffix(name, "_") }

// Slot is a child slot descriptor. A bare integer in the document is
// shorthand for a slot holding only an id.
type Slot struct {
	ID       int
	Optional bool
	Virtual  bool
	Override bool
}

// UnmarshalYAML implements yaml.Unmarshaler for Slot.
func (s *Slot) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var id int
		if err := node.Decode(&id); err != nil {
			return fmt.Errorf("line %d: slot id: %w", node.Line, err)
		}
		*s = Slot{ID: id}
		return nil
	case yaml.MappingNode:
		var raw struct {
			ID       *int `yaml:"id"`
			Optional bool `yaml:"optional"`
			Virtual  bool `yaml:"virtual"`
			Override bool `yaml:"override"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.ID == nil {
			return fmt.Errorf("line %d: slot without id", node.Line)
		}
		*s = Slot{ID: *raw.ID, Optional: raw.Optional, Virtual: raw.Virtual, Override: raw.Override}
		return nil
	default:
		return fmt.Errorf("line %d: expected a slot id or object, got %s", node.Line, kindName(node.Kind))
	}
}

// Range is a [from, to] pair of child offsets. Positive values count from
// the first child, negative ones from the end and zero is the boundary on
// its side.
type Range struct {
	From, To int
}

// UnmarshalYAML implements yaml.Unmarshaler for Range.
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	var pair []int
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a [from, to] pair, got %s", node.Line, kindName(node.Kind))
	}
	if err := node.Decode(&pair); err != nil {
		return fmt.Errorf("line %d: range: %w", node.Line, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("line %d: range needs 2 offsets, got %d", node.Line, len(pair))
	}
	r.From, r.To = pair[0], pair[1]
	return nil
}

// SchemaPath returns the schema path conventionally paired with a
// catalogue: vertex-desc.json pairs with vertex-desc.config.json.
func SchemaPath(catalogPath string) string {
	ext := filepath.Ext(catalogPath)
	return strings.TrimSuffix(catalogPath, ext) + ".config" + ext
}

// Load reads the catalogue and its schema, checks the schema against the
// draft-4 meta-schema and validates the catalogue. An empty schemaPath is
// derived with SchemaPath. Nothing is generated when Load fails.
func Load(catalogPath, schemaPath string) (*Catalog, error) {
	if schemaPath == "" {
		schemaPath = SchemaPath(catalogPath)
	}
	doc, err := readDocument(catalogPath)
	if err != nil {
		return nil, err
	}
	schema, err := LoadSchema(schemaPath)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(catalogPath, doc.value); err != nil {
		return nil, err
	}
	descs, err := decodeDescriptors(doc)
	if err != nil {
		return nil, err
	}
	return &Catalog{
		Path:        catalogPath,
		SchemaPath:  schemaPath,
		Descriptors: descs,
		Schema:      schema,
	}, nil
}

func decodeDescriptors(doc *document) ([]*Descriptor, error) {
	if doc.root.Kind != yaml.SequenceNode {
		return nil, &DocumentError{
			Path:    doc.path,
			Line:    doc.root.Line,
			Message: fmt.Sprintf("catalogue must be a list, got %s", kindName(doc.root.Kind)),
		}
	}
	descs := make([]*Descriptor, 0, len(doc.root.Content))
	for _, n := range doc.root.Content {
		d := &Descriptor{}
		if err := n.Decode(d); err != nil {
			return nil, &DocumentError{Path: doc.path, Line: n.Line, Message: "invalid descriptor", Cause: err}
		}
		d.Line = n.Line
		descs = append(descs, d)
	}
	return descs, nil
}
