package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/vertexgen/compiler/load"
)

// Kind is a node kind of the catalogue. Every descriptor becomes a Kind;
// only kinds declaring a base produce a type.
type Kind struct {
	// Name is the catalogue name, e.g. "op_add".
	Name string
	// Ordinal is the position of the kind in the catalogue.
	Ordinal int
	// Line of the descriptor in the catalogue document.
	Line int
	// Base is the parent kind. Nil for schema-only kinds and for kinds
	// deriving directly from the root kind.
	Base *Kind
	// BaseName is the declared base_name.
	BaseName string
	// Depth is the length of the base chain down to the root kind.
	Depth int

	Extras    []*Extra
	Fields    []*Field
	Props     []*PropValue
	SafeProps []*PropValue
	Slots     []*Slot
	Aliases   []*Alias
	Ranges    []*Range

	hasProps bool
	desc     *load.Descriptor
}

// Generated reports whether the kind produces a type.
func (k *Kind) Generated() bool { return k.BaseName != "" }

// Const returns the name of the Operation constant, e.g. OpAdd.
func (k *Kind) Const() string { return pascal(k.Name) }

// TypeName returns the name of the generated struct, e.g. VertexOpAdd.
func (k *Kind) TypeName() string { return "Vertex" + pascal(k.Name) }

// Factory returns the name of the generated constructor.
func (k *Kind) Factory() string { return "New" + k.TypeName() }

// FileName returns the name of the artifact holding the kind.
func (k *Kind) FileName() string { return k.Name + "_vertex.go" }

// HasProps reports whether the kind declares props and therefore has its
// own property initializer.
func (k *Kind) HasProps() bool { return k.hasProps }

// InitFunc returns the name of the kind's property initializer.
func (k *Kind) InitFunc() string { return "init" + pascal(k.Name) + "Properties" }

// Initializer returns the nearest kind in the chain, starting with k
// itself, that has its own property initializer.
func (k *Kind) Initializer() *Kind {
	for c := k; c != nil; c = c.Base {
		if c.hasProps {
			return c
		}
	}
	return nil
}

// Ancestors returns the base chain of k, nearest first.
func (k *Kind) Ancestors() []*Kind {
	var chain []*Kind
	for c := k.Base; c != nil; c = c.Base {
		chain = append(chain, c)
	}
	return chain
}

// Extra is a payload extension injected into a kind.
type Extra struct {
	// Name is one of load.ExtraString, load.ExtraFunction or load.ExtraVariable.
	Name string
	// Field is the backing struct field.
	Field string
	// Getter, Setter and Presence are the accessor names.
	Getter, Setter, Presence string
	// Type is the runtime type name of the payload, empty for string.
	Type string
	// Reserved is the extra_fields name the payload occupies.
	Reserved string
}

// extras lists the payload extensions in their emission order.
var extras = []Extra{
	{Name: load.ExtraString, Field: "strVal", Getter: "Str", Setter: "SetStr", Presence: "HasStr", Reserved: "str_val_"},
	{Name: load.ExtraFunction, Field: "funcID", Getter: "FuncID", Setter: "SetFuncID", Presence: "HasFuncID", Type: "FunctionPtr", Reserved: "func_id_"},
	{Name: load.ExtraVariable, Field: "varID", Getter: "VarID", Setter: "SetVarID", Presence: "HasVarID", Type: "VarPtr", Reserved: "var_id_"},
}

// Field is an extra_fields entry.
type Field struct {
	// Name as written in the catalogue.
	Name string
	// Type is the declared Go type.
	Type string
	// Default is the literal applied by the factory. Nil when absent.
	Default *load.Literal
	Line    int
}

// Private reports whether the field is declared with the private marker.
func (f *Field) Private() bool { return load.Private(f.Name) }

// StructField returns the Go struct field name.
func (f *Field) StructField() string {
	if f.Private() {
		return privateField(f.Name)
	}
	return pascal(f.Name)
}

// GoType returns the jennifer code of the declared type. Qualified names
// written as "import/path.Name" are imported. Types NewGraph rejected
// render as written.
func (f *Field) GoType() jen.Code {
	c, err := goType(f.Type)
	if err != nil {
		return jen.Id(f.Type)
	}
	return c
}

// PropValue is a property assignment of a kind's props or safe_props.
type PropValue struct {
	Property *Property
	Value    load.Literal
	Line     int
}

// Code returns the assigned value: a quoted literal for string
// properties, an enum member for enumerated ones and the raw literal
// otherwise.
func (p *PropValue) Code() jen.Code {
	switch {
	case p.Property.Enum != nil:
		return jen.Id(p.Property.Enum.Member(p.Value.Text))
	case p.Property.Type == load.TypeString:
		return jen.Lit(p.Value.Text)
	case p.Value.Kind == load.LiteralNull:
		return jen.Nil()
	default:
		return jen.Id(p.Value.Text)
	}
}

// Property is a field of the generated OpProperties struct.
type Property struct {
	// Name as written in the schema.
	Name string
	// Type is the schema type, empty when untyped.
	Type string
	// Enum is set for enumerated properties.
	Enum *Enum
	// Description from the schema, used as the field comment.
	Description string
	// Schema is the loaded schema entry.
	Schema *load.PropertySchema
}

// StructField returns the OpProperties field name.
func (p *Property) StructField() string { return pascal(p.Name) }

// GoType returns the field type.
func (p *Property) GoType() jen.Code {
	if p.Enum != nil {
		return jen.Id(p.Enum.Name)
	}
	switch p.Type {
	case load.TypeString:
		return jen.String()
	case load.TypeInteger:
		return jen.Int()
	case load.TypeBoolean:
		return jen.Bool()
	case load.TypeNumber:
		return jen.Float64()
	default:
		return jen.Any()
	}
}

// Enum is a tag enumeration synthesized for an enumerated property.
type Enum struct {
	// Name is the schema title, or Opp followed by the property name.
	Name string
	// Property is the property name in the schema.
	Property string
	// Values in schema order.
	Values []string
}

// Member returns the constant name of an enum value.
func (e *Enum) Member(v string) string { return pascal(v) }

// Slot is a child slot accessor family.
type Slot struct {
	// Name as written in the catalogue.
	Name     string
	ID       int
	Optional bool
	Virtual  bool
	Override bool
	Line     int
}

// Accessor returns the read accessor name. Ref and Has variants derive
// from it.
func (s *Slot) Accessor() string { return pascal(s.Name) }

// Polymorphic reports whether the slot accessors are exposed through
// capability interfaces.
func (s *Slot) Polymorphic() bool { return s.Virtual || s.Override }

// IndexExpr returns the resolved child index for the receiver named v.
func (s *Slot) IndexExpr() jen.Code { return IndexExpr("v", s.ID) }

// IndexExpr resolves a slot id against the receiver recv: non-negative
// ids address a fixed position and negative ids count from the end.
func IndexExpr(recv string, id int) jen.Code {
	if id >= 0 {
		return jen.Lit(id)
	}
	return jen.Id(recv).Dot("Size").Call().Op("-").Lit(-id)
}

// Alias forwards a pair of accessors to another slot or alias.
type Alias struct {
	Name   string
	Target string
	Line   int
}

// Accessor returns the alias accessor name.
func (a *Alias) Accessor() string { return pascal(a.Name) }

// TargetAccessor returns the accessor name the alias forwards to.
func (a *Alias) TargetAccessor() string { return pascal(a.Target) }

// Range is a view over a half-open sub-range of the children.
type Range struct {
	Name     string
	From, To int
	Line     int
}

// Accessor returns the range accessor name.
func (r *Range) Accessor() string { return pascal(r.Name) }

// FromExpr returns the start offset for the receiver named v.
func (r *Range) FromExpr() jen.Code { return rangeBound("v", r.From, jen.Lit(0)) }

// ToExpr returns the end offset for the receiver named v.
func (r *Range) ToExpr() jen.Code {
	return rangeBound("v", r.To, jen.Id("v").Dot("Size").Call())
}

// rangeBound converts one range endpoint. Positive values are offsets
// from the start, negative ones from the end and zero is the boundary.
func rangeBound(recv string, n int, zero jen.Code) jen.Code {
	switch {
	case n > 0:
		return jen.Lit(n)
	case n < 0:
		return jen.Id(recv).Dot("Size").Call().Op("-").Lit(-n)
	default:
		return zero
	}
}

// Capability is an interface generated for one accessor family of a
// polymorphic slot.
type Capability struct {
	// Name of the interface, e.g. LhsReader.
	Name string
	// Method of the interface.
	Method string
	// Family is one of "presence", "accessor" or "reader".
	Family string
	// Slot is the catalogue name of the slot.
	Slot string
}

// capabilities returns the interfaces a polymorphic slot implements.
func (s *Slot) capabilities() []Capability {
	acc := s.Accessor()
	var cs []Capability
	if s.Optional {
		cs = append(cs, Capability{Name: acc + "Presence", Method: "Has" + acc, Family: "presence", Slot: s.Name})
	}
	cs = append(cs,
		Capability{Name: acc + "Accessor", Method: acc + "Ref", Family: "accessor", Slot: s.Name},
		Capability{Name: acc + "Reader", Method: acc, Family: "reader", Slot: s.Name},
	)
	return cs
}
