package gen

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/syssam/vertexgen/compiler/load"
)

type (
	// Graph holds the resolved node kinds of a catalogue.
	Graph struct {
		*Config
		// Catalog is the loaded catalogue the graph was built from.
		Catalog *load.Catalog
		// Kinds in catalogue order, including schema-only kinds.
		Kinds []*Kind
		// Properties of the OpProperties struct, in schema order.
		Properties []*Property
		// Enums synthesized for enumerated properties, in schema order.
		Enums []*Enum
		// Capabilities are the interfaces of polymorphic slots, in order of
		// first declaration.
		Capabilities []Capability

		ordered []*Kind
		byName  map[string]*Kind
		props   map[string]*Property
	}

	// Generator is the interface that wraps the Generate method.
	Generator interface {
		// Generate generates the artifacts for the given graph.
		Generate(context.Context, *Graph) error
	}

	// The GenerateFunc type is an adapter to allow the use of ordinary
	// function as Generator. If f is a function with the appropriate signature,
	// GenerateFunc(f) is a Generator that calls f.
	GenerateFunc func(context.Context, *Graph) error

	// Hook defines the "generate middleware". A function that gets a Generator
	// and returns a Generator. For example:
	//
	//	hook := func(next gen.Generator) gen.Generator {
	//		return gen.GenerateFunc(func(ctx context.Context, g *gen.Graph) error {
	//			fmt.Println("Graph:", g)
	//			return next.Generate(ctx, g)
	//		})
	//	}
	//
	Hook func(Generator) Generator
)

// Generate calls f(ctx, g).
func (f GenerateFunc) Generate(ctx context.Context, g *Graph) error {
	return f(ctx, g)
}

// runtimeMethods are the tree.Node and tree.Base methods a generated kind
// must not shadow with a slot, alias, range or field.
var runtimeMethods = []string{
	"Init", "Size", "CheckRange", "At", "Ith", "Children", "SetChildren",
	"Slice", "ConstSlice", "Type",
	"Str", "SetStr", "HasStr",
	"FuncID", "SetFuncID", "HasFuncID",
	"VarID", "SetVarID", "HasVarID",
}

// fixedIdents are the package level identifiers every generated package
// declares.
var fixedIdents = []string{
	"Operation", "OperationSize", "OpProperties", "Vertex", "All", "New",
	"PropertyTable", "ForEachOp", "ParseOperation", "operationValues",
}

// NewGraph creates a new Graph for the code generation from the given
// catalogue. All descriptor-semantic checks run here, so a graph that is
// returned can be rendered without further validation errors.
func NewGraph(c *Config, cat *load.Catalog) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "missing config")
	}
	if cat == nil || cat.Schema == nil {
		return nil, NewConfigError("Catalog", nil, "missing catalogue")
	}
	c.defaults()
	if !isIdent(c.Package) {
		return nil, NewConfigError("Package", c.Package, "invalid package name")
	}
	g := &Graph{
		Config:  c,
		Catalog: cat,
		byName:  make(map[string]*Kind, len(cat.Descriptors)),
		props:   make(map[string]*Property, len(cat.Schema.Properties)),
	}
	steps := []func() []error{
		g.addProperties,
		g.addKinds,
		g.resolveBases,
		g.resolveKinds,
		g.checkIdents,
	}
	for _, step := range steps {
		if errs := step(); len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
	}
	g.logger().Debug("graph resolved",
		"kinds", len(g.Kinds),
		"generated", len(g.ordered),
		"enums", len(g.Enums),
		"capabilities", len(g.Capabilities),
	)
	return g, nil
}

// Gen generates the artifacts of the graph, running the configured hooks
// around the default generator.
func (g *Graph) Gen(ctx context.Context) error {
	var gen Generator = GenerateFunc(generate)
	for i := len(g.Hooks) - 1; i >= 0; i-- {
		gen = g.Hooks[i](gen)
	}
	return gen.Generate(ctx, g)
}

// Kind returns the kind with the given catalogue name.
func (g *Graph) Kind(name string) (*Kind, bool) {
	k, ok := g.byName[name]
	return k, ok
}

// Generated returns the kinds producing a type, in catalogue order.
func (g *Graph) Generated() []*Kind {
	var ks []*Kind
	for _, k := range g.Kinds {
		if k.Generated() {
			ks = append(ks, k)
		}
	}
	return ks
}

// Ordered returns the generated kinds with every base before the kinds
// deriving from it. Kinds of equal depth keep catalogue order.
func (g *Graph) Ordered() []*Kind {
	return slices.Clone(g.ordered)
}

// ForEach returns the kinds visited by the for-each listing: every kind
// but the error kind, in catalogue order.
func (g *Graph) ForEach() []*Kind {
	var ks []*Kind
	for _, k := range g.Kinds {
		if k.Name != g.ErrorKind {
			ks = append(ks, k)
		}
	}
	return ks
}

func (g *Graph) addProperties() (errs []error) {
	for _, ps := range g.Catalog.Schema.Properties {
		p := &Property{Name: ps.Name, Type: ps.Type, Description: ps.Description, Schema: ps}
		if !isIdent(p.StructField()) {
			errs = append(errs, NewDescriptorError("", ps.Name, ps.Line, "property name is not a valid identifier"))
			continue
		}
		if ps.IsEnum() {
			e := &Enum{Name: ps.Title, Property: ps.Name, Values: ps.Enum}
			if e.Name == "" {
				e.Name = "Opp" + pascal(ps.Name)
			}
			if !isIdent(e.Name) {
				errs = append(errs, NewDescriptorError("", ps.Name, ps.Line, fmt.Sprintf("enum name %q is not a valid identifier", e.Name)))
				continue
			}
			for _, v := range e.Values {
				if !isIdent(e.Member(v)) {
					errs = append(errs, NewDescriptorError("", ps.Name, ps.Line, fmt.Sprintf("enum value %q is not a valid identifier", v)))
				}
			}
			p.Enum = e
			g.Enums = append(g.Enums, e)
		}
		g.Properties = append(g.Properties, p)
		g.props[p.Name] = p
	}
	return errs
}

func (g *Graph) addKinds() (errs []error) {
	for i, d := range g.Catalog.Descriptors {
		k := &Kind{
			Name:     d.Name,
			Ordinal:  i,
			Line:     d.Line,
			BaseName: d.BaseName,
			desc:     d,
		}
		switch prev, dup := g.byName[d.Name]; {
		case !isIdent(pascal(d.Name)):
			errs = append(errs, NewDescriptorError(d.Name, "", d.Line, "name is not a valid identifier"))
		case dup:
			errs = append(errs, NewDescriptorError(d.Name, "", d.Line, fmt.Sprintf("duplicate kind name (first at line %d)", prev.Line)))
		}
		if d.Name == g.RootKind && d.BaseName != "" {
			errs = append(errs, NewDescriptorError(d.Name, "", d.Line, "the root kind cannot declare base_name"))
		}
		g.Kinds = append(g.Kinds, k)
		if _, dup := g.byName[d.Name]; !dup {
			g.byName[d.Name] = k
		}
	}
	return errs
}

// resolveBases links every generated kind to its base, rejects cycles and
// chains that do not reach the root kind, and orders the generated kinds
// bases first.
func (g *Graph) resolveBases() (errs []error) {
	for _, k := range g.Kinds {
		if !k.Generated() || k.BaseName == g.RootKind {
			continue
		}
		base, ok := g.byName[k.BaseName]
		switch {
		case !ok:
			errs = append(errs, NewDescriptorError(k.Name, k.BaseName, k.Line, "unknown base kind"))
		case !base.Generated():
			errs = append(errs, NewDescriptorError(k.Name, k.BaseName, k.Line, "base kind produces no type and is not the root kind"))
		default:
			k.Base = base
		}
	}
	if len(errs) > 0 {
		return errs
	}
	for _, k := range g.Kinds {
		if !k.Generated() {
			continue
		}
		seen := map[*Kind]bool{k: true}
		depth := 1
		for b := k.Base; b != nil; b = b.Base {
			if seen[b] {
				errs = append(errs, NewDescriptorError(k.Name, k.BaseName, k.Line, "base_name chain is cyclic and never reaches the root kind"))
				break
			}
			seen[b] = true
			depth++
		}
		k.Depth = depth
	}
	if len(errs) > 0 {
		return errs
	}
	g.ordered = g.Generated()
	slices.SortStableFunc(g.ordered, func(a, b *Kind) int { return a.Depth - b.Depth })
	return nil
}

// resolveKinds builds the members of every generated kind, bases first so
// inherited accessors are known when aliases are resolved.
func (g *Graph) resolveKinds() (errs []error) {
	caps := make(map[string]bool)
	for _, k := range g.ordered {
		errs = append(errs, g.resolveKind(k)...)
		for _, s := range k.Slots {
			if !s.Polymorphic() {
				continue
			}
			for _, c := range s.capabilities() {
				if !caps[c.Name] {
					caps[c.Name] = true
					g.Capabilities = append(g.Capabilities, c)
				}
			}
		}
	}
	return errs
}

func (g *Graph) resolveKind(k *Kind) (errs []error) {
	d := k.desc
	fail := func(item string, line int, format string, args ...any) {
		errs = append(errs, NewDescriptorError(k.Name, item, line, fmt.Sprintf(format, args...)))
	}
	members := make(map[string]string)
	claim := func(name, what, item string, line int) {
		if prev, ok := members[name]; ok {
			fail(item, line, "%s %s collides with %s", what, name, prev)
			return
		}
		members[name] = what
	}
	for _, m := range runtimeMethods {
		members[m] = "runtime method"
	}
	if k.Base != nil {
		members[k.Base.TypeName()] = "embedded base"
	} else {
		members["Base"] = "embedded base"
	}

	// Payload extensions, in their fixed order.
	for _, name := range d.Extras {
		if !slices.ContainsFunc(extras, func(e Extra) bool { return e.Name == name }) {
			fail(name, k.Line, "unknown extra; expected one of string, function, variable")
		}
	}
	for _, e := range extras {
		if slices.Contains(d.Extras, e.Name) {
			k.Extras = append(k.Extras, &e)
			claim(e.Field, "payload field", e.Name, k.Line)
		}
	}

	// Fields: private block first, then public, each in mapping order.
	for _, private := range []bool{true, false} {
		for _, ent := range d.ExtraFields {
			if load.Private(ent.Key) != private {
				continue
			}
			f := &Field{Name: ent.Key, Line: ent.Line}
			if ent.Value != nil {
				f.Type, f.Default = ent.Value.Type, ent.Value.Default
			}
			switch {
			case slices.ContainsFunc(extras, func(e Extra) bool { return e.Reserved == f.Name }):
				fail(f.Name, f.Line, "field name is reserved for a payload extension")
				continue
			case f.Type == "":
				fail(f.Name, f.Line, "field has no type")
				continue
			case !isIdent(f.StructField()):
				fail(f.Name, f.Line, "field name is not a valid identifier")
				continue
			}
			if _, err := goType(f.Type); err != nil {
				fail(f.Name, f.Line, "invalid field type: %v", err)
				continue
			}
			claim(f.StructField(), "field", f.Name, f.Line)
			k.Fields = append(k.Fields, f)
		}
	}

	// Properties.
	k.hasProps = d.HasProps()
	k.Props = g.propValues(d.Props, fail)
	k.SafeProps = g.propValues(d.SafeProps, fail)
	if d.SafeProps != nil && !k.hasProps {
		g.logger().Warn("safe_props ignored on a kind without props", "kind", k.Name, "line", k.Line)
	}

	// Child slots.
	slots := make(map[string]bool)
	aliases := make(map[string]string)
	for _, a := range k.Ancestors() {
		for _, s := range a.Slots {
			slots[s.Name] = true
		}
		for _, al := range a.Aliases {
			if _, ok := aliases[al.Name]; !ok {
				aliases[al.Name] = al.Target
			}
		}
	}
	for _, ent := range d.Sons {
		s := &Slot{Name: ent.Key, Line: ent.Line}
		if ent.Value != nil {
			s.ID, s.Optional, s.Virtual, s.Override = ent.Value.ID, ent.Value.Optional, ent.Value.Virtual, ent.Value.Override
		}
		if !isIdent(s.Accessor()) {
			fail(s.Name, s.Line, "slot name is not a valid identifier")
			continue
		}
		if s.Optional {
			claim("Has"+s.Accessor(), "presence accessor", s.Name, s.Line)
		}
		claim(s.Accessor()+"Ref", "slot accessor", s.Name, s.Line)
		claim(s.Accessor(), "slot accessor", s.Name, s.Line)
		slots[s.Name] = true
		delete(aliases, s.Name)
		k.Slots = append(k.Slots, s)
	}

	// Aliases may target slots or aliases of the kind and its ancestors.
	for _, ent := range d.Alias {
		a := &Alias{Name: ent.Key, Target: ent.Value, Line: ent.Line}
		if !isIdent(a.Accessor()) {
			fail(a.Name, a.Line, "alias name is not a valid identifier")
			continue
		}
		claim(a.Accessor()+"Ref", "alias accessor", a.Name, a.Line)
		claim(a.Accessor(), "alias accessor", a.Name, a.Line)
		aliases[a.Name] = a.Target
		k.Aliases = append(k.Aliases, a)
	}
	for _, a := range k.Aliases {
		if err := resolveAlias(a.Name, slots, aliases); err != "" {
			fail(a.Name, a.Line, "%s", err)
		}
	}

	// Ranges.
	for _, ent := range d.Ranges {
		r := &Range{Name: ent.Key, From: ent.Value.From, To: ent.Value.To, Line: ent.Line}
		if !isIdent(r.Accessor()) {
			fail(r.Name, r.Line, "range name is not a valid identifier")
			continue
		}
		claim(r.Accessor()+"Ref", "range accessor", r.Name, r.Line)
		claim(r.Accessor(), "range accessor", r.Name, r.Line)
		k.Ranges = append(k.Ranges, r)
	}
	g.logger().Debug("kind resolved", "kind", k.Name, "base", k.BaseName,
		"slots", len(k.Slots), "fields", len(k.Fields), "props", len(k.Props))
	return errs
}

// resolveAlias follows alias targets until a slot is reached.
func resolveAlias(name string, slots map[string]bool, aliases map[string]string) string {
	seen := map[string]bool{name: true}
	target := aliases[name]
	for {
		if slots[target] {
			return ""
		}
		next, ok := aliases[target]
		if !ok {
			return fmt.Sprintf("alias target %q is not a slot or alias of the kind or its ancestors", target)
		}
		if seen[target] {
			return fmt.Sprintf("alias %q is cyclic", name)
		}
		seen[target] = true
		target = next
	}
}

func (g *Graph) propValues(m load.Map[load.Literal], fail func(string, int, string, ...any)) []*PropValue {
	var vs []*PropValue
	for _, ent := range m {
		p, ok := g.props[ent.Key]
		if !ok {
			fail(ent.Key, ent.Line, "unknown property")
			continue
		}
		if p.Enum != nil && !p.Schema.HasEnum(ent.Value.Text) {
			fail(ent.Key, ent.Line, "value %q is not one of %v", ent.Value.Text, p.Enum.Values)
			continue
		}
		vs = append(vs, &PropValue{Property: p, Value: ent.Value, Line: ent.Line})
	}
	return vs
}

// checkIdents rejects package level identifiers declared twice across the
// generated artifacts.
func (g *Graph) checkIdents() (errs []error) {
	idents := make(map[string]string)
	claim := func(name, owner string, line int) {
		if prev, ok := idents[name]; ok {
			errs = append(errs, NewDescriptorError(owner, name, line, fmt.Sprintf("identifier %s is already declared by %s", name, prev)))
			return
		}
		idents[name] = owner
	}
	for _, id := range fixedIdents {
		idents[id] = "the generated package"
	}
	for _, k := range g.Kinds {
		claim(k.Const(), k.Name, k.Line)
		if !k.Generated() {
			continue
		}
		claim(k.TypeName(), k.Name, k.Line)
		claim(k.Factory(), k.Name, k.Line)
		if k.HasProps() {
			claim(k.InitFunc(), k.Name, k.Line)
		}
	}
	for _, e := range g.Enums {
		claim(e.Name, "property "+e.Property, 0)
		for _, v := range e.Values {
			claim(e.Member(v), "property "+e.Property, 0)
		}
	}
	for _, c := range g.Capabilities {
		claim(c.Name, "capability interfaces", 0)
	}
	return errs
}
