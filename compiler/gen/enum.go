package gen

import (
	"github.com/dave/jennifer/jen"
)

// genTypes generates the types artifact (vertex_types.go): the Operation
// enumeration, the property enumerations, OpProperties, the Vertex
// interface and the capability interfaces.
func genTypes(h *JenniferGenerator) *jen.File {
	g := h.graph
	f := h.newFile()

	names := make([]string, len(g.Kinds))
	values := make([]string, len(g.Kinds))
	for i, k := range g.Kinds {
		names[i], values[i] = k.Const(), k.Name
	}
	f.Comment("Operation is the tag of a node kind. Constants follow catalogue order.")
	genEnum(h, f, "Operation", names, values, "OperationSize")

	if g.HasFeature(FeatureLookup.Name) {
		f.Var().Id("operationValues").Op("=").Map(jen.String()).Id("Operation").Values(jen.DictFunc(func(d jen.Dict) {
			for _, k := range g.Kinds {
				d[jen.Lit(k.Name)] = jen.Id(k.Const())
			}
		}))
		f.Comment("ParseOperation returns the kind with the given catalogue name.")
		f.Func().Id("ParseOperation").Params(jen.Id("name").String()).Params(jen.Id("Operation"), jen.Bool()).Block(
			jen.List(jen.Id("op"), jen.Id("ok")).Op(":=").Id("operationValues").Index(jen.Id("name")),
			jen.Return(jen.Id("op"), jen.Id("ok")),
		)
	}

	for _, e := range g.Enums {
		members := make([]string, len(e.Values))
		for i, v := range e.Values {
			members[i] = e.Member(v)
		}
		f.Line()
		f.Commentf("%s enumerates the values of the %s property.", e.Name, e.Property)
		genEnum(h, f, e.Name, members, e.Values, "")
	}

	f.Line()
	f.Comment("OpProperties is the static metadata of a node kind.")
	f.Type().Id("OpProperties").StructFunc(func(group *jen.Group) {
		for _, p := range g.Properties {
			if p.Description != "" {
				group.Comment(p.Description)
			}
			group.Id(p.StructField()).Add(p.GoType())
		}
	})

	f.Comment("Vertex is implemented by every generated node kind.")
	f.Type().Id("Vertex").Interface(
		h.node(),
		jen.Id("Type").Params().Id("Operation"),
	)

	for _, c := range g.Capabilities {
		f.Commentf("%s is implemented by kinds declaring the %s slot as virtual or override.", c.Name, c.Slot)
		f.Type().Id(c.Name).Interface(capabilityMethod(h, c))
	}
	return f
}

// genEnum emits an int based enumeration with iota constants and, with
// the stringer feature, a String method returning the catalogue values.
// A non-empty sentinel is appended after the members.
func genEnum(h *JenniferGenerator, f *jen.File, typ string, names, values []string, sentinel string) {
	f.Type().Id(typ).Int()
	f.Const().DefsFunc(func(group *jen.Group) {
		for i, n := range names {
			if i == 0 {
				group.Id(n).Id(typ).Op("=").Iota()
			} else {
				group.Id(n)
			}
		}
		if sentinel != "" {
			group.Commentf("%s is the number of %s values.", sentinel, typ)
			if len(names) == 0 {
				group.Id(sentinel).Id(typ).Op("=").Iota()
			} else {
				group.Id(sentinel)
			}
		}
	})
	if !h.graph.HasFeature(FeatureStringer.Name) {
		return
	}
	recv := jen.Id("e").Id(typ)
	f.Commentf("String returns the catalogue name of the %s value.", typ)
	f.Func().Params(recv).Id("String").Params().String().Block(
		jen.Switch(jen.Id("e")).BlockFunc(func(group *jen.Group) {
			for i, n := range names {
				group.Case(jen.Id(n)).Block(jen.Return(jen.Lit(values[i])))
			}
		}),
		jen.Return(jen.Lit(typ+"(").Op("+").Qual("strconv", "Itoa").Call(jen.Int().Call(jen.Id("e"))).Op("+").Lit(")")),
	)
}

func capabilityMethod(h *JenniferGenerator, c Capability) jen.Code {
	switch c.Family {
	case "presence":
		return jen.Id(c.Method).Params().Bool()
	case "accessor":
		return jen.Id(c.Method).Params().Op("*").Add(h.node())
	default:
		return jen.Id(c.Method).Params().Add(h.node())
	}
}
