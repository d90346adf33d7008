package gen

import (
	"github.com/dave/jennifer/jen"
)

// genAll generates the aggregate artifact (vertex_all.go) referencing
// every kind in catalogue order.
func genAll(h *JenniferGenerator) *jen.File {
	g := h.graph
	f := h.newFile()

	f.Comment("All lists every node kind in catalogue order.")
	f.Var().Id("All").Op("=").Index(jen.Id("OperationSize")).Id("Operation").ValuesFunc(func(group *jen.Group) {
		for _, k := range g.Kinds {
			group.Line().Id(k.Const())
		}
		if len(g.Kinds) > 0 {
			group.Line()
		}
	})

	if !g.HasFeature(FeatureDispatch.Name) {
		return f
	}

	f.Comment("New creates a vertex of the given kind with the factory arguments.")
	f.Comment("It returns nil for kinds that produce no type.")
	f.Func().Id("New").Params(jen.Id("op").Id("Operation"), jen.Id("args").Op("...").Any()).Id("Vertex").Block(
		jen.Switch(jen.Id("op")).BlockFunc(func(group *jen.Group) {
			for _, k := range g.Kinds {
				if k.Generated() {
					group.Case(jen.Id(k.Const())).Block(
						jen.Return(jen.Id(k.Factory()).Call(jen.Id("args").Op("..."))),
					)
				}
			}
		}),
		jen.Return(jen.Nil()),
	)

	f.Comment("PropertyTable returns the property table of every kind. Kinds without")
	f.Comment("props in their base chain keep the zero value.")
	f.Func().Id("PropertyTable").Params(jen.Id("safeIntegerArithmetic").Bool()).Index(jen.Id("OperationSize")).Id("OpProperties").BlockFunc(func(group *jen.Group) {
		group.Var().Id("t").Index(jen.Id("OperationSize")).Id("OpProperties")
		for _, k := range g.Kinds {
			if !k.Generated() {
				continue
			}
			if init := k.Initializer(); init != nil {
				group.Id(init.InitFunc()).Call(jen.Op("&").Id("t").Index(jen.Id(k.Const())), jen.Id("safeIntegerArithmetic"))
			}
		}
		group.Return(jen.Id("t"))
	})
	return f
}

// genForEach generates the for-each listing (foreach_op.go): one call per
// kind in catalogue order, skipping the error kind.
func genForEach(h *JenniferGenerator) *jen.File {
	g := h.graph
	f := h.newFile()
	if g.ErrorKind != "" {
		f.Commentf("ForEachOp calls fn with every node kind except %s, in catalogue order.", g.ErrorKind)
	} else {
		f.Comment("ForEachOp calls fn with every node kind, in catalogue order.")
	}
	f.Func().Id("ForEachOp").Params(jen.Id("fn").Func().Params(jen.Id("Operation"))).BlockFunc(func(group *jen.Group) {
		for _, k := range g.ForEach() {
			group.Id("fn").Call(jen.Id(k.Const()))
		}
	})
	return f
}
