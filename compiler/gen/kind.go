package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/vertexgen/compiler/load"
)

// genKind generates the artifact of one node kind (<name>_vertex.go).
func genKind(h *JenniferGenerator, k *Kind) *jen.File {
	f := h.newFile()
	genKindStruct(h, f, k)
	genExtras(h, f, k)
	genFactory(h, f, k)
	genInitializer(h, f, k)
	genSlots(h, f, k)
	genAliases(h, f, k)
	genRanges(h, f, k)
	genAssertions(h, f, k)
	return f
}

func recv(k *Kind) *jen.Statement {
	return jen.Id("v").Op("*").Id(k.TypeName())
}

// embedded returns the embedded base of k.
func embedded(h *JenniferGenerator, k *Kind) *jen.Statement {
	if k.Base == nil {
		return jen.Qual(h.runtimePkg(), "Base")
	}
	return jen.Id(k.Base.TypeName())
}

// genKindStruct generates the kind struct and its Type method. Private
// fields are declared before public ones.
func genKindStruct(h *JenniferGenerator, f *jen.File, k *Kind) {
	f.Commentf("%s is the %s node kind.", k.TypeName(), k.Name)
	f.Type().Id(k.TypeName()).StructFunc(func(group *jen.Group) {
		group.Add(embedded(h, k))
		if len(k.Extras) > 0 {
			group.Line()
		}
		for _, e := range k.Extras {
			group.Id(e.Field).Add(payloadType(h, e))
		}
		private := true
		for i, fd := range k.Fields {
			if i == 0 || private != fd.Private() {
				group.Line()
				private = fd.Private()
			}
			group.Id(fd.StructField()).Add(fd.GoType())
		}
	})

	f.Commentf("Type returns %s.", k.Const())
	f.Func().Params(jen.Op("*").Id(k.TypeName())).Id("Type").Params().Id("Operation").Block(
		jen.Return(jen.Id(k.Const())),
	)
}

func payloadType(h *JenniferGenerator, e *Extra) jen.Code {
	if e.Type == "" {
		return jen.String()
	}
	return jen.Qual(h.runtimePkg(), e.Type)
}

// genExtras generates the payload accessors overriding the tree.Base
// defaults.
func genExtras(h *JenniferGenerator, f *jen.File, k *Kind) {
	for _, e := range k.Extras {
		f.Commentf("%s returns the %s payload.", e.Getter, e.Name)
		f.Func().Params(recv(k)).Id(e.Getter).Params().Add(payloadType(h, e)).Block(
			jen.Return(jen.Id("v").Dot(e.Field)),
		)
		f.Commentf("%s sets the %s payload.", e.Setter, e.Name)
		f.Func().Params(recv(k)).Id(e.Setter).Params(jen.Id("x").Add(payloadType(h, e))).Block(
			jen.Id("v").Dot(e.Field).Op("=").Id("x"),
		)
		f.Commentf("%s reports true: %s carries a %s payload.", e.Presence, k.Name, e.Name)
		f.Func().Params(jen.Op("*").Id(k.TypeName())).Id(e.Presence).Params().Bool().Block(
			jen.Return(jen.True()),
		)
	}
}

// genFactory generates the variadic constructor. Field defaults are
// applied ancestors first, each through its explicit embedding path.
func genFactory(h *JenniferGenerator, f *jen.File, k *Kind) {
	f.Commentf("%s creates a %s with one child slot per Node argument and", k.Factory(), k.Name)
	f.Comment("one per element of a []Node argument, filled in order.")
	f.Func().Id(k.Factory()).Params(jen.Id("args").Op("...").Any()).Op("*").Id(k.TypeName()).BlockFunc(func(group *jen.Group) {
		group.Id("v").Op(":=").Op("&").Id(k.TypeName()).Values()
		chain := append([]*Kind{k}, k.Ancestors()...)
		for i := len(chain) - 1; i >= 0; i-- {
			owner := chain[i]
			for _, fd := range owner.Fields {
				if fd.Default == nil {
					continue
				}
				path := jen.Id("v")
				for _, c := range chain[1 : i+1] {
					path = path.Dot(c.TypeName())
				}
				group.Add(path.Dot(fd.StructField())).Op("=").Add(literal(*fd.Default))
			}
		}
		group.Id("v").Dot("Init").Call(jen.Qual(h.runtimePkg(), "ChildrenSize").Call(jen.Id("args").Op("...")))
		group.Id("v").Dot("SetChildren").Call(jen.Lit(0), jen.Id("args").Op("..."))
		group.Return(jen.Id("v"))
	})
}

// genInitializer generates the property initializer of a kind declaring
// props. It delegates to the nearest ancestor initializer first, so own
// values override inherited ones.
func genInitializer(_ *JenniferGenerator, f *jen.File, k *Kind) {
	if !k.HasProps() {
		return
	}
	f.Commentf("%s writes the %s property table. safe_props are only", k.InitFunc(), k.Name)
	f.Comment("written under safe integer arithmetic.")
	f.Func().Id(k.InitFunc()).Params(
		jen.Id("p").Op("*").Id("OpProperties"),
		jen.Id("safeIntegerArithmetic").Bool(),
	).BlockFunc(func(group *jen.Group) {
		if k.Base != nil {
			if init := k.Base.Initializer(); init != nil {
				group.Id(init.InitFunc()).Call(jen.Id("p"), jen.Id("safeIntegerArithmetic"))
			}
		}
		for _, p := range k.Props {
			group.Id("p").Dot(p.Property.StructField()).Op("=").Add(p.Code())
		}
		if len(k.SafeProps) > 0 {
			group.If(jen.Id("safeIntegerArithmetic")).BlockFunc(func(group *jen.Group) {
				for _, p := range k.SafeProps {
					group.Id("p").Dot(p.Property.StructField()).Op("=").Add(p.Code())
				}
			})
		}
	})
}

// genSlots generates the child slot accessors.
func genSlots(h *JenniferGenerator, f *jen.File, k *Kind) {
	for _, s := range k.Slots {
		acc := s.Accessor()
		if s.Optional {
			f.Commentf("Has%s reports whether the %s slot exists.", acc, s.Name)
			f.Func().Params(recv(k)).Id("Has" + acc).Params().Bool().Block(
				jen.Return(jen.Id("v").Dot("CheckRange").Call(s.IndexExpr())),
			)
		}
		f.Commentf("%s returns the %s child.", acc, s.Name)
		f.Func().Params(recv(k)).Id(acc).Params().Add(h.node()).Block(
			jen.Return(jen.Id("v").Dot("At").Call(s.IndexExpr())),
		)
		f.Commentf("%sRef returns a mutable reference to the %s child.", acc, s.Name)
		f.Func().Params(recv(k)).Id(acc+"Ref").Params().Op("*").Add(h.node()).Block(
			jen.Return(jen.Id("v").Dot("Ith").Call(s.IndexExpr())),
		)
	}
}

// genAliases generates forwarding accessors. Targets are resolved by
// NewGraph, possibly to an inherited slot or alias.
func genAliases(h *JenniferGenerator, f *jen.File, k *Kind) {
	for _, a := range k.Aliases {
		acc, target := a.Accessor(), a.TargetAccessor()
		f.Commentf("%s is an alias of %s.", acc, target)
		f.Func().Params(recv(k)).Id(acc).Params().Add(h.node()).Block(
			jen.Return(jen.Id("v").Dot(target).Call()),
		)
		f.Commentf("%sRef is an alias of %sRef.", acc, target)
		f.Func().Params(recv(k)).Id(acc+"Ref").Params().Op("*").Add(h.node()).Block(
			jen.Return(jen.Id("v").Dot(target+"Ref").Call()),
		)
	}
}

// genRanges generates the range views. Each endpoint converts on its own:
// positive values are offsets from the first child, negative ones from
// the end and zero is the boundary on its side.
func genRanges(h *JenniferGenerator, f *jen.File, k *Kind) {
	for _, r := range k.Ranges {
		acc := r.Accessor()
		f.Commentf("%s returns a read-only view of the %s children.", acc, r.Name)
		f.Func().Params(recv(k)).Id(acc).Params().Qual(h.runtimePkg(), "ConstRange").Block(
			jen.Return(jen.Id("v").Dot("ConstSlice").Call(r.FromExpr(), r.ToExpr())),
		)
		f.Commentf("%sRef returns a mutable view of the %s children.", acc, r.Name)
		f.Func().Params(recv(k)).Id(acc+"Ref").Params().Qual(h.runtimePkg(), "Range").Block(
			jen.Return(jen.Id("v").Dot("Slice").Call(r.FromExpr(), r.ToExpr())),
		)
	}
}

// genAssertions asserts the Vertex interface and, for virtual and override
// slots, the capability interfaces of every declared accessor family.
func genAssertions(_ *JenniferGenerator, f *jen.File, k *Kind) {
	f.Var().DefsFunc(func(group *jen.Group) {
		group.Id("_").Id("Vertex").Op("=").Parens(jen.Op("*").Id(k.TypeName())).Call(jen.Nil())
		for _, s := range k.Slots {
			if !s.Polymorphic() {
				continue
			}
			for _, c := range s.capabilities() {
				group.Id("_").Id(c.Name).Op("=").Parens(jen.Op("*").Id(k.TypeName())).Call(jen.Nil())
			}
		}
	})
}

// literal renders a field default as written in the catalogue.
func literal(l load.Literal) jen.Code {
	if l.Kind == load.LiteralNull {
		return jen.Nil()
	}
	return jen.Id(l.Text)
}
