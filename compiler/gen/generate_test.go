package gen

import (
	"context"
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertOrder checks that every snippet appears in src after the previous one.
func assertOrder(t *testing.T, src string, snippets ...string) {
	t.Helper()
	pos := 0
	for _, s := range snippets {
		i := strings.Index(src[pos:], s)
		if !assert.GreaterOrEqual(t, i, 0, "%q not found after offset %d", s, pos) {
			return
		}
		pos += i + len(s)
	}
}

func TestJenniferGenerator(t *testing.T) {
	g := testGraph(t)

	t.Run("defaults from graph", func(t *testing.T) {
		gen := NewJenniferGenerator(g, g.Target)
		assert.Equal(t, g, gen.Graph())
		assert.Equal(t, DefaultPackage, gen.pkg)
		assert.Equal(t, "other", gen.WithPackage("other").pkg)
		assert.Equal(t, 3, gen.WithWorkers(3).workers)
		assert.Equal(t, 3, gen.WithWorkers(0).workers)
	})

	t.Run("artifact order", func(t *testing.T) {
		files, err := NewJenniferGenerator(g, g.Target).Render(context.Background())
		require.NoError(t, err)
		var names []string
		for _, f := range files {
			names = append(names, f.Name)
		}
		assert.Equal(t, []string{
			"vertex_types.go",
			"op_binary_op_vertex.go",
			"op_add_vertex.go",
			"op_sub_vertex.go",
			"op_func_call_vertex.go",
			"op_method_call_vertex.go",
			"vertex_all.go",
			"foreach_op.go",
		}, names)
	})

	t.Run("artifacts parse", func(t *testing.T) {
		for name, src := range render(t, g) {
			_, err := parser.ParseFile(token.NewFileSet(), name, src, parser.AllErrors)
			assert.NoError(t, err, name)
			assert.True(t, strings.HasPrefix(src, "// Code generated by vertexgen. DO NOT EDIT.\n"), name)
		}
	})
}

func TestGenTypes(t *testing.T) {
	g := testGraph(t)
	src := render(t, g)["vertex_types.go"]

	t.Run("operation follows catalogue order", func(t *testing.T) {
		assertOrder(t, src,
			"type Operation int",
			"OpErr Operation = iota",
			"MetaOpBase", "OpBinaryOp", "OpAdd", "OpSub", "OpFuncCall", "OpMethodCall",
			"OperationSize",
		)
	})

	t.Run("sentinel ordinal equals catalogue length", func(t *testing.T) {
		f, err := parser.ParseFile(token.NewFileSet(), "vertex_types.go", src, 0)
		require.NoError(t, err)
		var names []string
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.CONST {
				continue
			}
			first := gd.Specs[0].(*ast.ValueSpec)
			if id, ok := first.Type.(*ast.Ident); !ok || id.Name != "Operation" {
				continue
			}
			for _, spec := range gd.Specs {
				names = append(names, spec.(*ast.ValueSpec).Names[0].Name)
			}
		}
		require.NotEmpty(t, names)
		assert.Equal(t, "OperationSize", names[len(g.Kinds)])
		assert.Len(t, names, len(g.Kinds)+1)
	})

	t.Run("property enums", func(t *testing.T) {
		assertOrder(t, src,
			"type OperationType int",
			"CommonOp OperationType = iota", "BinaryOp", "UnaryOp",
			"type OppRl int",
			"RlError OppRl = iota", "RlSet", "RlCommon", "RlOp",
		)
	})

	t.Run("property table struct", func(t *testing.T) {
		assert.Regexp(t, `Type\s+OperationType`, src)
		assert.Regexp(t, `Rl\s+OppRl`, src)
		assert.Regexp(t, `Str\s+string`, src)
		assert.Regexp(t, `FixedArity\s+int`, src)
		assert.Regexp(t, `Pure\s+bool`, src)
		assert.Regexp(t, `Weight\s+float64`, src)
		assert.Regexp(t, `Hint\s+any`, src)
		assert.Contains(t, src, "// Str is the operator spelling.")
	})

	t.Run("stringer and lookup", func(t *testing.T) {
		assert.Contains(t, src, "func (e Operation) String() string {")
		assert.Contains(t, src, "case OpAdd:\n\t\treturn \"op_add\"")
		assert.Contains(t, src, `return "Operation(" + strconv.Itoa(int(e)) + ")"`)
		assert.Contains(t, src, "func (e OppRl) String() string {")
		assert.Regexp(t, `"op_add":\s+OpAdd,`, src)
		assert.Contains(t, src, "func ParseOperation(name string) (Operation, bool) {")
	})

	t.Run("interfaces", func(t *testing.T) {
		assert.Contains(t, src, "type Vertex interface {\n\ttree.Node\n\tType() Operation\n}")
		assert.Contains(t, src, "type LhsReader interface {\n\tLhs() tree.Node\n}")
		assert.Contains(t, src, "type LhsAccessor interface {\n\tLhsRef() *tree.Node\n}")
		assert.NotContains(t, src, "LhsPresence")
	})

	t.Run("features off", func(t *testing.T) {
		g := testGraph(t, WithoutFeatures(FeatureStringer.Name, FeatureLookup.Name))
		src := render(t, g)["vertex_types.go"]
		assert.NotContains(t, src, "String() string")
		assert.NotContains(t, src, "ParseOperation")
		assert.NotContains(t, src, "strconv")
	})
}

func TestGenKind(t *testing.T) {
	g := testGraph(t)
	files := render(t, g)

	t.Run("op_add", func(t *testing.T) {
		src := files["op_add_vertex.go"]
		assert.Contains(t, src, "type VertexOpAdd struct {\n\tVertexOpBinaryOp\n}")
		assert.Contains(t, src, "func (*VertexOpAdd) Type() Operation {\n\treturn OpAdd\n}")
		assert.Contains(t, src, "func (v *VertexOpAdd) Lhs() tree.Node {\n\treturn v.At(0)\n}")
		assert.Contains(t, src, "func (v *VertexOpAdd) LhsRef() *tree.Node {\n\treturn v.Ith(0)\n}")
		assert.Contains(t, src, "func (v *VertexOpAdd) Rhs() tree.Node {\n\treturn v.At(1)\n}")
		assert.Contains(t, src, "func (v *VertexOpAdd) RhsRef() *tree.Node {\n\treturn v.Ith(1)\n}")
		assert.NotContains(t, src, "HasLhs")
		assert.NotContains(t, src, "HasRhs")
		assert.Contains(t, src, "_ Vertex = (*VertexOpAdd)(nil)")
		assert.NotContains(t, src, "LhsReader")
	})

	t.Run("factory", func(t *testing.T) {
		assertOrder(t, files["op_add_vertex.go"],
			"func NewVertexOpAdd(args ...any) *VertexOpAdd {",
			"v := &VertexOpAdd{}",
			"v.Init(tree.ChildrenSize(args...))",
			"v.SetChildren(0, args...)",
			"return v",
		)
	})

	t.Run("props override inherited ones", func(t *testing.T) {
		assertOrder(t, files["op_add_vertex.go"],
			"func initOpAddProperties(p *OpProperties, safeIntegerArithmetic bool) {",
			"initOpBinaryOpProperties(p, safeIntegerArithmetic)",
			`p.Str = "+"`,
			"p.Pure = true",
			"if safeIntegerArithmetic {",
			"p.Pure = false",
		)
		assertOrder(t, files["op_binary_op_vertex.go"],
			"func initOpBinaryOpProperties(p *OpProperties, safeIntegerArithmetic bool) {",
			"p.Type = BinaryOp",
			"p.Rl = RlOp",
			"p.FixedArity = 2",
		)
		assert.NotContains(t, files["op_binary_op_vertex.go"], "if safeIntegerArithmetic")
	})

	t.Run("no initializer without props", func(t *testing.T) {
		assert.NotContains(t, files["op_sub_vertex.go"], "Properties(")
		assert.NotContains(t, files["op_method_call_vertex.go"], "Properties(")
	})

	t.Run("optional slot from the end", func(t *testing.T) {
		src := files["op_func_call_vertex.go"]
		assert.Contains(t, src, "func (v *VertexOpFuncCall) HasArgs() bool {\n\treturn v.CheckRange(v.Size() - 1)\n}")
		assert.Contains(t, src, "func (v *VertexOpFuncCall) Args() tree.Node {\n\treturn v.At(v.Size() - 1)\n}")
		assert.Contains(t, src, "func (v *VertexOpFuncCall) ArgsRef() *tree.Node {\n\treturn v.Ith(v.Size() - 1)\n}")
	})

	t.Run("payload extras", func(t *testing.T) {
		src := files["op_func_call_vertex.go"]
		assertOrder(t, src, "tree.Base", "strVal string", "funcID tree.FunctionPtr", "reversed int", "AutoInserted", "Pos")
		assert.Contains(t, src, "func (v *VertexOpFuncCall) Str() string {\n\treturn v.strVal\n}")
		assert.Contains(t, src, "func (v *VertexOpFuncCall) SetStr(x string) {\n\tv.strVal = x\n}")
		assert.Contains(t, src, "func (*VertexOpFuncCall) HasStr() bool {\n\treturn true\n}")
		assert.Contains(t, src, "func (v *VertexOpFuncCall) FuncID() tree.FunctionPtr {")
		assert.Contains(t, src, "func (v *VertexOpFuncCall) SetFuncID(x tree.FunctionPtr) {")
		assert.NotContains(t, src, "VarID")
		assert.Contains(t, src, `"go/token"`)
		assert.Regexp(t, `Pos\s+token\.Pos`, src)

		method := files["op_method_call_vertex.go"]
		assert.Contains(t, method, "varID tree.VarPtr")
		assert.Contains(t, method, "func (*VertexOpMethodCall) HasVarID() bool {")
	})

	t.Run("nested qualified field types", func(t *testing.T) {
		g, err := NewGraph(MustNewConfig(WithTarget(t.TempDir())), loadCatalog(t, `[
			{"name": "meta_op_base"},
			{
				"name": "op_block",
				"base_name": "meta_op_base",
				"extra_fields": {
					"labels": {"type": "map[string]go/token.Pos"},
					"visit_": {"type": "func(*go/ast.Ident) bool"},
					"done": {"type": "<-chan struct{}"}
				}
			}
		]`))
		require.NoError(t, err)
		src := render(t, g)["op_block_vertex.go"]
		_, err = parser.ParseFile(token.NewFileSet(), "op_block_vertex.go", src, parser.AllErrors)
		require.NoError(t, err)
		assert.Contains(t, src, `"go/token"`)
		assert.Contains(t, src, `"go/ast"`)
		assert.Regexp(t, `visit\s+func\(\*ast\.Ident\) bool`, src)
		assert.Regexp(t, `Labels\s+map\[string\]token\.Pos`, src)
		assert.Regexp(t, `Done\s+<-chan struct\{\}`, src)
	})

	t.Run("field defaults ancestors first", func(t *testing.T) {
		assertOrder(t, files["op_func_call_vertex.go"],
			"v := &VertexOpFuncCall{}",
			"v.reversed = 3",
			"v.AutoInserted = true",
			"v.Init(",
		)
		assertOrder(t, files["op_method_call_vertex.go"],
			"v := &VertexOpMethodCall{}",
			"v.VertexOpFuncCall.reversed = 3",
			"v.VertexOpFuncCall.AutoInserted = true",
			"v.depth = 1",
			"v.Init(",
		)
	})

	t.Run("aliases", func(t *testing.T) {
		src := files["op_func_call_vertex.go"]
		assert.Contains(t, src, "func (v *VertexOpFuncCall) Last() tree.Node {\n\treturn v.Args()\n}")
		assert.Contains(t, src, "func (v *VertexOpFuncCall) LastRef() *tree.Node {\n\treturn v.ArgsRef()\n}")
		assert.Contains(t, src, "func (v *VertexOpFuncCall) Tail() tree.Node {\n\treturn v.Last()\n}")
	})

	t.Run("ranges", func(t *testing.T) {
		src := files["op_func_call_vertex.go"]
		assert.Contains(t, src, "func (v *VertexOpFuncCall) Params() tree.ConstRange {\n\treturn v.ConstSlice(0, v.Size())\n}")
		assert.Contains(t, src, "func (v *VertexOpFuncCall) ParamsRef() tree.Range {\n\treturn v.Slice(0, v.Size())\n}")
		assert.Contains(t, src, "return v.ConstSlice(1, v.Size()-1)")
		assert.Contains(t, src, "return v.Slice(1, v.Size()-1)")
	})

	t.Run("virtual slot capabilities", func(t *testing.T) {
		src := files["op_sub_vertex.go"]
		assert.Contains(t, src, "func (v *VertexOpSub) Lhs() tree.Node {\n\treturn v.At(0)\n}")
		assert.Regexp(t, `_ LhsAccessor\s+= \(\*VertexOpSub\)\(nil\)`, src)
		assert.Regexp(t, `_ LhsReader\s+= \(\*VertexOpSub\)\(nil\)`, src)
		assert.NotContains(t, src, "Rhs")
	})
}

func TestGenIndex(t *testing.T) {
	g := testGraph(t)
	files := render(t, g)

	t.Run("all", func(t *testing.T) {
		src := files["vertex_all.go"]
		assertOrder(t, src, "var All = [OperationSize]Operation{", "OpErr", "MetaOpBase", "OpBinaryOp", "OpAdd", "OpSub", "OpFuncCall", "OpMethodCall")
		assert.Contains(t, src, "func New(op Operation, args ...any) Vertex {")
		assert.Contains(t, src, "case OpAdd:\n\t\treturn NewVertexOpAdd(args...)")
		assert.NotContains(t, src, "case OpErr:")
		assertOrder(t, src,
			"func PropertyTable(safeIntegerArithmetic bool) [OperationSize]OpProperties {",
			"var t [OperationSize]OpProperties",
			"initOpBinaryOpProperties(&t[OpBinaryOp], safeIntegerArithmetic)",
			"initOpAddProperties(&t[OpAdd], safeIntegerArithmetic)",
			"initOpBinaryOpProperties(&t[OpSub], safeIntegerArithmetic)",
			"initOpFuncCallProperties(&t[OpFuncCall], safeIntegerArithmetic)",
			"initOpFuncCallProperties(&t[OpMethodCall], safeIntegerArithmetic)",
			"return t",
		)
	})

	t.Run("dispatch off", func(t *testing.T) {
		src := render(t, testGraph(t, WithoutFeatures(FeatureDispatch.Name)))["vertex_all.go"]
		assert.Contains(t, src, "var All")
		assert.NotContains(t, src, "func New(")
		assert.NotContains(t, src, "PropertyTable")
	})

	t.Run("for each", func(t *testing.T) {
		src := files["foreach_op.go"]
		assert.Contains(t, src, "func ForEachOp(fn func(Operation)) {")
		assertOrder(t, src, "fn(MetaOpBase)", "fn(OpBinaryOp)", "fn(OpAdd)", "fn(OpSub)", "fn(OpFuncCall)", "fn(OpMethodCall)")
		assert.NotContains(t, src, "fn(OpErr)")
	})

	t.Run("for each with another error kind", func(t *testing.T) {
		src := render(t, testGraph(t, WithErrorKind("op_add")))["foreach_op.go"]
		assert.Contains(t, src, "fn(OpErr)")
		assert.NotContains(t, src, "fn(OpAdd)")
		assert.Contains(t, src, "except op_add")
	})
}

func TestGenSpecExamples(t *testing.T) {
	t.Run("two fixed slots", func(t *testing.T) {
		g, err := NewGraph(&Config{Target: t.TempDir()}, loadCatalog(t, `[
			{"name": "op_binary_op", "base_name": "meta_op_base"},
			{"name": "op_add", "base_name": "op_binary_op", "sons": {"lhs": 0, "rhs": 1}}
		]`))
		require.NoError(t, err)
		src := render(t, g)["op_add_vertex.go"]
		assert.Equal(t, 2, strings.Count(src, ") tree.Node {"))
		assert.Equal(t, 2, strings.Count(src, ") *tree.Node {"))
		assert.NotContains(t, src, "bool {")
		assertOrder(t, src, "v.At(0)", "v.Ith(0)", "v.At(1)", "v.Ith(1)")
	})

	t.Run("optional last slot", func(t *testing.T) {
		g, err := NewGraph(&Config{Target: t.TempDir()}, loadCatalog(t, `[
			{"name": "op_call", "base_name": "meta_op_base", "sons": {"args": {"id": -1, "optional": true}}}
		]`))
		require.NoError(t, err)
		src := render(t, g)["op_call_vertex.go"]
		assert.Contains(t, src, "HasArgs() bool {\n\treturn v.CheckRange(v.Size() - 1)")
		assert.Contains(t, src, "Args() tree.Node {\n\treturn v.At(v.Size() - 1)")
		assert.Contains(t, src, "ArgsRef() *tree.Node {\n\treturn v.Ith(v.Size() - 1)")
	})
}

func TestGraphGen(t *testing.T) {
	t.Run("writes every artifact", func(t *testing.T) {
		g := testGraph(t)
		stale := filepath.Join(g.Target, "stale.go")
		require.NoError(t, os.WriteFile(stale, []byte("package vertex"), 0o644))

		require.NoError(t, g.Gen(context.Background()))
		entries, err := os.ReadDir(g.Target)
		require.NoError(t, err)
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		assert.Equal(t, []string{
			"foreach_op.go",
			"op_add_vertex.go",
			"op_binary_op_vertex.go",
			"op_func_call_vertex.go",
			"op_method_call_vertex.go",
			"op_sub_vertex.go",
			"vertex_all.go",
			"vertex_types.go",
		}, names)
		assert.NoFileExists(t, stale)
	})

	t.Run("idempotent", func(t *testing.T) {
		first := testGraph(t, WithWorkers(1), WithSource("vertex-desc.json"))
		second := testGraph(t, WithWorkers(8), WithSource("vertex-desc.json"))
		require.NoError(t, first.Gen(context.Background()))
		require.NoError(t, second.Gen(context.Background()))
		require.NoError(t, second.Gen(context.Background()))
		entries, err := os.ReadDir(first.Target)
		require.NoError(t, err)
		for _, e := range entries {
			a, err := os.ReadFile(filepath.Join(first.Target, e.Name()))
			require.NoError(t, err)
			b, err := os.ReadFile(filepath.Join(second.Target, e.Name()))
			require.NoError(t, err)
			assert.Equal(t, string(a), string(b), e.Name())
			assert.Contains(t, string(a), "// Source: vertex-desc.json\n")
		}
	})

	t.Run("hooks wrap the generator", func(t *testing.T) {
		var calls []string
		hook := func(name string) Hook {
			return func(next Generator) Generator {
				return GenerateFunc(func(ctx context.Context, g *Graph) error {
					calls = append(calls, name)
					return next.Generate(ctx, g)
				})
			}
		}
		g := testGraph(t, WithHooks(hook("first"), hook("second")))
		require.NoError(t, g.Gen(context.Background()))
		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("failing hook writes nothing", func(t *testing.T) {
		boom := errors.New("boom")
		g := testGraph(t, WithHooks(func(Generator) Generator {
			return GenerateFunc(func(context.Context, *Graph) error { return boom })
		}))
		require.ErrorIs(t, g.Gen(context.Background()), boom)
		entries, err := os.ReadDir(g.Target)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("render failure keeps previous output", func(t *testing.T) {
		g := testGraph(t)
		require.NoError(t, g.Gen(context.Background()))
		before, err := os.ReadDir(g.Target)
		require.NoError(t, err)

		broken := MustParse(NewTemplate("broken").Parse(`package {{ .Package }}
{{ .Missing }}`))
		g.Templates = append(g.Templates, broken)
		err = g.Gen(context.Background())
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))

		after, err := os.ReadDir(g.Target)
		require.NoError(t, err)
		assert.Equal(t, len(before), len(after))
	})

	t.Run("canceled context", func(t *testing.T) {
		g := testGraph(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, g.Gen(ctx), context.Canceled)
	})

	t.Run("missing target", func(t *testing.T) {
		g := testGraph(t)
		g.Target = ""
		err := g.Gen(context.Background())
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}
