package gen

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"runtime"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
)

// JenniferGenerator renders the artifacts of a graph with jennifer.
// Artifacts are independent and rendered in parallel; the output never
// depends on scheduling since every result lands in its own slot.
type JenniferGenerator struct {
	graph   *Graph
	workers int
	outDir  string
	pkg     string
}

// NewJenniferGenerator creates a new Jennifer-based generator writing to
// outDir.
//
// Example:
//
//	gen := gen.NewJenniferGenerator(graph, "auto/vertex")
//	err := gen.WithWorkers(4).Generate(ctx)
func NewJenniferGenerator(g *Graph, outDir string) *JenniferGenerator {
	pkg := DefaultPackage
	if g.Config != nil && g.Package != "" {
		pkg = g.Package
	}
	return &JenniferGenerator{
		graph:   g,
		workers: runtime.GOMAXPROCS(0),
		outDir:  outDir,
		pkg:     pkg,
	}
}

// WithWorkers sets the number of parallel workers.
func (g *JenniferGenerator) WithWorkers(n int) *JenniferGenerator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithPackage sets the output package name.
func (g *JenniferGenerator) WithPackage(pkg string) *JenniferGenerator {
	if pkg != "" {
		g.pkg = pkg
	}
	return g
}

// Graph returns the graph being rendered.
func (g *JenniferGenerator) Graph() *Graph {
	return g.graph
}

// File is a rendered artifact.
type File struct {
	// Name of the file inside the output directory.
	Name string
	// Content is the formatted Go source.
	Content []byte
}

type renderTask struct {
	phase  string
	name   string
	render func() ([]byte, error)
}

// Render renders every artifact in memory, in a fixed order: the types
// artifact, one file per generated kind in catalogue order, the aggregate
// artifact, the for-each listing and the template listings.
func (g *JenniferGenerator) Render(ctx context.Context) ([]*File, error) {
	tasks := []renderTask{{
		phase:  "types",
		name:   "vertex_types.go",
		render: func() ([]byte, error) { return renderFile(genTypes(g)) },
	}}
	for _, k := range g.graph.Generated() {
		tasks = append(tasks, renderTask{
			phase:  "kind",
			name:   k.FileName(),
			render: func() ([]byte, error) { return renderFile(genKind(g, k)) },
		})
	}
	tasks = append(tasks,
		renderTask{
			phase:  "all",
			name:   "vertex_all.go",
			render: func() ([]byte, error) { return renderFile(genAll(g)) },
		},
		renderTask{
			phase:  "foreach",
			name:   "foreach_op.go",
			render: func() ([]byte, error) { return renderFile(genForEach(g)) },
		},
	)
	for _, t := range g.graph.Templates {
		tasks = append(tasks, renderTask{
			phase:  "template",
			name:   t.FileName(),
			render: func() ([]byte, error) { return t.render(g) },
		})
	}

	files := make([]*File, len(tasks))
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for i, t := range tasks {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := t.render()
			if err != nil {
				return NewGenerationError(t.phase, t.name, "cannot render artifact", err)
			}
			files[i] = &File{Name: t.name, Content: b}
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// Generate renders every artifact and, only when all of them rendered,
// replaces the output directory with them.
func (g *JenniferGenerator) Generate(ctx context.Context) error {
	files, err := g.Render(ctx)
	if err != nil {
		return err
	}
	if err := WriteFiles(g.outDir, files); err != nil {
		return err
	}
	g.graph.logger().Info("generated vertex package", "dir", g.outDir, "files", len(files))
	return nil
}

// generate is the default Generator of Graph.Gen.
func generate(ctx context.Context, g *Graph) error {
	if g.Config == nil || g.Target == "" {
		return NewConfigError("Target", nil, "missing target directory in config")
	}
	return NewJenniferGenerator(g, g.Target).
		WithWorkers(g.Workers).
		WithPackage(g.Package).
		Generate(ctx)
}

// newFile creates a new Jennifer file with the banner.
func (g *JenniferGenerator) newFile() *jen.File {
	f := jen.NewFile(g.pkg)
	f.HeaderComment(g.header())
	if src := g.graph.Source; src != "" {
		f.HeaderComment("Source: " + filepath.ToSlash(src))
	}
	f.ImportName(g.runtimePkg(), path.Base(g.runtimePkg()))
	return f
}

// header returns the banner. jennifer writes comments starting with "//"
// verbatim.
func (g *JenniferGenerator) header() string {
	if g.graph.Header != "" {
		return g.graph.Header
	}
	return defaultHeader
}

// runtimePkg returns the import path of the tree runtime.
func (g *JenniferGenerator) runtimePkg() string {
	if g.graph.RuntimePkg != "" {
		return g.graph.RuntimePkg
	}
	return DefaultRuntimePkg
}

// node returns the tree.Node type.
func (g *JenniferGenerator) node() *jen.Statement {
	return jen.Qual(g.runtimePkg(), "Node")
}

func renderFile(f *jen.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
