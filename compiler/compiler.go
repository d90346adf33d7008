// Package compiler provides the entry points of vertexgen: loading a
// catalogue into a graph, generating the vertex package, checking an
// existing package for drift and regenerating on change.
package compiler

import (
	"context"
	"log/slog"
	"slices"

	"github.com/syssam/vertexgen/compiler/gen"
	"github.com/syssam/vertexgen/compiler/load"
)

type (
	// The Extension type allows extending the code generation with
	// hooks, listings and configuration options.
	//
	//	type Listing struct {
	//		compiler.DefaultExtension
	//	}
	//
	//	func (Listing) Templates() []*gen.Template {
	//		return []*gen.Template{gen.MustParse(gen.NewTemplate("names").Parse(text))}
	//	}
	Extension interface {
		// Hooks holds an optional list of Hooks to apply
		// on the graph before/after the code-generation.
		Hooks() []gen.Hook

		// Templates specifies a list of listings to execute
		// over the graph.
		Templates() []*gen.Template

		// Options specifies a list of gen.Options to evaluate on
		// the gen.Config before executing the code generation.
		Options() []gen.Option
	}

	// DefaultExtension is the default implementation for Extension.
	//
	// Embedding this type allows third-party packages to create extensions
	// without implementing all methods.
	DefaultExtension struct{}

	// Option allows for managing code generation using functional options.
	Option func(*options) error

	options struct {
		schemaPath string
		exts       []Extension
		notify     func(error)
	}
)

// Hooks of the extensions.
func (DefaultExtension) Hooks() []gen.Hook { return nil }

// Templates of the extensions.
func (DefaultExtension) Templates() []*gen.Template { return nil }

// Options of the extensions.
func (DefaultExtension) Options() []gen.Option { return nil }

var _ Extension = (*DefaultExtension)(nil)

// SchemaPath sets the schema document. By default the schema is paired
// with the catalogue by name, see load.SchemaPath.
func SchemaPath(path string) Option {
	return func(o *options) error {
		o.schemaPath = path
		return nil
	}
}

// Extensions extends the code generation with the given extensions.
func Extensions(extensions ...Extension) Option {
	return func(o *options) error {
		o.exts = append(o.exts, extensions...)
		return nil
	}
}

// Notify registers a function called with the result of every run
// started by Watch.
func Notify(fn func(error)) Option {
	return func(o *options) error {
		o.notify = fn
		return nil
	}
}

func newOptions(opts ...Option) (*options, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// LoadGraph loads the catalogue at the given path, validates it and
// returns its resolved graph. The given config is not modified; every
// call works on its own copy with the extensions applied.
func LoadGraph(catalogPath string, cfg *gen.Config, opts ...Option) (*gen.Graph, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return loadGraph(catalogPath, cfg, o)
}

func loadGraph(catalogPath string, cfg *gen.Config, o *options) (*gen.Graph, error) {
	c, err := configure(cfg, o)
	if err != nil {
		return nil, err
	}
	cat, err := load.Load(catalogPath, o.schemaPath)
	if err != nil {
		return nil, err
	}
	if c.Source == "" {
		c.Source = catalogPath
	}
	return gen.NewGraph(c, cat)
}

// configure copies cfg and applies the extensions to the copy.
func configure(cfg *gen.Config, o *options) (*gen.Config, error) {
	if cfg == nil {
		cfg = gen.DefaultConfig()
	}
	c := *cfg
	c.Features = slices.Clone(cfg.Features)
	c.Hooks = slices.Clone(cfg.Hooks)
	c.Templates = slices.Clone(cfg.Templates)
	for _, ex := range o.exts {
		c.Hooks = append(c.Hooks, ex.Hooks()...)
		c.Templates = append(c.Templates, ex.Templates()...)
		if err := c.Apply(ex.Options()...); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// Generate runs the code generation for the catalogue at the given path.
// Nothing is written unless the catalogue, its schema and every
// descriptor are valid and every artifact rendered.
//
//	cfg, err := gen.NewConfig(gen.WithTarget("./auto/vertex"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = compiler.Generate(ctx, "./vertex-desc.json", cfg)
func Generate(ctx context.Context, catalogPath string, cfg *gen.Config, opts ...Option) error {
	g, err := LoadGraph(catalogPath, cfg, opts...)
	if err != nil {
		return err
	}
	return g.Gen(ctx)
}

func logger(cfg *gen.Config) *slog.Logger {
	if cfg != nil && cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}
