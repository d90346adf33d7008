package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/syssam/vertexgen/compiler"
	"github.com/syssam/vertexgen/compiler/gen"
)

// Config holds the command line flags.
type Config struct {
	Command *cli.Command

	Out      string `cli:"name=o desc='output directory, cleared on every run (default auto/vertex)'"`
	Package  string `cli:"name=pkg desc='package name of the generated code (default vertex)'"`
	Root     string `cli:"name=root desc='kind whose definition is the hand-written base (default meta_op_base)'"`
	ErrKind  string `cli:"name=err desc='kind skipped by ForEachOp (default op_err)'"`
	Runtime  string `cli:"name=runtime desc='import path of the package providing Node and Base'"`
	Template string `cli:"name=template desc='comma separated template files executed once over the catalogue'"`
	Without  string `cli:"name=without desc='comma separated features to disable: stringer, lookup, dispatch'"`
	Check    bool   `cli:"name=check desc='compare the output directory instead of writing it, exit 1 on drift'"`
	Watch    bool   `cli:"name=watch desc='regenerate whenever the catalogue or its schema changes'"`
	Verbose  bool   `cli:"name=v desc='log debug messages'"`
	Workers  int    `cli:"name=workers desc='number of artifacts rendered in parallel (default GOMAXPROCS)'"`

	ctx context.Context
}

// MainCommand returns the vertexgen command.
func MainCommand(ctx context.Context) *cli.Command {
	cfg := &Config{ctx: ctx}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "vertexgen").
		WithSynopsis("vertexgen [opts] <catalogue> [schema]").
		WithDescription("Generate the Go vertex package of a node-kind catalogue.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}

func run(cfg *Config, cc *cli.Context, args []string) error {
	args, err := cfg.Command.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("%w: expected <catalogue> [schema], got %d arguments", cli.ErrUsage, len(args))
	}
	if cfg.Check && cfg.Watch {
		return fmt.Errorf("%w: -check and -watch are exclusive", cli.ErrUsage)
	}
	logger := newLogger(os.Stderr, cfg.Verbose)
	genCfg, err := cfg.genConfig(logger)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	catalog := args[0]
	var opts []compiler.Option
	if len(args) == 2 {
		opts = append(opts, compiler.SchemaPath(args[1]))
	}

	out := newPrinter(cc.Out)
	switch {
	case cfg.Check:
		drift, err := compiler.Check(cfg.ctx, catalog, genCfg, opts...)
		if err != nil {
			out.failure("%s: %v", catalog, err)
			return cli.ExitCodeErr(1)
		}
		if drift.Empty() {
			out.success("%s is up to date", genCfg.Target)
			return nil
		}
		fmt.Fprint(cc.Out, drift)
		out.failure("%s is out of date with %s", genCfg.Target, catalog)
		return cli.ExitCodeErr(1)
	case cfg.Watch:
		out.success("watching %s", catalog)
		return compiler.Watch(cfg.ctx, catalog, genCfg, opts...)
	default:
		if err := compiler.Generate(cfg.ctx, catalog, genCfg, opts...); err != nil {
			out.failure("%s: %v", catalog, err)
			return cli.ExitCodeErr(1)
		}
		out.success("generated %s from %s", genCfg.Target, catalog)
		return nil
	}
}

// genConfig translates the flags into a generator config.
func (cfg *Config) genConfig(logger *slog.Logger) (*gen.Config, error) {
	opts := []gen.Option{gen.WithLogger(logger)}
	if cfg.Out != "" {
		opts = append(opts, gen.WithTarget(cfg.Out))
	}
	if cfg.Package != "" {
		opts = append(opts, gen.WithPackage(cfg.Package))
	}
	if cfg.Root != "" {
		opts = append(opts, gen.WithRootKind(cfg.Root))
	}
	if cfg.ErrKind != "" {
		opts = append(opts, gen.WithErrorKind(cfg.ErrKind))
	}
	if cfg.Runtime != "" {
		opts = append(opts, gen.WithRuntimePkg(cfg.Runtime))
	}
	if cfg.Workers != 0 {
		opts = append(opts, gen.WithWorkers(cfg.Workers))
	}
	if names := splitList(cfg.Without); len(names) > 0 {
		opts = append(opts, gen.WithoutFeatures(names...))
	}
	for _, path := range splitList(cfg.Template) {
		t, err := gen.ParseTemplateFile(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gen.WithTemplates(t))
	}
	return gen.NewConfig(opts...)
}

// splitList splits a comma separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
