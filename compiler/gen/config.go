package gen

import (
	"log/slog"
	"runtime"
)

const (
	// DefaultTarget is the output directory used when none is configured.
	DefaultTarget = "auto/vertex"
	// DefaultPackage is the package name of the generated code.
	DefaultPackage = "vertex"
	// DefaultRootKind is the kind whose definition is the hand-written base.
	DefaultRootKind = "meta_op_base"
	// DefaultErrorKind is the kind skipped by the for-each listing.
	DefaultErrorKind = "op_err"
	// DefaultRuntimePkg is the import path of the hand-written base type.
	DefaultRuntimePkg = "github.com/syssam/vertexgen/tree"

	defaultHeader = "// Code generated by vertexgen. DO NOT EDIT."
)

// Config holds the global codegen configuration shared by all
// generated artifacts.
type Config struct {
	// Target is the output directory. It is owned by the generator: it is
	// cleared and recreated on every run.
	Target string

	// Package is the package name of the generated code.
	Package string

	// Header is the banner written at the top of each generated file.
	Header string

	// Source is the catalogue path reported under the banner.
	Source string

	// RootKind names the kind whose definition is the hand-written base
	// type. Kinds deriving from it embed tree.Base.
	RootKind string

	// ErrorKind names the sentinel kind skipped by ForEachOp.
	ErrorKind string

	// RuntimePkg is the import path of the package providing Node and Base.
	RuntimePkg string

	// Features enabled for this run.
	Features []Feature

	// Templates are extra listings executed once over the graph.
	Templates []*Template

	// Hooks wrap the generator. See Hook.
	Hooks []Hook

	// Workers bounds the number of artifacts rendered in parallel.
	Workers int

	// Logger receives progress and warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with every default applied and the
// default features enabled.
func DefaultConfig() *Config {
	c := &Config{
		Target:     DefaultTarget,
		Package:    DefaultPackage,
		Header:     defaultHeader,
		RootKind:   DefaultRootKind,
		ErrorKind:  DefaultErrorKind,
		RuntimePkg: DefaultRuntimePkg,
		Workers:    runtime.GOMAXPROCS(0),
	}
	for _, f := range AllFeatures {
		if f.Default {
			c.Features = append(c.Features, f)
		}
	}
	return c
}

// defaults fills zero values. Features are left untouched: an empty list
// means every feature is off.
func (c *Config) defaults() {
	if c.Package == "" {
		c.Package = DefaultPackage
	}
	if c.Header == "" {
		c.Header = defaultHeader
	}
	if c.RootKind == "" {
		c.RootKind = DefaultRootKind
	}
	if c.ErrorKind == "" {
		c.ErrorKind = DefaultErrorKind
	}
	if c.RuntimePkg == "" {
		c.RuntimePkg = DefaultRuntimePkg
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

// FeatureEnabled reports if the given feature name is enabled.
// It returns an error for unknown names.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	for _, f := range AllFeatures {
		if name == f.Name {
			return c.HasFeature(name), nil
		}
	}
	return false, NewConfigError("Features", name, "unknown feature name")
}

// HasFeature reports if the given feature is in the enabled list.
func (c *Config) HasFeature(name string) bool {
	for _, f := range c.Features {
		if name == f.Name {
			return true
		}
	}
	return false
}

// logger returns the configured logger or the default one.
func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
