package gen

import (
	"errors"
	"go/token"
	"log/slog"
	"slices"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithSource sets the catalogue path reported under the header.
func WithSource(path string) Option {
	return func(c *Config) error {
		c.Source = path
		return nil
	}
}

// WithPackage sets the package name of the generated code.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		if !token.IsIdentifier(pkg) || token.IsKeyword(pkg) {
			return NewConfigError("Package", pkg, "invalid package name")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
// The directory is cleared before generated code is written to it.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithRootKind sets the kind whose definition is the hand-written base.
func WithRootKind(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("RootKind", nil, "root kind cannot be empty")
		}
		c.RootKind = name
		return nil
	}
}

// WithErrorKind sets the kind skipped by the for-each listing.
func WithErrorKind(name string) Option {
	return func(c *Config) error {
		c.ErrorKind = name
		return nil
	}
}

// WithRuntimePkg sets the import path of the package providing tree.Node
// and tree.Base.
func WithRuntimePkg(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("RuntimePkg", nil, "runtime package cannot be empty")
		}
		c.RuntimePkg = path
		return nil
	}
}

// WithFeatures enables specific features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if !c.HasFeature(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithoutFeatures disables features by name.
func WithoutFeatures(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			if _, ok := FeatureByName(name); !ok {
				return NewConfigError("Features", name, "unknown feature name")
			}
		}
		c.Features = slices.DeleteFunc(c.Features, func(f Feature) bool {
			return slices.Contains(names, f.Name)
		})
		return nil
	}
}

// WithHooks adds generation hooks.
// Hooks are called before/after code generation.
func WithHooks(hooks ...Hook) Option {
	return func(c *Config) error {
		c.Hooks = append(c.Hooks, hooks...)
		return nil
	}
}

// WithTemplates adds listings executed once over the graph.
func WithTemplates(templates ...*Template) Option {
	return func(c *Config) error {
		for _, t := range templates {
			if t == nil {
				return NewConfigError("Templates", nil, "template cannot be nil")
			}
		}
		c.Templates = append(c.Templates, templates...)
		return nil
	}
}

// WithWorkers sets the number of artifacts rendered in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger used for progress and warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config from DefaultConfig with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
