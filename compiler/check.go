package compiler

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/syssam/vertexgen/compiler/gen"
)

// Drift describes how the files of an output directory differ from
// what a run would write.
type Drift struct {
	// Missing files would be created.
	Missing []string
	// Extra files would be removed.
	Extra []string
	// Changed files would be rewritten.
	Changed []*FileDiff
}

// FileDiff is the line diff of a changed file.
type FileDiff struct {
	Name string
	// Lines removed and added, prefixed with "-" and "+".
	Lines []string
}

// Empty reports whether the directory is up to date.
func (d *Drift) Empty() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0 && len(d.Changed) == 0
}

// String renders the drift as a report, one section per file.
func (d *Drift) String() string {
	var b strings.Builder
	for _, name := range d.Missing {
		b.WriteString("missing " + name + "\n")
	}
	for _, name := range d.Extra {
		b.WriteString("extra " + name + "\n")
	}
	for _, c := range d.Changed {
		b.WriteString("changed " + c.Name + "\n")
		for _, l := range c.Lines {
			b.WriteString("\t" + l + "\n")
		}
	}
	return b.String()
}

// Check renders the catalogue in memory and compares the result with the
// output directory of cfg without touching it. Hooks are not run.
func Check(ctx context.Context, catalogPath string, cfg *gen.Config, opts ...Option) (*Drift, error) {
	g, err := LoadGraph(catalogPath, cfg, opts...)
	if err != nil {
		return nil, err
	}
	files, err := gen.NewJenniferGenerator(g, g.Target).
		WithWorkers(g.Workers).
		WithPackage(g.Package).
		Render(ctx)
	if err != nil {
		return nil, err
	}
	return diffDir(g.Target, files)
}

// diffDir compares the rendered files with the content of dir.
func diffDir(dir string, files []*gen.File) (*Drift, error) {
	onDisk := make(map[string]bool)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case errors.Is(err, fs.ErrNotExist) && path == dir:
			return fs.SkipAll
		case err != nil:
			return err
		case d.IsDir():
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		onDisk[filepath.ToSlash(rel)] = true
		return nil
	})
	if err != nil {
		return nil, gen.NewGenerationError("check", dir, "cannot read output directory", err)
	}
	drift := &Drift{}
	dmp := diffmatchpatch.New()
	for _, f := range files {
		if !onDisk[f.Name] {
			drift.Missing = append(drift.Missing, f.Name)
			continue
		}
		delete(onDisk, f.Name)
		old, err := os.ReadFile(filepath.Join(dir, f.Name))
		if err != nil {
			return nil, gen.NewGenerationError("check", f.Name, "cannot read artifact", err)
		}
		if string(old) == string(f.Content) {
			continue
		}
		drift.Changed = append(drift.Changed, &FileDiff{
			Name:  f.Name,
			Lines: lineDiff(dmp, string(old), string(f.Content)),
		})
	}
	for name := range onDisk {
		drift.Extra = append(drift.Extra, name)
	}
	slices.Sort(drift.Extra)
	return drift, nil
}

// lineDiff returns the removed and added lines turning old into cur.
func lineDiff(dmp *diffmatchpatch.DiffMatchPatch, old, cur string) []string {
	a, b, lines := dmp.DiffLinesToChars(old, cur)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	var out []string
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, l := range strings.SplitAfter(d.Text, "\n") {
			if l != "" {
				out = append(out, prefix+strings.TrimSuffix(l, "\n"))
			}
		}
	}
	return out
}
