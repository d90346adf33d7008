package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/tools/imports"
)

// Template is a listing executed once over the graph, the counterpart
// of a macro expanded for every kind. Its output is written to
// <Name>.go in the target directory.
type Template struct {
	*template.Template
}

// Funcs are the helpers available to templates.
var Funcs = template.FuncMap{
	"pascal":  pascal,
	"camel":   camel,
	"title":   title,
	"forEach": forEach,
	"join":    strings.Join,
}

// title converts a catalogue name into space separated title case.
//
//	op_func_call => Op Func Call
func title(s string) string {
	// A Caser is stateful, templates render concurrently.
	return cases.Title(language.English).String(strings.Join(strings.FieldsFunc(s, isSeparator), " "))
}

// forEach returns the kinds of the for-each listing.
func forEach(g *Graph) []*Kind {
	return g.ForEach()
}

// NewTemplate creates an empty template with the standard helpers.
func NewTemplate(name string) *Template {
	return &Template{Template: template.New(name).Funcs(Funcs)}
}

// Parse parses text as the body of the template.
func (t *Template) Parse(text string) (*Template, error) {
	if _, err := t.Template.Parse(text); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseTemplateFile reads a template file. The template is named after
// the file without its extension.
func ParseTemplateFile(path string) (*Template, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError("Templates", path, err.Error())
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	t, err := NewTemplate(name).Parse(string(b))
	if err != nil {
		return nil, NewConfigError("Templates", path, err.Error())
	}
	return t, nil
}

// MustParse is a helper that wraps a call to a function returning
// (*Template, error) and panics if the error is non-nil.
func MustParse(t *Template, err error) *Template {
	if err != nil {
		panic(err)
	}
	return t
}

// FileName returns the name of the generated file.
func (t *Template) FileName() string {
	return strings.TrimSuffix(t.Name(), ".go") + ".go"
}

// render executes the template with the graph and formats the result
// with goimports. The banner is prepended to the output.
func (t *Template) render(h *JenniferGenerator) ([]byte, error) {
	var buf bytes.Buffer
	header := h.header()
	if !strings.HasPrefix(header, "//") {
		header = "// " + header
	}
	buf.WriteString(header)
	buf.WriteByte('\n')
	if src := h.graph.Source; src != "" {
		fmt.Fprintf(&buf, "// Source: %s\n", filepath.ToSlash(src))
	}
	buf.WriteByte('\n')
	if err := t.Execute(&buf, h.graph); err != nil {
		return nil, fmt.Errorf("execute template %q: %w", t.Name(), err)
	}
	name := filepath.Join(h.outDir, t.FileName())
	formatted, err := imports.Process(name, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", t.FileName(), err)
	}
	return formatted, nil
}
