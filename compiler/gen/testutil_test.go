package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/vertexgen/compiler/load"
)

const testSchema = `{
  "$schema": "http://json-schema.org/draft-04/schema#",
  "type": "array",
  "definitions": {
    "operation_property_dict": {
      "type": "object",
      "properties": {
        "type": {"title": "OperationType", "enum": ["common_op", "binary_op", "unary_op"]},
        "rl": {"enum": ["rl_error", "rl_set", "rl_common", "rl_op"]},
        "str": {"type": "string", "description": "Str is the operator spelling."},
        "fixed_arity": {"type": "integer"},
        "pure": {"type": "boolean"},
        "weight": {"type": "number"},
        "hint": {}
      }
    }
  }
}`

const testCatalog = `[
  {"name": "op_err"},
  {"name": "meta_op_base"},
  {
    "name": "op_binary_op",
    "base_name": "meta_op_base",
    "props": {"type": "binary_op", "rl": "rl_op", "fixed_arity": 2},
    "sons": {"lhs": 0, "rhs": 1}
  },
  {
    "name": "op_add",
    "base_name": "op_binary_op",
    "props": {"str": "+", "pure": true},
    "safe_props": {"pure": false},
    "sons": {"lhs": 0, "rhs": 1}
  },
  {
    "name": "op_sub",
    "base_name": "op_binary_op",
    "sons": {"lhs": {"id": 0, "virtual": true}}
  },
  {
    "name": "op_func_call",
    "base_name": "meta_op_base",
    "extras": ["string", "function"],
    "extra_fields": {
      "auto_inserted": {"type": "bool", "default": true},
      "reversed_": {"type": "int", "default": 3},
      "pos": {"type": "go/token.Pos"}
    },
    "props": {"rl": "rl_common", "fixed_arity": -1},
    "sons": {"args": {"id": -1, "optional": true}},
    "alias": {"last": "args", "tail": "last"},
    "ranges": {"params": [0, 0], "middle": [1, -1]}
  },
  {
    "name": "op_method_call",
    "base_name": "op_func_call",
    "extras": ["variable"],
    "extra_fields": {"depth_": {"type": "int", "default": 1}}
  }
]`

// loadCatalog writes a catalogue and its schema to a temporary directory
// and loads them.
func loadCatalog(t testing.TB, catalog string) *load.Catalog {
	t.Helper()
	return loadCatalogSchema(t, catalog, testSchema)
}

func loadCatalogSchema(t testing.TB, catalog, schema string) *load.Catalog {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "vertex-desc.json")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o644))
	require.NoError(t, os.WriteFile(load.SchemaPath(path), []byte(schema), 0o644))
	c, err := load.Load(path, "")
	require.NoError(t, err)
	return c
}

// testGraph builds the graph of testCatalog.
func testGraph(t testing.TB, opts ...Option) *Graph {
	t.Helper()
	g, err := NewGraph(MustNewConfig(append([]Option{WithTarget(t.TempDir())}, opts...)...), loadCatalog(t, testCatalog))
	require.NoError(t, err)
	return g
}

// render renders every artifact of g and indexes them by name.
func render(t testing.TB, g *Graph) map[string]string {
	t.Helper()
	files, err := NewJenniferGenerator(g, g.Target).Render(context.Background())
	require.NoError(t, err)
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f.Name] = string(f.Content)
	}
	return out
}
