// testgen is a simple test program to demonstrate the Jennifer-based code generator.
// Run: go run ./compiler/gen/cmd/testgen
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/syssam/vertexgen/compiler"
	"github.com/syssam/vertexgen/compiler/gen"
)

const catalog = `[
  {"name": "op_err"},
  {"name": "meta_op_base"},
  {
    "name": "op_binary_op",
    "base_name": "meta_op_base",
    "props": {"rl": "rl_op", "fixed_arity": 2},
    "sons": {"lhs": 0, "rhs": 1}
  },
  {
    "name": "op_add",
    "base_name": "op_binary_op",
    "props": {"str": "+"},
    "safe_props": {"pure": false}
  },
  {
    "name": "op_call",
    "base_name": "meta_op_base",
    "extras": ["function"],
    "sons": {"callee": 0, "args": {"id": -1, "optional": true}},
    "ranges": {"params": [1, 0]}
  }
]`

const schema = `{
  "$schema": "http://json-schema.org/draft-04/schema#",
  "type": "array",
  "definitions": {
    "operation_property_dict": {
      "type": "object",
      "properties": {
        "rl": {"enum": ["rl_error", "rl_common", "rl_op"]},
        "str": {"type": "string"},
        "fixed_arity": {"type": "integer"},
        "pure": {"type": "boolean"}
      }
    }
  }
}`

func main() {
	// Create a temp directory for input and output
	dir, err := os.MkdirTemp("", "vertexgen-test-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	outDir := filepath.Join(dir, "vertex")
	fmt.Printf("Output directory: %s\n", outDir)

	path := filepath.Join(dir, "vertex-desc.json")
	if err := os.WriteFile(path, []byte(catalog), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write catalogue: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(filepath.Join(dir, "vertex-desc.config.json"), []byte(schema), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}

	// Create config with functional options
	config, err := gen.NewConfig(
		gen.WithTarget(outDir),
		gen.WithSource("vertex-desc.json"),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Generating code with Jennifer...")
	if err := compiler.Generate(context.Background(), path, config); err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	// List generated files
	fmt.Println("\nGenerated files:")
	entries, err := os.ReadDir(outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list files: %v\n", err)
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		fmt.Printf("  %s (%d bytes)\n", e.Name(), info.Size())
	}

	// Show sample output
	fmt.Println("\n--- Sample: op_call_vertex.go ---")
	content, err := os.ReadFile(filepath.Join(outDir, "op_call_vertex.go"))
	if err == nil {
		os.Stdout.Write(content)
	}

	fmt.Printf("\nTo inspect generated code: ls -la %s\n", outDir)
	fmt.Println("Done!")
}
