// Package gen generates Go node kind definitions from a vertex catalogue.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	vertex-desc.json + vertex-desc.config.json
//	        ↓
//	   load.Catalog (validated against the draft-4 schema)
//	        ↓
//	   Graph (resolved kinds, descriptor checks)
//	        ↓
//	   JenniferGenerator (artifacts rendered in memory)
//	        ↓
//	   Generated code (auto/vertex/)
//
// # Key Types
//
//   - Graph: the resolved catalogue. NewGraph runs every descriptor check,
//     so nothing is written for a catalogue that cannot be generated.
//   - Kind: a node kind with its payload extras, fields, property values,
//     child slots, aliases and ranges.
//   - Property and Enum: the OpProperties fields and the tag enumerations
//     synthesized from the schema property dictionary.
//   - Config: global configuration for code generation.
//
// # Error Handling
//
//   - DescriptorError: a catalogue entry that cannot become a node kind
//   - ConfigError: configuration errors
//   - GenerationError: rendering or writing failures
//
// Example error handling:
//
//	graph, err := gen.NewGraph(config, catalog)
//	if err != nil {
//	    if errors.Is(err, gen.ErrInvalidDescriptor) {
//	        // Fix the catalogue
//	    }
//	    return err
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	config, err := gen.NewConfig(
//	    gen.WithTarget("./auto/vertex"),
//	    gen.WithPackage("vertex"),
//	    gen.WithErrorKind("op_err"),
//	)
//
// # Generated Output
//
//	{output}/
//	├── vertex_types.go     // Operation, property enums, OpProperties, interfaces
//	├── {kind}_vertex.go    // One struct, factory and accessors per kind
//	├── vertex_all.go       // All, New and PropertyTable
//	├── foreach_op.go       // ForEachOp
//	└── {template}.go       // Template listings
//
// # Features
//
//   - stringer: String methods for every enumeration
//   - lookup: ParseOperation
//   - dispatch: New and PropertyTable
package gen
