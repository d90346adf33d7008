// Package tree is the hand-written root of every generated vertex type.
//
// Generated vertex structs embed Base (directly for kinds whose base is
// the root kind, transitively otherwise). Base owns the per-instance child
// sequence that child-slot accessors, aliases and range views address:
//
//	type VertexOpAdd struct {
//		VertexOpBinaryOp
//	}
//
//	func (v *VertexOpAdd) Lhs() tree.Node     { return v.At(0) }
//	func (v *VertexOpAdd) LhsRef() *tree.Node { return v.Ith(0) }
//
// Out-of-range child access is a programming error and panics with an
// *OutOfRangeError, mirroring an index out of range on a slice.
package tree
