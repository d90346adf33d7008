package tree

import "iter"

type (
	// FunctionPtr references a function declaration owned by the consuming
	// compiler. It is opaque to generated code.
	FunctionPtr any

	// VarPtr references a variable declaration owned by the consuming
	// compiler. It is opaque to generated code.
	VarPtr any
)

// Node is implemented by every generated vertex through Base.
type Node interface {
	// Size returns the number of child slots.
	Size() int
	// CheckRange reports whether i addresses an existing child slot.
	CheckRange(i int) bool
	// At returns the child in slot i.
	At(i int) Node
	// Ith returns a mutable reference to the child in slot i.
	Ith(i int) *Node
	// Children returns the child slots. The slice shares storage with the
	// vertex.
	Children() []Node

	Str() string
	SetStr(s string)
	HasStr() bool

	FuncID() FunctionPtr
	SetFuncID(fn FunctionPtr)
	HasFuncID() bool

	VarID() VarPtr
	SetVarID(v VarPtr)
	HasVarID() bool
}

// Base is the root base type of the generated hierarchy. The zero value
// has no child slots.
type Base struct {
	children []Node
}

var _ Node = (*Base)(nil)

// Init allocates exactly n empty child slots, discarding previous children.
func (b *Base) Init(n int) {
	b.children = make([]Node, n)
}

// Size returns the number of child slots.
func (b *Base) Size() int { return len(b.children) }

// CheckRange reports whether 0 <= i < Size().
func (b *Base) CheckRange(i int) bool { return 0 <= i && i < len(b.children) }

// Ith returns a mutable reference to the child in slot i.
// It panics with *OutOfRangeError if the slot does not exist.
func (b *Base) Ith(i int) *Node {
	if !b.CheckRange(i) {
		panic(&OutOfRangeError{Index: i, Size: len(b.children)})
	}
	return &b.children[i]
}

// At returns the child in slot i.
func (b *Base) At(i int) Node { return *b.Ith(i) }

// Children returns the child slots.
func (b *Base) Children() []Node { return b.children }

// SetChildren assigns args into consecutive slots starting at shift.
// Each argument is a Node (one slot, nil allowed) or a []Node (one slot
// per element). The arguments must fill the remaining slots exactly.
func (b *Base) SetChildren(shift int, args ...any) {
	for pos, arg := range args {
		switch a := arg.(type) {
		case nil:
			*b.Ith(shift) = nil
			shift++
		case Node:
			*b.Ith(shift) = a
			shift++
		case []Node:
			for _, n := range a {
				*b.Ith(shift) = n
				shift++
			}
		default:
			panic(&ArgumentError{Position: pos, Value: arg})
		}
	}
	if shift != len(b.children) {
		panic(&OutOfRangeError{Index: shift, Size: len(b.children)})
	}
}

// Slice returns a mutable view of the half-open range [from, to).
func (b *Base) Slice(from, to int) Range {
	b.checkSlice(from, to)
	return Range(b.children[from:to:to])
}

// ConstSlice returns a read-only view of the half-open range [from, to).
func (b *Base) ConstSlice(from, to int) ConstRange {
	b.checkSlice(from, to)
	return ConstRange{nodes: b.children[from:to:to]}
}

func (b *Base) checkSlice(from, to int) {
	switch {
	case from < 0 || from > len(b.children):
		panic(&OutOfRangeError{Index: from, Size: len(b.children)})
	case to < from || to > len(b.children):
		panic(&OutOfRangeError{Index: to, Size: len(b.children)})
	}
}

// Str panics: the root carries no string payload.
func (*Base) Str() string { panic(&PayloadError{Payload: "string"}) }

// SetStr panics: the root carries no string payload.
func (*Base) SetStr(string) { panic(&PayloadError{Payload: "string"}) }

// HasStr reports false for kinds without a string payload.
func (*Base) HasStr() bool { return false }

// FuncID panics: the root carries no function payload.
func (*Base) FuncID() FunctionPtr { panic(&PayloadError{Payload: "function"}) }

// SetFuncID panics: the root carries no function payload.
func (*Base) SetFuncID(FunctionPtr) { panic(&PayloadError{Payload: "function"}) }

// HasFuncID reports false for kinds without a function payload.
func (*Base) HasFuncID() bool { return false }

// VarID panics: the root carries no variable payload.
func (*Base) VarID() VarPtr { panic(&PayloadError{Payload: "variable"}) }

// SetVarID panics: the root carries no variable payload.
func (*Base) SetVarID(VarPtr) { panic(&PayloadError{Payload: "variable"}) }

// HasVarID reports false for kinds without a variable payload.
func (*Base) HasVarID() bool { return false }

// ChildrenSize returns the number of slots the factory arguments occupy.
// It panics with *ArgumentError on an argument that is neither a Node
// nor a []Node.
func ChildrenSize(args ...any) int {
	n := 0
	for pos, arg := range args {
		switch a := arg.(type) {
		case nil, Node:
			n++
		case []Node:
			n += len(a)
		default:
			panic(&ArgumentError{Position: pos, Value: arg})
		}
	}
	return n
}

// Range is a mutable view over consecutive child slots. Writes through
// the view update the owning vertex.
type Range []Node

// Len returns the number of slots in the view.
func (r Range) Len() int { return len(r) }

// ConstRange is a read-only view over consecutive child slots.
type ConstRange struct {
	nodes []Node
}

// Len returns the number of slots in the view.
func (r ConstRange) Len() int { return len(r.nodes) }

// At returns the child at position i of the view.
func (r ConstRange) At(i int) Node {
	if i < 0 || i >= len(r.nodes) {
		panic(&OutOfRangeError{Index: i, Size: len(r.nodes)})
	}
	return r.nodes[i]
}

// All iterates over the view in order.
func (r ConstRange) All() iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		for i, n := range r.nodes {
			if !yield(i, n) {
				return
			}
		}
	}
}
