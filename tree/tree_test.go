package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leaf struct{ Base }

func newLeaf(args ...any) *leaf {
	v := &leaf{}
	v.Init(ChildrenSize(args...))
	v.SetChildren(0, args...)
	return v
}

func recoverError(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		e, ok := r.(error)
		require.True(t, ok, "panic value is not an error: %v", r)
		err = e
	}()
	fn()
	return nil
}

func TestChildrenSize(t *testing.T) {
	a, b, c := newLeaf(), newLeaf(), newLeaf()
	tests := []struct {
		name string
		args []any
		want int
	}{
		{"empty", nil, 0},
		{"nodes", []any{a, b}, 2},
		{"slice", []any{[]Node{a, b, c}}, 3},
		{"mixed", []any{a, []Node{b, c}, c}, 4},
		{"empty slice", []any{a, []Node{}}, 1},
		{"nil slot", []any{nil, a}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChildrenSize(tt.args...))
		})
	}

	t.Run("rejects other types", func(t *testing.T) {
		err := recoverError(t, func() { ChildrenSize(a, 42) })
		assert.ErrorIs(t, err, ErrBadArgument)
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Equal(t, 1, argErr.Position)
	})
}

func TestBaseChildren(t *testing.T) {
	a, b, c := newLeaf(), newLeaf(), newLeaf()
	v := newLeaf(a, []Node{b, c})

	require.Equal(t, 3, v.Size())
	assert.Same(t, a, v.At(0))
	assert.Same(t, b, v.At(1))
	assert.Same(t, c, v.At(2))

	t.Run("CheckRange", func(t *testing.T) {
		assert.False(t, v.CheckRange(-1))
		assert.True(t, v.CheckRange(0))
		assert.True(t, v.CheckRange(2))
		assert.False(t, v.CheckRange(3))
	})

	t.Run("Ith is a mutable reference", func(t *testing.T) {
		w := newLeaf(a, b)
		*w.Ith(1) = c
		assert.Same(t, c, w.At(1))
		assert.Same(t, c, w.Children()[1])
	})

	t.Run("out of range panics", func(t *testing.T) {
		err := recoverError(t, func() { v.At(3) })
		assert.ErrorIs(t, err, ErrOutOfRange)
		assert.True(t, IsOutOfRange(err))
		assert.Contains(t, err.Error(), "index 3 out of range [0,3)")
	})

	t.Run("SetChildren must fill every slot", func(t *testing.T) {
		w := &leaf{}
		w.Init(3)
		err := recoverError(t, func() { w.SetChildren(0, a) })
		assert.ErrorIs(t, err, ErrOutOfRange)
	})
}

func TestBaseRanges(t *testing.T) {
	a, b, c, d := newLeaf(), newLeaf(), newLeaf(), newLeaf()
	v := newLeaf(a, b, c, d)

	t.Run("mutable view shares storage", func(t *testing.T) {
		r := v.Slice(1, v.Size()-1)
		require.Equal(t, 2, r.Len())
		r[0] = d
		assert.Same(t, d, v.At(1))
		*v.Ith(1) = b
	})

	t.Run("read-only view", func(t *testing.T) {
		r := v.ConstSlice(0, v.Size())
		require.Equal(t, 4, r.Len())
		var got []Node
		for i, n := range r.All() {
			assert.Same(t, v.At(i), n)
			got = append(got, n)
		}
		assert.Len(t, got, 4)
	})

	t.Run("empty view at the boundary", func(t *testing.T) {
		assert.Equal(t, 0, v.Slice(v.Size(), v.Size()).Len())
	})

	t.Run("inverted bounds panic", func(t *testing.T) {
		err := recoverError(t, func() { v.Slice(3, 1) })
		assert.True(t, errors.Is(err, ErrOutOfRange))
	})
}

func TestBasePayloadDefaults(t *testing.T) {
	v := newLeaf()
	assert.False(t, v.HasStr())
	assert.False(t, v.HasFuncID())
	assert.False(t, v.HasVarID())

	err := recoverError(t, func() { _ = v.Str() })
	assert.True(t, IsNoPayload(err))
	assert.Contains(t, err.Error(), "string payload")

	err = recoverError(t, func() { v.SetVarID(nil) })
	assert.ErrorIs(t, err, ErrNoPayload)
}
