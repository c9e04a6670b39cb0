package binding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/termmatch/term"
)

func seq(s string) []term.Term {
	out, err := term.ParseSequence(s)
	if err != nil {
		panic(err)
	}
	return out
}

func TestStoreBind(t *testing.T) {
	t.Parallel()
	s := NewStore()

	require.NoError(t, s.Bind("xs", seq("a b")))
	require.NoError(t, s.Bind("xs", seq("a b")), "rebinding to an equal span is allowed")

	err := s.Bind("xs", seq("a c"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInconsistent))

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "xs", conflict.Name)
	assert.Contains(t, err.Error(), "[a b]")

	require.NoError(t, s.Bind("", seq("z")))
	require.NoError(t, s.Bind("", seq("y")), "anonymous names never conflict")
	assert.Equal(t, 1, s.Len())
}

func TestStoreEmptySpans(t *testing.T) {
	t.Parallel()
	s := NewStore()
	require.NoError(t, s.Bind("xs", nil))
	require.NoError(t, s.Bind("xs", []term.Term{}))
	assert.Error(t, s.Bind("xs", seq("a")))
}

func TestStoreMarkReset(t *testing.T) {
	t.Parallel()
	s := NewStore()
	require.NoError(t, s.Bind("x", seq("a")))
	mark := s.Mark()
	require.NoError(t, s.Bind("y", seq("b")))
	require.NoError(t, s.Bind("x", seq("a")))
	assert.Equal(t, 2, s.Len())

	s.Reset(mark)
	assert.Equal(t, 1, s.Len())
	_, ok := s.Lookup("y")
	assert.False(t, ok)
	v, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "a", term.Join(v))

	require.NoError(t, s.Bind("y", seq("c")), "y is free again after reset")
}

func TestSnapshotIsIndependent(t *testing.T) {
	t.Parallel()
	s := NewStore()
	require.NoError(t, s.Bind("x", seq("a")))
	snap := s.Snapshot()
	s.Reset(0)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "{x: a}", snap.String())
}

func TestCheckHead(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		value []term.Term
		head  term.Term
		want  bool
	}{
		{name: "no constraint", value: seq("(b 1) c"), head: nil, want: true},
		{name: "all compounds headed by a", value: seq("(a 1) (a 2)"), head: term.A("a"), want: true},
		{name: "one compound with another head", value: seq("(a 1) (b 2)"), head: term.A("a"), want: false},
		{name: "atom is its own head", value: seq("a a"), head: term.A("a"), want: true},
		{name: "atom with another name", value: seq("a b"), head: term.A("a"), want: false},
		{name: "empty span", value: nil, head: term.A("a"), want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CheckHead(tt.value, tt.head))
		})
	}
}

func TestBindingHelpers(t *testing.T) {
	t.Parallel()
	b := Binding{"xs": seq("a b"), "x": seq("c")}
	assert.Equal(t, []string{"x", "xs"}, b.Names())
	assert.Equal(t, "{x: c, xs: a b}", b.String())
	assert.True(t, b.Equal(Binding{"x": seq("c"), "xs": seq("a b")}))
	assert.False(t, b.Equal(Binding{"x": seq("c")}))
	assert.False(t, b.Equal(Binding{"x": seq("c"), "xs": seq("a")}))

	c, ok := b.Compound("xs", term.A("List"))
	require.True(t, ok)
	assert.Equal(t, "(List a b)", c.String())
	_, ok = b.Compound("missing", term.A("List"))
	assert.False(t, ok)
}
