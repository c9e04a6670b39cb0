package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/termmatch/term"
)

func TestElementArity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		elem    Element
		n       int
		wantMin int
		wantMax int
	}{
		{name: "literal", elem: Literal(term.A("f")), n: 5, wantMin: 1, wantMax: 1},
		{name: "blank", elem: Blank("x", nil), n: 5, wantMin: 1, wantMax: 1},
		{name: "sequence", elem: Sequence("xs", nil), n: 5, wantMin: 1, wantMax: 5},
		{name: "null sequence", elem: NullSequence("xs", nil), n: 5, wantMin: 0, wantMax: 5},
		{name: "null sequence on empty subject", elem: NullSequence("xs", nil), n: 0, wantMin: 0, wantMax: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantMin, tt.elem.MinArity())
			assert.Equal(t, tt.wantMax, tt.elem.MaxArity(tt.n))
		})
	}
}

func TestParseElement(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    Element
		wantErr bool
	}{
		{input: "f", want: Literal(term.A("f"))},
		{input: "x_", want: Blank("x", nil)},
		{input: "x_h", want: Blank("x", term.A("h"))},
		{input: "xs__", want: Sequence("xs", nil)},
		{input: "xs__a", want: Sequence("xs", term.A("a"))},
		{input: "ys___", want: NullSequence("ys", nil)},
		{input: "___", want: NullSequence("", nil)},
		{input: "_", want: Blank("", nil)},
		{input: "'a_b", want: Literal(term.A("a_b"))},
		{input: "f1:f", want: NamedLiteral("f1", term.A("f"))},
		{input: "x____", wantErr: true},
		{input: "x_a_b", wantErr: true},
		{input: "'", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseElement(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	p, err := Parse("f xs___ xs___ x_")
	require.NoError(t, err)
	require.Len(t, p, 4)
	assert.Equal(t, KindLiteral, p[0].Kind)
	assert.Equal(t, KindNullSequence, p[1].Kind)
	assert.Equal(t, KindBlank, p[3].Kind)
	assert.Equal(t, []string{"x", "xs"}, p.Names())
	assert.Equal(t, 2, p.MinLength())

	p, err = Parse("g:(g a) rest___")
	require.NoError(t, err)
	require.Len(t, p, 2)
	assert.Equal(t, "g", p[0].Name)
	assert.Equal(t, "(g a)", p[0].Literal.String())

	_, err = Parse("f (a")
	assert.Error(t, err)
	_, err = Parse("f n:")
	assert.Error(t, err)
}

func TestPatternStringRoundTrip(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"f ys___ xs__ x_",
		"_ __a ___b",
		"'a_b n:c m:(g a)",
	}
	for _, input := range inputs {
		p, err := Parse(input)
		require.NoError(t, err)
		assert.Equal(t, input, p.String())

		again, err := Parse(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, again)
	}
}
