package formatter

import (
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/termmatch/match"
	"github.com/gnolang/termmatch/pattern"
	"github.com/gnolang/termmatch/term"
)

func init() {
	color.NoColor = true
}

func TestFormatMatches(t *testing.T) {
	t.Parallel()
	subject := term.Chars("fabc")
	p := pattern.MustParse("f ys___ xs__ x_")
	matches := match.New().All(subject, p)
	require.Len(t, matches, 2)

	got := FormatMatches(subject, p, matches)
	expected := `match 1 of 2 [1 1 1 1]
  | f     -> f
  | ys___ -> a
  | xs__  -> b
  | x_    -> c
  = {x: c, xs: b, ys: a}
match 2 of 2 [1 0 2 1]
  | f     -> f
  | ys___ -> (empty)
  | xs__  -> a b
  | x_    -> c
  = {x: c, xs: a b, ys: }
`
	assert.Equal(t, expected, got)
}

func TestFormatNoMatch(t *testing.T) {
	t.Parallel()
	got := FormatMatches(term.Chars("g"), pattern.MustParse("f xs___"), nil)
	assert.Equal(t, "no match: f xs___ against [g]\n", got)
}

func TestFormatJSON(t *testing.T) {
	t.Parallel()
	subject := term.MustParse("(f (a b) (a b) c)")
	p := pattern.MustParse("f xs___ xs___ x_")
	matches := match.New().All(term.MustCompound(subject).Elements(), p)

	data, err := FormatJSON(matches)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, map[string]any{"x": "c", "xs": "(a b)"}, decoded[0]["bindings"])

	data, err = FormatJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCaseLine(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "PASS example\n", CaseLine("example", true, ""))
	assert.Equal(t, "FAIL example: no match\n", CaseLine("example", false, "no match"))
}
