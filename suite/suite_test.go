package suite

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/termmatch/match"
)

const exampleYAML = `
name: examples
order: longest-first
cases:
  - name: greedy
    chars: "fabc"
    pattern: "f ys___ xs__ x_"
    all: true
    expect:
      match: true
      bindings:
        ys: "a"
        x: "c"
      count: 2
  - name: lexicographic override
    chars: "fabc"
    pattern: "f ys___ xs__ x_"
    order: lexicographic
    expect:
      match: true
      bindings:
        ys: ""
        xs: "a   b"
  - name: tree
    subject: "(f (a b) (a b) c)"
    pattern: "f xs___ xs___ x_"
    expect:
      match: true
      bindings:
        xs: "(a b)"
  - name: arguments
    subject: "(f (a 1) (b 2))"
    level: arguments
    pattern: "xs__a ys___"
    expect:
      match: true
  - name: flat sequence
    sequence: "f a (g b)"
    pattern: "f x_ y_g"
    expect:
      match: true
      bindings:
        y: "(g b)"
`

func TestParseSuite(t *testing.T) {
	t.Parallel()
	s, err := Parse([]byte(exampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "examples", s.Name)
	require.Len(t, s.Cases, 5)
	require.NotNil(t, s.Cases[0].Expect.Count)
	assert.Equal(t, 2, *s.Cases[0].Expect.Count)
	assert.Equal(t, LevelArguments, s.Cases[3].Level)
}

func TestParseSuiteErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		yaml string
	}{
		{name: "invalid yaml", yaml: "cases:\n  - name: x\n    pattern \"x_\"\n"},
		{name: "unknown field", yaml: "cases:\n  - name: x\n    chars: a\n    pattern: x_\n    expected: {}\n"},
		{name: "no subject", yaml: "cases:\n  - name: x\n    pattern: x_\n"},
		{name: "two subjects", yaml: "cases:\n  - name: x\n    chars: a\n    sequence: a\n    pattern: x_\n"},
		{name: "atom subject", yaml: "cases:\n  - name: x\n    subject: a\n    pattern: x_\n"},
		{name: "bad pattern", yaml: "cases:\n  - name: x\n    chars: a\n    pattern: x____\n"},
		{name: "bad level", yaml: "cases:\n  - name: x\n    subject: (f a)\n    level: leaves\n    pattern: x_\n"},
		{name: "bad order", yaml: "order: sideways\ncases: []\n"},
		{name: "bad case order", yaml: "cases:\n  - name: x\n    chars: a\n    pattern: x_\n    order: sideways\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestCompileErrorsAreWrapped(t *testing.T) {
	t.Parallel()
	_, err := Case{Name: "empty", Pattern: "x_"}.Compile()
	assert.ErrorIs(t, err, ErrNoSubject)

	_, err = Case{Name: "both", Chars: "a", Sequence: "a", Pattern: "x_"}.Compile()
	assert.ErrorIs(t, err, ErrMultipleSubject)
}

func TestLoadAndWrite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Write(path, Example()))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Example(), s)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunExampleSuite(t *testing.T) {
	t.Parallel()
	for _, strategy := range []match.Strategy{match.Backtracking, match.Exhaustive} {
		results, err := Run(context.Background(), nil, Example(), Options{Strategy: strategy, Workers: 2})
		require.NoError(t, err)
		require.Len(t, results, len(Example().Cases))
		for _, r := range results {
			assert.True(t, r.Passed, "%s: %s", r.Case.Name, r.Detail)
			assert.NoError(t, r.Err)
		}
	}
}

func TestRunParsedSuite(t *testing.T) {
	t.Parallel()
	s, err := Parse([]byte(exampleYAML))
	require.NoError(t, err)

	var progress bytes.Buffer
	results, err := Run(context.Background(), nil, s, Options{Progress: &progress})
	require.NoError(t, err)
	for i, r := range results {
		assert.Equal(t, s.Cases[i].Name, r.Case.Name, "results keep case order")
		assert.True(t, r.Passed, "%s: %s", r.Case.Name, r.Detail)
	}
	assert.NotEmpty(t, progress.String())
}

func TestRunReportsFailures(t *testing.T) {
	t.Parallel()
	count := 5
	s := &Suite{
		Name: "failing",
		Cases: []Case{
			{Name: "unexpected match", Chars: "ab", Pattern: "xs__", Expect: Expect{Match: false}},
			{Name: "missing match", Chars: "ab", Pattern: "x_", Expect: Expect{Match: true}},
			{
				Name:    "wrong binding and count",
				Chars:   "ab",
				Pattern: "xs___ ys___",
				All:     true,
				Expect: Expect{
					Match:    true,
					Bindings: map[string]string{"xs": "a", "zs": "b"},
					Count:    &count,
				},
			},
			{Name: "broken", Pattern: "x_"},
		},
	}

	results, err := Run(context.Background(), nil, s, Options{Workers: 1})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.False(t, results[0].Passed)
	assert.Contains(t, results[0].Detail, "expected no match")

	assert.False(t, results[1].Passed)
	assert.Equal(t, "expected a match, found none", results[1].Detail)

	assert.False(t, results[2].Passed)
	assert.Equal(t, `expected 5 matches, found 3; xs = "a b", expected "a"; zs is not bound`, results[2].Detail)

	assert.False(t, results[3].Passed)
	assert.ErrorIs(t, results[3].Err, ErrNoSubject)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, nil, Example(), Options{Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerify(t *testing.T) {
	t.Parallel()
	s, err := Parse([]byte(exampleYAML))
	require.NoError(t, err)

	disagreements, err := Verify(context.Background(), nil, s, Options{})
	require.NoError(t, err)
	assert.Empty(t, disagreements)

	_, err = Verify(context.Background(), nil, &Suite{Cases: []Case{{Name: "broken", Pattern: "x_"}}}, Options{})
	assert.ErrorIs(t, err, ErrNoSubject)
}

func TestWatch(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cases.yaml")
	require.NoError(t, os.WriteFile(path, []byte(exampleYAML), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	changed := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, nil, []string{path}, func(p string) { changed <- p })
	}()

	// keep writing until the watcher, which starts asynchronously, reports it
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	var got string
wait:
	for {
		select {
		case got = <-changed:
			break wait
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte(exampleYAML), 0o644))
		case <-ctx.Done():
			t.Fatal("no change reported")
		}
	}

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
