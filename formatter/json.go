package formatter

import (
	"encoding/json"

	"github.com/gnolang/termmatch/match"
	"github.com/gnolang/termmatch/term"
)

// jsonMatch is the JSON shape of one match. Spans use term notation.
type jsonMatch struct {
	Lengths  []int             `json:"lengths"`
	Bindings map[string]string `json:"bindings"`
}

// FormatJSON renders matches as a JSON array.
func FormatJSON(matches []match.Match) ([]byte, error) {
	out := make([]jsonMatch, 0, len(matches))
	for _, m := range matches {
		jm := jsonMatch{
			Lengths:  m.Lengths,
			Bindings: make(map[string]string, len(m.Binding)),
		}
		if jm.Lengths == nil {
			jm.Lengths = []int{}
		}
		for name, span := range m.Binding {
			jm.Bindings[name] = term.Join(span)
		}
		out = append(out, jm)
	}
	return json.Marshal(out)
}
