package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnolang/termmatch/match"
	"github.com/gnolang/termmatch/pattern"
	"github.com/gnolang/termmatch/term"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	headerStyle  = color.New(color.FgYellow, color.Bold)
	elementStyle = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	valueStyle   = color.New(color.FgGreen, color.Bold)
	passStyle    = color.New(color.FgGreen, color.Bold)
	noStyle      = color.New(color.FgWhite)
)

const matchTemplate = `{{header .Index .Total .Lengths}}
{{spans .Rows .Width}}{{bindingLine .Binding}}
`

// MatchData is the view of one match handed to the template.
type MatchData struct {
	Index   int
	Total   int
	Lengths []int
	Rows    []SpanRow
	Width   int
	Binding string
}

// SpanRow pairs a pattern element with the span it consumed.
type SpanRow struct {
	Element string
	Span    string
}

var tmpl = template.Must(template.New("match").Funcs(template.FuncMap{
	"header":      header,
	"spans":       spans,
	"bindingLine": bindingLine,
}).Parse(matchTemplate))

// FormatMatches renders every match of p against subject. An empty matches
// slice renders a single "no match" line.
func FormatMatches(subject []term.Term, p pattern.Pattern, matches []match.Match) string {
	if len(matches) == 0 {
		return NoMatch(subject, p)
	}

	var builder strings.Builder
	for i, m := range matches {
		builder.WriteString(buildMatch(subject, p, m, i+1, len(matches)))
	}
	return builder.String()
}

// NoMatch renders the failure line for p against subject.
func NoMatch(subject []term.Term, p pattern.Pattern) string {
	return errorStyle.Sprint("no match: ") +
		elementStyle.Sprintf("%s", p) +
		noStyle.Sprint(" against ") +
		valueStyle.Sprintf("[%s]", term.Join(subject)) + "\n"
}

func buildMatch(subject []term.Term, p pattern.Pattern, m match.Match, index, total int) string {
	data := MatchData{
		Index:   index,
		Total:   total,
		Lengths: m.Lengths,
		Binding: m.Binding.String(),
	}
	for i, span := range m.Spans(subject) {
		row := SpanRow{Element: p[i].String(), Span: term.Join(span)}
		data.Width = max(data.Width, len(row.Element))
		data.Rows = append(data.Rows, row)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting match: %v", err)
	}
	return buf.String()
}

// utils functions used in the text template

func header(index, total int, lengths []int) string {
	return headerStyle.Sprintf("match %d of %d", index, total) +
		lineStyle.Sprintf(" %v", lengths)
}

func spans(rows []SpanRow, width int) string {
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(lineStyle.Sprint("  | "))
		sb.WriteString(elementStyle.Sprintf("%-*s", width, row.Element))
		sb.WriteString(noStyle.Sprint(" -> "))
		if row.Span == "" {
			sb.WriteString(lineStyle.Sprint("(empty)"))
		} else {
			sb.WriteString(valueStyle.Sprint(row.Span))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func bindingLine(b string) string {
	return lineStyle.Sprint("  = ") + noStyle.Sprint(b)
}

// CaseLine renders the one-line summary of a suite case.
func CaseLine(name string, passed bool, detail string) string {
	status := passStyle.Sprint("PASS")
	if !passed {
		status = errorStyle.Sprint("FAIL")
	}
	line := fmt.Sprintf("%s %s", status, headerStyle.Sprint(name))
	if detail != "" {
		line += noStyle.Sprintf(": %s", detail)
	}
	return line + "\n"
}
