package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coregx/restep"
	"github.com/coregx/restep/nfa"
	"github.com/coregx/restep/syntax"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")
	operatorColor  = lipgloss.Color("#A855F7")

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(10)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	warningStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	valueStyle = lipgloss.NewStyle().
			Foreground(successColor)

	classStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	operatorStyle = lipgloss.NewStyle().
			Foreground(operatorColor).
			Bold(true)

	invalidStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Strikethrough(true)

	testRangeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1E3A8A"))

	matchStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Underline(true)

	cursorStyle = lipgloss.NewStyle().
			Reverse(true)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

func statusStyle(s nfa.Status) lipgloss.Style {
	switch s {
	case nfa.StatusSuccess:
		return valueStyle
	case nfa.StatusFailure:
		return errorStyle
	case nfa.StatusEnd:
		return warningStyle
	default:
		return mutedStyle
	}
}

// renderLexemes colors each lexeme by kind; lexemes dropped during
// recovery are struck through.
func renderLexemes(re *restep.Regex) string {
	tokens := re.Tokens()
	var b strings.Builder
	for i, lex := range re.Lexemes() {
		style := valueStyle
		switch {
		case tokens[i].Invalid:
			style = invalidStyle
		case lex.Kind == syntax.KindBracket || lex.Kind == syntax.KindClass || lex.Kind == syntax.KindWildcard:
			style = classStyle
		case !lex.Kind.IsValue():
			style = operatorStyle
		}
		b.WriteString(style.Render(lex.Label))
	}
	return b.String()
}

func renderField(label, value string) string {
	return labelStyle.Render(label) + value + "\n"
}

// renderSummary describes a compiled pattern: lexemes, RPN, repairs and
// prefilter literals.
func renderSummary(re *restep.Regex) string {
	var b strings.Builder
	b.WriteString(renderField("pattern", renderLexemes(re)))
	b.WriteString(renderField("rpn", re.RPNString()))
	b.WriteString(renderField("fixed", re.Fixed()))
	b.WriteString(renderField("nodes", fmt.Sprint(re.NFA().Len())))
	if seq := re.Prefixes(); !seq.IsEmpty() {
		lits := make([]string, seq.Len())
		for i := range lits {
			lits[i] = fmt.Sprintf("%q", seq.Get(i).Bytes)
		}
		b.WriteString(renderField("prefixes", strings.Join(lits, " ")))
	}
	b.WriteString(renderWarnings(re.Warnings()))
	return b.String()
}

func renderWarnings(warnings []syntax.Warning) string {
	if len(warnings) == 0 {
		return renderField("warnings", mutedStyle.Render("none"))
	}
	var b strings.Builder
	b.WriteString(renderField("warnings", warningStyle.Render(fmt.Sprint(len(warnings)))))
	for _, w := range warnings {
		b.WriteString("  " + warningStyle.Render(w.String()) + "\n")
	}
	return b.String()
}

// renderInput shows runes with matches underlined, the attempt range
// shaded and the rune at cursor reversed. cursor < 0 disables it.
func renderInput(runes []rune, test restep.Range, matches []restep.Range, cursor int) string {
	inMatch := func(i int) bool {
		for _, m := range matches {
			if i >= m.Start && i < m.End {
				return true
			}
		}
		return false
	}

	var b strings.Builder
	for i, r := range runes {
		text := visibleRune(r)
		style := lipgloss.NewStyle()
		if inMatch(i) {
			style = matchStyle
		}
		if i >= test.Start && i < test.End {
			style = style.Inherit(testRangeStyle)
		}
		if i == cursor {
			style = style.Inherit(cursorStyle)
		}
		b.WriteString(style.Render(text))
	}
	return b.String()
}

func visibleRune(r rune) string {
	switch r {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	}
	return string(r)
}

// renderStep formats one session step as a log line, truncating the input
// preview to width columns.
func renderStep(step restep.Step, runes []rune, width int) string {
	head := fmt.Sprintf("%4d  %-6s %s", step.Pos, fmt.Sprintf("%q", step.Char),
		statusStyle(step.Status).Render(fmt.Sprintf("%-8s", step.Status)))
	room := width - lipgloss.Width(head) - 2
	preview := runes
	if room > 0 && len(preview) > room {
		preview = preview[:room]
	}
	return head + "  " + renderInput(preview, step.TestRange, step.MatchRanges, step.Pos)
}

func renderHelp(bindings ...[2]string) string {
	parts := make([]string, len(bindings))
	for i, kv := range bindings {
		parts[i] = helpKeyStyle.Render(kv[0]) + helpDescStyle.Render(" "+kv[1])
	}
	return strings.Join(parts, "  ")
}
