package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/coregx/restep"
)

const (
	focusPattern = iota
	focusInput
)

type tuiModel struct {
	pattern textinput.Model
	input   textinput.Model
	focus   int
	config  restep.Config

	re      *restep.Regex
	err     error
	session *restep.Session
	last    *restep.Step

	width    int
	height   int
	quitting bool
}

type tuiKeyMap struct {
	Tab   key.Binding
	Step  key.Binding
	Run   key.Binding
	Reset key.Binding
	Fix   key.Binding
	Quit  key.Binding
}

var tuiKeys = tuiKeyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch field"),
	),
	Step: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "step"),
	),
	Run: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "run to end"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reset"),
	),
	Fix: key.NewBinding(
		key.WithKeys("ctrl+f"),
		key.WithHelp("ctrl+f", "apply fix"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

func newTUIModel(pattern string, config restep.Config) tuiModel {
	p := textinput.New()
	p.Prompt = "regex> "
	p.PromptStyle = headerStyle
	p.Placeholder = "a(b|c)*d"
	p.CharLimit = 256
	p.SetValue(pattern)
	p.Focus()

	in := textinput.New()
	in.Prompt = "input> "
	in.PromptStyle = headerStyle
	in.Placeholder = "test string"
	in.CharLimit = 1024

	// Verbose output would corrupt the alternate screen.
	config.Verbose = false

	m := tuiModel{
		pattern: p,
		input:   in,
		config:  config,
		width:   defaultWidth,
	}
	m.recompile()
	return m
}

// recompile rebuilds the pattern and restarts stepping from scratch.
func (m *tuiModel) recompile() {
	m.re, m.err = restep.CompileWithConfig(m.pattern.Value(), m.config)
	m.restart()
}

func (m *tuiModel) restart() {
	m.last = nil
	m.session = nil
	if m.re != nil {
		m.session = m.re.NewSession(m.input.Value())
	}
}

func (m *tuiModel) step() {
	if m.session == nil {
		return
	}
	if st, ok := m.session.Step(); ok {
		m.last = &st
	}
}

func (m tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pattern.Width = msg.Width - 10
		m.input.Width = msg.Width - 10
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, tuiKeys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, tuiKeys.Tab):
			if m.focus == focusPattern {
				m.focus = focusInput
				m.pattern.Blur()
				return m, m.input.Focus()
			}
			m.focus = focusPattern
			m.input.Blur()
			return m, m.pattern.Focus()

		case key.Matches(msg, tuiKeys.Step):
			m.step()
			return m, nil

		case key.Matches(msg, tuiKeys.Run):
			for m.session != nil && !m.session.Done() {
				m.step()
			}
			return m, nil

		case key.Matches(msg, tuiKeys.Reset):
			m.restart()
			return m, nil

		case key.Matches(msg, tuiKeys.Fix):
			if m.re != nil && m.re.HasWarnings() {
				m.pattern.SetValue(m.re.Fixed())
				m.pattern.CursorEnd()
				m.recompile()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == focusPattern {
		before := m.pattern.Value()
		m.pattern, cmd = m.pattern.Update(msg)
		if m.pattern.Value() != before {
			m.recompile()
		}
	} else {
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.restart()
		}
	}
	return m, cmd
}

func (m tuiModel) View() string {
	if m.quitting {
		return mutedStyle.Render("bye\n")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("restep") + " " + mutedStyle.Render("stepwise regex matcher") + "\n\n")
	b.WriteString(m.pattern.View() + "\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	} else if m.re != nil {
		b.WriteString(renderField("lexemes", renderLexemes(m.re)))
		b.WriteString(renderField("rpn", m.re.RPNString()))
		if m.re.HasWarnings() {
			b.WriteString(renderField("fixed", m.re.Fixed()))
		}
		b.WriteString(renderWarnings(m.re.Warnings()))
	}
	b.WriteString("\n" + m.input.View() + "\n\n")

	if m.session != nil {
		b.WriteString(borderStyle.Render(m.sessionView()) + "\n")
	}

	b.WriteString(renderHelp(
		[2]string{"tab", "field"},
		[2]string{"ctrl+n", "step"},
		[2]string{"ctrl+e", "run"},
		[2]string{"ctrl+r", "reset"},
		[2]string{"ctrl+f", "fix"},
		[2]string{"ctrl+c", "quit"},
	))
	return b.String()
}

func (m tuiModel) sessionView() string {
	runes := m.session.Runes()
	var lines []string

	test := restep.Range{}
	cursor := m.session.Pos()
	if m.session.Done() {
		cursor = -1
	}
	if m.last != nil {
		test = m.last.TestRange
	}
	lines = append(lines, renderField("input", renderInput(runes, test, m.session.Matches(), cursor)))

	if m.last != nil {
		status := statusStyle(m.last.Status).Render(m.last.Status.String())
		lines = append(lines, renderField("last", fmt.Sprintf("%q at %d: %s", m.last.Char, m.last.Pos, status)))
	} else {
		lines = append(lines, renderField("last", mutedStyle.Render("no steps yet")))
	}

	n := m.re.NFA()
	labels := make([]string, 0, len(m.session.Candidates()))
	for _, id := range m.session.Candidates() {
		labels = append(labels, n.Node(id).Label())
	}
	lines = append(lines, renderField("next", strings.Join(labels, " ")))
	lines = append(lines, renderField("matches", fmt.Sprintf("%q", m.session.MatchStrings())))
	if m.session.Done() {
		lines = append(lines, mutedStyle.Render("end of input"))
	}
	return strings.TrimRight(strings.Join(lines, ""), "\n")
}
