package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// phaseModel animates a spinner while a blocking phase function runs in
// the background.
type phaseModel struct {
	spinner spinner.Model
	msg     string
	run     func() error
	err     error
	done    bool
}

type phaseDoneMsg struct{ err error }

func newPhaseModel(msg string, run func() error) phaseModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(accentBright)),
	)
	return phaseModel{spinner: s, msg: msg, run: run}
}

func (m phaseModel) Init() tea.Cmd {
	run := m.run
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return phaseDoneMsg{err: run()} },
	)
}

func (m phaseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case phaseDoneMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// The phase keeps running; there is nothing safe to cancel here.
		return m, nil
	}

	return m, nil
}

func (m phaseModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.msg
}

// RunPhase displays an animated spinner while fn runs. When stdout is not
// a terminal, or the TUI cannot start, it degrades to a plain line of
// output. fn runs at most once either way.
func RunPhase(msg string, fn func() error) error {
	var once sync.Once
	var result error
	run := func() error {
		once.Do(func() { result = fn() })
		return result
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Println("⏳ " + msg)
		return run()
	}

	p := tea.NewProgram(newPhaseModel(msg, run))
	out, err := p.Run()
	if err != nil {
		return run()
	}

	if m, ok := out.(phaseModel); ok && m.done {
		return m.err
	}
	return run()
}
