// Package picker is a terminal file chooser for selecting a source file
// when none is given on the command line.
package picker

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user leaves without choosing a file.
var ErrCancelled = errors.New("no file selected")

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type clearErrorMsg struct{}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearErrorMsg{} })
}

// Model wraps a filepicker and quits as soon as a file is chosen.
type Model struct {
	fp       filepicker.Model
	allowed  []string
	selected string
	quitting bool
	err      error
}

// New returns a picker rooted at dir that only accepts the given extensions.
func New(dir string, allowed []string) Model {
	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.AllowedTypes = allowed
	fp.ShowPermissions = false
	return Model{fp: fp, allowed: allowed}
}

// Selected returns the chosen path, or "" if none was chosen.
func (m Model) Selected() string {
	return m.selected
}

func (m Model) Init() tea.Cmd {
	return m.fp.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case clearErrorMsg:
		m.err = nil
	}

	var cmd tea.Cmd
	m.fp, cmd = m.fp.Update(msg)

	if didSelect, path := m.fp.DidSelectFile(msg); didSelect {
		m.selected = path
		m.quitting = true
		return m, tea.Quit
	}
	if didSelect, path := m.fp.DidSelectDisabledFile(msg); didSelect {
		m.err = fmt.Errorf("%s is not a supported source", path)
		return m, tea.Batch(cmd, clearErrorAfter(2*time.Second))
	}
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n  ")
	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
	} else {
		b.WriteString(headerStyle.Render("Pick a source file"))
		if len(m.allowed) > 0 {
			b.WriteString(" (" + strings.Join(m.allowed, " ") + ")")
		}
	}
	b.WriteString("\n\n" + m.fp.View() + "\n")
	return b.String()
}

// Choose runs the picker on the terminal and returns the chosen path. The
// picker draws on stderr so stdout stays free for rendered output.
func Choose(dir string, allowed []string) (string, error) {
	p := tea.NewProgram(New(dir, allowed), tea.WithOutput(os.Stderr), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("run file picker: %w", err)
	}
	m, ok := final.(Model)
	if !ok || m.selected == "" {
		return "", ErrCancelled
	}
	return m.selected, nil
}
