// Package ui provides diagnostics and progress display for license bundling.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	xterm "golang.org/x/term"
)

// IsTTY returns true if stderr is a terminal.
func IsTTY() bool {
	return term.IsTerminal(os.Stderr.Fd())
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(os.Stdout.Fd())
}

// Progress is notified as packages are bundled.
type Progress interface {
	Update(completed, total int, pkgName string)
	Done(total int)
}

// --- Plain text fallback ---

// PlainProgress prints progress messages to a callback function.
// Used when stderr is not a TTY (e.g., piped output).
type PlainProgress struct {
	print func(string)
}

// NewPlainProgress creates a new PlainProgress with the given print callback.
func NewPlainProgress(print func(string)) *PlainProgress {
	return &PlainProgress{print: print}
}

// Update prints a progress message for a bundled package.
func (p *PlainProgress) Update(completed, total int, pkgName string) {
	p.print(fmt.Sprintf("[%d/%d] Bundled %s", completed, total, pkgName))
}

// Done prints a completion message.
func (p *PlainProgress) Done(total int) {
	p.print(fmt.Sprintf("Done! Bundled %d packages.", total))
}

// --- TUI progress ---

// ProgressMsg is sent to the bubbletea program when a package is bundled.
type ProgressMsg struct {
	Completed int
	Total     int
	PkgName   string
}

// DoneMsg is sent to the bubbletea program when all packages are bundled.
type DoneMsg struct{}

type model struct {
	progress  progress.Model
	completed int
	total     int
	pkgName   string
	done      bool
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const maxBarWidth = 60

// NewTUIModel creates a new bubbletea model for the progress TUI.
func NewTUIModel(total int) model {
	return model{
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(initialWidth()),
			progress.WithoutPercentage(),
		),
		total: total,
	}
}

// initialWidth sizes the bar before the first WindowSizeMsg arrives.
func initialWidth() int {
	w, _, err := xterm.GetSize(int(os.Stderr.Fd()))
	if err != nil || w <= 10 {
		return 50
	}
	return min(w-10, maxBarWidth)
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-10, maxBarWidth)
	case ProgressMsg:
		m.completed = msg.Completed
		m.total = msg.Total
		m.pkgName = msg.PkgName
		pct := float64(m.completed) / float64(m.total)
		return m, m.progress.SetPercent(pct)
	case DoneMsg:
		m.done = true
		return m, tea.Quit
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.done {
		return fmt.Sprintf("\n  %s\n\n",
			titleStyle.Render(fmt.Sprintf("Done! Bundled %d packages.", m.total)))
	}

	pad := strings.Repeat(" ", 2)
	counter := infoStyle.Render(fmt.Sprintf("%d/%d", m.completed, m.total))
	desc := m.pkgName
	if desc == "" {
		desc = "Starting..."
	}

	return "\n" +
		pad + titleStyle.Render("Bundling licenses") + "\n" +
		pad + m.progress.View() + "  " + counter + "\n" +
		pad + infoStyle.Render(desc) + "\n\n"
}

// RunTUI creates and returns a bubbletea program for the progress TUI.
// The program outputs to stderr so a bundle written to stdout stays clean.
func RunTUI(total int) *tea.Program {
	m := NewTUIModel(total)
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	return p
}

// TUIProgress forwards progress to a running bubbletea program.
type TUIProgress struct {
	Program *tea.Program
}

func (t TUIProgress) Update(completed, total int, pkgName string) {
	t.Program.Send(ProgressMsg{Completed: completed, Total: total, PkgName: pkgName})
}

func (t TUIProgress) Done(int) {
	t.Program.Send(DoneMsg{})
}
