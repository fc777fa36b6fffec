package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type workDoneMsg struct {
	err error
}

type workProgressMsg struct {
	label string
}

type workSpinnerModel struct {
	spinner spinner.Model
	label   string
	work    tea.Cmd
	err     error
	done    bool
}

func newWorkSpinnerModel(label string, work tea.Cmd) workSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return workSpinnerModel{
		spinner: s,
		label:   label,
		work:    work,
	}
}

func (m workSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m workSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case workProgressMsg:
		m.label = msg.label
		return m, nil
	case workDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m workSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// runWithSpinner runs work while a spinner animates on output. work may call
// progress to replace the spinner label. It returns only after work has
// finished, even when the program is stopped early by ctx.
func runWithSpinner(ctx context.Context, output io.Writer, label string, work func(ctx context.Context, progress func(string)) error) error {
	var (
		p       *tea.Program
		mu      sync.Mutex
		stopped bool
		started bool
		done    = make(chan struct{})
	)
	progress := func(label string) {
		p.Send(workProgressMsg{label: label})
	}
	workCmd := func() tea.Msg {
		mu.Lock()
		if stopped {
			mu.Unlock()
			return workDoneMsg{err: ctx.Err()}
		}
		started = true
		mu.Unlock()

		defer close(done)
		return workDoneMsg{err: work(ctx, progress)}
	}

	p = tea.NewProgram(
		newWorkSpinnerModel(label, workCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, runErr := p.Run()

	mu.Lock()
	stopped = true
	wait := started
	mu.Unlock()
	if wait {
		<-done
	}

	if runErr != nil {
		return runErr
	}

	result, ok := finalModel.(workSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
