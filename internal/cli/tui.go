package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/nocycle/pkg/soak"
)

// progressEvery throttles progress messages into the TUI; per-iteration
// sends would dominate short runs.
const progressEvery = 64

// =============================================================================
// soakModel - Soak Run Progress
// =============================================================================

type soakProgressMsg struct {
	done, total int
}

type soakDoneMsg struct{}

// soakModel is the bubbletea model showing a soak run's progress bar.
type soakModel struct {
	done   int
	total  int
	cancel context.CancelFunc
	width  int
}

func newSoakModel(total int, cancel context.CancelFunc) soakModel {
	return soakModel{total: total, cancel: cancel, width: 40}
}

func (m soakModel) Init() tea.Cmd {
	return nil
}

func (m soakModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}
	case soakProgressMsg:
		m.done = msg.done
		m.total = msg.total
	case soakDoneMsg:
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width - 20
		if m.width < 10 {
			m.width = 10
		}
		if m.width > 60 {
			m.width = 60
		}
	}
	return m, nil
}

func (m soakModel) View() string {
	filled := 0
	if m.total > 0 {
		filled = m.done * m.width / m.total
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", m.width-filled)
	return fmt.Sprintf("%s %s %s\n%s\n",
		styleTitle.Render("soak"),
		styleNumber.Render(bar),
		styleDim.Render(fmt.Sprintf("%d/%d", m.done, m.total)),
		styleDim.Render("q to abort"))
}

// runSoakWithProgress executes the scenario with a live progress display.
// Aborting from the keyboard cancels the run's context.
func runSoakWithProgress(ctx context.Context, sc soak.Scenario, logger *log.Logger) (*soak.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(newSoakModel(sc.Iterations, cancel), tea.WithOutput(os.Stderr))

	type outcome struct {
		result *soak.Result
		err    error
	}
	results := make(chan outcome, 1)

	go func() {
		result, err := soak.Run(ctx, sc, logger, func(done, total int) {
			if done%progressEvery == 0 || done == total {
				program.Send(soakProgressMsg{done: done, total: total})
			}
		})
		results <- outcome{result: result, err: err}
		program.Send(soakDoneMsg{})
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-results
		return nil, fmt.Errorf("progress display: %w", err)
	}

	o := <-results
	return o.result, o.err
}
