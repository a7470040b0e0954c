package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibwasm/internal/config"
	apperrors "github.com/agbru/fibwasm/internal/errors"
	"github.com/agbru/fibwasm/internal/fibonacci"
	"github.com/agbru/fibwasm/internal/orchestration"
	"github.com/agbru/fibwasm/internal/sysmon"
)

// tickInterval is the refresh period of the header.
const tickInterval = 500 * time.Millisecond

// ExecutionState holds the run-related fields of a TUI session.
type ExecutionState struct {
	cancel      context.CancelFunc
	calculators []fibonacci.Calculator
	generation  uint64
	running     bool
	exitCode    int
}

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	header  HeaderModel
	results ResultsModel
	input   textinput.Model
	help    help.Model
	keymap  KeyMap

	ExecutionState

	parentCtx context.Context
	ref       *programRef
	inputErr  string
	width     int
	height    int
}

// NewModel creates a dashboard for calculators, with the index input
// prefilled from cfg.N.
func NewModel(parentCtx context.Context, calculators []fibonacci.Calculator, cfg config.AppConfig, version string) Model {
	names := make([]string, len(calculators))
	for i, c := range calculators {
		names[i] = c.Name()
	}

	in := textinput.New()
	in.Prompt = "Index: "
	in.Placeholder = "n"
	in.CharLimit = len(strconv.FormatUint(math.MaxUint32, 10))
	in.SetValue(strconv.FormatUint(uint64(cfg.N), 10))
	in.Focus()

	return Model{
		header:  NewHeaderModel(version),
		results: NewResultsModel(names),
		input:   in,
		help:    help.New(),
		keymap:  DefaultKeyMap(),
		ExecutionState: ExecutionState{
			calculators: calculators,
			exitCode:    apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		ref:       &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		sampleSysStatsCmd(m.parentCtx),
		watchContextCmd(m.parentCtx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		m.results.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case CalculatorDoneMsg:
		if msg.Generation == m.generation {
			m.results.Complete(msg.Event)
		}
		return m, nil

	case ComparisonResultsMsg:
		if msg.Generation == m.generation {
			m.results.SetResults(msg.Results)
		}
		return m, nil

	case ErrorMsg:
		if msg.Generation == m.generation {
			m.results.SetError(msg.Err)
		}
		return m, nil

	case CalculationCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous run
		}
		m.running = false
		m.exitCode = msg.ExitCode
		m.header.Stop(time.Now())
		return m, nil

	case TickMsg:
		return m, tea.Batch(sampleSysStatsCmd(m.parentCtx), tickCmd())

	case SysStatsMsg:
		m.header.AddSample(msg.CPUPercent, msg.MemPercent)
		return m, nil

	case ContextCancelledMsg:
		m.stopRun()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.stopRun()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.stopRun()
		m.generation++
		m.results.Reset()
		m.header.Clear()
		m.input.Reset()
		m.inputErr = ""
		m.exitCode = apperrors.ExitSuccess
		return m, nil

	case key.Matches(msg, m.keymap.Run):
		n, err := parseIndex(m.input.Value())
		if err != nil {
			m.inputErr = err.Error()
			var invalid apperrors.ValidationError
			if errors.As(err, &invalid) {
				m.inputErr = invalid.Message
			}
			return m, nil
		}
		return m, m.startRun(n)
	}

	if msg.Type == tea.KeyRunes && !allDigits(msg.Runes) {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.inputErr = ""
	return m, cmd
}

// startRun cancels any run in progress and starts a new generation for n.
func (m *Model) startRun(n uint32) tea.Cmd {
	m.stopRun()
	m.generation++
	ctx, cancel := context.WithCancel(m.parentCtx)
	m.cancel = cancel
	m.running = true
	m.inputErr = ""
	m.results.Start(n)
	m.header.Start(time.Now())
	return startCalculationCmd(m.ref, ctx, m.calculators, n, m.generation)
}

func (m *Model) stopRun() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.running = false
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	inputLine := m.input.View()
	if m.inputErr != "" {
		inputLine += "  " + errorStyle.Render(m.inputErr)
	} else if m.running {
		inputLine += "  " + dimStyle.Render("running... press r to cancel")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		"",
		" "+inputLine,
		"",
		m.results.View(),
		" "+m.help.View(m.keymap),
	)
}

// ExitCode returns the exit code of the last completed run.
func (m Model) ExitCode() int {
	return m.exitCode
}

// parseIndex reads the index typed in the input box. Rejections are
// apperrors.ValidationError values.
func parseIndex(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, apperrors.ValidationError{Field: "n", Message: "enter an index"}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, apperrors.ValidationError{
			Field:   "n",
			Message: fmt.Sprintf("index must be an integer in [0, %d]", uint32(math.MaxUint32)),
		}
	}
	return uint32(n), nil
}

func allDigits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Run is the entry point of TUI mode. It blocks until the user quits or ctx
// is done and returns the exit code of the last completed run.
func Run(ctx context.Context, calculators []fibonacci.Calculator, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, calculators, cfg, version)
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		m.stopRun()
		return m.ExitCode()
	}
	return apperrors.ExitSuccess
}

// startCalculationCmd runs every calculator for n and reports through the
// bridge, tagging all messages with gen.
func startCalculationCmd(ref *programRef, ctx context.Context, calculators []fibonacci.Calculator, n uint32, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref, generation: gen}
		presenter := &TUIResultPresenter{ref: ref, generation: gen}

		results := orchestration.ExecuteCalculations(ctx, calculators, n, reporter, io.Discard)
		exitCode := orchestration.AnalyzeComparisonResults(results, orchestration.PresentationOptions{N: n}, presenter, presenter, io.Discard)
		return CalculationCompleteMsg{Generation: gen, ExitCode: exitCode}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleSysStatsCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample(ctx)
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

// watchContextCmd waits for ctx to be done.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
