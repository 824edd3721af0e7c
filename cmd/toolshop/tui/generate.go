package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marshallshelly/toolshop-fixtures/pkg/pipeline"
)

// GenerateMode represents the current mode of the generation UI
type GenerateMode int

const (
	ModeList GenerateMode = iota
	ModeConfirm
	ModeExecuting
	ModeComplete
	ModeError
)

// ErrAborted is returned when the UI is closed before a run starts.
var ErrAborted = errors.New("generation cancelled before it started")

// Runner executes the pipeline, reporting stage events to observe.
type Runner func(ctx context.Context, observe func(pipeline.Event)) (*pipeline.Report, error)

// GenerateModel is the main Bubbletea model for interactive generation
type GenerateModel struct {
	mode         GenerateMode
	list         list.Model
	confirmation ConfirmationDialog
	progress     ProgressView
	logs         LogView
	err          error
	width        int
	height       int
	destination  string
	run          Runner
	ctx          context.Context
	cancel       context.CancelFunc
	events       chan tea.Msg
	report       *pipeline.Report
}

// NewGenerateModel creates a new generation UI model
func NewGenerateModel(ctx context.Context, destination string, counts pipeline.Counts, run Runner) GenerateModel {
	requested := map[string]int{
		pipeline.Stages[0]: counts.Categories,
		pipeline.Stages[1]: counts.Users,
		pipeline.Stages[2]: counts.Products,
		pipeline.Stages[3]: counts.Transactions,
	}
	items := make([]list.Item, len(pipeline.Stages))
	for i, stage := range pipeline.Stages {
		items[i] = StageItem{Stage: stage, Count: requested[stage], Status: StatusPending}
	}

	l := list.New(items, StageItemDelegate{}, 0, 0)
	l.Title = "Toolshop Fixtures"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	ctx, cancel := context.WithCancel(ctx)
	return GenerateModel{
		mode:        ModeList,
		list:        l,
		logs:        NewLogView(8),
		destination: destination,
		run:         run,
		ctx:         ctx,
		cancel:      cancel,
		events:      make(chan tea.Msg),
	}
}

// Report returns the finished run report, or nil when nothing ran.
func (m GenerateModel) Report() *pipeline.Report { return m.report }

// Err returns the error that stopped the run, if any.
func (m GenerateModel) Err() error { return m.err }

// Result returns the report and error of the run. A model closed without
// running yields ErrAborted so callers never see a nil report with a nil error.
func (m GenerateModel) Result() (*pipeline.Report, error) {
	if m.report == nil && m.err == nil {
		return nil, ErrAborted
	}
	return m.report, m.err
}

// Init initializes the model
func (m GenerateModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Messages
type stageEventMsg pipeline.Event

type runFinishedMsg struct {
	report *pipeline.Report
	err    error
}

// Commands
func startRunCmd(ctx context.Context, run Runner, events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			report, err := run(ctx, func(e pipeline.Event) {
				events <- stageEventMsg(e)
			})
			events <- runFinishedMsg{report: report, err: err}
			close(events)
		}()
		return <-events
	}
}

func waitForEventCmd(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// Update handles messages
func (m GenerateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case stageEventMsg:
		m.applyEvent(pipeline.Event(msg))
		return m, waitForEventCmd(m.events)

	case runFinishedMsg:
		m.report = msg.report
		m.err = msg.err
		if msg.err != nil {
			m.mode = ModeError
			return m, nil
		}
		m.mode = ModeComplete
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeList:
			switch msg.String() {
			case "ctrl+c", "q":
				m.cancel()
				return m, tea.Quit
			case "enter", " ", "g":
				m.confirmation = NewConfirmationDialog(
					"Confirm Generation",
					fmt.Sprintf("Generate the catalog into:\n%s", m.destination),
				)
				m.mode = ModeConfirm
				return m, nil
			}

		case ModeConfirm:
			switch msg.String() {
			case "ctrl+c", "q", "esc":
				m.mode = ModeList
				return m, nil
			}
			answered, yes := m.confirmation.Update(msg)
			if !answered {
				return m, nil
			}
			if !yes {
				m.mode = ModeList
				return m, nil
			}
			m.mode = ModeExecuting
			m.progress = ProgressView{Total: len(pipeline.Stages), Message: "Starting"}
			return m, startRunCmd(m.ctx, m.run, m.events)

		case ModeExecuting:
			if msg.String() == "ctrl+c" {
				m.cancel()
				m.logs.AddLog(warningStyle.Render("Cancelling after the current stage"))
			}
			return m, nil

		case ModeComplete, ModeError:
			switch msg.String() {
			case "ctrl+c", "q", "enter":
				m.cancel()
				return m, tea.Quit
			}
		}
	}

	if m.mode == ModeList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *GenerateModel) applyEvent(e pipeline.Event) {
	item, ok := m.list.Items()[e.Index].(StageItem)
	if !ok {
		return
	}

	if e.Result == nil {
		item.Status = StatusRunning
		item.Detail = "Generating"
		m.progress.Message = fmt.Sprintf("Generating %s", e.Stage)
		m.list.SetItem(e.Index, item)
		return
	}

	m.progress.Current = e.Index + 1
	if e.Result.OK() {
		item.Status = StatusOK
		item.Detail = fmt.Sprintf("%d rows → %s in %s", e.Result.Rows, e.Result.Destination, e.Result.Duration.Round(time.Millisecond))
		m.logs.AddLog(successStyle.Render("✓ " + e.Stage))
	} else {
		item.Status = StatusFailed
		item.Detail = e.Result.Err.Error()
		m.logs.AddLog(dangerStyle.Render("✗ " + e.Stage + ": " + e.Result.Err.Error()))
	}
	m.list.SetItem(e.Index, item)
}

// View renders the UI
func (m GenerateModel) View() string {
	switch m.mode {
	case ModeList:
		help := helpStyle.Render(
			FormatKey("enter", "generate") + " • " +
				FormatKey("q", "quit"),
		)
		return lipgloss.JoinVertical(lipgloss.Left,
			m.list.View(),
			help,
		)

	case ModeConfirm:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirmation.View())

	case ModeExecuting:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Left,
				m.progress.View(),
				"\n",
				m.logs.View(),
			),
		)

	case ModeComplete:
		failed := 0
		if m.report != nil {
			failed = len(m.report.Failed())
		}
		summary := successStyle.Render(fmt.Sprintf("Wrote %d of %d tables", len(pipeline.Stages)-failed, len(pipeline.Stages)))
		if failed > 0 {
			summary += "\n" + warningStyle.Render(fmt.Sprintf("%d stage(s) failed", failed))
		}
		msg := titleStyle.Render("Generation Complete") + "\n\n" +
			summary + "\n\n" +
			m.logs.View() + "\n" +
			helpStyle.Render(FormatKey("enter/q", "exit"))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(msg))

	case ModeError:
		msg := titleStyle.Render("Generation Failed") + "\n\n" +
			errorStyle.Render(m.err.Error()) + "\n\n" +
			helpStyle.Render(FormatKey("enter/q", "exit"))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(msg))
	}

	return "Unknown mode"
}

// RunGenerateUI starts the interactive generation UI and returns the run report.
func RunGenerateUI(ctx context.Context, destination string, counts pipeline.Counts, run Runner) (*pipeline.Report, error) {
	p := tea.NewProgram(NewGenerateModel(ctx, destination, counts, run))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(GenerateModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model %T", final)
	}
	return m.Result()
}
