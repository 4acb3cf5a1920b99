// Package tui provides a Bubble Tea terminal user interface for
// discografia-dl.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vgomes/discografia-dl/internal/config"
	"github.com/vgomes/discografia-dl/internal/download"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2E8B57")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// Mode selects which extraction the run performs.
type Mode int

const (
	ModePlaylist Mode = iota
	ModeAuthor
)

func (m Mode) String() string {
	if m == ModeAuthor {
		return "Author"
	}
	return "Playlist"
}

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	mode      Mode
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error
	result    *download.Result

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	// Event stream from the running pipeline
	events chan download.ProgressEvent

	// Download progress
	completed int
	total     int

	// Options
	verbose bool
	xlsx    bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	ti := textinput.New()
	ti.Placeholder = "https://discografiabrasileira.com.br/playlists/247664/..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E8B57"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	settings := config.DefaultSettings()

	return Model{
		state:     StateInput,
		mode:      ModePlaylist,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		xlsx:      settings.ReportXLSX,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one pipeline event into the UI.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// RunDoneMsg is sent when the whole run completes.
	RunDoneMsg struct {
		Result *download.Result
		Err    error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateRunning
				m.events = make(chan download.ProgressEvent, 64)
				return m, tea.Batch(m.startRun(), m.waitForEvent(), m.spinner.Tick)
			}

		case "tab", "m":
			if m.state == StateInput {
				if m.mode == ModePlaylist {
					m.mode = ModeAuthor
					m.textInput.Placeholder = "Nilton Bastos"
				} else {
					m.mode = ModePlaylist
					m.textInput.Placeholder = "https://discografiabrasileira.com.br/playlists/247664/..."
				}
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "x":
			if m.state == StateInput {
				m.xlsx = !m.xlsx
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new run
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.result = nil
				m.completed = 0
				m.total = 0
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Total > 0 {
			m.completed = msg.Event.Completed
			m.total = msg.Event.Total
			cmds = append(cmds, m.progress.SetPercent(float64(m.completed)/float64(m.total)))
		}

		if msg.Event.Level != download.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
			// Keep only last 10 logs
			if len(m.logs) > 10 {
				m.logs = m.logs[len(m.logs)-10:]
			}
		}
		cmds = append(cmds, m.waitForEvent())

	case RunDoneMsg:
		m.result = msg.Result
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// startRun launches the pipeline in the background and reports completion.
func (m *Model) startRun() tea.Cmd {
	ctx := m.ctx
	mode := m.mode
	input := strings.TrimSpace(m.textInput.Value())
	events := m.events

	settings := m.settings
	settings.ReportXLSX = m.xlsx

	return func() tea.Msg {
		manager := download.NewManager(settings, func(event download.ProgressEvent) {
			select {
			case events <- event:
			default:
				// UI fell behind; drop rather than block the pipeline.
			}
		})

		var (
			result *download.Result
			err    error
		)
		if mode == ModePlaylist {
			var id string
			if id, err = download.PlaylistID(input); err == nil {
				result, err = manager.RunPlaylist(ctx, id)
			}
		} else {
			result, err = manager.RunAuthor(ctx, input)
		}

		close(events)
		return RunDoneMsg{Result: result, Err: err}
	}
}

// waitForEvent forwards the next pipeline event into the UI loop.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Discografia Brasileira Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Extract, download and audit track catalogs"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	if m.mode == ModePlaylist {
		b.WriteString(subtitleStyle.Render("Enter playlist URL or id:"))
	} else {
		b.WriteString(subtitleStyle.Render("Enter author name:"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}
	format := "CSV"
	if m.xlsx {
		format = "XLSX"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Mode: %s (tab)\n", m.mode))
	b.WriteString(fmt.Sprintf("  Report format: %s (x)\n", format))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.settings.OutputDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	if m.total == 0 {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Extracting track metadata..."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.progress.View())
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("Tracks: %d/%d", m.completed, m.total)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	downloaded, totalRecords := 0, 0
	reportPath := ""
	if m.result != nil {
		downloaded = m.result.Downloaded
		totalRecords = len(m.result.Records)
		reportPath = m.result.CompleteReport
	}

	body := fmt.Sprintf("Run complete!\n\nTracks downloaded: %d/%d", downloaded, totalRecords)
	if reportPath != "" {
		body += fmt.Sprintf("\nAudit report: %s", reportPath)
	}

	return boxStyle.Render(body)
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "*"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "x"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "+"
		case download.LevelInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start | tab: playlist/author | x: format | v: verbose | esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run | q: quit"
	}
	return ""
}

// Run starts the TUI program and blocks until it exits.
func Run() error {
	p := tea.NewProgram(NewModel())
	_, err := p.Run()
	return err
}
