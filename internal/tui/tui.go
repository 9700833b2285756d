// Package tui provides the Bubble Tea terminal user interface for standup.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xrehpicx/standup/internal/ai"
	"github.com/xrehpicx/standup/internal/audio"
	"github.com/xrehpicx/standup/internal/config"
	"github.com/xrehpicx/standup/internal/library"
	"github.com/xrehpicx/standup/internal/model"
	"github.com/xrehpicx/standup/internal/playback"
	"github.com/xrehpicx/standup/internal/storage"
	"github.com/xrehpicx/standup/internal/store"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7AA2F7")).
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

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	recordingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BB9AF7"))
)

// State represents the current UI state.
type State int

const (
	StateList State = iota
	StateDetail
	StatePulling
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   library.ProgressLevel
}

// recordingView is the per-recording player surface state mirrored from
// playback events. The TUI never asks the Player for state directly; it
// renders what the events told it.
type recordingView struct {
	playing  bool
	position time.Duration
	duration time.Duration
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	store    *store.Store
	logs     []LogEntry
	err      error

	// Meeting list
	meetings []*model.Meeting
	cursor   int
	loading  bool

	// Meeting detail: one player surface per recording, all sharing the
	// single coordinated element.
	meeting     *model.Meeting
	recCursor   int
	coordinator *playback.Coordinator
	players     []*playback.Player
	recViews    []recordingView
	volume      float64
	muted       bool

	// Event bridges. Player emit callbacks and pull progress callbacks must
	// not block, so both drop into buffered channels drained by commands.
	playbackEvents chan playback.Event
	progressEvents chan library.ProgressEvent

	// Pull context
	ctx    context.Context
	cancel context.CancelFunc
	puller *library.Puller

	// Background job label, empty when idle.
	job string

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings, st *store.Store) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateList,
		spinner:  sp,
		progress: prog,
		settings: settings,
		store:    st,
		loading:  true,
		coordinator: playback.NewCoordinator(func() (playback.Element, error) {
			return audio.NewOutput()
		}),
		volume:         1.0,
		playbackEvents: make(chan playback.Event, 64),
		progressEvents: make(chan library.ProgressEvent, 64),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadMeetings(), m.waitForPlayback(), m.waitForProgress())
}

// Message types
type (
	// MeetingsMsg is sent when the meeting list finished loading.
	MeetingsMsg struct {
		Meetings []*model.Meeting
		Err      error
	}

	// PlaybackMsg carries one playback event from a player surface.
	PlaybackMsg struct {
		Event playback.Event
	}

	// ProgressMsg is sent when pull or export progress updates.
	ProgressMsg struct {
		Event library.ProgressEvent
	}

	// PullDoneMsg is sent when a workspace pull completes.
	PullDoneMsg struct {
		Err error
	}

	// JobDoneMsg is sent when a background job (outcome, export) completes.
	JobDoneMsg struct {
		Label string
		Err   error
	}

	// TickMsg is for periodic pull progress updates.
	TickMsg struct{}
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

	case tea.BlurMsg:
		// Terminal lost focus. Surfaces report the pause through their own
		// intent events, so no local state is touched here.
		for _, p := range m.players {
			p.Hidden()
		}
		return m, nil

	case tea.FocusMsg:
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case MeetingsMsg:
		m.loading = false
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.meetings = msg.Meetings
			if m.cursor >= len(m.meetings) {
				m.cursor = 0
			}
		}

	case PlaybackMsg:
		m.applyPlaybackEvent(msg.Event)
		cmds = append(cmds, m.waitForPlayback())

	case ProgressMsg:
		if msg.Event.Level != library.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			if len(m.logs) > 10 {
				m.logs = m.logs[len(m.logs)-10:]
			}
		}
		cmds = append(cmds, m.waitForProgress())

	case PullDoneMsg:
		m.puller = nil
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateList
			m.loading = true
			cmds = append(cmds, m.loadMeetings())
		}

	case JobDoneMsg:
		m.job = ""
		level := library.LevelSuccess
		message := fmt.Sprintf("%s done", msg.Label)
		if msg.Err != nil {
			level = library.LevelError
			message = fmt.Sprintf("%s failed: %v", msg.Label, msg.Err)
		}
		m.logs = append(m.logs, LogEntry{Message: message, Level: level})

	case TickMsg:
		if m.puller != nil && m.state == StatePulling {
			done, total := m.puller.Progress()
			var percent float64
			if total > 0 {
				percent = float64(done) / float64(total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()

	case "q":
		if m.state != StatePulling {
			return m.quit()
		}

	case "esc":
		switch m.state {
		case StateList:
			return m.quit()
		case StateDetail:
			m.closeMeeting()
			m.state = StateList
		case StatePulling:
			m.cancel()
		case StateError:
			m.err = nil
			m.state = StateList
			m.loading = true
			return m, m.loadMeetings()
		}

	case "up", "k":
		if m.state == StateList && m.cursor > 0 {
			m.cursor--
		}
		if m.state == StateDetail && m.recCursor > 0 {
			m.recCursor--
		}

	case "down", "j":
		if m.state == StateList && m.cursor < len(m.meetings)-1 {
			m.cursor++
		}
		if m.state == StateDetail && m.recCursor < len(m.players)-1 {
			m.recCursor++
		}

	case "enter":
		if m.state == StateList && len(m.meetings) > 0 {
			m.openMeeting(m.meetings[m.cursor])
			return m, nil
		}
		if m.state == StateDetail {
			m.togglePlayback()
		}

	case " ":
		if m.state == StateDetail {
			m.togglePlayback()
		}

	case "left":
		m.seekBy(-5 * time.Second)

	case "right":
		m.seekBy(5 * time.Second)

	case "m":
		if m.state == StateDetail {
			m.muted = !m.muted
			if p := m.currentPlayer(); p != nil {
				p.SetMuted(m.muted)
			}
		}

	case "+", "=":
		m.adjustVolume(0.1)

	case "-":
		m.adjustVolume(-0.1)

	case "p":
		if m.state == StateList && m.puller == nil {
			m.state = StatePulling
			m.logs = nil
			m.ctx, m.cancel = context.WithCancel(context.Background())
			cmd := m.startPull()
			return m, tea.Batch(cmd, m.tickProgress(), m.spinner.Tick)
		}

	case "r":
		if m.state == StateList {
			m.loading = true
			return m, m.loadMeetings()
		}

	case "v":
		m.verbose = !m.verbose

	case "t":
		if m.state == StateDetail && m.job == "" {
			cmd := m.startOutcome(model.OutcomeTranscript)
			return m, cmd
		}

	case "s":
		if m.state == StateDetail && m.job == "" {
			cmd := m.startOutcome(model.OutcomeSummary)
			return m, cmd
		}

	case "a":
		if m.state == StateDetail && m.job == "" {
			cmd := m.startOutcome(model.OutcomeActionItems)
			return m, cmd
		}

	case "e":
		if m.state == StateDetail && m.job == "" {
			cmd := m.startExport()
			return m, cmd
		}
	}

	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.closeMeeting()
	m.coordinator.Shutdown()
	m.cancel()
	return *m, tea.Quit
}

// openMeeting switches to the detail view and binds one player surface per
// recording. All players share the coordinator, so starting one recording
// pauses whichever was playing before.
func (m *Model) openMeeting(meeting *model.Meeting) {
	m.meeting = meeting
	m.recCursor = 0
	m.players = make([]*playback.Player, 0, len(meeting.Recordings))
	m.recViews = make([]recordingView, len(meeting.Recordings))

	opts := playback.Options{
		ReadyTimeout:     m.settings.ReadyTimeout(),
		ReportInterval:   m.settings.ReportInterval(),
		PositionThrottle: m.settings.PositionThrottle(),
	}
	events := m.playbackEvents
	emit := func(event playback.Event) {
		// Never block the player's delivery goroutine. A full channel means
		// the UI is behind on position updates; dropping is fine.
		select {
		case events <- event:
		default:
		}
	}
	for i, rec := range meeting.Recordings {
		m.recViews[i] = recordingView{duration: rec.DurationTime()}
		m.players = append(m.players, playback.NewPlayer(m.coordinator, rec.Path, emit, opts))
	}
	m.state = StateDetail
}

// closeMeeting releases the detail view's players. The shared element
// outlives them and is reused by the next meeting.
func (m *Model) closeMeeting() {
	for _, p := range m.players {
		p.Close()
	}
	m.players = nil
	m.recViews = nil
	m.meeting = nil
}

func (m *Model) currentPlayer() *playback.Player {
	if m.recCursor < 0 || m.recCursor >= len(m.players) {
		return nil
	}
	return m.players[m.recCursor]
}

func (m *Model) togglePlayback() {
	p := m.currentPlayer()
	if p == nil {
		return
	}
	if m.recViews[m.recCursor].playing {
		p.Pause()
		m.recViews[m.recCursor].playing = false
		return
	}
	if err := p.Play(); err != nil {
		m.logs = append(m.logs, LogEntry{
			Message: fmt.Sprintf("Playback error: %v", err),
			Level:   library.LevelError,
		})
		return
	}
	m.recViews[m.recCursor].playing = true
}

func (m *Model) seekBy(delta time.Duration) {
	if m.state != StateDetail {
		return
	}
	p := m.currentPlayer()
	if p == nil {
		return
	}
	target := m.recViews[m.recCursor].position + delta
	if target < 0 {
		target = 0
	}
	p.Seek(target)
}

func (m *Model) adjustVolume(delta float64) {
	if m.state != StateDetail {
		return
	}
	m.volume += delta
	if m.volume < 0 {
		m.volume = 0
	}
	if m.volume > 1 {
		m.volume = 1
	}
	if p := m.currentPlayer(); p != nil {
		p.SetVolume(m.volume)
	}
}

// applyPlaybackEvent mirrors a player event into the matching recording's
// view state. Events are matched by source because all surfaces share one
// delivery channel.
func (m *Model) applyPlaybackEvent(event playback.Event) {
	if m.meeting == nil {
		return
	}
	for i, rec := range m.meeting.Recordings {
		if rec.Path != event.Source {
			continue
		}
		switch event.Kind {
		case playback.EventIntent:
			m.recViews[i].playing = event.Playing
		case playback.EventPosition:
			m.recViews[i].position = event.Position
		case playback.EventDuration:
			m.recViews[i].duration = event.Duration
		case playback.EventNotice:
			m.logs = append(m.logs, LogEntry{
				Message: fmt.Sprintf("%s: %v", rec.Title, event.Err),
				Level:   library.LevelWarning,
			})
		}
		return
	}
}

// Commands

// loadMeetings reads the library asynchronously. It deliberately does not
// use the pull context: cancelling a pull must not poison list reloads.
func (m Model) loadMeetings() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		meetings, err := st.ListMeetings(context.Background())
		return MeetingsMsg{Meetings: meetings, Err: err}
	}
}

func (m Model) waitForPlayback() tea.Cmd {
	events := m.playbackEvents
	return func() tea.Msg {
		return PlaybackMsg{Event: <-events}
	}
}

func (m Model) waitForProgress() tea.Cmd {
	events := m.progressEvents
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

func (m Model) progressSink() func(library.ProgressEvent) {
	events := m.progressEvents
	return func(event library.ProgressEvent) {
		select {
		case events <- event:
		default:
		}
	}
}

func (m *Model) startPull() tea.Cmd {
	client := storage.NewClient(m.settings.WorkspaceURL, m.settings.WorkspaceToken)
	puller := library.NewPuller(m.settings, client, m.store, m.progressSink())
	m.puller = puller
	ctx := m.ctx
	return func() tea.Msg {
		return PullDoneMsg{Err: puller.Pull(ctx)}
	}
}

func (m *Model) startOutcome(kind model.OutcomeKind) tea.Cmd {
	label := fmt.Sprintf("Generating %s", kind)
	m.job = label
	meeting := m.meeting
	service := library.NewOutcomeService(m.settings, ai.NewClient(m.settings.AIConfig()), m.store)
	ctx := m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		_, err := service.Generate(ctx, meeting, kind)
		return JobDoneMsg{Label: label, Err: err}
	})
}

func (m *Model) startExport() tea.Cmd {
	label := fmt.Sprintf("Exporting %s", m.meeting.Title)
	m.job = label
	meeting := m.meeting
	exporter := library.NewExporter(m.settings, m.progressSink())
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return JobDoneMsg{Label: label, Err: exporter.Export(meeting)}
	})
}

// tickProgress returns a command to tick pull progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("standup"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Meeting library"))
	b.WriteString("\n\n")

	switch m.state {
	case StateList:
		b.WriteString(m.viewList())
	case StateDetail:
		b.WriteString(m.viewDetail())
	case StatePulling:
		b.WriteString(m.viewPulling())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewList() string {
	var b strings.Builder

	if m.loading {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Loading meetings..."))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.meetings) == 0 {
		b.WriteString(dimStyle.Render("No meetings yet. Press p to pull from the workspace."))
		b.WriteString("\n")
		return b.String()
	}

	for i, meeting := range m.meetings {
		line := fmt.Sprintf("%s  %s  %s",
			meeting.StartedAt.Format("2006-01-02"),
			meeting.Title,
			dimStyle.Render(fmt.Sprintf("(%d recordings)", len(meeting.Recordings))),
		)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDetail() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(m.meeting.Title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.meeting.StartedAt.Format("Mon, 02 Jan 2006 15:04")))
	b.WriteString("\n")
	if names := m.meeting.ParticipantNames(); len(names) > 0 {
		b.WriteString(infoStyle.Render(strings.Join(names, ", ")))
		b.WriteString("\n")
	}
	b.WriteString(m.viewOutcomeFlags())
	b.WriteString("\n")

	for i, rec := range m.meeting.Recordings {
		view := m.recViews[i]
		indicator := "▶"
		if view.playing {
			indicator = "⏸"
		}
		line := fmt.Sprintf("%s %s  %s / %s",
			indicator,
			recordingStyle.Render(rec.Title),
			formatDuration(view.position),
			formatDuration(view.duration),
		)
		if i == m.recCursor {
			b.WriteString(selectedStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	volume := fmt.Sprintf("Volume: %.0f%%", m.volume*100)
	if m.muted {
		volume += " (muted)"
	}
	b.WriteString(dimStyle.Render(volume))
	b.WriteString("\n")

	if m.job != "" {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render(m.job + "..."))
		b.WriteString("\n")
	}

	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}

	return b.String()
}

func (m Model) viewOutcomeFlags() string {
	var flags []string
	for _, kind := range []model.OutcomeKind{model.OutcomeTranscript, model.OutcomeSummary, model.OutcomeActionItems} {
		if m.meeting.Outcome(kind) != nil {
			flags = append(flags, successStyle.Render("✓ "+string(kind)))
		} else {
			flags = append(flags, dimStyle.Render("✗ "+string(kind)))
		}
	}
	return strings.Join(flags, "  ")
}

func (m Model) viewPulling() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Pulling from workspace..."))
	b.WriteString("\n\n")

	var done, total int32
	if m.puller != nil {
		done, total = m.puller.Progress()
	}
	var percent float64
	if total > 0 {
		percent = float64(done) / float64(total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Recordings: %d/%d", done, total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case library.LevelError:
			style = errorStyle
			prefix = "✗"
		case library.LevelWarning:
			style = warningStyle
			prefix = "!"
		case library.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case library.LevelInfo:
			style = infoStyle
			prefix = "›"
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
	case StateList:
		return "enter: open • p: pull • r: refresh • v: verbose • q: quit"
	case StateDetail:
		return "space: play/pause • ←/→: seek 5s • +/-: volume • m: mute • t/s/a: transcript/summary/actions • e: export • esc: back"
	case StatePulling:
		return "esc: cancel"
	case StateError:
		return "esc: back • q: quit"
	}
	return ""
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// Run starts the TUI application.
func Run(settings *config.Settings, st *store.Store) error {
	p := tea.NewProgram(NewModel(settings, st), tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}
