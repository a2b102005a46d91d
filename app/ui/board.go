// Package ui provides the terminal board for taskboard.
package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/app/models"
)

// API is the surface of the task client the board depends on.
type API interface {
	ListPending(ctx context.Context, limit int) ([]models.Task, error)
	Create(ctx context.Context, title, description string) (*models.Task, error)
	Complete(ctx context.Context, id int64) error
}

// viewState is the board's load state machine.
type viewState int

const (
	stateLoading viewState = iota
	stateLoaded
	stateLoadError
)

// focusArea is the part of the board receiving key input.
type focusArea int

const (
	focusList focusArea = iota
	focusTitle
	focusDesc
)

const (
	// noticeTTL is how long a transient notification stays visible.
	noticeTTL = 3 * time.Second
	// maxNotices bounds the notification queue; the oldest entry is dropped.
	maxNotices = 5
	// sweepInterval is how often expired notifications are removed.
	sweepInterval = 500 * time.Millisecond
)

// Model is the Bubble Tea model for the board.
type Model struct {
	api   API
	limit int

	state   viewState
	tasks   []models.Task
	loadErr error

	cursor   int
	inflight map[int64]bool

	focus      focusArea
	titleInput string
	descInput  string

	notices []notice

	now func() time.Time
}

type notice struct {
	message string
	kind    string // "success" or "error"
	expires time.Time
}

// Messages.
type (
	tasksMsg       struct{ tasks []models.Task }
	loadErrMsg     struct{ err error }
	createdMsg     struct{ task *models.Task }
	createErrMsg   struct{ err error }
	completedMsg   struct{ id int64 }
	completeErrMsg struct {
		id  int64
		err error
	}
	sweepMsg time.Time
)

// NewModel creates a board backed by the given API client.
func NewModel(api API, limit int) *Model {
	return &Model{
		api:      api,
		limit:    limit,
		state:    stateLoading,
		inflight: make(map[int64]bool),
		now:      time.Now,
	}
}

// Run starts the board program.
func Run(ctx context.Context, api API, limit int) error {
	program := tea.NewProgram(NewModel(api, limit), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// Init issues the initial list fetch and starts the notification sweep.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), sweepCmd())
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tasksMsg:
		m.state = stateLoaded
		m.loadErr = nil
		m.tasks = msg.tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = len(m.tasks) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case loadErrMsg:
		m.state = stateLoadError
		m.loadErr = msg.err
		m.tasks = nil
		m.push("could not load tasks: "+msg.err.Error(), "error")
		return m, nil

	case createdMsg:
		m.titleInput = ""
		m.descInput = ""
		m.push("task created: "+msg.task.Title, "success")
		return m, m.fetchCmd()

	case createErrMsg:
		// Form contents stay intact so the user can fix and resubmit.
		m.push("create failed: "+msg.err.Error(), "error")
		return m, nil

	case completedMsg:
		delete(m.inflight, msg.id)
		m.push("task completed", "success")
		return m, m.fetchCmd()

	case completeErrMsg:
		// Re-enable the control; the task stays visible and unchanged.
		delete(m.inflight, msg.id)
		m.push("complete failed: "+msg.err.Error(), "error")
		return m, nil

	case sweepMsg:
		m.sweepExpired()
		return m, sweepCmd()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if msg.String() == "tab" {
		m.focus = (m.focus + 1) % 3
		return m, nil
	}

	if m.focus == focusTitle || m.focus == focusDesc {
		return m.handleFormKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m, m.fetchCmd()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m, m.completeSelected()
	}
	return m, nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := &m.titleInput
	if m.focus == focusDesc {
		field = &m.descInput
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m, m.submitForm()
	case tea.KeyBackspace:
		if *field != "" {
			runes := []rune(*field)
			*field = string(runes[:len(runes)-1])
		}
	case tea.KeyRunes:
		*field += string(msg.Runes)
	case tea.KeySpace:
		*field += " "
	}
	return m, nil
}

// submitForm validates the title locally; an empty trimmed title never
// reaches the network.
func (m *Model) submitForm() tea.Cmd {
	if strings.TrimSpace(m.titleInput) == "" {
		m.push("title must not be empty", "error")
		return nil
	}
	title, desc := m.titleInput, m.descInput
	return m.createCmd(title, desc)
}

// completeSelected disables the selected task's Done control and issues the
// Complete call. A task already in flight is ignored.
func (m *Model) completeSelected() tea.Cmd {
	if m.state != stateLoaded || m.cursor >= len(m.tasks) {
		return nil
	}
	id := m.tasks[m.cursor].ID
	if m.inflight[id] {
		return nil
	}
	m.inflight[id] = true
	return m.completeCmd(id)
}

func (m *Model) push(message, kind string) {
	m.notices = append(m.notices, notice{
		message: message,
		kind:    kind,
		expires: m.now().Add(noticeTTL),
	})
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
}

func (m *Model) sweepExpired() {
	now := m.now()
	kept := m.notices[:0]
	for _, n := range m.notices {
		if n.expires.After(now) {
			kept = append(kept, n)
		}
	}
	m.notices = kept
}

// Commands.

func (m *Model) fetchCmd() tea.Cmd {
	api, limit := m.api, m.limit
	return func() tea.Msg {
		tasks, err := api.ListPending(context.Background(), limit)
		if err != nil {
			return loadErrMsg{err: err}
		}
		return tasksMsg{tasks: tasks}
	}
}

func (m *Model) createCmd(title, description string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		task, err := api.Create(context.Background(), title, description)
		if err != nil {
			return createErrMsg{err: err}
		}
		return createdMsg{task: task}
	}
}

func (m *Model) completeCmd(id int64) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		if err := api.Complete(context.Background(), id); err != nil {
			return completeErrMsg{id: id, err: err}
		}
		return completedMsg{id: id}
	}
}

func sweepCmd() tea.Cmd {
	return tea.Tick(sweepInterval, func(t time.Time) tea.Msg {
		return sweepMsg(t)
	})
}
