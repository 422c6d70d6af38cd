package update

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/hikari/internal/model"
	"github.com/sandeepkv93/hikari/internal/scheduler"
	"github.com/sandeepkv93/hikari/internal/workspace"
)

type View string

const (
	ViewToday    View = "Today"
	ViewOverview View = "Overview"
	ViewProject  View = "Project"
)

type Pane string

const (
	PaneSidebar Pane = "sidebar"
	PaneTasks   Pane = "tasks"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Today    string
	Overview string
	Switch   string
	Palette  string
	Refresh  string
	Help     string
	Quit     string
}

// Clock supplies the current instant and the zone that decides "today".
type Clock interface {
	Now() time.Time
	Location() *time.Location
	Today() model.Date
}

type Options struct {
	Workspace *workspace.Workspace
	Clock     Clock
	Scheduler *scheduler.Engine
	AlertLead time.Duration
	Logger    *log.Logger
}

type Model struct {
	CurrentView    View
	ProjectID      string
	Project        *model.Project
	Pane           Pane
	SidebarCursor  int
	TaskCursor     int
	Expanded       map[string]bool
	UnassignedOnly bool
	Palette        CommandPaletteState
	HelpVisible    bool
	Notifications  []Notification
	AlertLog       []scheduler.DeadlineEvent
	Loading        bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	ws        *workspace.Workspace
	clock     Clock
	scheduler *scheduler.Engine
	alertLead time.Duration
	log       *log.Logger
	ctx       context.Context
	snapshot  workspace.Snapshot

	commandInput textinput.Model
	helpModel    help.Model
	loadSpinner  spinner.Model
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

// LoadedMsg carries the cache contents after the current view was fetched.
type LoadedMsg struct {
	Snapshot workspace.Snapshot
	Project  *model.Project
	Err      error
}

// WriteDoneMsg reports the stored row after a mutation.
type WriteDoneMsg struct {
	Action string
	Task   model.Task
	Err    error
}

// ProjectCreatedMsg reports a new project or subproject.
type ProjectCreatedMsg struct {
	Project model.Project
	Err     error
}

type SwitchViewMsg struct {
	View      View
	ProjectID string
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type AlertMsg struct {
	Event scheduler.DeadlineEvent
}

func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := Model{
		CurrentView: ViewToday,
		Pane:        PaneSidebar,
		Expanded:    make(map[string]bool),
		Keys: GlobalKeyMap{
			Today:    "1",
			Overview: "2",
			Switch:   "tab",
			Palette:  "/",
			Refresh:  "r",
			Help:     "?",
			Quit:     "q",
		},
		ws:        opts.Workspace,
		clock:     opts.Clock,
		scheduler: opts.Scheduler,
		alertLead: opts.AlertLead,
		log:       logger,
		ctx:       context.Background(),
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "add Buy milk ! due:tomorrow"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 56

	m.loadSpinner = spinner.New()
	m.loadSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

func (m Model) now() time.Time {
	if m.clock == nil {
		return time.Now()
	}
	return m.clock.Now()
}

func (m Model) location() *time.Location {
	if m.clock == nil {
		return time.Local
	}
	return m.clock.Location()
}

func (m Model) today() model.Date {
	if m.clock == nil {
		return model.DateOf(time.Now(), time.Local)
	}
	return m.clock.Today()
}
