package ui

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/config"
	"taskdash/internal/tasks"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeSearch
	modeMenu
)

// Backend is the data source behind the board: it seeds it and mirrors every
// change. A nil Backend keeps the session in memory only.
type Backend interface {
	FetchTasks() ([]tasks.Task, error)
	Apply(tasks.Change) error
}

type Model struct {
	board       *tasks.Board
	backend     Backend
	cfg         config.Config
	feed        *changeFeed
	unsubscribe func()
	now         func() time.Time

	filter     tasks.Status
	query      string
	cursor     int
	mode       mode
	input      textinput.Model
	search     textinput.Model
	menu       menuState
	status     string
	loading    bool
	confirmDel bool
	pendingDel Selection
}

func Run(board *tasks.Board, backend Backend, cfg config.Config) error {
	if backend != nil {
		initial, err := backend.FetchTasks()
		if err != nil {
			return err
		}
		board.Load(initial)
	}

	m := New(board, backend, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()

	m.unsubscribe()
	if rest := m.feed.close(); len(rest) > 0 {
		if serr := m.feed.save(backend, rest); serr != nil {
			log.Printf("persist %d change(s) on exit: %v", len(rest), serr)
			if err == nil {
				err = serr
			}
		}
	}
	return err
}

func New(board *tasks.Board, backend Backend, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Add a new task..."
	ti.CharLimit = 256
	ti.Width = 40

	si := textinput.New()
	si.Placeholder = "Search tasks..."
	si.CharLimit = 256
	si.Width = 40

	filter, err := tasks.ParseStatus(cfg.DefaultFilter)
	status := fmt.Sprintf("Press '%s' to add, '%s' to search, '%s' for the task menu.", cfg.Keys.Add, cfg.Keys.Search, cfg.Keys.Menu)
	if err != nil {
		status = err.Error()
	}

	feed := newChangeFeed()
	unsubscribe := board.Subscribe(feed.push)

	return Model{
		board:       board,
		backend:     backend,
		cfg:         cfg,
		feed:        feed,
		unsubscribe: unsubscribe,
		now:         time.Now,
		filter:      filter,
		input:       ti,
		search:      si,
		menu:        closedMenu(),
		mode:        modeList,
		status:      status,
		pendingDel:  NoSelection{},
	}
}

func (m Model) Init() tea.Cmd {
	return listen(m.feed, m.backend)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
		m.search.Width = msg.Width - 10
	case persistedMsg:
		m.reportSave(msg.count, msg.err)
		return m, listen(m.feed, m.backend)
	case fetchedMsg:
		m.reportSave(msg.saved, msg.saveErr)
		if msg.err != nil {
			m.loading = false
			log.Printf("refresh: %v", msg.err)
			m.status = fmt.Sprintf("refresh failed: %v", msg.err)
			return m, listen(m.feed, m.backend)
		}
		if m.feed.changedSince(msg.seq) {
			// edited while the read was in flight; read again behind those writes
			m.feed.requestRefresh()
			return m, listen(m.feed, m.backend)
		}
		m.loading = false
		loaded := m.board.Load(msg.tasks)
		m.cursor = clampCursor(m.cursor, len(m.visible().Tasks))
		m.status = fmt.Sprintf("Loaded %d tasks", len(loaded))
		return m, listen(m.feed, m.backend)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(key, msg)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	case modeMenu:
		return m.updateMenuMode(key)
	}
	return m.updateListMode(key)
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		t, ok := m.board.Add(m.input.Value())
		if !ok {
			m.status = "Title cannot be empty"
			return m, nil
		}
		m.status = fmt.Sprintf("Added %q", t.Title)
		m.cursor = 0
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.search.SetValue("")
		m.search.Blur()
		m.query = ""
		m.mode = modeList
		m.status = "Search cleared"
		return m, nil
	case m.cfg.Keys.Confirm:
		m.search.Blur()
		m.mode = modeList
		m.cursor = clampCursor(m.cursor, len(m.visible().Tasks))
		return m, nil
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.query = m.search.Value()
		m.cursor = clampCursor(m.cursor, len(m.visible().Tasks))
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	visible := m.visible().Tasks
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(visible))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(visible))
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.input.Focus()
		m.status = "Add mode: type a title and press Enter"
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.search.SetValue(m.query)
		m.search.Focus()
		m.status = "Search: type to filter, Enter to keep, Esc to clear"
	case m.cfg.Keys.NextTab:
		m.setFilter(m.filter.Next())
	case m.cfg.Keys.PrevTab:
		m.setFilter(m.filter.Prev())
	case "1", "2", "3", "4":
		m.setFilter(tasks.Statuses()[int(key[0]-'1')])
	case m.cfg.Keys.Cancel:
		if m.query != "" {
			m.query = ""
			m.search.SetValue("")
			m.status = "Search cleared"
		}
	case m.cfg.Keys.Refresh:
		if m.backend == nil {
			m.status = "Nothing to refresh from"
			return m, nil
		}
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.status = "Refreshing..."
		m.feed.requestRefresh()
	case m.cfg.Keys.Toggle:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		m.board.ToggleCompleted(t.ID)
		m.status = "Toggled task"
		m.cursor = clampCursor(m.cursor, len(m.visible().Tasks))
	case m.cfg.Keys.Star:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		m.board.ToggleImportant(t.ID)
		m.status = "Toggled importance"
		m.cursor = clampCursor(m.cursor, len(m.visible().Tasks))
	case m.cfg.Keys.PriorityUp, m.cfg.Keys.PriorityDown:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		p := t.Priority.Raise()
		if key == m.cfg.Keys.PriorityDown {
			p = t.Priority.Lower()
		}
		m.board.SetPriority(t.ID, p)
		m.status = "Priority: " + p.String()
	case m.cfg.Keys.DueForward, m.cfg.Keys.DueBack:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		return m.shiftDue(t, key == m.cfg.Keys.DueForward), nil
	case m.cfg.Keys.Delete:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = Selected{TaskID: t.ID}
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case m.cfg.Keys.Menu:
		t, ok := m.current()
		if !ok {
			m.status = "No tasks"
			return m, nil
		}
		m.menu = menuState{target: Selected{TaskID: t.ID}}
		m.mode = modeMenu
	case m.cfg.Keys.Confirm:
		t, ok := m.current()
		if !ok {
			m.status = "No tasks"
			return m, nil
		}
		m.status = m.describe(t)
	}
	return m, nil
}

func (m *Model) reportSave(count int, err error) {
	if err == nil {
		return
	}
	log.Printf("persist %d change(s): %v", count, err)
	m.status = fmt.Sprintf("save failed: %v", err)
}

func (m *Model) setFilter(s tasks.Status) {
	m.filter = s
	m.cursor = clampCursor(0, len(m.visible().Tasks))
	m.status = "Showing " + strings.ToLower(s.Label()) + " tasks"
}

func (m Model) shiftDue(t tasks.Task, forward bool) Model {
	if !t.HasDue() {
		if !forward {
			m.status = "No due date set"
			return m
		}
		y, mo, d := m.now().Date()
		m.board.SetDue(t.ID, tasks.DueDate(y, mo, d))
		m.status = "Due today"
		return m
	}
	days := -1
	if forward {
		days = 1
	}
	next := t.Due.Time.AddDate(0, 0, days)
	m.board.SetDue(t.ID, tasks.DueDate(next.Year(), next.Month(), next.Day()))
	m.status = "Due " + next.Format("2006-01-02")
	return m
}

func (m Model) updateMenuMode(key string) (tea.Model, tea.Cmd) {
	target, ok := m.menuTask()
	if !ok {
		m.menu = closedMenu()
		m.mode = modeList
		return m, nil
	}
	actions := menuActions(target)
	switch key {
	case m.cfg.Keys.Cancel, m.cfg.Keys.Menu, "ctrl+c":
		m.menu = closedMenu()
		m.mode = modeList
	case m.cfg.Keys.Down, "down":
		m.menu.index = wrapIndex(m.menu.index+1, len(actions))
	case m.cfg.Keys.Up, "up":
		m.menu.index = wrapIndex(m.menu.index-1, len(actions))
	case m.cfg.Keys.Confirm:
		m = m.runMenuAction(actions[clampCursor(m.menu.index, len(actions))])
	}
	return m, nil
}

func (m Model) menuTask() (tasks.Task, bool) {
	switch sel := m.menu.target.(type) {
	case Selected:
		return m.board.Find(sel.TaskID)
	case NoSelection:
		return tasks.Task{}, false
	}
	return tasks.Task{}, false
}

func (m Model) runMenuAction(a menuAction) Model {
	switch sel := m.menu.target.(type) {
	case NoSelection:
		m.status = "No task selected"
	case Selected:
		switch a {
		case actionImportant:
			m.board.ToggleImportant(sel.TaskID)
			m.status = "Toggled importance"
		case actionComplete:
			m.board.ToggleCompleted(sel.TaskID)
			m.status = "Toggled task"
		case actionClearDue:
			m.board.SetDue(sel.TaskID, sql.NullTime{})
			m.status = "Due date cleared"
		case actionDelete:
			m.board.Remove(sel.TaskID)
			m.status = "Deleted task"
		}
	}
	m.menu = closedMenu()
	m.mode = modeList
	m.cursor = clampCursor(m.cursor, len(m.visible().Tasks))
	return m
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
	case "y", "Y":
		switch sel := m.pendingDel.(type) {
		case Selected:
			m.board.Remove(sel.TaskID)
			m.cursor = clampCursor(m.cursor, len(m.visible().Tasks))
			m.status = "Deleted task"
		case NoSelection:
			m.status = "Nothing to delete"
		}
	default:
		return m, nil
	}
	m.confirmDel = false
	m.pendingDel = NoSelection{}
	return m, nil
}

func (m Model) visible() tasks.View {
	return m.board.View(m.filter, m.query)
}

func (m Model) current() (tasks.Task, bool) {
	visible := m.visible().Tasks
	if len(visible) == 0 {
		return tasks.Task{}, false
	}
	return visible[clampCursor(m.cursor, len(visible))], true
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
