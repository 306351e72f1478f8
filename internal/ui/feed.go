package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/tasks"
)

// changeFeed queues board changes without ever blocking the board. A single
// listener command drains it, so changes reach the backend in order and a
// requested refresh only reads after every queued change has been written.
type changeFeed struct {
	mu      sync.Mutex
	queue   []tasks.Change
	pushed  uint64
	refresh bool
	closed  bool
	ready   chan struct{}

	// held while writing to or reading from the backend
	io sync.Mutex
}

func newChangeFeed() *changeFeed {
	return &changeFeed{ready: make(chan struct{}, 1)}
}

func (f *changeFeed) push(c tasks.Change) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.queue = append(f.queue, c)
	f.pushed++
	f.signalLocked()
}

func (f *changeFeed) requestRefresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.refresh = true
	f.signalLocked()
}

func (f *changeFeed) signalLocked() {
	select {
	case f.ready <- struct{}{}:
	default:
	}
}

func (f *changeFeed) pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// changedSince reports whether any change was pushed after seq.
func (f *changeFeed) changedSince(seq uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushed != seq
}

type work struct {
	batch   []tasks.Change
	refresh bool
	seq     uint64
}

// next blocks until there is work. ok is false once the feed is closed.
func (f *changeFeed) next() (w work, ok bool) {
	if _, open := <-f.ready; !open {
		return work{}, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	w = work{batch: f.queue, refresh: f.refresh, seq: f.pushed}
	f.queue = nil
	f.refresh = false
	return w, true
}

// close stops the feed, releasing a blocked listener, and returns the changes
// it had not handed out yet.
func (f *changeFeed) close() []tasks.Change {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	close(f.ready)
	rest := f.queue
	f.queue = nil
	return rest
}

func (f *changeFeed) save(backend Backend, batch []tasks.Change) error {
	f.io.Lock()
	defer f.io.Unlock()
	return persist(backend, batch)
}

type persistedMsg struct {
	count int
	err   error
}

// fetchedMsg carries a refresh result. seq is the feed position the read was
// taken at; saved/saveErr report the writes flushed just before it.
type fetchedMsg struct {
	tasks   []tasks.Task
	err     error
	seq     uint64
	saved   int
	saveErr error
}

func listen(feed *changeFeed, backend Backend) tea.Cmd {
	return func() tea.Msg {
		w, ok := feed.next()
		if !ok {
			return nil
		}
		if !w.refresh {
			return persistedMsg{count: len(w.batch), err: feed.save(backend, w.batch)}
		}

		feed.io.Lock()
		defer feed.io.Unlock()
		saveErr := persist(backend, w.batch)
		msg := fetchedMsg{seq: w.seq, saved: len(w.batch), saveErr: saveErr}
		if backend != nil {
			msg.tasks, msg.err = backend.FetchTasks()
		}
		return msg
	}
}

func persist(backend Backend, batch []tasks.Change) error {
	if backend == nil {
		return nil
	}
	var first error
	for _, c := range batch {
		if err := backend.Apply(c); err != nil && first == nil {
			first = err
		}
	}
	return first
}
