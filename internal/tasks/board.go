package tasks

import (
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ChangeKind int

const (
	ChangeLoaded ChangeKind = iota
	ChangeAdded
	ChangeUpdated
	ChangeRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeLoaded:
		return "loaded"
	case ChangeAdded:
		return "added"
	case ChangeUpdated:
		return "updated"
	case ChangeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Change describes one effective mutation. Task is the affected task (its
// state after the change, or the removed task); Tasks is a private copy of the
// whole new collection. Task is zero for ChangeLoaded.
type Change struct {
	Kind  ChangeKind
	Task  Task
	Tasks List
}

type Option func(*Board)

func WithIDFunc(fn func() string) Option {
	return func(b *Board) {
		if fn != nil {
			b.newID = fn
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(b *Board) {
		if fn != nil {
			b.now = fn
		}
	}
}

type subscriber struct {
	id int
	fn func(Change)
}

// Board owns the current task collection for a session. Every mutation swaps
// in a new List and notifies subscribers; missing ids and blank titles are
// silent no-ops.
type Board struct {
	mu      sync.Mutex
	items   List
	subs    []subscriber
	nextSub int
	newID   func() string
	now     func() time.Time
}

func NewBoard(opts ...Option) *Board {
	b := &Board{
		items: List{},
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load replaces the collection with tasks, keeping their order. Tasks without
// an id get a fresh one; a repeated id keeps its first occurrence.
func (b *Board) Load(tasks []Task) List {
	b.mu.Lock()
	seen := make(map[string]struct{}, len(tasks))
	next := make(List, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			t.ID = b.freshIDLocked(seen)
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		next = append(next, t)
	}
	b.items = next
	subs := b.subscribersLocked()
	b.mu.Unlock()

	b.publish(subs, Change{Kind: ChangeLoaded, Tasks: next})
	return next.Clone()
}

// Add prepends a new task. ok is false, and nothing changes, when the trimmed
// title is empty.
func (b *Board) Add(title string) (Task, bool) {
	b.mu.Lock()
	t, ok := NewTask("", title, b.now())
	if !ok {
		b.mu.Unlock()
		return Task{}, false
	}
	t.ID = b.freshIDLocked(nil)
	next := b.items.Prepend(t)
	b.items = next
	subs := b.subscribersLocked()
	b.mu.Unlock()

	b.publish(subs, Change{Kind: ChangeAdded, Task: t, Tasks: next})
	return t, true
}

func (b *Board) ToggleCompleted(id string) List {
	return b.update(ChangeUpdated, func(l List) (List, Task, bool) {
		return l.ToggleCompleted(id)
	})
}

func (b *Board) ToggleImportant(id string) List {
	return b.update(ChangeUpdated, func(l List) (List, Task, bool) {
		return l.ToggleImportant(id)
	})
}

func (b *Board) SetPriority(id string, p Priority) List {
	return b.update(ChangeUpdated, func(l List) (List, Task, bool) {
		return l.SetPriority(id, p)
	})
}

func (b *Board) SetDue(id string, due sql.NullTime) List {
	return b.update(ChangeUpdated, func(l List) (List, Task, bool) {
		return l.SetDue(id, due)
	})
}

func (b *Board) Remove(id string) List {
	return b.update(ChangeRemoved, func(l List) (List, Task, bool) {
		return l.Remove(id)
	})
}

// Items returns a copy of the current collection.
func (b *Board) Items() List {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.items.Clone()
}

func (b *Board) Find(id string) (Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.items.Find(id)
}

// View derives the visible tasks and counts from the current collection.
// Nothing is cached between calls.
func (b *Board) View(s Status, query string) View {
	b.mu.Lock()
	items := b.items
	b.mu.Unlock()
	return View{
		Status: s,
		Query:  query,
		Tasks:  items.Filter(s, query),
		Counts: items.Counts(),
	}
}

// Subscribe registers fn for every effective change. Callbacks run
// synchronously on the mutating goroutine, after the board lock is released.
func (b *Board) Subscribe(fn func(Change)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (b *Board) update(kind ChangeKind, op func(List) (List, Task, bool)) List {
	b.mu.Lock()
	next, t, changed := op(b.items)
	if !changed {
		cur := b.items
		b.mu.Unlock()
		return cur.Clone()
	}
	b.items = next
	subs := b.subscribersLocked()
	b.mu.Unlock()

	b.publish(subs, Change{Kind: kind, Task: t, Tasks: next})
	return next.Clone()
}

func (b *Board) freshIDLocked(taken map[string]struct{}) string {
	for {
		id := b.newID()
		if _, ok := taken[id]; ok {
			continue
		}
		if b.items.Index(id) >= 0 {
			continue
		}
		return id
	}
}

func (b *Board) subscribersLocked() []subscriber {
	if len(b.subs) == 0 {
		return nil
	}
	out := make([]subscriber, len(b.subs))
	copy(out, b.subs)
	return out
}

// publish hands every subscriber its own copy of the collection.
func (b *Board) publish(subs []subscriber, ch Change) {
	for _, s := range subs {
		c := ch
		c.Tasks = ch.Tasks.Clone()
		s.fn(c)
	}
}
