package tasks

import (
	"database/sql"
	"strings"
)

// List is an ordered task collection. Operations never modify the receiver;
// they return a fresh slice so earlier collections stay valid for readers.
type List []Task

func (l List) Len() int {
	return len(l)
}

func (l List) Index(id string) int {
	for i, t := range l {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (l List) Find(id string) (Task, bool) {
	i := l.Index(id)
	if i < 0 {
		return Task{}, false
	}
	return l[i], true
}

// Lookup resolves an exact id or a unique id prefix. ambiguous is true when
// more than one task shares the prefix.
func (l List) Lookup(prefix string) (t Task, ok bool, ambiguous bool) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return Task{}, false, false
	}
	if t, ok := l.Find(prefix); ok {
		return t, true, false
	}
	matches := 0
	for _, cand := range l {
		if strings.HasPrefix(cand.ID, prefix) {
			t = cand
			matches++
		}
	}
	switch matches {
	case 0:
		return Task{}, false, false
	case 1:
		return t, true, false
	default:
		return Task{}, false, true
	}
}

func (l List) Clone() List {
	if l == nil {
		return List{}
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

func (l List) Prepend(t Task) List {
	out := make(List, 0, len(l)+1)
	out = append(out, t)
	return append(out, l...)
}

func (l List) ToggleCompleted(id string) (List, Task, bool) {
	return l.replace(id, func(t Task) Task {
		t.Completed = !t.Completed
		return t
	})
}

func (l List) ToggleImportant(id string) (List, Task, bool) {
	return l.replace(id, func(t Task) Task {
		t.Important = !t.Important
		return t
	})
}

func (l List) SetPriority(id string, p Priority) (List, Task, bool) {
	if t, ok := l.Find(id); !ok || t.Priority == p {
		return l, Task{}, false
	}
	return l.replace(id, func(t Task) Task {
		t.Priority = p
		return t
	})
}

func (l List) SetDue(id string, due sql.NullTime) (List, Task, bool) {
	if !due.Valid {
		due = sql.NullTime{}
	}
	if t, ok := l.Find(id); !ok || sameDue(t.Due, due) {
		return l, Task{}, false
	}
	return l.replace(id, func(t Task) Task {
		t.Due = due
		return t
	})
}

func (l List) Remove(id string) (List, Task, bool) {
	i := l.Index(id)
	if i < 0 {
		return l, Task{}, false
	}
	out := make(List, 0, len(l)-1)
	out = append(out, l[:i]...)
	out = append(out, l[i+1:]...)
	return out, l[i], true
}

func (l List) replace(id string, fn func(Task) Task) (List, Task, bool) {
	i := l.Index(id)
	if i < 0 {
		return l, Task{}, false
	}
	out := l.Clone()
	out[i] = fn(out[i])
	return out, out[i], true
}

func sameDue(a, b sql.NullTime) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Time.Equal(b.Time)
}
