package tasks

import (
	"fmt"
	"strings"
)

// Status selects one of the task tabs.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusImportant Status = "important"
)

var statuses = []Status{StatusAll, StatusActive, StatusCompleted, StatusImportant}

func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if s == "" {
		return StatusAll, nil
	}
	for _, known := range statuses {
		if s == known {
			return s, nil
		}
	}
	return StatusAll, fmt.Errorf("invalid filter %q (want all, active, completed or important)", v)
}

func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusCompleted:
		return "Completed"
	case StatusImportant:
		return "Important"
	default:
		return "All"
	}
}

func (s Status) Match(t Task) bool {
	switch s {
	case StatusActive:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	case StatusImportant:
		return t.Important
	default:
		return true
	}
}

func (s Status) Next() Status {
	return statuses[(s.index()+1)%len(statuses)]
}

func (s Status) Prev() Status {
	return statuses[(s.index()+len(statuses)-1)%len(statuses)]
}

func (s Status) index() int {
	for i, known := range statuses {
		if s == known {
			return i
		}
	}
	return 0
}

// MatchQuery reports whether title contains query, ignoring case. An empty
// query matches everything.
func MatchQuery(title, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(query))
}

// Filter applies the status predicate and then the title query, keeping the
// list order.
func (l List) Filter(s Status, query string) List {
	out := List{}
	for _, t := range l {
		if !s.Match(t) {
			continue
		}
		if !MatchQuery(t.Title, query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

type Counts struct {
	All       int
	Active    int
	Completed int
	Important int
}

func (l List) Counts() Counts {
	c := Counts{All: len(l)}
	for _, t := range l {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
		if t.Important {
			c.Important++
		}
	}
	return c
}

func (c Counts) Of(s Status) int {
	switch s {
	case StatusActive:
		return c.Active
	case StatusCompleted:
		return c.Completed
	case StatusImportant:
		return c.Important
	default:
		return c.All
	}
}

// View is what the presentation layer binds to: the visible tasks for the
// current tab and query, plus per-tab counts over the whole store.
type View struct {
	Status Status
	Query  string
	Tasks  List
	Counts Counts
}
