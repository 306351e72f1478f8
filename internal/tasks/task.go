package tasks

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

func ParsePriority(v string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m", "":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	default:
		return PriorityMedium, fmt.Errorf("invalid priority %q", v)
	}
}

// Raise and Lower clamp at high and low.
func (p Priority) Raise() Priority {
	if p >= PriorityHigh {
		return PriorityHigh
	}
	return p + 1
}

func (p Priority) Lower() Priority {
	if p <= PriorityLow {
		return PriorityLow
	}
	return p - 1
}

type Task struct {
	ID        string
	Title     string
	Completed bool
	Important bool
	Priority  Priority
	Due       sql.NullTime
	CreatedAt time.Time
}

// NewTask builds a task for a trimmed, non-empty title. The second result is
// false when the title is blank.
func NewTask(id, title string, now time.Time) (Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, false
	}
	return Task{
		ID:        id,
		Title:     title,
		Priority:  PriorityMedium,
		CreatedAt: now,
	}, true
}

func (t Task) HasDue() bool {
	return t.Due.Valid
}

// DueDate returns the due date normalised to midnight UTC.
func DueDate(y int, m time.Month, d int) sql.NullTime {
	return sql.NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func ParseDue(v string) (sql.NullTime, error) {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "", "none", "-":
		return sql.NullTime{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}

func FormatDue(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format("2006-01-02")
}
