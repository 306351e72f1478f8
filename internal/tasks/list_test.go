package tasks

import (
	"database/sql"
	"reflect"
	"testing"
	"time"
)

func sampleList() List {
	return List{
		{ID: "1", Title: "A", Completed: false, Priority: PriorityMedium},
		{ID: "2", Title: "B", Completed: true, Priority: PriorityMedium},
	}
}

func ids(l List) []string {
	out := make([]string, 0, len(l))
	for _, t := range l {
		out = append(out, t.ID)
	}
	return out
}

func TestNewTask_TrimsAndRejectsBlank(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	for _, title := range []string{"", "   ", "\t\n"} {
		if _, ok := NewTask("x", title, now); ok {
			t.Fatalf("expected blank title %q to be rejected", title)
		}
	}

	task, ok := NewTask("x", "  Write report  ", now)
	if !ok {
		t.Fatalf("expected task to be created")
	}
	if task.Title != "Write report" {
		t.Fatalf("expected trimmed title; got %q", task.Title)
	}
	if task.Completed || task.Important {
		t.Fatalf("expected completed=false important=false; got %+v", task)
	}
	if task.Priority != PriorityMedium {
		t.Fatalf("expected medium priority; got %v", task.Priority)
	}
	if task.Due.Valid {
		t.Fatalf("expected no due date by default")
	}
	if !task.CreatedAt.Equal(now) {
		t.Fatalf("expected createdAt %v; got %v", now, task.CreatedAt)
	}
}

func TestList_ToggleCompleted_FlipsOnlyTarget(t *testing.T) {
	before := sampleList()
	after, task, changed := before.ToggleCompleted("1")
	if !changed {
		t.Fatalf("expected changed=true")
	}
	if !task.Completed || !after[0].Completed {
		t.Fatalf("expected task 1 completed; got %+v", after[0])
	}
	if after[1] != before[1] {
		t.Fatalf("expected task 2 untouched; got %+v", after[1])
	}
	if before[0].Completed {
		t.Fatalf("expected original list to be left alone")
	}
}

func TestList_MissingIDIsNoOp(t *testing.T) {
	before := sampleList()

	ops := map[string]func(List) (List, Task, bool){
		"toggleCompleted": func(l List) (List, Task, bool) { return l.ToggleCompleted("nope") },
		"toggleImportant": func(l List) (List, Task, bool) { return l.ToggleImportant("nope") },
		"remove":          func(l List) (List, Task, bool) { return l.Remove("nope") },
		"setPriority":     func(l List) (List, Task, bool) { return l.SetPriority("nope", PriorityHigh) },
		"setDue":          func(l List) (List, Task, bool) { return l.SetDue("nope", DueDate(2025, 1, 2)) },
	}
	for name, op := range ops {
		after, _, changed := op(before)
		if changed {
			t.Fatalf("%s: expected changed=false", name)
		}
		if !reflect.DeepEqual(after, sampleList()) {
			t.Fatalf("%s: expected unchanged list; got %+v", name, after)
		}
	}
}

func TestList_Remove_IsIdempotent(t *testing.T) {
	l, removed, changed := sampleList().Remove("1")
	if !changed || removed.ID != "1" {
		t.Fatalf("expected task 1 removed; changed=%v removed=%+v", changed, removed)
	}
	if got := ids(l); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("expected [2]; got %v", got)
	}

	again, _, changed := l.Remove("1")
	if changed {
		t.Fatalf("expected second remove to be a no-op")
	}
	if !reflect.DeepEqual(again, l) {
		t.Fatalf("expected list unchanged; got %+v", again)
	}
}

func TestList_ToggleImportant_DoubleToggleIsIdentity(t *testing.T) {
	before := List{{ID: "1", Title: "A", Important: false, Priority: PriorityLow}}
	once, _, _ := before.ToggleImportant("1")
	if !once[0].Important {
		t.Fatalf("expected important after first toggle")
	}
	if once[0].Priority != PriorityLow {
		t.Fatalf("expected priority untouched; got %v", once[0].Priority)
	}
	twice, _, _ := once.ToggleImportant("1")
	if twice[0] != before[0] {
		t.Fatalf("expected double toggle to restore %+v; got %+v", before[0], twice[0])
	}
}

func TestList_SetPriorityAndDue(t *testing.T) {
	l := sampleList()

	if _, _, changed := l.SetPriority("1", PriorityMedium); changed {
		t.Fatalf("expected same priority to be a no-op")
	}
	l, task, changed := l.SetPriority("1", PriorityHigh)
	if !changed || task.Priority != PriorityHigh {
		t.Fatalf("expected priority high; changed=%v task=%+v", changed, task)
	}

	due := DueDate(2025, 11, 25)
	l, task, changed = l.SetDue("2", due)
	if !changed || FormatDue(task.Due) != "2025-11-25" {
		t.Fatalf("expected due 2025-11-25; changed=%v due=%q", changed, FormatDue(task.Due))
	}
	if _, _, changed := l.SetDue("2", due); changed {
		t.Fatalf("expected same due to be a no-op")
	}
	l, task, changed = l.SetDue("2", mustParseDue(t, "none"))
	if !changed || task.Due.Valid {
		t.Fatalf("expected due cleared; changed=%v task=%+v", changed, task)
	}
	if l[1].Due.Valid {
		t.Fatalf("expected list to carry cleared due")
	}
}

func mustParseDue(t *testing.T, v string) sql.NullTime {
	t.Helper()
	d, err := ParseDue(v)
	if err != nil {
		t.Fatalf("ParseDue(%q): %v", v, err)
	}
	return d
}

func TestList_Lookup(t *testing.T) {
	l := List{
		{ID: "abc123", Title: "one"},
		{ID: "abd456", Title: "two"},
		{ID: "ab", Title: "exact"},
	}

	if got, ok, _ := l.Lookup("ab"); !ok || got.Title != "exact" {
		t.Fatalf("expected exact id match to win; got %+v ok=%v", got, ok)
	}
	if got, ok, _ := l.Lookup("abc"); !ok || got.ID != "abc123" {
		t.Fatalf("expected unique prefix match; got %+v ok=%v", got, ok)
	}
	if _, ok, ambiguous := l.Lookup("a"); ok || !ambiguous {
		t.Fatalf("expected ambiguous prefix; ok=%v ambiguous=%v", ok, ambiguous)
	}
	if _, ok, ambiguous := l.Lookup("zzz"); ok || ambiguous {
		t.Fatalf("expected no match; ok=%v ambiguous=%v", ok, ambiguous)
	}
	if _, ok, _ := l.Lookup("  "); ok {
		t.Fatalf("expected blank prefix to match nothing")
	}
}

func TestPriority_ParseAndClamp(t *testing.T) {
	p, err := ParsePriority("HIGH")
	if err != nil || p != PriorityHigh {
		t.Fatalf("expected high; got %v err=%v", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatalf("expected error for unknown priority")
	}
	if PriorityHigh.Raise() != PriorityHigh || PriorityLow.Lower() != PriorityLow {
		t.Fatalf("expected raise/lower to clamp")
	}
	if PriorityLow.Raise() != PriorityMedium || PriorityHigh.Lower() != PriorityMedium {
		t.Fatalf("expected raise/lower to step by one")
	}
}
