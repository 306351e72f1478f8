package tasks

import (
	"reflect"
	"testing"
)

func TestFilter_ByStatus(t *testing.T) {
	l := sampleList()

	if got := ids(l.Filter(StatusCompleted, "")); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("completed: expected [2]; got %v", got)
	}
	if got := ids(l.Filter(StatusActive, "")); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("active: expected [1]; got %v", got)
	}
	if got := ids(l.Filter(StatusImportant, "")); len(got) != 0 {
		t.Fatalf("important: expected none; got %v", got)
	}
}

func TestFilter_AllWithEmptyQueryKeepsOrder(t *testing.T) {
	l := List{{ID: "c", Title: "z"}, {ID: "a", Title: "y"}, {ID: "b", Title: "x"}}
	got := l.Filter(StatusAll, "")
	if !reflect.DeepEqual(got, l) {
		t.Fatalf("expected identical order; got %v", ids(got))
	}
	got[0].Title = "changed"
	if l[0].Title != "z" {
		t.Fatalf("expected filter output not to alias the store")
	}
}

func TestFilter_SearchIsCaseInsensitive(t *testing.T) {
	l := List{{ID: "1", Title: "Write report"}, {ID: "2", Title: "Buy milk"}}

	for _, q := range []string{"rep", "REP", "Rep"} {
		got := l.Filter(StatusAll, q)
		if len(got) != 1 || got[0].Title != "Write report" {
			t.Fatalf("query %q: expected only Write report; got %v", q, got)
		}
	}
	if got := l.Filter(StatusAll, "nothing"); len(got) != 0 {
		t.Fatalf("expected no matches; got %v", got)
	}
}

func TestFilter_StatusThenQuery(t *testing.T) {
	l := List{
		{ID: "1", Title: "Report draft", Completed: true},
		{ID: "2", Title: "Report final"},
		{ID: "3", Title: "Groceries"},
	}
	if got := ids(l.Filter(StatusActive, "report")); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("expected [2]; got %v", got)
	}
}

func TestCounts_ConsistentWithFilter(t *testing.T) {
	l := List{
		{ID: "1", Title: "a", Completed: true, Important: true},
		{ID: "2", Title: "b"},
		{ID: "3", Title: "c", Important: true},
		{ID: "4", Title: "d", Completed: true},
	}
	c := l.Counts()
	for _, s := range Statuses() {
		if got, want := c.Of(s), len(l.Filter(s, "")); got != want {
			t.Fatalf("%s: count %d != filtered len %d", s, got, want)
		}
	}
	if c.Active+c.Completed != c.All {
		t.Fatalf("expected active+completed == all; got %+v", c)
	}
}

func TestStatus_ParseAndCycle(t *testing.T) {
	s, err := ParseStatus(" Completed ")
	if err != nil || s != StatusCompleted {
		t.Fatalf("expected completed; got %q err=%v", s, err)
	}
	if s, err := ParseStatus(""); err != nil || s != StatusAll {
		t.Fatalf("expected empty to default to all; got %q err=%v", s, err)
	}
	if _, err := ParseStatus("archived"); err == nil {
		t.Fatalf("expected error for unknown filter")
	}

	seen := StatusAll
	for i := 0; i < len(Statuses()); i++ {
		seen = seen.Next()
	}
	if seen != StatusAll {
		t.Fatalf("expected Next to cycle back to all; got %q", seen)
	}
	if StatusAll.Prev() != StatusImportant {
		t.Fatalf("expected Prev of all to wrap to important; got %q", StatusAll.Prev())
	}
}
