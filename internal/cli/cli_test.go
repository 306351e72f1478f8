package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"taskdash/internal/tasks"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func setupEnv(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TASKDASH_CONFIG", "")
	t.Setenv("TASKDASH_DB", "")
	t.Setenv("TASKDASH_CONFIG_DIR", dir)
	return []string{"--db", filepath.Join(dir, "tasks.db")}
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("%v: %v\nstderr: %s", args, err, errOut)
	}
	return string(out)
}

// addedID returns the short id from "added <id> <title>".
func addedID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	if len(fields) < 3 || fields[0] != "added" {
		t.Fatalf("unexpected add output %q", out)
	}
	return fields[1]
}

func TestCLI_AddAndList(t *testing.T) {
	db := setupEnv(t)

	mustRun(t, append(db, "add", "Write", "report", "--priority", "high", "--due", "2024-06-01")...)
	mustRun(t, append(db, "add", "Call mom")...)

	out := mustRun(t, append(db, "ls")...)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, 2 rows and footer, got:\n%s", out)
	}
	if !strings.Contains(lines[1], "Call mom") || !strings.Contains(lines[2], "Write report") {
		t.Fatalf("expected newest first:\n%s", out)
	}
	if !strings.Contains(lines[2], "high") || !strings.Contains(lines[2], "2024-06-01") {
		t.Fatalf("priority/due missing:\n%s", out)
	}
	if !strings.Contains(lines[3], "2 tasks found") {
		t.Fatalf("unexpected footer %q", lines[3])
	}
}

func TestCLI_AddRejectsBadInput(t *testing.T) {
	db := setupEnv(t)

	if _, _, err := runCLI(t, append(db, "add", "   ")); err == nil {
		t.Fatalf("expected error for blank title")
	}
	if _, _, err := runCLI(t, append(db, "add", "x", "--priority", "urgent")); err == nil {
		t.Fatalf("expected error for bad priority")
	}
	if _, _, err := runCLI(t, append(db, "add", "x", "--due", "tomorrow")); err == nil {
		t.Fatalf("expected error for bad due date")
	}

	out := mustRun(t, append(db, "ls")...)
	if !strings.Contains(out, "0 tasks found") {
		t.Fatalf("nothing should have been stored:\n%s", out)
	}
}

func TestCLI_DoneFiltersAndPersists(t *testing.T) {
	db := setupEnv(t)

	id := addedID(t, mustRun(t, append(db, "add", "Ship it")...))
	mustRun(t, append(db, "add", "Later")...)

	out := mustRun(t, append(db, "done", id)...)
	if !strings.Contains(out, "completed") {
		t.Fatalf("unexpected done output %q", out)
	}

	out = mustRun(t, append(db, "ls", "--filter", "completed")...)
	if !strings.Contains(out, "Ship it") || strings.Contains(out, "Later") {
		t.Fatalf("completed filter:\n%s", out)
	}
	out = mustRun(t, append(db, "ls", "--filter", "active", "--search", "LAT")...)
	if !strings.Contains(out, "Later") || !strings.Contains(out, "1 task found") {
		t.Fatalf("active search:\n%s", out)
	}

	out = mustRun(t, append(db, "done", id)...)
	if !strings.Contains(out, "pending") {
		t.Fatalf("second done should reopen, got %q", out)
	}
}

func TestCLI_StarPriorityDueAndRemove(t *testing.T) {
	db := setupEnv(t)
	id := addedID(t, mustRun(t, append(db, "add", "Taxes")...))

	if out := mustRun(t, append(db, "star", id)...); !strings.Contains(out, "important") {
		t.Fatalf("star output %q", out)
	}
	out := mustRun(t, append(db, "ls", "--filter", "important")...)
	if !strings.Contains(out, "Taxes") {
		t.Fatalf("important filter:\n%s", out)
	}

	mustRun(t, append(db, "priority", id, "low")...)
	mustRun(t, append(db, "due", id, "2025-04-15")...)
	out = mustRun(t, append(db, "ls")...)
	if !strings.Contains(out, "low") || !strings.Contains(out, "2025-04-15") {
		t.Fatalf("priority/due not persisted:\n%s", out)
	}

	if out := mustRun(t, append(db, "due", id, "none")...); !strings.Contains(out, "due none") {
		t.Fatalf("clear due output %q", out)
	}

	mustRun(t, append(db, "rm", id)...)
	out = mustRun(t, append(db, "ls")...)
	if strings.Contains(out, "Taxes") {
		t.Fatalf("task should be deleted:\n%s", out)
	}
}

func TestCLI_UnknownIDFails(t *testing.T) {
	db := setupEnv(t)

	_, _, err := runCLI(t, append(db, "done", "nope"))
	var nf notFoundError
	if !errors.As(err, &nf) || nf.ambiguous {
		t.Fatalf("expected notFoundError, got %v", err)
	}
}

func TestCLI_InvalidFilter(t *testing.T) {
	db := setupEnv(t)
	if _, _, err := runCLI(t, append(db, "ls", "--filter", "someday")); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
}

func TestSession_ResolveAmbiguousPrefix(t *testing.T) {
	s := &session{board: tasks.NewBoard()}
	s.board.Load([]tasks.Task{
		{ID: "abc1", Title: "one"},
		{ID: "abc2", Title: "two"},
	})

	_, err := s.resolve("abc")
	var nf notFoundError
	if !errors.As(err, &nf) || !nf.ambiguous {
		t.Fatalf("expected ambiguous error, got %v", err)
	}

	got, err := s.resolve("abc2")
	if err != nil || got.Title != "two" {
		t.Fatalf("exact id: %+v, %v", got, err)
	}
}
