package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"taskdash/internal/tasks"
)

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dbPath, err)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	important INTEGER NOT NULL DEFAULT 0,
	priority INTEGER NOT NULL DEFAULT 1,
	due TEXT DEFAULT NULL,
	created_at TEXT NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTaskColumns()
}

func (s *Store) ensureTaskColumns() error {
	required := map[string]string{
		"important": "ALTER TABLE tasks ADD COLUMN important INTEGER NOT NULL DEFAULT 0;",
		"priority":  "ALTER TABLE tasks ADD COLUMN priority INTEGER NOT NULL DEFAULT 1;",
		"due":       "ALTER TABLE tasks ADD COLUMN due TEXT DEFAULT NULL;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	// The single connection is held by rows until closed.
	rows.Close()

	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// FetchTasks returns every stored task, most recently inserted first.
func (s *Store) FetchTasks() ([]tasks.Task, error) {
	rows, err := s.db.Query(`SELECT id, title, completed, important, priority, due, created_at FROM tasks ORDER BY rowid DESC;`)
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	defer rows.Close()

	var out []tasks.Task
	for rows.Next() {
		var t tasks.Task
		var completed, important, priority int
		var dueStr sql.NullString
		var createdStr string

		if err := rows.Scan(&t.ID, &t.Title, &completed, &important, &priority, &dueStr, &createdStr); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Completed = completed == 1
		t.Important = important == 1
		t.Priority = tasks.Priority(priority)
		if dueStr.Valid && dueStr.String != "" {
			parsed, err := time.Parse(time.RFC3339, dueStr.String)
			if err != nil {
				return nil, fmt.Errorf("task %s: parse due %q: %w", t.ID, dueStr.String, err)
			}
			t.Due = sql.NullTime{Time: parsed, Valid: true}
		}
		if createdStr != "" {
			created, err := time.Parse(time.RFC3339Nano, createdStr)
			if err != nil {
				return nil, fmt.Errorf("task %s: parse created_at %q: %w", t.ID, createdStr, err)
			}
			t.CreatedAt = created
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Apply mirrors one board change into the database. Loaded changes came from
// this store in the first place and are ignored.
func (s *Store) Apply(ch tasks.Change) error {
	switch ch.Kind {
	case tasks.ChangeLoaded:
		return nil
	case tasks.ChangeAdded:
		return s.insertTask(ch.Task)
	case tasks.ChangeUpdated:
		return s.updateTask(ch.Task)
	case tasks.ChangeRemoved:
		return s.DeleteTask(ch.Task.ID)
	default:
		return fmt.Errorf("unknown change kind %d", ch.Kind)
	}
}

func (s *Store) insertTask(t tasks.Task) error {
	created := t.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO tasks (id, title, completed, important, priority, due, created_at) VALUES (?, ?, ?, ?, ?, ?, ?);`,
		t.ID, t.Title, boolToInt(t.Completed), boolToInt(t.Important), int(t.Priority), dueString(t.Due), created.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert task %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) updateTask(t tasks.Task) error {
	_, err := s.db.Exec(`UPDATE tasks SET title = ?, completed = ?, important = ?, priority = ?, due = ? WHERE id = ?;`,
		t.Title, boolToInt(t.Completed), boolToInt(t.Important), int(t.Priority), dueString(t.Due), t.ID)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) DeleteTask(id string) error {
	if _, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

func dueString(due sql.NullTime) sql.NullString {
	if !due.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: due.Time.UTC().Format(time.RFC3339), Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
