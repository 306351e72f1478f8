package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"taskdash/internal/config"
	"taskdash/internal/tasks"
)

func (m Model) View() string {
	v := m.visible()
	var b strings.Builder

	b.WriteString(titleStyle.Render("My Tasks"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(remaining(v.Counts)))
	b.WriteString("\n\n")

	if m.mode == modeAdd {
		b.WriteString("Add: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.mode == modeSearch {
		b.WriteString("Search: ")
		b.WriteString(m.search.View())
		b.WriteString("\n")
	} else if m.query != "" {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Search: %q (esc to clear)", m.query)))
		b.WriteString("\n")
	}

	b.WriteString(renderTabs(m.filter, v.Counts))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(found(len(v.Tasks))))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("Loading...\n")
	case len(v.Tasks) == 0:
		msg := "No tasks found."
		if m.filter != tasks.StatusAll {
			msg += " Try changing the filter."
		}
		b.WriteString(mutedStyle.Render(msg))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderTaskList(v.Tasks))
	}

	if m.mode == modeMenu {
		if menu := m.renderMenu(); menu != "" {
			b.WriteString("\n")
			b.WriteString(menu)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n---\n")
	b.WriteString(m.renderDetail(v.Tasks))
	b.WriteString("\n")
	if strings.Contains(m.status, "failed") {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func remaining(c tasks.Counts) string {
	if c.Active > 0 {
		return fmt.Sprintf("%d %s remaining", c.Active, plural(c.Active, "task"))
	}
	return "All caught up!"
}

func found(n int) string {
	return fmt.Sprintf("%d %s found", n, plural(n, "task"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func renderTabs(active tasks.Status, c tasks.Counts) string {
	parts := make([]string, 0, len(tasks.Statuses()))
	for i, s := range tasks.Statuses() {
		label := fmt.Sprintf("%d %s", i+1, s.Label())
		if n := c.Of(s); n > 0 {
			label += " " + badgeStyle.Foreground(badgeColor(s)).Render(fmt.Sprintf("(%d)", n))
		}
		if s == active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderTaskList(visible tasks.List) string {
	cur := clampCursor(m.cursor, len(visible))
	var b strings.Builder
	for i, t := range visible {
		cursor := " "
		if i == cur && m.mode != modeAdd && m.mode != modeSearch {
			cursor = cursorStyle.Render(">")
		}

		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}
		star := " "
		if t.Important {
			star = starStyle.Render("*")
		}

		title := t.Title
		if t.Completed {
			title = doneStyle.Render(title)
		}

		extras := []string{priorityStyle(t.Priority).Render(t.Priority.String())}
		if t.HasDue() {
			extras = append(extras, dueStyle.Render("due "+tasks.FormatDue(t.Due)))
		}

		b.WriteString(fmt.Sprintf("%s %s %s %s  %s", cursor, checkbox, star, title, strings.Join(extras, " ")))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderMenu() string {
	t, ok := m.menuTask()
	if !ok {
		return ""
	}
	actions := menuActions(t)
	lines := make([]string, 0, len(actions))
	for i, a := range actions {
		prefix := "  "
		if i == m.menu.index {
			prefix = "> "
		}
		lines = append(lines, prefix+menuLabel(a, t))
	}
	return menuStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderDetail(visible tasks.List) string {
	if len(visible) == 0 {
		return "No task selected\n"
	}
	t := visible[clampCursor(m.cursor, len(visible))]
	now := m.now()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Title     : %s\n", t.Title))
	b.WriteString(fmt.Sprintf("Status    : %s\n", humanDone(t.Completed)))
	b.WriteString(fmt.Sprintf("Important : %t\n", t.Important))
	b.WriteString(fmt.Sprintf("Priority  : %s\n", t.Priority))
	due := "(none)"
	if t.HasDue() {
		due = fmt.Sprintf("%s (%s)", tasks.FormatDue(t.Due), humanize.RelTime(t.Due.Time, now, "ago", "from now"))
	}
	b.WriteString(fmt.Sprintf("Due       : %s\n", due))
	if !t.CreatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Created   : %s\n", humanize.RelTime(t.CreatedAt, now, "ago", "from now")))
	}
	return b.String()
}

func (m Model) describe(t tasks.Task) string {
	info := fmt.Sprintf("Task %s • %s • %s • priority:%s", shortID(t.ID), t.Title, humanDone(t.Completed), t.Priority)
	if t.Important {
		info += " • important"
	}
	if t.HasDue() {
		info += " • due:" + tasks.FormatDue(t.Due)
	}
	return info
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s search • %s toggle • %s star • %s delete • %s menu • %s/%s tabs • %s/%s priority • %s/%s due • %s refresh • %s quit",
		k.Up, k.Down, k.Add, k.Search, keyLabel(k.Toggle), k.Star, k.Delete, k.Menu, k.NextTab, k.PrevTab,
		k.PriorityUp, k.PriorityDown, k.DueBack, k.DueForward, k.Refresh, k.Quit)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
