package ui

import "taskdash/internal/tasks"

// Selection is the target of the context menu: either nothing or one task.
type Selection interface {
	isSelection()
}

type NoSelection struct{}

type Selected struct {
	TaskID string
}

func (NoSelection) isSelection() {}
func (Selected) isSelection()    {}

type menuAction int

const (
	actionImportant menuAction = iota
	actionComplete
	actionClearDue
	actionDelete
)

type menuState struct {
	target Selection
	index  int
}

func closedMenu() menuState {
	return menuState{target: NoSelection{}}
}

func menuActions(t tasks.Task) []menuAction {
	actions := []menuAction{actionImportant, actionComplete}
	if t.HasDue() {
		actions = append(actions, actionClearDue)
	}
	return append(actions, actionDelete)
}

func menuLabel(a menuAction, t tasks.Task) string {
	switch a {
	case actionImportant:
		if t.Important {
			return "Mark as Normal"
		}
		return "Mark as Important"
	case actionComplete:
		if t.Completed {
			return "Mark as Incomplete"
		}
		return "Mark as Complete"
	case actionClearDue:
		return "Clear Due Date"
	case actionDelete:
		return "Delete Task"
	default:
		return ""
	}
}
