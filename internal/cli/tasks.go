package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"taskdash/internal/tasks"
)

func newListCmd(app *App) *cobra.Command {
	var filter, search string
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := tasks.ParseStatus(filter)
			if err != nil {
				return err
			}
			return withSession(app, func(s *session) error {
				view := s.board.View(status, search)
				return writeList(cmd.OutOrStdout(), view)
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "Status filter (all|active|completed|important)")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive title search")
	return cmd
}

func writeList(out io.Writer, v tasks.View) error {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tSTAR\tPRIORITY\tDUE\tTITLE")
	for _, t := range v.Tasks {
		done := "[ ]"
		if t.Completed {
			done = "[x]"
		}
		star := ""
		if t.Important {
			star = "*"
		}
		due := tasks.FormatDue(t.Due)
		if due == "" {
			due = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", shortID(t.ID), done, star, t.Priority, due, t.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	c := v.Counts
	noun := "tasks"
	if len(v.Tasks) == 1 {
		noun = "task"
	}
	_, err := fmt.Fprintf(out, "%d %s found (all %d, active %d, completed %d, important %d)\n",
		len(v.Tasks), noun, c.All, c.Active, c.Completed, c.Important)
	return err
}

func newAddCmd(app *App) *cobra.Command {
	var priority, due string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := tasks.ParsePriority(priority)
			if err != nil {
				return err
			}
			d, err := tasks.ParseDue(due)
			if err != nil {
				return fmt.Errorf("invalid --due %q (want YYYY-MM-DD)", due)
			}
			return withSession(app, func(s *session) error {
				t, ok := s.board.Add(strings.Join(args, " "))
				if !ok {
					return errors.New("title cannot be empty")
				}
				s.board.SetPriority(t.ID, p)
				s.board.SetDue(t.ID, d)
				t, _ = s.board.Find(t.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "added %s %s\n", shortID(t.ID), t.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority (low|medium|high)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completed state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(app, func(s *session) error {
				t, err := s.resolve(args[0])
				if err != nil {
					return err
				}
				s.board.ToggleCompleted(t.ID)
				t, _ = s.board.Find(t.ID)
				state := "pending"
				if t.Completed {
					state = "completed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", shortID(t.ID), t.Title, state)
				return nil
			})
		},
	}
}

func newStarCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "star <id>",
		Short: "Toggle a task's important flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(app, func(s *session) error {
				t, err := s.resolve(args[0])
				if err != nil {
					return err
				}
				s.board.ToggleImportant(t.ID)
				t, _ = s.board.Find(t.ID)
				state := "normal"
				if t.Important {
					state = "important"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", shortID(t.ID), t.Title, state)
				return nil
			})
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(app, func(s *session) error {
				t, err := s.resolve(args[0])
				if err != nil {
					return err
				}
				s.board.Remove(t.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %s\n", shortID(t.ID), t.Title)
				return nil
			})
		},
	}
}

func newPriorityCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "priority <id> <low|medium|high>",
		Short: "Set a task's priority",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := tasks.ParsePriority(args[1])
			if err != nil {
				return err
			}
			return withSession(app, func(s *session) error {
				t, err := s.resolve(args[0])
				if err != nil {
					return err
				}
				s.board.SetPriority(t.ID, p)
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: priority %s\n", shortID(t.ID), t.Title, p)
				return nil
			})
		},
	}
}

func newDueCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "due <id> <YYYY-MM-DD|none>",
		Short: "Set or clear a task's due date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := tasks.ParseDue(args[1])
			if err != nil {
				return fmt.Errorf("invalid due date %q (want YYYY-MM-DD or none)", args[1])
			}
			return withSession(app, func(s *session) error {
				t, err := s.resolve(args[0])
				if err != nil {
					return err
				}
				s.board.SetDue(t.ID, d)
				due := tasks.FormatDue(d)
				if due == "" {
					due = "none"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: due %s\n", shortID(t.ID), t.Title, due)
				return nil
			})
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
