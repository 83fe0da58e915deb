package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dori/doist/internal/model"
	"github.com/dori/doist/internal/service"
	"github.com/spf13/cobra"
)

func newTasksCmd(opts *options) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List active tasks of a project (default: inbox)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			var projectID *string
			if project != "" {
				projectID = &project
			}
			tasks, err := a.Service.ListTasks(cmd.Context(), projectID)
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}
			printTasks(cmd.OutOrStdout(), tasks)
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", `Project ID ("inbox" or empty for the inbox)`)
	return cmd
}

// printTasks writes one task per line
func printTasks(out io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRI\tCONTENT\tDUE\tLABELS")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Priority, t.Content, t.DueString(), strings.Join(t.Labels, ","))
	}
	w.Flush()
}

func newAddCmd(opts *options) *cobra.Command {
	var project, description string

	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.Service.CreateTask(cmd.Context(), project, strings.Join(args, " "), description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", t.ID, t.Content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", `Project ID ("inbox" or empty for the inbox)`)
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description (markdown)")
	return cmd
}

// newTaskActionCmd builds the commands that take a single task ID
func newTaskActionCmd(opts *options, use, short, done string, action func(*service.Service, context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := action(a.Service, cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s task %s\n", done, args[0])
			return nil
		},
	}
}

func newCompleteCmd(opts *options) *cobra.Command {
	return newTaskActionCmd(opts, "complete", "Complete a task", "Completed", (*service.Service).CompleteTask)
}

func newReopenCmd(opts *options) *cobra.Command {
	return newTaskActionCmd(opts, "reopen", "Reopen a completed task", "Reopened", (*service.Service).ReopenTask)
}

func newDeleteCmd(opts *options) *cobra.Command {
	return newTaskActionCmd(opts, "delete", "Delete a task", "Deleted", (*service.Service).DeleteTask)
}

func newMoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <project-id|inbox>",
		Short: "Move a task to another project",
		Long: `Move a task to another project.

The task is recreated in the destination and the original is deleted, so
the task gets a new ID. If the original cannot be deleted the move still
succeeds and the original is recorded for "doist orphans --cleanup".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			rel, err := a.Service.RelocateTask(cmd.Context(), args[0], args[1])
			if err != nil {
				var rerr *service.RelocationError
				if errors.As(err, &rerr) {
					return fmt.Errorf("move failed at %s step, original task unchanged: %w", rerr.Step, rerr.Err)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s to %s, new ID %s\n", rel.OriginalID, rel.Destination, rel.Task.ID)
			if rel.Orphaned() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: original task %s could not be deleted: %v\n", rel.OriginalID, rel.Warning.Err)
				fmt.Fprintln(cmd.ErrOrStderr(), "Run `doist orphans --cleanup` to retry.")
			}
			return nil
		},
	}
}
