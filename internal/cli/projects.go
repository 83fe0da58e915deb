package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dori/doist/internal/model"
	"github.com/spf13/cobra"
)

func newProjectsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			projects, err := a.Service.ListProjects(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}
			printProjects(cmd.OutOrStdout(), projects)
			return nil
		},
	}
}

// printProjects writes one project per line with its favorite marker
func printProjects(out io.Writer, projects []model.Project) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\t")
	for _, p := range projects {
		var marks string
		switch {
		case p.IsInbox():
			marks = "inbox"
		case p.IsFavorite:
			marks = "★"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, marks)
	}
	w.Flush()
}
