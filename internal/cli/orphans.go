package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newOrphansCmd(opts *options) *cobra.Command {
	var cleanup bool

	cmd := &cobra.Command{
		Use:   "orphans",
		Short: "List originals left behind by moves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if cleanup {
				result, err := a.Service.CleanupOrphans(cmd.Context())
				if result != nil {
					for _, id := range result.Removed {
						fmt.Fprintf(out, "Removed original task %s\n", id)
					}
					if len(result.Remaining) > 0 {
						fmt.Fprintf(out, "%d orphan(s) still present\n", len(result.Remaining))
					}
				}
				return err
			}

			orphans, err := a.Service.ListOrphans(cmd.Context())
			if err != nil {
				return err
			}
			if len(orphans) == 0 {
				fmt.Fprintln(out, "No orphaned tasks.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ORIGINAL\tREPLACEMENT\tSINCE\tREASON")
			for _, o := range orphans {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					o.OriginalID, o.ReplacementID, o.CreatedAt.Local().Format(time.DateTime), o.Reason)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "Retry deleting every orphan")
	return cmd
}
