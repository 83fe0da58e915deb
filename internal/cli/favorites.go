package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFavoritesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List favorite projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			projects, err := a.Service.ListFavoriteProjects(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list favorites: %w", err)
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No favorite projects.")
				return nil
			}
			printProjects(cmd.OutOrStdout(), projects)
			return nil
		},
	}
}

func newFavoriteCmd(opts *options) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "favorite <project-id>",
		Short: "Mark a project as favorite (locally)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.Service.FavoriteCandidate(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}
			// --off removes the marker, so the project counts as currently favorite
			p, err = a.Service.ToggleProjectFavorite(cmd.Context(), *p, off)
			if err != nil {
				return err
			}

			name := p.Name
			if name == "" {
				name = p.ID
			}
			if p.IsFavorite {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now a favorite\n", name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer a favorite\n", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Remove the favorite marker instead")
	return cmd
}

func newResetFavoritesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-favorites",
		Short: "Forget every locally tracked favorite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Service.ResetFavorites(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Favorites cleared.")
			return nil
		},
	}
}
