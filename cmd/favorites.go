package cmd

import (
	"fmt"

	"github.com/byxorna/shelf/pkg/types/v1"
	"github.com/spf13/cobra"
)

func newFavoritesCommand(opts *options) *cobra.Command {
	favs := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"favs"},
		Short:   "Read and change the favorites list without the UI",
	}

	favs.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every favorite id",
		Args:  cobra.NoArgs,
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			for _, id := range e.favorites.Set().IDs() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		}),
	})

	favs.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Print the number of favorites",
		Args:  cobra.NoArgs,
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), e.favorites.Count())
			return nil
		}),
	})

	favs.AddCommand(&cobra.Command{
		Use:   "toggle <isbn>",
		Short: "Add a favorite, or remove it if already present",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			id := v1.ID(args[0])
			set := e.favorites.Toggle(id)
			if err := e.favorites.LastWriteErr(); err != nil {
				return fmt.Errorf("unable to save favorites: %w", err)
			}
			verb := "removed"
			if set.Contains(id) {
				verb = "added"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, id)
			return nil
		}),
	})

	favs.AddCommand(&cobra.Command{
		Use:   "remove <isbn>",
		Short: "Remove a favorite; removing an absent id is not an error",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			e.favorites.Remove(v1.ID(args[0]))
			if err := e.favorites.LastWriteErr(); err != nil {
				return fmt.Errorf("unable to save favorites: %w", err)
			}
			return nil
		}),
	})

	return favs
}

func withEnv(opts *options, run func(*cobra.Command, *env, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer e.Close()
		return run(cmd, e, args)
	}
}
