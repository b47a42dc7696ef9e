package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tally/internal/storage"
)

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Record a completion for today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := app.engine.Add(cmd.Context())
			if err != nil && !errors.Is(err, storage.ErrStorageUnavailable) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d: %s\n", entry.ID, entry.Content)
			return nil
		},
	}
}
