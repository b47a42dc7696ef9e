package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tally/internal/storage"
)

var errNoSuchEntry = errors.New("no completed entry with that id")

func newGiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "give <id>",
		Short: "Move a completed entry to the Given list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[0])
			}
			ctx := cmd.Context()
			entry, ok, err := app.engine.Lookup(ctx, id)
			if err != nil && !errors.Is(err, storage.ErrStorageUnavailable) {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %d", errNoSuchEntry, id)
			}
			given, err := app.engine.Transfer(ctx, entry)
			if err != nil && !errors.Is(err, storage.ErrStorageUnavailable) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "gave %d: %s / %s\n", id, given.CompletedOn, given.GivenOn)
			return nil
		},
	}
}
