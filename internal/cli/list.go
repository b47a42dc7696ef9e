package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tally/internal/model"
	"github.com/sandeepkv93/tally/internal/render"
	"github.com/sandeepkv93/tally/internal/storage"
)

type listOutput struct {
	Completed []model.CompletedEntry `json:"completed"`
	Given     []model.GivenEntry     `json:"given"`
}

func newListCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the Completed and Given lists, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := app.engine.Snapshot(cmd.Context())
			if err != nil && !errors.Is(err, storage.ErrStorageUnavailable) {
				return err
			}
			out := listOutput{
				Completed: append([]model.CompletedEntry{}, snap.Completed...),
				Given:     append([]model.GivenEntry{}, snap.Given...),
			}
			if asJSON {
				return writeJSON(cmd, out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, render.CompletedLabel(len(out.Completed)))
			for _, e := range out.Completed {
				fmt.Fprintf(w, "  %d\t%s\n", e.ID, e.Content)
			}
			fmt.Fprintln(w, render.GivenLabel(len(out.Given)))
			for _, g := range out.Given {
				fmt.Fprintf(w, "  %s\t%s\n", g.CompletedOn, g.GivenOn)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}
