package cmd

import (
	"fmt"
	"os"

	"amon/internal/observability"
	"amon/internal/render"
	"amon/internal/store"

	"github.com/spf13/cobra"
)

var (
	renderOut   string
	renderFresh bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Draw the attendance snapshot as a calendar PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewSnapshotStore(cfg.SnapshotDir, observability.L())
		if err != nil {
			return err
		}

		snap, err := st.Latest()
		if err != nil {
			return err
		}
		if snap == nil || renderFresh {
			snap, err = eng.CollectHistory(cmd.Context())
			if err != nil {
				return err
			}
			if err := st.Save(snap); err != nil {
				return err
			}
		}

		png, err := render.RenderCalendar(snap)
		if err != nil {
			return err
		}
		if err := os.WriteFile(renderOut, png, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", renderOut, err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", renderOut, len(png))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "attendance.png", "output file")
	renderCmd.Flags().BoolVar(&renderFresh, "fresh", false, "fetch a new snapshot instead of using the stored one")
	rootCmd.AddCommand(renderCmd)
}
