package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"amon/internal/attendance"
	"amon/internal/observability"
	"amon/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	historyJSON bool
	historyDiff bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Fetch and reconcile the attendance history snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := eng.CollectHistory(cmd.Context())
		if err != nil {
			return err
		}

		st, err := store.NewSnapshotStore(cfg.SnapshotDir, observability.L())
		if err != nil {
			return err
		}
		prev, err := st.Latest()
		if err != nil {
			observability.L().Warn("loading previous snapshot failed", zap.Error(err))
		}
		if err := st.Save(snap); err != nil {
			return err
		}

		if historyJSON {
			return json.NewEncoder(os.Stdout).Encode(snap)
		}

		if historyDiff {
			changes := store.Diff(prev, snap)
			if len(changes) == 0 {
				fmt.Println("no changes since last snapshot")
				return nil
			}
			for _, ch := range changes {
				fmt.Printf("%s: %s -> %s\n", ch.Date, entryLabel(ch.Before), entryLabel(ch.After))
			}
			return nil
		}

		fmt.Printf("window %s .. %s, %d days\n",
			snap.From.Format("2006-01-02"), snap.To.Format("2006-01-02"), len(snap.Days))
		for _, day := range snap.SortedDates() {
			e := snap.Days[day]
			fmt.Printf("%s  %-8s %-8s  (%s)\n", day, e.FirstHalf, e.SecondHalf, e.Source)
		}
		return nil
	},
}

func entryLabel(e *attendance.HistoryEntry) string {
	if e == nil {
		return "untracked"
	}
	if e.FirstHalf == e.SecondHalf {
		return string(e.FirstHalf)
	}
	return fmt.Sprintf("%s/%s", e.FirstHalf, e.SecondHalf)
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print the snapshot as JSON")
	historyCmd.Flags().BoolVar(&historyDiff, "diff", false, "print only changes since the previous snapshot")
	rootCmd.AddCommand(historyCmd)
}
