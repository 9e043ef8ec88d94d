package cmd

import (
	"fmt"
	"strings"
	"time"

	"amon/internal/attendance"
	"amon/internal/submit"

	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply <wfo|wfh> <date[:span]>...",
	Short: "Submit attendance for one or more dates",
	Long: `Submit work-from-office regularizations or work-from-home leaves.

Dates use the 2006-01-02 layout. An optional span suffix selects half
days: 2025-07-21:first_half, 2025-07-21:second_half. Without a suffix
the whole day is submitted.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := parseMode(args[0])
		if err != nil {
			return err
		}
		assignments, err := parseAssignments(mode, args[1:])
		if err != nil {
			return err
		}

		status := func(message string, severity submit.Severity, advance bool) {
			prefix := " "
			switch severity {
			case submit.SeverityWarning:
				prefix = "!"
			case submit.SeverityError:
				prefix = "x"
			}
			fmt.Printf("%s %s\n", prefix, message)
		}

		return eng.Submit(cmd.Context(), mode, assignments, status)
	},
}

func parseMode(raw string) (attendance.Mode, error) {
	switch attendance.Mode(strings.ToLower(raw)) {
	case attendance.ModeWFO:
		return attendance.ModeWFO, nil
	case attendance.ModeWFH:
		return attendance.ModeWFH, nil
	default:
		return "", fmt.Errorf("unknown mode %q: want wfo or wfh", raw)
	}
}

func parseAssignments(mode attendance.Mode, args []string) ([]attendance.Assignment, error) {
	assignments := make([]attendance.Assignment, 0, len(args))
	for _, arg := range args {
		dateLit, spanLit, _ := strings.Cut(arg, ":")
		date, err := time.ParseInLocation("2006-01-02", dateLit, time.Local)
		if err != nil {
			return nil, fmt.Errorf("bad date %q: want 2006-01-02", dateLit)
		}
		assignments = append(assignments, attendance.Assignment{
			Date: date,
			Mode: mode,
			Span: attendance.NormalizeSpan(spanLit),
		})
	}
	return assignments, nil
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
