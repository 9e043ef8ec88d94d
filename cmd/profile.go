package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var profileJSON bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the logged-in employee's identity card",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := eng.CollectProfile(cmd.Context())
		if err != nil {
			return err
		}

		if profileJSON {
			return json.NewEncoder(os.Stdout).Encode(p)
		}

		fmt.Printf("Name:              %s\n", p.Name)
		fmt.Printf("Employee ID:       %s\n", p.EmployeeID)
		fmt.Printf("Designation:       %s\n", p.Designation)
		fmt.Printf("Reporting Manager: %s\n", p.ReportingManager)
		return nil
	},
}

func init() {
	profileCmd.Flags().BoolVar(&profileJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(profileCmd)
}
