package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginVisible bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify portal credentials with a fresh login",
	RunE: func(cmd *cobra.Command, args []string) error {
		headless := cfg.Headless
		if loginVisible {
			headless = false
		}

		state, err := eng.TestLogin(cmd.Context(), headless)
		if err != nil {
			if state.Message != "" {
				return fmt.Errorf("%s", state.Message)
			}
			return err
		}

		fmt.Printf("login %s\n", state.Status)
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVar(&loginVisible, "visible", false, "show the browser window during login")
	rootCmd.AddCommand(loginCmd)
}
