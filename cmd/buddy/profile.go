package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobseeker-buddy/internal/observability"
)

var profileJSON bool

var profileCmd = &cobra.Command{
	Use:   "profile <user-id>",
	Short: "Show a user's stored documents and summaries",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().BoolVar(&profileJSON, "json", false, "Print the full profile as JSON")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	profile, err := a.assets.GetProfile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if profileJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	}
	observability.NewPrinter(out).PrintProfile(profile)
	return nil
}
