package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/jobseeker-buddy/internal/observability"
)

var (
	newAppUser string
	newAppURL  string
)

var newApplicationCmd = &cobra.Command{
	Use:   "new-application",
	Short: "Create an application from a job posting URL",
	Long:  "Scrape the job posting at --url, extract its details and record a new application for the user.",
	RunE:  runNewApplication,
}

var versionsCmd = &cobra.Command{
	Use:   "versions <application-id>",
	Short: "List the document versions of an application",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersions,
}

var applicationsCmd = &cobra.Command{
	Use:   "applications <user-id>",
	Short: "List a user's applications, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runApplications,
}

func init() {
	newApplicationCmd.Flags().StringVarP(&newAppUser, "user", "u", "", "User ID (required)")
	newApplicationCmd.Flags().StringVar(&newAppURL, "url", "", "Job posting URL (required)")
	_ = newApplicationCmd.MarkFlagRequired("user")
	_ = newApplicationCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(newApplicationCmd, versionsCmd, applicationsCmd)
}

func runNewApplication(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	application, err := a.applications.Create(cmd.Context(), newAppUser, newAppURL)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Application created: %s\n", application.ID)
	if verbose {
		observability.NewPrinter(out).PrintJobPosting(&application.Job)
	}
	return nil
}

func runVersions(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid application id %q: %w", args[0], err)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	versions, err := a.applications.Versions(cmd.Context(), id)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintVersions(versions)
	return nil
}

func runApplications(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	apps, err := a.applications.List(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(apps) == 0 {
		fmt.Fprintf(out, "No applications for %s\n", args[0])
		return nil
	}
	for _, application := range apps {
		fmt.Fprintf(out, "%s  %s  %s at %s\n",
			application.ID, application.CreatedAt.Format("2006-01-02"), application.Job.Role, application.Job.Company)
	}
	return nil
}
