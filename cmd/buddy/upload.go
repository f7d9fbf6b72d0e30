package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobseeker-buddy/internal/assets"
	"github.com/jonathan/jobseeker-buddy/internal/observability"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

var (
	uploadUser       string
	uploadResume     string
	uploadLinkedIn   string
	uploadExperience string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload profile documents",
	Long:  "Extract and summarize a resume, LinkedIn export and/or experience notes (PDF or plain text) and store them on the user's profile.",
	RunE:  runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadUser, "user", "u", "", "User ID (required)")
	uploadCmd.Flags().StringVar(&uploadResume, "resume", "", "Path to resume file")
	uploadCmd.Flags().StringVar(&uploadLinkedIn, "linkedin", "", "Path to LinkedIn profile export")
	uploadCmd.Flags().StringVar(&uploadExperience, "experience", "", "Path to free-form experience notes")

	_ = uploadCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(uploadCmd)
}

// readUploads reads each non-empty path into an Upload of its kind.
func readUploads(paths map[types.AssetKind]string) ([]assets.Upload, error) {
	var uploads []assets.Upload
	for _, kind := range types.AllAssetKinds() {
		path := paths[kind]
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s file: %w", kind, err)
		}
		uploads = append(uploads, assets.Upload{Kind: kind, Filename: filepath.Base(path), Data: data})
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("at least one of --resume, --linkedin or --experience must be provided")
	}
	return uploads, nil
}

func runUpload(cmd *cobra.Command, _ []string) error {
	uploads, err := readUploads(map[types.AssetKind]string{
		types.AssetResume:     uploadResume,
		types.AssetLinkedIn:   uploadLinkedIn,
		types.AssetExperience: uploadExperience,
	})
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.assets.Upload(cmd.Context(), uploadUser, uploads)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Uploaded %d document(s) for %s\n", len(result.Documents), uploadUser)
	if verbose {
		observability.NewPrinter(out).PrintProfile(result.Profile)
	}
	return nil
}
