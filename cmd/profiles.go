package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/acadops/secondmark/core/profile"
	"github.com/acadops/secondmark/infra/logger"
	"github.com/acadops/secondmark/ingest"
	"github.com/acadops/secondmark/pkg/export"
)

var (
	profilesInput  string
	profilesOutput string
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Build the merged per-supervisor profile table from raw projects",
	RunE:  buildProfiles,
}

func init() {
	profilesCmd.Flags().StringVar(&profilesInput, "input", "all_projects.csv", "raw project table")
	profilesCmd.Flags().StringVar(&profilesOutput, "output", "supervisor_set.csv", "merged profile table to write")
	rootCmd.AddCommand(profilesCmd)
}

func buildProfiles(cmd *cobra.Command, args []string) error {
	logg := logger.New("profiles-command")

	rows, err := ingest.LoadRawProjectsFile(profilesInput)
	if err != nil {
		return fmt.Errorf("load raw projects: %w", err)
	}
	profiles := profile.BuildSupervisorProfiles(rows)

	f, err := os.Create(profilesOutput)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := export.WriteSupervisorSetCSV(f, profiles); err != nil {
		_ = f.Close()
		return fmt.Errorf("write supervisor set: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logg.Infof("wrote %d supervisor profiles to %s", len(profiles), profilesOutput)
	return nil
}
