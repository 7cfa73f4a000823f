package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/cms-in-go/pkg/config"
	"github.com/doodlesbykumbi/cms-in-go/pkg/db"
	"github.com/doodlesbykumbi/cms-in-go/pkg/fixtures"
)

// fixturesCmd represents the fixtures command
var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Seed the database from fixture documents",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'fixtures' requires a subcommand (load, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// fixturesLoadCmd represents the fixtures load command
var fixturesLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load a fixture document",
	Long: `Load a fixture document into the database.

A fixture document is a YAML list of create_<model> calls. Each call names
the fixture and gives its attributes; "!ref <bucket>/<name>" refers to the
id of a fixture created earlier in the same document. The whole document is
loaded in one transaction.

Example:
  cmsctl fixtures load fixtures.yml
  cmsctl fixtures load --silent fixtures.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		loader, err := newFixtureLoader(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		result, err := loadFixtureFile(cmd.Context(), loader, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load fixtures: %v\n", err)
			os.Exit(1)
		}

		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
	},
}

func init() {
	rootCmd.AddCommand(fixturesCmd)
	fixturesCmd.AddCommand(fixturesLoadCmd)
	fixturesCmd.PersistentFlags().Bool("silent", false, "suppress the trace line of each created fixture (default: fixtures_silent)")
}

func newFixtureLoader(cmd *cobra.Command) (*fixtures.Loader, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	silent := cfg.FixturesSilent
	if cmd.Flags().Changed("silent") {
		silent, _ = cmd.Flags().GetBool("silent")
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}
	return newLoader(database, silent), nil
}

func newLoader(database *gorm.DB, silent bool) *fixtures.Loader {
	types := fixtures.NewTypeRegistry(fixtures.CMSNamespace)
	fixtures.RegisterCMSTypes(types)
	return fixtures.NewLoader(fixtures.NewGormStore(database), types).WithSilent(silent)
}

func loadFixtureFile(ctx context.Context, loader *fixtures.Loader, filename string) (*fixtures.LoadResult, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return loader.LoadFromReader(ctx, file)
}
