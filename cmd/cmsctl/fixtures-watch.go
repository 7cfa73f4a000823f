package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/cms-in-go/pkg/fixtures"
)

// fixturesWatchCmd represents the fixtures watch command
var fixturesWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a fixture document and load it whenever it changes",
	Long: `Watch a fixture document and load it whenever it is written.

Each reload starts from an empty fixture registry, so "!ref" tags only see
fixtures created by the current version of the document. Records created
by earlier loads stay in the database.

Example:
  cmsctl fixtures watch fixtures.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		loader, err := newFixtureLoader(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := watchFixtures(ctx, loader, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch fixtures: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	fixturesCmd.AddCommand(fixturesWatchCmd)
}

func watchFixtures(ctx context.Context, loader *fixtures.Loader, filename string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for fixture changes\n", filename)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			fmt.Printf("[%s] File modified, reloading fixtures...\n", time.Now().Format(time.RFC3339))

			loader.Reset()
			result, err := loadFixtureFile(ctx, loader, filename)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
				continue
			}
			fmt.Printf("Loaded %d fixture(s) from %s\n", len(result.Created), filename)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-ctx.Done():
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}
