package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sold/internal/journal"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [output-dir]",
	Short: "Remove the artifacts of the last build",
	Long: `Remove exactly the files the last build wrote into the given output
directory (default: current), according to the build journal. Files the
build did not write are left alone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func runClean(_ *cobra.Command, args []string) error {
	outputDir := "."
	if len(args) > 0 && args[0] != "" {
		outputDir = args[0]
	}

	j, err := journal.Open("sold")
	if err != nil {
		return err
	}
	entry, ok, err := j.Get(outputDir)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(os.Stdout, "no recorded build for %s\n", outputDir)
		return nil
	}

	removed := 0
	for _, artifact := range entry.Artifacts {
		if err := os.Remove(artifact); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to remove %q: %w", artifact, err)
		}
		removed++
	}
	if err := j.Drop(outputDir); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "removed %d artifact(s)\n", removed)
	return nil
}
