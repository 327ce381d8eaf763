package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"skarn/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the skarn disk cache",
	Long:  "Remove every cached check result. The next check re-runs the full pipeline for all files.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(_ *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache("skarn")
	if err != nil {
		return fmt.Errorf("failed to open disk cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to drop disk cache: %w", err)
	}
	_, _ = fmt.Fprintln(os.Stdout, "disk cache removed")
	return nil
}
