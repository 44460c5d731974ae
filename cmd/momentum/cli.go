package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"momentum/internal/repository"
	"momentum/internal/service"
)

var (
	statDays   int
	exportOut  string
	importFile string
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the routines due today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker := newTracker(repository.NewProfileRepository(db))
		routines, err := tracker.TodaysRoutines(cmd.Context(), account)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderRoutines(tracker.Today().Date, routines))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals and the last days per category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if statDays <= 0 {
			return errors.New("--days must be positive")
		}
		tracker := newTracker(repository.NewProfileRepository(db))
		stats, err := tracker.Stats(cmd.Context(), account, statDays)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderStats(stats))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the account data as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker := newTracker(repository.NewProfileRepository(db))
		raw, err := tracker.Export(cmd.Context(), account)
		if err != nil {
			return err
		}
		if exportOut == "" {
			_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
			return err
		}
		if err := os.WriteFile(exportOut, raw, 0o600); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), styleMuted.Render("exported to "+exportOut))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the account data with an export document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(importFile)
		if err != nil {
			return fmt.Errorf("read import: %w", err)
		}
		tracker := newTracker(repository.NewProfileRepository(db))
		if err := tracker.Import(cmd.Context(), account, raw); err != nil {
			if errors.Is(err, service.ErrInvalidImport) {
				return fmt.Errorf("%s is not a valid export: %w", importFile, err)
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styleDone.Render("imported "+importFile))
		return nil
	},
}
