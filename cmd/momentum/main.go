package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"momentum/internal/clock"
	"momentum/internal/config"
	"momentum/internal/logging"
	"momentum/internal/repository"
	"momentum/internal/service"
)

var (
	verbose bool
	account int64

	cfg    config.Config
	logger *zap.Logger
	db     *gorm.DB
)

var rootCmd = &cobra.Command{
	Use:   "momentum",
	Short: "Momentum - focus units, routines and streaks",
	Long: `Momentum counts units of focus per category, tracks daily and weekly
routines with streaks, and runs a focus timer.

Run "momentum serve" to start the Telegram bot and the HTTP API, or use the
other commands to inspect an account from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level)
		if err != nil {
			return err
		}
		db, err = repository.NewDB(cfg.DatabaseURL, logger)
		if err != nil {
			return fmt.Errorf("db: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	for _, cmd := range []*cobra.Command{todayCmd, statsCmd, exportCmd, importCmd} {
		cmd.Flags().Int64Var(&account, "account", 0, "Telegram user id of the account")
		_ = cmd.MarkFlagRequired("account")
	}
	statsCmd.Flags().IntVar(&statDays, "days", 7, "number of days in the series")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to file instead of stdout")
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "export document to import")
	_ = importCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(serveCmd, todayCmd, statsCmd, exportCmd, importCmd)
}

func newTracker(profiles *repository.ProfileRepository) *service.TrackerService {
	return service.NewTrackerService(profiles, clock.System{Location: cfg.Location}, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
