package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"momentum/internal/api"
	"momentum/internal/bot"
	"momentum/internal/repository"
	"momentum/internal/service"
)

const jobTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot, the HTTP API and the scheduler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profiles := repository.NewProfileRepository(db)
	tracker := newTracker(profiles)
	reminders := service.NewReminderService(tracker)
	scheduler := service.NewSchedulerService(cfg.Location, logger)

	g, gctx := errgroup.WithContext(ctx)

	server := api.NewServer(cfg.HTTPAddr, tracker, logger)
	g.Go(func() error {
		return server.Run(gctx)
	})

	if _, err := scheduler.ScheduleInterval(time.Minute, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := tracker.FlushAll(jobCtx); err != nil {
			logger.Warn("flush pending changes", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	if cfg.BotEnabled() {
		telegramBot, err := bot.New(cfg.TelegramToken, profiles, tracker, reminders, logger)
		if err != nil {
			return err
		}
		if _, err := scheduler.ScheduleDaily(cfg.ReminderTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := telegramBot.SendDailyReminders(jobCtx); err != nil {
				logger.Warn("daily reminders", zap.Error(err))
			}
		}); err != nil {
			return err
		}
		if _, err := scheduler.ScheduleInterval(time.Minute, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := telegramBot.SweepFocus(jobCtx); err != nil {
				logger.Warn("focus sweep", zap.Error(err))
			}
		}); err != nil {
			return err
		}
		g.Go(func() error {
			if err := telegramBot.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		logger.Warn("TELEGRAM_TOKEN is not set, bot disabled")
	}

	scheduler.Start()
	logger.Info("momentum started",
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Bool("bot", cfg.BotEnabled()),
		zap.String("reminder_time", cfg.ReminderTime),
		zap.Int("jobs", scheduler.Entries()))

	err := g.Wait()
	scheduler.Stop()

	flushCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if ferr := tracker.FlushAll(flushCtx); ferr != nil {
		logger.Error("unsaved changes lost on shutdown", zap.Error(ferr))
	}
	logger.Info("shutdown complete")
	return err
}
