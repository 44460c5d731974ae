package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"momentum/internal/model"
	"momentum/internal/repository"
	"momentum/internal/service"
)

const (
	cbLogPrefix     = "log:"
	cbUndoPrefix    = "undo:"
	cbFocusPrefix   = "focus:"
	cbDeletePrefix  = "delcat:"
	cbCancelPrefix  = "cancel:"
	maxImportSize   = 1 << 20
	exportFileName  = "momentum-export.json"
	defaultStatDays = 7
)

const (
	menuLabelToday      = "📋 Today"
	menuLabelLog        = "➕ Log"
	menuLabelStats      = "📊 Stats"
	menuLabelFocus      = "⏱ Focus"
	menuLabelCategories = "📂 Categories"
	menuLabelHelp       = "ℹ️ Help"
)

// Bot aggregates Telegram API with services.
type Bot struct {
	api       *tgbotapi.BotAPI
	profiles  *repository.ProfileRepository
	tracker   *service.TrackerService
	reminders *service.ReminderService
	log       *zap.Logger

	mu            sync.Mutex
	confirmations map[int64]string
}

func New(token string, profiles *repository.ProfileRepository, tracker *service.TrackerService, reminders *service.ReminderService, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("bot")
	log.Info("bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:           api,
		profiles:      profiles,
		tracker:       tracker,
		reminders:     reminders,
		log:           log,
		confirmations: make(map[int64]string),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Warn("handle callback", zap.Error(err))
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Warn("handle message", zap.Error(err))
			}
		}
	}

	return ctx.Err()
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.Document != nil {
		return b.handleImport(ctx, msg)
	}

	if msg.IsCommand() {
		b.log.Debug("command",
			zap.Int64("account", msg.From.ID),
			zap.String("command", msg.Command()),
			zap.String("args", msg.CommandArguments()))
		return b.handleCommand(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Try /log to record a unit or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "today":
		return b.handleToday(ctx, msg)
	case "log":
		return b.handleLog(ctx, msg)
	case "undo":
		return b.handleUndo(ctx, msg)
	case "categories":
		return b.handleCategories(ctx, msg)
	case "addcategory":
		return b.handleAddCategory(ctx, msg)
	case "editcategory":
		return b.handleEditCategory(ctx, msg)
	case "movecategory":
		return b.handleMoveCategory(ctx, msg)
	case "deletecategory":
		return b.handleDeleteCategory(ctx, msg)
	case "routine":
		return b.handleRoutine(ctx, msg)
	case "stats":
		return b.handleStats(ctx, msg)
	case "history":
		return b.handleHistory(ctx, msg)
	case "focus":
		return b.handleFocus(ctx, msg)
	case "export":
		return b.handleExport(ctx, msg)
	case "sync":
		return b.handleSync(ctx, msg)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch strings.TrimSpace(msg.Text) {
	case menuLabelToday:
		return true, b.handleToday(ctx, msg)
	case menuLabelLog:
		return true, b.sendLogPanel(ctx, msg.Chat.ID, msg.From.ID)
	case menuLabelStats:
		return true, b.handleStats(ctx, msg)
	case menuLabelFocus:
		return true, b.handleFocus(ctx, msg)
	case menuLabelCategories:
		return true, b.handleCategories(ctx, msg)
	case menuLabelHelp:
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}

	account := cb.From.ID
	chatID := cb.Message.Chat.ID
	data := cb.Data
	b.log.Debug("callback", zap.Int64("account", account), zap.String("data", data))

	switch {
	case strings.HasPrefix(data, cbLogPrefix):
		res, err := b.tracker.LogUnit(ctx, account, strings.TrimPrefix(data, cbLogPrefix))
		if err != nil && !errors.Is(err, service.ErrSaveFailed) {
			b.ack(cb, userMessage(err))
			return nil
		}
		b.ack(cb, fmt.Sprintf("+1 %s (%d today)", res.Category.Label, res.Outcome.Count))
		for _, r := range res.Celebrations {
			if sendErr := b.sendText(chatID, formatCelebration(r)); sendErr != nil {
				b.log.Warn("send celebration", zap.Error(sendErr))
			}
		}
		if err != nil {
			_ = b.sendText(chatID, userMessage(err))
		}
		return b.refreshLogPanel(ctx, cb.Message, account)
	case strings.HasPrefix(data, cbUndoPrefix):
		outcome, err := b.tracker.RemoveUnit(ctx, account, strings.TrimPrefix(data, cbUndoPrefix))
		if err != nil && !errors.Is(err, service.ErrSaveFailed) {
			b.ack(cb, userMessage(err))
			return nil
		}
		b.ack(cb, fmt.Sprintf("−1 (%d today)", outcome.Count))
		return b.refreshLogPanel(ctx, cb.Message, account)
	case strings.HasPrefix(data, cbFocusPrefix):
		b.ack(cb, "")
		return b.applyFocus(ctx, chatID, account, strings.TrimPrefix(data, cbFocusPrefix))
	case strings.HasPrefix(data, cbDeletePrefix):
		b.ack(cb, "")
		return b.confirmDeleteCategory(ctx, chatID, account, strings.TrimPrefix(data, cbDeletePrefix))
	case strings.HasPrefix(data, cbCancelPrefix):
		b.clearConfirmation(account)
		b.ack(cb, "Cancelled")
		return nil
	default:
		b.ack(cb, "")
		return nil
	}
}

// SendDailyReminders sends the routine summary to every known profile.
func (b *Bot) SendDailyReminders(ctx context.Context) error {
	profiles, err := b.profiles.ListAll(ctx)
	if err != nil {
		return err
	}
	day := b.tracker.Today()
	for _, profile := range profiles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		text, err := b.reminders.DailySummary(ctx, profile.TelegramID, day)
		if err != nil {
			b.log.Warn("build summary", zap.Int64("account", profile.TelegramID), zap.Error(err))
			continue
		}
		if text == "" {
			continue
		}
		if err := b.sendText(profile.TelegramID, text); err != nil {
			b.log.Warn("send summary", zap.Int64("account", profile.TelegramID), zap.Error(err))
		}
	}
	return nil
}

// SweepFocus finishes expired focus sessions and tells their owners.
func (b *Bot) SweepFocus(ctx context.Context) error {
	profiles, err := b.profiles.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, profile := range profiles {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		finished, err := b.tracker.FinishExpiredFocus(ctx, profile.TelegramID)
		if err != nil && !errors.Is(err, service.ErrSaveFailed) {
			b.log.Warn("finish focus", zap.Int64("account", profile.TelegramID), zap.Error(err))
			continue
		}
		if !finished {
			continue
		}
		if err := b.sendText(profile.TelegramID, "⏰ Focus session complete. Log it with /log."); err != nil {
			b.log.Warn("send focus done", zap.Int64("account", profile.TelegramID), zap.Error(err))
		}
	}
	return nil
}

func (b *Bot) ensureProfile(ctx context.Context, from *tgbotapi.User) (*model.Profile, error) {
	return b.profiles.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) ack(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		b.log.Debug("callback ack", zap.Error(err))
	}
}

// replyError answers with a user-facing message for err; unexpected errors are logged.
func (b *Bot) replyError(chatID int64, op string, err error) error {
	if !isUserError(err) {
		b.log.Error(op, zap.Int64("chat", chatID), zap.Error(err))
	}
	return b.sendText(chatID, userMessage(err))
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) getConfirmation(account int64) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.confirmations[account]
	return id, ok
}

func (b *Bot) setConfirmation(account int64, categoryID string) {
	b.mu.Lock()
	b.confirmations[account] = categoryID
	b.mu.Unlock()
}

func (b *Bot) clearConfirmation(account int64) {
	b.mu.Lock()
	delete(b.confirmations, account)
	b.mu.Unlock()
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelToday),
			tgbotapi.NewKeyboardButton(menuLabelLog),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelStats),
			tgbotapi.NewKeyboardButton(menuLabelFocus),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelCategories),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func escape(s string) string {
	return html.EscapeString(s)
}
