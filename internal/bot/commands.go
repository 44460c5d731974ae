package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"momentum/internal/focus"
	"momentum/internal/service"
	"momentum/internal/tracker"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	profile, err := b.ensureProfile(ctx, msg.From)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf("👋 Hi, %s!\n<b>Momentum counts your focus units and keeps your routine streaks.</b>\n\n", escape(name))
	if profile.IsFirstLogin {
		text += "Start by creating a category, e.g. /addcategory Deep work #3b82f6, " +
			"then make it a routine with /routine Deep work daily.\n\n"
		if err := b.profiles.CompleteOnboarding(ctx, profile.TelegramID); err != nil {
			b.log.Warn("complete onboarding", zap.Int64("account", profile.TelegramID), zap.Error(err))
		}
	}
	text += helpText
	return b.sendText(msg.Chat.ID, text)
}

const helpText = "Commands:\n" +
	"• /today — routines due today\n" +
	"• /log [category] — log one unit (buttons without a name)\n" +
	"• /undo &lt;category&gt; — take back one unit logged today\n" +
	"• /categories — list categories\n" +
	"• /addcategory &lt;label&gt; [#color] — add a category\n" +
	"• /editcategory &lt;category&gt; | [label] [#color] — rename or recolor\n" +
	"• /movecategory &lt;from&gt; &lt;to&gt; — reorder by position\n" +
	"• /deletecategory &lt;category&gt; — delete a category and its history\n" +
	"• /routine &lt;category&gt; daily | weekly mon,wed | off\n" +
	"• /stats [days] — totals and recent days\n" +
	"• /history — past days\n" +
	"• /focus [start | pause | reset | minutes] — focus timer\n" +
	"• /export — download your data; send the file back to import it\n" +
	"• /sync — retry saving changes that were kept locally"

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	return b.sendText(msg.Chat.ID, "ℹ️ <b>Help</b>\n"+helpText)
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) error {
	text, err := b.reminders.DailySummary(ctx, msg.From.ID, b.tracker.Today())
	if err != nil {
		return b.replyError(msg.Chat.ID, "today", err)
	}
	if text == "" {
		text = "No routines scheduled today. Attach one with /routine."
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleLog(ctx context.Context, msg *tgbotapi.Message) error {
	ref := strings.TrimSpace(msg.CommandArguments())
	if ref == "" {
		return b.sendLogPanel(ctx, msg.Chat.ID, msg.From.ID)
	}

	res, err := b.tracker.LogUnit(ctx, msg.From.ID, ref)
	if err != nil && !errors.Is(err, service.ErrSaveFailed) {
		return b.replyError(msg.Chat.ID, "log unit", err)
	}
	text := formatLogResult(res)
	if err != nil {
		text += "\n\n" + userMessage(err)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleUndo(ctx context.Context, msg *tgbotapi.Message) error {
	ref := strings.TrimSpace(msg.CommandArguments())
	if ref == "" {
		return b.sendText(msg.Chat.ID, "Name the category, e.g. /undo Deep work")
	}
	outcome, err := b.tracker.RemoveUnit(ctx, msg.From.ID, ref)
	if err != nil && !errors.Is(err, service.ErrSaveFailed) {
		return b.replyError(msg.Chat.ID, "remove unit", err)
	}
	text := fmt.Sprintf("↩️ Removed one unit. %d left today.", outcome.Count)
	if err != nil {
		text += "\n\n" + userMessage(err)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) sendLogPanel(ctx context.Context, chatID, account int64) error {
	data, err := b.tracker.Snapshot(ctx, account)
	if err != nil {
		return b.replyError(chatID, "log panel", err)
	}
	if len(data.Settings.Categories) == 0 {
		return b.sendText(chatID, "No categories yet. Add one with /addcategory.")
	}
	text := formatLogPanel(data.Settings.Categories, data.Log, b.tracker.Today())
	return b.sendWithReplyMarkup(chatID, text, logKeyboard(data.Settings.Categories))
}

func (b *Bot) refreshLogPanel(ctx context.Context, msg *tgbotapi.Message, account int64) error {
	data, err := b.tracker.Snapshot(ctx, account)
	if err != nil {
		return err
	}
	text := formatLogPanel(data.Settings.Categories, data.Log, b.tracker.Today())
	edit := tgbotapi.NewEditMessageTextAndMarkup(msg.Chat.ID, msg.MessageID, text, logKeyboard(data.Settings.Categories))
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		b.log.Debug("refresh log panel", zap.Error(err))
	}
	return nil
}

func (b *Bot) handleCategories(ctx context.Context, msg *tgbotapi.Message) error {
	data, err := b.tracker.Snapshot(ctx, msg.From.ID)
	if err != nil {
		return b.replyError(msg.Chat.ID, "categories", err)
	}
	return b.sendText(msg.Chat.ID, formatCategories(data.Settings.Categories))
}

func (b *Bot) handleAddCategory(ctx context.Context, msg *tgbotapi.Message) error {
	label, color := parseAddCategoryArgs(msg.CommandArguments())
	if label == "" {
		return b.sendText(msg.Chat.ID, "Usage: /addcategory &lt;label&gt; [#color]")
	}
	cat, err := b.tracker.AddCategory(ctx, msg.From.ID, label, color)
	if err != nil && !errors.Is(err, service.ErrSaveFailed) {
		return b.replyError(msg.Chat.ID, "add category", err)
	}
	text := fmt.Sprintf("📂 Added <b>%s</b>.", escape(cat.Label))
	if err != nil {
		text += "\n\n" + userMessage(err)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleEditCategory(ctx context.Context, msg *tgbotapi.Message) error {
	ref, label, color, err := parseEditCategoryArgs(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, escape(err.Error())+"\nUsage: /editcategory &lt;category&gt; | [label] [#color]")
	}
	err = b.tracker.UpdateCategory(ctx, msg.From.ID, ref, label, color)
	if err != nil && !errors.Is(err, service.ErrSaveFailed) {
		return b.replyError(msg.Chat.ID, "edit category", err)
	}
	text := "✏️ Category updated."
	if err != nil {
		text += "\n\n" + userMessage(err)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleMoveCategory(ctx context.Context, msg *tgbotapi.Message) error {
	from, to, err := parseMoveArgs(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, escape(err.Error())+"\nUsage: /movecategory &lt;from&gt; &lt;to&gt;, positions as in /categories")
	}
	err = b.tracker.MoveCategory(ctx, msg.From.ID, from, to)
	if err != nil && !errors.Is(err, service.ErrSaveFailed) {
		return b.replyError(msg.Chat.ID, "move category", err)
	}
	data, serr := b.tracker.Snapshot(ctx, msg.From.ID)
	if serr != nil {
		return b.replyError(msg.Chat.ID, "move category", serr)
	}
	text := formatCategories(data.Settings.Categories)
	if err != nil {
		text += "\n\n" + userMessage(err)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleDeleteCategory(ctx context.Context, msg *tgbotapi.Message) error {
	ref := strings.TrimSpace(msg.CommandArguments())
	if ref == "" {
		return b.sendText(msg.Chat.ID, "Usage: /deletecategory &lt;category&gt;")
	}
	data, err := b.tracker.Snapshot(ctx, msg.From.ID)
	if err != nil {
		return b.replyError(msg.Chat.ID, "delete category", err)
	}
	cat, ok := tracker.FindCategory(data.Settings.Categories, ref)
	if !ok {
		return b.replyError(msg.Chat.ID, "delete category", tracker.ErrUnknownCategory)
	}

	b.setConfirmation(msg.From.ID, cat.ID)
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", cbDeletePrefix+cat.ID),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Cancel", cbCancelPrefix),
		),
	)
	text := fmt.Sprintf("Delete <b>%s</b> and every unit logged for it?", escape(cat.Label))
	return b.sendWithReplyMarkup(msg.Chat.ID, text, markup)
}

func (b *Bot) confirmDeleteCategory(ctx context.Context, chatID, account int64, categoryID string) error {
	pending, ok := b.getConfirmation(account)
	if !ok || pending != categoryID {
		return b.sendText(chatID, "Nothing to confirm. Use /deletecategory again.")
	}
	b.clearConfirmation(account)

	err := b.tracker.DeleteCategory(ctx, account, categoryID)
	if err != nil && !errors.Is(err, service.ErrSaveFailed) {
		return b.replyError(chatID, "delete category", err)
	}
	text := "🗑 Category deleted."
	if err != nil {
		text += "\n\n" + userMessage(err)
	}
	return b.sendText(chatID, text)
}

func (b *Bot) handleRoutine(ctx context.Context, msg *tgbotapi.Message) error {
	ref, routine, err := parseRoutineArgs(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, escape(err.Error())+"\nUsage: /routine &lt;category&gt; daily | weekly mon,wed | off")
	}

	if routine == nil {
		err = b.tracker.RemoveRoutine(ctx, msg.From.ID, ref)
	} else {
		err = b.tracker.SetRoutine(ctx, msg.From.ID, ref, *routine)
	}
	if err != nil && !errors.Is(err, service.ErrSaveFailed) {
		return b.replyError(msg.Chat.ID, "routine", err)
	}

	text := "🔁 Routine removed, streak cleared."
	if routine != nil {
		text = "🔁 Routine set: " + describeRoutine(routine) + "."
	}
	if err != nil {
		text += "\n\n" + userMessage(err)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) error {
	days := defaultStatDays
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 || n > 90 {
			return b.sendText(msg.Chat.ID, "Days must be a number between 1 and 90, e.g. /stats 14")
		}
		days = n
	}
	stats, err := b.tracker.Stats(ctx, msg.From.ID, days)
	if err != nil {
		return b.replyError(msg.Chat.ID, "stats", err)
	}
	return b.sendText(msg.Chat.ID, formatStats(stats))
}

func (b *Bot) handleHistory(ctx context.Context, msg *tgbotapi.Message) error {
	history, err := b.tracker.History(ctx, msg.From.ID)
	if err != nil {
		return b.replyError(msg.Chat.ID, "history", err)
	}
	data, err := b.tracker.Snapshot(ctx, msg.From.ID)
	if err != nil {
		return b.replyError(msg.Chat.ID, "history", err)
	}
	return b.sendText(msg.Chat.ID, formatHistory(history, data.Settings.Categories, 14))
}

func (b *Bot) handleFocus(ctx context.Context, msg *tgbotapi.Message) error {
	action := ""
	if msg.IsCommand() {
		action = strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
	}
	return b.applyFocus(ctx, msg.Chat.ID, msg.From.ID, action)
}

func (b *Bot) applyFocus(ctx context.Context, chatID, account int64, action string) error {
	var (
		state focus.State
		err   error
	)
	switch action {
	case "", "status":
		state, err = b.tracker.FocusState(ctx, account)
	case "start":
		state, err = b.tracker.FocusStart(ctx, account)
	case "pause":
		state, err = b.tracker.FocusPause(ctx, account)
	case "reset":
		state, err = b.tracker.FocusReset(ctx, account)
	default:
		minutes, convErr := strconv.Atoi(action)
		if convErr != nil {
			return b.sendText(chatID, "Usage: /focus [start | pause | reset | minutes]")
		}
		state, err = b.tracker.FocusSetDuration(ctx, account, minutes)
	}
	if err != nil && !errors.Is(err, service.ErrSaveFailed) {
		return b.replyError(chatID, "focus", err)
	}
	text := formatFocus(state)
	if err != nil {
		text += "\n\n" + userMessage(err)
	}
	return b.sendWithReplyMarkup(chatID, text, focusKeyboard(state))
}

func (b *Bot) handleExport(ctx context.Context, msg *tgbotapi.Message) error {
	raw, err := b.tracker.Export(ctx, msg.From.ID)
	if err != nil {
		return b.replyError(msg.Chat.ID, "export", err)
	}
	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: exportFileName, Bytes: raw})
	doc.Caption = "Send this file back to me to restore it."
	_, err = b.api.Send(doc)
	return err
}

func (b *Bot) handleImport(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.Document.FileSize > maxImportSize {
		return b.sendText(msg.Chat.ID, "That file is too large to be a Momentum export.")
	}
	raw, err := b.download(ctx, msg.Document.FileID)
	if err != nil {
		return b.replyError(msg.Chat.ID, "download import", err)
	}
	err = b.tracker.Import(ctx, msg.From.ID, raw)
	if err != nil && !errors.Is(err, service.ErrSaveFailed) {
		return b.replyError(msg.Chat.ID, "import", err)
	}
	text := "📥 Data imported."
	if err != nil {
		text += "\n\n" + userMessage(err)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleSync(ctx context.Context, msg *tgbotapi.Message) error {
	pending := b.tracker.Pending(msg.From.ID)
	if err := b.tracker.Sync(ctx, msg.From.ID); err != nil {
		return b.replyError(msg.Chat.ID, "sync", err)
	}
	if !pending {
		return b.sendText(msg.Chat.ID, "Everything is saved. Reloaded your data.")
	}
	return b.sendText(msg.Chat.ID, "💾 Saved.")
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxImportSize))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return raw, nil
}
