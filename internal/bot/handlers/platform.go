package handlers

import (
	"context"
	"strings"

	"github.com/Spok95/telegram-movies-bot/internal/bot/menu"
	"github.com/Spok95/telegram-movies-bot/internal/metrics"
	"github.com/Spok95/telegram-movies-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const platformTitlesLimit = 12

// HandlePlatformCmd — /platform: выбор платформы.
func HandlePlatformCmd(bot *tgbotapi.BotAPI, d *Deps, msg *tgbotapi.Message) {
	if !d.Watchmode.Enabled() {
		_, _ = tg.Send(bot, tgbotapi.NewMessage(msg.Chat.ID, "هذه الميزة تعتمد على Watchmode. أضِف WATCHMODE_API_KEY لتفعيلها."))
		return
	}
	out := tgbotapi.NewMessage(msg.Chat.ID, "اختر منصة:")
	out.ReplyMarkup = menu.PlatformList()
	_, _ = tg.Send(bot, out)
}

// ShowPlatformMenu — то же самое поверх существующего сообщения (кнопка меню).
func ShowPlatformMenu(bot *tgbotapi.BotAPI, cb *tgbotapi.CallbackQuery) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(cb.Message.Chat.ID, cb.Message.MessageID, "اختر منصة:", menu.PlatformList())
	_, _ = tg.Send(bot, edit)
}

// HandlePlatformCallback — PLAT:<имя>: популярное на платформе в регионе.
func HandlePlatformCallback(ctx context.Context, bot *tgbotapi.BotAPI, d *Deps, cb *tgbotapi.CallbackQuery) {
	name := strings.TrimPrefix(cb.Data, "PLAT:")
	chatID, msgID := cb.Message.Chat.ID, cb.Message.MessageID

	if !d.Watchmode.Enabled() {
		_, _ = tg.Send(bot, tgbotapi.NewEditMessageText(chatID, msgID, "لم يتم تفعيل Watchmode بعد."))
		return
	}

	titles, err := d.Watchmode.TitlesBySourceName(ctx, name, platformTitlesLimit)
	if err != nil {
		d.warnw(ctx, "watchmode titles failed", "platform", name, "err", err)
		metrics.HandlerErrors.Inc()
	}
	if len(titles) == 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID,
			"لا توجد نتائج حالياً لهذه المنصة في منطقتك أو تعذّر الوصول للمزود.", menu.Main())
		edit.ParseMode = tgbotapi.ModeMarkdown
		_, _ = tg.Send(bot, edit)
		return
	}

	lines := make([]string, 0, len(titles))
	for _, t := range titles {
		lines = append(lines, ListedTitleLine(t))
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID,
		"*الأبرز على "+name+"*\n"+strings.Join(lines, "\n"), menu.Main())
	edit.ParseMode = tgbotapi.ModeMarkdown
	_, _ = tg.Send(bot, edit)
}
