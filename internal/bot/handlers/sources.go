package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spok95/telegram-movies-bot/internal/bot/menu"
	"github.com/Spok95/telegram-movies-bot/internal/metrics"
	"github.com/Spok95/telegram-movies-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleSourcesCallback — SRC_IMDB:<imdbID>: где смотреть тайтл в регионе.
func HandleSourcesCallback(ctx context.Context, bot *tgbotapi.BotAPI, d *Deps, cb *tgbotapi.CallbackQuery) {
	imdbID := strings.TrimPrefix(cb.Data, "SRC_IMDB:")
	chatID, msgID := cb.Message.Chat.ID, cb.Message.MessageID

	if !d.Watchmode.Enabled() {
		_, _ = tg.Send(bot, tgbotapi.NewEditMessageText(chatID, msgID, "ميزة أماكن المشاهدة غير مفعّلة حالياً."))
		return
	}

	src, err := d.Watchmode.SourcesByIMDb(ctx, imdbID)
	if err != nil {
		d.warnw(ctx, "watchmode sources failed", "imdb_id", imdbID, "err", err)
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(bot, tgbotapi.NewEditMessageText(chatID, msgID, "تعذر الوصول للمزود حالياً. جرّب لاحقًا."))
		return
	}
	if len(src) == 0 {
		_, _ = tg.Send(bot, tgbotapi.NewEditMessageText(chatID, msgID, "لم نعثر على منصات متاحة في منطقتك حالياً."))
		return
	}

	lines := make([]string, 0, len(src))
	for _, s := range src {
		lines = append(lines, fmt.Sprintf("• %s — %s\n%s", s.Name, SourceTypeLabel(s.Type), s.WebURL))
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID,
		"*أماكن المشاهدة ("+d.Cfg.Region+")*\n"+strings.Join(lines, "\n"), menu.Main())
	edit.ParseMode = tgbotapi.ModeMarkdown
	_, _ = tg.Send(bot, edit)
}
