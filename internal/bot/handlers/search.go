package handlers

import (
	"context"
	"strings"

	"github.com/Spok95/telegram-movies-bot/internal/bot/menu"
	"github.com/Spok95/telegram-movies-bot/internal/metrics"
	"github.com/Spok95/telegram-movies-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxSearchResults = 6

// HandleSearch: /search <запрос> или любой обычный текст.
// До 6 карточек: постер + подпись, кнопка «где смотреть» при включённом Watchmode.
func HandleSearch(ctx context.Context, bot *tgbotapi.BotAPI, d *Deps, msg *tgbotapi.Message) {
	q := searchQuery(msg)
	if q == "" {
		_, _ = tg.Send(bot, tgbotapi.NewMessage(msg.Chat.ID, "اكتب: /search اسم الفيلم أو المسلسل"))
		return
	}

	rows, err := d.OMDb.Search(ctx, q)
	if err != nil {
		d.warnw(ctx, "omdb search failed", "query", q, "err", err)
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(bot, tgbotapi.NewMessage(msg.Chat.ID, "تعذر الاتصال بمصدر البحث حالياً."))
		return
	}
	if len(rows) == 0 {
		_, _ = tg.Send(bot, tgbotapi.NewMessage(msg.Chat.ID, "لم نجد نتائج."))
		return
	}

	if len(rows) > maxSearchResults {
		rows = rows[:maxSearchResults]
	}
	for _, it := range rows {
		full, err := d.OMDb.ByID(ctx, it.IMDbID)
		if err != nil {
			// карточку пропускаем, остальные результаты не теряем
			d.Log.Debugw("omdb by id failed", "imdb_id", it.IMDbID, "err", err)
			continue
		}
		caption := FormatTitle(full)
		var kb *tgbotapi.InlineKeyboardMarkup
		if d.Watchmode.Enabled() {
			k := menu.Sources(full.IMDbID)
			kb = &k
		}
		if full.HasPoster() {
			d.sendPoster(ctx, bot, msg.Chat.ID, full.Poster, caption, kb)
		} else {
			out := tgbotapi.NewMessage(msg.Chat.ID, caption)
			out.ParseMode = tgbotapi.ModeMarkdown
			if kb != nil {
				out.ReplyMarkup = kb
			}
			_, _ = tg.Send(bot, out)
		}
	}
}

// sendPoster скачивает постер через guard (списки хостов + лимит размера)
// и отправляет байтами; если guard отверг ссылку или скачивание не удалось —
// отдаём Telegram сам URL.
func (d *Deps) sendPoster(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, posterURL, caption string, kb *tgbotapi.InlineKeyboardMarkup) {
	var photo tgbotapi.PhotoConfig
	data, err := d.Poster.Download(ctx, d.PosterGuard, posterURL, 2)
	if err == nil {
		photo = tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "poster.jpg", Bytes: data})
	} else {
		d.Log.Debugw("poster download fallback", "url", posterURL, "err", err)
		photo = tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(posterURL))
	}
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown
	if kb != nil {
		photo.ReplyMarkup = kb
	}
	_, _ = tg.Send(bot, photo)
}

func searchQuery(msg *tgbotapi.Message) string {
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		return args
	}
	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "/") {
		return ""
	}
	return text
}
