package handlers

import (
	"context"

	"github.com/Spok95/telegram-movies-bot/internal/export"
	"github.com/Spok95/telegram-movies-bot/internal/metrics"
	"github.com/Spok95/telegram-movies-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const exportFallback = "تعذر تجهيز ملف التصدير حالياً. جرّب لاحقًا."

// HandleExport — /export: недельный календарь Trakt одним .xlsx-файлом.
func HandleExport(ctx context.Context, bot *tgbotapi.BotAPI, d *Deps, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !d.Trakt.Enabled() {
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, "تحتاج هذه الميزة إلى TRAKT_CLIENT_ID."))
		return
	}

	start := todayISO()
	shows, errS := d.Trakt.CalendarShows(ctx, start, 7)
	movies, errM := d.Trakt.CalendarMovies(ctx, start, 7)
	if errS != nil {
		d.warnw(ctx, "trakt shows calendar failed", "err", errS)
	}
	if errM != nil {
		d.warnw(ctx, "trakt movies calendar failed", "err", errM)
	}
	if len(shows) == 0 && len(movies) == 0 {
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, exportFallback))
		return
	}

	f, err := export.CalendarWorkbook(shows, movies)
	if err != nil {
		d.Log.Errorw("calendar workbook failed", "err", err)
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, exportFallback))
		return
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		d.Log.Errorw("calendar workbook write failed", "err", err)
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, exportFallback))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  export.BuildCalendarFilename(start),
		Bytes: buf.Bytes(),
	})
	_, _ = tg.Send(bot, doc)
}
