package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/Spok95/telegram-movies-bot/internal/bot/menu"
	"github.com/Spok95/telegram-movies-bot/internal/metrics"
	"github.com/Spok95/telegram-movies-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const calendarFallback = "تعذر جلب تقاويم Trakt حاليًا. جرّب لاحقًا."

// HandleToday — /today: премьеры за сегодня.
func HandleToday(ctx context.Context, bot *tgbotapi.BotAPI, d *Deps, chatID int64) {
	sendCalendar(ctx, bot, d, chatID, 1)
}

// HandleWeek — /week: премьеры за неделю.
func HandleWeek(ctx context.Context, bot *tgbotapi.BotAPI, d *Deps, chatID int64) {
	sendCalendar(ctx, bot, d, chatID, 7)
}

// EditCalendar — те же данные, но поверх сообщения с меню (кнопки «اليوم»/«هذا الأسبوع»).
func EditCalendar(ctx context.Context, bot *tgbotapi.BotAPI, d *Deps, cb *tgbotapi.CallbackQuery, days int) {
	text := calendarText(ctx, d, days)
	edit := tgbotapi.NewEditMessageTextAndMarkup(cb.Message.Chat.ID, cb.Message.MessageID, text, menu.Main())
	edit.ParseMode = tgbotapi.ModeMarkdown
	_, _ = tg.Send(bot, edit)
}

func sendCalendar(ctx context.Context, bot *tgbotapi.BotAPI, d *Deps, chatID int64, days int) {
	out := tgbotapi.NewMessage(chatID, calendarText(ctx, d, days))
	out.ParseMode = tgbotapi.ModeMarkdown
	out.ReplyMarkup = menu.Main()
	_, _ = tg.Send(bot, out)
}

// calendarText собирает список строк по сериалам и фильмам. Любая ошибка
// провайдера деградирует до общего сообщения, наружу не уходит.
func calendarText(ctx context.Context, d *Deps, days int) string {
	header, limit := "*اليوم*", 8
	if days > 1 {
		header, limit = "*هذا الأسبوع*", 10
	}
	start := todayISO()

	var lines []string
	shows, err := d.Trakt.CalendarShows(ctx, start, days)
	if err != nil {
		d.warnw(ctx, "trakt shows calendar failed", "err", err)
		metrics.HandlerErrors.Inc()
	}
	for i, s := range shows {
		if i == limit {
			break
		}
		lines = append(lines, ShowLine(s))
	}
	movies, err := d.Trakt.CalendarMovies(ctx, start, days)
	if err != nil {
		d.warnw(ctx, "trakt movies calendar failed", "err", err)
		metrics.HandlerErrors.Inc()
	}
	for i, m := range movies {
		if i == limit {
			break
		}
		lines = append(lines, MovieLine(m))
	}

	if len(lines) == 0 {
		return header + "\n" + calendarFallback
	}
	return header + "\n" + strings.Join(lines, "\n")
}

// Дата «сегодня» для Trakt — всегда UTC.
func todayISO() string {
	return time.Now().UTC().Format("2006-01-02")
}
