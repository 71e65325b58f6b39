package handlers

import (
	"fmt"
	"strings"

	"github.com/Spok95/telegram-movies-bot/internal/omdb"
	"github.com/Spok95/telegram-movies-bot/internal/trakt"
	"github.com/Spok95/telegram-movies-bot/internal/watchmode"
)

const plotLimit = 240

// FormatTitle — подпись карточки тайтла (Markdown).
func FormatTitle(t omdb.Title) string {
	title := orDash(t.Title)
	year := orDash(t.Year)
	typ := strings.ToLower(t.Type)
	plot := truncate(strings.TrimSpace(t.Plot), plotLimit)
	return fmt.Sprintf("*%s* (%s)\nالنوع: `%s`\n%s", title, year, typ, plot)
}

// ShowLine — строка календаря для эпизода: дата, сериал, SxxEyy.
func ShowLine(s trakt.CalendarShow) string {
	aired := s.FirstAired
	if len(aired) > 10 {
		aired = aired[:10]
	}
	return fmt.Sprintf("📺 %s — %s S%dE%d", aired, s.Show.Title, s.Episode.Season, s.Episode.Number)
}

// MovieLine — строка календаря для фильма.
func MovieLine(m trakt.CalendarMovie) string {
	return fmt.Sprintf("🎬 %s — %s", m.Released, m.Movie.Title)
}

// ListedTitleLine — строка подборки по платформе.
func ListedTitleLine(t watchmode.ListedTitle) string {
	name := orDash(t.Title)
	typ := orDash(t.Type)
	year := "—"
	if t.Year > 0 {
		year = fmt.Sprintf("%d", t.Year)
	}
	return fmt.Sprintf("• %s (%s) — %s", name, year, typ)
}

// SourceTypeLabel — тип доступности по-арабски.
func SourceTypeLabel(t string) string {
	switch t {
	case "sub":
		return "اشتراك"
	case "free":
		return "مجاني"
	case "rent":
		return "إيجار"
	case "buy":
		return "شراء"
	}
	return t
}

// truncate обрезает по рунам, чтобы не порвать UTF-8 посреди символа.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
