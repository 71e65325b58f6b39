package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Spok95/telegram-movies-bot/internal/omdb"
	"github.com/Spok95/telegram-movies-bot/internal/trakt"
	"github.com/Spok95/telegram-movies-bot/internal/watchmode"
)

func TestFormatTitle(t *testing.T) {
	got := FormatTitle(omdb.Title{
		Title: "Dune",
		Year:  "2021",
		Type:  "Movie",
		Plot:  "Paul Atreides leads nomadic tribes.",
	})
	want := "*Dune* (2021)\nالنوع: `movie`\nPaul Atreides leads nomadic tribes."
	if got != want {
		t.Fatalf("подпись собрана неверно:\n%q\nожидали\n%q", got, want)
	}
}

func TestFormatTitle_MissingFields(t *testing.T) {
	got := FormatTitle(omdb.Title{})
	if !strings.HasPrefix(got, "*—* (—)") {
		t.Fatalf("пустые поля заменяются на тире: %q", got)
	}
}

func TestFormatTitle_PlotTruncated(t *testing.T) {
	// арабский текст: обрезка обязана идти по рунам, не по байтам
	long := strings.Repeat("قصة طويلة ", 60)
	got := FormatTitle(omdb.Title{Title: "X", Year: "2020", Type: "movie", Plot: long})

	if !utf8.ValidString(got) {
		t.Fatal("обрезка порвала UTF-8")
	}
	plot := got[strings.LastIndex(got, "\n")+1:]
	if !strings.HasSuffix(plot, "…") {
		t.Fatalf("длинный сюжет должен заканчиваться многоточием: %q", plot)
	}
	if n := utf8.RuneCountInString(plot); n != plotLimit+1 {
		t.Fatalf("ожидали %d рун (лимит + многоточие), получили %d", plotLimit+1, n)
	}
}

func TestFormatTitle_PlotAtLimitKept(t *testing.T) {
	plot := strings.Repeat("ن", plotLimit)
	got := FormatTitle(omdb.Title{Title: "X", Year: "2020", Type: "movie", Plot: plot})
	if strings.Contains(got, "…") {
		t.Fatal("сюжет ровно в лимит не обрезается")
	}
}

func TestShowLine(t *testing.T) {
	s := trakt.CalendarShow{FirstAired: "2026-08-27T01:00:00.000Z"}
	s.Show.Title = "Severance"
	s.Episode.Season = 2
	s.Episode.Number = 5

	got := ShowLine(s)
	want := "📺 2026-08-27 — Severance S2E5"
	if got != want {
		t.Fatalf("строка эпизода: %q, ожидали %q", got, want)
	}
}

func TestMovieLine(t *testing.T) {
	m := trakt.CalendarMovie{Released: "2026-08-27"}
	m.Movie.Title = "Dune Part Three"

	got := MovieLine(m)
	want := "🎬 2026-08-27 — Dune Part Three"
	if got != want {
		t.Fatalf("строка фильма: %q, ожидали %q", got, want)
	}
}

func TestListedTitleLine(t *testing.T) {
	got := ListedTitleLine(watchmode.ListedTitle{Title: "Dark", Year: 2017, Type: "tv_series"})
	want := "• Dark (2017) — tv_series"
	if got != want {
		t.Fatalf("строка подборки: %q, ожидали %q", got, want)
	}

	got = ListedTitleLine(watchmode.ListedTitle{})
	want = "• — (—) — —"
	if got != want {
		t.Fatalf("пустой тайтл: %q, ожидали %q", got, want)
	}
}

func TestSourceTypeLabel(t *testing.T) {
	cases := map[string]string{
		"sub":     "اشتراك",
		"free":    "مجاني",
		"rent":    "إيجار",
		"buy":     "شراء",
		"theater": "theater", // неизвестный тип остаётся как есть
	}
	for in, want := range cases {
		if got := SourceTypeLabel(in); got != want {
			t.Errorf("SourceTypeLabel(%q) = %q, ожидали %q", in, got, want)
		}
	}
}
