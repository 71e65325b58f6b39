package omdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Spok95/telegram-movies-bot/internal/fetch"
)

func testClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	fc := fetch.New(fetch.WithTimeout(2*time.Second), fetch.WithBaseDelay(time.Millisecond))
	return New(fc, "test-key", WithBaseURL(ts.URL+"/")), ts
}

func TestSearch(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apikey") != "test-key" || q.Get("s") != "dune" {
			t.Errorf("неверный query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{
			"Search": [
				{"Title": "Dune", "Year": "2021", "imdbID": "tt1160419", "Type": "movie", "Poster": "https://m.media-amazon.com/dune.jpg"},
				{"Title": "Dune: Part Two", "Year": "2024", "imdbID": "tt15239678", "Type": "movie", "Poster": "N/A"}
			],
			"totalResults": "2",
			"Response": "True"
		}`))
	})

	got, err := c.Search(context.Background(), "dune")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ожидали 2 результата, получили %d", len(got))
	}
	if got[0].IMDbID != "tt1160419" || got[0].Title != "Dune" {
		t.Fatalf("первый результат разобран неверно: %+v", got[0])
	}
}

func TestSearch_NotFoundIsEmpty(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})

	got, err := c.Search(context.Background(), "qqqqqq")
	if err != nil {
		t.Fatalf("Response=False при поиске — не ошибка: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("ожидали пустой результат, получили %d", len(got))
	}
}

func TestByID(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("i") != "tt1160419" || q.Get("plot") != "short" {
			t.Errorf("неверный query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{
			"Title": "Dune", "Year": "2021", "Type": "movie",
			"Plot": "Paul Atreides leads nomadic tribes.",
			"Poster": "https://m.media-amazon.com/dune.jpg",
			"imdbID": "tt1160419", "imdbRating": "8.0", "Genre": "Sci-Fi",
			"Response": "True"
		}`))
	})

	got, err := c.ByID(context.Background(), "tt1160419")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got.Title != "Dune" || got.IMDbRating != "8.0" {
		t.Fatalf("карточка разобрана неверно: %+v", got)
	}
	if !got.HasPoster() {
		t.Fatal("ожидали постер")
	}
}

func TestByID_NotFound(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
	})

	if _, err := c.ByID(context.Background(), "tt0000000"); err == nil {
		t.Fatal("Response=False в карточке — это ошибка")
	}
}

func TestTitleHasPoster(t *testing.T) {
	if (Title{Poster: "N/A"}).HasPoster() {
		t.Fatal("N/A — это отсутствие постера")
	}
	if (Title{}).HasPoster() {
		t.Fatal("пустое поле — это отсутствие постера")
	}
	if !(Title{Poster: "https://x/p.jpg"}).HasPoster() {
		t.Fatal("ссылка — это постер")
	}
}

func TestPing(t *testing.T) {
	hits := 0
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Too many results."}`))
	})

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Too many results — это живой апстрим: %v", err)
	}
	if hits != 1 {
		t.Fatalf("ping делает одну попытку, было %d", hits)
	}
}

func TestPing_InvalidKey(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
	})

	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("Invalid API key — это ошибка")
	}
}
