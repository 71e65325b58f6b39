package watchmode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Spok95/telegram-movies-bot/internal/fetch"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	fc := fetch.New(fetch.WithTimeout(2*time.Second), fetch.WithBaseDelay(time.Millisecond))
	return New(fc, "wm-key", "SA", WithBaseURL(ts.URL))
}

func TestSourcesByIMDb(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("search_field") != "imdb_id" || q.Get("search_value") != "tt1160419" {
			t.Errorf("неверный query поиска: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"title_results": [{"id": 1395}]}`))
	})
	mux.HandleFunc("/title/1395/sources/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("regions") != "SA" {
			t.Errorf("регион потерян: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[
			{"name": "Netflix", "type": "sub", "region": "SA", "web_url": "https://netflix.com/1"},
			{"name": "Netflix US", "type": "sub", "region": "US", "web_url": "https://netflix.com/2"},
			{"name": "Shahid", "type": "free", "region": "SA", "web_url": "https://shahid.net/1"},
			{"name": "Cinema", "type": "theater", "region": "SA", "web_url": "https://x/3"}
		]`))
	})

	c := newTestClient(t, mux)
	got, err := c.SourcesByIMDb(context.Background(), "tt1160419")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	// чужой регион и тип theater отфильтрованы
	if len(got) != 2 {
		t.Fatalf("ожидали 2 источника, получили %d: %+v", len(got), got)
	}
	if got[0].Name != "Netflix" || got[1].Name != "Shahid" {
		t.Fatalf("источники разобраны неверно: %+v", got)
	}
}

func TestSourcesByIMDb_TitleNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title_results": []}`))
	})

	c := newTestClient(t, mux)
	got, err := c.SourcesByIMDb(context.Background(), "tt0000000")
	if err != nil || got != nil {
		t.Fatalf("ненайденный тайтл — это nil, nil: %v %v", got, err)
	}
}

func TestSourcesByIMDb_CapsAtLimit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title_results": [{"id": 7}]}`))
	})
	mux.HandleFunc("/title/7/sources/", func(w http.ResponseWriter, r *http.Request) {
		body := []byte(`[`)
		for i := 0; i < 30; i++ {
			if i > 0 {
				body = append(body, ',')
			}
			body = append(body, []byte(`{"name":"S","type":"sub","region":"SA","web_url":"https://x"}`)...)
		}
		body = append(body, ']')
		_, _ = w.Write(body)
	})

	c := newTestClient(t, mux)
	got, err := c.SourcesByIMDb(context.Background(), "tt1")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(got) != maxSourcesPerTitle {
		t.Fatalf("список должен обрезаться до %d, получили %d", maxSourcesPerTitle, len(got))
	}
}

func TestTitlesBySourceName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sources/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 203, "name": "Netflix"}, {"id": 157, "name": "Hulu"}]`))
	})
	mux.HandleFunc("/list-titles/", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("source_ids") != "203" || q.Get("regions") != "SA" {
			t.Errorf("неверный query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"titles": [
			{"title": "Dark", "year": 2017, "type": "tv_series"},
			{"title": "The Irishman", "year": 2019, "type": "movie"}
		]}`))
	})

	c := newTestClient(t, mux)
	// имя платформы сравнивается без учёта регистра
	got, err := c.TitlesBySourceName(context.Background(), "netflix", 12)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Dark" || got[1].Year != 2019 {
		t.Fatalf("подборка разобрана неверно: %+v", got)
	}
}

func TestTitlesBySourceName_SingularFallback(t *testing.T) {
	var listCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/sources/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 203, "name": "Netflix"}]`))
	})
	mux.HandleFunc("/list-titles/", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
		q := r.URL.Query()
		if q.Get("source_ids") != "" {
			// множественная форма параметров отвергается
			http.Error(w, `{"error":"bad parameter source_ids"}`, http.StatusBadRequest)
			return
		}
		if q.Get("source_id") != "203" || q.Get("region") != "SA" {
			t.Errorf("неверный повторный query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"titles": [{"title": "Dark", "year": 2017, "type": "tv_series"}]}`))
	})

	c := newTestClient(t, mux)
	got, err := c.TitlesBySourceName(context.Background(), "Netflix", 12)
	if err != nil {
		t.Fatalf("фолбэк на единственную форму не сработал: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Dark" {
		t.Fatalf("подборка разобрана неверно: %+v", got)
	}
	if listCalls.Load() != 2 {
		t.Fatalf("ожидали два обращения к list-titles, было %d", listCalls.Load())
	}
}

func TestTitlesBySourceName_UnknownPlatform(t *testing.T) {
	var listCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/sources/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 203, "name": "Netflix"}]`))
	})
	mux.HandleFunc("/list-titles/", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
	})

	c := newTestClient(t, mux)
	got, err := c.TitlesBySourceName(context.Background(), "NoSuchPlatform", 12)
	if err != nil || got != nil {
		t.Fatalf("неизвестная платформа — это nil, nil: %v %v", got, err)
	}
	if listCalls.Load() != 0 {
		t.Fatal("без ID платформы к list-titles не обращаемся")
	}
}

func TestDisabledClient(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	c.apiKey = ""

	if c.Enabled() {
		t.Fatal("без ключа клиент должен быть выключен")
	}
	if id, err := c.SearchByIMDb(context.Background(), "tt1"); id != 0 || err != nil {
		t.Fatalf("выключенный клиент: %d %v", id, err)
	}
	if src, err := c.SourcesByIMDb(context.Background(), "tt1"); src != nil || err != nil {
		t.Fatalf("выключенный клиент: %v %v", src, err)
	}
	if titles, err := c.TitlesBySourceName(context.Background(), "Netflix", 5); titles != nil || err != nil {
		t.Fatalf("выключенный клиент: %v %v", titles, err)
	}
	if hits.Load() != 0 {
		t.Fatal("выключенный клиент не ходит в сеть")
	}
}
