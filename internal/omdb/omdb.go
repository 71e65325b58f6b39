// Package omdb — поиск и карточки фильмов/сериалов через OMDb API.
package omdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Spok95/telegram-movies-bot/internal/fetch"
)

const DefaultBaseURL = "https://www.omdbapi.com/"

type Client struct {
	fc     *fetch.Client
	apiKey string
	base   string
}

type Option func(*Client)

// WithBaseURL — для тестов.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.base = u
		}
	}
}

func New(fc *fetch.Client, apiKey string, opts ...Option) *Client {
	c := &Client{fc: fc, apiKey: apiKey, base: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type SearchResult struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type Title struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Type       string `json:"Type"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	IMDbID     string `json:"imdbID"`
	IMDbRating string `json:"imdbRating"`
	Genre      string `json:"Genre"`
	Response   string `json:"Response"`
	ErrorMsg   string `json:"Error"`
}

// HasPoster: у OMDb отсутствие постера — строка "N/A", а не пустое поле.
func (t Title) HasPoster() bool {
	return t.Poster != "" && t.Poster != "N/A"
}

type searchResponse struct {
	Search   []SearchResult `json:"Search"`
	Response string         `json:"Response"`
	ErrorMsg string         `json:"Error"`
}

// Search ищет по названию. OMDb отвечает 200 с Response=False, когда ничего
// не нашлось — это пустой результат, а не ошибка.
func (c *Client) Search(ctx context.Context, q string) ([]SearchResult, error) {
	var out searchResponse
	err := c.fc.GetInto(ctx, fetch.Request{
		URL:   c.base,
		Query: map[string]string{"apikey": c.apiKey, "s": q, "type": "", "r": "json"},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("omdb search: %w", err)
	}
	return out.Search, nil
}

// ByID возвращает карточку по IMDb ID (короткий сюжет).
func (c *Client) ByID(ctx context.Context, imdbID string) (Title, error) {
	var out Title
	err := c.fc.GetInto(ctx, fetch.Request{
		URL:   c.base,
		Query: map[string]string{"apikey": c.apiKey, "i": imdbID, "plot": "short", "r": "json"},
	}, &out)
	if err != nil {
		return Title{}, fmt.Errorf("omdb by id: %w", err)
	}
	if out.Response == "False" {
		return Title{}, fmt.Errorf("omdb by id %s: %s", imdbID, out.ErrorMsg)
	}
	return out, nil
}

// Ping — одна попытка без ретраев, для фоновой проверки доступности.
func (c *Client) Ping(ctx context.Context) error {
	var out searchResponse
	err := c.fc.GetInto(ctx, fetch.Request{
		URL:         c.base,
		Query:       map[string]string{"apikey": c.apiKey, "s": "the", "r": "json"},
		MaxAttempts: 1,
	}, &out)
	if err != nil {
		return err
	}
	if out.Response == "False" && out.ErrorMsg != "" && out.ErrorMsg != "Too many results." && out.ErrorMsg != "Movie not found!" {
		return errors.New("omdb ping: " + out.ErrorMsg)
	}
	return nil
}
