// Package watchmode — «где смотреть» и подборки по платформам через Watchmode API.
package watchmode

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Spok95/telegram-movies-bot/internal/fetch"
)

const DefaultBaseURL = "https://api.watchmode.com/v1"

// Интересующие типы доступности: подписка, бесплатно, аренда, покупка.
var keepSourceTypes = map[string]bool{
	"sub":  true,
	"free": true,
	"rent": true,
	"buy":  true,
}

const maxSourcesPerTitle = 12

type Client struct {
	fc     *fetch.Client
	apiKey string
	region string
	base   string
}

type Option func(*Client)

// WithBaseURL — для тестов.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.base = strings.TrimSuffix(u, "/")
		}
	}
}

func New(fc *fetch.Client, apiKey, region string, opts ...Option) *Client {
	c := &Client{fc: fc, apiKey: apiKey, region: region, base: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled: без WATCHMODE_API_KEY вся функциональность пакета отключена.
func (c *Client) Enabled() bool { return c.apiKey != "" }

type Source struct {
	Name   string `json:"name"`
	Type   string `json:"type"` // sub/free/rent/buy
	Region string `json:"region"`
	WebURL string `json:"web_url"`
}

type searchResponse struct {
	TitleResults []struct {
		ID int64 `json:"id"`
	} `json:"title_results"`
}

// SearchByIMDb возвращает внутренний ID Watchmode; 0 — если тайтл не найден.
func (c *Client) SearchByIMDb(ctx context.Context, imdbID string) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	var out searchResponse
	err := c.fc.GetInto(ctx, fetch.Request{
		URL:   c.base + "/search/",
		Query: map[string]string{"apiKey": c.apiKey, "search_field": "imdb_id", "search_value": imdbID},
	}, &out)
	if err != nil {
		return 0, fmt.Errorf("watchmode search: %w", err)
	}
	if len(out.TitleResults) == 0 {
		return 0, nil
	}
	return out.TitleResults[0].ID, nil
}

// SourcesByIMDb — платформы, где тайтл доступен в регионе клиента.
func (c *Client) SourcesByIMDb(ctx context.Context, imdbID string) ([]Source, error) {
	if !c.Enabled() {
		return nil, nil
	}
	wmID, err := c.SearchByIMDb(ctx, imdbID)
	if err != nil {
		return nil, err
	}
	if wmID == 0 {
		return nil, nil
	}
	var all []Source
	err = c.fc.GetInto(ctx, fetch.Request{
		URL:   fmt.Sprintf("%s/title/%d/sources/", c.base, wmID),
		Query: map[string]string{"apiKey": c.apiKey, "regions": c.region},
	}, &all)
	if err != nil {
		return nil, fmt.Errorf("watchmode sources: %w", err)
	}
	keep := make([]Source, 0, maxSourcesPerTitle)
	for _, s := range all {
		if s.Region != c.region || !keepSourceTypes[s.Type] {
			continue
		}
		keep = append(keep, s)
		if len(keep) == maxSourcesPerTitle {
			break
		}
	}
	return keep, nil
}

type ListedSource struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SourcesList — справочник всех платформ Watchmode.
func (c *Client) SourcesList(ctx context.Context) ([]ListedSource, error) {
	if !c.Enabled() {
		return nil, nil
	}
	var out []ListedSource
	err := c.fc.GetInto(ctx, fetch.Request{
		URL:   c.base + "/sources/",
		Query: map[string]string{"apiKey": c.apiKey},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("watchmode sources list: %w", err)
	}
	return out, nil
}

type ListedTitle struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
	Type  string `json:"type"` // movie/tv_series
}

type listTitlesResponse struct {
	Titles []ListedTitle `json:"titles"`
}

// TitlesBySourceName — популярное на платформе в регионе клиента.
// API капризен к форме параметров: сначала пробуем множественную
// (source_ids/regions), на 4xx повторяем единственную (source_id/region).
func (c *Client) TitlesBySourceName(ctx context.Context, name string, limit int) ([]ListedTitle, error) {
	if !c.Enabled() {
		return nil, nil
	}
	sources, err := c.SourcesList(ctx)
	if err != nil {
		return nil, err
	}
	var sid int64
	for _, s := range sources {
		if strings.EqualFold(s.Name, name) {
			sid = s.ID
			break
		}
	}
	if sid == 0 {
		return nil, nil
	}

	titles, err := c.listTitles(ctx, map[string]string{
		"apiKey":     c.apiKey,
		"source_ids": strconv.FormatInt(sid, 10),
		"regions":    c.region,
		"types":      "movie,tv_series",
		"sort_by":    "popularity_desc",
		"limit":      strconv.Itoa(limit),
	})
	if err == nil {
		return titles, nil
	}
	var se *fetch.StatusError
	if !errors.As(err, &se) || se.StatusCode/100 != 4 {
		return nil, err
	}
	return c.listTitles(ctx, map[string]string{
		"apiKey":    c.apiKey,
		"source_id": strconv.FormatInt(sid, 10),
		"region":    c.region,
		"types":     "movie,tv_series",
		"sort_by":   "popularity_desc",
		"limit":     strconv.Itoa(limit),
	})
}

func (c *Client) listTitles(ctx context.Context, query map[string]string) ([]ListedTitle, error) {
	var out listTitlesResponse
	err := c.fc.GetInto(ctx, fetch.Request{URL: c.base + "/list-titles/", Query: query}, &out)
	if err != nil {
		return nil, fmt.Errorf("watchmode list titles: %w", err)
	}
	return out.Titles, nil
}
