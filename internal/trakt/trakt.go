// Package trakt — календари премьер через Trakt API (достаточно Client ID).
package trakt

import (
	"context"
	"fmt"

	"github.com/Spok95/telegram-movies-bot/internal/fetch"
)

const (
	DefaultBaseURL = "https://api.trakt.tv"
	apiVersion     = "2"
)

type Client struct {
	fc       *fetch.Client
	clientID string
	base     string
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

func New(fc *fetch.Client, clientID string, opts ...Option) *Client {
	c := &Client{fc: fc, clientID: clientID, base: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled: без TRAKT_CLIENT_ID календари отключены, запросы не шлём.
func (c *Client) Enabled() bool { return c.clientID != "" }

type CalendarShow struct {
	FirstAired string `json:"first_aired"`
	Episode    struct {
		Season int `json:"season"`
		Number int `json:"number"`
	} `json:"episode"`
	Show struct {
		Title string `json:"title"`
	} `json:"show"`
}

type CalendarMovie struct {
	Released string `json:"released"`
	Movie    struct {
		Title string `json:"title"`
	} `json:"movie"`
}

// CalendarShows — эпизоды, выходящие с даты start (YYYY-MM-DD) в течение days дней.
func (c *Client) CalendarShows(ctx context.Context, start string, days int) ([]CalendarShow, error) {
	if !c.Enabled() {
		return nil, nil
	}
	var out []CalendarShow
	if err := c.fc.GetInto(ctx, c.calendarRequest("shows", start, days), &out); err != nil {
		return nil, fmt.Errorf("trakt shows calendar: %w", err)
	}
	return out, nil
}

// CalendarMovies — релизы фильмов за тот же интервал.
func (c *Client) CalendarMovies(ctx context.Context, start string, days int) ([]CalendarMovie, error) {
	if !c.Enabled() {
		return nil, nil
	}
	var out []CalendarMovie
	if err := c.fc.GetInto(ctx, c.calendarRequest("movies", start, days), &out); err != nil {
		return nil, fmt.Errorf("trakt movies calendar: %w", err)
	}
	return out, nil
}

func (c *Client) calendarRequest(kind, start string, days int) fetch.Request {
	return fetch.Request{
		URL: fmt.Sprintf("%s/calendars/all/%s/%s/%d", c.base, kind, start, days),
		Header: map[string]string{
			"trakt-api-key":     c.clientID,
			"trakt-api-version": apiVersion,
			"Content-Type":      "application/json",
		},
	}
}
