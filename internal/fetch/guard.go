package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Spok95/telegram-movies-bot/internal/metrics"
)

// Guard проверяет ссылку до скачивания: схема, списки хостов, лимит размера.
// Пустой Allow разрешает любые хосты; Deny всегда сильнее Allow.
type Guard struct {
	Allow    []string // суффиксы хостов
	Deny     []string
	MaxBytes int64 // 0 — без лимита
}

func (g *Guard) CheckURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("guard: bad URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("guard: scheme %q is not allowed", u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return errors.New("guard: empty host")
	}
	for _, d := range g.Deny {
		if hostMatch(host, d) {
			return fmt.Errorf("guard: host %s is denylisted", host)
		}
	}
	if len(g.Allow) > 0 {
		for _, a := range g.Allow {
			if hostMatch(host, a) {
				return nil
			}
		}
		return fmt.Errorf("guard: host %s is not allowlisted", host)
	}
	return nil
}

// hostMatch: точное совпадение или совпадение по суффиксу домена
// ("media-amazon.com" покрывает "m.media-amazon.com").
func hostMatch(host, pattern string) bool {
	pattern = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(pattern), "."))
	if pattern == "" {
		return false
	}
	return host == pattern || strings.HasSuffix(host, "."+pattern)
}

// Download скачивает файл с той же политикой ретраев, что и GetJSON,
// но без JSON-декодирования. Guard отсекает недопустимые хосты до сетевого
// вызова, а Content-Length выше лимита — до чтения тела. Чтение тела тоже
// ограничено лимитом: заниженный Content-Length сервера ничего не даёт.
func (c *Client) Download(ctx context.Context, g *Guard, rawURL string, maxAttempts int) ([]byte, error) {
	if g == nil {
		g = &Guard{}
	}
	if err := g.CheckURL(rawURL); err != nil {
		return nil, err
	}
	if maxAttempts == 0 {
		maxAttempts = c.maxAttempts
	}
	if maxAttempts < 0 {
		return nil, fmt.Errorf("fetch: invalid attempt budget %d", maxAttempts)
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			if err := sleep(ctx, c.backoff(i)); err != nil {
				return nil, err
			}
			if c.api != "" {
				metrics.IncFetchRetry(c.api)
			}
		}
		data, out, err := c.downloadAttempt(ctx, g, rawURL)
		switch out {
		case outcomeOK:
			return data, nil
		case outcomeTerminal:
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) downloadAttempt(parent context.Context, g *Guard, rawURL string) ([]byte, outcome, error) {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, outcomeTerminal, err
	}
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if parent.Err() != nil {
			return nil, outcomeTerminal, fmt.Errorf("fetch %s: %w", rawURL, parent.Err())
		}
		return nil, outcomeTransient, &NetworkError{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if c.api != "" {
			metrics.ObserveUpstream(c.api, resp.StatusCode, time.Since(start))
		}
		serr := &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Body: trimBody(body)}
		if serr.Transient() {
			return nil, outcomeTransient, serr
		}
		return nil, outcomeTerminal, serr
	}

	if g.MaxBytes > 0 && resp.ContentLength > g.MaxBytes {
		return nil, outcomeTerminal, fmt.Errorf("fetch %s: %w (content-length %d)", rawURL, ErrTooLarge, resp.ContentLength)
	}
	r := resp.Body
	if g.MaxBytes > 0 {
		r = io.NopCloser(io.LimitReader(resp.Body, g.MaxBytes+1))
	}
	data, err := io.ReadAll(r)
	if c.api != "" {
		metrics.ObserveUpstream(c.api, resp.StatusCode, time.Since(start))
	}
	if err != nil {
		if parent.Err() != nil {
			return nil, outcomeTerminal, fmt.Errorf("fetch %s: %w", rawURL, parent.Err())
		}
		return nil, outcomeTransient, &NetworkError{URL: rawURL, Err: err}
	}
	if g.MaxBytes > 0 && int64(len(data)) > g.MaxBytes {
		return nil, outcomeTerminal, fmt.Errorf("fetch %s: %w", rawURL, ErrTooLarge)
	}
	return data, outcomeOK, nil
}
