package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Spok95/telegram-movies-bot/internal/metrics"
)

const (
	// DefaultMaxAttempts — бюджет попыток, включая первую.
	DefaultMaxAttempts = 3
	// DefaultTimeout — таймаут одной попытки.
	DefaultTimeout = 20 * time.Second
	// DefaultBaseDelay — пауза перед первым ретраем; дальше удваивается.
	DefaultBaseDelay = 600 * time.Millisecond
)

var (
	sharedOnce sync.Once
	sharedHTTP *http.Client
)

// SharedHTTPClient — общий пул соединений процесса. Создаётся один раз
// при первом обращении; сам по себе безопасен для конкурентных запросов.
func SharedHTTPClient() *http.Client {
	sharedOnce.Do(func() {
		sharedHTTP = &http.Client{}
	})
	return sharedHTTP
}

// Client выполняет GET с ограниченным числом ретраев на временных ошибках.
type Client struct {
	hc          *http.Client
	timeout     time.Duration
	baseDelay   time.Duration
	maxAttempts int
	api         string // метка для метрик; пустая — метрики не пишем
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

// WithMaxAttempts задаёт бюджет попыток клиента; Request.MaxAttempts > 0
// переопределяет его для отдельного запроса.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithAPILabel(name string) Option {
	return func(c *Client) { c.api = name }
}

func New(opts ...Option) *Client {
	c := &Client{
		hc:          SharedHTTPClient(),
		timeout:     DefaultTimeout,
		baseDelay:   DefaultBaseDelay,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close освобождает простаивающие соединения. Вызывать на остановке процесса.
func (c *Client) Close() {
	c.hc.CloseIdleConnections()
}

// Request — один логический GET. Запрос живёт ровно один вызов.
type Request struct {
	URL    string
	Header map[string]string
	Query  map[string]string
	// MaxAttempts: 0 — бюджет клиента; отрицательное отвергается
	// до первого сетевого вызова.
	MaxAttempts int
}

// Исход одной попытки. Решение о ретрае принимает цикл в GetJSON,
// а не сама попытка.
type outcome int

const (
	outcomeOK outcome = iota
	outcomeTransient
	outcomeTerminal
)

// GetJSON выполняет запрос и возвращает сырое JSON-тело ответа.
// Ретраит только статусы 429/5xx и транспортные ошибки; остальное
// терминально с первой попытки. Пустое 2xx-тело — пустой результат без ошибки.
func (c *Client) GetJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, errors.New("fetch: empty URL")
	}
	attempts := req.MaxAttempts
	if attempts == 0 {
		attempts = c.maxAttempts
	}
	if attempts < 0 {
		return nil, fmt.Errorf("fetch: invalid attempt budget %d", req.MaxAttempts)
	}
	target, err := buildURL(req.URL, req.Query)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			// пауза перед k-м ретраем: baseDelay * 2^(k-1), без джиттера
			if err := sleep(ctx, c.backoff(i)); err != nil {
				return nil, err
			}
			if c.api != "" {
				metrics.IncFetchRetry(c.api)
			}
		}
		raw, out, err := c.attempt(ctx, target, req.Header)
		switch out {
		case outcomeOK:
			return raw, nil
		case outcomeTerminal:
			return nil, err
		}
		lastErr = err
	}
	// бюджет исчерпан — отдаём ошибку последней попытки как терминальную
	return nil, lastErr
}

// GetInto декодирует ответ в v. Пустое тело оставляет v без изменений.
func (c *Client) GetInto(ctx context.Context, req Request, v any) error {
	raw, err := c.GetJSON(ctx, req)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &DecodeError{URL: req.URL, Err: err}
	}
	return nil
}

func (c *Client) backoff(attempt int) time.Duration {
	// сдвиг ограничен, чтобы не переполнить Duration на больших бюджетах
	const maxShift = 20
	shift := attempt - 1
	if shift > maxShift {
		shift = maxShift
	}
	return c.baseDelay << shift
}

func (c *Client) attempt(parent context.Context, target string, header map[string]string) (json.RawMessage, outcome, error) {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, outcomeTerminal, err
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if parent.Err() != nil {
			// отмена вызывающей стороной: не ретраим и не досыпаем бэкофф
			return nil, outcomeTerminal, fmt.Errorf("fetch %s: %w", target, parent.Err())
		}
		// сетевые ошибки и таймаут попытки — временные
		return nil, outcomeTransient, &NetworkError{URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if c.api != "" {
		metrics.ObserveUpstream(c.api, resp.StatusCode, time.Since(start))
	}
	if err != nil {
		if parent.Err() != nil {
			return nil, outcomeTerminal, fmt.Errorf("fetch %s: %w", target, parent.Err())
		}
		return nil, outcomeTransient, &NetworkError{URL: target, Err: err}
	}

	if resp.StatusCode/100 != 2 {
		serr := &StatusError{URL: target, StatusCode: resp.StatusCode, Body: trimBody(body)}
		if serr.Transient() {
			return nil, outcomeTransient, serr
		}
		return nil, outcomeTerminal, serr
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, outcomeOK, nil
	}
	if !json.Valid(body) {
		return nil, outcomeTerminal, &DecodeError{URL: target, Err: errors.New("invalid JSON body")}
	}
	return json.RawMessage(body), outcomeOK, nil
}

func buildURL(raw string, query map[string]string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("fetch: bad URL %q: %w", raw, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch: canceled during backoff: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

func trimBody(b []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		s = s[:limit] + "…"
	}
	return s
}
