package handlers

import (
	"context"

	"github.com/Spok95/telegram-movies-bot/internal/config"
	"github.com/Spok95/telegram-movies-bot/internal/ctxutil"
	"github.com/Spok95/telegram-movies-bot/internal/fetch"
	"github.com/Spok95/telegram-movies-bot/internal/omdb"
	"github.com/Spok95/telegram-movies-bot/internal/trakt"
	"github.com/Spok95/telegram-movies-bot/internal/watchmode"
	"go.uber.org/zap"
)

// Deps — зависимости обработчиков. Собирается один раз в main.
type Deps struct {
	Cfg       *config.Config
	Log       *zap.SugaredLogger
	OMDb      *omdb.Client
	Trakt     *trakt.Client
	Watchmode *watchmode.Client

	// Скачивание постеров: отдельный клиент и ограничения на хосты/размер.
	Poster      *fetch.Client
	PosterGuard *fetch.Guard
}

// warnw дополняет предупреждение операцией и chat_id из контекста.
func (d *Deps) warnw(ctx context.Context, msg string, kv ...any) {
	if op, ok := ctxutil.Op(ctx); ok {
		kv = append(kv, "op", op)
	}
	if id, ok := ctxutil.ChatID(ctx); ok {
		kv = append(kv, "chat_id", id)
	}
	d.Log.Warnw(msg, kv...)
}
