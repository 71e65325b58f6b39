package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spok95/telegram-movies-bot/internal/bot/handlers"
	"github.com/Spok95/telegram-movies-bot/internal/bot/menu"
	"github.com/Spok95/telegram-movies-bot/internal/ctxutil"
	"github.com/Spok95/telegram-movies-bot/internal/metrics"
	"github.com/Spok95/telegram-movies-bot/internal/observability"
	"github.com/Spok95/telegram-movies-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Dispatcher struct {
	bot  *tgbotapi.BotAPI
	deps *handlers.Deps
	lim  *ChatLimiter
	log  *zap.SugaredLogger
}

func NewDispatcher(bot *tgbotapi.BotAPI, deps *handlers.Deps, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{bot: bot, deps: deps, lim: NewChatLimiter(), log: log}
}

// Run читает апдейты до отмены контекста. Каждый апдейт обрабатывается
// в своей горутине: ретраи и бэкофф одного чата не задерживают остальные.
func (dp *Dispatcher) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			metrics.BotUpdates.Inc()
			go dp.handle(ctx, update)
		}
	}
}

func (dp *Dispatcher) handle(parent context.Context, update tgbotapi.Update) {
	// обработчик не должен ронять процесс ни при каких ошибках провайдеров
	defer func() {
		if r := recover(); r != nil {
			metrics.HandlerErrors.Inc()
			observability.CaptureErr(fmt.Errorf("panic in update handler: %v", r))
			dp.log.Errorw("panic in update handler", "panic", r)
		}
	}()

	ctx, cancel := ctxutil.WithHandlerTimeout(parent)
	defer cancel()

	if update.CallbackQuery != nil {
		dp.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}
	dp.handleMessage(ctx, update.Message)
}

func (dp *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	ctx = ctxutil.WithChatID(ctx, chatID)

	switch msg.Command() {
	case "start":
		handlers.HandleStart(dp.bot, msg)
	case "ping":
		handlers.HandlePing(dp.bot, msg)
	case "search":
		defer dp.lim.lock(chatID)()
		handlers.HandleSearch(ctxutil.WithOp(ctx, "search"), dp.bot, dp.deps, msg)
	case "today":
		handlers.HandleToday(ctxutil.WithOp(ctx, "today"), dp.bot, dp.deps, chatID)
	case "week":
		handlers.HandleWeek(ctxutil.WithOp(ctx, "week"), dp.bot, dp.deps, chatID)
	case "platform":
		handlers.HandlePlatformCmd(dp.bot, dp.deps, msg)
	case "export":
		defer dp.lim.lock(chatID)()
		handlers.HandleExport(ctxutil.WithOp(ctx, "export"), dp.bot, dp.deps, msg)
	case "":
		// обычный текст — быстрый поиск
		if strings.TrimSpace(msg.Text) == "" {
			return
		}
		defer dp.lim.lock(chatID)()
		handlers.HandleSearch(ctxutil.WithOp(ctx, "search"), dp.bot, dp.deps, msg)
	default:
		_, _ = tg.Send(dp.bot, tgbotapi.NewMessage(chatID, "⚠️ أمر غير معروف. استخدم /start"))
	}
}

func (dp *Dispatcher) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	ctx = ctxutil.WithChatID(ctx, cb.Message.Chat.ID)

	// всегда отвечаем на колбэк, чтобы Telegram «разморозил» кнопку
	_, _ = tg.Request(dp.bot, tgbotapi.NewCallback(cb.ID, ""))

	data := cb.Data
	switch {
	case data == menu.CBToday:
		handlers.EditCalendar(ctxutil.WithOp(ctx, "today"), dp.bot, dp.deps, cb, 1)
	case data == menu.CBWeek:
		handlers.EditCalendar(ctxutil.WithOp(ctx, "week"), dp.bot, dp.deps, cb, 7)
	case data == menu.CBPlatform:
		handlers.ShowPlatformMenu(dp.bot, cb)
	case data == menu.CBHome:
		edit := tgbotapi.NewEditMessageTextAndMarkup(cb.Message.Chat.ID, cb.Message.MessageID, "القائمة الرئيسية:", menu.Main())
		_, _ = tg.Send(dp.bot, edit)
	case strings.HasPrefix(data, "PLAT:"):
		handlers.HandlePlatformCallback(ctxutil.WithOp(ctx, "platform"), dp.bot, dp.deps, cb)
	case strings.HasPrefix(data, "SRC_IMDB:"):
		handlers.HandleSourcesCallback(ctxutil.WithOp(ctx, "sources"), dp.bot, dp.deps, cb)
	default:
		dp.log.Debugw("unknown callback", "data", data)
	}
}
