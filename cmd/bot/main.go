package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Spok95/telegram-movies-bot/internal/app"
	"github.com/Spok95/telegram-movies-bot/internal/bot/handlers"
	"github.com/Spok95/telegram-movies-bot/internal/config"
	"github.com/Spok95/telegram-movies-bot/internal/fetch"
	"github.com/Spok95/telegram-movies-bot/internal/jobs"
	"github.com/Spok95/telegram-movies-bot/internal/logging"
	"github.com/Spok95/telegram-movies-bot/internal/observability"
	"github.com/Spok95/telegram-movies-bot/internal/omdb"
	"github.com/Spok95/telegram-movies-bot/internal/tg"
	"github.com/Spok95/telegram-movies-bot/internal/trakt"
	"github.com/Spok95/telegram-movies-bot/internal/watchmode"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

const version = "1.2.0"

// Хосты, с которых разрешено скачивать постеры.
var posterHosts = []string{"media-amazon.com", "ia.media-imdb.com", "img.omdbapi.com"}

func main() {
	// Загрузка переменных окружения
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "telegram-movies-bot@"+version)
	if err != nil {
		lg.Sugar.Warnw("sentry init failed", "err", err)
	}
	defer flush()

	// Инициализация Telegram бота
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		lg.Sugar.Fatalw("bot init failed", "err", err)
	}
	lg.Sugar.Infow("бот запущен", "username", bot.Self.UserName, "region", cfg.Region)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Клиенты провайдеров: общий пул соединений, своя метка метрик у каждого.
	newFetch := func(api string) *fetch.Client {
		return fetch.New(
			fetch.WithTimeout(cfg.FetchTimeout),
			fetch.WithMaxAttempts(cfg.FetchAttempts),
			fetch.WithAPILabel(api),
		)
	}
	omdbClient := omdb.New(newFetch("omdb"), cfg.OMDbAPIKey)
	traktClient := trakt.New(newFetch("trakt"), cfg.TraktClientID)
	wmClient := watchmode.New(newFetch("watchmode"), cfg.WatchmodeAPIKey, cfg.Region)
	posterClient := newFetch("poster")
	defer posterClient.Close()

	deps := &handlers.Deps{
		Cfg:       cfg,
		Log:       lg.Sugar,
		OMDb:      omdbClient,
		Trakt:     traktClient,
		Watchmode: wmClient,
		Poster:    posterClient,
		PosterGuard: &fetch.Guard{
			Allow:    posterHosts,
			MaxBytes: cfg.PosterMaxBytes,
		},
	}

	_ = app.StartHTTP(ctx, cfg.HTTPAddr, bot)

	runner := jobs.New(ctx)
	jobs.StartUpstreamProbe(runner, omdbClient)

	setCommands(bot)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		bot.StopReceivingUpdates()
	}()

	app.NewDispatcher(bot, deps, lg.Sugar).Run(ctx, updates)
	lg.Sugar.Info("бот остановлен")
}

func setCommands(bot *tgbotapi.BotAPI) {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "ابدأ"},
		tgbotapi.BotCommand{Command: "search", Description: "بحث"},
		tgbotapi.BotCommand{Command: "today", Description: "جديد اليوم"},
		tgbotapi.BotCommand{Command: "week", Description: "هذا الأسبوع"},
		tgbotapi.BotCommand{Command: "platform", Description: "حسب المنصة"},
		tgbotapi.BotCommand{Command: "export", Description: "تصدير التقويم"},
		tgbotapi.BotCommand{Command: "ping", Description: "اختبار"},
	)
	_, _ = tg.Request(bot, cmds)
}
