package handlers

import (
	"github.com/Spok95/telegram-movies-bot/internal/bot/menu"
	"github.com/Spok95/telegram-movies-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const startText = "👋 أهلاً! بوت متابعة جديد الأفلام والمسلسلات.\n\n" +
	"• /today — جديد اليوم\n" +
	"• /week — هذا الأسبوع\n" +
	"• /search اسم — بحث سريع\n" +
	"• /platform — حسب المنصّة (لو فعلنا Watchmode)\n" +
	"• /export — تقويم الأسبوع كملف Excel\n"

func HandleStart(bot *tgbotapi.BotAPI, msg *tgbotapi.Message) {
	out := tgbotapi.NewMessage(msg.Chat.ID, startText)
	out.ReplyMarkup = menu.Main()
	_, _ = tg.Send(bot, out)
}

func HandlePing(bot *tgbotapi.BotAPI, msg *tgbotapi.Message) {
	_, _ = tg.Send(bot, tgbotapi.NewMessage(msg.Chat.ID, "pong ✅"))
}
