package menu

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Данные колбэков главного меню.
const (
	CBToday    = "MENU:today"
	CBWeek     = "MENU:week"
	CBPlatform = "MENU:platform"
	CBHome     = "MENU:home"
)

// Platforms — фиксированный список платформ для /platform.
var Platforms = []string{"Netflix", "Prime Video", "Disney+", "Apple TV+", "OSN+", "Shahid"}

var emptyQuery = ""

// Main — главное меню бота.
func Main() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎬 اليوم", CBToday),
			tgbotapi.NewInlineKeyboardButtonData("📅 هذا الأسبوع", CBWeek),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.InlineKeyboardButton{Text: "🔎 بحث", SwitchInlineQueryCurrentChat: &emptyQuery},
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📺 حسب المنصة", CBPlatform),
		),
	)
}

// PlatformList — клавиатура выбора платформы, по кнопке в строке.
func PlatformList() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(Platforms)+1)
	for _, p := range Platforms {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p, "PLAT:"+p),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅︎ رجوع", CBHome),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Sources — кнопка «где смотреть» под карточкой тайтла.
func Sources(imdbID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📺 أماكن المشاهدة", "SRC_IMDB:"+imdbID),
		),
	)
}
