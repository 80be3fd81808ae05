package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// getMainKeyboard - кнопки отправляют обычный текст, который разбирает парсер
func (b *Bot) getMainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("list"),
			tgbotapi.NewKeyboardButton("current"),
			tgbotapi.NewKeyboardButton("help"),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}
