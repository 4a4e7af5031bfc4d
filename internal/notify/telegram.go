package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier pushes messages into a fixed team chat.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Printf("telegram: authorized on account %s", api.Self.UserName)
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

// SendMessage delivers one HTML-formatted message to the team chat.
func (notifier *TelegramNotifier) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(notifier.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := notifier.api.Send(msg)
	return err
}
