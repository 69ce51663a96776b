package bot

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot runs the Telegram long-poll loop and answers commands through the
// Handler. Alerts go out separately via the alert dispatcher; this loop is
// request/response only.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
}

func NewBot(token string, debug bool, handler *Handler) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	api.Debug = debug

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:     api,
		handler: handler,
	}, nil
}

// API exposes the underlying client for the alert dispatcher.
func (b *Bot) API() *tgbotapi.BotAPI {
	return b.api
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || !update.Message.IsCommand() {
			continue
		}

		b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	callerID := message.Chat.ID
	if message.From != nil {
		callerID = message.From.ID
	}

	log.Printf("💬 Command: %s from %d", message.Text, callerID)

	response := b.handler.HandleCommand(message.Text, callerID)
	if response == "" {
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, response)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("❌ Failed to send response to %d: %v", message.Chat.ID, err)
	}
}
