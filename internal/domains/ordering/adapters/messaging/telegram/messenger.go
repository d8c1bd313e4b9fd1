package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
)

const Channel = "telegram"

var _ ports.Messenger = (*Messenger)(nil)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Messenger posts orders into the operator's Telegram chat.
type Messenger struct {
	bot    sender
	chatID int64
}

// NewMessenger authenticates the bot token against the Bot API.
func NewMessenger(token string, chatID int64) (*Messenger, error) {
	if token == "" || chatID == 0 {
		return nil, errors.New("telegram token and chat id are required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Messenger{bot: bot, chatID: chatID}, nil
}

func (m *Messenger) Deliver(_ context.Context, delivery domain.Delivery) (domain.Receipt, error) {
	if delivery.Destination == "" {
		return domain.Receipt{}, domain.ErrInvalidDestination
	}
	text := delivery.Message + "\n\n+" + delivery.Destination
	sent, err := m.bot.Send(tgbotapi.NewMessage(m.chatID, text))
	if err != nil {
		return domain.Receipt{}, err
	}
	return domain.Receipt{Channel: Channel, Reference: strconv.Itoa(sent.MessageID)}, nil
}
