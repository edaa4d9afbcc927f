package service

import (
	"fmt"
	"strings"

	"structiv/internal/domain"
	"structiv/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramService struct {
	bot domain.TelegramSender
}

func NewTelegramService(bot domain.TelegramSender) *TelegramService {
	return &TelegramService{
		bot: bot,
	}
}

func (s *TelegramService) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	return s.bot.Send(msg)
}

func (s *TelegramService) SendMarkdown(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	return s.bot.Send(msg)
}

// SendNotification renders n as a short MarkdownV2 alert.
func (s *TelegramService) SendNotification(chatID int64, n *models.Notification) error {
	_, err := s.SendMarkdown(chatID, FormatAlert(n))
	return err
}

// FormatAlert renders a notification for a chat message.
func FormatAlert(n *models.Notification) string {
	var b strings.Builder
	b.WriteString("*")
	b.WriteString(tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, n.Title))
	b.WriteString("*")
	if n.Body != "" {
		b.WriteString("\n")
		b.WriteString(tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, n.Body))
	}
	if n.BookingID > 0 {
		b.WriteString("\n")
		b.WriteString(tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, fmt.Sprintf("Booking #%d", n.BookingID)))
	}
	return b.String()
}
