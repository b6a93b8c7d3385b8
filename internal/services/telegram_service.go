package services

import (
	"fmt"
	"html"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskhub/internal/models"
)

// TelegramService posts task notifications into the reviewers chat.
// A nil service is a valid no-op (telegram not configured).
type TelegramService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramService(botToken string, chatID int64) (*TelegramService, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramService{bot: bot, chatID: chatID}, nil
}

func (t *TelegramService) NotifyReviewRequested(task *models.Task, changedBy string) error {
	if t == nil || t.bot == nil || t.chatID == 0 {
		log.Printf("[tg][skip] bot or chat not configured")
		return nil
	}
	priority := "—"
	if task.Priority != nil {
		priority = fmt.Sprintf("%d", *task.Priority)
	}
	text := "🔎 Task pending review\n" +
		"• <b>" + html.EscapeString(task.Name) + "</b>\n" +
		fmt.Sprintf("• Task: <code>#%d</code>\n", task.ID) +
		"• Priority: <code>" + priority + "</code>\n" +
		"• Submitted by: <code>" + html.EscapeString(changedBy) + "</code>"

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
