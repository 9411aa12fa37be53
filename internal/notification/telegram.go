package notification

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/wb-go/wbf/logger"
	"github.com/yoursongrequest/ysr/internal/domain"
)

type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	logger logger.Logger
}

func NewTelegramNotifier(token string, logger logger.Logger) (*TelegramNotifier, error) {
	if token == "" {
		logger.Warn("telegram bot token is empty, notifications disabled")
		return &TelegramNotifier{bot: nil, logger: logger}, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{bot: bot, logger: logger}, nil
}

func (n *TelegramNotifier) NotifyRequestReceived(ctx context.Context, performer *domain.Performer, request *domain.Request) {
	text := fmt.Sprintf(
		"*New song request!*\n\n"+"Song: %s\n"+"From: %s\n"+"Paid: $%s",
		request.SongTitle, request.RequesterName, request.AmountPaid.StringFixed(2),
	)
	if request.Note != "" {
		text += fmt.Sprintf("\nNote: %s", request.Note)
	}
	n.send(ctx, performer.TelegramChatID, text)
}

func (n *TelegramNotifier) NotifyTipReceived(ctx context.Context, performer *domain.Performer, request *domain.Request) {
	text := fmt.Sprintf(
		"*You got a tip!*\n\n"+"From: %s\n"+"Amount: $%s",
		request.RequesterName, request.Tip.StringFixed(2),
	)
	n.send(ctx, performer.TelegramChatID, text)
}

func (n *TelegramNotifier) NotifySessionEnded(ctx context.Context, performer *domain.Performer) {
	text := "*Your session timer ran out.*\n\n" +
		"You are now offline. Go live again from the dashboard to keep taking requests."
	n.send(ctx, performer.TelegramChatID, text)
}

func (n *TelegramNotifier) send(ctx context.Context, chatID *int64, text string) {
	if n.bot == nil {
		n.logger.Debug("notification skipped (bot disabled)", logger.String("text", text))
		return
	}

	if chatID == nil {
		n.logger.Debug("notification skipped (no chat_id)", logger.String("text", text))
		return
	}

	if err := ctx.Err(); err != nil {
		n.logger.Debug("notification skipped (context cancelled)",
			logger.Int64("chat_id", *chatID),
		)
		return
	}

	msg := tgbotapi.NewMessage(*chatID, text)
	msg.ParseMode = "Markdown"

	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("failed to send telegram notification",
			logger.Int64("chat_id", *chatID),
			logger.String("error", err.Error()),
		)
	}
}
