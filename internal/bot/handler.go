package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/walriust/internal/metrics"
	"github.com/ivanoskov/walriust/internal/parser"
)

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.Chat == nil || message.Text == "" {
		return
	}

	start := time.Now()
	defer func() { b.metrics.ObserveDuration(since(start)) }()

	cmd, ok := b.commandFor(message)
	if !ok {
		b.metrics.ObserveCommand(metrics.CommandUnrecognized)
		b.logger.DebugContext(ctx, "Unrecognized message", "chat_id", message.Chat.ID)
		b.sendText(ctx, message.Chat.ID, unrecognizedReply)
		return
	}

	b.metrics.ObserveCommand(cmd.Kind.String())
	b.execute(ctx, message.Chat.ID, cmd)
}

// commandFor переводит slash-команды Telegram в команды бота,
// остальной текст отдает парсеру
func (b *Bot) commandFor(message *tgbotapi.Message) (parser.Command, bool) {
	if !message.IsCommand() {
		return parser.Parse(message.Text)
	}

	switch message.Command() {
	case "start", "help":
		return parser.Command{Kind: parser.Help}, true
	case "list":
		return parser.Command{Kind: parser.ListTransactions}, true
	case "current":
		return parser.Command{Kind: parser.SummaryCurrentMonth}, true
	}
	return parser.Command{}, false
}

func (b *Bot) execute(ctx context.Context, chatID int64, cmd parser.Command) {
	switch cmd.Kind {
	case parser.AddTransaction:
		b.handleAddTransaction(ctx, chatID, cmd)
	case parser.ListTransactions:
		b.handleList(ctx, chatID)
	case parser.SummaryCurrentMonth:
		b.handleSummary(ctx, chatID)
	case parser.Help:
		b.handleHelp(ctx, chatID)
	}
}

func (b *Bot) handleAddTransaction(ctx context.Context, chatID int64, cmd parser.Command) {
	transaction, err := b.service.RecordTransaction(ctx, chatID, cmd.Transaction)
	if err != nil {
		b.fail(ctx, chatID, "record", err)
		return
	}

	b.metrics.ObserveTransaction(transaction.Category.String(), transaction.Amount)
	b.logger.InfoContext(ctx, "Transaction recorded",
		"chat_id", chatID,
		"id", transaction.ID,
		"category", transaction.Category.String(),
		"amount", transaction.Amount)
	b.sendText(ctx, chatID, formatRecorded(transaction))
}

func (b *Bot) handleList(ctx context.Context, chatID int64) {
	transactions, err := b.service.RecentTransactions(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, "list", err)
		return
	}
	b.sendText(ctx, chatID, formatList(transactions))
}

func (b *Bot) handleSummary(ctx context.Context, chatID int64) {
	report, err := b.service.CurrentMonthSummary(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, "summary", err)
		return
	}
	b.sendText(ctx, chatID, formatSummary(report))

	png, err := b.charts.GenerateCategorySummary(report.Totals)
	if err != nil {
		b.metrics.ObserveFailure("chart")
		b.logger.WarnContext(ctx, "Failed to render summary chart", "chat_id", chatID, "error", err)
		return
	}
	if png == nil {
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "summary.png", Bytes: png})
	photo.Caption = report.Period()
	b.send(ctx, photo)
}

func (b *Bot) handleHelp(ctx context.Context, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, helpText)
	msg.ReplyMarkup = b.getMainKeyboard()
	b.send(ctx, msg)
}

func (b *Bot) fail(ctx context.Context, chatID int64, stage string, err error) {
	b.metrics.ObserveFailure(stage)
	b.logger.ErrorContext(ctx, "Failed to execute command", "chat_id", chatID, "stage", stage, "error", err)
	b.sendText(ctx, chatID, failureReply)
}
