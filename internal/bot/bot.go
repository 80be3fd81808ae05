package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/ivanoskov/walriust/internal/charts"
	"github.com/ivanoskov/walriust/internal/metrics"
	"github.com/ivanoskov/walriust/internal/model"
	"github.com/ivanoskov/walriust/internal/service"
)

// Sender отправляет сообщения в Telegram. Реализуется *tgbotapi.BotAPI.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Tracker выполняет команды пользователя
type Tracker interface {
	RecordTransaction(ctx context.Context, chatID int64, parsed model.ParsedTransaction) (*model.Transaction, error)
	RecentTransactions(ctx context.Context, chatID int64) ([]model.Transaction, error)
	CurrentMonthSummary(ctx context.Context, chatID int64) (*service.MonthlyReport, error)
}

type Bot struct {
	api     *tgbotapi.BotAPI
	sender  Sender
	service Tracker
	charts  *charts.ChartGenerator
	metrics *metrics.Metrics
	logger  *slog.Logger
	workers int
}

type Option func(*Bot)

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bot) { b.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithWorkers ограничивает число одновременно обрабатываемых сообщений
func WithWorkers(n int) Option {
	return func(b *Bot) {
		if n > 0 {
			b.workers = n
		}
	}
}

func NewBot(token string, tracker Tracker, opts ...Option) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}

	b := newBot(api, tracker, opts...)
	b.api = api
	return b, nil
}

func newBot(sender Sender, tracker Tracker, opts ...Option) *Bot {
	b := &Bot{
		sender:  sender,
		service: tracker,
		charts:  charts.NewChartGenerator(),
		logger:  slog.Default(),
		workers: 8,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start запускает бота в режиме long polling до отмены ctx.
// Каждое сообщение обрабатывается в своей горутине.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("Bot started", "username", b.api.Self.UserName, "workers", b.workers)

	return b.dispatch(ctx, updates, b.api.StopReceivingUpdates)
}

// dispatch раздает обновления обработчикам до отмены ctx, затем вызывает
// stop и дожидается начатых сообщений. Обработчики получают контекст без
// отмены, поэтому начатое сообщение дорабатывается до конца.
func (b *Bot) dispatch(ctx context.Context, updates <-chan tgbotapi.Update, stop func()) error {
	handlerCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(b.workers)

	for {
		select {
		case <-ctx.Done():
			stop()
			b.logger.Info("Bot stopping, waiting for in-flight messages")
			g.Wait()
			return nil
		case update, ok := <-updates:
			if !ok {
				g.Wait()
				return errors.New("telegram updates channel closed")
			}
			g.Go(func() error {
				b.handleUpdate(handlerCtx, update)
				return nil
			})
		}
	}
}

// HandleWebhook - точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("failed to decode update: %w", err)
	}

	b.handleUpdate(ctx, update)
	return nil
}

func (b *Bot) send(ctx context.Context, c tgbotapi.Chattable) {
	if _, err := b.sender.Send(c); err != nil {
		b.metrics.ObserveFailure("send")
		b.logger.ErrorContext(ctx, "Failed to send reply", "error", err)
	}
}

func (b *Bot) sendText(ctx context.Context, chatID int64, text string) {
	b.send(ctx, tgbotapi.NewMessage(chatID, text))
}

func since(start time.Time) float64 {
	return time.Since(start).Seconds()
}
