package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ivanoskov/walriust/internal/events"
	"github.com/ivanoskov/walriust/internal/model"
)

// ExpenseTracker выполняет команды бота над хранилищем
type ExpenseTracker struct {
	repo      Repository
	publisher events.Publisher
	now       func() time.Time
	location  *time.Location
	listLimit int
	logger    *slog.Logger
}

// Repository определяет интерфейс для работы с хранилищем данных
type Repository interface {
	CreateTransaction(ctx context.Context, transaction *model.Transaction) error
	ListTransactions(ctx context.Context, chatID int64, limit int) ([]model.Transaction, error)
	SummarizePeriod(ctx context.Context, chatID int64, start, end time.Time) ([]model.CategoryTotal, error)
}

type Option func(*ExpenseTracker)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(s *ExpenseTracker) { s.now = now }
}

// WithLocation задает часовой пояс для границ месяца
func WithLocation(loc *time.Location) Option {
	return func(s *ExpenseTracker) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *ExpenseTracker) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithListLimit(limit int) Option {
	return func(s *ExpenseTracker) {
		if limit > 0 {
			s.listLimit = limit
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *ExpenseTracker) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewExpenseTracker создает новый экземпляр ExpenseTracker
func NewExpenseTracker(repo Repository, opts ...Option) *ExpenseTracker {
	s := &ExpenseTracker{
		repo:      repo,
		publisher: events.NoopPublisher{},
		now:       time.Now,
		location:  time.UTC,
		listLimit: 20,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordTransaction сохраняет разобранную транзакцию с текущим временем
func (s *ExpenseTracker) RecordTransaction(ctx context.Context, chatID int64, parsed model.ParsedTransaction) (*model.Transaction, error) {
	transaction := &model.Transaction{
		ChatID:    chatID,
		Category:  parsed.Category,
		Amount:    parsed.Amount,
		ShopName:  parsed.ShopName,
		Note:      parsed.Note,
		CreatedAt: s.now(),
	}
	transaction.GenerateID()

	if err := s.repo.CreateTransaction(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	// Событие не критично: транзакция уже сохранена
	if err := s.publisher.PublishTransactionRecorded(ctx, *transaction); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish transaction event", "id", transaction.ID, "error", err)
	}

	return transaction, nil
}

// RecentTransactions возвращает последние транзакции чата
func (s *ExpenseTracker) RecentTransactions(ctx context.Context, chatID int64) ([]model.Transaction, error) {
	transactions, err := s.repo.ListTransactions(ctx, chatID, s.listLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// MonthlyReport - итоги по категориям за месяц
type MonthlyReport struct {
	Start  time.Time
	End    time.Time
	Totals []model.CategoryTotal
	Total  int64
	Count  int
}

// Period возвращает название месяца отчета, например "March 2024"
func (r *MonthlyReport) Period() string {
	return r.Start.Format("January 2006")
}

// CurrentMonthSummary суммирует расходы чата с начала текущего месяца
func (s *ExpenseTracker) CurrentMonthSummary(ctx context.Context, chatID int64) (*MonthlyReport, error) {
	start, end := MonthBounds(s.now(), s.location)

	totals, err := s.repo.SummarizePeriod(ctx, chatID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get current month totals: %w", err)
	}

	report := &MonthlyReport{Start: start, End: end, Totals: totals}
	for _, t := range totals {
		report.Total = model.AddCents(report.Total, t.Amount)
		report.Count += t.Count
	}
	return report, nil
}

// MonthBounds возвращает начало месяца now и начало следующего в loc
func MonthBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
