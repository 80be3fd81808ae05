package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ivanoskov/walriust/internal/model"
)

// ErrUnknownBackend возвращается фабрикой для неизвестного типа хранилища
var ErrUnknownBackend = errors.New("unknown data backend")

type Repository interface {
	// CreateTransaction сохраняет транзакцию. CreatedAt заполняет вызывающий,
	// пустой ID генерируется.
	CreateTransaction(ctx context.Context, transaction *model.Transaction) error
	// ListTransactions возвращает последние транзакции чата, новые первыми
	ListTransactions(ctx context.Context, chatID int64, limit int) ([]model.Transaction, error)
	// SummarizePeriod суммирует расходы чата по категориям за [start, end)
	SummarizePeriod(ctx context.Context, chatID int64, start, end time.Time) ([]model.CategoryTotal, error)
	Close() error
}

// Options описывает подключение к хранилищу
type Options struct {
	Backend      string
	SQLiteDBPath string
	DatabaseURL  string
	SupabaseURL  string
	SupabaseKey  string
}

// New создает репозиторий нужного типа
func New(opts Options) (Repository, error) {
	var (
		repo Repository
		err  error
	)
	switch opts.Backend {
	case "memory":
		return NewMemoryRepository(), nil
	case "sqlite":
		repo, err = NewSQLiteRepository(opts.SQLiteDBPath)
	case "postgres":
		repo, err = NewPostgresRepository(opts.DatabaseURL)
	case "supabase":
		repo, err = NewSupabaseRepository(opts.SupabaseURL, opts.SupabaseKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// sortTotals упорядочивает итоги по каноническому имени категории
func sortTotals(totals []model.CategoryTotal) {
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Category.String() < totals[j].Category.String()
	})
}
