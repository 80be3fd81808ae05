package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ivanoskov/walriust/internal/model"
)

// MemoryRepository хранит транзакции в памяти процесса
type MemoryRepository struct {
	mu           sync.RWMutex
	transactions []model.Transaction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) CreateTransaction(ctx context.Context, transaction *model.Transaction) error {
	transaction.GenerateID()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, *transaction)
	return nil
}

func (r *MemoryRepository) ListTransactions(ctx context.Context, chatID int64, limit int) ([]model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []model.Transaction
	for i := len(r.transactions) - 1; i >= 0; i-- {
		if r.transactions[i].ChatID == chatID {
			result = append(result, r.transactions[i])
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MemoryRepository) SummarizePeriod(ctx context.Context, chatID int64, start, end time.Time) ([]model.CategoryTotal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return summarize(r.transactions, chatID, start, end), nil
}

func (r *MemoryRepository) Close() error {
	return nil
}

// summarize группирует транзакции чата за [start, end) по категориям
func summarize(transactions []model.Transaction, chatID int64, start, end time.Time) []model.CategoryTotal {
	var inPeriod []model.Transaction
	for _, t := range transactions {
		if t.ChatID == chatID && !t.CreatedAt.Before(start) && t.CreatedAt.Before(end) {
			inPeriod = append(inPeriod, t)
		}
	}
	return aggregate(inPeriod)
}

func aggregate(transactions []model.Transaction) []model.CategoryTotal {
	byCategory := make(map[model.Category]*model.CategoryTotal)
	for _, t := range transactions {
		total, ok := byCategory[t.Category]
		if !ok {
			total = &model.CategoryTotal{Category: t.Category}
			byCategory[t.Category] = total
		}
		total.Amount = model.AddCents(total.Amount, t.Amount)
		total.Count++
	}

	totals := make([]model.CategoryTotal, 0, len(byCategory))
	for _, total := range byCategory {
		totals = append(totals, *total)
	}
	sortTotals(totals)
	return totals
}
