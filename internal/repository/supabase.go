package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	postgrest "github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/ivanoskov/walriust/internal/model"
)

const transactionsTable = "transactions"

type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(url, key string) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &SupabaseRepository{
		client: client,
	}, nil
}

func (r *SupabaseRepository) CreateTransaction(ctx context.Context, transaction *model.Transaction) error {
	transaction.GenerateID()

	data, count, err := r.client.From(transactionsTable).Insert(transaction, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	slog.DebugContext(ctx, "Transaction saved", "backend", "supabase", "id", transaction.ID, "count", count)

	// Supabase возвращает сохраненные строки
	var created []model.Transaction
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("failed to parse created transaction: %w", err)
	}
	if len(created) > 0 && !created[0].CreatedAt.IsZero() {
		transaction.CreatedAt = created[0].CreatedAt
	}
	return nil
}

func (r *SupabaseRepository) ListTransactions(ctx context.Context, chatID int64, limit int) ([]model.Transaction, error) {
	data, _, err := r.client.From(transactionsTable).
		Select("*", "", false).
		Eq("chat_id", strconv.FormatInt(chatID, 10)).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	var transactions []model.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, fmt.Errorf("failed to parse transactions: %w", err)
	}
	return transactions, nil
}

func (r *SupabaseRepository) SummarizePeriod(ctx context.Context, chatID int64, start, end time.Time) ([]model.CategoryTotal, error) {
	data, count, err := r.client.From(transactionsTable).
		Select("category,amount", "", false).
		Eq("chat_id", strconv.FormatInt(chatID, 10)).
		Gte("created_at", start.Format(time.RFC3339Nano)).
		Lt("created_at", end.Format(time.RFC3339Nano)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get period transactions: %w", err)
	}
	slog.DebugContext(ctx, "Fetched period transactions", "backend", "supabase", "count", count)

	var transactions []model.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, fmt.Errorf("failed to parse transactions: %w", err)
	}
	return aggregate(transactions), nil
}

func (r *SupabaseRepository) Close() error {
	return nil
}
