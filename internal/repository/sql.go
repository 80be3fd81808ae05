package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/ivanoskov/walriust/internal/model"
)

// dialect описывает различия SQL-хранилищ
type dialect struct {
	name   string
	driver string
	// numbered заменяет "?" на "$1", "$2", ...
	numbered bool
}

var (
	sqliteDialect   = dialect{name: "sqlite", driver: "sqlite"}
	postgresDialect = dialect{name: "postgres", driver: "postgres", numbered: true}
)

func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLRepository хранит транзакции в SQLite или PostgreSQL
type SQLRepository struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLiteRepository открывает файл SQLite и применяет миграции
func NewSQLiteRepository(dbPath string) (*SQLRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	repo, err := openSQL(sqliteDialect, dbPath)
	if err != nil {
		return nil, err
	}
	// SQLite не любит конкурентных писателей
	repo.db.SetMaxOpenConns(1)
	return repo, nil
}

// NewPostgresRepository подключается к PostgreSQL и применяет миграции
func NewPostgresRepository(databaseURL string) (*SQLRepository, error) {
	repo, err := openSQL(postgresDialect, databaseURL)
	if err != nil {
		return nil, err
	}
	repo.db.SetMaxOpenConns(25)
	repo.db.SetMaxIdleConns(5)
	return repo, nil
}

func openSQL(d dialect, dsn string) (*SQLRepository, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d.name, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(d, dsn); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLRepository{db: db, dialect: d}, nil
}

func (r *SQLRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLRepository) CreateTransaction(ctx context.Context, transaction *model.Transaction) error {
	transaction.GenerateID()

	_, err := r.db.ExecContext(ctx, r.dialect.rebind(
		"INSERT INTO transactions (id, chat_id, category, amount, shop_name, note, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"),
		transaction.ID,
		transaction.ChatID,
		transaction.Category.String(),
		transaction.Amount,
		nullString(transaction.ShopName),
		nullString(transaction.Note),
		transaction.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved",
		"backend", r.dialect.name,
		"id", transaction.ID,
		"chat_id", transaction.ChatID,
		"amount", transaction.Amount)
	return nil
}

func (r *SQLRepository) ListTransactions(ctx context.Context, chatID int64, limit int) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(
		"SELECT id, chat_id, category, amount, shop_name, note, created_at FROM transactions WHERE chat_id = ? ORDER BY created_at DESC, id DESC LIMIT ?"),
		chatID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var (
			t         model.Transaction
			category  string
			shop      sql.NullString
			note      sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&t.ID, &t.ChatID, &category, &t.Amount, &shop, &note, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if t.Category, err = storedCategory(category); err != nil {
			return nil, err
		}
		t.ShopName = shop.String
		t.Note = note.String
		t.CreatedAt = time.Unix(0, createdAt).UTC()
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

// SummarizePeriod суммирует в Go: итог обрезается по границам int64,
// как и в остальных хранилищах.
func (r *SQLRepository) SummarizePeriod(ctx context.Context, chatID int64, start, end time.Time) ([]model.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(
		"SELECT category, amount FROM transactions WHERE chat_id = ? AND created_at >= ? AND created_at < ?"),
		chatID, start.UnixNano(), end.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var (
			t        model.Transaction
			category string
		)
		if err := rows.Scan(&category, &t.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan period transaction: %w", err)
		}
		if t.Category, err = storedCategory(category); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate period transactions: %w", err)
	}

	return aggregate(transactions), nil
}

func storedCategory(s string) (model.Category, error) {
	c, ok := model.ParseStoredCategory(s)
	if !ok {
		return 0, &model.UnknownCategoryError{Name: s}
	}
	return c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
