package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// ParsedTransaction - результат разбора сообщения о расходе.
// Пустые ShopName и Note означают отсутствие значения.
type ParsedTransaction struct {
	Category Category
	Amount   int64
	ShopName string
	Note     string
}

type Transaction struct {
	ID        string    `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Category  Category  `json:"category"`
	Amount    int64     `json:"amount"`
	ShopName  string    `json:"shop_name,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateID генерирует новый UUID для транзакции, если он еще не установлен
func (t *Transaction) GenerateID() {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
}

// CategoryTotal - сумма расходов по категории за период
type CategoryTotal struct {
	Category Category `json:"category"`
	Amount   int64    `json:"amount"`
	Count    int      `json:"count"`
}

// CentsFromFloat переводит значение в копейки с округлением до ближайшего.
// NaN дает 0, значения вне диапазона int64 обрезаются по границам.
func CentsFromFloat(v float64) int64 {
	scaled := math.Round(v * 100)
	switch {
	case math.IsNaN(scaled):
		return 0
	case scaled >= math.MaxInt64:
		return math.MaxInt64
	case scaled <= math.MinInt64:
		return math.MinInt64
	}
	return int64(scaled)
}

// AddCents складывает суммы в копейках. При переполнении результат
// обрезается по границам int64.
func AddCents(a, b int64) int64 {
	sum := a + b
	switch {
	case a > 0 && b > 0 && sum < 0:
		return math.MaxInt64
	case a < 0 && b < 0 && sum >= 0:
		return math.MinInt64
	}
	return sum
}

// FormatCents форматирует сумму в копейках как "425.00"
func FormatCents(cents int64) string {
	sign := ""
	u := uint64(cents)
	if cents < 0 {
		sign = "-"
		u = uint64(-(cents + 1)) + 1
	}
	return fmt.Sprintf("%s%d.%02d", sign, u/100, u%100)
}
