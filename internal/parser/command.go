package parser

import (
	"strings"

	"github.com/ivanoskov/walriust/internal/model"
)

// CommandKind определяет тип команды
type CommandKind int

const (
	AddTransaction CommandKind = iota + 1
	ListTransactions
	SummaryCurrentMonth
	Help
)

func (k CommandKind) String() string {
	switch k {
	case AddTransaction:
		return "add_transaction"
	case ListTransactions:
		return "list_transactions"
	case SummaryCurrentMonth:
		return "summary_current_month"
	case Help:
		return "help"
	}
	return "unknown"
}

// Command - разобранная команда. Transaction заполнено только для AddTransaction.
type Command struct {
	Kind        CommandKind
	Transaction model.ParsedTransaction
}

// Parse определяет команду по первому токену сообщения.
// ok == false означает нераспознанный ввод.
//
// Категории сравниваются без учета регистра, а префиксы list, help и
// current - с учетом.
func Parse(msg string) (Command, bool) {
	var first string
	for tok := range Tokens(msg) {
		first = tok
		break
	}
	if first == "" {
		return Command{}, false
	}

	switch {
	case model.IsCategory(first):
		tx, ok := ParseTransaction(msg)
		if !ok {
			return Command{}, false
		}
		return Command{Kind: AddTransaction, Transaction: tx}, true
	case strings.HasPrefix(first, "list"):
		return Command{Kind: ListTransactions}, true
	case strings.HasPrefix(first, "help"):
		return Command{Kind: Help}, true
	case strings.HasPrefix(first, "current"):
		return Command{Kind: SummaryCurrentMonth}, true
	}
	return Command{}, false
}
