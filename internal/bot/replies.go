package bot

import (
	"fmt"
	"strings"

	"github.com/ivanoskov/walriust/internal/model"
	"github.com/ivanoskov/walriust/internal/service"
)

const (
	unrecognizedReply = "Ehhh, what do you mean dude?"
	failureReply      = "Something went wrong, try again later."
)

const helpText = `Welcome to Walriust!

Basic Usage:
    list [list recent transactions]
    current [summarize transactions in this month]
    help [show this message]

Adding Transaction:
    <category> <?shop_name> <price> <note>

    Example
    Food 425.0 for XYZ
    food Yayoi 422

List of available category
    - Food (food, f, drink, d)
    - Travel (travel)
    - Work (work)
    - Miscellaneous (misc)`

func formatRecorded(t *model.Transaction) string {
	return "Dude, nice job! " + formatTransaction(t)
}

func formatTransaction(t *model.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", t.Category.Title(), model.FormatCents(t.Amount))
	if t.ShopName != "" {
		fmt.Fprintf(&b, " at %s", t.ShopName)
	}
	if t.Note != "" {
		fmt.Fprintf(&b, " (%s)", t.Note)
	}
	return b.String()
}

func formatList(transactions []model.Transaction) string {
	if len(transactions) == 0 {
		return "Your list! Nothing recorded yet."
	}

	var b strings.Builder
	b.WriteString("Your list!")
	for i := range transactions {
		t := &transactions[i]
		fmt.Fprintf(&b, "\n%s %s", t.CreatedAt.Format("2006-01-02"), formatTransaction(t))
	}
	return b.String()
}

func formatSummary(report *service.MonthlyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your summary! %s", report.Period())
	if len(report.Totals) == 0 {
		b.WriteString("\nNothing recorded this month.")
		return b.String()
	}
	for _, t := range report.Totals {
		fmt.Fprintf(&b, "\n%s: %s (%d)", t.Category.Title(), model.FormatCents(t.Amount), t.Count)
	}
	fmt.Fprintf(&b, "\nTotal: %s", model.FormatCents(report.Total))
	return b.String()
}
