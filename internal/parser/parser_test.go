package parser

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/ivanoskov/walriust/internal/model"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want []string
	}{
		{name: "empty", msg: "", want: nil},
		{name: "only whitespace", msg: " \t\r\n ", want: nil},
		{name: "single", msg: "food", want: []string{"food"}},
		{name: "mixed whitespace", msg: " food\tmk\r\n425  noted ", want: []string{"food", "mk", "425", "noted"}},
		{name: "keeps case", msg: "FooD Yayoi", want: []string{"FooD", "Yayoi"}},
		{name: "non-breaking space is not a separator", msg: "a\u00a0b c", want: []string{"a\u00a0b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Tokens(tt.msg))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokens(%q) = %q, want %q", tt.msg, got, tt.want)
			}
		})
	}
}

func TestTokensRestartable(t *testing.T) {
	seq := Tokens("food mk 425")
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Errorf("second pass = %q, want %q", second, first)
	}
}

func TestTokensStopEarly(t *testing.T) {
	var got []string
	for tok := range Tokens("a b c d") {
		got = append(got, tok)
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("got %q", got)
	}
}

func TestTokenStreamPeekNext(t *testing.T) {
	s := newTokenStream(" food  mk\t425 ")

	for _, want := range []string{"food", "mk", "425"} {
		if tok, ok := s.Peek(); !ok || tok != want {
			t.Fatalf("Peek() = %q, %v; want %q", tok, ok, want)
		}
		if tok, ok := s.Next(); !ok || tok != want {
			t.Fatalf("Next() = %q, %v; want %q", tok, ok, want)
		}
	}
	if tok, ok := s.Peek(); ok {
		t.Errorf("Peek() after end = %q", tok)
	}
	if tok, ok := s.Next(); ok {
		t.Errorf("Next() after end = %q", tok)
	}
}

func TestParseTransaction(t *testing.T) {
	tests := []struct {
		msg  string
		want model.ParsedTransaction
	}{
		{
			msg:  "food boon tong kee 300.00",
			want: model.ParsedTransaction{Category: model.Food, Amount: 30000, ShopName: "boon tong kee"},
		},
		{
			msg:  "food yayoi 300.00",
			want: model.ParsedTransaction{Category: model.Food, Amount: 30000, ShopName: "yayoi"},
		},
		{
			msg:  " food mk 425 noted ",
			want: model.ParsedTransaction{Category: model.Food, Amount: 42500, ShopName: "mk", Note: "noted"},
		},
		{
			msg:  "food 425  Note Note     \n  ",
			want: model.ParsedTransaction{Category: model.Food, Amount: 42500, Note: "Note Note"},
		},
		{
			msg:  " FooD 425.0 Noted ",
			want: model.ParsedTransaction{Category: model.Food, Amount: 42500, Note: "Noted"},
		},
		{
			msg:  "drink starbucks 5.5",
			want: model.ParsedTransaction{Category: model.Food, Amount: 550, ShopName: "starbucks"},
		},
		{
			msg:  "TRAVEL grab 12.345 airport run",
			want: model.ParsedTransaction{Category: model.Travel, Amount: 1235, ShopName: "grab", Note: "airport run"},
		},
		{
			msg:  "work 0.004",
			want: model.ParsedTransaction{Category: model.Work, Amount: 0},
		},
		{
			msg:  "misc a b 1 2",
			want: model.ParsedTransaction{Category: model.Miscellaneous, Amount: 100, ShopName: "a b", Note: "2"},
		},
		{
			msg:  "f 1 2 3",
			want: model.ParsedTransaction{Category: model.Food, Amount: 200, ShopName: "1", Note: "3"},
		},
		{
			msg:  "food shop -5",
			want: model.ParsedTransaction{Category: model.Food, Amount: -500, ShopName: "shop"},
		},
		{
			msg:  "food 1e2",
			want: model.ParsedTransaction{Category: model.Food, Amount: 10000},
		},
		{
			msg:  "food NaN",
			want: model.ParsedTransaction{Category: model.Food, Amount: 0},
		},
		{
			msg:  "food 1e400",
			want: model.ParsedTransaction{Category: model.Food, Amount: math.MaxInt64},
		},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			got, ok := ParseTransaction(tt.msg)
			if !ok {
				t.Fatalf("ParseTransaction(%q) failed", tt.msg)
			}
			if got != tt.want {
				t.Errorf("ParseTransaction(%q) = %+v, want %+v", tt.msg, got, tt.want)
			}
		})
	}
}

func TestParseTransactionInvalid(t *testing.T) {
	invalid := []string{
		"",
		"   ",
		"dude yayoi",
		"1337 hello",
		"yayoi food 300.00",
		"x",
		"300.00 yayoi food",
		"300.00 yayoi food jhaaa",
		"food",
		"food yayoi",
		"food boon tong kee",
		"drinks 5",
		"food 1_000",
		"food shop 0x1p4",
		"food 0x10p0 note",
		"food -0X1p-2",
	}

	for _, msg := range invalid {
		if got, ok := ParseTransaction(msg); ok {
			t.Errorf("ParseTransaction(%q) = %+v, want no result", msg, got)
		}
	}
}

func TestParseTransactionDeterministic(t *testing.T) {
	const msg = "food boon tong kee 300.00 with friends"
	first, _ := ParseTransaction(msg)
	for i := 0; i < 10; i++ {
		got, ok := ParseTransaction(msg)
		if !ok || got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		msg    string
		want   CommandKind
		wantOK bool
	}{
		{msg: "list", want: ListTransactions, wantOK: true},
		{msg: "listing everything", want: ListTransactions, wantOK: true},
		{msg: "help me", want: Help, wantOK: true},
		{msg: "  helpful", want: Help, wantOK: true},
		{msg: "current month", want: SummaryCurrentMonth, wantOK: true},
		{msg: "food yayoi 300", want: AddTransaction, wantOK: true},
		{msg: "List", wantOK: false},
		{msg: "HELP", wantOK: false},
		{msg: "Current", wantOK: false},
		{msg: "/help", wantOK: false},
		{msg: "", wantOK: false},
		{msg: "\n\t", wantOK: false},
		{msg: "dude yayoi", wantOK: false},
		{msg: "food yayoi", wantOK: false},
		{msg: "food list", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			got, ok := Parse(tt.msg)
			if ok != tt.wantOK {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.msg, ok, tt.wantOK)
			}
			if ok && got.Kind != tt.want {
				t.Errorf("Parse(%q) kind = %v, want %v", tt.msg, got.Kind, tt.want)
			}
		})
	}
}

func TestParseCarriesTransaction(t *testing.T) {
	cmd, ok := Parse(" food mk 425 noted ")
	if !ok {
		t.Fatal("expected a command")
	}
	want := model.ParsedTransaction{Category: model.Food, Amount: 42500, ShopName: "mk", Note: "noted"}
	if cmd.Transaction != want {
		t.Errorf("transaction = %+v, want %+v", cmd.Transaction, want)
	}
}

func TestParseCategoryAliases(t *testing.T) {
	aliases := map[string]model.Category{
		"food":   model.Food,
		"f":      model.Food,
		"drink":  model.Food,
		"d":      model.Food,
		"travel": model.Travel,
		"work":   model.Work,
		"misc":   model.Miscellaneous,
	}

	for alias, want := range aliases {
		for _, variant := range []string{alias, "  " + alias + "\t", strings.ToUpper(alias)} {
			cmd, ok := Parse(variant + " 1")
			if !ok || cmd.Kind != AddTransaction {
				t.Fatalf("Parse(%q) = %+v, %v", variant+" 1", cmd, ok)
			}
			if cmd.Transaction.Category != want {
				t.Errorf("alias %q: category = %v, want %v", variant, cmd.Transaction.Category, want)
			}
		}
	}
}
