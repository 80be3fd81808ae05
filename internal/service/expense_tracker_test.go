package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/ivanoskov/walriust/internal/model"
	"github.com/ivanoskov/walriust/internal/repository"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published []model.Transaction
	err       error
}

func (p *recordingPublisher) PublishTransactionRecorded(_ context.Context, t model.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, t)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type failingRepository struct {
	repository.MemoryRepository
}

func (*failingRepository) CreateTransaction(context.Context, *model.Transaction) error {
	return errors.New("disk full")
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRecordTransaction(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.March, 10, 12, 30, 0, 0, time.UTC)
	repo := repository.NewMemoryRepository()
	pub := &recordingPublisher{}
	tracker := NewExpenseTracker(repo, WithClock(fixedClock(now)), WithPublisher(pub))

	parsed := model.ParsedTransaction{Category: model.Food, Amount: 42500, ShopName: "mk", Note: "noted"}
	got, err := tracker.RecordTransaction(ctx, 7, parsed)
	if err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}

	if got.ID == "" {
		t.Error("expected generated ID")
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, now)
	}
	if got.ChatID != 7 || got.Category != model.Food || got.Amount != 42500 || got.ShopName != "mk" || got.Note != "noted" {
		t.Errorf("unexpected transaction: %+v", got)
	}

	stored, _ := repo.ListTransactions(ctx, 7, 10)
	if len(stored) != 1 || stored[0].ID != got.ID {
		t.Errorf("stored = %+v", stored)
	}
	if len(pub.published) != 1 || pub.published[0].ID != got.ID {
		t.Errorf("published = %+v", pub.published)
	}
}

func TestRecordTransactionPublishFailureIsNotFatal(t *testing.T) {
	tracker := NewExpenseTracker(repository.NewMemoryRepository(), WithPublisher(&recordingPublisher{err: errors.New("broker down")}))

	if _, err := tracker.RecordTransaction(context.Background(), 1, model.ParsedTransaction{Category: model.Work, Amount: 1}); err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}
}

func TestRecordTransactionRepositoryFailure(t *testing.T) {
	pub := &recordingPublisher{}
	tracker := NewExpenseTracker(&failingRepository{}, WithPublisher(pub))

	if _, err := tracker.RecordTransaction(context.Background(), 1, model.ParsedTransaction{Category: model.Work, Amount: 1}); err == nil {
		t.Fatal("expected error")
	}
	if len(pub.published) != 0 {
		t.Error("event published for unsaved transaction")
	}
}

func TestRecentTransactionsUsesLimit(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		repo.CreateTransaction(ctx, &model.Transaction{ChatID: 1, Category: model.Food, Amount: int64(i), CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}

	tracker := NewExpenseTracker(repo, WithListLimit(3))
	got, err := tracker.RecentTransactions(ctx, 1)
	if err != nil {
		t.Fatalf("RecentTransactions: %v", err)
	}
	if len(got) != 3 || got[0].Amount != 4 {
		t.Errorf("got %+v", got)
	}
}

func TestCurrentMonthSummary(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	now := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

	seed := []model.Transaction{
		{ChatID: 1, Category: model.Food, Amount: 30000, CreatedAt: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{ChatID: 1, Category: model.Food, Amount: 42500, CreatedAt: time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)},
		{ChatID: 1, Category: model.Travel, Amount: 1200, CreatedAt: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)},
		{ChatID: 1, Category: model.Work, Amount: 999, CreatedAt: time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC)},
		{ChatID: 1, Category: model.Work, Amount: 111, CreatedAt: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)},
	}
	for i := range seed {
		repo.CreateTransaction(ctx, &seed[i])
	}

	tracker := NewExpenseTracker(repo, WithClock(fixedClock(now)))
	report, err := tracker.CurrentMonthSummary(ctx, 1)
	if err != nil {
		t.Fatalf("CurrentMonthSummary: %v", err)
	}

	if report.Period() != "March 2024" {
		t.Errorf("Period = %q", report.Period())
	}
	if report.Total != 73700 || report.Count != 3 {
		t.Errorf("Total = %d, Count = %d", report.Total, report.Count)
	}
	if len(report.Totals) != 2 || report.Totals[0].Category != model.Food || report.Totals[1].Category != model.Travel {
		t.Errorf("Totals = %+v", report.Totals)
	}
}

func TestMonthBounds(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)

	tests := []struct {
		name      string
		now       time.Time
		loc       *time.Location
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "mid month",
			now:       time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC),
			loc:       time.UTC,
			wantStart: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "december rolls over the year",
			now:       time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC),
			loc:       time.UTC,
			wantStart: time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "location moves the instant into the next month",
			now:       time.Date(2024, time.March, 31, 20, 0, 0, 0, time.UTC),
			loc:       loc,
			wantStart: time.Date(2024, time.April, 1, 0, 0, 0, 0, loc),
			wantEnd:   time.Date(2024, time.May, 1, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthBounds(tt.now, tt.loc)
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Errorf("MonthBounds = %v, %v; want %v, %v", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestCurrentMonthSummarySaturatesTotal(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	now := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	tracker := NewExpenseTracker(repo, WithClock(fixedClock(now)))

	for _, category := range []model.Category{model.Food, model.Travel} {
		if _, err := tracker.RecordTransaction(ctx, 1, model.ParsedTransaction{Category: category, Amount: math.MaxInt64}); err != nil {
			t.Fatalf("RecordTransaction: %v", err)
		}
	}

	report, err := tracker.CurrentMonthSummary(ctx, 1)
	if err != nil {
		t.Fatalf("CurrentMonthSummary: %v", err)
	}
	if report.Total != math.MaxInt64 || report.Count != 2 {
		t.Errorf("Total = %d, Count = %d", report.Total, report.Count)
	}
}
