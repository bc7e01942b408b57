package embedding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

func TestBudgetTracker_Check(t *testing.T) {
	tests := []struct {
		name    string
		daily   int64
		monthly int64
		action  BudgetAction
		used    int64
		wantErr bool
	}{
		{"daily reject", 100, 0, BudgetActionReject, 100, true},
		{"daily warn", 100, 0, BudgetActionWarn, 200, false},
		{"monthly reject", 0, 500, BudgetActionReject, 500, true},
		{"unlimited", 0, 0, BudgetActionReject, 999999999, false},
		{"below limit", 1000, 10000, BudgetActionReject, 500, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bt := NewBudgetTracker("test", tt.daily, tt.monthly, tt.action, zap.NewNop())
			bt.Record(tt.used)

			err := bt.Check(context.Background())
			if tt.wantErr && !errors.Is(err, domain.ErrEmbeddingQuotaExceeded) {
				t.Fatalf("expected ErrEmbeddingQuotaExceeded, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestBudgetTracker_Remaining(t *testing.T) {
	bt := NewBudgetTracker("test", 1000, 10000, BudgetActionWarn, zap.NewNop())
	bt.Record(300)

	if daily := bt.RemainingDaily(); daily != 700 {
		t.Errorf("expected daily remaining 700, got %d", daily)
	}
	if monthly := bt.RemainingMonthly(); monthly != 9700 {
		t.Errorf("expected monthly remaining 9700, got %d", monthly)
	}

	bt.Record(5000)
	if daily := bt.RemainingDaily(); daily != 0 {
		t.Errorf("expected daily remaining clamped to 0, got %d", daily)
	}
}

func TestBudgetTracker_RemainingUnlimited(t *testing.T) {
	bt := NewBudgetTracker("test", 0, 0, BudgetActionWarn, zap.NewNop())

	if daily := bt.RemainingDaily(); daily != -1 {
		t.Errorf("expected -1 for unlimited daily, got %d", daily)
	}
	if monthly := bt.RemainingMonthly(); monthly != -1 {
		t.Errorf("expected -1 for unlimited monthly, got %d", monthly)
	}
}

func TestBudgetTracker_DayRollover(t *testing.T) {
	now := time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC)
	bt := NewBudgetTracker("test", 100, 1000, BudgetActionReject, zap.NewNop()).
		withClock(func() time.Time { return now })

	bt.Record(100)
	if err := bt.Check(context.Background()); err == nil {
		t.Fatal("expected rejection before rollover")
	}

	now = now.Add(2 * time.Minute) // April 1st: both periods roll over
	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("expected budget reset after rollover, got %v", err)
	}
	snap := bt.Snapshot()
	if snap.DailyUsed != 0 || snap.MonthlyUsed != 0 {
		t.Errorf("expected counters reset, got %+v", snap)
	}
}

func TestBudgetTracker_DayRolloverKeepsMonth(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	bt := NewBudgetTracker("test", 100, 1000, BudgetActionReject, zap.NewNop()).
		withClock(func() time.Time { return now })

	bt.Record(80)
	now = now.Add(time.Hour)

	snap := bt.Snapshot()
	if snap.DailyUsed != 0 || snap.MonthlyUsed != 80 {
		t.Errorf("expected daily reset and monthly kept, got %+v", snap)
	}
}

func TestBudgetTracker_ConcurrentRecord(t *testing.T) {
	bt := NewBudgetTracker("test", 0, 0, BudgetActionWarn, zap.NewNop())

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bt.Record(2)
		}()
	}
	wg.Wait()

	if got := bt.Snapshot().DailyUsed; got != 100 {
		t.Errorf("expected 100 tokens, got %d", got)
	}
}
