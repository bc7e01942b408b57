package usage

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"", PeriodDay, false},
		{"day", PeriodDay, false},
		{"month", PeriodMonth, false},
		{"total", "", true},
		{"DAY", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePeriod(tt.in)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidRequest) {
					t.Fatalf("expected ErrInvalidRequest, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParsePeriod(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

func TestPeriodBounds(t *testing.T) {
	now := time.Date(2024, time.February, 29, 17, 30, 0, 0, time.UTC)

	start, end := PeriodDay.Bounds(now)
	if !start.Equal(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)) ||
		!end.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day bounds = %v..%v", start, end)
	}

	start, end = PeriodMonth.Bounds(now)
	if !start.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) ||
		!end.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month bounds = %v..%v", start, end)
	}
}

func TestReport_Remaining(t *testing.T) {
	tests := []struct {
		name          string
		used, limit   int64
		wantRemaining int64
		wantExhausted bool
	}{
		{"unlimited", 500, 0, -1, false},
		{"partial", 300, 1000, 700, false},
		{"exact", 1000, 1000, 0, true},
		{"over", 1200, 1000, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReport(PeriodDay, time.Time{}, time.Time{}, "nebius", tt.used, tt.limit)
			if r.TokensRemaining() != tt.wantRemaining {
				t.Errorf("TokensRemaining() = %d, want %d", r.TokensRemaining(), tt.wantRemaining)
			}
			if r.IsExhausted() != tt.wantExhausted {
				t.Errorf("IsExhausted() = %v, want %v", r.IsExhausted(), tt.wantExhausted)
			}
			if r.Provider() != "nebius" || r.TokensUsed() != tt.used {
				t.Errorf("unexpected report %+v", r)
			}
		})
	}
}
