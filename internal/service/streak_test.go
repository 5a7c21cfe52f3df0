package service

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvanceStreak(t *testing.T) {
	today := date(2025, time.March, 10)

	tests := []struct {
		name    string
		streak  int
		last    *time.Time
		now     time.Time
		want    int
	}{
		{
			name:   "first ever study",
			streak: 0,
			last:   nil,
			now:    today,
			want:   1,
		},
		{
			name:   "repeat on the same day",
			streak: 4,
			last:   ptr(date(2025, time.March, 10)),
			now:    today,
			want:   4,
		},
		{
			name:   "consecutive day extends streak",
			streak: 4,
			last:   ptr(date(2025, time.March, 9)),
			now:    today,
			want:   5,
		},
		{
			name:   "two day gap resets to one",
			streak: 4,
			last:   ptr(date(2025, time.March, 8)),
			now:    today,
			want:   1,
		},
		{
			name:   "long gap resets to one",
			streak: 30,
			last:   ptr(date(2025, time.January, 1)),
			now:    today,
			want:   1,
		},
		{
			name:   "time of day is ignored",
			streak: 2,
			last:   ptr(time.Date(2025, time.March, 9, 23, 59, 0, 0, time.UTC)),
			now:    time.Date(2025, time.March, 10, 0, 1, 0, 0, time.UTC),
			want:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdvanceStreak(tt.streak, tt.last, tt.now)
			if got != tt.want {
				t.Errorf("AdvanceStreak(%d, %v, %v) = %d, want %d", tt.streak, tt.last, tt.now, got, tt.want)
			}
		})
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2025, time.July, 4, 18, 30, 45, 123, time.UTC)
	got := DateOnly(in)
	want := date(2025, time.July, 4)
	if !got.Equal(want) {
		t.Errorf("DateOnly(%v) = %v, want %v", in, got, want)
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}
