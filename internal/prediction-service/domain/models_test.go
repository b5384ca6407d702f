package domain

import (
	"testing"
	"time"
)

func TestOutcome(t *testing.T) {
	cases := []struct{ home, away, want int }{
		{2, 1, 1},
		{1, 2, -1},
		{1, 1, 0},
		{0, 0, 0},
		{7, 0, 1},
		{0, 3, -1},
	}
	for _, tc := range cases {
		if got := Outcome(tc.home, tc.away); got != tc.want {
			t.Fatalf("Outcome(%d,%d) = %d, want %d", tc.home, tc.away, got, tc.want)
		}
	}
}

func TestOutcomeIsSignOfDifference(t *testing.T) {
	for h := 0; h <= 10; h++ {
		for a := 0; a <= 10; a++ {
			got := Outcome(h, a)
			d := h - a
			if (d > 0 && got != 1) || (d < 0 && got != -1) || (d == 0 && got != 0) {
				t.Fatalf("Outcome(%d,%d) = %d", h, a, got)
			}
		}
	}
}

func TestActivationValidAt(t *testing.T) {
	now := time.Date(2025, 1, 1, 16, 30, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	cases := []struct {
		name string
		a    BoosterActivation
		want bool
	}{
		{"no expiry", BoosterActivation{Status: StatusActive}, true},
		{"future expiry", BoosterActivation{Status: StatusActive, ExpiresAt: &future}, true},
		{"past expiry", BoosterActivation{Status: StatusActive, ExpiresAt: &past}, false},
		{"expiry equals now", BoosterActivation{Status: StatusActive, ExpiresAt: &now}, false},
		{"expired status", BoosterActivation{Status: StatusExpired}, false},
	}
	for _, tc := range cases {
		if got := tc.a.ValidAt(now); got != tc.want {
			t.Fatalf("%s: ValidAt = %v, want %v", tc.name, got, tc.want)
		}
	}
}
