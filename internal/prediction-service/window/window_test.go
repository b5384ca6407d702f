package window

import (
	"testing"
	"time"

	"github.com/radieske/bolao-predictions/internal/prediction-service/domain"
)

var kickoff = time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		name     string
		offset   time.Duration // relativo ao início
		existing bool
		want     State
	}{
		{"T-61 insert", -61 * time.Minute, false, StateOpen},
		{"T-61 update", -61 * time.Minute, true, StateOpen},
		{"just before T-60", -60*time.Minute - time.Nanosecond, false, StateOpen},
		{"T-60 insert", -60 * time.Minute, false, StateExtendedInsertNeedsBooster},
		{"T-60 update", -60 * time.Minute, true, StateExtendedUpdateNeedsBooster},
		{"T-90 insert", -90 * time.Minute, false, StateOpen},
		{"T-16 insert", -16 * time.Minute, false, StateExtendedInsertNeedsBooster},
		{"just before T-15 update", -15*time.Minute - time.Nanosecond, true, StateExtendedUpdateNeedsBooster},
		{"T-15 insert", -15 * time.Minute, false, StateClosed},
		{"T-15 update", -15 * time.Minute, true, StateLateNeedsBooster},
		{"T-1s update", -time.Second, true, StateLateNeedsBooster},
		{"T insert", 0, false, StateClosed},
		{"T update", 0, true, StateClosed},
		{"T+1h update", time.Hour, true, StateClosed},
	}
	for _, tc := range cases {
		got := Classify(kickoff.Add(tc.offset), kickoff, tc.existing)
		if got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestPhaseAt(t *testing.T) {
	cases := []struct {
		offset time.Duration
		want   Phase
	}{
		{-2 * time.Hour, PhaseOpen},
		{-60 * time.Minute, PhaseExtended},
		{-15 * time.Minute, PhaseLate},
		{0, PhaseClosed},
		{time.Minute, PhaseClosed},
	}
	for _, tc := range cases {
		if got := PhaseAt(kickoff.Add(tc.offset), kickoff); got != tc.want {
			t.Fatalf("PhaseAt(T%+v) = %s, want %s", tc.offset, got, tc.want)
		}
	}
}

func TestRequiredBooster(t *testing.T) {
	cases := []struct {
		state State
		want  domain.BoosterKind
		ok    bool
	}{
		{StateOpen, "", false},
		{StateExtendedInsertNeedsBooster, domain.BoosterOEsquecido, true},
		{StateExtendedUpdateNeedsBooster, domain.BoosterSegundaChance, true},
		{StateLateNeedsBooster, domain.BoosterSegundaChance, true},
		{StateClosed, "", false},
	}
	for _, tc := range cases {
		got, ok := tc.state.RequiredBooster()
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%s: got (%q,%v), want (%q,%v)", tc.state, got, ok, tc.want, tc.ok)
		}
	}
}

func TestClassifyIgnoresTimezone(t *testing.T) {
	sp := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2025, 1, 1, 14, 30, 0, 0, sp) // 17:30Z
	if got := Classify(now, kickoff, false); got != StateExtendedInsertNeedsBooster {
		t.Fatalf("expected extended insert, got %s", got)
	}
}
