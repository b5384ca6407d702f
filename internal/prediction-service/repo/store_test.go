package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/radieske/bolao-predictions/internal/prediction-service/domain"
	"github.com/radieske/bolao-predictions/internal/prediction-service/repotest"
	"github.com/radieske/bolao-predictions/internal/prediction-service/submission"
)

var kickoff = time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC)

func TestResolvePool(t *testing.T) {
	d := repotest.New(t)
	d.Pool("P1", "AMIGOS", "u1")
	ctx := context.Background()

	cases := []struct {
		user, ref string
		want      domain.PoolMatchKind
	}{
		{"u1", "P1", domain.PoolByID},
		{"u1", "AMIGOS", domain.PoolByCode},
		{"u1", "nope", domain.PoolNotFound},
		{"u1", "", domain.PoolNotFound},
		{"u2", "P1", domain.PoolNotFound},     // não é membro
		{"u2", "AMIGOS", domain.PoolNotFound}, // não é membro
	}
	for _, tc := range cases {
		res, err := d.Store.ResolvePool(ctx, tc.user, tc.ref)
		if err != nil {
			t.Fatalf("resolve %s/%s: %v", tc.user, tc.ref, err)
		}
		if res.Kind != tc.want {
			t.Fatalf("resolve %s/%s: got %s, want %s", tc.user, tc.ref, res.Kind, tc.want)
		}
		if res.Found() && res.Pool.ID != "P1" {
			t.Fatalf("expected canonical id P1, got %q", res.Pool.ID)
		}
	}
}

func TestLoadMatch(t *testing.T) {
	d := repotest.New(t)
	d.Pool("P1", "AMIGOS", "u1")
	d.Pool("P2", "OUTRO", "u1")
	d.Match("M1", "P1", kickoff)
	d.Match("M2", "P1", time.Time{})
	ctx := context.Background()

	m, err := d.Store.LoadMatch(ctx, "P1", "M1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !m.StartTime.Equal(kickoff) {
		t.Fatalf("expected start %s, got %s", kickoff, m.StartTime)
	}

	if _, err := d.Store.LoadMatch(ctx, "P2", "M1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cross-pool lookup should be not found, got %v", err)
	}
	if _, err := d.Store.LoadMatch(ctx, "P1", "M9"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	m2, err := d.Store.LoadMatch(ctx, "P1", "M2")
	if err != nil {
		t.Fatalf("load null start: %v", err)
	}
	if !m2.StartTime.IsZero() {
		t.Fatalf("expected zero start time, got %s", m2.StartTime)
	}
}

func TestUpsertPredictionKeepsSingleRow(t *testing.T) {
	d := repotest.New(t)
	d.Pool("P1", "AMIGOS", "u1")
	d.Match("M1", "P1", kickoff)
	ctx := context.Background()

	for _, p := range []struct{ h, a int }{{2, 0}, {1, 3}} {
		err := d.Store.InTx(ctx, func(tx submission.Tx) error {
			return tx.UpsertPrediction(ctx, domain.Prediction{
				MatchID: "M1", UserID: "u1", HomePred: p.h, AwayPred: p.a,
				Outcome: domain.Outcome(p.h, p.a), Market: domain.MarketOneXTwo,
				Status: domain.StatusActive, UpdatedAt: kickoff.Add(-2 * time.Hour),
			})
		})
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	if n := d.Count("predictions", "match_id = ? AND user_id = ?", "M1", "u1"); n != 1 {
		t.Fatalf("expected 1 prediction row, got %d", n)
	}
	got, err := d.Store.GetPrediction(ctx, "M1", "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.HomePred != 1 || got.AwayPred != 3 || got.Outcome != -1 || got.Status != domain.StatusActive {
		t.Fatalf("unexpected prediction %+v", got)
	}
	has, err := d.Store.HasActivePrediction(ctx, "M1", "u1")
	if err != nil || !has {
		t.Fatalf("expected active prediction, has=%v err=%v", has, err)
	}
}

func TestExpireActivationIsSingleUse(t *testing.T) {
	d := repotest.New(t)
	id := d.Activation(domain.BoosterActivation{UserID: "u1", BoosterID: domain.BoosterOEsquecido, MatchID: "M1"})
	ctx := context.Background()

	var first, second bool
	err := d.Store.InTx(ctx, func(tx submission.Tx) error {
		var err error
		first, err = tx.ExpireActivation(ctx, id, "M1")
		return err
	})
	if err != nil {
		t.Fatalf("first expire: %v", err)
	}
	err = d.Store.InTx(ctx, func(tx submission.Tx) error {
		var err error
		second, err = tx.ExpireActivation(ctx, id, "M1")
		return err
	})
	if err != nil {
		t.Fatalf("second expire: %v", err)
	}
	if !first || second {
		t.Fatalf("expected (true,false), got (%v,%v)", first, second)
	}

	a, err := d.Store.GetActivation(ctx, id)
	if err != nil {
		t.Fatalf("get activation: %v", err)
	}
	if a.Status != domain.StatusExpired {
		t.Fatalf("expected expired, got %s", a.Status)
	}
}

func TestExpireActivationRequiresSameMatch(t *testing.T) {
	d := repotest.New(t)
	id := d.Activation(domain.BoosterActivation{UserID: "u1", BoosterID: domain.BoosterOEsquecido, MatchID: "M1"})
	ctx := context.Background()

	var ok bool
	_ = d.Store.InTx(ctx, func(tx submission.Tx) error {
		var err error
		ok, err = tx.ExpireActivation(ctx, id, "M2")
		return err
	})
	if ok {
		t.Fatalf("activation for M1 must not be expired through M2")
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	d := repotest.New(t)
	d.Pool("P1", "AMIGOS", "u1")
	d.Match("M1", "P1", kickoff)
	ctx := context.Background()
	boom := errors.New("boom")

	err := d.Store.InTx(ctx, func(tx submission.Tx) error {
		if err := tx.UpsertPrediction(ctx, domain.Prediction{
			MatchID: "M1", UserID: "u1", HomePred: 1, AwayPred: 0, Outcome: 1,
			Market: domain.MarketOneXTwo, Status: domain.StatusActive, UpdatedAt: kickoff,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n := d.Count("predictions", ""); n != 0 {
		t.Fatalf("expected rollback, found %d rows", n)
	}
}

func TestListActivations(t *testing.T) {
	d := repotest.New(t)
	past := kickoff.Add(-time.Hour)
	d.Activation(domain.BoosterActivation{ID: "a1", UserID: "u1", BoosterID: domain.BoosterOEsquecido, MatchID: "M1", CreatedAt: past})
	d.Activation(domain.BoosterActivation{ID: "a2", UserID: "u1", BoosterID: domain.BoosterOEsquecido, PoolID: "P1", ExpiresAt: &past, CreatedAt: past.Add(time.Second)})
	d.Activation(domain.BoosterActivation{ID: "a3", UserID: "u1", BoosterID: domain.BoosterSegundaChance})
	d.Activation(domain.BoosterActivation{ID: "a4", UserID: "u1", BoosterID: domain.BoosterOEsquecido, Status: domain.StatusExpired})
	d.Activation(domain.BoosterActivation{ID: "a5", UserID: "u2", BoosterID: domain.BoosterOEsquecido})

	list, err := d.Store.ListActivations(context.Background(), "u1", domain.BoosterOEsquecido)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a1" || list[1].ID != "a2" {
		t.Fatalf("unexpected activations %+v", list)
	}
	if list[0].Scope != domain.ScopeMatch || list[0].MatchID != "M1" || list[0].ExpiresAt != nil {
		t.Fatalf("unexpected match-scoped activation %+v", list[0])
	}
	if list[1].Scope != domain.ScopeGlobal || list[1].PoolID != "P1" || list[1].ExpiresAt == nil || !list[1].ExpiresAt.Equal(past) {
		t.Fatalf("unexpected global activation %+v", list[1])
	}
}

func TestIdempotencyRecords(t *testing.T) {
	d := repotest.New(t)
	ctx := context.Background()
	now := kickoff.Add(-3 * time.Hour)

	rec := domain.IdempotencyRecord{
		UserID: "u1", Key: "k1", RequestHash: "h1",
		ResponseStatus: 200, ResponseBody: []byte(`{"ok":true,"outcome":1}`),
		ExpiresAt: now.Add(24 * time.Hour), CreatedAt: now,
	}
	if err := d.Store.SaveIdempotency(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, found, err := d.Store.GetIdempotency(ctx, "u1", "k1", now)
	if err != nil || !found {
		t.Fatalf("expected record, found=%v err=%v", found, err)
	}
	if got.RequestHash != "h1" || string(got.ResponseBody) != string(rec.ResponseBody) || got.ResponseStatus != 200 {
		t.Fatalf("unexpected record %+v", got)
	}

	if _, found, _ := d.Store.GetIdempotency(ctx, "u1", "k1", now.Add(25*time.Hour)); found {
		t.Fatalf("expired record should not be found")
	}

	// regravar sobre o mesmo (user,key) não duplica
	rec.RequestHash = "h2"
	if err := d.Store.SaveIdempotency(ctx, rec); err != nil {
		t.Fatalf("resave: %v", err)
	}
	if n := d.Count("idempotency_keys", ""); n != 1 {
		t.Fatalf("expected 1 idempotency row, got %d", n)
	}

	purged, err := d.Store.PurgeExpiredIdempotency(ctx, now.Add(25*time.Hour))
	if err != nil || purged != 1 {
		t.Fatalf("expected 1 purged row, got %d err=%v", purged, err)
	}
}
