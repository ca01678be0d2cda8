package store

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Adi9876/LP-pancakeswap/internal/invest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "history.db"), filepath.Join(dir, "history.lock"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	nft := "42"
	run := NewRun(invest.Result{
		Success:         true,
		Steps:           []string{"Swapping...", "Adding liquidity..."},
		SwapTxHash:      "0x01",
		LiquidityTxHash: "0x02",
		NFTTokenID:      &nft,
		ChainID:         56,
	})
	if run.Status != "completed" {
		t.Fatalf("unexpected status: %q", run.Status)
	}
	if err := s.Save(run); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Get(run.RunID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RunID != run.RunID || got.ChainID != 56 {
		t.Fatalf("unexpected run: %+v", got)
	}
	if got.Result.NFTTokenID == nil || *got.Result.NFTTokenID != "42" {
		t.Fatalf("nft id lost in round trip: %v", got.Result.NFTTokenID)
	}
	if len(got.Result.Steps) != 2 {
		t.Fatalf("step log lost in round trip: %v", got.Result.Steps)
	}
}

func TestSaveUpsertsByRunID(t *testing.T) {
	s := openTestStore(t)

	run := NewRun(invest.Result{Success: false, Error: "quote failed", ChainID: 56})
	if run.Status != "failed" {
		t.Fatalf("unexpected status: %q", run.Status)
	}
	if err := s.Save(run); err != nil {
		t.Fatalf("save: %v", err)
	}
	run.Status = "completed"
	if err := s.Save(run); err != nil {
		t.Fatalf("second save: %v", err)
	}

	runs, err := s.List(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run after upsert, got %d", len(runs))
	}
	if runs[0].Status != "completed" {
		t.Fatalf("unexpected status after upsert: %q", runs[0].Status)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := NewRun(invest.Result{ChainID: 56})
		run.RunID = []string{"run_a", "run_b", "run_c"}[i]
		run.CreatedAt = base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339)
		if err := s.Save(run); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	runs, err := s.List(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run_c" || runs[1].RunID != "run_b" {
		t.Fatalf("unexpected order: %s, %s", runs[0].RunID, runs[1].RunID)
	}
}

func TestGetMissingRun(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get("run_missing"); err == nil {
		t.Fatal("expected an error for a missing run")
	}
}

func TestSaveRejectsEmptyRunID(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save(Run{}); err == nil {
		t.Fatal("expected an error for an empty run id")
	}
}

func TestNewRunIDShape(t *testing.T) {
	id := NewRunID()
	if !strings.HasPrefix(id, "run_") || len(id) != len("run_")+32 {
		t.Fatalf("unexpected run id shape: %q", id)
	}
	if id == NewRunID() {
		t.Fatal("run ids must be unique")
	}
}
