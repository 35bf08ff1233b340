package db

import (
	"testing"

	"github.com/keystash/keystash/internal/capture"
	"github.com/keystash/keystash/internal/errors"
)

func TestInsert_AssignsIDAndTimestamp(t *testing.T) {
	store := newTestStore(t)

	c := capture.New("VSCode", "hello world", 0, 0)
	id, err := store.Insert(c)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if id != 1 || c.ID != 1 {
		t.Errorf("id = %d (c.ID = %d), want 1", id, c.ID)
	}
	if c.CreatedAt == 0 {
		t.Error("CreatedAt should be set")
	}
}

func TestInsert_KeepsIndexInSync(t *testing.T) {
	store := newTestStore(t)

	mustInsert(t, store, "VSCode", "first")
	mustInsert(t, store, "VSCode", "second")

	captures, err := store.CountCaptures()
	if err != nil {
		t.Fatalf("CountCaptures failed: %v", err)
	}
	entries, err := store.CountIndexEntries()
	if err != nil {
		t.Fatalf("CountIndexEntries failed: %v", err)
	}
	if captures != entries {
		t.Errorf("captures = %d, entries = %d, want equal", captures, entries)
	}
}

func TestGetByID(t *testing.T) {
	store := newTestStore(t)
	c := mustInsert(t, store, "Slack", "hey there")

	got, err := store.GetByID(c.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.AppName != "Slack" || got.Content != "hey there" {
		t.Errorf("got %+v, want Slack/hey there", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByID(999)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestRecent_OrderAndLimit(t *testing.T) {
	store := newTestStore(t)
	mustInsert(t, store, "A", "one")
	mustInsert(t, store, "B", "two")
	mustInsert(t, store, "C", "three")

	got, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// All inserts land within the same second; identifier order preserves
	// insertion order inside the tie.
	if got[0].ID > got[1].ID && got[0].CreatedAt == got[1].CreatedAt {
		t.Errorf("tie order = [%d, %d], want ascending ids", got[0].ID, got[1].ID)
	}
}

func TestRecent_Empty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestByApp(t *testing.T) {
	store := newTestStore(t)
	mustInsert(t, store, "VSCode", "code")
	mustInsert(t, store, "Terminal", "shell")
	mustInsert(t, store, "VSCode", "more code")

	got, err := store.ByApp("VSCode", 10)
	if err != nil {
		t.Fatalf("ByApp failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, c := range got {
		if c.AppName != "VSCode" {
			t.Errorf("AppName = %q, want VSCode", c.AppName)
		}
	}

	got, err = store.ByApp("NonexistentApp", 10)
	if err != nil {
		t.Fatalf("ByApp failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unknown app len = %d, want 0", len(got))
	}
}

func TestAllForExport_InsertionOrder(t *testing.T) {
	store := newTestStore(t)
	mustInsert(t, store, "A", "one")
	mustInsert(t, store, "B", "two")
	mustInsert(t, store, "A", "three")

	got, err := store.AllForExport(nil)
	if err != nil {
		t.Fatalf("AllForExport failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].ID <= got[i-1].ID {
			t.Errorf("ids not ascending: %d then %d", got[i-1].ID, got[i].ID)
		}
	}

	app := "A"
	got, err = store.AllForExport(&app)
	if err != nil {
		t.Fatalf("AllForExport filtered failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("filtered len = %d, want 2", len(got))
	}
}

func TestStats(t *testing.T) {
	store := newTestStore(t)
	mustInsert(t, store, "beta", "one two")
	mustInsert(t, store, "beta", "three")
	mustInsert(t, store, "alpha", "four five six")
	mustInsert(t, store, "alpha", "seven")
	mustInsert(t, store, "gamma", "eight")

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.TotalCaptures != 5 {
		t.Errorf("TotalCaptures = %d, want 5", stats.TotalCaptures)
	}
	if stats.UniqueApps != 3 {
		t.Errorf("UniqueApps = %d, want 3", stats.UniqueApps)
	}
	if stats.TotalWords != 8 {
		t.Errorf("TotalWords = %d, want 8", stats.TotalWords)
	}

	// Count ties break alphabetically.
	if len(stats.TopApps) != 3 {
		t.Fatalf("TopApps len = %d, want 3", len(stats.TopApps))
	}
	if stats.TopApps[0].AppName != "alpha" || stats.TopApps[1].AppName != "beta" {
		t.Errorf("TopApps = %v, want alpha before beta", stats.TopApps)
	}
	if stats.TopApps[2].AppName != "gamma" || stats.TopApps[2].Captures != 1 {
		t.Errorf("TopApps[2] = %v, want gamma with 1", stats.TopApps[2])
	}
}

func TestStats_Empty(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalCaptures != 0 || stats.TotalChars != 0 || len(stats.TopApps) != 0 {
		t.Errorf("empty store stats = %+v, want zeroes", stats)
	}
}

func TestAppCounts(t *testing.T) {
	store := newTestStore(t)
	mustInsert(t, store, "VSCode", "a")
	mustInsert(t, store, "VSCode", "b")
	mustInsert(t, store, "Terminal", "c")

	counts, err := store.AppCounts()
	if err != nil {
		t.Fatalf("AppCounts failed: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("len = %d, want 2", len(counts))
	}
	if counts[0].AppName != "VSCode" || counts[0].Captures != 2 {
		t.Errorf("counts[0] = %+v, want VSCode with 2", counts[0])
	}
}

func TestBatchID_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	batch := "01ARZ3NDEKTSV4RRFFQ69G5FAV"
	c := capture.New("VSCode", "batched", 0, 0)
	c.BatchID = &batch
	if _, err := store.Insert(c); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(c.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.BatchID == nil || *got.BatchID != batch {
		t.Errorf("BatchID = %v, want %q", got.BatchID, batch)
	}

	// And nil stays nil.
	c2 := mustInsert(t, store, "VSCode", "unbatched")
	got2, err := store.GetByID(c2.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got2.BatchID != nil {
		t.Errorf("BatchID = %v, want nil", got2.BatchID)
	}
}
