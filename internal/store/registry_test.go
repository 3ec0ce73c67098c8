package store

import (
	"sync"
	"testing"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestNewRegistryKeepsSeedOrder(t *testing.T) {
	seed := Seed()
	r := NewRegistry(seed)

	got := r.List()
	if len(got) != len(seed) {
		t.Fatalf("expected %d entries, got %d", len(seed), len(got))
	}
	for i := range seed {
		if got[i].ID != seed[i].ID {
			t.Fatalf("entry %d: expected %q, got %q", i, seed[i].ID, got[i].ID)
		}
	}
}

func TestFindByQueryIgnoresCaseAndSpace(t *testing.T) {
	r := NewRegistry(Seed())

	loc, ok := r.FindByQuery("  new york ")
	if !ok || loc.ID != "New York" {
		t.Fatalf("expected New York, got %+v (%v)", loc, ok)
	}
	if _, ok := r.FindByQuery(""); ok {
		t.Fatalf("empty query must not match")
	}
	if _, ok := r.FindByQuery("Київ"); ok {
		t.Fatalf("display names are not queries")
	}
}

func TestInsertFront(t *testing.T) {
	r := NewRegistry(Seed())
	rivne := weather.Location{ID: "50.62,26.25", DisplayName: "Rivne", Country: "Ukraine", Query: "50.62,26.25"}

	got, inserted := r.InsertFront(rivne)
	if !inserted || got != rivne {
		t.Fatalf("expected insert, got %+v (%v)", got, inserted)
	}
	if first := r.List()[0]; first.ID != rivne.ID {
		t.Fatalf("expected new entry first, got %q", first.ID)
	}

	dup := weather.Location{ID: "other", DisplayName: "Рівне", Query: "50.62,26.25"}
	got, inserted = r.InsertFront(dup)
	if inserted || got != rivne {
		t.Fatalf("expected existing entry for duplicate query, got %+v (%v)", got, inserted)
	}

	sameID := weather.Location{ID: "Kyiv", Query: "50.45,30.52"}
	got, inserted = r.InsertFront(sameID)
	if inserted || got.Query != "Kyiv" {
		t.Fatalf("expected existing entry for duplicate id, got %+v (%v)", got, inserted)
	}

	if n := len(r.List()); n != len(Seed())+1 {
		t.Fatalf("expected %d entries, got %d", len(Seed())+1, n)
	}
}

func TestInsertFrontPureLeavesInputAlone(t *testing.T) {
	in := Seed()
	out, ok := InsertFront(in, weather.Location{ID: "x", Query: "x"})
	if !ok || len(out) != len(in)+1 || out[0].ID != "x" {
		t.Fatalf("unexpected result %+v", out)
	}
	if in[0].ID != "Kyiv" {
		t.Fatalf("input slice was modified")
	}

	same, ok := InsertFront(in, weather.Location{ID: "y", Query: "TOKYO"})
	if ok || len(same) != len(in) {
		t.Fatalf("expected duplicate to be rejected")
	}
}

func TestListReturnsCopy(t *testing.T) {
	r := NewRegistry(Seed())

	list := r.List()
	list[0].ID = "mutated"
	if r.List()[0].ID != "Kyiv" {
		t.Fatalf("List exposed internal storage")
	}
}

func TestConcurrentInsertsKeepOneEntryPerQuery(t *testing.T) {
	r := NewRegistry(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.InsertFront(weather.Location{ID: "1,2", Query: "1,2"})
		}()
	}
	wg.Wait()

	if n := len(r.List()); n != 1 {
		t.Fatalf("expected 1 entry, got %d", n)
	}
}

func TestInsertFrontMatchesResolvedCoords(t *testing.T) {
	r := NewRegistry(Seed())
	alias := weather.Location{ID: "50.45,30.52", DisplayName: "Київ", Query: "50.45,30.52", Coords: "50.45,30.52"}

	// Before Kyiv was ever fetched its coordinates are unknown.
	r2 := NewRegistry(Seed())
	if _, inserted := r2.InsertFront(alias); !inserted {
		t.Fatalf("expected insert while the seed is unresolved")
	}

	r.Resolve("Kyiv", "50.45,30.52")
	got, inserted := r.InsertFront(alias)
	if inserted || got.ID != "Kyiv" {
		t.Fatalf("expected the resolved seed entry, got %+v (%v)", got, inserted)
	}
	if n := len(r.List()); n != len(Seed()) {
		t.Fatalf("expected no new entry, got %d", n)
	}

	r.Resolve("nope", "1,1")
	for _, l := range r.List() {
		if l.Coords == "1,1" {
			t.Fatalf("unknown id must be ignored")
		}
	}
}
