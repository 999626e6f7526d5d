package internal

import (
	"sync"
	"testing"
)

func TestHistory_Views(t *testing.T) {
	h := NewHistory([]Transaction{
		mkTx("Netflix", "-15.99", "2024-03-01"),
		mkTx("NETFLIX", "15.99", "2024-01-01"),
		mkTx("Hulu", "7.99", "2024-02-01"),
	})

	sorted := h.Sorted()
	if sorted[0].Date != date("2024-01-01") || sorted[2].Date != date("2024-03-01") {
		t.Errorf("unexpected order: %v", sorted)
	}
	if gaps := h.Gaps(); len(gaps) != 2 || gaps[0] != 31 || gaps[1] != 29 {
		t.Errorf("expected gaps [31 29], got %v", gaps)
	}
	if amounts := h.Amounts(); amounts[0] != 15.99 || amounts[2] != 15.99 {
		t.Errorf("expected absolute amounts in date order, got %v", amounts)
	}
	if n := h.NameCount("netflix"); n != 2 {
		t.Errorf("expected 2 netflix transactions, got %d", n)
	}
	if n := h.DistinctNames(); n != 2 {
		t.Errorf("expected 2 distinct names, got %d", n)
	}
	if n := h.NameUsers("Hulu"); n != 1 {
		t.Errorf("expected 1 hulu user, got %d", n)
	}
}

func TestHistory_Recent(t *testing.T) {
	h := NewHistory([]Transaction{
		mkTx("A", "1", "2024-04-01"),
		mkTx("B", "1", "2024-01-01"),
		mkTx("C", "1", "2024-03-01"),
		mkTx("D", "1", "2024-02-01"),
	})

	recent := h.Recent(2)
	if len(recent) != 2 || recent[0].Name != "C" || recent[1].Name != "A" {
		t.Errorf("expected [C A], got %v", recent)
	}
	if all := h.Recent(10); len(all) != 4 {
		t.Errorf("expected all 4, got %d", len(all))
	}
}

func TestHistory_Nil(t *testing.T) {
	var h *History
	if h.Len() != 0 || h.Gaps() != nil || h.NameCount("x") != 0 || len(h.Recent(5)) != 0 {
		t.Error("nil history should behave as empty")
	}
}

func TestHistory_ConcurrentReaders(t *testing.T) {
	h := NewHistory(scenarioHistory())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Gaps()
			_ = h.NameCount("gym")
		}()
	}
	wg.Wait()
	if len(h.Gaps()) != 6 {
		t.Errorf("expected 6 gaps, got %d", len(h.Gaps()))
	}
}
