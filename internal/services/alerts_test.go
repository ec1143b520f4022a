package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"sentinel/internal/models"
)

func TestAlertStoreNewestFirstAndBounded(t *testing.T) {
	s := NewAlertStore(AlertCapacity)
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)

	for i := 1; i <= AlertCapacity+1; i++ {
		s.Add(models.NewAlert(fmt.Sprintf("alert %d", i), models.AlertInfo, base.Add(time.Duration(i)*time.Second)))
	}

	got := s.Recent()
	if len(got) != AlertCapacity {
		t.Fatalf("len = %d, want %d", len(got), AlertCapacity)
	}
	if got[0].Message != "alert 11" {
		t.Fatalf("newest = %q, want alert 11", got[0].Message)
	}
	if got[len(got)-1].Message != "alert 2" {
		t.Fatalf("oldest = %q, want alert 2 (alert 1 evicted)", got[len(got)-1].Message)
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].RaisedAt.After(got[i].RaisedAt) {
			t.Fatalf("not newest first at %d: %v then %v", i, got[i-1].RaisedAt, got[i].RaisedAt)
		}
	}
}

func TestAlertStoreRecentIsCopy(t *testing.T) {
	s := NewAlertStore(3)
	s.Add(models.Alert{Message: "a"})

	got := s.Recent()
	got[0].Message = "changed"

	if s.Recent()[0].Message != "a" {
		t.Fatal("Recent shares storage with the store")
	}
}

func TestAlertStoreDefaultsCapacity(t *testing.T) {
	s := NewAlertStore(0)
	for i := 0; i < AlertCapacity*2; i++ {
		s.Add(models.Alert{Message: "x"})
	}
	if s.Len() != AlertCapacity {
		t.Fatalf("len = %d, want %d", s.Len(), AlertCapacity)
	}
}

func TestAlertStoreConcurrentAdd(t *testing.T) {
	s := NewAlertStore(AlertCapacity)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(models.Alert{Message: "observer"})
			_ = s.Recent()
		}()
	}
	wg.Wait()

	if s.Len() != AlertCapacity {
		t.Fatalf("len = %d, want %d", s.Len(), AlertCapacity)
	}
}
