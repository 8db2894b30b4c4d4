package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"tutor-match/internal/domain"
)

func sampleResults() []domain.MatchResult {
	return []domain.MatchResult{
		{TutorID: "t1", TutorName: "Ana", LessonPrice: 800, CompatibilityScore: 92.5, Reasoning: "r", SubjectExplanation: "s"},
		{TutorID: "t2", TutorName: "Luis", LessonPrice: 600, CompatibilityScore: 71.0},
	}
}

func TestMemoryMatchCache_RoundTripAndTTL(t *testing.T) {
	cache := NewMemoryMatchCache().(*memoryMatchCache)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	results := sampleResults()

	if err := cache.Put(ctx, "fp1", results, time.Hour); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}

	got, hit, err := cache.Get(ctx, "fp1")
	if err != nil || !hit {
		t.Fatalf("expected hit within ttl, hit=%v err=%v", hit, err)
	}
	if len(got) != 2 || got[0] != results[0] || got[1] != results[1] {
		t.Fatalf("expected stored results back, got %+v", got)
	}

	// Pasada la hora, la entrada expirada se trata como ausente.
	now = now.Add(time.Hour + time.Second)
	if _, hit, _ := cache.Get(ctx, "fp1"); hit {
		t.Fatalf("expected miss after ttl elapsed")
	}
}

func TestMemoryMatchCache_MissAndIsolation(t *testing.T) {
	cache := NewMemoryMatchCache()
	ctx := context.Background()

	if _, hit, _ := cache.Get(ctx, "unknown"); hit {
		t.Fatalf("expected miss for unknown fingerprint")
	}

	results := sampleResults()
	if err := cache.Put(ctx, "fp", results, time.Hour); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}

	got, _, _ := cache.Get(ctx, "fp")
	got[0].TutorName = "mutated"

	again, _, _ := cache.Get(ctx, "fp")
	if again[0].TutorName != "Ana" {
		t.Fatalf("expected cached entry isolated from caller mutation")
	}
}

func TestMemoryMatchCache_ConcurrentWriters(t *testing.T) {
	cache := NewMemoryMatchCache()
	ctx := context.Background()
	results := sampleResults()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cache.Put(ctx, "fp", results, time.Hour)
			_, _, _ = cache.Get(ctx, "fp")
		}()
	}
	wg.Wait()

	got, hit, err := cache.Get(ctx, "fp")
	if err != nil || !hit || len(got) != 2 {
		t.Fatalf("expected complete entry after concurrent writes, hit=%v err=%v got=%+v", hit, err, got)
	}
}
