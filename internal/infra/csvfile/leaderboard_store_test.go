package csvfile

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"techify-quiz/internal/domain"
)

func TestLeaderboardAppendThenLoad(t *testing.T) {
	store := NewLeaderboardStore(filepath.Join(t.TempDir(), "leaderboard.csv"))
	ctx := context.Background()

	entries, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty leaderboard, got %d", len(entries))
	}

	base := time.Date(2026, 10, 14, 8, 0, 0, 0, time.Local)
	const n = 4
	for i := 0; i < n; i++ {
		entry := domain.LeaderboardEntry{
			Name:      fmt.Sprintf("Player %d", i),
			Email:     fmt.Sprintf("p%d@example.com", i),
			Score:     i,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Append(ctx, entry); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	entries, err = store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != n {
		t.Fatalf("expected %d entries, got %d", n, len(entries))
	}
	for i, e := range entries {
		if e.Name != fmt.Sprintf("Player %d", i) || e.Score != i || !e.Timestamp.Equal(base.Add(time.Duration(i)*time.Minute)) {
			t.Fatalf("entry %d mismatch: %+v", i, e)
		}
	}
}
