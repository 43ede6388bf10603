package csvfile

import (
	"context"
	"fmt"
	"log"
	"sync"

	"techify-quiz/internal/domain"
)

// LeaderboardStore persists entries to a Name,Email,Score,Date CSV file.
type LeaderboardStore struct {
	path string
	mu   sync.Mutex
}

func NewLeaderboardStore(path string) *LeaderboardStore {
	return &LeaderboardStore{path: path}
}

func (s *LeaderboardStore) LoadAll(_ context.Context) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, unreadable, err := readRows(s.path, domain.LeaderboardHeader)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	for _, rowErr := range unreadable {
		log.Printf("leaderboard %s: %v", s.path, &rowErr)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := domain.ParseLeaderboardRow(row.fields)
		if err != nil {
			log.Printf("leaderboard %s: skipping line %d: %v", s.path, row.line, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *LeaderboardStore) Append(_ context.Context, entry domain.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, _, err := readRows(s.path, domain.LeaderboardHeader)
	if err != nil {
		return fmt.Errorf("leaderboard: %w", err)
	}
	return writeRows(s.path, domain.LeaderboardHeader, append(fieldsOf(rows), entry.Row()))
}
