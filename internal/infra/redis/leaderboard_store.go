package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"techify-quiz/internal/domain"
)

// LeaderboardStore keeps entries as JSON values in a Redis list; RPUSH keeps
// append order and LRANGE returns it unchanged.
type LeaderboardStore struct {
	client *redis.Client
	key    string
}

func NewLeaderboardStore(client *redis.Client) *LeaderboardStore {
	return &LeaderboardStore{client: client, key: "quiz:leaderboard"}
}

func (s *LeaderboardStore) LoadAll(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	raw, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(raw))
	for _, item := range raw {
		var entry domain.LeaderboardEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("decode leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *LeaderboardStore) Append(ctx context.Context, entry domain.LeaderboardEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode leaderboard entry: %w", err)
	}
	return s.client.RPush(ctx, s.key, raw).Err()
}
