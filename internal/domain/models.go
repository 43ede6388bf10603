package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the on-disk format of leaderboard dates.
const TimestampLayout = "2006-01-02 15:04:05"

// LeaderboardHeader is the required header row of a leaderboard source.
var LeaderboardHeader = []string{"Name", "Email", "Score", "Date"}

// Identity is the free-text label a user logs in with. Email is not verified.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate requires both fields to be non-blank.
func (i Identity) Validate() error {
	if strings.TrimSpace(i.Name) == "" || strings.TrimSpace(i.Email) == "" {
		return ErrMissingIdentity
	}
	return nil
}

// Score is the outcome of a quiz attempt.
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

func (s Score) String() string {
	return fmt.Sprintf("%d/%d", s.Correct, s.Total)
}

// LeaderboardEntry is one submitted score. Entries are append-only.
type LeaderboardEntry struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// Row encodes e in leaderboard column order.
func (e LeaderboardEntry) Row() []string {
	return []string{e.Name, e.Email, strconv.Itoa(e.Score), e.Timestamp.Format(TimestampLayout)}
}

// ParseLeaderboardRow decodes a Name,Email,Score,Date row.
func ParseLeaderboardRow(row []string) (LeaderboardEntry, error) {
	if len(row) != len(LeaderboardHeader) {
		return LeaderboardEntry{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRow, len(LeaderboardHeader), len(row))
	}
	score, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return LeaderboardEntry{}, fmt.Errorf("%w: score: %v", ErrMalformedRow, err)
	}
	ts, err := time.ParseInLocation(TimestampLayout, row[3], time.Local)
	if err != nil {
		return LeaderboardEntry{}, fmt.Errorf("%w: date: %v", ErrMalformedRow, err)
	}
	return LeaderboardEntry{Name: row[0], Email: row[1], Score: score, Timestamp: ts}, nil
}

// Leaderboard is the ordered view presented to users.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
