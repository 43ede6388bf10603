package app

import (
	"sync"

	"techify-quiz/internal/domain"
)

// leaderboardFeed fans leaderboard snapshots out to live subscribers.
type leaderboardFeed struct {
	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func newLeaderboardFeed() *leaderboardFeed {
	return &leaderboardFeed{subscribers: make(map[chan domain.Leaderboard]struct{})}
}

func (f *leaderboardFeed) subscribe(initial domain.Leaderboard) (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)
	ch <- initial

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *leaderboardFeed) publish(lb domain.Leaderboard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- lb:
		default:
			// Slow reader: drop its oldest snapshot so it ends on the newest.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
