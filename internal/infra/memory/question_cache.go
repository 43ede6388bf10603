package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"techify-quiz/internal/app"
	"techify-quiz/internal/domain"
)

// CachedQuestionRepository caches the question list with a TTL to avoid
// re-reading the source on every quiz start. Appends invalidate the cache.
type CachedQuestionRepository struct {
	next  app.QuestionRepository
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu        sync.RWMutex
	gen       uint64
	questions []domain.Question
	expiresAt time.Time
}

func NewCachedQuestionRepository(next app.QuestionRepository, ttl time.Duration) *CachedQuestionRepository {
	return &CachedQuestionRepository{
		next:  next,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CachedQuestionRepository) Load(ctx context.Context) ([]domain.Question, error) {
	questions, gen, ok := r.cached(r.clock())
	if ok {
		return questions, nil
	}

	// Keyed by generation so loads issued after an Append never join a
	// flight that started before it.
	result, err, _ := r.sf.Do("questions:"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		now := r.clock()
		if questions, _, ok := r.cached(now); ok {
			return questions, nil
		}

		questions, err := r.next.Load(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		// An Append during the load makes this list stale; serve it but don't keep it.
		if r.gen == gen {
			r.questions = questions
			r.expiresAt = now.Add(r.ttlWithJitter())
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return copyQuestions(result.([]domain.Question)), nil
}

func (r *CachedQuestionRepository) Append(ctx context.Context, q domain.Question) error {
	if err := r.next.Append(ctx, q); err != nil {
		return err
	}
	r.mu.Lock()
	r.gen++
	r.questions = nil
	r.expiresAt = time.Time{}
	r.mu.Unlock()
	return nil
}

func (r *CachedQuestionRepository) cached(now time.Time) ([]domain.Question, uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.expiresAt.IsZero() && r.expiresAt.After(now) {
		return copyQuestions(r.questions), r.gen, true
	}
	return nil, r.gen, false
}

func (r *CachedQuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func copyQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, len(in))
	copy(out, in)
	return out
}
