package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"techify-quiz/internal/app"
	"techify-quiz/internal/domain"
)

// QuestionCache caches the encoded question list in Redis and falls back to
// the wrapped repository on a miss. The list is stored as:
//
//	SET quiz:questions <json array> EX <ttl>
//
// quiz:questions:gen is bumped on every Append. A load only writes the list
// back if the generation it started under is still current, so a list read
// before an Append never hides the new question.
type QuestionCache struct {
	client *redis.Client
	next   app.QuestionRepository
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionCache(client *redis.Client, next app.QuestionRepository, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		next:   next,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const (
	questionsKey    = "quiz:questions"
	questionsGenKey = "quiz:questions:gen"
)

func (c *QuestionCache) Load(ctx context.Context) ([]domain.Question, error) {
	if questions, ok := c.cached(ctx); ok {
		return questions, nil
	}

	gen, err := c.generation(ctx)
	if err != nil {
		log.Printf("question cache generation read failed: %v", err)
		return c.next.Load(ctx)
	}

	result, err, _ := c.sf.Do(questionsKey+":"+strconv.FormatInt(gen, 10), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := c.cached(ctx); ok {
			return questions, nil
		}

		questions, err := c.next.Load(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.store(ctx, gen, questions); err != nil {
			log.Printf("question cache write failed: %v", err)
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Append writes through to the wrapped repository, bumps the generation and
// drops the cached list.
func (c *QuestionCache) Append(ctx context.Context, q domain.Question) error {
	if err := c.next.Append(ctx, q); err != nil {
		return err
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, questionsGenKey)
		pipe.Del(ctx, questionsKey)
		return nil
	})
	return err
}

func (c *QuestionCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, questionsGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// store sets the cached list unless the generation moved past gen.
func (c *QuestionCache) store(ctx context.Context, gen int64, questions []domain.Question) error {
	raw, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, questionsGenKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, questionsKey, raw, c.ttlWithJitter())
			return nil
		})
		if errors.Is(err, redis.TxFailedErr) {
			return nil
		}
		return err
	}, questionsGenKey)
}

func (c *QuestionCache) cached(ctx context.Context) ([]domain.Question, bool) {
	raw, err := c.client.Get(ctx, questionsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("question cache read failed: %v", err)
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, false
	}
	return questions, true
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
