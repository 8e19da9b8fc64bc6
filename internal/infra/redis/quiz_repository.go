package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quiz-risk-service/internal/domain"
)

// QuizLoader fetches quiz content from a backing store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizRepository caches quiz questions in Redis (hash per quiz) and falls back to a loader on cache miss.
// Questions are stored as: HSET quiz:{quizID}:questions {questionID} {question JSON}
// Metadata is stored as:   HSET quiz:{quizID}:meta userId {id} status {status}
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.fromCache(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.fromCache(ctx, quizID); ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		// a failed cache write only costs a reload
		_ = r.store(ctx, quiz)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *QuizRepository) fromCache(ctx context.Context, quizID string) (domain.Quiz, bool) {
	fields, err := r.client.HGetAll(ctx, questionsKey(quizID)).Result()
	if err != nil || len(fields) == 0 {
		return domain.Quiz{}, false
	}
	meta, _ := r.client.HGetAll(ctx, metaKey(quizID)).Result()

	quiz, err := buildQuizFromCache(quizID, fields, meta)
	if err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (r *QuizRepository) store(ctx context.Context, quiz domain.Quiz) error {
	qKey := questionsKey(quiz.ID)
	mKey := metaKey(quiz.ID)
	ttl := r.ttlWithJitter()

	pipe := r.client.Pipeline()
	for _, q := range quiz.Questions {
		raw, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("encode question %d: %w", q.ID, err)
		}
		pipe.HSet(ctx, qKey, strconv.Itoa(q.ID), raw)
	}
	pipe.HSet(ctx, mKey, "userId", quiz.UserID, "status", quiz.Status)
	if ttl > 0 {
		pipe.Expire(ctx, qKey, ttl)
		pipe.Expire(ctx, mKey, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func questionsKey(quizID string) string {
	return "quiz:" + quizID + ":questions"
}

func metaKey(quizID string) string {
	return "quiz:" + quizID + ":meta"
}

func buildQuizFromCache(quizID string, fields, meta map[string]string) (domain.Quiz, error) {
	questions := make([]domain.Question, 0, len(fields))
	for id, raw := range fields {
		var q domain.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return domain.Quiz{}, fmt.Errorf("decode cached question %s: %w", id, err)
		}
		questions = append(questions, q)
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return domain.Quiz{
		ID:        quizID,
		UserID:    meta["userId"],
		Status:    meta["status"],
		Questions: questions,
	}, nil
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
