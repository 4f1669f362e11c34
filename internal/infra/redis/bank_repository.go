package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"quadquiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// bankKey holds the whole question bank as one JSON value. The bank is
// immutable per deployment, so a single key beats per-question hashing.
const bankKey = "quiz:bank:questions"

// BankLoader fetches the question bank from a backing store (CSV file,
// Postgres, etc).
type BankLoader interface {
	LoadBank(ctx context.Context) (domain.Bank, error)
}

// BankRepository caches the question bank in Redis and falls back to a
// loader on cache miss.
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context) (domain.Bank, error) {
	if bank, ok := r.fromCache(ctx); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.fromCache(ctx); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx)
		if err != nil {
			return nil, err
		}

		if raw, err := json.Marshal(bank); err == nil {
			_ = r.client.Set(ctx, bankKey, raw, r.ttlWithJitter()).Err()
		}
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) fromCache(ctx context.Context) (domain.Bank, bool) {
	raw, err := r.client.Get(ctx, bankKey).Bytes()
	if err != nil {
		return nil, false
	}
	var bank domain.Bank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, false
	}
	return bank, len(bank) > 0
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
