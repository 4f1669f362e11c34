package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quadquiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches the question bank from a backing store (CSV file,
// Postgres, etc).
type BankLoader interface {
	LoadBank(ctx context.Context) (domain.Bank, error)
}

// BankRepository caches the loaded bank with TTL to avoid re-reading the
// backing store on every game start.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	bank      domain.Bank
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context) (domain.Bank, error) {
	now := r.clock()

	r.mu.RLock()
	if r.bank != nil && r.expiresAt.After(now) {
		bank := r.bank
		r.mu.RUnlock()
		return bank, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("bank", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.bank != nil && r.expiresAt.After(now) {
			bank := r.bank
			r.mu.RUnlock()
			return bank, nil
		}
		r.mu.RUnlock()

		bank, err := r.loader.LoadBank(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.bank = bank
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(domain.Bank), nil
}

// StaticBankLoader is a simple loader backed by an in-memory bank (useful for
// tests/demos).
type StaticBankLoader struct {
	bank domain.Bank
}

func NewStaticBankLoader(bank domain.Bank) *StaticBankLoader {
	return &StaticBankLoader{bank: bank}
}

func (l *StaticBankLoader) LoadBank(context.Context) (domain.Bank, error) {
	return l.bank, nil
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
