package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"timed-quiz-service/internal/domain"
)

// BankLoader fetches and validates the question bank from a backing store
// (JSON file, Postgres, etc).
type BankLoader interface {
	LoadBank(ctx context.Context) (domain.Bank, error)
}

// BankRepository caches the loaded bank with a TTL so every request does not
// re-read and re-validate the backing store. A TTL of zero caches forever.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	bank      domain.Bank
	loaded    bool
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

func (r *BankRepository) Bank(ctx context.Context) (domain.Bank, error) {
	if bank, ok := r.cached(); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do("bank", func() (interface{}, error) {
		if bank, ok := r.cached(); ok {
			return bank, nil
		}
		bank, err := r.loader.LoadBank(ctx)
		if err != nil {
			return domain.Bank{}, err
		}
		r.mu.Lock()
		r.bank = bank
		r.loaded = true
		if r.ttl > 0 {
			r.expiresAt = r.clock().Add(r.ttlWithJitter())
		}
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) cached() (domain.Bank, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded {
		return domain.Bank{}, false
	}
	if r.ttl > 0 && !r.expiresAt.After(r.clock()) {
		return domain.Bank{}, false
	}
	return r.bank, true
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	// up to 10% jitter so multiple instances do not reload in lockstep
	jitterMax := int64(r.ttl) / 10
	if jitterMax <= 0 {
		return r.ttl
	}
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader serves a fixed bank (useful for tests and demos).
type StaticBankLoader struct {
	bank domain.Bank
}

func NewStaticBankLoader(bank domain.Bank) *StaticBankLoader {
	return &StaticBankLoader{bank: bank}
}

func (l *StaticBankLoader) LoadBank(_ context.Context) (domain.Bank, error) {
	return l.bank, nil
}
