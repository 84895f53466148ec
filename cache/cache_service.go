package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arcana-network/frostsigner/common"

	"github.com/patrickmn/go-cache"
)

// ErrCommitmentSeen is returned when a signing commitment is presented for a
// second time within the retention window.
var ErrCommitmentSeen = errors.New("signing commitment already used")

func New(ttl time.Duration) *CacheService {
	cacheService := CacheService{ttl: ttl}
	return &cacheService
}

// CacheService remembers digests of consumed signing commitments so a nonce
// pair cannot be signed with twice.
type CacheService struct {
	mu              sync.RWMutex
	ttl             time.Duration
	commitmentCache *cache.Cache
}

func (*CacheService) ID() string {
	return common.CACHE_SERVICE_NAME
}

func (c *CacheService) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.commitmentCache == nil {
		c.commitmentCache = cache.New(c.ttl, time.Minute)
	}
	return nil
}

func (c *CacheService) Stop() error {
	return nil
}

func (c *CacheService) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.commitmentCache != nil
}

func (c *CacheService) Call(method string, args ...interface{}) (interface{}, error) {
	switch method {
	case "commitment_seen":

		var args0 string
		_ = common.CastOrUnmarshal(args[0], &args0)
		return c.CommitmentSeen(args0), nil
	case "record_commitment":

		var args0 string
		_ = common.CastOrUnmarshal(args[0], &args0)
		return nil, c.RecordCommitment(args0)
	case "count":
		return c.Count(), nil
	}
	return nil, fmt.Errorf("cache service method %v not found", method)
}

func (c *CacheService) CommitmentSeen(digest string) (exists bool) {
	_, exists = c.commitments().Get(digest)
	return
}

// RecordCommitment stores digest, failing if it is already present.
func (c *CacheService) RecordCommitment(digest string) error {
	if err := c.commitments().Add(digest, true, cache.DefaultExpiration); err != nil {
		return fmt.Errorf("%w: %s", ErrCommitmentSeen, digest)
	}
	return nil
}

func (c *CacheService) Count() int {
	return c.commitments().ItemCount()
}

func (c *CacheService) commitments() *cache.Cache {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.commitmentCache == nil {
		panic("cache service used before Start")
	}
	return c.commitmentCache
}
