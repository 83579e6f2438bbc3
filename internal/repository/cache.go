package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/codenzaar/loan-tracker/internal/domain"
)

// LoanCache is a redis read-through cache for single-loan lookups. It is
// best-effort: any cache failure is logged and treated as a miss, never
// surfaced to the caller.
type LoanCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLoanCache(client *redis.Client, ttl time.Duration) *LoanCache {
	return &LoanCache{client: client, ttl: ttl}
}

func cacheKey(id uuid.UUID) string {
	return "loan:" + id.String()
}

// Get returns the cached loan for id, or (nil, false) on a miss.
func (c *LoanCache) Get(ctx context.Context, id uuid.UUID) (*domain.Loan, bool) {
	raw, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("loan cache get failed: %v", err)
		}
		return nil, false
	}

	var loan domain.Loan
	if err := json.Unmarshal(raw, &loan); err != nil {
		log.Printf("loan cache entry corrupt, dropping: %v", err)
		c.Invalidate(ctx, id)
		return nil, false
	}

	return &loan, true
}

// Set stores the loan under its id for the configured TTL.
func (c *LoanCache) Set(ctx context.Context, loan *domain.Loan) {
	raw, err := json.Marshal(loan)
	if err != nil {
		log.Printf("loan cache marshal failed: %v", err)
		return
	}

	if err := c.client.Set(ctx, cacheKey(loan.ID), raw, c.ttl).Err(); err != nil {
		log.Printf("loan cache set failed: %v", err)
	}
}

// Invalidate drops the cached entry for id. Called after every mutation.
func (c *LoanCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		log.Printf("loan cache invalidate failed: %v", err)
	}
}
