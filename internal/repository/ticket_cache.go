package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketCache is a read-through cache over single-ticket lookups. A miss
// (or an unreachable backend) is reported as a nil ticket with a nil
// error so callers always fall back to the store.
type TicketCache interface {
	Get(ctx context.Context, ticketID string) (*domain.Ticket, error)
	Set(ctx context.Context, ticket *domain.Ticket) error
	Invalidate(ctx context.Context, ticketID string) error
}

type redisTicketCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTicketCache builds a Redis-backed cache with the given entry
// lifetime. A nil client yields a cache that always misses.
func NewTicketCache(client *redis.Client, ttl time.Duration) TicketCache {
	return &redisTicketCache{client: client, ttl: ttl}
}

// Get returns the cached ticket, or nil on a miss.
func (c *redisTicketCache) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	if c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, ticketKey(ticketID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		// stale or corrupt entry; treat as miss
		_ = c.client.Del(ctx, ticketKey(ticketID)).Err()
		return nil, nil
	}
	return &ticket, nil
}

// Set stores the ticket under its id.
func (c *redisTicketCache) Set(ctx context.Context, ticket *domain.Ticket) error {
	if c.client == nil || ticket == nil {
		return nil
	}
	raw, err := json.Marshal(ticket)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ticketKey(ticket.ID), raw, c.ttl).Err()
}

// Invalidate drops the cached entry for the ticket id.
func (c *redisTicketCache) Invalidate(ctx context.Context, ticketID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, ticketKey(ticketID)).Err()
}

func ticketKey(id string) string {
	return "ticket:" + id
}
