package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"bancoapi/internal/model"

	"github.com/go-redis/redis/v8"
)

// AccountCache is a read-through cache for account lookups by CPF. The
// cache is best-effort: every miss or Redis failure falls back to the
// database, and writers invalidate the touched CPFs after commit.
//
// A nil *AccountCache is valid and disables caching, so tests and
// degraded deployments can run without Redis.
type AccountCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAccountCache(client *redis.Client, ttl time.Duration) *AccountCache {
	if client == nil {
		return nil
	}
	return &AccountCache{client: client, ttl: ttl}
}

func accountKey(cpf string) string {
	return fmt.Sprintf("banco:account:%s", cpf)
}

// Get returns the cached account for cpf, or nil on miss.
func (c *AccountCache) Get(ctx context.Context, cpf string) *model.Account {
	if c == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, accountKey(cpf)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[cache] account get failed: cpf=%s, err=%v", cpf, err)
		}
		return nil
	}
	var account model.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil
	}
	return &account
}

// Set stores the account under its CPF with the configured TTL.
func (c *AccountCache) Set(ctx context.Context, account *model.Account) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(account)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, accountKey(account.CPF), raw, c.ttl).Err(); err != nil {
		log.Printf("[cache] account set failed: cpf=%s, err=%v", account.CPF, err)
	}
}

// Invalidate drops the cached entries for the given CPFs.
func (c *AccountCache) Invalidate(ctx context.Context, cpfs ...string) {
	if c == nil || len(cpfs) == 0 {
		return
	}
	keys := make([]string, len(cpfs))
	for i, cpf := range cpfs {
		keys[i] = accountKey(cpf)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[cache] account invalidate failed: err=%v", err)
	}
}
