package cache

import (
	"sync"
	"time"
)

type KV interface {
	Put(key string, v any)
	Get(key string) (any, bool)
	Delete(key string)
}

type entry struct {
	v   any
	exp time.Time
}

// Cache is a TTL map guarded by a RWMutex. A janitor goroutine purges
// expired entries; Close stops it.
type Cache struct {
	mu   sync.RWMutex
	data map[string]entry

	ttl    time.Duration
	ticker *time.Ticker
	stop   chan struct{}
	now    func() time.Time
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option { return func(c *Cache) { c.ttl = ttl } }

func NewCache(opts ...Option) *Cache {
	c := &Cache{
		data: make(map[string]entry),
		stop: make(chan struct{}),
		now:  time.Now,
	}
	for _, o := range opts {
		o(c)
	}

	if c.ttl > 0 {
		c.ticker = time.NewTicker(c.ttl / 2)
		go func() {
			for {
				select {
				case <-c.ticker.C:
					c.purgeExpired()
				case <-c.stop:
					return
				}
			}
		}()
	}
	return c
}

func (c *Cache) Close() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
	close(c.stop)
}

func (c *Cache) Put(key string, v any) {
	e := entry{v: v}
	if c.ttl > 0 {
		e.exp = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.data[key] = e
	c.mu.Unlock()
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.exp.IsZero() && c.now().After(e.exp) {
		c.Delete(key)
		return nil, false
	}
	return e.v, true
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

func (c *Cache) purgeExpired() {
	now := c.now()
	c.mu.Lock()
	for k, e := range c.data {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(c.data, k)
		}
	}
	c.mu.Unlock()
}
