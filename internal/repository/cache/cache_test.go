package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"codboost/internal/models"
)

func TestCache_PutGetDelete(t *testing.T) {
	c := NewCache()
	defer c.Close()

	c.Put("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	c.Delete("a")
	_, ok = c.Get("a")
	require.False(t, ok)
}

func TestCache_TTLExpiry(t *testing.T) {
	c := NewCache(WithTTL(time.Minute))
	defer c.Close()

	base := time.Now()
	c.now = func() time.Time { return base }

	c.Put("a", "v")
	_, ok := c.Get("a")
	require.True(t, ok)

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, ok = c.Get("a")
	require.False(t, ok, "expired entry must not be served")
}

func TestCache_PurgeExpired(t *testing.T) {
	c := NewCache(WithTTL(time.Minute))
	defer c.Close()

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Put("stale", "v")

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	c.purgeExpired()

	c.mu.RLock()
	_, present := c.data["stale"]
	c.mu.RUnlock()
	require.False(t, present)
}

type sourceStub struct {
	settings models.Settings
	err      error
	gets     int
	saves    int
}

func (s *sourceStub) Get(string) (models.Settings, error) {
	s.gets++
	return s.settings, s.err
}

func (s *sourceStub) Save(string, models.Settings) error {
	s.saves++
	return s.err
}

func (s *sourceStub) UpdateSection(string, string, []byte) (models.Settings, error) {
	return s.settings, s.err
}

func TestSettingsCache_ReadThrough(t *testing.T) {
	src := &sourceStub{settings: models.DefaultSettings()}
	c := NewSettingsCache(src, NewCache(WithTTL(time.Minute)))

	first, err := c.Get("shop.myshopify.com")
	require.NoError(t, err)
	require.Equal(t, float64(30), first.Delivery.DeliveryFee)

	_, err = c.Get("shop.myshopify.com")
	require.NoError(t, err)
	require.Equal(t, 1, src.gets, "second read must hit the cache")
}

func TestSettingsCache_WriteThroughRefreshes(t *testing.T) {
	src := &sourceStub{settings: models.DefaultSettings()}
	c := NewSettingsCache(src, NewCache(WithTTL(time.Minute)))

	_, err := c.Get("shop.myshopify.com")
	require.NoError(t, err)

	updated := models.DefaultSettings()
	updated.Delivery.DeliveryFee = 45
	require.NoError(t, c.Save("shop.myshopify.com", updated))
	require.Equal(t, 1, src.saves)

	got, err := c.Get("shop.myshopify.com")
	require.NoError(t, err)
	require.Equal(t, float64(45), got.Delivery.DeliveryFee)
	require.Equal(t, 1, src.gets, "save must refresh the cached copy")
}

func TestSettingsCache_SourceErrorPassesThrough(t *testing.T) {
	src := &sourceStub{err: errors.New("db down")}
	c := NewSettingsCache(src, NewCache())

	_, err := c.Get("shop.myshopify.com")
	require.Error(t, err)
}
