package cache

import (
	"codboost/internal/models"
)

// SettingsSource is the durable store the cache sits in front of.
type SettingsSource interface {
	Get(shopDomain string) (models.Settings, error)
	Save(shopDomain string, s models.Settings) error
	UpdateSection(shopDomain, section string, raw []byte) (models.Settings, error)
}

// SettingsCache serves reads from a TTL cache keyed by shop domain. Writes
// go through to the source and refresh the cached copy so concurrent
// readers see the latest committed document within one TTL at worst.
type SettingsCache struct {
	src SettingsSource
	kv  KV
}

func NewSettingsCache(src SettingsSource, kv KV) *SettingsCache {
	return &SettingsCache{src: src, kv: kv}
}

func (c *SettingsCache) Get(shopDomain string) (models.Settings, error) {
	if v, ok := c.kv.Get(shopDomain); ok {
		if s, ok := v.(models.Settings); ok {
			return s, nil
		}
	}
	s, err := c.src.Get(shopDomain)
	if err != nil {
		return models.Settings{}, err
	}
	c.kv.Put(shopDomain, s)
	return s, nil
}

func (c *SettingsCache) Save(shopDomain string, s models.Settings) error {
	if err := c.src.Save(shopDomain, s); err != nil {
		return err
	}
	c.kv.Put(shopDomain, s)
	return nil
}

func (c *SettingsCache) UpdateSection(shopDomain, section string, raw []byte) (models.Settings, error) {
	s, err := c.src.UpdateSection(shopDomain, section, raw)
	if err != nil {
		return models.Settings{}, err
	}
	c.kv.Put(shopDomain, s)
	return s, nil
}
