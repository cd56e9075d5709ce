// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "sync"

// Cache loads the configuration once and hands out the same *Conf afterwards.
// Failed loads are not cached.
type Cache struct {
	loader *Loader

	mu   sync.Mutex
	conf *Conf
}

// NewCache creates a cache backed by loader.
func NewCache(loader *Loader) *Cache {
	return &Cache{loader: loader}
}

// Get returns the cached configuration, loading it on first use.
func (c *Cache) Get() (*Conf, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conf != nil {
		return c.conf, nil
	}
	conf, err := c.loader.Load()
	if err != nil {
		return nil, err
	}
	c.conf = conf
	return conf, nil
}

// Loader returns the underlying loader.
func (c *Cache) Loader() *Loader { return c.loader }
