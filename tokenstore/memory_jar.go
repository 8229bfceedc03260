package tokenstore

import (
	"sync"
	"time"
)

type cookie struct {
	value   string
	expires time.Time
}

// MemoryJar keeps cookies in process memory. Nothing survives a restart.
type MemoryJar struct {
	mu      sync.RWMutex
	cookies map[string]cookie
	now     func() time.Time
}

// NewMemoryJar creates an empty MemoryJar.
func NewMemoryJar() *MemoryJar {
	return &MemoryJar{
		cookies: make(map[string]cookie),
		now:     time.Now,
	}
}

func (j *MemoryJar) Get(name string) (string, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	c, ok := j.cookies[name]
	if !ok {
		return "", false
	}
	if !c.expires.IsZero() && !j.now().Before(c.expires) {
		return "", false
	}
	return c.value, true
}

func (j *MemoryJar) Set(name, value string, opts CookieOptions) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	c := cookie{value: value}
	if opts.MaxAge > 0 {
		c.expires = j.now().Add(opts.MaxAge)
	}
	j.cookies[name] = c
	return nil
}

func (j *MemoryJar) Remove(name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	delete(j.cookies, name)
	return nil
}
