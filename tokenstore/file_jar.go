package tokenstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/securecookie"
)

const jarCodecName = "shortlink-cookies"

// ErrCorruptJar is returned when the cookie file cannot be authenticated or decoded.
var ErrCorruptJar = errors.New("cookie file is corrupt or was signed with another key")

// PersistedCookie is a cookie written to disk.
type PersistedCookie struct {
	Value   string
	Expires time.Time
}

// FileJar stores cookies with a MaxAge in a signed and encrypted file.
// Session cookies live in memory only and are lost when the process exits.
type FileJar struct {
	mu        sync.Mutex
	path      string
	codec     *securecookie.SecureCookie
	session   map[string]string
	persisted map[string]PersistedCookie
	now       func() time.Time
}

// NewFileJar opens the jar at path, loading any cookies persisted earlier.
// hashKey should be 32 or 64 bytes and blockKey 16, 24 or 32 bytes.
func NewFileJar(path string, hashKey, blockKey []byte) (*FileJar, error) {
	codec := securecookie.New(hashKey, blockKey)
	// expiry is tracked per cookie and the file may hold several of them
	codec.MaxAge(0)
	codec.MaxLength(0)

	j := &FileJar{
		path:      path,
		codec:     codec,
		session:   make(map[string]string),
		persisted: make(map[string]PersistedCookie),
		now:       time.Now,
	}
	if err := j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *FileJar) load() error {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read cookie file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := j.codec.Decode(jarCodecName, string(data), &j.persisted); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptJar, err)
	}
	return nil
}

// flush must be called with mu held.
func (j *FileJar) flush() error {
	if len(j.persisted) == 0 {
		if err := os.Remove(j.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove cookie file: %w", err)
		}
		return nil
	}
	encoded, err := j.codec.Encode(jarCodecName, j.persisted)
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	if dir := filepath.Dir(j.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create cookie dir: %w", err)
		}
	}
	if err := os.WriteFile(j.path, []byte(encoded), 0o600); err != nil {
		return fmt.Errorf("write cookie file: %w", err)
	}
	return nil
}

func (j *FileJar) Get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if v, ok := j.session[name]; ok {
		return v, true
	}
	c, ok := j.persisted[name]
	if !ok {
		return "", false
	}
	if !j.now().Before(c.Expires) {
		delete(j.persisted, name)
		return "", false
	}
	return c.Value, true
}

func (j *FileJar) Set(name, value string, opts CookieOptions) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if opts.MaxAge <= 0 {
		j.session[name] = value
		if _, ok := j.persisted[name]; ok {
			delete(j.persisted, name)
			return j.flush()
		}
		return nil
	}
	delete(j.session, name)
	j.persisted[name] = PersistedCookie{Value: value, Expires: j.now().Add(opts.MaxAge)}
	return j.flush()
}

func (j *FileJar) Remove(name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	delete(j.session, name)
	if _, ok := j.persisted[name]; !ok {
		return nil
	}
	delete(j.persisted, name)
	return j.flush()
}
