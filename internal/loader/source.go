package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// Source yields raw contract files by slash-separated path, relative to the
// contracts root (for example "PSP22/lib.rs").
type Source interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// HTTPSource fetches files below a base URL.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource returns an HTTPSource with a client that times out after
// timeout (zero means no timeout).
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, path string) (string, error) {
	url := s.BaseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &DownloadError{Path: url, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", url, err)
	}
	return string(body), nil
}

// DirSource reads files from a local contracts directory.
type DirSource struct {
	fsys fs.FS
}

// NewDirSource returns a DirSource rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{fsys: os.DirFS(dir)}
}

// NewFSSource returns a DirSource over an arbitrary file system.
func NewFSSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

func (s *DirSource) Fetch(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(s.fsys, strings.TrimLeft(path, "/"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// DefaultCacheTTL is how long a cached file stays valid.
const DefaultCacheTTL = 10 * time.Minute

type cacheEntry struct {
	content string
	expires time.Time
}

// CachedSource memoizes another Source in a bounded LRU cache. Entries
// expire after the configured TTL; failures are never cached.
type CachedSource struct {
	src   Source
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewCachedSource wraps src with a cache of at most size entries.
func NewCachedSource(src Source, size int, ttl time.Duration) (*CachedSource, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSource{src: src, cache: cache, ttl: ttl, now: time.Now}, nil
}

func (s *CachedSource) Fetch(ctx context.Context, path string) (string, error) {
	if v, ok := s.cache.Get(path); ok {
		e := v.(cacheEntry)
		if s.now().Before(e.expires) {
			return e.content, nil
		}
		s.cache.Remove(path)
	}
	content, err := s.src.Fetch(ctx, path)
	if err != nil {
		return "", err
	}
	s.cache.Add(path, cacheEntry{content: content, expires: s.now().Add(s.ttl)})
	return content, nil
}

// Len reports the number of cached entries, expired ones included.
func (s *CachedSource) Len() int {
	return s.cache.Len()
}

// Purge empties the cache.
func (s *CachedSource) Purge() {
	s.cache.Purge()
}
