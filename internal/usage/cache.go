package usage

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
	"github.com/thoreinstein/waybar-ai-usage/internal/paths"
	"github.com/thoreinstein/waybar-ai-usage/pkg/fileutil"
)

// DefaultTTL is how long a cached snapshot is served without refetching.
const DefaultTTL = 60 * time.Second

// UpdatingSuffix names the marker file that signals an in-flight fetch to
// concurrent invocations.
const UpdatingSuffix = ".updating"

const (
	// A marker older than this belongs to a dead process and is ignored.
	markerStaleAfter = 5 * time.Second

	// Poll cadence while another invocation holds the marker.
	markerWaitInterval = 500 * time.Millisecond
	markerWaitAttempts = 6

	// After a peer finishes, its cache is accepted slightly past the TTL so
	// the wait itself does not force a duplicate fetch.
	peerGrace = 10 * time.Second
)

// FetchFunc produces a fresh snapshot from a provider.
type FetchFunc func(ctx context.Context) (*Snapshot, error)

// Cache is a single-file snapshot cache with cooperative locking. Waybar
// runs one process per module per interval; the marker file keeps those
// invocations from fetching the same account twice at once.
type Cache struct {
	path  string
	ttl   time.Duration
	now   func() time.Time
	sleep func(time.Duration)
	log   *slog.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithSleep overrides the wait between marker polls.
func WithSleep(sleep func(time.Duration)) CacheOption {
	return func(c *Cache) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *slog.Logger) CacheOption {
	return func(c *Cache) {
		if log != nil {
			c.log = log
		}
	}
}

// NewCache returns a cache backed by path. A non-positive ttl falls back to
// DefaultTTL.
func NewCache(path string, ttl time.Duration, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		path:  path,
		ttl:   ttl,
		now:   time.Now,
		sleep: time.Sleep,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached snapshot while it is fresh. On a miss it first
// waits briefly for a concurrent invocation already fetching, then fetches
// itself and stores the result.
func (c *Cache) Get(ctx context.Context, fetch FetchFunc) (*Snapshot, error) {
	if snap, ok := c.read(c.ttl); ok {
		return snap, nil
	}
	if snap, ok := c.awaitPeer(); ok {
		return snap, nil
	}
	return c.fetchAndStore(ctx, fetch)
}

// Refresh fetches unconditionally, still writing the result for the next
// caller.
func (c *Cache) Refresh(ctx context.Context, fetch FetchFunc) (*Snapshot, error) {
	return c.fetchAndStore(ctx, fetch)
}

// read loads the cache if it is younger than maxAge. Unreadable or corrupt
// content reads as a miss.
func (c *Cache) read(maxAge time.Duration) (*Snapshot, bool) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, false
	}
	if c.now().Sub(info.ModTime()) >= maxAge {
		return nil, false
	}

	data, err := fileutil.ReadFileWithLimit(c.path)
	if err != nil {
		return nil, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.log.Debug("discarding corrupt usage cache", "path", c.path, "error", err)
		return nil, false
	}
	return &snap, true
}

// awaitPeer polls while a live marker is present. It reports a snapshot only
// when the peer finished and left an acceptably fresh cache behind.
func (c *Cache) awaitPeer() (*Snapshot, bool) {
	marker := c.path + UpdatingSuffix
	info, err := os.Stat(marker)
	if err != nil {
		return nil, false
	}
	if c.now().Sub(info.ModTime()) > markerStaleAfter {
		// Leftover from a dead process.
		_ = os.Remove(marker)
		return nil, false
	}

	for i := 0; i < markerWaitAttempts; i++ {
		c.sleep(markerWaitInterval)
		if _, err := os.Stat(marker); err == nil {
			continue
		}
		return c.read(c.ttl + peerGrace)
	}
	return nil, false
}

// fetchAndStore fetches under the marker and writes the cache. A cache write
// failure is logged, not returned: the snapshot is still good.
func (c *Cache) fetchAndStore(ctx context.Context, fetch FetchFunc) (*Snapshot, error) {
	release := c.markUpdating()
	defer release()

	snap, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.write(snap); err != nil {
		c.log.Warn("writing usage cache", "path", c.path, "error", err)
	}
	return snap, nil
}

func (c *Cache) write(snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "encoding usage cache")
	}
	data = append(data, '\n')

	if err := paths.EnsureDir(filepath.Dir(c.path), 0); err != nil {
		return errors.Wrap(err, "creating cache directory")
	}
	return fileutil.AtomicWriteFile(c.path, data, 0o644)
}

// markUpdating drops the marker file and returns its cleanup. Marker errors
// are ignored: the marker is an optimization, never a correctness gate.
func (c *Cache) markUpdating() func() {
	marker := c.path + UpdatingSuffix
	if err := paths.EnsureDir(filepath.Dir(c.path), 0); err == nil {
		_ = os.WriteFile(marker, nil, 0o644)
	}
	return func() { _ = os.Remove(marker) }
}
