package entity

import (
	"sync"
	"time"

	"github.com/cyraxred/neodepends/internal/lang"
	"github.com/cyraxred/neodepends/internal/model"
	"github.com/cyraxred/neodepends/internal/store"
)

// Recorder receives optional instrumentation from Cache.Get. It is
// satisfied by *metrics.Metrics without either package importing the
// other's concrete type.
type Recorder interface {
	ObserveTagging(lang string, hit bool, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTagging(string, bool, time.Duration) {}

// Cache memoizes Set-by-FileKey: the same (filename, ContentId) pair tags
// identically no matter which revision it was reached from, so tagging it
// more than once across a multi-revision run is pure waste. The filename is
// part of the key because it picks the language and names the file entity,
// so one blob stored under two paths yields two distinct Sets. Modeled on the
// teacher's BlobCache, which rotates a map[plumbing.Hash]*object.Blob behind
// no lock at all because it's only ever touched from one pipeline goroutine
// at a time; this cache is shared across the orchestrator's worker pool, so
// it needs the RWMutex BlobCache doesn't.
type Cache struct {
	reader    store.ContentReader
	fileLevel bool
	recorder  Recorder

	mu   sync.RWMutex
	sets map[model.FileKey]Set
}

// NewCache builds an empty Cache reading content through reader. fileLevel
// forces every tag to the single-file-entity behavior.
func NewCache(reader store.ContentReader, fileLevel bool) *Cache {
	return &Cache{reader: reader, fileLevel: fileLevel, recorder: nopRecorder{}, sets: make(map[model.FileKey]Set)}
}

// SetRecorder attaches an instrumentation sink. Passing nil restores the
// no-op default.
func (c *Cache) SetRecorder(r Recorder) {
	if r == nil {
		r = nopRecorder{}
	}
	c.recorder = r
}

// Get returns the Set for key, tagging it with l's tagger if it isn't
// already cached.
func (c *Cache) Get(key model.FileKey, l lang.Lang) (Set, error) {
	c.mu.RLock()
	set, ok := c.sets[key]
	c.mu.RUnlock()
	if ok {
		c.recorder.ObserveTagging(l.String(), true, 0)
		return set, nil
	}

	start := time.Now()

	content, err := c.reader.Read(key.ContentId)
	if err != nil {
		return Set{}, err
	}

	tagger := TaggerFor(l, c.fileLevel)
	set = tagger.Tag(key.Filename, content)

	c.mu.Lock()
	c.sets[key] = set
	c.mu.Unlock()

	c.recorder.ObserveTagging(l.String(), false, time.Since(start))
	return set, nil
}

// Len reports how many distinct file keys are currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sets)
}
