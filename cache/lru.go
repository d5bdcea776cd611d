// Copyright (c) 2024 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cache

import (
	"container/list"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/uber/blobcache/clock"
	"github.com/uber/blobcache/log"
	"github.com/uber/blobcache/log/tag"
	"github.com/uber/blobcache/metrics"
)

// lru is a concurrent byte-bounded cache that evicts elements in lru order.
// A single reader-writer mutex protects the recency list, the key index and
// the cumulative size. Lookups take the write mode because promotion
// re-links the accessed node.
type (
	lru struct {
		mut      sync.RWMutex
		byAccess *list.List
		byKey    map[interface{}]*list.Element
		currSize uint64
		disposed bool

		maxSize           uint64
		ttl               time.Duration
		expires           bool
		cleanupThreshold  float64
		scavengeTimeLimit time.Duration
		scavengeInterval  time.Duration
		initialDelay      time.Duration

		// single-scavenger gate; an inline eviction pass and a timer pass
		// never overlap
		scavenging *atomic.Bool
		stopCh     chan struct{}
		wg         sync.WaitGroup

		// We use this instead of time.Now() in order to make testing easier
		timeSource clock.TimeSource
		logger     log.Logger
		scope      metrics.Scope
	}

	entryImpl struct {
		key        interface{}
		payload    Payload
		size       uint64
		createTime time.Time
	}

	iteratorImpl struct {
		lru      *lru
		nextItem *list.Element
	}
)

// New creates a new cache with the given options and starts its background
// scavenger. The caller must Dispose the cache when done with it.
func New(opts *Options) Cache {
	opts.validate()
	opts = opts.normalize()

	c := &lru{
		byAccess:          list.New(),
		byKey:             make(map[interface{}]*list.Element, opts.InitialCapacity),
		maxSize:           opts.MaxSize,
		ttl:               opts.TTL,
		expires:           !opts.DisableExpiry,
		cleanupThreshold:  opts.CleanupThreshold,
		scavengeTimeLimit: opts.ScavengeTimeLimit,
		scavengeInterval:  opts.ScavengeInterval,
		initialDelay:      opts.InitialScavengeDelay,
		scavenging:        atomic.NewBool(false),
		stopCh:            make(chan struct{}),
		timeSource:        opts.TimeSource,
		logger:            opts.Logger.WithTags(tag.ComponentCache),
		scope:             opts.MetricsScope,
	}

	c.logger.Info("LRU cache initialized",
		tag.CapacityBytes(c.maxSize),
		tag.ExpiryEnabled(c.expires),
		tag.Dynamic("scavenge-interval", c.scavengeInterval),
		tag.Dynamic("ttl", c.ttl),
	)

	c.wg.Add(1)
	go c.scavengeLoop()
	return c
}

// Put admits a new payload under key
func (c *lru) Put(key interface{}, payload Payload) error {
	size := payload.ByteSize()

	c.mut.Lock()
	defer c.mut.Unlock()

	if c.disposed {
		return ErrCacheDisposed
	}
	if _, ok := c.byKey[key]; ok {
		return ErrDuplicateKey
	}
	if size > c.maxSize {
		return ErrEntryOversized
	}

	if c.currSize+size > c.maxSize {
		// the inline pass is time-bounded; if it aborts mid-walk the
		// cache temporarily exceeds the budget and the next timer pass
		// resumes the work
		c.makeRoomLocked(size, nil)
	}

	entry := &entryImpl{
		key:        key,
		payload:    payload,
		size:       size,
		createTime: c.timeSource.Now(),
	}
	c.byKey[key] = c.byAccess.PushFront(entry)
	c.currSize += size
	c.emitSizeLocked()
	return nil
}

// Get retrieves the payload stored under the given key, promoting the entry
// to most recently used
func (c *lru) Get(key interface{}) (Payload, error) {
	c.mut.Lock()
	defer c.mut.Unlock()

	if c.disposed {
		return nil, ErrCacheDisposed
	}

	element, ok := c.byKey[key]
	if !ok {
		c.scope.IncCounter(metrics.CacheMiss)
		return nil, ErrKeyNotFound
	}

	c.byAccess.MoveToFront(element)
	c.scope.IncCounter(metrics.CacheHit)
	return element.Value.(*entryImpl).payload, nil
}

// Contains reports whether key is present. It delegates to Get, so a hit
// promotes the entry.
func (c *lru) Contains(key interface{}) (bool, error) {
	_, err := c.Get(key)
	switch err {
	case nil:
		return true, nil
	case ErrKeyNotFound:
		return false, nil
	default:
		return false, err
	}
}

// Replace swaps the payload stored under key for a new one, releasing the
// displaced payload
func (c *lru) Replace(key interface{}, payload Payload) error {
	size := payload.ByteSize()

	c.mut.Lock()
	defer c.mut.Unlock()

	if c.disposed {
		return ErrCacheDisposed
	}
	element, ok := c.byKey[key]
	if !ok {
		return ErrKeyNotFound
	}
	if size > c.maxSize {
		return ErrEntryOversized
	}

	entry := element.Value.(*entryImpl)
	displaced := entry.payload

	entry.payload = payload
	c.currSize -= entry.size
	entry.size = size
	c.currSize += size
	entry.createTime = c.timeSource.Now()
	c.byAccess.MoveToFront(element)

	if c.currSize > c.maxSize {
		c.makeRoomLocked(0, element)
	}
	c.emitSizeLocked()

	if err := displaced.Release(); err != nil {
		c.scope.IncCounter(metrics.CacheReleaseError)
		c.logger.Error("failed to release displaced payload", tag.CacheKey(key), tag.Error(err))
		return err
	}
	return nil
}

// Remove deletes the entry stored under key, releasing its payload
func (c *lru) Remove(key interface{}) (bool, error) {
	c.mut.Lock()
	defer c.mut.Unlock()

	if c.disposed {
		return false, ErrCacheDisposed
	}
	element, ok := c.byKey[key]
	if !ok {
		return false, nil
	}
	err := c.deleteLocked(element)
	c.emitSizeLocked()
	return true, err
}

// RemovePair deletes the entry stored under key only if its resident
// payload is the given one
func (c *lru) RemovePair(key interface{}, payload Payload) (bool, error) {
	c.mut.Lock()
	defer c.mut.Unlock()

	if c.disposed {
		return false, ErrCacheDisposed
	}
	element, ok := c.byKey[key]
	if !ok || element.Value.(*entryImpl).payload != payload {
		return false, nil
	}
	err := c.deleteLocked(element)
	c.emitSizeLocked()
	return true, err
}

// Clear removes all entries, releasing each payload exactly once
func (c *lru) Clear() error {
	c.mut.Lock()
	defer c.mut.Unlock()

	if c.disposed {
		return ErrCacheDisposed
	}
	return c.clearLocked()
}

// Dispose stops the scavenger, clears the cache and marks it disposed.
// Idempotent.
func (c *lru) Dispose() error {
	c.mut.Lock()
	if c.disposed {
		c.mut.Unlock()
		return nil
	}
	c.disposed = true
	c.mut.Unlock()

	// join the scavenger before the final clear so a pass and disposal
	// cannot race
	close(c.stopCh)
	c.wg.Wait()

	c.mut.Lock()
	defer c.mut.Unlock()
	err := c.clearLocked()
	c.logger.Info("LRU cache disposed")
	return err
}

// Count returns the number of resident entries
func (c *lru) Count() int {
	c.mut.RLock()
	defer c.mut.RUnlock()
	return len(c.byKey)
}

// Size returns the cumulative byte size of resident entries
func (c *lru) Size() uint64 {
	c.mut.RLock()
	defer c.mut.RUnlock()
	return c.currSize
}

// Capacity returns the configured byte budget
func (c *lru) Capacity() uint64 {
	return c.maxSize
}

// Keys returns the resident keys, most recently used first
func (c *lru) Keys() []interface{} {
	c.mut.RLock()
	defer c.mut.RUnlock()

	keys := make([]interface{}, 0, len(c.byKey))
	for element := c.byAccess.Front(); element != nil; element = element.Next() {
		keys = append(keys, element.Value.(*entryImpl).key)
	}
	return keys
}

// Values returns the resident payloads, most recently used first
func (c *lru) Values() []Payload {
	c.mut.RLock()
	defer c.mut.RUnlock()

	values := make([]Payload, 0, len(c.byKey))
	for element := c.byAccess.Front(); element != nil; element = element.Next() {
		values = append(values, element.Value.(*entryImpl).payload)
	}
	return values
}

// Iterator returns an iterator over entries in recency order. The cache
// lock is held until Close, so access or modification of the cache from
// the iterating goroutine before Close will dead lock.
func (c *lru) Iterator() Iterator {
	c.mut.RLock()
	return &iteratorImpl{
		lru:      c,
		nextItem: c.byAccess.Front(),
	}
}

// HasNext return true if there is more items to be returned
func (it *iteratorImpl) HasNext() bool {
	return it.nextItem != nil
}

// Next return the next item
func (it *iteratorImpl) Next() Entry {
	if it.nextItem == nil {
		panic("LRU cache iterator Next called when there is no next item")
	}

	entry := it.nextItem.Value.(*entryImpl)
	it.nextItem = it.nextItem.Next()
	// make a copy of the entry so there will be no concurrent access to
	// this entry
	return &entryImpl{
		key:        entry.key,
		payload:    entry.payload,
		size:       entry.size,
		createTime: entry.createTime,
	}
}

// Close closes the iterator
func (it *iteratorImpl) Close() {
	it.lru.mut.RUnlock()
}

func (entry *entryImpl) Key() interface{} {
	return entry.key
}

func (entry *entryImpl) Payload() Payload {
	return entry.payload
}

func (entry *entryImpl) CreateTime() time.Time {
	return entry.createTime
}

// deleteLocked unlinks the element, de-indexes it, decrements the
// cumulative size and releases the payload. Caller holds the write lock.
func (c *lru) deleteLocked(element *list.Element) error {
	entry := c.byAccess.Remove(element).(*entryImpl)
	delete(c.byKey, entry.key)
	c.currSize -= entry.size

	if err := entry.payload.Release(); err != nil {
		c.scope.IncCounter(metrics.CacheReleaseError)
		c.logger.Error("failed to release payload", tag.CacheKey(entry.key), tag.Error(err))
		return err
	}
	return nil
}

// clearLocked removes every entry, releasing each payload exactly once.
// Caller holds the write lock.
func (c *lru) clearLocked() error {
	var err error
	for element := c.byAccess.Front(); element != nil; element = element.Next() {
		entry := element.Value.(*entryImpl)
		if releaseErr := entry.payload.Release(); releaseErr != nil {
			c.scope.IncCounter(metrics.CacheReleaseError)
			c.logger.Error("failed to release payload", tag.CacheKey(entry.key), tag.Error(releaseErr))
			err = multierr.Append(err, releaseErr)
		}
	}
	c.byAccess.Init()
	c.byKey = make(map[interface{}]*list.Element)
	c.currSize = 0
	c.emitSizeLocked()
	return err
}

// makeRoomLocked walks the recency list from the back releasing tail
// entries until need more bytes fit in the budget, skipping keep. The walk
// is bounded by the scavenge time limit. Caller holds the write lock.
func (c *lru) makeRoomLocked(need uint64, keep *list.Element) {
	if !c.scavenging.CompareAndSwap(false, true) {
		return
	}
	defer c.scavenging.Store(false)

	start := c.timeSource.Now()
	for c.currSize+need > c.maxSize {
		element := c.byAccess.Back()
		if element == nil || element == keep {
			return
		}
		if c.timeSource.Since(start) > c.scavengeTimeLimit {
			c.scope.IncCounter(metrics.ScavengeAbort)
			c.logger.Warn("inline eviction pass aborted by time limit",
				tag.Bytes(c.currSize),
				tag.CapacityBytes(c.maxSize),
			)
			return
		}
		c.scope.IncCounter(metrics.CacheEviction)
		c.deleteLocked(element)
	}
}

func (c *lru) isEntryExpired(entry *entryImpl, at time.Time) bool {
	return entry.createTime.Add(c.ttl).Before(at)
}

func (c *lru) emitSizeLocked() {
	c.scope.UpdateGauge(metrics.CacheByteSize, float64(c.currSize))
	c.scope.UpdateGauge(metrics.CacheEntryCount, float64(len(c.byKey)))
}
