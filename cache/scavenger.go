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
	"time"

	"github.com/uber/blobcache/log"
	"github.com/uber/blobcache/log/tag"
	"github.com/uber/blobcache/metrics"
)

// scavengeLoop is the background worker that replaces a timer callback: it
// sleeps between passes and checks the stop channel on each wake. Dispose
// closes the channel and joins the loop before the final clear.
func (c *lru) scavengeLoop() {
	defer c.wg.Done()

	initial := c.timeSource.NewTimer(c.initialDelay)
	defer initial.Stop()
	select {
	case <-initial.Chan():
	case <-c.stopCh:
		return
	}

	ticker := c.timeSource.NewTicker(c.scavengeInterval)
	defer ticker.Stop()
	for {
		c.scavengeTick()
		select {
		case <-ticker.Chan():
		case <-c.stopCh:
			return
		}
	}
}

// scavengeTick runs a single timer-driven pass: expire aged entries, then
// shrink to the cleanup threshold. A pass never propagates errors; failures
// are logged and the next tick resumes the work.
func (c *lru) scavengeTick() {
	var err error
	defer func() { log.CapturePanic(recover(), c.logger, &err) }()

	start := c.timeSource.Now()

	c.mut.Lock()
	defer c.mut.Unlock()

	if c.disposed {
		return
	}
	// at most one scavenge runs at any time across inline and timer passes
	if !c.scavenging.CompareAndSwap(false, true) {
		return
	}
	defer c.scavenging.Store(false)

	var examined, removed int
	aborted := false
	if c.expires {
		examined, removed, aborted = c.expireLocked(start)
	}
	if !aborted {
		removed += c.shrinkToThresholdLocked(start)
	}
	c.emitSizeLocked()

	elapsed := c.timeSource.Since(start)
	c.scope.RecordTimer(metrics.ScavengeLatency, elapsed)
	c.logger.Debug("scavenge pass finished",
		tag.ComponentScavenger,
		tag.ScavengeExamined(examined),
		tag.ScavengeRemoved(removed),
		tag.Duration(elapsed),
	)
}

// expireLocked walks the recency list from the least-recently-used end and
// removes entries whose lifetime elapsed before the pass started. Expired
// entries can sit anywhere in the list, so the walk visits every node once
// unless the time limit aborts it. Caller holds the write lock.
func (c *lru) expireLocked(start time.Time) (examined int, removed int, aborted bool) {
	for element := c.byAccess.Back(); element != nil; {
		if c.timeSource.Since(start) > c.scavengeTimeLimit {
			c.scope.IncCounter(metrics.ScavengeAbort)
			c.logger.Warn("expiry pass aborted by time limit",
				tag.ComponentScavenger,
				tag.ScavengeExamined(examined),
			)
			return examined, removed, true
		}

		prev := element.Prev()
		entry := element.Value.(*entryImpl)
		examined++
		if c.isEntryExpired(entry, start) {
			c.scope.IncCounter(metrics.CacheExpiry)
			c.deleteLocked(element)
			removed++
		}
		element = prev
	}
	return examined, removed, false
}

// shrinkToThresholdLocked evicts from the tail until the cumulative size is
// at or below CleanupThreshold*MaxSize. Caller holds the write lock.
func (c *lru) shrinkToThresholdLocked(start time.Time) int {
	target := uint64(float64(c.maxSize) * c.cleanupThreshold)
	removed := 0
	for c.currSize > target {
		element := c.byAccess.Back()
		if element == nil {
			break
		}
		if c.timeSource.Since(start) > c.scavengeTimeLimit {
			c.scope.IncCounter(metrics.ScavengeAbort)
			c.logger.Warn("threshold shrink aborted by time limit",
				tag.ComponentScavenger,
				tag.Bytes(c.currSize),
			)
			break
		}
		c.scope.IncCounter(metrics.CacheEviction)
		c.deleteLocked(element)
		removed++
	}
	return removed
}
