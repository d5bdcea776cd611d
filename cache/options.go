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
	"math"
	"time"

	"github.com/uber/blobcache/clock"
	"github.com/uber/blobcache/log"
	"github.com/uber/blobcache/metrics"
)

const (
	// DefaultScavengeInterval is the default period between timer-driven scavenge passes
	DefaultScavengeInterval = time.Minute
	// DefaultInitialScavengeDelay is the default delay before the first timer-driven pass
	DefaultInitialScavengeDelay = 20 * time.Second
	// DefaultScavengeTimeLimit is the default wall-clock budget of a single scavenge pass
	DefaultScavengeTimeLimit = 300 * time.Millisecond
	// DefaultTTL is the default entry lifetime
	DefaultTTL = time.Hour
	// DefaultInitialCapacity is the default pre-sizing hint for the key index
	DefaultInitialCapacity = 100
	// DefaultCleanupThreshold makes timer-driven passes evict only while
	// the cumulative size is above MaxSize
	DefaultCleanupThreshold = 1.0

	// negative durations mean "never"; they are clamped to the largest
	// 32-bit millisecond count
	maxClampedDuration = time.Duration(math.MaxInt32) * time.Millisecond
)

// Options configures the cache. MaxSize is required; every other field has
// a usable default.
type Options struct {
	// MaxSize is the byte budget shared by all resident entries
	MaxSize uint64

	// ScavengeInterval is the period between timer-driven scavenge passes
	ScavengeInterval time.Duration

	// InitialScavengeDelay is the delay before the first timer-driven pass
	InitialScavengeDelay time.Duration

	// ScavengeTimeLimit bounds the wall-clock duration of a single pass;
	// a pass that exceeds it aborts mid-walk and the next pass resumes
	ScavengeTimeLimit time.Duration

	// CleanupThreshold is a fraction of MaxSize in (0, 1]. When a
	// timer-driven pass finds the cumulative size above
	// CleanupThreshold*MaxSize it also evicts from the LRU tail until the
	// threshold is met.
	CleanupThreshold float64

	// TTL is the entry lifetime used by timer-driven expiry
	TTL time.Duration

	// DisableExpiry turns off lifetime-based removal; entries then leave
	// the cache only through eviction, removal, clear or disposal
	DisableExpiry bool

	// InitialCapacity pre-sizes the key index
	InitialCapacity int

	// TimeSource replaces the wall clock, for testing
	TimeSource clock.TimeSource

	// Logger receives structured logs; defaults to a noop logger
	Logger log.Logger

	// MetricsScope receives cache metrics; defaults to a noop scope
	MetricsScope metrics.Scope
}

// clampDuration maps negative durations to "never"
func clampDuration(d time.Duration) time.Duration {
	if d < 0 {
		return maxClampedDuration
	}
	return d
}

func (opts *Options) normalize() *Options {
	norm := *opts

	norm.ScavengeInterval = clampDuration(norm.ScavengeInterval)
	norm.InitialScavengeDelay = clampDuration(norm.InitialScavengeDelay)
	norm.ScavengeTimeLimit = clampDuration(norm.ScavengeTimeLimit)
	norm.TTL = clampDuration(norm.TTL)

	if norm.ScavengeInterval == 0 {
		norm.ScavengeInterval = DefaultScavengeInterval
	}
	if norm.InitialScavengeDelay == 0 {
		norm.InitialScavengeDelay = DefaultInitialScavengeDelay
	}
	if norm.ScavengeTimeLimit == 0 {
		norm.ScavengeTimeLimit = DefaultScavengeTimeLimit
	}
	if norm.TTL == 0 {
		norm.TTL = DefaultTTL
	}
	if norm.CleanupThreshold == 0 {
		norm.CleanupThreshold = DefaultCleanupThreshold
	}
	if norm.InitialCapacity <= 0 {
		norm.InitialCapacity = DefaultInitialCapacity
	}
	if norm.TimeSource == nil {
		norm.TimeSource = clock.NewRealTimeSource()
	}
	if norm.Logger == nil {
		norm.Logger = log.NewNoop()
	}
	if norm.MetricsScope == nil {
		norm.MetricsScope = metrics.NoopScope()
	}
	return &norm
}

func (opts *Options) validate() {
	if opts == nil || opts.MaxSize == 0 {
		panic("MaxSize (byte budget) option must be provided for the LRU cache")
	}
	if opts.CleanupThreshold < 0 || opts.CleanupThreshold > 1 {
		panic("CleanupThreshold option must be a fraction in (0, 1]")
	}
}
