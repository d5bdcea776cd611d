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

package metrics

// All metric names emitted by the cache are defined in this file.
const (
	// CacheHit is incremented on every lookup that returns a payload
	CacheHit = "cache_hit"
	// CacheMiss is incremented on every lookup of an absent key
	CacheMiss = "cache_miss"
	// CacheEviction is incremented for every entry removed to satisfy the byte budget
	CacheEviction = "cache_eviction"
	// CacheExpiry is incremented for every entry removed because its lifetime elapsed
	CacheExpiry = "cache_expiry"
	// CacheReleaseError is incremented when a payload's release hook returns an error
	CacheReleaseError = "cache_release_error"
	// ScavengeAbort is incremented when a scavenge pass hits its wall-clock budget
	ScavengeAbort = "scavenge_abort"

	// CacheByteSize reports the cumulative byte size of resident entries
	CacheByteSize = "cache_byte_size"
	// CacheEntryCount reports the number of resident entries
	CacheEntryCount = "cache_entry_count"

	// ScavengeLatency records the duration of each timer-driven scavenge pass
	ScavengeLatency = "scavenge_latency"
)
