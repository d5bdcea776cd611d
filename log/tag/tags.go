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

package tag

import (
	"time"
)

// All logging tags are defined in this file.

// /////////////////  Common tags defined here ///////////////////

// Error returns tag for Error
func Error(err error) Tag {
	return newErrorTag("error", err)
}

// Timestamp returns tag for Timestamp
func Timestamp(timestamp time.Time) Tag {
	return newTimeTag("timestamp", timestamp)
}

// Duration returns tag for Duration
func Duration(d time.Duration) Tag {
	return newDurationTag("duration", d)
}

// SysStackTrace returns tag for SysStackTrace
func SysStackTrace(stackTrace string) Tag {
	return newStringTag("sys-stack-trace", stackTrace)
}

// Dynamic returns a tag with a dynamic value
func Dynamic(key string, v interface{}) Tag {
	return newAnyTag(key, v)
}

// /////////////////  Cache tags defined here ///////////////////

// CacheKey returns tag for the key of a cache entry
func CacheKey(key interface{}) Tag {
	return newAnyTag("cache-key", key)
}

// Count returns tag for a count of entries
func Count(count int) Tag {
	return newInt("count", count)
}

// Bytes returns tag for a byte size
func Bytes(size uint64) Tag {
	return newUint64("bytes", size)
}

// CapacityBytes returns tag for the configured byte budget
func CapacityBytes(capacity uint64) Tag {
	return newUint64("capacity-bytes", capacity)
}

// ExpiryEnabled returns tag for whether entries carry expiration dates
func ExpiryEnabled(enabled bool) Tag {
	return newBoolTag("expiry-enabled", enabled)
}

// ScavengeExamined returns tag for the number of entries a scavenge pass visited
func ScavengeExamined(n int) Tag {
	return newInt("scavenge-examined", n)
}

// ScavengeRemoved returns tag for the number of entries a scavenge pass removed
func ScavengeRemoved(n int) Tag {
	return newInt("scavenge-removed", n)
}

// /////////////////  System tags defined here ///////////////////

func component(v string) Tag {
	return newStringTag("component", v)
}

// ComponentCache is the tag for the cache facade
var ComponentCache = component("lru-cache")

// ComponentScavenger is the tag for the background scavenger
var ComponentScavenger = component("cache-scavenger")
