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

// Package cache provides a concurrent, byte-bounded LRU cache for payloads
// that own heavyweight external resources (file handles, mapped buffers,
// network-sourced byte streams). The cache owns every payload it admits and
// releases each one exactly once, on eviction, expiry, explicit removal,
// replacement, clear or disposal.
package cache

import (
	"time"
)

type (
	// Payload is the contract a cached value must satisfy. ByteSize is
	// sampled once at insertion and must stay stable for the payload's
	// lifetime. Release surrenders the payload's external resources and is
	// called exactly once by the cache; callers must never release a
	// payload they have handed to the cache.
	Payload interface {
		ByteSize() uint64
		Release() error
	}

	// Cache is the interface to the byte-bounded LRU cache. Keys must be
	// comparable. All methods are safe for concurrent use.
	Cache interface {
		// Put admits a new payload under key. It fails with
		// ErrDuplicateKey if the key is already present, with
		// ErrEntryOversized if the payload alone exceeds the byte budget,
		// and with ErrCacheDisposed after Dispose. A failed Put has no
		// effect and does not release the payload; the caller retains
		// ownership.
		Put(key interface{}, payload Payload) error

		// Get returns the payload stored under key and promotes it to
		// most recently used. It fails with ErrKeyNotFound if the key is
		// absent and with ErrCacheDisposed after Dispose.
		Get(key interface{}) (Payload, error)

		// Contains reports whether key is present. It delegates to Get,
		// so a hit promotes the entry as a side effect.
		Contains(key interface{}) (bool, error)

		// Replace swaps the payload stored under key for a new one,
		// releasing the displaced payload. It fails with ErrKeyNotFound
		// if the key is absent.
		Replace(key interface{}, payload Payload) error

		// Remove deletes the entry stored under key, releasing its
		// payload. It reports whether the key was present.
		Remove(key interface{}) (bool, error)

		// RemovePair deletes the entry stored under key only if its
		// resident payload is the given one.
		RemovePair(key interface{}, payload Payload) (bool, error)

		// Clear removes every entry, releasing each payload exactly once.
		// Release errors are aggregated into the returned error.
		Clear() error

		// Dispose stops the scavenger, clears the cache and marks it
		// disposed. It is idempotent; afterwards every other method that
		// returns an error fails with ErrCacheDisposed, and Count, Size,
		// Keys, Values and Iterator report an empty cache.
		Dispose() error

		// Count returns the number of resident entries.
		Count() int

		// Size returns the cumulative byte size of resident entries.
		Size() uint64

		// Capacity returns the configured byte budget.
		Capacity() uint64

		// Keys returns the resident keys in recency order, most recently
		// used first.
		Keys() []interface{}

		// Values returns the resident payloads in recency order, most
		// recently used first.
		Values() []Payload

		// Iterator returns an iterator over entries in recency order.
		// The iterator holds the cache lock until Close is called; access
		// to the cache from the iterating goroutine before Close will
		// dead lock.
		Iterator() Iterator
	}

	// Entry is a view of a cached entry
	Entry interface {
		Key() interface{}
		Payload() Payload
		CreateTime() time.Time
	}

	// Iterator is the interface for iterating over cache entries
	Iterator interface {
		// HasNext return true if there is more items to be returned
		HasNext() bool
		// Next return the next item
		Next() Entry
		// Close closes the iterator and releases the cache lock
		Close()
	}
)
