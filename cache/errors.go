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

import "errors"

var (
	// ErrCacheDisposed is returned by every method other than Dispose that
	// has an error result, once the cache has been disposed
	ErrCacheDisposed = errors.New("cache has been disposed")

	// ErrDuplicateKey is returned by Put if the key is already present
	ErrDuplicateKey = errors.New("key is already present in the cache")

	// ErrKeyNotFound is returned by Get and Replace if the key is absent
	ErrKeyNotFound = errors.New("key is not present in the cache")

	// ErrEntryOversized is returned by Put and Replace if the payload's
	// byte size alone exceeds the cache's byte budget
	ErrEntryOversized = errors.New("payload is larger than the cache byte budget")
)
