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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestConcurrentPuts(t *testing.T) {
	defer goleak.VerifyNone(t)

	const n = 1000
	c := New(quietOptions(n))
	defer c.Dispose()

	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return c.Put(i, newTestPayload(1))
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, n, c.Count())
	assert.Equal(t, uint64(n), c.Size())
	for i := 0; i < n; i++ {
		_, err := c.Get(i)
		assert.NoError(t, err)
	}
	assertInvariants(t, c)
}

func TestConcurrentRemoves(t *testing.T) {
	defer goleak.VerifyNone(t)

	const n = 1000
	c := New(quietOptions(n))
	defer c.Dispose()

	payloads := make([]*testPayload, n)
	for i := 0; i < n; i++ {
		payloads[i] = newTestPayload(1)
		require.NoError(t, c.Put(i, payloads[i]))
	}

	var g errgroup.Group
	for i := 0; i < n; i += 2 {
		i := i
		g.Go(func() error {
			_, err := c.Remove(i)
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, n/2, c.Count())
	for i := 0; i < n; i++ {
		_, err := c.Get(i)
		if i%2 == 0 {
			assert.ErrorIs(t, err, ErrKeyNotFound)
			assert.Equal(t, 1, payloads[i].releaseCount())
		} else {
			assert.NoError(t, err)
			assert.Zero(t, payloads[i].releaseCount())
		}
	}
	assertInvariants(t, c)
}

func TestConcurrentMixedAccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	const n = 200
	c := New(quietOptions(n))
	defer c.Dispose()

	for i := 0; i < n; i++ {
		require.NoError(t, c.Put(i, newTestPayload(1)))
	}

	var g errgroup.Group
	for w := 0; w < 8; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < n; i++ {
				switch (i + w) % 3 {
				case 0:
					if _, err := c.Get(i); err != nil && err != ErrKeyNotFound {
						return err
					}
				case 1:
					if _, err := c.Contains(i); err != nil {
						return err
					}
				default:
					keys := c.Keys()
					if len(keys) > n {
						return ErrDuplicateKey
					}
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assertInvariants(t, c)
}

func TestDisposeDuringActiveUse(t *testing.T) {
	defer goleak.VerifyNone(t)

	const n = 500
	c := New(quietOptions(n))

	payloads := make([]*testPayload, n)
	for i := 0; i < n; i++ {
		payloads[i] = newTestPayload(1)
		require.NoError(t, c.Put(i, payloads[i]))
	}

	require.NoError(t, c.Dispose())

	assert.Zero(t, c.Count())
	assert.Zero(t, c.Size())
	assert.ErrorIs(t, c.Put("late", newTestPayload(1)), ErrCacheDisposed)
	require.NoError(t, c.Dispose())
	for _, p := range payloads {
		assert.Equal(t, 1, p.releaseCount())
	}
}
