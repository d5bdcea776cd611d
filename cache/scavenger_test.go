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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/uber/blobcache/clock"
)

func TestTimerDrivenExpiry(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := New(&Options{
		MaxSize:              2000,
		TTL:                  time.Millisecond,
		ScavengeInterval:     50 * time.Millisecond,
		InitialScavengeDelay: 50 * time.Millisecond,
	})
	defer c.Dispose()

	payloads := make([]*testPayload, 100)
	for i := range payloads {
		payloads[i] = newTestPayload(1)
		require.NoError(t, c.Put(i, payloads[i]))
	}

	require.Eventually(t, func() bool { return c.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, c.Size())
	for _, p := range payloads {
		assert.Equal(t, 1, p.releaseCount())
	}
	assertInvariants(t, c)
}

func TestPartialExpiry(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := New(&Options{
		MaxSize:              1000,
		TTL:                  time.Second,
		ScavengeInterval:     50 * time.Millisecond,
		InitialScavengeDelay: 10 * time.Millisecond,
	})
	defer c.Dispose()

	early := make([]*testPayload, 10)
	for i := range early {
		early[i] = newTestPayload(1)
		require.NoError(t, c.Put(i, early[i]))
	}

	time.Sleep(700 * time.Millisecond)

	late := make([]*testPayload, 20)
	for i := range late {
		late[i] = newTestPayload(1)
		require.NoError(t, c.Put(100+i, late[i]))
	}

	require.Eventually(t, func() bool { return c.Count() == 20 }, 2*time.Second, 10*time.Millisecond)

	for _, p := range early {
		assert.Equal(t, 1, p.releaseCount())
	}
	for i, p := range late {
		assert.Zero(t, p.releaseCount())
		_, err := c.Get(100 + i)
		assert.NoError(t, err)
	}
	assertInvariants(t, c)
}

func TestExpiryWithMockedTime(t *testing.T) {
	defer goleak.VerifyNone(t)

	ts := clock.NewMockedTimeSource()
	c := New(&Options{
		MaxSize:              1000,
		TTL:                  time.Hour,
		ScavengeInterval:     time.Minute,
		InitialScavengeDelay: time.Second,
		TimeSource:           ts,
	})
	defer c.Dispose()

	old := newTestPayload(1)
	require.NoError(t, c.Put("old", old))

	// the scavenger is parked on its initial timer
	ts.BlockUntil(1)
	ts.Advance(40 * time.Minute)

	// the first pass finds nothing expired and parks on the ticker
	ts.BlockUntil(1)
	fresh := newTestPayload(1)
	require.NoError(t, c.Put("fresh", fresh))

	// at +71m the old entry is past its lifetime, the fresh one is not
	ts.Advance(31 * time.Minute)
	require.Eventually(t, func() bool { return c.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, old.releaseCount())
	assert.Zero(t, fresh.releaseCount())
	_, err := c.Get("old")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = c.Get("fresh")
	assert.NoError(t, err)
	assertInvariants(t, c)
}

func TestDisabledExpiryKeepsEntries(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := New(&Options{
		MaxSize:              1000,
		DisableExpiry:        true,
		TTL:                  time.Millisecond,
		ScavengeInterval:     20 * time.Millisecond,
		InitialScavengeDelay: 10 * time.Millisecond,
	})
	defer c.Dispose()

	for i := 0; i < 10; i++ {
		require.NoError(t, c.Put(i, newTestPayload(1)))
	}

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 10, c.Count())
}

func TestCleanupThresholdShrinksResidentSet(t *testing.T) {
	defer goleak.VerifyNone(t)

	ts := clock.NewMockedTimeSource()
	c := New(&Options{
		MaxSize:              1000,
		CleanupThreshold:     0.5,
		DisableExpiry:        true,
		ScavengeInterval:     time.Minute,
		InitialScavengeDelay: time.Second,
		TimeSource:           ts,
	})
	defer c.Dispose()

	payloads := make([]*testPayload, 10)
	for i := range payloads {
		payloads[i] = newTestPayload(100)
		require.NoError(t, c.Put(i, payloads[i]))
	}
	require.Equal(t, uint64(1000), c.Size())

	ts.BlockUntil(1)
	ts.Advance(2 * time.Second)

	require.Eventually(t, func() bool { return c.Size() <= 500 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 5, c.Count())

	// the least recently used half went first
	for i := 0; i < 5; i++ {
		assert.Equal(t, 1, payloads[i].releaseCount())
	}
	for i := 5; i < 10; i++ {
		assert.Zero(t, payloads[i].releaseCount())
		_, err := c.Get(i)
		assert.NoError(t, err)
	}
	assertInvariants(t, c)
}

func TestDisposeStopsScavenger(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := New(&Options{
		MaxSize:              100,
		ScavengeInterval:     10 * time.Millisecond,
		InitialScavengeDelay: 10 * time.Millisecond,
	})

	require.NoError(t, c.Put("k", newTestPayload(1)))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, c.Dispose())
	require.NoError(t, c.Dispose())
}

func TestInlineEvictionWalksFromTail(t *testing.T) {
	c := New(quietOptions(4))
	defer c.Dispose()

	payloads := make([]*testPayload, 4)
	for i := range payloads {
		payloads[i] = newTestPayload(1)
		require.NoError(t, c.Put(i, payloads[i]))
	}

	// a 3-byte insert must claim the three least recently used slots
	require.NoError(t, c.Put("wide", newTestPayload(3)))

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, payloads[i].releaseCount())
	}
	assert.Zero(t, payloads[3].releaseCount())
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, uint64(4), c.Size())
	assertInvariants(t, c)
}
