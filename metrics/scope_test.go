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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
)

func TestScopeRecordsToTally(t *testing.T) {
	testScope := tally.NewTestScope("", nil)
	scope := NewScope(testScope)

	scope.IncCounter(CacheHit)
	scope.IncCounter(CacheHit)
	scope.AddCounter(CacheEviction, 3)
	scope.UpdateGauge(CacheByteSize, 4096)
	scope.RecordTimer(ScavengeLatency, 25*time.Millisecond)

	snapshot := testScope.Snapshot()

	hits, ok := snapshot.Counters()[CacheHit+"+"]
	require.True(t, ok)
	assert.EqualValues(t, 2, hits.Value())

	evictions, ok := snapshot.Counters()[CacheEviction+"+"]
	require.True(t, ok)
	assert.EqualValues(t, 3, evictions.Value())

	size, ok := snapshot.Gauges()[CacheByteSize+"+"]
	require.True(t, ok)
	assert.EqualValues(t, 4096, size.Value())

	latency, ok := snapshot.Timers()[ScavengeLatency+"+"]
	require.True(t, ok)
	require.Len(t, latency.Values(), 1)
	assert.Equal(t, 25*time.Millisecond, latency.Values()[0])
}

func TestNoopScopeDiscards(t *testing.T) {
	scope := NoopScope()
	scope.IncCounter(CacheMiss)
	scope.UpdateGauge(CacheEntryCount, 1)
	scope.RecordTimer(ScavengeLatency, time.Second)
}
