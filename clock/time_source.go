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

package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

type (
	// TimeSource is the interface through which all components obtain the
	// current time and construct timers/tickers, so that tests can
	// substitute a mocked source.
	TimeSource interface {
		clockwork.Clock
	}

	// MockedTimeSource is a TimeSource whose time only moves when the test
	// advances it.
	MockedTimeSource interface {
		TimeSource

		// Advance advances the fake clock's time by d, firing any timers
		// or tickers that become due.
		Advance(d time.Duration)
		// BlockUntil blocks until at least n goroutines are waiting on
		// timers created from this source.
		BlockUntil(n int)
	}

	realTimeSource struct {
		clockwork.Clock
	}

	mockedTimeSource struct {
		clockwork.FakeClock
	}
)

// NewRealTimeSource returns a TimeSource backed by the wall clock.
func NewRealTimeSource() TimeSource {
	return &realTimeSource{Clock: clockwork.NewRealClock()}
}

// NewMockedTimeSource returns a TimeSource for tests. It starts at an
// arbitrary non-zero time and only moves via Advance.
func NewMockedTimeSource() MockedTimeSource {
	return &mockedTimeSource{FakeClock: clockwork.NewFakeClock()}
}
