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
	"time"

	"github.com/uber-go/tally"
)

type (
	// Scope is the interface through which the cache emits metrics
	Scope interface {
		// IncCounter increments a counter metric
		IncCounter(name string)
		// AddCounter adds delta to a counter metric
		AddCounter(name string, delta int64)
		// UpdateGauge reports the current value of a gauge metric
		UpdateGauge(name string, value float64)
		// RecordTimer records a duration
		RecordTimer(name string, d time.Duration)
	}

	tallyScope struct {
		scope tally.Scope
	}
)

// NewScope builds a Scope backed by a tally scope
func NewScope(scope tally.Scope) Scope {
	return &tallyScope{scope: scope}
}

// NoopScope returns a Scope that discards everything
func NoopScope() Scope {
	return &tallyScope{scope: tally.NoopScope}
}

func (s *tallyScope) IncCounter(name string) {
	s.scope.Counter(name).Inc(1)
}

func (s *tallyScope) AddCounter(name string, delta int64) {
	s.scope.Counter(name).Inc(delta)
}

func (s *tallyScope) UpdateGauge(name string, value float64) {
	s.scope.Gauge(name).Update(value)
}

func (s *tallyScope) RecordTimer(name string, d time.Duration) {
	s.scope.Timer(name).Record(d)
}
