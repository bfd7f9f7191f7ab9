// Copyright (c) 2026 The Pingpong Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	sorted := make([]time.Duration, 100)
	for i := range sorted {
		sorted[i] = time.Duration(i+1) * time.Microsecond
	}
	assert.Equal(t, 50*time.Microsecond, Percentile(sorted, 50))
	assert.Equal(t, 90*time.Microsecond, Percentile(sorted, 90))
	assert.Equal(t, 99*time.Microsecond, Percentile(sorted, 99))
	assert.Equal(t, 100*time.Microsecond, Percentile(sorted, 99.9))
	assert.Equal(t, 1*time.Microsecond, Percentile(sorted, 0))
	assert.Equal(t, 100*time.Microsecond, Percentile(sorted, 100))
	assert.Zero(t, Percentile(nil, 50))

	single := []time.Duration{7 * time.Millisecond}
	assert.Equal(t, 7*time.Millisecond, Percentile(single, 50))
	assert.Equal(t, 7*time.Millisecond, Percentile(single, 99.9))
}

func TestRecorderSummary(t *testing.T) {
	r := NewRecorder(4)
	for _, us := range []int{40, 10, 30, 20} {
		r.Add(time.Duration(us) * time.Microsecond)
	}
	require.Equal(t, 4, r.Len())

	s := r.Summary()
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 10*time.Microsecond, s.Min)
	assert.Equal(t, 40*time.Microsecond, s.Max)
	assert.Equal(t, 25*time.Microsecond, s.Mean)
	// population standard deviation of 10, 20, 30, 40 is sqrt(125) us
	assert.InDelta(t, 11180, float64(s.StdDev), 1)
	assert.Equal(t, 20*time.Microsecond, s.P50)
	assert.Equal(t, 40*time.Microsecond, s.P90)
	assert.Equal(t, 40*time.Microsecond, s.P999)

	// Summarizing leaves the recorded order alone.
	assert.Equal(t, 40*time.Microsecond, r.samples[0])
}

func TestEmptySummary(t *testing.T) {
	s := NewRecorder(0).Summary()
	assert.Zero(t, s.Count)
	assert.Zero(t, s.P99)
	assert.Zero(t, s.CPUUtilization())
}

func TestWriteTo(t *testing.T) {
	s := &Summary{
		Count: 3,
		Min:   time.Microsecond,
		Max:   3 * time.Microsecond,
		P50:   2 * time.Microsecond,
	}
	var sb strings.Builder
	n, err := s.WriteTo(&sb)
	require.NoError(t, err)
	out := sb.String()
	assert.EqualValues(t, len(out), n)
	assert.Contains(t, out, "messages:   3\n")
	assert.Contains(t, out, "p50:        2µs\n")
	assert.Contains(t, out, "p99.9:      0s\n")
	assert.NotContains(t, out, "cpu:")

	s.Elapsed, s.UserCPU, s.SystemCPU = time.Second, 600*time.Millisecond, 150*time.Millisecond
	assert.InDelta(t, 0.75, s.CPUUtilization(), 1e-9)
	sb.Reset()
	_, err = s.WriteTo(&sb)
	require.NoError(t, err)
	assert.Contains(t, sb.String(), "cpu:        75.0%\n")
}
