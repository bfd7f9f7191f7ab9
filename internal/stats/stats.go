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

// Package stats aggregates round-trip samples into a latency summary.
package stats

import (
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	bbPool "github.com/pingpong-bench/pingpong/pkg/pool/bytebuffer"
)

// Recorder collects round-trip samples, it is not safe for concurrent use.
type Recorder struct {
	samples []time.Duration
}

// NewRecorder returns a recorder with room for n samples, so that Add does
// not allocate during a run of n exchanges.
func NewRecorder(n int) *Recorder {
	return &Recorder{samples: make([]time.Duration, 0, n)}
}

// Add records one sample.
func (r *Recorder) Add(d time.Duration) {
	r.samples = append(r.samples, d)
}

// Len returns the number of recorded samples.
func (r *Recorder) Len() int {
	return len(r.samples)
}

// Summary is the outcome of a run.
type Summary struct {
	Count  int
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	StdDev time.Duration
	P50    time.Duration
	P90    time.Duration
	P99    time.Duration
	P999   time.Duration

	// Elapsed is the wall-clock time of the measured phase.
	Elapsed time.Duration
	// UserCPU and SystemCPU are the CPU time the process consumed during the measured phase.
	UserCPU   time.Duration
	SystemCPU time.Duration
}

// Summary sorts the recorded samples and summarizes them.
func (r *Recorder) Summary() *Summary {
	s := &Summary{Count: len(r.samples)}
	if s.Count == 0 {
		return s
	}

	sorted := make([]time.Duration, len(r.samples))
	copy(sorted, r.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum float64
	for _, d := range sorted {
		sum += float64(d)
	}
	mean := sum / float64(s.Count)
	var sq float64
	for _, d := range sorted {
		diff := float64(d) - mean
		sq += diff * diff
	}

	s.Min, s.Max = sorted[0], sorted[s.Count-1]
	s.Mean = time.Duration(mean)
	s.StdDev = time.Duration(math.Sqrt(sq / float64(s.Count)))
	s.P50 = Percentile(sorted, 50)
	s.P90 = Percentile(sorted, 90)
	s.P99 = Percentile(sorted, 99)
	s.P999 = Percentile(sorted, 99.9)
	return s
}

// Percentile returns the nearest-rank p-th percentile of sorted, which must be
// in ascending order.
func Percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

// CPUUtilization is the share of one core the process kept busy during the
// measured phase, busy-polling drives it towards 1 per spinning role.
func (s *Summary) CPUUtilization() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.UserCPU+s.SystemCPU) / float64(s.Elapsed)
}

// WriteTo renders the summary as a short human-readable report.
func (s *Summary) WriteTo(w io.Writer) (int64, error) {
	buf := bbPool.Get()
	defer bbPool.Put(buf)

	line := func(name string, d time.Duration) {
		_, _ = buf.WriteString(name)
		_, _ = buf.WriteString(d.String())
		_ = buf.WriteByte('\n')
	}

	_, _ = buf.WriteString("messages:   ")
	buf.B = strconv.AppendInt(buf.B, int64(s.Count), 10)
	_ = buf.WriteByte('\n')
	line("min:        ", s.Min)
	line("mean:       ", s.Mean)
	line("max:        ", s.Max)
	line("stddev:     ", s.StdDev)
	line("p50:        ", s.P50)
	line("p90:        ", s.P90)
	line("p99:        ", s.P99)
	line("p99.9:      ", s.P999)
	if s.Elapsed > 0 {
		line("elapsed:    ", s.Elapsed)
		line("user cpu:   ", s.UserCPU)
		line("system cpu: ", s.SystemCPU)
		_, _ = buf.WriteString("cpu:        ")
		buf.B = strconv.AppendFloat(buf.B, s.CPUUtilization()*100, 'f', 1, 64)
		_, _ = buf.WriteString("%\n")
	}

	n, err := w.Write(buf.B)
	return int64(n), err
}
