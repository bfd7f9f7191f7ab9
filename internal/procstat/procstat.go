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

// Package procstat measures the CPU time the current process spends over an
// interval, which is what busy-polling trades for wake-up latency.
package procstat

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Usage is the CPU time consumed between Start and Stop.
type Usage struct {
	User   time.Duration
	System time.Duration
	Wall   time.Duration
}

// Sampler snapshots the CPU times of the current process.
type Sampler struct {
	proc      *process.Process
	user, sys float64
	startedAt time.Time
	started   bool
}

// New returns a sampler for the current process.
func New() (*Sampler, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Sampler{proc: p}, nil
}

// Start takes the opening snapshot.
func (s *Sampler) Start() error {
	t, err := s.proc.Times()
	if err != nil {
		return err
	}
	s.user, s.sys = t.User, t.System
	s.startedAt, s.started = time.Now(), true
	return nil
}

// Stop takes the closing snapshot and returns the usage since Start.
func (s *Sampler) Stop() (Usage, error) {
	if !s.started {
		return Usage{}, nil
	}
	wall := time.Since(s.startedAt)
	t, err := s.proc.Times()
	if err != nil {
		return Usage{Wall: wall}, err
	}
	return Usage{
		User:   seconds(t.User - s.user),
		System: seconds(t.System - s.sys),
		Wall:   wall,
	}, nil
}

func seconds(f float64) time.Duration {
	if f < 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}
