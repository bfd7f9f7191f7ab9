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
package procstat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	u, err := s.Stop()
	require.NoError(t, err)
	assert.Equal(t, Usage{}, u)

	require.NoError(t, s.Start())
	deadline := time.Now().Add(50 * time.Millisecond)
	x := 0
	for time.Now().Before(deadline) {
		x++
	}
	u, err = s.Stop()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, u.Wall, 50*time.Millisecond)
	assert.GreaterOrEqual(t, u.User+u.System, time.Duration(0))
	assert.Positive(t, x)
}

func TestSecondsClampsNegative(t *testing.T) {
	assert.Zero(t, seconds(-0.5))
	assert.Equal(t, 1500*time.Millisecond, seconds(1.5))
}
