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
package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"debug": DebugLevel,
		"info":  InfoLevel,
		"WARN":  WarnLevel,
		"error": ErrorLevel,
		"-1":    DebugLevel,
		"2":     ErrorLevel,
	} {
		lvl, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, lvl, in)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestCreateLoggerAsLocalFile(t *testing.T) {
	_, _, err := CreateLoggerAsLocalFile("", InfoLevel)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "pingpong.log")
	logger, flush, err := CreateLoggerAsLocalFile(path, InfoLevel)
	require.NoError(t, err)
	logger.Debugf("dropped %d", 1)
	logger.Infof("kept %d", 2)
	require.NoError(t, flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "[pingpong] "))
	assert.Contains(t, out, "kept 2")
	assert.NotContains(t, out, "dropped")
}

func TestWith(t *testing.T) {
	require.NotNil(t, GetDefaultLogger())
	l := With("run", "abc")
	require.NotNil(t, l)
	assert.NotSame(t, GetDefaultLogger(), l)
	assert.NotEmpty(t, LogLevel())
}

// Replaces the default logger for the rest of the test binary, keep it last.
func TestSetDefaultLoggerAndFlusher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.log")
	logger, flush, err := CreateLoggerAsLocalFile(path, DebugLevel)
	require.NoError(t, err)

	SetDefaultLoggerAndFlusher(logger, flush)
	require.Same(t, logger, GetDefaultLogger())

	Errorf("run %s failed", "xyz")
	With("run", "abc").Infof("tagged")
	Cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "run xyz failed")
	assert.Contains(t, out, `"run": "abc"`)

	other, _, err := CreateLoggerAsLocalFile(filepath.Join(t.TempDir(), "ignored.log"), InfoLevel)
	require.NoError(t, err)
	SetDefaultLoggerAndFlusher(other, nil)
	assert.Same(t, logger, GetDefaultLogger(), "only the first setup is kept")
}
