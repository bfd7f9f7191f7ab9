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
package pingpong

import (
	"context"
	"errors"
	"math"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorx "github.com/pingpong-bench/pingpong/pkg/errors"
)

type step struct {
	data []byte
	err  error
}

// scriptedTransport replays a fixed sequence of receive results.
type scriptedTransport struct {
	steps []step
	calls int
	sent  [][]byte
}

func (t *scriptedTransport) Send(p []byte) (int, error) {
	t.sent = append(t.sent, append([]byte(nil), p...))
	return len(p), nil
}

func (t *scriptedTransport) Receive(p []byte) (int, error) {
	if t.calls >= len(t.steps) {
		return 0, nil
	}
	st := t.steps[t.calls]
	t.calls++
	if st.err != nil {
		return 0, st.err
	}
	return copy(p, st.data), nil
}

func (t *scriptedTransport) SetBusy(bool) error   { return nil }
func (t *scriptedTransport) Mode() Mode           { return Stream }
func (t *scriptedTransport) LocalAddr() net.Addr  { return nil }
func (t *scriptedTransport) RemoteAddr() net.Addr { return nil }
func (t *scriptedTransport) Shutdown() error      { return nil }
func (t *scriptedTransport) Close() error         { return nil }

func transient(n int) []step {
	steps := make([]step, n)
	for i := range steps {
		steps[i] = step{err: errorx.NewTransient("receive")}
	}
	return steps
}

func TestReadBusyUntilSome(t *testing.T) {
	t.Run("data", func(t *testing.T) {
		tr := &scriptedTransport{steps: append(transient(1000), step{data: []byte("pong")})}
		buf := make([]byte, 16)
		n, err := ReadBusyUntilSome(tr, buf)
		require.NoError(t, err)
		assert.Equal(t, "pong", string(buf[:n]))
		assert.Equal(t, 1001, tr.calls)
	})

	t.Run("peer-closed", func(t *testing.T) {
		tr := &scriptedTransport{steps: append(transient(3), step{data: []byte{}})}
		n, err := ReadBusyUntilSome(tr, make([]byte, 16))
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, 4, tr.calls)
	})

	t.Run("peer-closed-kind", func(t *testing.T) {
		peerGone := &errorx.TransportError{Kind: errorx.KindPeerClosed, Op: "receive"}
		tr := &scriptedTransport{steps: append(transient(2), step{err: peerGone})}
		n, err := ReadBusyUntilSome(tr, make([]byte, 16))
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("wrapped-transient", func(t *testing.T) {
		wrapped := errors.Join(errors.New("context"), errorx.ErrWouldBlock)
		tr := &scriptedTransport{steps: []step{{err: wrapped}, {data: []byte("x")}}}
		n, err := ReadBusyUntilSome(tr, make([]byte, 16))
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("fatal", func(t *testing.T) {
		boom := errorx.NewFatal("receive", errors.New("boom"))
		tr := &scriptedTransport{steps: append(transient(5), step{err: boom}, step{data: []byte("never")})}
		n, err := ReadBusyUntilSome(tr, make([]byte, 16))
		assert.Zero(t, n)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, errorx.KindFatal, errorx.KindOf(err))
		assert.Equal(t, 6, tr.calls)
	})
}

func TestReceiveFull(t *testing.T) {
	t.Run("stream-reassembles", func(t *testing.T) {
		tr := &scriptedTransport{steps: []step{{data: []byte("he")}, {err: errorx.NewTransient("receive")}, {data: []byte("llo")}}}
		buf := make([]byte, 5)
		require.NoError(t, receiveFull(Stream, tr.Receive, buf))
		assert.Equal(t, "hello", string(buf))
	})

	t.Run("datagram-must-be-whole", func(t *testing.T) {
		tr := &scriptedTransport{steps: []step{{data: []byte("he")}}}
		assert.ErrorIs(t, receiveFull(Datagram, tr.Receive, make([]byte, 5)), errorx.ErrCorruptEcho)
	})

	t.Run("peer-closed", func(t *testing.T) {
		tr := &scriptedTransport{steps: []step{{data: []byte("he")}, {data: []byte{}}}}
		assert.ErrorIs(t, receiveFull(Stream, tr.Receive, make([]byte, 5)), errorx.ErrPeerClosed)
	})
}

// echoTransport hands every sent buffer back on the next receive.
type echoTransport struct {
	scriptedTransport
	pending []byte
	corrupt bool
}

func (t *echoTransport) Send(p []byte) (int, error) {
	t.pending = append(t.pending[:0], p...)
	if t.corrupt {
		t.pending[0] ^= 0xFF
	}
	return len(p), nil
}

func (t *echoTransport) Receive(p []byte) (int, error) {
	n := copy(p, t.pending)
	t.pending = t.pending[n:]
	return n, nil
}

func TestRunPingerOverEcho(t *testing.T) {
	s := NewSettings(WithMode(Stream), WithWarmUpCount(5), WithMsgCount(50), WithMsgSize(128))
	summary, err := RunPinger(context.Background(), &echoTransport{}, s)
	require.NoError(t, err)
	assert.Equal(t, 50, summary.Count)

	_, err = RunPinger(context.Background(), &echoTransport{corrupt: true}, s)
	assert.ErrorIs(t, err, errorx.ErrCorruptEcho)

	_, err = RunPinger(context.Background(), &echoTransport{}, NewSettings(WithMode(Stream), WithMsgCount(0)))
	assert.ErrorIs(t, err, errorx.ErrZeroMessageCount)

	_, err = RunPinger(context.Background(), &echoTransport{}, NewSettings(WithMode(Stream), WithWarmUpCount(0), WithMsgCount(1<<63)))
	assert.ErrorIs(t, err, errorx.ErrMessageCountOverflow)

	_, err = RunPinger(context.Background(), &echoTransport{}, NewSettings(WithMode(Stream), WithWarmUpCount(math.MaxUint64), WithMsgCount(2)))
	assert.ErrorIs(t, err, errorx.ErrMessageCountOverflow)
}

func TestRunPongerEchoes(t *testing.T) {
	tr := &scriptedTransport{steps: []step{
		{data: []byte("one")},
		{err: errorx.NewTransient("receive")},
		{data: []byte("two")},
		{data: []byte{}},
	}}
	n, err := RunPonger(context.Background(), tr, NewSettings(WithMode(Datagram), WithDiscipline(BusyPoll)))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, [][]byte{[]byte("one"), []byte("two")}, tr.sent)
}
