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
//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package socket

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func loopbackPair(t *testing.T) (client, server net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close() //nolint:errcheck

	client, err = net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	server, err = ln.Accept()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	return
}

func TestDup(t *testing.T) {
	client, server := loopbackPair(t)

	fd, err := Dup(client)
	require.NoError(t, err)
	defer Close(fd) //nolint:errcheck

	nb, err := Nonblock(fd)
	require.NoError(t, err)
	assert.False(t, nb, "the duplicate must start out blocking")

	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	require.NoError(t, err)
	assert.NotZero(t, flags&unix.FD_CLOEXEC)

	// The duplicate still works once the original is gone.
	require.NoError(t, client.Close())
	n, err := unix.Write(fd, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	buf := make([]byte, 5)
	require.NoError(t, server.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err = server.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf))
}

func TestDupRejectsForeignConn(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close() //nolint:errcheck
	defer b.Close() //nolint:errcheck

	fd, err := Dup(a)
	assert.Error(t, err)
	assert.Equal(t, -1, fd)
}

func TestSockOpts(t *testing.T) {
	client, _ := loopbackPair(t)
	fd, err := Dup(client)
	require.NoError(t, err)
	defer Close(fd) //nolint:errcheck

	for _, on := range []bool{true, true, false, false} {
		require.NoError(t, SetNonblock(fd, on))
		nb, err := Nonblock(fd)
		require.NoError(t, err)
		assert.Equal(t, on, nb)

		v := 0
		if on {
			v = 1
		}
		require.NoError(t, SetNoDelay(fd, v))
		nd, err := NoDelay(fd)
		require.NoError(t, err)
		assert.Equal(t, on, nd)
	}

	require.NoError(t, SetRecvBuffer(fd, 1<<16))
	require.NoError(t, SetSendBuffer(fd, 1<<16))
	require.NoError(t, SetRecvTimeout(fd, 20*time.Millisecond))

	// With nothing to read the blocking read gives up once the timeout expired.
	start := time.Now()
	_, err = unix.Read(fd, make([]byte, 1))
	assert.ErrorIs(t, err, unix.EAGAIN)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestControl(t *testing.T) {
	lc := net.ListenConfig{Control: Control([]Option[int]{{SetSockOpt: SetReuseAddr, Opt: 1}})}
	ln, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close() //nolint:errcheck

	rc, err := ln.(*net.TCPListener).SyscallConn()
	require.NoError(t, err)
	var reuse int
	require.NoError(t, rc.Control(func(fd uintptr) {
		reuse, err = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR)
	}))
	require.NoError(t, err)
	assert.NotZero(t, reuse)
}

func TestShutdownWakesBlockedRead(t *testing.T) {
	client, _ := loopbackPair(t)
	fd, err := Dup(client)
	require.NoError(t, err)
	defer Close(fd) //nolint:errcheck

	done := make(chan int, 1)
	go func() {
		n, _ := unix.Read(fd, make([]byte, 8))
		done <- n
	}()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, Shutdown(fd))

	select {
	case n := <-done:
		assert.Zero(t, n)
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not wake up the blocked read")
	}
}
