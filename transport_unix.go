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

package pingpong

import (
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	errorx "github.com/pingpong-bench/pingpong/pkg/errors"
	"github.com/pingpong-bench/pingpong/pkg/socket"
)

// Pre-built so that a spinning receive does not allocate.
var (
	errSendWouldBlock    = errorx.NewTransient("send")
	errReceiveWouldBlock = errorx.NewTransient("receive")
	errReceiveTimeout    = errorx.NewFatal("receive", errorx.ErrReceiveTimeout)
	errReceiveTruncated  = errorx.NewFatal("receive", errorx.ErrTruncatedDatagram)
	errSendClosed        = errorx.NewFatal("send", errorx.ErrTransportClosed)
	errReceiveClosed     = errorx.NewFatal("receive", errorx.ErrTransportClosed)
	errSetBusyClosed     = errorx.NewFatal("set_busy", errorx.ErrTransportClosed)
)

// Enroll takes over the descriptor of c and returns a transport driving it
// directly, c can be closed once Enroll returns.
func Enroll(mode Mode, c net.Conn, s *Settings) (Transport, error) {
	var (
		t  Transport
		rc *rawConn
	)
	switch mode {
	case Stream:
		tt := new(tcpTransport)
		t, rc = tt, &tt.rawConn
	case Datagram:
		ut := new(udpTransport)
		t, rc = ut, &ut.rawConn
	default:
		return nil, errorx.ErrUnsupportedMode
	}

	fd, err := socket.Dup(c)
	if err != nil {
		return nil, err
	}
	rc.fd, rc.laddr, rc.raddr = fd, c.LocalAddr(), c.RemoteAddr()
	if err = rc.applySettings(s); err != nil {
		_ = socket.Close(fd)
		return nil, err
	}
	return t, nil
}

// rawConn is the part shared by both transports, a socket descriptor read and
// written with plain syscalls so that a non-blocking read returns EAGAIN
// straight away instead of parking the goroutine on the netpoller.
type rawConn struct {
	fd    int
	busy  bool
	laddr net.Addr
	raddr net.Addr

	mu     sync.Mutex // serializes Shutdown and Close
	closed atomic.Bool
}

func (c *rawConn) applySettings(s *Settings) error {
	if s == nil {
		return nil
	}
	if s.SocketRecvBuffer > 0 {
		if err := socket.SetRecvBuffer(c.fd, s.SocketRecvBuffer); err != nil {
			return err
		}
	}
	if s.SocketSendBuffer > 0 {
		if err := socket.SetSendBuffer(c.fd, s.SocketSendBuffer); err != nil {
			return err
		}
	}
	if s.ReceiveTimeout > 0 {
		if err := socket.SetRecvTimeout(c.fd, s.ReceiveTimeout); err != nil {
			return err
		}
	}
	if s.KernelBusyPoll > 0 {
		if err := socket.SetKernelBusyPoll(c.fd, s.KernelBusyPoll); err != nil {
			return err
		}
	}
	return nil
}

func (c *rawConn) LocalAddr() net.Addr  { return c.laddr }
func (c *rawConn) RemoteAddr() net.Addr { return c.raddr }

func (c *rawConn) write(p []byte) (int, error) {
	for {
		n, err := unix.Write(c.fd, p)
		switch err {
		case nil:
			return n, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return 0, errSendWouldBlock
		}
		return 0, errorx.NewFatal("send", os.NewSyscallError("write", err))
	}
}

func (c *rawConn) read(p []byte) (int, error) {
	for {
		n, err := unix.Read(c.fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		return n, nil
	}
}

// wouldBlock maps EAGAIN: a busy descriptor has nothing ready yet, a blocking
// one only returns it when SO_RCVTIMEO expired.
func (c *rawConn) wouldBlock() error {
	if c.busy {
		return errReceiveWouldBlock
	}
	return errReceiveTimeout
}

func (c *rawConn) setNonblock(enabled bool) error {
	if err := socket.SetNonblock(c.fd, enabled); err != nil {
		return errorx.NewFatal("set_busy", err)
	}
	c.busy = enabled
	return nil
}

func (c *rawConn) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed.Load() {
		return nil
	}
	// A peer that already reset the connection leaves nothing to shut down.
	if err := socket.Shutdown(c.fd); err != nil && !errors.Is(err, unix.ENOTCONN) {
		return err
	}
	return nil
}

func (c *rawConn) close(goodbye func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed.Swap(true) {
		return nil
	}
	if goodbye != nil {
		goodbye()
	}
	return socket.Close(c.fd)
}
