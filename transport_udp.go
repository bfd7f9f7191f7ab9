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
	"context"
	"net"
	"os"

	"golang.org/x/sys/unix"

	errorx "github.com/pingpong-bench/pingpong/pkg/errors"
)

// udpTransport is a connected UDP socket, so recvmsg(2) and write(2) need no
// address and the kernel drops datagrams from anybody but the peer.
type udpTransport struct {
	rawConn
}

func (t *udpTransport) Mode() Mode { return Datagram }

func (t *udpTransport) Send(p []byte) (int, error) {
	if t.closed.Load() {
		return 0, errSendClosed
	}
	return t.write(p)
}

func (t *udpTransport) Receive(p []byte) (int, error) {
	if t.closed.Load() {
		return 0, errReceiveClosed
	}
	n, err := t.readMsg(p)
	switch err {
	case nil:
		// A zero-length datagram is the goodbye sent by a closing peer.
		return n, nil
	case errReceiveTruncated:
		return 0, err
	case unix.EAGAIN:
		return 0, t.wouldBlock()
	case unix.ECONNREFUSED, unix.ECONNRESET:
		// An ICMP port unreachable came back for an earlier send, nobody is
		// listening on the other side anymore.
		return 0, nil
	}
	return 0, errorx.NewFatal("receive", os.NewSyscallError("recvmsg", err))
}

func (t *udpTransport) SetBusy(enabled bool) error {
	if t.closed.Load() {
		return errSetBusyClosed
	}
	return t.setNonblock(enabled)
}

// readMsg reads one datagram into p, a datagram longer than p fails with
// errReceiveTruncated instead of being cut short.
func (t *udpTransport) readMsg(p []byte) (int, error) {
	for {
		n, _, flags, _, err := unix.Recvmsg(t.fd, p, nil, 0)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		if flags&unix.MSG_TRUNC != 0 {
			return 0, errReceiveTruncated
		}
		return n, nil
	}
}

// Close sends a best-effort zero-length datagram before releasing the socket,
// so that a peer blocked in Receive learns the association is over.
func (t *udpTransport) Close() error {
	return t.close(func() {
		if t.raddr != nil {
			_ = unix.Sendto(t.fd, nil, unix.MSG_DONTWAIT, nil)
		}
	})
}

// associate connects an unconnected datagram socket to the sender of the
// first datagram, which is left queued for the next Receive.
func associate(ctx context.Context, tr Transport) error {
	t, ok := tr.(*udpTransport)
	if !ok {
		return errorx.ErrUnsupportedMode
	}

	stop := context.AfterFunc(ctx, func() { _ = t.Shutdown() })
	defer stop()

	var peek [1]byte
	for {
		_, from, err := unix.Recvfrom(t.fd, peek[:], unix.MSG_PEEK)
		if err == unix.EINTR {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return errorx.NewFatal("associate", os.NewSyscallError("recvfrom", err))
		}
		if from == nil {
			continue
		}
		if err = unix.Connect(t.fd, from); err != nil {
			return errorx.NewFatal("associate", os.NewSyscallError("connect", err))
		}
		t.raddr = sockaddrToUDPAddr(from)
		return nil
	}
}

func sockaddrToUDPAddr(sa unix.Sockaddr) net.Addr {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.UDPAddr{IP: net.IP(append([]byte(nil), sa.Addr[:]...)), Port: sa.Port}
	case *unix.SockaddrInet6:
		var zone string
		if sa.ZoneId != 0 {
			if ifi, err := net.InterfaceByIndex(int(sa.ZoneId)); err == nil {
				zone = ifi.Name
			}
		}
		return &net.UDPAddr{IP: net.IP(append([]byte(nil), sa.Addr[:]...)), Port: sa.Port, Zone: zone}
	}
	return nil
}
