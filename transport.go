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
	"net"
	"sync"

	errorx "github.com/pingpong-bench/pingpong/pkg/errors"
	"github.com/pingpong-bench/pingpong/pkg/socket"
)

// Mode is the transport a run is made over.
type Mode uint8

const (
	// Stream is a TCP connection.
	Stream Mode = iota + 1
	// Datagram is a connected UDP association.
	Datagram
)

func (m Mode) String() string {
	switch m {
	case Stream:
		return "tcp"
	case Datagram:
		return "udp"
	default:
		return "unknown"
	}
}

func (m Mode) network() string {
	return m.String()
}

// Discipline is the way a receive waits for data.
type Discipline uint8

const (
	// Blocking suspends the calling thread in the kernel until data arrives.
	Blocking Discipline = iota
	// BusyPoll spins on a non-blocking receive until data arrives.
	BusyPoll
)

func (d Discipline) String() string {
	switch d {
	case Blocking:
		return "blocking"
	case BusyPoll:
		return "busy-poll"
	default:
		return "unknown"
	}
}

// Transport is one stream or datagram endpoint.
//
// A Transport is owned by exactly one goroutine, only Shutdown may be
// called concurrently with the other methods.
type Transport interface {
	// Send makes a single write and returns how many bytes the transport accepted,
	// a stream may accept fewer than len(p) while a datagram is all-or-nothing.
	Send(p []byte) (int, error)

	// Receive makes a single read into p. It returns (0, nil) once the peer is gone,
	// a *errors.TransportError of kind KindTransientUnavailable when the transport
	// is busy and nothing is ready yet, and a fatal *errors.TransportError otherwise.
	Receive(p []byte) (int, error)

	// SetBusy switches between spin-waiting (no send coalescing, non-blocking reads)
	// and OS-scheduled waiting (default coalescing, blocking reads). It is idempotent.
	SetBusy(enabled bool) error

	// Mode returns the transport mode.
	Mode() Mode

	// LocalAddr is the local address of the transport.
	LocalAddr() net.Addr

	// RemoteAddr is the address of the peer.
	RemoteAddr() net.Addr

	// Shutdown interrupts an in-flight blocking Receive, which then reports peer-closed.
	Shutdown() error

	// Close releases the underlying descriptor.
	Close() error
}

func sockOpts(s *Settings) (opts []socket.Option[int]) {
	if s.ReuseAddr {
		opts = append(opts, socket.Option[int]{SetSockOpt: socket.SetReuseAddr, Opt: 1})
	}
	return
}

// Dial establishes the pinger side of a run: a TCP connection to PongerAddr, or
// a UDP association bound to PingerAddr and connected to PongerAddr.
func Dial(ctx context.Context, s *Settings) (Transport, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	d := net.Dialer{Control: socket.Control(sockOpts(s))}
	if s.Mode == Datagram && s.PingerAddr != "" {
		laddr, err := net.ResolveUDPAddr("udp", s.PingerAddr)
		if err != nil {
			return nil, err
		}
		d.LocalAddr = laddr
	}
	c, err := d.DialContext(ctx, s.Mode.network(), s.PongerAddr)
	if err != nil {
		return nil, err
	}
	defer c.Close() //nolint:errcheck

	t, err := Enroll(s.Mode, c, s)
	if err != nil {
		return nil, err
	}
	s.logger().Debugf("pinger %s transport %s -> %s", s.Mode, t.LocalAddr(), t.RemoteAddr())
	return t, nil
}

// Listener is the ponger side of a run before the peer has shown up.
type Listener struct {
	settings *Settings
	once     sync.Once
	closed   bool

	ln      net.Listener // Stream
	pc      net.Conn     // Datagram
	pending bool         // Datagram without a known peer
}

// Listen binds the ponger side of a run to PongerAddr.
//
// In Datagram mode the socket is connected to PingerAddr straight away when
// it is set, otherwise Accept associates with the sender of the first datagram.
func Listen(ctx context.Context, s *Settings) (*Listener, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	l := &Listener{settings: s}
	switch s.Mode {
	case Stream:
		lc := net.ListenConfig{Control: socket.Control(sockOpts(s))}
		ln, err := lc.Listen(ctx, "tcp", s.PongerAddr)
		if err != nil {
			return nil, err
		}
		l.ln = ln
	case Datagram:
		if s.PingerAddr != "" {
			laddr, err := net.ResolveUDPAddr("udp", s.PongerAddr)
			if err != nil {
				return nil, err
			}
			d := net.Dialer{LocalAddr: laddr, Control: socket.Control(sockOpts(s))}
			c, err := d.DialContext(ctx, "udp", s.PingerAddr)
			if err != nil {
				return nil, err
			}
			l.pc = c
			break
		}
		lc := net.ListenConfig{Control: socket.Control(sockOpts(s))}
		pc, err := lc.ListenPacket(ctx, "udp", s.PongerAddr)
		if err != nil {
			return nil, err
		}
		l.pc, l.pending = pc.(*net.UDPConn), true //nolint:forcetypeassert
	}
	s.logger().Debugf("ponger %s listening on %s", s.Mode, l.Addr())
	return l, nil
}

// Addr returns the address the listener is bound to.
func (l *Listener) Addr() net.Addr {
	if l.ln != nil {
		return l.ln.Addr()
	}
	return l.pc.LocalAddr()
}

// Accept waits for the pinger and returns the one transport of the run, the
// listener is closed afterwards. Cancelling ctx aborts the wait.
func (l *Listener) Accept(ctx context.Context) (t Transport, err error) {
	defer l.Close() //nolint:errcheck

	ln, pc := l.ln, l.pc
	if l.closed || (ln == nil && pc == nil) {
		return nil, errorx.ErrTransportClosed
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	if ln != nil {
		var c net.Conn
		stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
		c, err = ln.Accept()
		stop()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		defer c.Close() //nolint:errcheck
		// A queued connection may win the race against the cancellation.
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		t, err = Enroll(Stream, c, l.settings)
	} else {
		t, err = Enroll(Datagram, pc, l.settings)
		if err == nil && l.pending {
			err = associate(ctx, t)
		}
	}
	if err != nil {
		if t != nil {
			_ = t.Close()
		}
		return nil, err
	}
	l.settings.logger().Debugf("ponger %s transport %s <- %s", l.settings.Mode, t.LocalAddr(), t.RemoteAddr())
	return t, nil
}

// Close releases the listening socket.
func (l *Listener) Close() (err error) {
	l.once.Do(func() {
		l.closed = true
		if l.ln != nil {
			err = l.ln.Close()
		}
		if l.pc != nil {
			err = l.pc.Close()
		}
	})
	return
}
