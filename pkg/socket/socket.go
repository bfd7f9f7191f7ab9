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

// Package socket provides some handy socket-related functions for driving
// a raw socket descriptor directly, outside the Go netpoller.
package socket

import (
	"net"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	errorx "github.com/pingpong-bench/pingpong/pkg/errors"
)

// Option is used for setting an option on socket.
type Option[T int | string] struct {
	SetSockOpt func(int, T) error
	Opt        T
}

func execSockOpts[T int | string](fd int, opts []Option[T]) error {
	for _, opt := range opts {
		if err := opt.SetSockOpt(fd, opt.Opt); err != nil {
			return err
		}
	}
	return nil
}

// Control returns a function suitable for net.Dialer.Control and net.ListenConfig.Control
// which sets the given options on the socket before it is bound or connected.
func Control(sockOpts []Option[int]) func(network, address string, c syscall.RawConn) error {
	return func(_, _ string, c syscall.RawConn) error {
		var err error
		if e := c.Control(func(fd uintptr) {
			err = execSockOpts(int(fd), sockOpts)
		}); e != nil {
			return e
		}
		return err
	}
}

// Dup duplicates the descriptor underneath c, the duplicate is left in blocking
// mode and the caller owns it. c itself is not closed.
func Dup(c net.Conn) (int, error) {
	sc, ok := c.(syscall.Conn)
	if !ok {
		return -1, errorx.ErrInvalidNetConn
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return -1, err
	}

	dupFD := -1
	e := rc.Control(func(fd uintptr) {
		dupFD, err = unix.Dup(int(fd))
	})
	if e != nil {
		return -1, e
	}
	if err != nil {
		return -1, os.NewSyscallError("dup", err)
	}

	// The duplicate shares the file status flags with the original, which
	// the runtime has put into non-blocking mode.
	if err = SetNonblock(dupFD, false); err != nil {
		_ = unix.Close(dupFD)
		return -1, err
	}
	unix.CloseOnExec(dupFD)
	return dupFD, nil
}

// Close closes the descriptor.
func Close(fd int) error {
	return os.NewSyscallError("close", unix.Close(fd))
}

// Shutdown shuts down both halves of the connection, which wakes up any
// thread blocked in a read on fd.
func Shutdown(fd int) error {
	return os.NewSyscallError("shutdown", unix.Shutdown(fd, unix.SHUT_RDWR))
}
