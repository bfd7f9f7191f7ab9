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
	"os"

	"golang.org/x/sys/unix"

	errorx "github.com/pingpong-bench/pingpong/pkg/errors"
	"github.com/pingpong-bench/pingpong/pkg/socket"
)

type tcpTransport struct {
	rawConn
}

func (t *tcpTransport) Mode() Mode { return Stream }

func (t *tcpTransport) Send(p []byte) (int, error) {
	if t.closed.Load() {
		return 0, errSendClosed
	}
	return t.write(p)
}

func (t *tcpTransport) Receive(p []byte) (int, error) {
	if t.closed.Load() {
		return 0, errReceiveClosed
	}
	n, err := t.read(p)
	switch err {
	case nil:
		// Zero bytes is the orderly end of the stream.
		return n, nil
	case unix.EAGAIN:
		return 0, t.wouldBlock()
	case unix.ECONNRESET:
		return 0, nil
	}
	return 0, errorx.NewFatal("receive", os.NewSyscallError("read", err))
}

func (t *tcpTransport) SetBusy(enabled bool) error {
	if t.closed.Load() {
		return errSetBusyClosed
	}
	noDelay := 0
	if enabled {
		noDelay = 1
	}
	if err := socket.SetNoDelay(t.fd, noDelay); err != nil {
		return errorx.NewFatal("set_busy", err)
	}
	return t.setNonblock(enabled)
}

func (t *tcpTransport) Close() error {
	return t.close(nil)
}
