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

//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd)

package socket

import (
	"syscall"

	errorx "github.com/pingpong-bench/pingpong/pkg/errors"
)

// Option is used for setting an option on socket.
type Option[T int | string] struct {
	SetSockOpt func(int, T) error
	Opt        T
}

// Control returns nil, socket options are not supported on this platform.
func Control(_ []Option[int]) func(network, address string, c syscall.RawConn) error {
	return nil
}

// SetReuseAddr is not supported on this platform.
func SetReuseAddr(_, _ int) error {
	return errorx.ErrUnsupportedOp
}
