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

package pingpong

import (
	"context"
	"net"

	errorx "github.com/pingpong-bench/pingpong/pkg/errors"
)

// Enroll is only available on platforms where the socket descriptor can be
// driven with raw read and write calls.
func Enroll(_ Mode, _ net.Conn, _ *Settings) (Transport, error) {
	return nil, errorx.ErrUnsupportedPlatform
}

func associate(_ context.Context, _ Transport) error {
	return errorx.ErrUnsupportedPlatform
}
