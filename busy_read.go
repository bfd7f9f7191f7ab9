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

import errorx "github.com/pingpong-bench/pingpong/pkg/errors"

// ReadBusyUntilSome spins on t.Receive until data arrives, the peer goes
// away or a fatal error occurs. Transient results are retried at once,
// without sleeping or yielding, so t should have been made busy first.
//
// It returns (0, nil) when the peer closed the association.
func ReadBusyUntilSome(t Transport, p []byte) (int, error) {
	for {
		n, err := t.Receive(p)
		if err == nil {
			return n, nil
		}
		// The transports hand back unwrapped errors, skip errors.As while spinning.
		if te, ok := err.(*errorx.TransportError); ok && te.Transient() { //nolint:errorlint
			continue
		}
		switch errorx.KindOf(err) {
		case errorx.KindTransientUnavailable:
			continue
		case errorx.KindPeerClosed:
			return 0, nil
		}
		return 0, err
	}
}
