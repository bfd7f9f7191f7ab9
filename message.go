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
	"encoding/binary"

	errorx "github.com/pingpong-bench/pingpong/pkg/errors"
)

// MaxMessageSize is the largest message a run may exchange, it fits in a
// single UDP datagram over IPv4 and IPv6.
const MaxMessageSize = 65000

// seqLen is the length of the sequence number stamped at the front of a message.
const seqLen = 8

// NewMessage returns a message buffer of size bytes, sizes above
// MaxMessageSize are rejected rather than truncated.
func NewMessage(size int) ([]byte, error) {
	switch {
	case size < 0:
		return nil, errorx.ErrNegativeSize
	case size > MaxMessageSize:
		return nil, errorx.ErrMessageTooLarge
	}
	return make([]byte, size), nil
}

// fillPattern writes a recognisable, position-dependent payload into msg.
func fillPattern(msg []byte) {
	for i := range msg {
		msg[i] = byte(i % 251)
	}
}

// stampSequence writes seq into the front of msg when there is room, so that
// a stale datagram can not pass for the echo of the current exchange.
func stampSequence(msg []byte, seq uint64) {
	if len(msg) >= seqLen {
		binary.BigEndian.PutUint64(msg, seq)
	}
}
