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

// Package errors defines common errors for pingpong along with the
// classification of transport I/O failures.
package errors

import "errors"

var (
	// ErrWouldBlock is the cause of every transient-unavailable result, no data (or no
	// send-buffer space) is ready right now but may be later.
	ErrWouldBlock = errors.New("pingpong: operation would block")
	// ErrPeerClosed occurs when the remote end goes away in the middle of a round trip.
	ErrPeerClosed = errors.New("pingpong: peer closed the association")
	// ErrReceiveTimeout occurs when a blocking receive exceeds the configured receive timeout.
	ErrReceiveTimeout = errors.New("pingpong: receive timed out")
	// ErrTruncatedDatagram occurs when a datagram is longer than the buffer it is received into.
	ErrTruncatedDatagram = errors.New("pingpong: datagram does not fit in the receive buffer")
	// ErrCorruptEcho occurs when the echoed payload differs from the payload that was sent.
	ErrCorruptEcho = errors.New("pingpong: echoed payload does not match the sent payload")
	// ErrTransportClosed occurs when trying to use a transport that has been closed.
	ErrTransportClosed = errors.New("pingpong: transport is closed")
	// ErrMessageTooLarge occurs when the message size exceeds MaxMessageSize.
	ErrMessageTooLarge = errors.New("pingpong: messages bigger than 65000 bytes are not supported")
	// ErrNegativeSize occurs when trying to create a message with a negative size.
	ErrNegativeSize = errors.New("pingpong: negative size is not allowed")
	// ErrEmptyMessage occurs when a run is configured with zero-byte messages, which
	// would be indistinguishable from the end of the association.
	ErrEmptyMessage = errors.New("pingpong: messages must be at least one byte long")
	// ErrZeroMessageCount occurs when a run is configured to measure no messages.
	ErrZeroMessageCount = errors.New("pingpong: need to send at least one message")
	// ErrMessageCountOverflow occurs when the message counts do not fit in the run counters.
	ErrMessageCountOverflow = errors.New("pingpong: too many messages")
	// ErrNoTransportMode occurs when neither TCP nor UDP has been selected.
	ErrNoTransportMode = errors.New("pingpong: exactly one of tcp or udp must be selected")
	// ErrUnsupportedMode occurs when trying to use a transport mode that is not supported.
	ErrUnsupportedMode = errors.New("pingpong: only stream (tcp) and datagram (udp) modes are supported")
	// ErrUnsupportedDiscipline occurs when trying to use an I/O discipline that is not supported.
	ErrUnsupportedDiscipline = errors.New("pingpong: only blocking and busy-poll disciplines are supported")
	// ErrUnsupportedOp occurs when calling some methods that are not supported on the current platform.
	ErrUnsupportedOp = errors.New("pingpong: unsupported operation")
	// ErrUnsupportedPlatform occurs when the transports are used on a platform without raw socket access.
	ErrUnsupportedPlatform = errors.New("pingpong: unsupported platform")
	// ErrInvalidNetConn occurs when the net.Conn handed over for enrollment can not expose its descriptor.
	ErrInvalidNetConn = errors.New("pingpong: the net.Conn does not expose a raw descriptor")
)

// Kind classifies the outcome of a failed transport operation.
type Kind uint8

const (
	// KindFatal is anything the transport can not recover from, it is propagated unchanged.
	KindFatal Kind = iota
	// KindTransientUnavailable means more data may arrive later, synonymous with "would block".
	KindTransientUnavailable
	// KindPeerClosed means the remote end terminated the association.
	KindPeerClosed
)

func (k Kind) String() string {
	switch k {
	case KindTransientUnavailable:
		return "transient-unavailable"
	case KindPeerClosed:
		return "peer-closed"
	default:
		return "fatal"
	}
}

// TransportError is the error returned by transport operations.
type TransportError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "pingpong: " + e.Op + ": " + e.Kind.String()
	}
	return "pingpong: " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Transient reports whether the operation may succeed if retried.
func (e *TransportError) Transient() bool { return e.Kind == KindTransientUnavailable }

// NewTransient returns a transient-unavailable error for op.
func NewTransient(op string) *TransportError {
	return &TransportError{Kind: KindTransientUnavailable, Op: op, Err: ErrWouldBlock}
}

// NewFatal wraps err as a fatal error for op.
func NewFatal(op string, err error) *TransportError {
	return &TransportError{Kind: KindFatal, Op: op, Err: err}
}

// KindOf returns the classification of err, errors that did not come
// from a transport are considered fatal.
func KindOf(err error) Kind {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Kind
	}
	if errors.Is(err, ErrWouldBlock) {
		return KindTransientUnavailable
	}
	if errors.Is(err, ErrPeerClosed) {
		return KindPeerClosed
	}
	return KindFatal
}

// IsTransient reports whether err is a transient-unavailable result.
func IsTransient(err error) bool {
	return err != nil && KindOf(err) == KindTransientUnavailable
}
