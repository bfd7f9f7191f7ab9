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
	"math"
	"time"

	errorx "github.com/pingpong-bench/pingpong/pkg/errors"
	"github.com/pingpong-bench/pingpong/pkg/logging"
)

const (
	// DefaultWarmUpCount is the number of exchanges made before measuring starts.
	DefaultWarmUpCount = 1000
	// DefaultMsgCount is the number of measured exchanges.
	DefaultMsgCount = 1000
	// DefaultMsgSize is the size of every message in bytes.
	DefaultMsgSize = 64
	// DefaultPingerAddr is the address the pinger binds.
	DefaultPingerAddr = "localhost:20000"
	// DefaultPongerAddr is the address the ponger binds.
	DefaultPongerAddr = "localhost:20001"
)

// Option is a function that will set up option.
type Option func(s *Settings)

// NewSettings returns the default settings with all the given options applied.
func NewSettings(options ...Option) *Settings {
	s := &Settings{
		Discipline:  Blocking,
		WarmUpCount: DefaultWarmUpCount,
		MsgCount:    DefaultMsgCount,
		MsgSize:     DefaultMsgSize,
		PingerAddr:  DefaultPingerAddr,
		PongerAddr:  DefaultPongerAddr,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Settings are the values a run is configured with.
type Settings struct {
	// Mode selects the transport, there is no default and it must be set.
	Mode Mode

	// Discipline selects between blocking reads and busy-polling.
	Discipline Discipline

	// WarmUpCount is the number of exchanges made before any round trip is recorded.
	WarmUpCount uint64

	// MsgCount is the number of recorded exchanges, it must be at least one.
	MsgCount uint64

	// MsgSize is the size in bytes of every message, at most MaxMessageSize.
	MsgSize int

	// SleepTime is how long the pinger waits between two exchanges.
	SleepTime time.Duration

	// PingerAddr is the local address of the pinger, a datagram ponger connects to it
	// when it is not empty and otherwise associates with whoever sends first.
	PingerAddr string

	// PongerAddr is the local address of the ponger and the one the pinger connects to.
	PongerAddr string

	// ReceiveTimeout bounds a blocking receive, zero means wait forever.
	// It has no effect in the busy-poll discipline.
	ReceiveTimeout time.Duration

	// SocketRecvBuffer is the maximum socket receive buffer in bytes, zero leaves the OS default.
	SocketRecvBuffer int

	// SocketSendBuffer is the maximum socket send buffer in bytes, zero leaves the OS default.
	SocketSendBuffer int

	// KernelBusyPoll sets SO_BUSY_POLL in microseconds on Linux, zero leaves it alone.
	KernelBusyPoll int

	// ReuseAddr indicates whether to set up the SO_REUSEADDR socket option.
	ReuseAddr bool

	// Logger is the customized logger for logging info, if it is not set,
	// then the default logger is used.
	Logger logging.Logger
}

// Validate rejects settings a run can not be started with.
func (s *Settings) Validate() error {
	switch s.Mode {
	case Stream, Datagram:
	case 0:
		return errorx.ErrNoTransportMode
	default:
		return errorx.ErrUnsupportedMode
	}
	switch s.Discipline {
	case Blocking, BusyPoll:
	default:
		return errorx.ErrUnsupportedDiscipline
	}
	if s.MsgCount == 0 {
		return errorx.ErrZeroMessageCount
	}
	if s.MsgCount > math.MaxInt || s.WarmUpCount > math.MaxUint64-s.MsgCount {
		return errorx.ErrMessageCountOverflow
	}
	if s.MsgSize > MaxMessageSize {
		return errorx.ErrMessageTooLarge
	}
	if s.MsgSize < 0 {
		return errorx.ErrNegativeSize
	}
	if s.MsgSize == 0 {
		return errorx.ErrEmptyMessage
	}
	return nil
}

func (s *Settings) logger() logging.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logging.GetDefaultLogger()
}

// WithSettings sets up all settings at once.
func WithSettings(settings Settings) Option {
	return func(s *Settings) {
		*s = settings
	}
}

// WithMode sets up the transport mode.
func WithMode(mode Mode) Option {
	return func(s *Settings) {
		s.Mode = mode
	}
}

// WithDiscipline sets up the I/O discipline.
func WithDiscipline(d Discipline) Option {
	return func(s *Settings) {
		s.Discipline = d
	}
}

// WithWarmUpCount sets up the number of unrecorded exchanges.
func WithWarmUpCount(n uint64) Option {
	return func(s *Settings) {
		s.WarmUpCount = n
	}
}

// WithMsgCount sets up the number of recorded exchanges.
func WithMsgCount(n uint64) Option {
	return func(s *Settings) {
		s.MsgCount = n
	}
}

// WithMsgSize sets up the message size.
func WithMsgSize(size int) Option {
	return func(s *Settings) {
		s.MsgSize = size
	}
}

// WithSleepTime sets up the delay between two exchanges.
func WithSleepTime(d time.Duration) Option {
	return func(s *Settings) {
		s.SleepTime = d
	}
}

// WithPingerAddr sets up the pinger address.
func WithPingerAddr(addr string) Option {
	return func(s *Settings) {
		s.PingerAddr = addr
	}
}

// WithPongerAddr sets up the ponger address.
func WithPongerAddr(addr string) Option {
	return func(s *Settings) {
		s.PongerAddr = addr
	}
}

// WithReceiveTimeout sets up the bound of a blocking receive.
func WithReceiveTimeout(d time.Duration) Option {
	return func(s *Settings) {
		s.ReceiveTimeout = d
	}
}

// WithSocketRecvBuffer sets the maximum socket receive buffer in bytes.
func WithSocketRecvBuffer(recvBuf int) Option {
	return func(s *Settings) {
		s.SocketRecvBuffer = recvBuf
	}
}

// WithSocketSendBuffer sets the maximum socket send buffer in bytes.
func WithSocketSendBuffer(sendBuf int) Option {
	return func(s *Settings) {
		s.SocketSendBuffer = sendBuf
	}
}

// WithKernelBusyPoll sets SO_BUSY_POLL in microseconds.
func WithKernelBusyPoll(usecs int) Option {
	return func(s *Settings) {
		s.KernelBusyPoll = usecs
	}
}

// WithReuseAddr sets up SO_REUSEADDR socket option.
func WithReuseAddr(reuseAddr bool) Option {
	return func(s *Settings) {
		s.ReuseAddr = reuseAddr
	}
}

// WithLogger sets up a customized logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Settings) {
		s.Logger = logger
	}
}
