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
	"bytes"
	"context"
	"time"

	"github.com/pingpong-bench/pingpong/internal/procstat"
	"github.com/pingpong-bench/pingpong/internal/stats"
	errorx "github.com/pingpong-bench/pingpong/pkg/errors"
)

type receiveFunc func(p []byte) (int, error)

// receiver picks the receive path of the discipline once, so the hot loop
// does not branch on it.
func receiver(t Transport, d Discipline) receiveFunc {
	if d == BusyPoll {
		return func(p []byte) (int, error) { return ReadBusyUntilSome(t, p) }
	}
	return t.Receive
}

// sendFull hands the whole of p to t, a stream may need several writes.
func sendFull(t Transport, p []byte) error {
	for len(p) > 0 {
		n, err := t.Send(p)
		if err != nil {
			if errorx.IsTransient(err) {
				continue
			}
			return err
		}
		p = p[n:]
	}
	return nil
}

// receiveFull reads the echo of one message into p. A stream is read until p
// is full, a datagram must arrive whole.
func receiveFull(mode Mode, receive receiveFunc, p []byte) error {
	for off := 0; off < len(p); {
		n, err := receive(p[off:])
		if err != nil {
			if errorx.IsTransient(err) {
				continue
			}
			return err
		}
		if n == 0 {
			return errorx.ErrPeerClosed
		}
		if mode == Datagram && n != len(p) {
			return errorx.ErrCorruptEcho
		}
		off += n
	}
	return nil
}

// RunPinger drives WarmUpCount+MsgCount exchanges over t and returns the
// summary of the MsgCount exchanges after the warm-up.
//
// Exchanges are strictly sequential, a message is only sent once the echo of
// the previous one has been received in full. Cancelling ctx shuts t down and
// the run ends with ctx.Err().
func RunPinger(ctx context.Context, t Transport, s *Settings) (*stats.Summary, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	msg, err := NewMessage(s.MsgSize)
	if err != nil {
		return nil, err
	}
	echo, _ := NewMessage(s.MsgSize)
	fillPattern(msg)

	if err = t.SetBusy(s.Discipline == BusyPoll); err != nil {
		return nil, err
	}
	defer t.SetBusy(false) //nolint:errcheck

	stop := context.AfterFunc(ctx, func() { _ = t.Shutdown() })
	defer stop()

	logger := s.logger()
	sampler, err := procstat.New()
	if err != nil {
		logger.Warnf("cpu usage will not be reported, %v", err)
	}

	rec := stats.NewRecorder(int(s.MsgCount))
	receive := receiver(t, s.Discipline)
	total := s.WarmUpCount + s.MsgCount
	logger.Infof("pinger starts %d warm-up and %d measured %d-byte exchanges over %s, %s",
		s.WarmUpCount, s.MsgCount, s.MsgSize, s.Mode, s.Discipline)

	for i := uint64(0); i < total; i++ {
		if i == s.WarmUpCount && sampler != nil {
			if err = sampler.Start(); err != nil {
				logger.Warnf("cpu usage will not be reported, %v", err)
				sampler = nil
			}
		}

		stampSequence(msg, i)
		start := time.Now()
		if err = sendFull(t, msg); err == nil {
			err = receiveFull(s.Mode, receive, echo)
		}
		elapsed := time.Since(start)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}

		if !bytes.Equal(msg, echo) {
			return nil, errorx.ErrCorruptEcho
		}
		if i >= s.WarmUpCount {
			rec.Add(elapsed)
		}
		if s.SleepTime > 0 {
			time.Sleep(s.SleepTime)
		}
	}

	summary := rec.Summary()
	if sampler != nil {
		usage, err := sampler.Stop()
		if err != nil {
			logger.Warnf("cpu usage will not be reported, %v", err)
		}
		summary.Elapsed, summary.UserCPU, summary.SystemCPU = usage.Wall, usage.User, usage.System
	}
	return summary, nil
}

// RunPonger echoes every buffer received on t back to the peer byte-for-byte
// until the peer goes away, and returns the number of echoed buffers. A stream
// may hand a message over in several buffers.
//
// The ponger receives into a MaxMessageSize buffer so that a datagram is never truncated.
func RunPonger(ctx context.Context, t Transport, s *Settings) (uint64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	buf, err := NewMessage(MaxMessageSize)
	if err != nil {
		return 0, err
	}

	if err = t.SetBusy(s.Discipline == BusyPoll); err != nil {
		return 0, err
	}
	defer t.SetBusy(false) //nolint:errcheck

	stop := context.AfterFunc(ctx, func() { _ = t.Shutdown() })
	defer stop()

	s.logger().Infof("ponger echoes over %s, %s", s.Mode, s.Discipline)

	receive := receiver(t, s.Discipline)
	var echoed uint64
	for {
		n, err := receive(buf)
		if err == nil && n > 0 {
			err = sendFull(t, buf[:n])
		}
		if ctx.Err() != nil {
			return echoed, ctx.Err()
		}
		if err != nil {
			if errorx.IsTransient(err) {
				continue
			}
			return echoed, err
		}
		if n == 0 {
			s.logger().Infof("peer %s closed the association after %d echoes", t.RemoteAddr(), echoed)
			return echoed, nil
		}
		echoed++
	}
}
