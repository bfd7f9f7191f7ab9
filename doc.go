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

/*
Package pingpong measures transport latency: a pinger sends fixed-size messages
to a ponger, which echoes them back, and the pinger records the round-trip time
of every exchange.

The same round-trip code runs over a TCP connection or a connected UDP socket,
with either of two I/O disciplines. Blocking reads let the kernel suspend the
thread until data arrives. Busy-polling puts the socket into non-blocking mode,
disables Nagle's algorithm on TCP, and spins on the read until something shows
up, trading a whole core for the shortest possible wake-up.

Transports make direct read and write syscalls on a duplicated socket
descriptor rather than going through the Go net package, so that a
non-blocking read returns EAGAIN at once instead of parking the goroutine on
the netpoller.

A ponger and a pinger in one process:

	s := pingpong.NewSettings(pingpong.WithMode(pingpong.Stream), pingpong.WithDiscipline(pingpong.BusyPoll))

	ln, err := pingpong.Listen(ctx, s)
	if err != nil {
		return err
	}
	go func() {
		t, err := ln.Accept(ctx)
		if err != nil {
			return
		}
		defer t.Close()
		_, _ = pingpong.RunPonger(ctx, t, s)
	}()

	t, err := pingpong.Dial(ctx, s)
	if err != nil {
		return err
	}
	defer t.Close()
	summary, err := pingpong.RunPinger(ctx, t, s)
*/
package pingpong
