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

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/pingpong-bench/pingpong"
)

// envPrefix prefixes the environment variables that override flag defaults,
// --message-size is read from PINGPONG_MESSAGE_SIZE.
const envPrefix = "PINGPONG_"

var errTCPAndUDP = errors.New("--tcp and --udp are mutually exclusive")

type flags struct {
	poll           bool
	tcp            bool
	udp            bool
	warmUp         uint64
	messages       uint64
	messageSize    int
	sleepTime      uint64
	pongerAddr     string
	pingerAddr     string
	receiveTimeout time.Duration
	recvBuffer     int
	sendBuffer     int
	kernelBusyPoll int
	reuseAddr      bool
}

func (f *flags) register(fs *pflag.FlagSet) {
	fs.BoolVarP(&f.poll, "poll", "p", false, "busy-poll on non-blocking sockets instead of blocking reads")
	fs.BoolVarP(&f.tcp, "tcp", "t", false, "exchange messages over TCP")
	fs.BoolVarP(&f.udp, "udp", "u", false, "exchange messages over UDP")
	fs.Uint64VarP(&f.warmUp, "warmup-messages", "w", pingpong.DefaultWarmUpCount, "number of unrecorded exchanges before measuring")
	fs.Uint64VarP(&f.messages, "messages", "m", pingpong.DefaultMsgCount, "number of recorded exchanges")
	fs.IntVarP(&f.messageSize, "message-size", "s", pingpong.DefaultMsgSize, "message size in bytes, at most 65000")
	fs.Uint64Var(&f.sleepTime, "sleep-time", 0, "pause between two exchanges in microseconds")
	fs.StringVarP(&f.pongerAddr, "ponger-addr", "o", pingpong.DefaultPongerAddr, "address of the ponger")
	fs.StringVarP(&f.pingerAddr, "pinger-addr", "i", pingpong.DefaultPingerAddr, "address of the pinger, used by UDP")
	fs.DurationVar(&f.receiveTimeout, "receive-timeout", 0, "bound of a blocking receive, 0 waits forever")
	fs.IntVar(&f.recvBuffer, "rcvbuf", 0, "socket receive buffer in bytes, 0 keeps the OS default")
	fs.IntVar(&f.sendBuffer, "sndbuf", 0, "socket send buffer in bytes, 0 keeps the OS default")
	fs.IntVar(&f.kernelBusyPoll, "kernel-busy-poll", 0, "SO_BUSY_POLL in microseconds (Linux), 0 leaves it alone")
	fs.BoolVar(&f.reuseAddr, "reuse-addr", false, "set SO_REUSEADDR before binding")
}

// applyEnv sets every flag that was not given on the command line from its
// environment variable, if there is one.
func applyEnv(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(fl *pflag.Flag) {
		if err != nil || fl.Changed {
			return
		}
		key := envPrefix + strings.ToUpper(strings.ReplaceAll(fl.Name, "-", "_"))
		if v, ok := os.LookupEnv(key); ok {
			if e := fs.Set(fl.Name, v); e != nil {
				err = fmt.Errorf("invalid %s: %w", key, e)
			}
		}
	})
	return err
}

func (f *flags) settings() (*pingpong.Settings, error) {
	var mode pingpong.Mode
	switch {
	case f.tcp && f.udp:
		return nil, errTCPAndUDP
	case f.tcp:
		mode = pingpong.Stream
	case f.udp:
		mode = pingpong.Datagram
	}
	discipline := pingpong.Blocking
	if f.poll {
		discipline = pingpong.BusyPoll
	}

	s := pingpong.NewSettings(
		pingpong.WithMode(mode),
		pingpong.WithDiscipline(discipline),
		pingpong.WithWarmUpCount(f.warmUp),
		pingpong.WithMsgCount(f.messages),
		pingpong.WithMsgSize(f.messageSize),
		pingpong.WithSleepTime(time.Duration(f.sleepTime)*time.Microsecond),
		pingpong.WithPongerAddr(f.pongerAddr),
		pingpong.WithPingerAddr(f.pingerAddr),
		pingpong.WithReceiveTimeout(f.receiveTimeout),
		pingpong.WithSocketRecvBuffer(f.recvBuffer),
		pingpong.WithSocketSendBuffer(f.sendBuffer),
		pingpong.WithKernelBusyPoll(f.kernelBusyPoll),
		pingpong.WithReuseAddr(f.reuseAddr),
	)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
