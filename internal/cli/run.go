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
	"context"
	"errors"
	"io"

	"github.com/pingpong-bench/pingpong"
	goPool "github.com/pingpong-bench/pingpong/pkg/pool/goroutine"
)

func runPinger(ctx context.Context, s *pingpong.Settings, out io.Writer) error {
	t, err := pingpong.Dial(ctx, s)
	if err != nil {
		return err
	}
	defer t.Close() //nolint:errcheck

	summary, err := pingpong.RunPinger(ctx, t, s)
	if err != nil {
		return err
	}
	_, err = summary.WriteTo(out)
	return err
}

func runPonger(ctx context.Context, s *pingpong.Settings) error {
	ln, err := pingpong.Listen(ctx, s)
	if err != nil {
		return err
	}
	return serve(ctx, ln, s)
}

func serve(ctx context.Context, ln *pingpong.Listener, s *pingpong.Settings) error {
	t, err := ln.Accept(ctx)
	if err != nil {
		return err
	}
	defer t.Close() //nolint:errcheck

	_, err = pingpong.RunPonger(ctx, t, s)
	return err
}

// runLocal binds the ponger before the pinger dials it, so the two roles can
// not race, and serves it from a worker of the goroutine pool.
func runLocal(ctx context.Context, s *pingpong.Settings, out io.Writer) error {
	ln, err := pingpong.Listen(ctx, s)
	if err != nil {
		return err
	}
	defer ln.Close() //nolint:errcheck

	pool, err := goPool.Default()
	if err != nil {
		return err
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	if err = pool.Submit(func() {
		err := serve(ctx, ln, s)
		if err != nil {
			// The pinger would otherwise wait for an echo that never comes.
			cancel()
		}
		done <- err
	}); err != nil {
		return err
	}

	ps := *s
	ps.PongerAddr = ln.Addr().String()
	pingErr := runPinger(ctx, &ps, out)
	if pingErr != nil {
		// The ponger would otherwise wait for a pinger that never shows up.
		cancel()
	}
	pongErr := <-done
	switch {
	case errors.Is(pongErr, context.Canceled) && pingErr != nil:
		pongErr = nil
	case errors.Is(pingErr, context.Canceled) && pongErr != nil:
		pingErr = nil
	}
	return errors.Join(pingErr, pongErr)
}
