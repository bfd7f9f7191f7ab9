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

// Package cli provides the command-line interface of pingpong.
package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/xid"
	"github.com/spf13/cobra"

	"github.com/pingpong-bench/pingpong"
	"github.com/pingpong-bench/pingpong/pkg/logging"
)

// NewRootCommand builds the pingpong command tree.
func NewRootCommand() *cobra.Command {
	var envFile string
	f := new(flags)

	root := &cobra.Command{
		Use:   "pingpong",
		Short: "Latency testing with a pinger and a ponger.",
		Long: `pingpong measures round-trip latency over TCP or UDP. The ponger echoes every ` +
			`message back, the pinger sends them and reports the round-trip times. Both sides ` +
			`can wait with blocking reads or busy-poll non-blocking sockets (--poll).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return applyEnv(cmd.Flags())
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with PINGPONG_* defaults, ignored when missing")
	f.register(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "pinger",
			Short: "Send messages to a ponger and report the round-trip times.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := runSettings(f)
				if err != nil {
					return err
				}
				return runPinger(cmd.Context(), s, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "ponger",
			Short: "Echo every message back to the pinger.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := runSettings(f)
				if err != nil {
					return err
				}
				return runPonger(cmd.Context(), s)
			},
		},
		&cobra.Command{
			Use:   "local",
			Short: "Run a ponger and a pinger in this process.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := runSettings(f)
				if err != nil {
					return err
				}
				return runLocal(cmd.Context(), s, cmd.OutOrStdout())
			},
		},
	)
	return root
}

// runSettings turns the flags into settings with a logger tagged by a fresh run id.
func runSettings(f *flags) (*pingpong.Settings, error) {
	s, err := f.settings()
	if err != nil {
		return nil, err
	}
	s.Logger = logging.With("run", xid.New().String())
	return s, nil
}

// Execute runs the command line and returns the process exit code. SIGINT and
// SIGTERM cancel a run in progress.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		logging.Errorf("pingpong: %v", err)
		return 1
	}
	return 0
}
