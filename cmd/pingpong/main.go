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

// Command pingpong runs the pinger or the ponger side of a latency test.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/pingpong-bench/pingpong/internal/cli"
	"github.com/pingpong-bench/pingpong/pkg/logging"
)

func main() {
	atexit.Register(logging.Cleanup)
	atexit.Exit(cli.Execute())
}
