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

package socket

import (
	"os"

	"golang.org/x/sys/unix"
)

// SetKernelBusyPoll sets SO_BUSY_POLL, the number of microseconds the kernel
// busy-polls the device queue on a blocking receive before sleeping.
//
// Values above the default usually require CAP_NET_ADMIN.
func SetKernelBusyPoll(fd, usecs int) error {
	return os.NewSyscallError("setsockopt", unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_BUSY_POLL, usecs))
}
