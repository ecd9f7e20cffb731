// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package transport

import "io"

// Compile-time compliance.
var (
	_ io.Reader = FD(0)
	_ io.Writer = FD(0)
	_ io.Closer = FD(0)
)
