// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package transport exposes raw OS descriptors as io.Reader and io.Writer.
// Each Read or Write is exactly one system call; errors are returned as the
// platform errno without wrapping so callers can inspect the code.
package transport
