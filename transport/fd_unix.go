//go:build unix

// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT
//
// Descriptor I/O via read(2)/write(2).

package transport

import (
	"io"

	"golang.org/x/sys/unix"
)

// FD is a raw file descriptor.
type FD int

// Standard descriptors.
const (
	Stdin  FD = 0
	Stdout FD = 1
	Stderr FD = 2
)

// Read performs one read(2). A zero-byte read on a non-empty p is io.EOF.
func (fd FD) Read(p []byte) (int, error) {
	n, err := unix.Read(int(fd), p)
	if err != nil {
		return 0, err
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write performs one write(2) and may return a short count.
func (fd FD) Write(p []byte) (int, error) {
	n, err := unix.Write(int(fd), p)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes the descriptor.
func (fd FD) Close() error {
	return unix.Close(int(fd))
}

// OpenRead opens path read-only.
func OpenRead(path string) (FD, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, err
	}
	return FD(fd), nil
}

// Create opens path for writing, truncating or creating it.
func Create(path string) (FD, error) {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC|unix.O_CLOEXEC, 0o644)
	if err != nil {
		return -1, err
	}
	return FD(fd), nil
}
