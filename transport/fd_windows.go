//go:build windows

// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT
//
// Handle I/O via ReadFile/WriteFile.

package transport

import (
	"io"

	"golang.org/x/sys/windows"
)

// FD is a raw file handle.
type FD windows.Handle

// Standard handles, resolved at init by x/sys/windows.
var (
	Stdin  = FD(windows.Stdin)
	Stdout = FD(windows.Stdout)
	Stderr = FD(windows.Stderr)
)

// Read performs one ReadFile. A closed pipe or zero-byte read is io.EOF.
func (fd FD) Read(p []byte) (int, error) {
	var done uint32
	err := windows.ReadFile(windows.Handle(fd), p, &done, nil)
	if err == windows.ERROR_BROKEN_PIPE {
		return 0, io.EOF
	}
	if err != nil {
		return 0, err
	}
	if done == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return int(done), nil
}

// Write performs one WriteFile and may return a short count.
func (fd FD) Write(p []byte) (int, error) {
	var done uint32
	if err := windows.WriteFile(windows.Handle(fd), p, &done, nil); err != nil {
		return 0, err
	}
	return int(done), nil
}

// Close closes the handle.
func (fd FD) Close() error {
	return windows.CloseHandle(windows.Handle(fd))
}

// OpenRead opens path read-only.
func OpenRead(path string) (FD, error) {
	h, err := windows.Open(path, windows.O_RDONLY, 0)
	if err != nil {
		return FD(windows.InvalidHandle), err
	}
	return FD(h), nil
}

// Create opens path for writing, truncating or creating it.
func Create(path string) (FD, error) {
	h, err := windows.Open(path, windows.O_WRONLY|windows.O_CREAT|windows.O_TRUNC, 0o644)
	if err != nil {
		return FD(windows.InvalidHandle), err
	}
	return FD(h), nil
}
