// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build linux || darwin || freebsd || netbsd || openbsd

package pane

import "golang.org/x/sys/unix"

type termiosEcho struct {
	fd   int
	orig unix.Termios
}

func newEchoControl(fd int) (echoControl, error) {
	t, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, err
	}
	return &termiosEcho{fd: fd, orig: *t}, nil
}

func (e *termiosEcho) setEcho(on bool) error {
	t, err := unix.IoctlGetTermios(e.fd, ioctlReadTermios)
	if err != nil {
		return err
	}
	if on {
		t.Lflag |= unix.ECHO
	} else {
		t.Lflag &^= unix.ECHO
	}
	return unix.IoctlSetTermios(e.fd, ioctlWriteTermios, t)
}

func (e *termiosEcho) restore() error {
	t := e.orig
	return unix.IoctlSetTermios(e.fd, ioctlWriteTermios, &t)
}
