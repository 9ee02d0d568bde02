// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// fatal reports whether err means inotify can no longer deliver events:
// the watch limit (ENOSPC) or a file descriptor limit (EMFILE, ENFILE).
func fatal(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
