package nativelib

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrNotLoaded is returned when unloading a library that is not in the
// process handle list.
var ErrNotLoaded = errors.New("native library not loaded")

// NotFoundError reports that no candidate location contained the
// expected library file. The message matches the platform's wording for
// a failed library search.
type NotFoundError struct {
	// File is the platform-specific file name that was searched for.
	File string

	// Searched lists the directories checked, in order.
	Searched []string
}

func (e *NotFoundError) Error() string {
	dirs := strings.Join(e.Searched, ", ")
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("no DLL named %q found in: %s", e.File, dirs)
	}
	return fmt.Sprintf("no shared object named %q found in: %s", e.File, dirs)
}
