package nativelib

import (
	"os"
	"runtime"
	"sync"
)

// envMu serializes mutations of the process-wide library search path.
var envMu sync.Mutex

// searchPathVar returns the environment variable the platform's dynamic
// linker consults when resolving library dependencies.
func searchPathVar() string {
	switch runtime.GOOS {
	case "windows":
		return "PATH"
	case "darwin":
		return "DYLD_LIBRARY_PATH"
	default:
		return "LD_LIBRARY_PATH"
	}
}

// withLibraryDir prepends dir to the platform search-path variable for
// the duration of fn, restoring the previous value on every exit path.
func withLibraryDir(dir string, fn func() error) error {
	envMu.Lock()
	defer envMu.Unlock()

	key := searchPathVar()
	old, had := os.LookupEnv(key)
	defer func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	}()

	value := dir
	if old != "" {
		value = dir + string(os.PathListSeparator) + old
	}
	os.Setenv(key, value)

	return fn()
}

// libFileName returns the platform file name for a library.
func libFileName(name string) string {
	switch runtime.GOOS {
	case "windows":
		return name + ".dll"
	case "darwin":
		return "lib" + name + ".dylib"
	default:
		return "lib" + name + ".so"
	}
}

// platformDir is the architecture-specific subdirectory libraries are
// installed under.
func platformDir() string {
	return runtime.GOOS + "_" + runtime.GOARCH
}
