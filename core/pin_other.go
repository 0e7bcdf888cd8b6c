//go:build !linux

package core

import "runtime"

// PinToOSThread locks the calling goroutine to its own OS thread. CPU
// affinity pinning is Linux-only (golang.org/x/sys/unix.SchedSetaffinity
// has no portable equivalent); on other platforms thread-per-core
// isolation is still achieved, just without pinning that thread to a
// specific CPU.
func PinToOSThread(name string) {
	runtime.LockOSThread()
}
