//go:build linux

package core

import (
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// coreCPU assigns a fixed logical CPU to each named core, giving the two
// simulated hardware cores distinct affinity the way real core 0 / core 1
// would never share a physical execution unit.
var coreCPU = map[string]int{
	"core0": 0,
	"core1": 1,
}

// PinToOSThread locks the calling goroutine to its own OS thread and, on
// Linux, best-effort pins that thread to a fixed CPU -- the nearest a
// userspace process gets to "core 0 / core 1" (spec.md §9 design note:
// isolating a real-time path onto its own OS thread). A failure to set
// affinity is logged and otherwise ignored: it is not a correctness
// requirement, only a scheduling hint.
func PinToOSThread(name string) {
	runtime.LockOSThread()

	cpu, ok := coreCPU[name]
	if !ok {
		return
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		log.Warn("failed to set thread affinity", "core", name, "cpu", cpu, "err", err)
	}
}
