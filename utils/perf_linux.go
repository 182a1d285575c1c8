//go:build linux
// +build linux

package utils

import (
	perf "github.com/hodgesds/perf-utils"
)

// CountInstructions runs f under a hardware instruction counter and
// returns the retired instruction count. ok is false when the perf
// subsystem is unavailable, in which case f has still been run.
func CountInstructions(f func()) (instructions uint64, ok bool) {
	pv, err := perf.CPUInstructions(func() error {
		f()
		return nil
	})
	if err != nil {
		f()
		return 0, false
	}
	return pv.Value, true
}
