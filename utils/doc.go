// Package utils carries the machine level helpers shared by the
// commands: accelerated BLAS selection under cgo and hardware
// performance counter access on Linux.
package utils
