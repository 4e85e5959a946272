package logging

import (
	"fmt"
	"log"
	"runtime"
)

type Flag int

const (
	Nil Flag = iota
	Performance
	Debug
)

// This is handled this way so that a config doesn't need to be threaded
// through every forward model evaluation.
var (
	Mode Flag = Nil
)

// ParseFlag converts a config string into a Flag. The empty string is Nil.
func ParseFlag(s string) (Flag, error) {
	switch s {
	case "", "Nil", "nil":
		return Nil, nil
	case "Performance", "performance":
		return Performance, nil
	case "Debug", "debug":
		return Debug, nil
	}
	return Nil, fmt.Errorf(
		"Logging mode '%s' not recognized. Must be one of " +
			"[Nil | Performance | Debug].", s,
	)
}

func (f Flag) String() string {
	switch f {
	case Nil:
		return "Nil"
	case Performance:
		return "Performance"
	case Debug:
		return "Debug"
	}
	return fmt.Sprintf("Flag(%d)", int(f))
}

// Debugf writes to the standard logger if Mode is Debug.
func Debugf(format string, args ...interface{}) {
	if Mode == Debug { log.Printf(format, args...) }
}

// Perff writes to the standard logger if Mode is Performance or Debug.
func Perff(format string, args ...interface{}) {
	if Mode >= Performance { log.Printf(format, args...) }
}

// MemString returns a string containing various statistics on the current
// memory usage.
func MemString() string {
	ms := runtime.MemStats{}
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf(
		"Alloc - %d MB; Sys - %d MB Integrated - %d MB",
		ms.Alloc >> 20, ms.Sys >> 20, ms.TotalAlloc >> 20,
	)
}
