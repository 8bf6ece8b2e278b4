//go:build !windows

package main

import (
	"os"
	"syscall"
)

// cancelSignals stop a conversion and the render commands it started.
var cancelSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
