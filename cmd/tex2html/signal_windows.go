//go:build windows

package main

import "os"

// cancelSignals stop a conversion and the render commands it started.
// SIGTERM is not delivered on Windows.
var cancelSignals = []os.Signal{os.Interrupt}
