//go:build windows

package main

import "os"

// Windows only delivers os.Interrupt.
var shutdownSignals = []os.Signal{os.Interrupt}
