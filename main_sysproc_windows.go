//go:build windows

package main

import (
    "os"
    "syscall"

    "mdpad/internal/tui"
)

func backgroundSignals() []os.Signal {
    return []os.Signal{os.Interrupt, syscall.SIGTERM}
}

func afterSignal(os.Signal) tui.After { return tui.Quit }
