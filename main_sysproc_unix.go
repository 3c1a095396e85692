//go:build !windows

package main

import (
    "os"
    "syscall"

    "mdpad/internal/tui"
)

// backgroundSignals are delivered to the editor as background events.
// SIGTSTP is left alone: suspend is handled by the terminal program itself.
func backgroundSignals() []os.Signal {
    return []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1}
}

// afterSignal quits on hangup, interrupt and terminate. SIGUSR1 only asks
// for an autosave.
func afterSignal(sig os.Signal) tui.After {
    if sig == syscall.SIGUSR1 {
        return tui.Stay
    }
    return tui.Quit
}
