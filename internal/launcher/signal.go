package launcher

import (
	"os"
	"os/signal"
	"syscall"
)

func notifyInterrupt(ch chan<- os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
}

// stopInterrupt unregisters the channel and closes it so the receiving
// goroutine exits when no signal ever arrived.
func stopInterrupt(ch chan os.Signal) {
	signal.Stop(ch)
	close(ch)
}
