package sabertooth

import "time"

// SetSleep replaces the settle sleeper and returns a func restoring it.
func SetSleep(fn func(time.Duration)) func() {
	orig := sleep
	sleep = fn
	return func() { sleep = orig }
}
