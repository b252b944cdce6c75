package browser

import "time"

// raceDeadline runs fn in its own goroutine and waits at most d for it to
// finish. On deadline the in-flight call is abandoned, not cancelled: its
// eventual result lands in a buffered channel nobody reads again, so the
// losing branch can never block the caller or write into registry state the
// caller has already moved past.
//
// Returns (true, nil) when the deadline won. A deadline is not an error;
// navigation and click timeouts simply yield whatever state the page reached.
func raceDeadline(d time.Duration, fn func() error) (timedOut bool, err error) {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case err := <-done:
		return false, err
	case <-timer.C:
		return true, nil
	}
}
