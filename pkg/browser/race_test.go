package browser

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRaceDeadlineWinnerCompletes(t *testing.T) {
	timedOut, err := raceDeadline(time.Second, func() error {
		return nil
	})
	assert.False(t, timedOut)
	assert.NoError(t, err)
}

func TestRaceDeadlinePropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	timedOut, err := raceDeadline(time.Second, func() error {
		return wantErr
	})
	assert.False(t, timedOut)
	assert.ErrorIs(t, err, wantErr)
}

func TestRaceDeadlineAbandonsLoser(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan struct{})

	timedOut, err := raceDeadline(10*time.Millisecond, func() error {
		<-release
		close(finished)
		return errors.New("too late")
	})
	assert.True(t, timedOut)
	assert.NoError(t, err)

	// The loser must still be able to finish without blocking anyone.
	close(release)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("abandoned branch blocked on result delivery")
	}
}
