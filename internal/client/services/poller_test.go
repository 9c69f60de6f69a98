package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fetchCount(f *fakeAPI) int {
	n := 0
	for _, op := range f.recorded() {
		if op == "GET cart" {
			n++
		}
	}
	return n
}

func TestBadgePoller_FetchesPeriodically(t *testing.T) {
	f := &fakeAPI{cart: sampleCart()}
	s := newCartService(f, nil)
	p := NewBadgePoller(s, 5*time.Millisecond, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	deadline := time.After(time.Second)
	for fetchCount(f) < 3 {
		select {
		case <-deadline:
			t.Fatal("poller did not fetch repeatedly")
		case <-time.After(5 * time.Millisecond):
		}
	}
	assert.Equal(t, 3, s.BadgeCount())
}

func TestBadgePoller_CancelStopsFetching(t *testing.T) {
	f := &fakeAPI{cart: sampleCart()}
	s := newCartService(f, nil)
	p := NewBadgePoller(s, 5*time.Millisecond, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	// Role changed away from customer: the task must stop issuing fetches.
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancel")
	}

	n := fetchCount(f)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, fetchCount(f))
}

func TestBadgePoller_SurvivesFetchErrors(t *testing.T) {
	f := &fakeAPI{fetchErr: context.DeadlineExceeded}
	s := newCartService(f, nil)
	p := NewBadgePoller(s, 5*time.Millisecond, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	p.Run(ctx)

	// Errors are swallowed; the badge just stays at its last value.
	assert.Zero(t, s.BadgeCount())
	assert.GreaterOrEqual(t, fetchCount(f), 2)
}
