package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExpirer struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeExpirer) ExpireOrder(ctx context.Context, orderNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, orderNumber)
	return nil
}

func (f *fakeExpirer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestOrderWatcherFiresOnceOnOverdueOrder(t *testing.T) {
	expirer := &fakeExpirer{}
	watcher := NewOrderWatcher(expirer, "612345001", time.Now().Add(-time.Second))

	// Start returns as soon as the immediate tick fires
	watcher.Start(context.Background())

	assert.True(t, watcher.Fired())
	assert.Equal(t, 1, expirer.callCount())
	assert.Equal(t, "Expired", watcher.TimeLeft())

	// A second run must not drive the transition again
	watcher.Start(context.Background())
	assert.Equal(t, 1, expirer.callCount())
}

func TestOrderWatcherStopCancelsCountdown(t *testing.T) {
	expirer := &fakeExpirer{}
	watcher := NewOrderWatcher(expirer, "612345002", time.Now().Add(time.Hour))
	watcher.interval = 5 * time.Millisecond

	done := make(chan struct{})
	go func() {
		watcher.Start(context.Background())
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	watcher.Stop()
	watcher.Stop() // safe to call twice

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}

	assert.False(t, watcher.Fired())
	assert.Equal(t, 0, expirer.callCount())
}

func TestOrderWatcherContextCancel(t *testing.T) {
	expirer := &fakeExpirer{}
	watcher := NewOrderWatcher(expirer, "612345003", time.Now().Add(time.Hour))
	watcher.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watcher.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on context cancel")
	}
	assert.Equal(t, 0, expirer.callCount())
}

func TestOrderWatcherCountdown(t *testing.T) {
	expirer := &fakeExpirer{}
	watcher := NewOrderWatcher(expirer, "612345004", time.Now().Add(272*time.Second))

	fired := watcher.tick(context.Background())
	require.False(t, fired)
	assert.Regexp(t, `^4m (30|31|32)s$`, watcher.TimeLeft())
	assert.False(t, watcher.Fired())
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 272 * time.Second, want: "4m 32s"},
		{d: 60 * time.Second, want: "1m 0s"},
		{d: 59 * time.Second, want: "0m 59s"},
		{d: 0, want: "0m 0s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatRemaining(tt.d))
	}
}

type fakeSweepCounter struct {
	mu    sync.Mutex
	count int
}

func (f *fakeSweepCounter) SweepExpired(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	return 0, nil
}

func (f *fakeSweepCounter) sweeps() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

func TestExpirySweeperRunsUntilCanceled(t *testing.T) {
	counter := &fakeSweepCounter{}
	sweeper := NewExpirySweeper(counter, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}

	// One startup sweep plus at least one tick
	assert.GreaterOrEqual(t, counter.sweeps(), 2)
}
