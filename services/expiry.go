package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vermils/paydesk/utils"
)

// OrderExpirer is what the watcher and sweeper need from the coordinator
type OrderExpirer interface {
	ExpireOrder(ctx context.Context, orderNumber string) error
}

// OrderWatcher tracks one displayed order against its wall-clock deadline.
// It ticks once a second, exposes the formatted remaining time, and the
// first time the deadline passes it drives the expiry transition exactly
// once, then stops ticking. Stop (or context cancellation) releases the
// ticker so a stale watcher never acts on a reassigned order view.
type OrderWatcher struct {
	expirer     OrderExpirer
	orderNumber string
	expiresAt   time.Time
	interval    time.Duration

	mu       sync.Mutex
	fired    bool
	timeLeft string
	stop     chan struct{}
	stopOnce sync.Once
}

// NewOrderWatcher creates a watcher for a single order
func NewOrderWatcher(expirer OrderExpirer, orderNumber string, expiresAt time.Time) *OrderWatcher {
	return &OrderWatcher{
		expirer:     expirer,
		orderNumber: orderNumber,
		expiresAt:   expiresAt,
		interval:    time.Second,
		stop:        make(chan struct{}),
	}
}

// Start runs the countdown loop until the order expires, Stop is called or
// the context is canceled.
func (w *OrderWatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Evaluate immediately so an already-overdue order does not wait a tick
	if w.tick(ctx) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			if w.tick(ctx) {
				return
			}
		}
	}
}

// tick recomputes the countdown; returns true once the watcher has fired
func (w *OrderWatcher) tick(ctx context.Context) bool {
	remaining := time.Until(w.expiresAt)

	w.mu.Lock()
	if remaining <= 0 {
		if w.fired {
			w.mu.Unlock()
			return true
		}
		w.fired = true
		w.timeLeft = "Expired"
		w.mu.Unlock()

		if err := w.expirer.ExpireOrder(ctx, w.orderNumber); err != nil {
			utils.LogError("Watcher failed to expire order %s: %v", w.orderNumber, err)
		}
		return true
	}
	w.timeLeft = formatRemaining(remaining)
	w.mu.Unlock()
	return false
}

// TimeLeft returns the current formatted countdown, e.g. "4m 32s"
func (w *OrderWatcher) TimeLeft() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timeLeft
}

// Fired reports whether the expiry transition has been driven
func (w *OrderWatcher) Fired() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fired
}

// Stop cancels the countdown. Safe to call more than once.
func (w *OrderWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

func formatRemaining(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// Sweeper is what the background loop needs from the coordinator
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// ExpirySweeper periodically scans for overdue PENDING orders and expires
// them, so expiry is enforced server-side even with no client attached.
type ExpirySweeper struct {
	svc      Sweeper
	interval time.Duration
}

// NewExpirySweeper creates a sweeper running at the given interval
func NewExpirySweeper(svc Sweeper, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ExpirySweeper{svc: svc, interval: interval}
}

// Start runs the sweep loop until the context is canceled
func (s *ExpirySweeper) Start(ctx context.Context) {
	utils.LogInfo("Expiry sweeper started, interval: %v", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Sweep once at startup to catch orders that went overdue while down
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			utils.LogInfo("Expiry sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	expired, err := s.svc.SweepExpired(ctx)
	if err != nil {
		utils.LogError("Expiry sweep failed: %v", err)
		return
	}
	if expired > 0 {
		utils.LogInfo("Expiry sweep marked %d order(s) expired", expired)
	}
}
