package apptclient

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Prober answers whether the server is reachable right now.
type Prober interface {
	Health(ctx context.Context) error
}

// Monitor tracks whether the client believes it is online. It is the
// process-local stand-in for the browser's online/offline events: the
// flag flips either manually via SetOnline or from the probe loop, and
// subscribers get called on every transition.
type Monitor struct {
	online atomic.Bool

	mu   sync.Mutex
	subs []func(online bool)

	log Logger
}

// NewMonitor создает монитор, изначально считающий клиента онлайн
func NewMonitor(log Logger) *Monitor {
	m := &Monitor{log: log}
	m.online.Store(true)
	return m
}

// Online reports the current connectivity belief.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// SetOnline flips the connectivity flag. Subscribers are notified only
// on an actual transition.
func (m *Monitor) SetOnline(online bool) {
	if m.online.Swap(online) == online {
		return
	}

	if online {
		m.log.Info("Connectivity regained")
	} else {
		m.log.Warn("Connectivity lost")
	}

	m.mu.Lock()
	subs := make([]func(bool), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(online)
	}
}

// Subscribe registers fn to be called on every online/offline
// transition.
func (m *Monitor) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// RunProbe polls the server's health endpoint every interval and feeds
// the result into SetOnline. Blocks until ctx is cancelled.
func (m *Monitor) RunProbe(ctx context.Context, prober Prober, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, interval)
			err := prober.Health(probeCtx)
			cancel()

			m.SetOnline(err == nil)
		}
	}
}
