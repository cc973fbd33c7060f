package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/osse101/BrandishReveal_Go/internal/metrics"
)

// GuardLimits bounds what one client address may do within a window
type GuardLimits struct {
	Window          time.Duration
	MaxRequests     int // 0 disables throttling
	FailedAuthAlert int // failed logins per window that raise an alert; 0 disables alerts
}

// DefaultGuardLimits returns the limits used when none are configured
func DefaultGuardLimits() GuardLimits {
	return GuardLimits{
		Window:          defaultGuardWindow,
		MaxRequests:     defaultMaxRequests,
		FailedAuthAlert: defaultFailedAuthAlert,
	}
}

// clientWindow counts one client's activity since start
type clientWindow struct {
	start      time.Time
	requests   int
	failedAuth int
}

// ClientGuard throttles request floods and reports repeated failed logins
// per client address. Every client gets its own window, opened by its first
// request after the previous window ran out.
type ClientGuard struct {
	limits GuardLimits
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientWindow
	lastSweep time.Time
}

// NewClientGuard creates a guard. A non-positive window falls back to the default.
func NewClientGuard(limits GuardLimits) *ClientGuard {
	if limits.Window <= 0 {
		limits.Window = defaultGuardWindow
	}
	g := &ClientGuard{
		limits:  limits,
		now:     time.Now,
		clients: make(map[string]*clientWindow),
	}
	g.lastSweep = g.now()
	return g
}

// Allow counts a request from ip. When the client is over its budget it
// returns false and how long until its window reopens.
func (g *ClientGuard) Allow(ip string) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	w := g.windowLocked(ip, now)
	w.requests++

	if g.limits.MaxRequests <= 0 || w.requests <= g.limits.MaxRequests {
		return true, 0
	}

	metrics.RequestsThrottled.Inc()
	if w.requests == g.limits.MaxRequests+1 {
		slog.Warn(SecurityAlertHighRate,
			"ip", ip,
			"limit", g.limits.MaxRequests,
			"window", g.limits.Window)
	}
	return false, w.start.Add(g.limits.Window).Sub(now)
}

// FailedAuth records a rejected API key from ip and returns the number of
// failures in the client's current window. The alert is logged once per
// window, when the count reaches the configured threshold.
func (g *ClientGuard) FailedAuth(ip string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	w := g.windowLocked(ip, g.now())
	w.failedAuth++

	if g.limits.FailedAuthAlert > 0 && w.failedAuth == g.limits.FailedAuthAlert {
		slog.Warn(SecurityAlertFailedAuth,
			"ip", ip,
			"count", w.failedAuth,
			"window", g.limits.Window)
	}
	return w.failedAuth
}

// Clients returns the number of tracked client windows
func (g *ClientGuard) Clients() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.clients)
}

// windowLocked returns the live window of ip, opening a new one when the old
// one ran out. Expired windows of other clients are dropped at most once per
// window length. Caller must hold the mutex.
func (g *ClientGuard) windowLocked(ip string, now time.Time) *clientWindow {
	if now.Sub(g.lastSweep) >= g.limits.Window {
		for addr, w := range g.clients {
			if now.Sub(w.start) >= g.limits.Window {
				delete(g.clients, addr)
			}
		}
		g.lastSweep = now
	}

	w, ok := g.clients[ip]
	if !ok || now.Sub(w.start) >= g.limits.Window {
		w = &clientWindow{start: now}
		g.clients[ip] = w
	}
	return w
}
