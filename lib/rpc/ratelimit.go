package rpc

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-i2p/logger"
	"golang.org/x/time/rate"
)

// clientLimiterIdle is how long a client's limiter is kept after its last request.
const clientLimiterIdle = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client host. A zero limit
// disables it.
type RateLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*clientLimiter
}

// NewRateLimiter allows perSecond sustained requests and burst extra per client.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
	}
}

// Allow reports whether a request from client may proceed now.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.limit <= 0 {
		return true
	}

	c, ok := rl.clients[client]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[client] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

// SetLimit changes the limits for all clients, existing ones included.
func (rl *RateLimiter) SetLimit(perSecond float64, burst int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.limit = rate.Limit(perSecond)
	rl.burst = burst
	for _, c := range rl.clients {
		c.limiter.SetLimit(rl.limit)
		c.limiter.SetBurst(burst)
	}
}

// Cleanup forgets clients idle for longer than idle and returns how many.
func (rl *RateLimiter) Cleanup(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	removed := 0

	rl.mu.Lock()
	for client, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, client)
			removed++
		}
	}
	rl.mu.Unlock()

	return removed
}

// Middleware rejects requests over the limit with 429 and a JSON-RPC error.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientHost(r)
		if !rl.Allow(client) {
			log.WithFields(logger.Fields{
				"at":     "(RateLimiter).Middleware",
				"client": client,
			}).Warn("rate limit exceeded")
			writeError(w, http.StatusTooManyRequests, nil, NewRPCError(ErrCodeRateLimited, "rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
