package ratelimit

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"finmate/internal/cache"
)

// Limiter keeps one token bucket per client IP. Idle buckets expire from the
// cache and a returning client starts with a full bucket.
type Limiter struct {
	limit   rate.Limit
	burst   int
	clients *cache.LRUCache[*rate.Limiter]
}

// Config holds rate limiter configuration
type Config struct {
	RequestsPerSecond rate.Limit
	Burst             int
	MaxClients        int
	IdleTTL           time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 5,
		Burst:             10,
		MaxClients:        10000,
		IdleTTL:           10 * time.Minute,
	}
}

// NewLimiter creates a new rate limiter. Zero fields take DefaultConfig values.
func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = def.RequestsPerSecond
	}
	if config.Burst < 1 {
		config.Burst = def.Burst
	}
	if config.MaxClients < 1 {
		config.MaxClients = def.MaxClients
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = def.IdleTTL
	}
	return &Limiter{
		limit:   config.RequestsPerSecond,
		burst:   config.Burst,
		clients: cache.NewLRUCache[*rate.Limiter](config.MaxClients, config.IdleTTL),
	}
}

// Allow checks if a request from the given IP should be allowed
func (rl *Limiter) Allow(clientIP string) bool {
	lim := rl.clients.GetOrCreate(clientIP, func() *rate.Limiter {
		return rate.NewLimiter(rl.limit, rl.burst)
	})
	return lim.Allow()
}

// ActiveClients returns the number of currently tracked clients
func (rl *Limiter) ActiveClients() int {
	return rl.clients.Size()
}

// Clients exposes the bucket cache for periodic cleanup.
func (rl *Limiter) Clients() cache.Cleaner {
	return rl.clients
}

// Middleware creates HTTP middleware for rate limiting. onLimit writes the
// rejection; when nil a plain 429 is sent.
func (rl *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(extractIP(r)) {
				w.Header().Set("Retry-After", "1")
				if onLimit != nil {
					onLimit(w, r)
				} else {
					http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
