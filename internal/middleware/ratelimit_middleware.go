package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hanbyul/storefront-backend/internal/errors"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the per-client limits. Checkout gets its own
// tighter budget independent of the general API limit.
type RateLimiterConfig struct {
	GeneralRate     rate.Limit
	GeneralBurst    int
	CheckoutRate    rate.Limit
	CheckoutBurst   int
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig allows 120 general requests and 10 checkouts
// per minute per client.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(120.0 / 60.0),
		GeneralBurst:    120,
		CheckoutRate:    rate.Limit(10.0 / 60.0),
		CheckoutBurst:   10,
		CleanupInterval: 5 * time.Minute,
	}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter tracks token buckets per client key. Authenticated requests
// are keyed by user ID, anonymous ones by client IP.
type RateLimiter struct {
	config RateLimiterConfig

	generalMu       sync.Mutex
	generalLimiters map[string]*clientLimiter

	checkoutMu       sync.Mutex
	checkoutLimiters map[string]*clientLimiter

	stopCh chan struct{}
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:           config,
		generalLimiters:  make(map[string]*clientLimiter),
		checkoutLimiters: make(map[string]*clientLimiter),
		stopCh:           make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop ends the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// General limits the whole API surface.
func (rl *RateLimiter) General() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getOrCreate(&rl.generalMu, rl.generalLimiters, clientKey(c), rl.config.GeneralRate, rl.config.GeneralBurst)

		if !limiter.Allow() {
			log := GetLoggerFromContext(c)
			log.Warn("Rate limit exceeded", map[string]interface{}{
				"limit_type": "general",
				"client":     clientKey(c),
			})
			respondRateLimited(c, rl.config.GeneralRate)
			return
		}

		c.Next()
	}
}

// Checkout limits order creation separately from the general budget.
func (rl *RateLimiter) Checkout() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getOrCreate(&rl.checkoutMu, rl.checkoutLimiters, clientKey(c), rl.config.CheckoutRate, rl.config.CheckoutBurst)

		if !limiter.Allow() {
			log := GetLoggerFromContext(c)
			log.Warn("Rate limit exceeded", map[string]interface{}{
				"limit_type": "checkout",
				"client":     clientKey(c),
			})
			respondRateLimited(c, rl.config.CheckoutRate)
			return
		}

		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	if userID, ok := GetUserID(c); ok {
		return "u:" + strconv.FormatUint(uint64(userID), 10)
	}
	return "ip:" + c.ClientIP()
}

func (rl *RateLimiter) getOrCreate(mu *sync.Mutex, limiters map[string]*clientLimiter, key string, r rate.Limit, burst int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	if cl, exists := limiters[key]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(r, burst)
	limiters[key] = &clientLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}
	return limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops client entries idle for more than twice the cleanup interval.
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2
	now := time.Now()

	rl.generalMu.Lock()
	for key, cl := range rl.generalLimiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.generalLimiters, key)
		}
	}
	rl.generalMu.Unlock()

	rl.checkoutMu.Lock()
	for key, cl := range rl.checkoutLimiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.checkoutLimiters, key)
		}
	}
	rl.checkoutMu.Unlock()
}

// respondRateLimited writes a 429 with a Retry-After estimate of one
// token's refill time.
func respondRateLimited(c *gin.Context, r rate.Limit) {
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	c.Header("Retry-After", strconv.Itoa(retryAfterSec))
	errors.RespondWithError(c, http.StatusTooManyRequests, errors.RateLimitExceeded, "Too many requests, please try again later")
	c.Abort()
}
