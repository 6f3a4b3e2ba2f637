package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// rateLimiter implémente un Token Bucket par IP, utilisé sur les routes
// d'authentification pour ralentir les tentatives en rafale
type rateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    int           // Nombre max de requêtes
	window  time.Duration // Fenêtre temporelle
}

type bucket struct {
	tokens    int
	lastReset time.Time
}

func newRateLimiter(maxRequests int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		buckets: make(map[string]*bucket),
		rate:    maxRequests,
		window:  window,
	}

	// Nettoyage périodique des buckets expirés
	go rl.cleanup()

	return rl
}

func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for ip, b := range rl.buckets {
			if time.Since(b.lastReset) > rl.window*2 {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// take consomme un jeton pour l'IP donnée ; false si le seau est vide
func (rl *rateLimiter) take(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists || time.Since(b.lastReset) > rl.window {
		b = &bucket{
			tokens:    rl.rate,
			lastReset: time.Now(),
		}
		rl.buckets[ip] = b
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// RateLimitMiddleware crée un middleware Gin de rate limiting par IP
func RateLimitMiddleware(maxRequests int, window time.Duration) gin.HandlerFunc {
	limiter := newRateLimiter(maxRequests, window)

	return func(c *gin.Context) {
		if !limiter.take(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "trop de requêtes, réessayez plus tard",
				"retry_after": limiter.window.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
