package middleware

import (
	"net/http"
	"sync"

	"github.com/bookstore/bookstore-api/internal/tokens"
	"github.com/bookstore/bookstore-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterStore is a per-key token-bucket store.
type limiterStore struct {
	m     sync.Map // map[string]*rate.Limiter
	rps   float64
	burst int
}

// get returns (and lazily creates) the limiter for key
func (s *limiterStore) get(key string) *rate.Limiter {
	if v, ok := s.m.Load(key); ok {
		return v.(*rate.Limiter)
	}
	v, _ := s.m.LoadOrStore(key, rate.NewLimiter(rate.Limit(s.rps), s.burst))
	return v.(*rate.Limiter)
}

// AccessTokenValidator checks an access token's signature and expiry. It must
// not touch any store; the limiter calls it on every request.
type AccessTokenValidator interface {
	Validate(raw string, want tokens.Type) (*tokens.Claims, error)
}

type rateLimitOptions struct {
	validator AccessTokenValidator
}

// RateLimitOption customises how requests are bucketed.
type RateLimitOption func(*rateLimitOptions)

// KeyOnTokenSubject buckets requests carrying a valid access token by its
// subject, even when the limiter runs before RequireUser.
func KeyOnTokenSubject(v AccessTokenValidator) RateLimitOption {
	return func(o *rateLimitOptions) { o.validator = v }
}

func newRateLimitOptions(opts []RateLimitOption) rateLimitOptions {
	var o rateLimitOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// key prefers the authenticated user's email so clients behind one NAT do not
// share a bucket; otherwise the client IP is used. Invalid tokens fall back to
// the IP so garbage bearers cannot mint fresh buckets.
func (o rateLimitOptions) key(c *gin.Context) string {
	if u, ok := CurrentUser(c); ok && u.Email != "" {
		return "user:" + u.Email
	}
	if o.validator != nil {
		if raw, ok := bearerToken(c); ok {
			if claims, err := o.validator.Validate(raw, tokens.TypeAccess); err == nil {
				return "user:" + claims.Subject
			}
		}
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// RateLimitMiddleware returns a Gin middleware enforcing a token-bucket per-key limit.
// rps = allowed events per second, burst = maximum tokens in bucket.
func RateLimitMiddleware(rps float64, burst int, opts ...RateLimitOption) gin.HandlerFunc {
	store := &limiterStore{rps: rps, burst: burst}
	o := newRateLimitOptions(opts)
	return func(c *gin.Context) {
		if !store.get(o.key(c)).Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
