package middleware

import (
    "sync"
    "time"

    "github.com/labstack/echo/v4"
    "golang.org/x/time/rate"

    "github.com/iliyamo/tourist-event-booking/internal/config"
)

type keyLimiter struct {
    limiter  *rate.Limiter
    lastSeen time.Time
}

// LocalLimiter is the in-process token bucket used when Redis is not
// configured.  One rate.Limiter per key; idle keys are swept.
type LocalLimiter struct {
    cfg     config.RateLimitConfig
    mu      sync.Mutex
    buckets map[string]*keyLimiter
    now     func() time.Time
}

// NewLocalLimiter builds a limiter from the same settings as the Redis
// bucket: Capacity is the burst and RefillTokens/RefillInterval the rate.
func NewLocalLimiter(cfg config.RateLimitConfig) *LocalLimiter {
    return &LocalLimiter{cfg: cfg, buckets: make(map[string]*keyLimiter), now: time.Now}
}

func (l *LocalLimiter) get(key string) *rate.Limiter {
    now := l.now()
    l.mu.Lock()
    defer l.mu.Unlock()

    if b, ok := l.buckets[key]; ok {
        b.lastSeen = now
        return b.limiter
    }
    if l.cfg.IdleTTL > 0 && len(l.buckets) > 0 && len(l.buckets)%256 == 0 {
        l.sweepLocked(now)
    }
    lim := rate.NewLimiter(rate.Limit(l.cfg.RefillPerSecond()), l.cfg.Capacity)
    l.buckets[key] = &keyLimiter{limiter: lim, lastSeen: now}
    return lim
}

// Sweep drops buckets idle for longer than IdleTTL.
func (l *LocalLimiter) Sweep() {
    l.mu.Lock()
    defer l.mu.Unlock()
    l.sweepLocked(l.now())
}

func (l *LocalLimiter) sweepLocked(now time.Time) {
    for k, b := range l.buckets {
        if now.Sub(b.lastSeen) > l.cfg.IdleTTL {
            delete(l.buckets, k)
        }
    }
}

// Middleware returns the echo middleware.
func (l *LocalLimiter) Middleware() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            lim := l.get(rateKey(l.cfg, c))
            r := lim.ReserveN(l.now(), 1)
            if !r.OK() {
                return tooManyRequests(c, l.cfg.RefillInterval)
            }
            if d := r.DelayFrom(l.now()); d > 0 {
                r.CancelAt(l.now())
                return tooManyRequests(c, d)
            }
            return next(c)
        }
    }
}
