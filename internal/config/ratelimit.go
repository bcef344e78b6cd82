package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// RateLimitConfig drives both limiters.  The Redis token bucket uses
// Capacity/RefillTokens/RefillInterval and is shared by every API replica.
// When Redis is unreachable at startup the router falls back to an
// in-process limiter sized by the same capacity and refill rate.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    IdleTTL        time.Duration // in-process buckets idle longer than this are dropped
    Debug          bool
}

// RefillPerSecond converts the refill settings into a steady-state rate.
func (c RateLimitConfig) RefillPerSecond() float64 {
    if c.RefillInterval <= 0 {
        return float64(c.RefillTokens)
    }
    return float64(c.RefillTokens) / c.RefillInterval.Seconds()
}

// LoadRateLimitConfig reads the RATE_LIMIT_* variables and clamps them to
// a usable bucket: at least one token, a positive refill interval and a
// Redis TTL that outlives a few refills.
func LoadRateLimitConfig() RateLimitConfig {
    c := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    getenv("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
        Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
        IdleTTL:        envDur("RATE_LIMIT_IDLE_TTL", 5*time.Minute),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    c.Capacity = max(c.Capacity, 1)
    c.RefillTokens = max(c.RefillTokens, 1)
    if c.RefillInterval <= 0 {
        c.RefillInterval = time.Second
    }
    c.TTL = max(c.TTL, 5*c.RefillInterval)
    return c
}

func envBool(k string, d bool) bool {
    switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    default:
        return d
    }
}

func envInt(k string, d int) int {
    n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
    if err != nil {
        return d
    }
    return n
}

func envDur(k string, d time.Duration) time.Duration {
    dur, err := time.ParseDuration(strings.TrimSpace(os.Getenv(k)))
    if err != nil {
        return d
    }
    return dur
}
