package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
)

// sweepThreshold 记录的 IP 超过该数量时清理过期条目
const sweepThreshold = 1024

// LoginRateLimit 登录/注册接口限流，每个 IP 在滑动窗口内最多 maxAttempts 次，超过返回 429
func LoginRateLimit(maxAttempts int, window time.Duration, clk clock.Clock) gin.HandlerFunc {
	var (
		mu    sync.Mutex
		store = make(map[string][]time.Time)
	)

	prune := func(ts []time.Time, cutoff time.Time) []time.Time {
		kept := ts[:0]
		for _, t := range ts {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		return kept
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := clk.Now()
		cutoff := now.Add(-window)

		mu.Lock()
		if len(store) > sweepThreshold {
			for k, ts := range store {
				if ts = prune(ts, cutoff); len(ts) == 0 {
					delete(store, k)
				} else {
					store[k] = ts
				}
			}
		}
		ts := prune(store[ip], cutoff)
		if len(ts) >= maxAttempts {
			store[ip] = ts
			mu.Unlock()
			logrus.WithField("ip", ip).Warn("login rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "Too many attempts, please try again later",
			})
			return
		}
		store[ip] = append(ts, now)
		mu.Unlock()
		c.Next()
	}
}
