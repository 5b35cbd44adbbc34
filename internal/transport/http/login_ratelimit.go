// Copyright 2026 The CampusGate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusgate/campusgate/internal/observability/logger"
)

// LoginLimiter throttles credential attempts with a Redis fixed window so
// the limit holds across gateway replicas. The general per-IP limiter is
// in-memory; login gets the shared one because an attacker rotating across
// replicas must not multiply their attempt budget.
type LoginLimiter struct {
	redis    *redis.Client
	prefix   string
	attempts int
	window   time.Duration
}

// NewLoginLimiter creates a Redis-backed login limiter allowing attempts
// per window per client IP.
func NewLoginLimiter(client *redis.Client, attempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		redis:    client,
		prefix:   "login_attempts",
		attempts: attempts,
		window:   window,
	}
}

// Allow records an attempt for key and reports whether it is within budget.
// Redis failures fail open: losing the limiter must not lock every user out.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	pipe := l.redis.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("redis error: %w", err)
	}

	return incr.Val() <= int64(l.attempts), nil
}

// TTL returns the time until the window for key resets.
func (l *LoginLimiter) TTL(ctx context.Context, key string) (time.Duration, error) {
	return l.redis.TTL(ctx, fmt.Sprintf("%s:%s", l.prefix, key)).Result()
}

// Reset clears the window for key.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	return l.redis.Del(ctx, fmt.Sprintf("%s:%s", l.prefix, key)).Err()
}

// LoginLimitMiddleware applies the shared login limiter keyed by client IP.
func LoginLimitMiddleware(l *LoginLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + getClientIP(r)

			allowed, err := l.Allow(r.Context(), key)
			if err != nil {
				slog.WarnContext(r.Context(), "login limiter unavailable, failing open", logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				retryAfter := l.window
				if ttl, err := l.TTL(r.Context(), key); err == nil && ttl > 0 {
					retryAfter = ttl
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				respondError(w, http.StatusTooManyRequests, "too many login attempts")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
