package grpc

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/api"
	"github.com/dmitrijs2005/campuswall/internal/common"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"
)

// limitedMethods are throttled per client address.
var limitedMethods = map[string]bool{
	api.FullMethod(api.MethodRegister): true,
	api.FullMethod(api.MethodLogin):    true,
}

const (
	visitorTTL  = 10 * time.Minute
	sweepEveryN = 1000
	unknownPeer = "unknown"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client key. Idle buckets are
// evicted during lookups.
type rateLimiter struct {
	rps   rate.Limit
	burst int
	now   func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
	lookups  int
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &rateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

func (rl *rateLimiter) allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= sweepEveryN {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= visitorTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lookups = 0
	}

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// peerKey identifies the caller by the host part of its address.
func peerKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return unknownPeer
	}
	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if s.limiter == nil || !limitedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	key := peerKey(ctx)
	if !s.limiter.allow(key) {
		s.logger.Warn(ctx, "rate limited", "request_id", requestID(ctx), "method", info.FullMethod, "peer", key)
		return nil, s.toStatus(ctx, common.ErrRateLimited)
	}
	return handler(ctx, req)
}
