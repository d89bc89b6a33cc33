package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/time/rate"

	"github.com/radieske/sports-data-api/internal/sports-api/auth"
)

// 5 tentativas a cada 15 minutos por IP
const (
	authLimitRPS   = 5.0 / (15 * 60)
	authLimitBurst = 5
)

type ctxKey struct{}

// ClaimsFrom retorna o usuário autenticado pela requisição
func ClaimsFrom(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(auth.Claims)
	return c, ok
}

// authenticate exige "Authorization: Bearer <jwt>"
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, envelope{Error: "No token provided"})
			return
		}
		claims, err := a.Tokens.Verify(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, envelope{Error: "Invalid or expired token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
	})
}

const (
	minIdle    = 10 * time.Minute
	sweepEvery = time.Minute
)

type visitor struct {
	lim  *rate.Limiter
	seen atomic.Int64 // unix nano do último acesso
}

// ipLimiter mantém um token bucket por IP. Buckets parados por mais de idle são
// removidos; idle nunca é menor que o tempo de recarga completa do bucket, então
// remover equivale a manter um bucket cheio.
type ipLimiter struct {
	limit     rate.Limit
	burst     int
	message   string
	clock     clockwork.Clock
	idle      time.Duration
	lastSweep atomic.Int64
	visitors  *xsync.MapOf[string, *visitor]
}

func newIPLimiter(rps float64, burst int, message string, clock clockwork.Clock) *ipLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	l := &ipLimiter{
		limit:    rate.Inf,
		burst:    burst,
		message:  message,
		clock:    clock,
		idle:     minIdle,
		visitors: xsync.NewMapOf[string, *visitor](),
	}
	if rps > 0 {
		l.limit = rate.Limit(rps)
		if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > l.idle {
			l.idle = refill
		}
	}
	l.lastSweep.Store(clock.Now().UnixNano())
	return l
}

func (l *ipLimiter) allow(ip string) bool {
	if l.limit == rate.Inf {
		return true
	}
	now := l.clock.Now()
	l.maybeSweep(now)

	v, _ := l.visitors.LoadOrCompute(ip, func() *visitor {
		return &visitor{lim: rate.NewLimiter(l.limit, l.burst)}
	})
	v.seen.Store(now.UnixNano())
	return v.lim.AllowN(now, 1)
}

// maybeSweep varre o mapa no máximo uma vez por sweepEvery
func (l *ipLimiter) maybeSweep(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(sweepEvery) || !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	l.sweep(now)
}

func (l *ipLimiter) sweep(now time.Time) {
	cutoff := now.Add(-l.idle).UnixNano()
	l.visitors.Range(func(ip string, _ *visitor) bool {
		l.visitors.Compute(ip, func(v *visitor, loaded bool) (*visitor, bool) {
			return v, !loaded || v.seen.Load() < cutoff
		})
		return true
	})
}

func (l *ipLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			writeJSON(w, http.StatusTooManyRequests, envelope{Error: l.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// observe registra status e latência por rota (padrão do chi, não o path)
func (a *API) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		a.Metrics.ObserveHTTP(r.Method, route, status, time.Since(start).Seconds())
	})
}
