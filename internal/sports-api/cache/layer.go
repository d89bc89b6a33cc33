package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTTL     = 300 * time.Second
	DefaultTimeout = 2 * time.Second
)

// Hooks permite que o main ligue métricas sem acoplar o pacote ao prometheus
type Hooks struct {
	OnHit        func()
	OnMiss       func()
	OnError      func(op string)
	OnInvalidate func(keys int)
}

type Options struct {
	TTL     time.Duration
	Timeout time.Duration
	Hooks   Hooks
}

// Layer implementa cache-aside. Se o backend falhar no ping inicial o layer fica
// indisponível até o fim do processo: Read sempre computa e Invalidate não faz nada.
type Layer struct {
	backend   Backend
	available bool
	ttl       time.Duration
	timeout   time.Duration
	hooks     Hooks
	log       *zap.Logger
}

// New faz uma única tentativa de conexão (ping) com o backend
func New(ctx context.Context, backend Backend, opts Options, log *zap.Logger) *Layer {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Layer{backend: backend, ttl: opts.TTL, timeout: opts.Timeout, hooks: opts.Hooks, log: log}
	if l.ttl <= 0 {
		l.ttl = DefaultTTL
	}
	if l.timeout <= 0 {
		l.timeout = DefaultTimeout
	}
	if backend == nil {
		log.Info("cache disabled")
		return l
	}

	pctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	if err := backend.Ping(pctx); err != nil {
		log.Warn("cache unavailable, running without cache", zap.Error(err))
		return l
	}
	l.available = true
	return l
}

// Disabled devolve um layer sem backend
func Disabled() *Layer {
	return &Layer{ttl: DefaultTTL, timeout: DefaultTimeout, log: zap.NewNop()}
}

func (l *Layer) Available() bool { return l.available }

// Read: hit decodifica o JSON; miss computa, grava com TTL e devolve.
// Erros de compute voltam para o chamador e nunca são cacheados.
func Read[T any](ctx context.Context, l *Layer, key string, compute func(context.Context) (T, error)) (T, error) {
	if l.available {
		if v, ok := get[T](ctx, l, key); ok {
			l.hit()
			return v, nil
		}
		l.miss()
	}

	v, err := compute(ctx)
	if err != nil {
		return v, err
	}

	if l.available {
		l.set(ctx, key, v)
	}
	return v, nil
}

func get[T any](ctx context.Context, l *Layer, key string) (T, bool) {
	var zero T
	cctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	raw, ok, err := l.backend.Get(cctx, key)
	if err != nil {
		l.fail("get", key, err)
		return zero, false
	}
	if !ok {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		l.fail("decode", key, err)
		return zero, false
	}
	return v, true
}

func (l *Layer) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		l.fail("encode", key, err)
		return
	}
	cctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	if err := l.backend.Set(cctx, key, raw, l.ttl); err != nil {
		l.fail("set", key, err)
	}
}

// Invalidate apaga as chaves; falhas são logadas e absorvidas
func (l *Layer) Invalidate(ctx context.Context, keys ...string) {
	if !l.available || len(keys) == 0 {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	if err := l.backend.Delete(cctx, keys...); err != nil {
		l.fail("delete", keys[0], err)
		return
	}
	if l.hooks.OnInvalidate != nil {
		l.hooks.OnInvalidate(len(keys))
	}
}

func (l *Layer) hit() {
	if l.hooks.OnHit != nil {
		l.hooks.OnHit()
	}
}

func (l *Layer) miss() {
	if l.hooks.OnMiss != nil {
		l.hooks.OnMiss()
	}
}

func (l *Layer) fail(op, key string, err error) {
	l.log.Warn("cache operation failed", zap.String("op", op), zap.String("key", key), zap.Error(err))
	if l.hooks.OnError != nil {
		l.hooks.OnError(op)
	}
}
