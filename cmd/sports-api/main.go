package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/sports-data-api/internal/shared/cache"
	"github.com/radieske/sports-data-api/internal/shared/config"
	"github.com/radieske/sports-data-api/internal/shared/db"
	"github.com/radieske/sports-data-api/internal/shared/kafka"
	"github.com/radieske/sports-data-api/internal/shared/logger"
	"github.com/radieske/sports-data-api/internal/shared/metrics"
	"github.com/radieske/sports-data-api/internal/sports-api/auth"
	scache "github.com/radieske/sports-data-api/internal/sports-api/cache"
	"github.com/radieske/sports-data-api/internal/sports-api/events"
	httpapi "github.com/radieske/sports-data-api/internal/sports-api/http"
	"github.com/radieske/sports-data-api/internal/sports-api/prediction"
	"github.com/radieske/sports-data-api/internal/sports-api/repo"
	"github.com/radieske/sports-data-api/internal/sports-api/service"
	"github.com/radieske/sports-data-api/internal/sports-api/store"
	"github.com/radieske/sports-data-api/internal/sports-api/ws"
)

func main() {
	// carrega config
	cfg := config.Load()

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))
	if cfg.JWTSecret == config.DevJWTSecret {
		log.Warn("JWT_SECRET not set, using development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	collectors := metrics.NewCollectors(prometheus.DefaultRegisterer)

	// store: postgres quando há DSN, senão memória
	st, err := openStore(ctx, cfg, clock, log)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	defer st.Close()

	// cache: redis | memory | none
	var redisClient *redis.Client
	var backend scache.Backend
	switch cfg.CacheBackend {
	case config.CacheRedis:
		redisClient, err = cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTimeout)
		if err != nil {
			log.Warn("redis unavailable, running without cache", zap.Error(err))
			break
		}
		defer redisClient.Close()
		log.Info("redis connected")
		backend = scache.NewRedisBackend(redisClient)
	case config.CacheMemory:
		mb, err := scache.NewMemoryBackend(scache.DefaultMemoryConfig(cfg.CacheTTL))
		if err != nil {
			log.Fatal("invalid memory cache config", zap.Error(err))
		}
		backend = mb
	}
	layer := scache.New(ctx, backend, scache.Options{
		TTL:     cfg.CacheTTL,
		Timeout: cfg.CacheTimeout,
		Hooks: scache.Hooks{
			OnHit:        collectors.OnCacheHit,
			OnMiss:       collectors.OnCacheMiss,
			OnError:      collectors.OnCacheError,
			OnInvalidate: collectors.OnInvalidate,
		},
	}, log)

	// websocket hub + sinks de eventos
	origins := cfg.CORSOrigins()
	hub := ws.NewHub(allowOrigin(origins), log)

	var sinks []events.Sink
	if cfg.KafkaBrokers != "" {
		writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicEntityChanges)
		defer writer.Close()
		pub := events.NewKafkaPublisher(writer, log)
		pub.OnError = collectors.OnPublishError
		sinks = append(sinks, pub)
		log.Info("kafka writer ready", zap.String("topic", cfg.TopicEntityChanges))
	}
	if redisClient != nil {
		// com redis o hub recebe via pub/sub, o que cobre várias réplicas
		sinks = append(sinks, events.NewRedisBroadcaster(redisClient, cfg.RedisPubSubChannel))
		ws.StartRedisSubscriber(ctx, redisClient, cfg.RedisPubSubChannel, hub, log)
		log.Info("ws redis subscriber started", zap.String("channel", cfg.RedisPubSubChannel))
	} else {
		sinks = append(sinks, hub)
	}
	dispatcher := events.NewDispatcher(clock, log, sinks...)
	dispatcher.OnError = collectors.OnPublishError

	// previsão: sem chave usa só o fallback
	var completer prediction.Completer
	if cfg.OpenAIAPIKey != "" {
		completer = prediction.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITimeout)
	} else {
		log.Info("OPENAI_API_KEY not set, predictions use the fallback")
	}
	predictor := prediction.New(completer, log)
	predictor.OnResult = collectors.OnPrediction

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiresIn, clock)
	svc := service.New(service.Deps{
		Store:     st,
		Cache:     layer,
		Predictor: predictor,
		Events:    dispatcher,
		Log:       log,
	}, tokens)

	api := &httpapi.API{
		Services:    svc,
		DB:          st,
		Cache:       layer,
		Tokens:      tokens,
		Hub:         hub,
		Metrics:     collectors,
		Limits:      httpapi.Limits{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
		TrustProxy:  cfg.TrustProxy,
		CORSOrigins: origins,
		Clock:       clock,
		Log:         log,
	}

	// sobe servidor de métricas e health
	msrv := metrics.StartMetricsServer(cfg.MetricsPort, st.Ping)
	log.Info("metrics/health server starting", zap.String("addr", msrv.Addr))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("sports-api listening", zap.String("addr", srv.Addr), zap.String("database", st.Kind()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shCtx)
	_ = msrv.Shutdown(shCtx)
}

func openStore(ctx context.Context, cfg config.Config, clock clockwork.Clock, log *zap.Logger) (service.Store, error) {
	if cfg.PostgresDSN == "" {
		mem := store.NewMemory(clock)
		if cfg.SeedSampleData {
			if err := mem.Entities().Seed(); err != nil {
				return nil, fmt.Errorf("seed: %w", err)
			}
			log.Info("memory store seeded with sample data")
		}
		log.Warn("POSTGRES_DSN not set, using in-memory store")
		return mem, nil
	}

	pg, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	log.Info("postgres connected")

	p := repo.NewPostgres(pg, clock)
	if err := p.EnsureSchema(ctx); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return p, nil
}

// allowOrigin aplica CORS_ORIGIN ao handshake do websocket
func allowOrigin(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range origins {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}
