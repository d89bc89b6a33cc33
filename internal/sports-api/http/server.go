package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/radieske/sports-data-api/internal/sports-api/auth"
	"github.com/radieske/sports-data-api/internal/sports-api/cache"
	"github.com/radieske/sports-data-api/internal/sports-api/model"
	"github.com/radieske/sports-data-api/internal/sports-api/service"
	"github.com/radieske/sports-data-api/internal/sports-api/ws"
)

// Database é o que o /health precisa saber do store
type Database interface {
	Kind() string
	Ping(ctx context.Context) error
}

// Observer recebe a latência de cada requisição (metrics.Collectors)
type Observer interface {
	ObserveHTTP(method, route string, status int, seconds float64)
}

// Limits configura o rate limit por IP
type Limits struct {
	RPS   float64
	Burst int
}

// API expõe os endpoints REST de times, jogadores, partidas e autenticação
type API struct {
	Services    *service.Services
	DB          Database
	Cache       *cache.Layer
	Tokens      *auth.Tokens
	Hub         *ws.Hub // nil = sem /ws
	Metrics     Observer
	Limits      Limits
	TrustProxy  bool // só ligue atrás de um proxy que reescreve X-Forwarded-For
	CORSOrigins []string
	Clock       clockwork.Clock
	Log         *zap.Logger
}

// envelope é o formato de todas as respostas
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Router retorna o roteador HTTP com CORS, rate limit e os endpoints
func (a *API) Router() http.Handler {
	if a.Clock == nil {
		a.Clock = clockwork.NewRealClock()
	}
	if a.Log == nil {
		a.Log = zap.NewNop()
	}
	if a.Cache == nil {
		a.Cache = cache.Disabled()
	}

	r := chi.NewRouter()
	if a.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(a.observe)
	r.Use(newIPLimiter(a.Limits.RPS, a.Limits.Burst, "Too many requests from this IP, please try again later.", a.Clock).middleware)

	r.Get("/health", a.health)
	if a.Hub != nil {
		r.Get("/ws", a.Hub.HandleWS)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(newIPLimiter(authLimitRPS, authLimitBurst, "Too many login attempts from this IP, please try again later.", a.Clock).middleware)
			r.Post("/register", a.register)
			r.Post("/login", a.login)
		})
		r.Route("/teams", func(r chi.Router) {
			r.Get("/", a.listTeams)
			r.Get("/{id}", a.getTeam)
			r.With(a.authenticate).Post("/", a.createTeam)
			r.With(a.authenticate).Put("/{id}", a.updateTeam)
			r.With(a.authenticate).Delete("/{id}", a.deleteTeam)
		})
		r.Route("/players", func(r chi.Router) {
			r.Get("/", a.listPlayers)
			r.Get("/{id}", a.getPlayer)
			r.With(a.authenticate).Post("/", a.createPlayer)
			r.With(a.authenticate).Put("/{id}", a.updatePlayer)
			r.With(a.authenticate).Delete("/{id}", a.deletePlayer)
		})
		r.Route("/matches", func(r chi.Router) {
			r.Get("/", a.listMatches)
			r.Get("/{id}", a.getMatch)
			r.Get("/{id}/prediction", a.getPrediction)
			r.With(a.authenticate).Post("/", a.createMatch)
			r.With(a.authenticate).Put("/{id}", a.updateMatch)
			r.With(a.authenticate).Delete("/{id}", a.deleteMatch)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Error: "Route not found"})
	})

	return cors.New(cors.Options{
		AllowedOrigins: a.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) ok(w http.ResponseWriter, status int, data any, msg string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: msg})
}

// fail traduz o erro de domínio; erros internos não vazam para o cliente
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := model.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		a.Log.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, status, envelope{Error: "Internal server error"})
		return
	}
	writeJSON(w, status, envelope{Error: err.Error()})
}

// maxBodyBytes limita o corpo JSON das requisições
const maxBodyBytes = 1 << 20

// decode lê o corpo JSON (até maxBodyBytes) e roda a validação
func decode(w http.ResponseWriter, r *http.Request, dst any, validate func() error) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d bytes", model.ErrValidation, tooLarge.Limit)
		}
		return fmt.Errorf("%w: invalid JSON body", model.ErrValidation)
	}
	if validate == nil {
		return nil
	}
	if err := validate(); err != nil {
		return fmt.Errorf("%w: %s", model.ErrValidation, err.Error())
	}
	return nil
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	db := map[string]any{"type": a.DB.Kind(), "status": "connected"}
	status := http.StatusOK
	if err := a.DB.Ping(ctx); err != nil {
		db["status"] = "disconnected"
		status = http.StatusServiceUnavailable
	}
	if a.DB.Kind() == "memory" {
		db["note"] = "Using in-memory storage - data will be lost on restart"
	}

	writeJSON(w, status, envelope{
		Success: status == http.StatusOK,
		Message: "Server is running",
		Data: map[string]any{
			"timestamp": a.Clock.Now().UTC().Format(time.RFC3339Nano),
			"database":  db,
			"cache":     map[string]any{"available": a.Cache.Available()},
		},
	})
}
