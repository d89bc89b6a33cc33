package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/sports-data-api/internal/sports-api/auth"
	"github.com/radieske/sports-data-api/internal/sports-api/service"
	"github.com/radieske/sports-data-api/internal/sports-api/store"
)

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type observed struct {
	mu     sync.Mutex
	routes []string
}

func (o *observed) ObserveHTTP(method, route string, status int, _ float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.routes = append(o.routes, method+" "+route)
}

type fixture struct {
	handler http.Handler
	tokens  *auth.Tokens
	metrics *observed
}

func newFixture(t *testing.T, limits Limits, opts ...func(*API)) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	mem := store.NewMemory(clock)
	tokens := auth.NewTokens("secret", time.Hour, clock)
	o := &observed{}
	api := &API{
		Services: service.New(service.Deps{Store: mem}, tokens),
		DB:       mem,
		Tokens:   tokens,
		Metrics:  o,
		Limits:   limits,
		Clock:    clock,
	}
	for _, o := range opts {
		o(api)
	}
	return &fixture{handler: api.Router(), tokens: tokens, metrics: o}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) (int, response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var res response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return rec.Code, res
}

func (f *fixture) token(t *testing.T) string {
	t.Helper()
	tok, err := f.tokens.Issue("user-1", "user@example.com")
	require.NoError(t, err)
	return tok
}

func dataMap(t *testing.T, res response) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(res.Data, &m))
	return m
}

func TestHealthReportsDatabaseKind(t *testing.T) {
	f := newFixture(t, Limits{})
	code, res := f.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, res.Success)
	data := dataMap(t, res)
	db := data["database"].(map[string]any)
	assert.Equal(t, "memory", db["type"])
	assert.Equal(t, "connected", db["status"])
	assert.Equal(t, false, data["cache"].(map[string]any)["available"])
}

type downDB struct{}

func (downDB) Kind() string               { return "postgresql" }
func (downDB) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthUnavailableWhenPingFails(t *testing.T) {
	api := &API{DB: downDB{}}
	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRegisterLoginAndCreate(t *testing.T) {
	f := newFixture(t, Limits{})

	code, res := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "ana@example.com", "password": "secret1", "name": "Ana",
	})
	require.Equal(t, http.StatusCreated, code, res.Error)
	assert.Equal(t, "User registered successfully", res.Message)

	code, res = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "ana@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, code, res.Error)
	token := dataMap(t, res)["token"].(string)
	assert.NotContains(t, string(res.Data), "password")

	code, res = f.do(t, http.MethodPost, "/api/teams", token, map[string]any{
		"name": "Red", "country": "X", "foundedYear": 1900, "stadium": "Red Park",
	})
	require.Equal(t, http.StatusCreated, code, res.Error)
	assert.Equal(t, "Team created successfully", res.Message)
	assert.Equal(t, "Red", dataMap(t, res)["name"])
}

func TestLoginWithWrongPassword(t *testing.T) {
	f := newFixture(t, Limits{})
	f.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"email": "ana@example.com", "password": "secret1"})

	code, res := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, res.Success)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t, Limits{})
	code, res := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"email": "not-an-email", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res.Error, "email")
	assert.Contains(t, res.Error, "password")
}

func TestMutationsRequireToken(t *testing.T) {
	f := newFixture(t, Limits{})

	code, res := f.do(t, http.MethodPost, "/api/teams", "", map[string]any{"name": "Red"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "No token provided", res.Error)

	code, res = f.do(t, http.MethodDelete, "/api/teams/abc", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid or expired token", res.Error)
}

func TestTeamValidation(t *testing.T) {
	f := newFixture(t, Limits{})
	tok := f.token(t)

	cases := map[string]map[string]any{
		"founded too early": {"name": "Red", "country": "X", "foundedYear": 1700, "stadium": "S"},
		"founded in future": {"name": "Red", "country": "X", "foundedYear": 2026, "stadium": "S"},
		"missing stadium":   {"name": "Red", "country": "X", "foundedYear": 1900},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			code, _ := f.do(t, http.MethodPost, "/api/teams", tok, body)
			assert.Equal(t, http.StatusBadRequest, code)
		})
	}

	code, _ := f.do(t, http.MethodPut, "/api/teams/x", tok, map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPlayerFlow(t *testing.T) {
	f := newFixture(t, Limits{})
	tok := f.token(t)

	_, res := f.do(t, http.MethodPost, "/api/teams", tok, map[string]any{"name": "Red", "country": "X", "foundedYear": 1900, "stadium": "S"})
	teamID := dataMap(t, res)["id"].(string)

	code, _ := f.do(t, http.MethodPost, "/api/players", tok, map[string]any{"name": "Kid", "position": "GK", "age": 12, "teamId": teamID})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodPost, "/api/players", tok, map[string]any{"name": "Al", "position": "GK", "age": 20, "teamId": teamID, "rating": 11})
	assert.Equal(t, http.StatusBadRequest, code)

	code, res = f.do(t, http.MethodPost, "/api/players", tok, map[string]any{"name": "Al", "position": "GK", "age": 20, "teamId": teamID, "rating": 7.5})
	require.Equal(t, http.StatusCreated, code, res.Error)
	player := dataMap(t, res)
	assert.Equal(t, teamID, player["team"].(map[string]any)["id"])

	code, res = f.do(t, http.MethodGet, "/api/players?teamId="+teamID, "", nil)
	require.Equal(t, http.StatusOK, code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(res.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Al", list[0]["name"])

	code, res = f.do(t, http.MethodPut, "/api/players/"+player["id"].(string), tok, map[string]any{"goals": 3})
	require.Equal(t, http.StatusOK, code, res.Error)
	assert.Equal(t, 3.0, dataMap(t, res)["goals"])

	code, _ = f.do(t, http.MethodDelete, "/api/players/"+player["id"].(string), tok, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = f.do(t, http.MethodGet, "/api/players/"+player["id"].(string), "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMatchFlow(t *testing.T) {
	f := newFixture(t, Limits{})
	tok := f.token(t)

	_, res := f.do(t, http.MethodPost, "/api/teams", tok, map[string]any{"name": "Red", "country": "X", "foundedYear": 1900, "stadium": "S"})
	red := dataMap(t, res)["id"].(string)
	_, res = f.do(t, http.MethodPost, "/api/teams", tok, map[string]any{"name": "Blue", "country": "Y", "foundedYear": 1950, "stadium": "T"})
	blue := dataMap(t, res)["id"].(string)

	code, _ := f.do(t, http.MethodPost, "/api/matches", tok, map[string]any{"homeTeamId": red, "awayTeamId": red, "date": "2025-06-01T18:00:00Z"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = f.do(t, http.MethodPost, "/api/matches", tok, map[string]any{"homeTeamId": red, "awayTeamId": blue, "date": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, res = f.do(t, http.MethodPost, "/api/matches", tok, map[string]any{"homeTeamId": red, "awayTeamId": blue, "date": "2025-06-01T18:00:00Z"})
	require.Equal(t, http.StatusCreated, code, res.Error)
	match := dataMap(t, res)
	id := match["id"].(string)
	assert.Equal(t, "scheduled", match["status"])
	assert.Equal(t, "Red", match["homeTeam"].(map[string]any)["name"])

	code, res = f.do(t, http.MethodGet, "/api/matches/"+id+"/prediction", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.35, dataMap(t, res)["homeWinProbability"])

	code, _ = f.do(t, http.MethodPut, "/api/matches/"+id, tok, map[string]any{"homeScore": -1})
	assert.Equal(t, http.StatusBadRequest, code)

	code, res = f.do(t, http.MethodPut, "/api/matches/"+id, tok, map[string]any{"status": "finished", "homeScore": 2, "awayScore": 1})
	require.Equal(t, http.StatusOK, code, res.Error)

	code, res = f.do(t, http.MethodGet, "/api/matches?status=finished", "", nil)
	require.Equal(t, http.StatusOK, code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(res.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, 2.0, list[0]["homeScore"])

	code, _ = f.do(t, http.MethodGet, "/api/matches?status=postponed", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodDelete, "/api/teams/"+red, tok, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = f.do(t, http.MethodGet, "/api/matches/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestEmptyListKeepsDataArray(t *testing.T) {
	f := newFixture(t, Limits{})
	code, res := f.do(t, http.MethodGet, "/api/teams", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(res.Data))
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, Limits{})
	code, res := f.do(t, http.MethodGet, "/api/nothing", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Route not found", res.Error)
}

func TestRateLimitPerIP(t *testing.T) {
	f := newFixture(t, Limits{RPS: 0.001, Burst: 2})

	for i := 0; i < 2; i++ {
		code, _ := f.do(t, http.MethodGet, "/api/teams", "", nil)
		require.Equal(t, http.StatusOK, code)
	}
	code, res := f.do(t, http.MethodGet, "/api/teams", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Contains(t, res.Error, "Too many requests")

	// outro IP tem o próprio bucket
	req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsUseRoutePattern(t *testing.T) {
	f := newFixture(t, Limits{})
	f.do(t, http.MethodGet, "/api/teams/some-id", "", nil)

	f.metrics.mu.Lock()
	defer f.metrics.mu.Unlock()
	assert.Contains(t, f.metrics.routes, "GET /api/teams/{id}")
}

func loginFrom(f *fixture, forwardedFor string) int {
	body := strings.NewReader(`{"email":"ana@example.com","password":"wrong-one"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set("X-Forwarded-For", forwardedFor)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestForwardedForIsIgnoredByDefault(t *testing.T) {
	f := newFixture(t, Limits{})

	limited := 0
	for i := 0; i < 10; i++ {
		if loginFrom(f, fmt.Sprintf("203.0.113.%d", i)) == http.StatusTooManyRequests {
			limited++
		}
	}
	// mesmo socket, mesmo bucket: só as 5 primeiras passam
	assert.Equal(t, 5, limited)
}

func TestTrustProxyUsesForwardedFor(t *testing.T) {
	f := newFixture(t, Limits{}, func(a *API) { a.TrustProxy = true })

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusUnauthorized, loginFrom(f, fmt.Sprintf("203.0.113.%d", i)))
	}
	for i := 0; i < 5; i++ {
		loginFrom(f, "198.51.100.7")
	}
	assert.Equal(t, http.StatusTooManyRequests, loginFrom(f, "198.51.100.7"))
}

func TestLimiterEvictsIdleVisitors(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := newIPLimiter(1, 3, "slow down", clock)

	for i := 0; i < 3; i++ {
		require.True(t, l.allow("10.0.0.1"))
	}
	assert.False(t, l.allow("10.0.0.1"))
	assert.Equal(t, 1, l.visitors.Size())

	clock.Advance(l.idle + sweepEvery)
	assert.True(t, l.allow("10.0.0.2"))
	assert.Equal(t, 1, l.visitors.Size())
	_, ok := l.visitors.Load("10.0.0.1")
	assert.False(t, ok)

	// voltar depois da remoção dá um bucket cheio, como se tivesse recarregado
	for i := 0; i < 3; i++ {
		assert.True(t, l.allow("10.0.0.1"))
	}
}

func TestIdleNeverShorterThanRefill(t *testing.T) {
	l := newIPLimiter(authLimitRPS, authLimitBurst, "", clockwork.NewFakeClock())
	assert.GreaterOrEqual(t, l.idle, 15*time.Minute)
}

func TestOversizedBodyIsRejected(t *testing.T) {
	f := newFixture(t, Limits{})
	big := `{"email":"ana@example.com","password":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(big))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var res response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res.Error, "exceeds")
}
