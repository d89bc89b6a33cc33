package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	ctopics "github.com/radieske/sports-data-api/pkg/contracts/topics"
)

// DevJWTSecret é usado quando JWT_SECRET não está definido (só para desenvolvimento)
const DevJWTSecret = "dev-secret-change-me"

// Cache backends suportados
const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

// Config centraliza variáveis de ambiente e parâmetros de execução do serviço
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string
	LogLevel    string // debug | info | warn | error; vazio = default do ambiente

	HTTPPort    string
	MetricsPort string

	PostgresDSN string // vazio = store em memória

	CacheBackend  string // redis | memory | none
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
	CacheTimeout  time.Duration

	KafkaBrokers       string // vazio = sem publicação de eventos
	TopicEntityChanges string
	RedisPubSubChannel string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	OpenAITimeout time.Duration

	JWTSecret    string
	JWTExpiresIn time.Duration

	CORSOrigin     string
	RateLimitRPS   float64
	RateLimitBurst int
	TrustProxy     bool // usa X-Forwarded-For/X-Real-IP como IP do cliente (só atrás de proxy confiável)

	SeedSampleData bool
}

// Load lê um .env opcional e depois as variáveis de ambiente com defaults
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:         getEnv("ENV", "local"),
		ServiceName: getEnv("SERVICE_NAME", "sports-api"),
		LogLevel:    getEnv("LOG_LEVEL", ""),

		HTTPPort:    getEnv("HTTP_PORT", "3000"),
		MetricsPort: getEnv("METRICS_PORT", "9095"),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		CacheBackend:  strings.ToLower(getEnv("CACHE_BACKEND", CacheRedis)),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      getDuration("CACHE_TTL", 300*time.Second),
		CacheTimeout:  getDuration("CACHE_TIMEOUT", 2*time.Second),

		KafkaBrokers:       getEnv("KAFKA_BROKERS", ""),
		TopicEntityChanges: getEnv("KAFKA_TOPIC_ENTITY_CHANGES", ctopics.EntityChanges),
		RedisPubSubChannel: getEnv("REDIS_PUBSUB_CHANNEL", ctopics.EntityChangesBroadcast),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAITimeout: getDuration("OPENAI_TIMEOUT", 20*time.Second),

		JWTSecret:    getEnv("JWT_SECRET", DevJWTSecret),
		JWTExpiresIn: getDuration("JWT_EXPIRES_IN", 7*24*time.Hour),

		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 100.0/(15*60)),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 100),
		TrustProxy:     getBool("TRUST_PROXY", false),

		SeedSampleData: getBool("SEED_SAMPLE_DATA", true),
	}
}

// CORSOrigins separa CORS_ORIGIN por vírgula
func (c Config) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// getEnv retorna o valor da variável de ambiente ou o default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// getDuration aceita "300s", "7d" ou segundos sem unidade
func getDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	if strings.HasSuffix(v, "d") {
		if n, err := strconv.Atoi(strings.TrimSuffix(v, "d")); err == nil {
			return time.Duration(n) * 24 * time.Hour
		}
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

func getInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return def
}

func getBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return def
}
