package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors reúne as métricas do sports-api. Os componentes recebem callbacks
// (OnHit, OnResult...) ligados a estes contadores no main.
type Collectors struct {
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheErrors        *prometheus.CounterVec
	CacheInvalidations prometheus.Counter
	Predictions        *prometheus.CounterVec
	PublishErrors      *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		CacheHits:          prometheus.NewCounter(prometheus.CounterOpts{Name: "sports_api_cache_hits_total", Help: "leituras servidas pelo cache"}),
		CacheMisses:        prometheus.NewCounter(prometheus.CounterOpts{Name: "sports_api_cache_misses_total", Help: "leituras que precisaram computar"}),
		CacheErrors:        prometheus.NewCounterVec(prometheus.CounterOpts{Name: "sports_api_cache_errors_total", Help: "falhas do backend de cache por operação"}, []string{"op"}),
		CacheInvalidations: prometheus.NewCounter(prometheus.CounterOpts{Name: "sports_api_cache_invalidated_keys_total", Help: "chaves invalidadas"}),
		Predictions:        prometheus.NewCounterVec(prometheus.CounterOpts{Name: "sports_api_predictions_total", Help: "previsões geradas por origem"}, []string{"source"}),
		PublishErrors:      prometheus.NewCounterVec(prometheus.CounterOpts{Name: "sports_api_event_publish_errors_total", Help: "falhas de publicação por sink"}, []string{"sink"}),
		HTTPRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Name: "sports_api_http_requests_total", Help: "requisições por rota e status"}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sports_api_http_request_duration_seconds",
			Help:    "latência das requisições",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(c.CacheHits, c.CacheMisses, c.CacheErrors, c.CacheInvalidations,
		c.Predictions, c.PublishErrors, c.HTTPRequests, c.HTTPDuration)
	return c
}

func (c *Collectors) OnCacheHit()                { c.CacheHits.Inc() }
func (c *Collectors) OnCacheMiss()               { c.CacheMisses.Inc() }
func (c *Collectors) OnCacheError(op string)     { c.CacheErrors.WithLabelValues(op).Inc() }
func (c *Collectors) OnInvalidate(keys int)      { c.CacheInvalidations.Add(float64(keys)) }
func (c *Collectors) OnPrediction(src string)    { c.Predictions.WithLabelValues(src).Inc() }
func (c *Collectors) OnPublishError(sink string) { c.PublishErrors.WithLabelValues(sink).Inc() }

func (c *Collectors) ObserveHTTP(method, route string, status int, seconds float64) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}
