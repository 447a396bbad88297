package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ProviderRequests *prometheus.CounterVec
	RequestSeconds   *prometheus.HistogramVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	Fallbacks        prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ProviderRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocoding_provider_requests_total",
			Help: "Total number of reverse-geocoding requests per provider and outcome.",
		}, []string{"provider", "status"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geocoding_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		CacheHits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geocoding_cache_hits_total",
			Help: "Total number of reverse-geocoding requests served from cache.",
		}),
		CacheMisses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geocoding_cache_misses_total",
			Help: "Total number of reverse-geocoding requests that missed the cache.",
		}),
		Fallbacks: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geocoding_fallback_results_total",
			Help: "Total number of synthesized fallback addresses served.",
		}),
	}
}
