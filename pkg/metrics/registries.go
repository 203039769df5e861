package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoadRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedstash_load_ops_total",
		Help: "The total number of feed load requests",
	})
	FetchRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedstash_fetch_ops_total",
		Help: "The total number of network fetches issued",
	})
	SubscribeRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedstash_subscribe_ops_total",
		Help: "The total number of processed subscribe requests",
	})
	PreviewRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedstash_preview_ops_total",
		Help: "The total number of processed preview requests",
	})
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedstash_cache_hits_ops_total",
		Help: "The total number of cache hits",
	})
	CacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedstash_cache_miss_ops_total",
		Help: "The total number of cache misses",
	})
	FallbackReads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedstash_fallback_reads_ops_total",
		Help: "The total number of loads served from the offline cache",
	})
	AppErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feedstash_errors_total",
		Help: "Number of errors for the app.",
	}, []string{"type"})
	RefreshResults = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "feedstash_refresh_results",
		Help: "Feed refresh results",
	}, []string{"result"})
)
