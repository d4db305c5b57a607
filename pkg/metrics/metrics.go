package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AuthRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "postboard", Name: "auth_rejected_total", Help: "Number of requests rejected by the auth gate, by reason."},
		[]string{"reason"},
	)
	PostMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "postboard", Name: "post_mutations_total", Help: "Number of post mutations by operation and outcome kind."},
		[]string{"op", "outcome"},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "postboard", Name: "post_cache_lookups_total", Help: "Post cache lookups by result."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(AuthRejected)
	reg.MustRegister(PostMutations)
	reg.MustRegister(CacheLookups)
}
