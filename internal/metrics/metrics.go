package metrics

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const requestDurationName = "gfycat_client_request_duration_seconds"

// Collectors holds the client's Prometheus collectors. The zero value is not
// usable; build one with New.
type Collectors struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	RequestsInFlight  prometheus.Gauge
	TokenGrantsTotal  *prometheus.CounterVec
	PagesFetchedTotal *prometheus.CounterVec
	UploadBytes       prometheus.Histogram
	UploadsTotal      *prometheus.CounterVec
	FinalizeTotal     *prometheus.CounterVec
	StatusPollsTotal  prometheus.Counter
}

// New builds the collectors and registers them with reg. A nil reg leaves
// them unregistered. When reg already holds an identical collector, for
// example from a second client sharing the registry, that one is reused.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{}
	c.RequestsTotal = register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gfycat_client_requests_total",
			Help: "Total number of requests sent to the Gfycat API",
		},
		[]string{"method", "path", "status"},
	))
	c.RequestDuration = register(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    requestDurationName,
			Help:    "Gfycat API request duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	))
	c.RequestsInFlight = register(reg, prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gfycat_client_requests_in_flight",
			Help: "Number of Gfycat API requests currently in flight",
		},
	))
	c.TokenGrantsTotal = register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gfycat_client_token_grants_total",
			Help: "Total number of OAuth token grants issued by the client",
		},
		[]string{"grant", "status"},
	))
	c.PagesFetchedTotal = register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gfycat_client_pages_fetched_total",
			Help: "Total number of list pages fetched while paginating",
		},
		[]string{"operation"},
	))
	c.UploadBytes = register(reg, prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gfycat_client_upload_bytes",
			Help:    "Size of payloads transferred to the upload host",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 10),
		},
	))
	c.UploadsTotal = register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gfycat_client_uploads_total",
			Help: "Total number of upload attempts by phase outcome",
		},
		[]string{"phase", "status"},
	))
	c.FinalizeTotal = register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gfycat_client_finalize_total",
			Help: "Total number of private-upload finalizations by outcome",
		},
		[]string{"outcome"},
	))
	c.StatusPollsTotal = register(reg, prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gfycat_client_status_polls_total",
			Help: "Total number of encoding status polls",
		},
	))
	return c
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

var staticSegments = map[string]bool{
	"v1": true, "oauth": true, "token": true, "me": true, "users": true,
	"gfycats": true, "collections": true, "follows": true, "followers": true,
	"likes": true, "populated": true, "saved": true, "search": true,
	"trending": true, "tags": true, "reactions": true, "fetch": true,
	"status": true, "title": true, "description": true, "like": true,
	"published": true, "nsfw": true, "domain-whitelist": true,
	"geo-whitelist": true, "contents": true, "email_verified": true,
	"send_verification_email": true, "profile_image_url": true,
}

// NormalizePath collapses user names, gfy ids and collection ids into ":id"
// so label cardinality stays bounded.
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		if !staticSegments[s] {
			segments[i] = ":id"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func (c *Collectors) RecordTokenGrant(grant, status string) {
	c.TokenGrantsTotal.WithLabelValues(grant, status).Inc()
}

func (c *Collectors) RecordPage(operation string) {
	c.PagesFetchedTotal.WithLabelValues(operation).Inc()
}

func (c *Collectors) RecordUploadPhase(phase, status string) {
	c.UploadsTotal.WithLabelValues(phase, status).Inc()
}

func (c *Collectors) RecordUploadBytes(sizeBytes int64) {
	c.UploadBytes.Observe(float64(sizeBytes))
}

func (c *Collectors) RecordFinalize(outcome string) {
	c.FinalizeTotal.WithLabelValues(outcome).Inc()
}

func (c *Collectors) RecordStatusPoll() {
	c.StatusPollsTotal.Inc()
}
