package metrics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Summary is a short digest of the request duration histogram.
type Summary struct {
	Requests uint64
	// P95 is the upper bound of the bucket holding the 95th percentile.
	P95 time.Duration
}

// Summarize reads the request duration histogram from g and merges every
// label set into one distribution.
func Summarize(g prometheus.Gatherer) (Summary, error) {
	families, err := g.Gather()
	if err != nil {
		return Summary{}, err
	}

	var (
		count   uint64
		buckets = map[float64]uint64{}
	)
	for _, mf := range families {
		if mf.GetName() != requestDurationName {
			continue
		}
		for _, m := range mf.GetMetric() {
			h := m.GetHistogram()
			if h == nil {
				continue
			}
			count += h.GetSampleCount()
			for _, b := range h.GetBucket() {
				buckets[b.GetUpperBound()] += b.GetCumulativeCount()
			}
		}
	}
	if count == 0 {
		return Summary{}, nil
	}
	return Summary{Requests: count, P95: quantile(0.95, count, buckets)}, nil
}

func quantile(q float64, count uint64, buckets map[float64]uint64) time.Duration {
	bounds := make([]float64, 0, len(buckets))
	for b := range buckets {
		bounds = append(bounds, b)
	}
	sort.Float64s(bounds)

	rank := uint64(math.Ceil(q * float64(count)))
	for _, b := range bounds {
		if buckets[b] >= rank {
			return time.Duration(b * float64(time.Second))
		}
	}
	// Beyond the last bucket; report its bound.
	if len(bounds) == 0 {
		return 0
	}
	return time.Duration(bounds[len(bounds)-1] * float64(time.Second))
}

// WriteTextfile writes everything g gathers to path in the text exposition
// format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Push sends everything g gathers to a Prometheus Pushgateway under job.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer) error {
	if err := push.New(url, job).Gatherer(g).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
