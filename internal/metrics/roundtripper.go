package metrics

import (
	"net/http"
	"strconv"
	"time"
)

type instrumentedTransport struct {
	next http.RoundTripper
	c    *Collectors
}

// InstrumentRoundTripper records request counts and durations for every
// request that passes through next.
func (c *Collectors) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &instrumentedTransport{next: next, c: c}
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	path := NormalizePath(req.URL.Path)

	t.c.RequestsInFlight.Inc()
	defer t.c.RequestsInFlight.Dec()

	resp, err := t.next.RoundTrip(req)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	t.c.RequestsTotal.WithLabelValues(req.Method, path, status).Inc()
	t.c.RequestDuration.WithLabelValues(req.Method, path).Observe(time.Since(start).Seconds())

	return resp, err
}
