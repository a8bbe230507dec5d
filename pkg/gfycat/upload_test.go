package gfycat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = "not really an mp4 but close enough"

func uploadFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/videos/clip.mp4", []byte(payload), 0o644))
	return fs
}

// uploadAPI wires register and transfer handlers; statuses are served in
// order by the status endpoint, repeating the last one.
func uploadAPI(t *testing.T, statuses ...GfycatStatus) *fakeAPI {
	t.Helper()
	f := newFakeAPI(t)
	f.api.HandleFunc("POST /gfycats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, URLUploadResponse{IsOk: true, GfyName: "happyclip", Secret: "s"})
	})
	f.filedrop.HandleFunc("PUT /{name}", statusHandler(http.StatusOK))

	var polls atomic.Int32
	f.api.HandleFunc("GET /gfycats/fetch/status/{name}", func(w http.ResponseWriter, r *http.Request) {
		i := int(polls.Add(1)) - 1
		if i >= len(statuses) {
			i = len(statuses) - 1
		}
		writeJSON(w, http.StatusOK, statuses[i])
	})
	f.api.HandleFunc("PUT /me/gfycats/{name}/published", statusHandler(http.StatusOK))
	return f
}

func waitFinalize(t *testing.T, task *FinalizeTask) FinalizeResult {
	t.Helper()
	require.NotNil(t, task)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := task.Wait(ctx)
	require.NoError(t, err)
	return res
}

func steps(f *fakeAPI) []string {
	var out []string
	for _, r := range f.calls() {
		out = append(out, r.Method+" "+r.Host+r.Path)
	}
	return out
}

func TestUploadFromFilePublic(t *testing.T) {
	f := uploadAPI(t, GfycatStatus{Task: TaskComplete})
	c := f.client(t, WithFs(uploadFs(t)))

	up, err := c.UploadFromFile(context.Background(), UploadOptions{
		Path:        "/videos/clip.mp4",
		Title:       "Clip",
		Description: "a clip",
		Tags:        []string{"fun"},
	})
	require.NoError(t, err)
	assert.Equal(t, "happyclip", up.GfyName)
	assert.Equal(t, int64(len(payload)), up.Size)
	assert.Nil(t, up.Finalize)

	assert.Equal(t, []string{"POST api/gfycats", "PUT filedrop/happyclip"}, steps(f))

	calls := f.calls()
	var reg map[string]any
	require.NoError(t, json.Unmarshal(calls[0].Body, &reg))
	assert.Equal(t, false, reg["private"])
	assert.Equal(t, true, reg["keepAudio"])
	assert.Equal(t, "true", reg["noMd5"])
	assert.Equal(t, float64(0), reg["nsfw"])
	assert.Equal(t, "Clip", reg["title"])
	assert.Equal(t, "a clip", reg["description"])
	assert.Equal(t, []any{"fun"}, reg["tags"])

	transfer := calls[1]
	assert.Equal(t, int64(len(payload)), transfer.ContentLength)
	assert.Equal(t, payload, string(transfer.Body))
}

func TestUploadFromFilePrivateUnpublishesAfterEncoding(t *testing.T) {
	f := uploadAPI(t,
		GfycatStatus{Task: TaskNotFound},
		GfycatStatus{Task: TaskEncoding, Progress: "0.5"},
		GfycatStatus{Task: TaskComplete, GfyName: "happyclip"},
	)
	c := f.client(t, WithFs(uploadFs(t)))

	up, err := c.UploadFromFile(context.Background(), UploadOptions{Path: "/videos/clip.mp4", Private: true, NoAudio: true})
	require.NoError(t, err)
	require.NotNil(t, up.Finalize)
	assert.NotEmpty(t, up.Finalize.ID)
	assert.Equal(t, "happyclip", up.Finalize.GfyName)

	res := waitFinalize(t, up.Finalize)
	assert.Equal(t, FinalizeUnpublished, res.Outcome)
	assert.NoError(t, res.Err)
	require.NotNil(t, res.Status)
	assert.Equal(t, TaskComplete, res.Status.Task)

	assert.Equal(t, []string{
		"POST api/gfycats",
		"PUT filedrop/happyclip",
		"GET api/gfycats/fetch/status/happyclip",
		"GET api/gfycats/fetch/status/happyclip",
		"GET api/gfycats/fetch/status/happyclip",
		"PUT api/me/gfycats/happyclip/published",
	}, steps(f))

	calls := f.calls()
	var reg map[string]any
	require.NoError(t, json.Unmarshal(calls[0].Body, &reg))
	assert.Equal(t, false, reg["private"], "private uploads register as public")
	assert.Equal(t, false, reg["keepAudio"])

	assert.JSONEq(t, `{"value":0}`, string(calls[len(calls)-1].Body))

	got, ok := up.Finalize.Result()
	assert.True(t, ok)
	assert.Equal(t, res, got)
}

func TestUploadFromFilePrivateEncodingError(t *testing.T) {
	f := uploadAPI(t,
		GfycatStatus{Task: TaskEncoding},
		GfycatStatus{Task: TaskError, TaskError: &ErrorMessage{Code: "Bad", Description: "corrupt"}},
	)
	c := f.client(t, WithFs(uploadFs(t)))

	up, err := c.UploadFromFile(context.Background(), UploadOptions{Path: "/videos/clip.mp4", Private: true})
	require.NoError(t, err, "finalize failures never reach the upload caller")
	assert.Equal(t, "happyclip", up.GfyName)

	res := waitFinalize(t, up.Finalize)
	assert.Equal(t, FinalizeEncodingError, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrEncodingFailed)
	assert.Contains(t, res.Err.Error(), "corrupt")

	for _, s := range steps(f) {
		assert.NotContains(t, s, "/published", "publish is skipped after an encoding error")
	}
}

func TestUploadFromFilePrivatePollTimeout(t *testing.T) {
	f := uploadAPI(t, GfycatStatus{Task: TaskEncoding})
	c := f.client(t, WithFs(uploadFs(t)), WithMaxPollDuration(30*time.Millisecond))

	up, err := c.UploadFromFile(context.Background(), UploadOptions{Path: "/videos/clip.mp4", Private: true})
	require.NoError(t, err)

	res := waitFinalize(t, up.Finalize)
	assert.Equal(t, FinalizePollTimeout, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrPollTimeout)

	for _, s := range steps(f) {
		assert.NotContains(t, s, "/published")
	}
}

func TestUploadFromFilePrivateTransportTimeout(t *testing.T) {
	f := newFakeAPI(t)
	f.api.HandleFunc("POST /gfycats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, URLUploadResponse{GfyName: "slowclip"})
	})
	f.filedrop.HandleFunc("PUT /{name}", statusHandler(http.StatusOK))
	f.api.HandleFunc("GET /gfycats/fetch/status/{name}", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		writeJSON(w, http.StatusOK, GfycatStatus{Task: TaskComplete})
	})
	c := f.client(t, WithFs(uploadFs(t)), WithTimeout(50*time.Millisecond))

	up, err := c.UploadFromFile(context.Background(), UploadOptions{Path: "/videos/clip.mp4", Private: true})
	require.NoError(t, err)

	res := waitFinalize(t, up.Finalize)
	assert.Equal(t, FinalizePollTimeout, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrPollTimeout)
}

func TestFinalizeOutlivesCallerContext(t *testing.T) {
	f := uploadAPI(t,
		GfycatStatus{Task: TaskEncoding},
		GfycatStatus{Task: TaskEncoding},
		GfycatStatus{Task: TaskComplete},
	)
	c := f.client(t, WithFs(uploadFs(t)), WithPollInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	up, err := c.UploadFromFile(ctx, UploadOptions{Path: "/videos/clip.mp4", Private: true})
	require.NoError(t, err)
	cancel()

	res := waitFinalize(t, up.Finalize)
	assert.Equal(t, FinalizeUnpublished, res.Outcome)
}

func TestFinalizePublishRejected(t *testing.T) {
	f := newFakeAPI(t)
	f.api.HandleFunc("POST /gfycats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, URLUploadResponse{GfyName: "clip"})
	})
	f.filedrop.HandleFunc("PUT /{name}", statusHandler(http.StatusOK))
	f.api.HandleFunc("GET /gfycats/fetch/status/{name}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, GfycatStatus{Task: TaskComplete})
	})
	f.api.HandleFunc("PUT /me/gfycats/{name}/published", statusHandler(http.StatusForbidden))
	c := f.client(t, WithFs(uploadFs(t)))

	up, err := c.UploadFromFile(context.Background(), UploadOptions{Path: "/videos/clip.mp4", Private: true})
	require.NoError(t, err)
	res := waitFinalize(t, up.Finalize)
	assert.Equal(t, FinalizePublishFailed, res.Outcome)
	assert.Error(t, res.Err)
}

func TestUploadRegisterFailure(t *testing.T) {
	f := newFakeAPI(t)
	f.api.HandleFunc("POST /gfycats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"errorMessage": "bad request"})
	})
	c := f.client(t, WithFs(uploadFs(t)))

	_, err := c.UploadFromFile(context.Background(), UploadOptions{Path: "/videos/clip.mp4"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRegister)
	assert.False(t, errors.Is(err, ErrTransfer))
	assert.Contains(t, err.Error(), "bad request")

	for _, r := range f.calls() {
		assert.NotEqual(t, "filedrop", r.Host, "no transfer after a failed register")
	}
}

func TestUploadRegisterServerError(t *testing.T) {
	f := newFakeAPI(t)
	f.api.HandleFunc("POST /gfycats", statusHandler(http.StatusInternalServerError))
	c := f.client(t, WithFs(uploadFs(t)))

	_, err := c.UploadFromFile(context.Background(), UploadOptions{Path: "/videos/clip.mp4"})
	assert.ErrorIs(t, err, ErrRegister)
	var se *ServerError
	assert.True(t, errors.As(err, &se))
}

func TestUploadTransferFailure(t *testing.T) {
	f := newFakeAPI(t)
	f.api.HandleFunc("POST /gfycats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, URLUploadResponse{GfyName: "clip"})
	})
	f.filedrop.HandleFunc("PUT /{name}", statusHandler(http.StatusForbidden))
	c := f.client(t, WithFs(uploadFs(t)))

	_, err := c.UploadFromFile(context.Background(), UploadOptions{Path: "/videos/clip.mp4", Private: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransfer)
	assert.False(t, errors.Is(err, ErrRegister))
}

func TestUploadMissingFile(t *testing.T) {
	f := newFakeAPI(t)
	c := f.client(t)

	_, err := c.UploadFromFile(context.Background(), UploadOptions{Path: "/nope.mp4"})
	require.Error(t, err)
	assert.Empty(t, f.all(), "nothing is registered for a missing file")
}

func TestUploadProgressWriter(t *testing.T) {
	f := uploadAPI(t, GfycatStatus{Task: TaskComplete})
	c := f.client(t, WithFs(uploadFs(t)))

	var progress bytes.Buffer
	_, err := c.UploadFromFile(context.Background(), UploadOptions{Path: "/videos/clip.mp4", Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, payload, progress.String())
}

func TestPollGfycatStatusCanceled(t *testing.T) {
	f := uploadAPI(t, GfycatStatus{Task: TaskEncoding, Progress: "0.1"})
	c := f.client(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	last, err := c.PollGfycatStatus(ctx, "happyclip", 5*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotNil(t, last)
	assert.Equal(t, TaskEncoding, last.Task)
}

func rejectingStatusAPI(t *testing.T, polls *atomic.Int32) *fakeAPI {
	t.Helper()
	f := newFakeAPI(t)
	f.api.HandleFunc("POST /gfycats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, URLUploadResponse{IsOk: true, GfyName: "abc"})
	})
	f.filedrop.HandleFunc("PUT /{name}", statusHandler(http.StatusOK))
	f.api.HandleFunc("GET /gfycats/fetch/status/{name}", func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"errorMessage": "invalid token"})
	})
	return f
}

func TestPollGfycatStatusStopsOnClientError(t *testing.T) {
	var polls atomic.Int32
	f := rejectingStatusAPI(t, &polls)
	c := f.client(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	last, err := c.PollGfycatStatus(ctx, "abc", 5*time.Millisecond)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "invalid token", se.Message)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), polls.Load())

	require.NotNil(t, last)
	assert.Equal(t, http.StatusUnauthorized, last.StatusCode)
}

func TestUploadFromFilePrivateStatusRejected(t *testing.T) {
	var polls atomic.Int32
	f := rejectingStatusAPI(t, &polls)
	c := f.client(t, WithFs(uploadFs(t)), WithMaxPollDuration(time.Second))

	up, err := c.UploadFromFile(context.Background(), UploadOptions{Path: "/videos/clip.mp4", Private: true})
	require.NoError(t, err)

	res := waitFinalize(t, up.Finalize)
	assert.Equal(t, FinalizeFailed, res.Outcome)
	var se *StatusError
	assert.ErrorAs(t, res.Err, &se)
	assert.NotErrorIs(t, res.Err, ErrPollTimeout)
	assert.Equal(t, int32(1), polls.Load())

	for _, s := range steps(f) {
		assert.NotContains(t, s, "/published")
	}
}

func TestUploadMetricsRegistered(t *testing.T) {
	f := uploadAPI(t, GfycatStatus{Task: TaskComplete})
	reg := prometheus.NewRegistry()
	c := f.client(t, WithFs(uploadFs(t)), WithRegisterer(reg))

	up, err := c.UploadFromFile(context.Background(), UploadOptions{Path: "/videos/clip.mp4", Private: true})
	require.NoError(t, err)
	waitFinalize(t, up.Finalize)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.UploadsTotal.WithLabelValues("transfer", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.FinalizeTotal.WithLabelValues(string(FinalizeUnpublished))))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.TokenGrantsTotal.WithLabelValues(grantPassword, "200")))

	n, err := testutil.GatherAndCount(reg, "gfycat_client_requests_total", "gfycat_client_status_polls_total")
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestUploadFromURL(t *testing.T) {
	f := newFakeAPI(t)
	f.api.HandleFunc("POST /gfycats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, URLUploadResponse{IsOk: true, GfyName: "imported"})
	})
	c := f.client(t)

	nsfw := NsfwAdult
	r, err := c.UploadFromURL(context.Background(), UploadFromURLOptions{
		URL:          "https://example.com/a.mp4",
		Title:        "A",
		Nsfw:         &nsfw,
		FetchSeconds: 5,
		Cut:          &Cut{Start: 1, Duration: 3},
	})
	require.NoError(t, err)
	assert.True(t, r.IsOk)
	assert.Equal(t, "imported", r.GfyName)

	var body map[string]any
	require.NoError(t, json.Unmarshal(f.last().Body, &body))
	assert.Equal(t, "https://example.com/a.mp4", body["fetchUrl"])
	assert.Equal(t, "true", body["noMd5"])
	assert.Equal(t, float64(1), body["nsfw"])
	assert.Equal(t, float64(5), body["fetchSeconds"])
	assert.Equal(t, map[string]any{"duration": float64(3), "start": float64(1)}, body["cut"])
	assert.NotContains(t, body, "private")
}

func TestGfycatStatusDecodesMisspelledError(t *testing.T) {
	var s GfycatStatus
	require.NoError(t, json.Unmarshal([]byte(`{"task":"error","errorMeessage":{"code":"X","description":"boom"}}`), &s))
	assert.True(t, s.Terminal())
	assert.Equal(t, "X: boom", s.TaskError.String())
}
