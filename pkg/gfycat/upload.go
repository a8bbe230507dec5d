package gfycat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/abdul-hamid-achik/gfy/internal/tracing"
	"github.com/google/uuid"
)

// FinalizeOutcome is how the background finalize of a private upload ended.
type FinalizeOutcome string

const (
	FinalizeUnpublished   FinalizeOutcome = "unpublished"
	FinalizeEncodingError FinalizeOutcome = "encoding_error"
	FinalizePollTimeout   FinalizeOutcome = "poll_timeout"
	FinalizePublishFailed FinalizeOutcome = "publish_failed"
	FinalizeFailed        FinalizeOutcome = "failed"
)

type FinalizeResult struct {
	Outcome FinalizeOutcome
	// Status is the last status seen while polling, if any.
	Status *GfycatStatus
	Err    error
}

// FinalizeTask tracks the background work that makes a private upload
// private once encoding completes. It keeps running after the upload call
// returns and after the caller's context is canceled, bounded by the client's
// max poll duration.
type FinalizeTask struct {
	ID      string
	GfyName string

	done   chan struct{}
	result FinalizeResult
}

// Done is closed when the task has finished.
func (t *FinalizeTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx is done.
func (t *FinalizeTask) Wait(ctx context.Context) (FinalizeResult, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		return FinalizeResult{}, ctx.Err()
	}
}

// Result returns the outcome without blocking. ok is false while the task is
// still running.
func (t *FinalizeTask) Result() (result FinalizeResult, ok bool) {
	select {
	case <-t.done:
		return t.result, true
	default:
		return FinalizeResult{}, false
	}
}

// Upload is the result of UploadFromFile. Finalize is nil for public uploads.
type Upload struct {
	GfyName  string
	Size     int64
	Finalize *FinalizeTask
}

// UploadFromFile registers an empty gfycat, transfers the file to the file
// drop host and returns the gfycat name. A private upload is registered as
// public and unpublished in the background once encoding completes; failures
// of that step are reported on the returned FinalizeTask, never here.
func (c *Client) UploadFromFile(ctx context.Context, opts UploadOptions) (*Upload, error) {
	f, err := c.fs.Open(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat upload file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("upload file %s is a directory", opts.Path)
	}

	name, err := c.register(ctx, opts)
	if err != nil {
		c.metrics.RecordUploadPhase("register", "error")
		return nil, err
	}
	c.metrics.RecordUploadPhase("register", "ok")

	var body io.Reader = f
	if opts.Progress != nil {
		body = io.TeeReader(f, opts.Progress)
	}
	if err := c.transfer(ctx, name, body, info.Size()); err != nil {
		c.metrics.RecordUploadPhase("transfer", "error")
		return nil, err
	}
	c.metrics.RecordUploadPhase("transfer", "ok")
	c.metrics.RecordUploadBytes(info.Size())

	up := &Upload{GfyName: name, Size: info.Size()}
	if opts.Private {
		up.Finalize = c.startFinalize(ctx, name)
	}
	return up, nil
}

func (c *Client) register(ctx context.Context, opts UploadOptions) (string, error) {
	ctx, span := tracing.StartUploadSpan(ctx, "register", "")
	defer span.End()

	private := false
	keepAudio := !opts.NoAudio
	nsfw := opts.Nsfw
	req := createGfycatRequest{
		Title:       opts.Title,
		Description: opts.Description,
		Tags:        opts.Tags,
		Private:     &private,
		Nsfw:        &nsfw,
		NoMd5:       "true",
		KeepAudio:   &keepAudio,
		Captions:    opts.Captions,
		Cut:         opts.Cut,
		Crop:        opts.Crop,
	}

	var r URLUploadResponse
	status, err := c.do(ctx, http.MethodPost, "/gfycats", req, &r)
	if err != nil {
		tracing.RecordError(ctx, err)
		return "", fmt.Errorf("%w: %w", ErrRegister, err)
	}
	if status >= 400 || r.GfyName == "" {
		return "", fmt.Errorf("%w: status %d: %s", ErrRegister, status, r.ErrorMessage)
	}
	return r.GfyName, nil
}

func (c *Client) transfer(ctx context.Context, name string, body io.Reader, size int64) error {
	ctx, span := tracing.StartUploadSpan(ctx, "transfer", name)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.filedropURL+"/"+escape(name), io.NopCloser(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransfer, err)
	}
	req.ContentLength = size
	if size == 0 {
		req.Body = http.NoBody
	}
	req.Header.Set("User-Agent", c.userAgent)

	status, raw, err := c.sendWith(c.transferClient, req)
	if err != nil {
		tracing.RecordError(ctx, err)
		return fmt.Errorf("%w: %w", ErrTransfer, err)
	}
	if status >= 400 {
		return fmt.Errorf("%w: status %d: %s", ErrTransfer, status, truncate(string(raw), 200))
	}
	return nil
}

func (c *Client) startFinalize(parent context.Context, name string) *FinalizeTask {
	task := &FinalizeTask{
		ID:      uuid.NewString(),
		GfyName: name,
		done:    make(chan struct{}),
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), c.maxPollDuration)
	go func() {
		defer close(task.done)
		defer cancel()

		ctx, span := tracing.StartFinalizeSpan(ctx, parent, name, task.ID)
		defer span.End()

		res := c.finalize(ctx, name)
		if res.Err != nil {
			tracing.RecordError(ctx, res.Err)
		}
		c.metrics.RecordFinalize(string(res.Outcome))

		attrs := []any{"gfy_name", name, "task_id", task.ID, "outcome", res.Outcome}
		if res.Err != nil {
			c.logger.WarnContext(ctx, "private upload not finalized", append(attrs, "error", res.Err)...)
		} else {
			c.logger.InfoContext(ctx, "private upload finalized", attrs...)
		}
		task.result = res
	}()
	return task
}

func (c *Client) finalize(ctx context.Context, name string) FinalizeResult {
	status, err := c.PollGfycatStatus(ctx, name, c.pollInterval)
	if err != nil {
		if isTimeout(err) {
			return FinalizeResult{Outcome: FinalizePollTimeout, Status: status, Err: fmt.Errorf("%w: %w", ErrPollTimeout, err)}
		}
		return FinalizeResult{Outcome: FinalizeFailed, Status: status, Err: err}
	}
	if status.Task == TaskError {
		return FinalizeResult{Outcome: FinalizeEncodingError, Status: status, Err: fmt.Errorf("%w: %s", ErrEncodingFailed, status.TaskError)}
	}

	ok, err := c.SetPublishStatus(ctx, name, false)
	if err != nil {
		return FinalizeResult{Outcome: FinalizeFailed, Status: status, Err: err}
	}
	if !ok {
		return FinalizeResult{Outcome: FinalizePublishFailed, Status: status, Err: fmt.Errorf("unpublish %s was rejected", name)}
	}
	return FinalizeResult{Outcome: FinalizeUnpublished, Status: status}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// GetGfycatStatus returns the encoding status of an upload or URL import.
func (c *Client) GetGfycatStatus(ctx context.Context, name string) (*GfycatStatus, error) {
	var s GfycatStatus
	if _, err := c.do(ctx, http.MethodGet, "/gfycats/fetch/status/"+escape(name), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// PollGfycatStatus polls GetGfycatStatus every interval until the task is
// complete or errored. Any other state, including NotFoundo, is polled again.
// A 4xx response without a task stops polling with a *StatusError. The last
// status seen is returned with ctx's error when ctx ends first.
func (c *Client) PollGfycatStatus(ctx context.Context, name string, interval time.Duration) (*GfycatStatus, error) {
	if interval <= 0 {
		interval = c.pollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last *GfycatStatus
	for {
		s, err := c.GetGfycatStatus(ctx, name)
		c.metrics.RecordStatusPoll()
		if err != nil {
			return last, err
		}
		last = s
		if s.Terminal() {
			return s, nil
		}
		if !s.OK() && s.Task == "" {
			return s, &StatusError{Operation: "status " + name, StatusCode: s.StatusCode, Message: s.ErrorMessage.String()}
		}
		c.logger.DebugContext(ctx, "gfycat still encoding", "gfy_name", name, "task", s.Task, "progress", s.Progress)

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
		}
	}
}

// UploadFromURL asks Gfycat to import a remote video.
func (c *Client) UploadFromURL(ctx context.Context, opts UploadFromURLOptions) (*URLUploadResponse, error) {
	req := createGfycatRequest{
		FetchURL:     opts.URL,
		Title:        opts.Title,
		Description:  opts.Description,
		Tags:         opts.Tags,
		NoMd5:        "true",
		Nsfw:         opts.Nsfw,
		FetchSeconds: opts.FetchSeconds,
		FetchMinutes: opts.FetchMinutes,
		FetchHours:   opts.FetchHours,
		Captions:     opts.Captions,
		Cut:          opts.Cut,
		Crop:         opts.Crop,
	}
	var r URLUploadResponse
	if _, err := c.do(ctx, http.MethodPost, "/gfycats", req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
