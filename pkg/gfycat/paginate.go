package gfycat

import (
	"context"
	"time"

	"github.com/abdul-hamid-achik/gfy/internal/metrics"
	"github.com/abdul-hamid-achik/gfy/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// page is one response of a cursor paginated endpoint. total is zero when the
// endpoint does not report one.
type page[T any] struct {
	items  []T
	cursor string
	total  int
	meta   ResponseMeta
}

type pageFunc[T any] func(ctx context.Context, cursor string) (page[T], error)

// paginate calls fetch until a page is empty, carries no cursor, fails with a
// 4xx status, or the reported total has been collected. delay is slept between
// pages, never before the first. The meta of the last page is returned so
// callers can surface a failing page.
func paginate[T any](ctx context.Context, m *metrics.Collectors, operation string, delay time.Duration, fetch pageFunc[T]) ([]T, ResponseMeta, error) {
	ctx, span := tracing.StartPaginationSpan(ctx, operation)
	defer span.End()

	var (
		all    []T
		cursor string
		pages  int
	)
	for {
		p, err := fetch(ctx, cursor)
		if err != nil {
			tracing.RecordError(ctx, err)
			return all, p.meta, err
		}
		pages++
		m.RecordPage(operation)

		if p.meta.StatusCode >= 400 {
			return all, p.meta, nil
		}
		all = append(all, p.items...)

		if len(p.items) == 0 || p.cursor == "" || (p.total > 0 && len(all) >= p.total) {
			span.SetAttributes(
				attribute.Int("gfycat.pages", pages),
				attribute.Int("gfycat.items", len(all)),
			)
			return all, p.meta, nil
		}

		if err := Sleep(ctx, delay); err != nil {
			return all, p.meta, err
		}
		cursor = p.cursor
	}
}

func (c *Client) resolveDelay(d time.Duration) time.Duration {
	if d < 0 {
		return c.pageDelay
	}
	return d
}

func gfycatsPage(r *GfycatsResponse) page[Gfycat] {
	return page[Gfycat]{items: r.Gfycats, cursor: r.Cursor, total: r.TotalCount, meta: r.ResponseMeta}
}

// gfycatPages adapts a single page Gfycat operation to paginate.
func gfycatPages(get func(ctx context.Context, opts PageOptions) (*GfycatsResponse, error)) pageFunc[Gfycat] {
	return func(ctx context.Context, cursor string) (page[Gfycat], error) {
		r, err := get(ctx, PageOptions{Cursor: cursor})
		if err != nil {
			return page[Gfycat]{}, err
		}
		return gfycatsPage(r), nil
	}
}
