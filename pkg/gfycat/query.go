package gfycat

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultPageSize = 30

// QueryParam is a single key/value pair for StringifyQueryParams.
type QueryParam struct {
	Key   string
	Value string
}

// Param builds a QueryParam from value. Types other than string, integers
// and bool are formatted with fmt.Sprint.
func Param(key string, value any) QueryParam {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case bool:
		s = strconv.FormatBool(v)
	case nil:
	default:
		s = fmt.Sprint(v)
	}
	return QueryParam{Key: key, Value: s}
}

// StringifyQueryParams appends params to path in the given order. Params
// whose value is empty after trimming are skipped, and no "?" is added when
// every param is skipped.
func StringifyQueryParams(path string, params ...QueryParam) string {
	var b strings.Builder
	b.WriteString(path)
	sep := byte('?')
	for _, p := range params {
		v := strings.TrimSpace(p.Value)
		if v == "" {
			continue
		}
		b.WriteByte(sep)
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
		sep = '&'
	}
	return b.String()
}

func pagePath(path string, opts PageOptions, extra ...QueryParam) string {
	count := opts.Count
	if count <= 0 {
		count = defaultPageSize
	}
	params := append([]QueryParam{Param("count", count), Param("cursor", opts.Cursor)}, extra...)
	return StringifyQueryParams(path, params...)
}

// Sleep waits for d or until ctx is done. A non-positive d returns at once.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
