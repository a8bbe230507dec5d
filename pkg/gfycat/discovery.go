package gfycat

import (
	"context"
	"net/http"
	"time"
)

func (c *Client) GetSavedGfycats(ctx context.Context, opts PageOptions) (*GfycatsResponse, error) {
	return c.getGfycats(ctx, "/me/collections/saved/gfycats", opts)
}

func (c *Client) GetAllSavedGfycats(ctx context.Context, delay time.Duration) ([]Gfycat, error) {
	gfys, _, err := paginate(ctx, c.metrics, "saved", c.resolveDelay(delay), gfycatPages(c.GetSavedGfycats))
	return gfys, err
}

// GetMyLikes returns a page of liked gfycats. A failing page carries
// ErrorMessage instead of gfycats.
func (c *Client) GetMyLikes(ctx context.Context, opts PageOptions) (*GfycatsResponse, error) {
	return c.getGfycats(ctx, "/me/likes/populated", opts)
}

// GetAllMyLikes walks every page of GetMyLikes. When a page reports an error
// message, the gfycats collected so far are returned with that message.
func (c *Client) GetAllMyLikes(ctx context.Context, delay time.Duration) (*LikesResult, error) {
	var failed *ErrorMessage
	gfys, _, err := paginate(ctx, c.metrics, "likes", c.resolveDelay(delay), func(ctx context.Context, cursor string) (page[Gfycat], error) {
		r, err := c.GetMyLikes(ctx, PageOptions{Cursor: cursor})
		if err != nil {
			return page[Gfycat]{}, err
		}
		if r.ErrorMessage != nil {
			failed = r.ErrorMessage
			return page[Gfycat]{meta: r.ResponseMeta}, nil
		}
		return gfycatsPage(r), nil
	})
	if err != nil {
		return nil, err
	}
	return &LikesResult{Gfycats: gfys, ErrorMessage: failed}, nil
}

// GetCuratedTrendingGfycats returns gfycats picked by the Gfycat team.
func (c *Client) GetCuratedTrendingGfycats(ctx context.Context, cursor string) (*TaggedGfycatsResponse, error) {
	var r TaggedGfycatsResponse
	path := StringifyQueryParams("/reactions/populated", Param("cursor", cursor), Param("tagName", "trending"))
	if _, err := c.do(ctx, http.MethodGet, path, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetTrendingGfycats returns algorithmically trending gfycats, optionally
// for a single tag.
func (c *Client) GetTrendingGfycats(ctx context.Context, tagName string, opts PageOptions) (*TaggedGfycatsResponse, error) {
	count := opts.Count
	if count <= 0 {
		count = defaultPageSize
	}
	var r TaggedGfycatsResponse
	path := StringifyQueryParams("/gfycats/trending", Param("count", count), Param("tagName", tagName), Param("cursor", opts.Cursor))
	if _, err := c.do(ctx, http.MethodGet, path, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) GetTrendingTags(ctx context.Context) ([]string, error) {
	var tags []string
	if _, err := c.do(ctx, http.MethodGet, "/tags/trending", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// GetPopulatedTrendingTags returns trending tags with a page of gfycats each.
func (c *Client) GetPopulatedTrendingTags(ctx context.Context, cursor string) (*PopulatedTagsResponse, error) {
	var r PopulatedTagsResponse
	if _, err := c.do(ctx, http.MethodGet, StringifyQueryParams("/tags/trending/populated", Param("cursor", cursor)), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) search(ctx context.Context, path, text string, opts PageOptions) (*SearchResponse, error) {
	count := opts.Count
	if count <= 0 {
		count = defaultPageSize
	}
	var r SearchResponse
	url := StringifyQueryParams(path, Param("search_text", text), Param("cursor", opts.Cursor), Param("count", count))
	if _, err := c.do(ctx, http.MethodGet, url, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) SearchGfycats(ctx context.Context, text string, opts PageOptions) (*SearchResponse, error) {
	return c.search(ctx, "/gfycats/search", text, opts)
}

func (c *Client) SearchMyGfycats(ctx context.Context, text string, opts PageOptions) (*SearchResponse, error) {
	return c.search(ctx, "/me/gfycats/search", text, opts)
}

// SearchAllMyGfycats walks every page of /me/gfycats filtered by
// search_text, 100 results at a time, collecting gfycats and related
// gfycats. It does not use the /me/gfycats/search endpoint of
// SearchMyGfycats.
func (c *Client) SearchAllMyGfycats(ctx context.Context, text string, delay time.Duration) (*SearchResult, error) {
	res := &SearchResult{}
	gfys, _, err := paginate(ctx, c.metrics, "search_mine", c.resolveDelay(delay), func(ctx context.Context, cursor string) (page[Gfycat], error) {
		r, err := c.search(ctx, "/me/gfycats", text, PageOptions{Count: 100, Cursor: cursor})
		if err != nil {
			return page[Gfycat]{}, err
		}
		if r.OK() {
			res.Related = append(res.Related, r.Related...)
			res.Found = r.Found
		}
		return page[Gfycat]{items: r.Gfycats, cursor: r.Cursor, meta: r.ResponseMeta}, nil
	})
	if err != nil {
		return nil, err
	}
	res.Gfycats = gfys
	return res, nil
}
