package gfycat

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

// GetGfycatInfo fetches a single gfycat by id.
func (c *Client) GetGfycatInfo(ctx context.Context, gfyID string) (*GfycatResponse, error) {
	var r GfycatResponse
	if _, err := c.do(ctx, http.MethodGet, "/gfycats/"+escape(gfyID), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) getGfycats(ctx context.Context, path string, opts PageOptions, extra ...QueryParam) (*GfycatsResponse, error) {
	var r GfycatsResponse
	if _, err := c.do(ctx, http.MethodGet, pagePath(path, opts, extra...), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) GetUserGfycats(ctx context.Context, userID string, opts PageOptions) (*GfycatsResponse, error) {
	return c.getGfycats(ctx, "/users/"+escape(userID)+"/gfycats", opts)
}

func (c *Client) GetAllUserGfycats(ctx context.Context, userID string, delay time.Duration) ([]Gfycat, error) {
	gfys, _, err := paginate(ctx, c.metrics, "user_gfycats", c.resolveDelay(delay), gfycatPages(func(ctx context.Context, opts PageOptions) (*GfycatsResponse, error) {
		return c.GetUserGfycats(ctx, userID, opts)
	}))
	return gfys, err
}

func (c *Client) GetMyGfycats(ctx context.Context, opts PageOptions) (*GfycatsResponse, error) {
	return c.getGfycats(ctx, "/me/gfycats", opts)
}

func (c *Client) GetAllMyGfycats(ctx context.Context, delay time.Duration) ([]Gfycat, error) {
	gfys, _, err := paginate(ctx, c.metrics, "my_gfycats", c.resolveDelay(delay), gfycatPages(c.GetMyGfycats))
	return gfys, err
}

// setOrClear PUTs {value} to path, or DELETEs path when clear is set.
func (c *Client) setOrClear(ctx context.Context, path string, value any, clear bool) (bool, error) {
	if clear {
		return c.ok(ctx, http.MethodDelete, path, nil)
	}
	return c.ok(ctx, http.MethodPut, path, valueBody{Value: value})
}

func myGfycatPath(gfyID, field string) string {
	p := "/me/gfycats/" + escape(gfyID)
	if field != "" {
		p += "/" + field
	}
	return p
}

// UpdateGfycatTitle sets the title, or deletes it when title is nil.
func (c *Client) UpdateGfycatTitle(ctx context.Context, gfyID string, title *string) (bool, error) {
	if title == nil {
		return c.setOrClear(ctx, myGfycatPath(gfyID, "title"), nil, true)
	}
	return c.setOrClear(ctx, myGfycatPath(gfyID, "title"), *title, false)
}

// UpdateGfycatDescription sets the description, or deletes it when
// description is nil.
func (c *Client) UpdateGfycatDescription(ctx context.Context, gfyID string, description *string) (bool, error) {
	if description == nil {
		return c.setOrClear(ctx, myGfycatPath(gfyID, "description"), nil, true)
	}
	return c.setOrClear(ctx, myGfycatPath(gfyID, "description"), *description, false)
}

func (c *Client) UpdateGfycatTags(ctx context.Context, gfyID string, tags []string) (bool, error) {
	if tags == nil {
		tags = []string{}
	}
	return c.ok(ctx, http.MethodPut, myGfycatPath(gfyID, "tags"), valueBody{Value: tags})
}

func (c *Client) DoILikeMyGfycat(ctx context.Context, gfyID string) (bool, error) {
	return c.ok(ctx, http.MethodGet, myGfycatPath(gfyID, "like"), nil)
}

func (c *Client) SetMyGfycatLikeStatus(ctx context.Context, gfyID string, like bool) (bool, error) {
	v := "0"
	if like {
		v = "1"
	}
	return c.ok(ctx, http.MethodPut, myGfycatPath(gfyID, "like"), valueBody{Value: v})
}

// SetPublishStatus publishes or unpublishes one of the user's gfycats.
func (c *Client) SetPublishStatus(ctx context.Context, gfyID string, published bool) (bool, error) {
	v := Unpublished
	if published {
		v = Published
	}
	return c.ok(ctx, http.MethodPut, myGfycatPath(gfyID, "published"), valueBody{Value: v})
}

// UpdateGfycatDomainWhitelist replaces the domain whitelist. An empty list
// deletes it.
func (c *Client) UpdateGfycatDomainWhitelist(ctx context.Context, gfyID string, domains []string) (bool, error) {
	return c.setOrClear(ctx, myGfycatPath(gfyID, "domain-whitelist"), domains, len(domains) == 0)
}

// UpdateGfycatGeoWhitelist replaces the country whitelist. An empty list
// deletes it.
func (c *Client) UpdateGfycatGeoWhitelist(ctx context.Context, gfyID string, countries []string) (bool, error) {
	return c.setOrClear(ctx, myGfycatPath(gfyID, "geo-whitelist"), countries, len(countries) == 0)
}

func (c *Client) UpdateGfycatNsfwStatus(ctx context.Context, gfyID string, nsfw NsfwCode) (bool, error) {
	return c.ok(ctx, http.MethodPut, myGfycatPath(gfyID, "nsfw"), valueBody{Value: strconv.Itoa(int(nsfw))})
}

func (c *Client) DeleteGfycat(ctx context.Context, gfyID string) (bool, error) {
	return c.ok(ctx, http.MethodDelete, myGfycatPath(gfyID, ""), nil)
}
