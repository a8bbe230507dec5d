package gfycat

import (
	"context"
	"net/http"
	"time"
)

func (c *Client) FollowUser(ctx context.Context, username string) (bool, error) {
	return c.ok(ctx, http.MethodPut, "/me/follows/"+escape(username), nil)
}

func (c *Client) UnfollowUser(ctx context.Context, username string) (bool, error) {
	return c.ok(ctx, http.MethodDelete, "/me/follows/"+escape(username), nil)
}

func (c *Client) CheckIfFollowUser(ctx context.Context, username string) (bool, error) {
	return c.ok(ctx, http.MethodHead, "/me/follows/"+escape(username), nil)
}

// GetFollowing returns one page of the accounts the user follows.
func (c *Client) GetFollowing(ctx context.Context, cursor string) (*FollowsResponse, error) {
	var r FollowsResponse
	if _, err := c.do(ctx, http.MethodGet, StringifyQueryParams("/me/follows", Param("cursor", cursor)), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetAllFollowing walks every page of GetFollowing. A negative delay uses the
// client's page delay.
func (c *Client) GetAllFollowing(ctx context.Context, delay time.Duration) ([]FollowedUser, error) {
	users, _, err := paginate(ctx, c.metrics, "following", c.resolveDelay(delay), func(ctx context.Context, cursor string) (page[FollowedUser], error) {
		r, err := c.GetFollowing(ctx, cursor)
		if err != nil {
			return page[FollowedUser]{}, err
		}
		return page[FollowedUser]{items: r.Follows, cursor: r.Cursor, total: r.TotalCount, meta: r.ResponseMeta}, nil
	})
	return users, err
}

func (c *Client) GetFollowers(ctx context.Context, cursor string) (*FollowersResponse, error) {
	var r FollowersResponse
	if _, err := c.do(ctx, http.MethodGet, StringifyQueryParams("/me/followers", Param("cursor", cursor)), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) GetAllFollowers(ctx context.Context, delay time.Duration) ([]FollowedUser, error) {
	users, _, err := paginate(ctx, c.metrics, "followers", c.resolveDelay(delay), func(ctx context.Context, cursor string) (page[FollowedUser], error) {
		r, err := c.GetFollowers(ctx, cursor)
		if err != nil {
			return page[FollowedUser]{}, err
		}
		return page[FollowedUser]{items: r.Followers, cursor: r.Cursor, total: r.TotalCount, meta: r.ResponseMeta}, nil
	})
	return users, err
}

// GetFollowingTimelineFeed returns a page of gfycats from followed accounts.
func (c *Client) GetFollowingTimelineFeed(ctx context.Context, cursor string) (*GfycatsResponse, error) {
	var r GfycatsResponse
	if _, err := c.do(ctx, http.MethodGet, StringifyQueryParams("/me/follows/gfycats", Param("cursor", cursor)), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
