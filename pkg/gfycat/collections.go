package gfycat

import (
	"context"
	"net/http"
	"time"
)

func (c *Client) getCollections(ctx context.Context, path string, opts PageOptions) (*CollectionsResponse, error) {
	var r CollectionsResponse
	if _, err := c.do(ctx, http.MethodGet, pagePath(path, opts), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func collectionPages(get func(ctx context.Context, opts PageOptions) (*CollectionsResponse, error)) pageFunc[Collection] {
	return func(ctx context.Context, cursor string) (page[Collection], error) {
		r, err := get(ctx, PageOptions{Cursor: cursor})
		if err != nil {
			return page[Collection]{}, err
		}
		return page[Collection]{items: r.Collections, cursor: r.Cursor, total: r.TotalCount, meta: r.ResponseMeta}, nil
	}
}

func (c *Client) GetUserCollections(ctx context.Context, username string, opts PageOptions) (*CollectionsResponse, error) {
	return c.getCollections(ctx, "/users/"+escape(username)+"/collections", opts)
}

func (c *Client) GetAllUserCollections(ctx context.Context, username string, delay time.Duration) ([]Collection, error) {
	cols, _, err := paginate(ctx, c.metrics, "user_collections", c.resolveDelay(delay), collectionPages(func(ctx context.Context, opts PageOptions) (*CollectionsResponse, error) {
		return c.GetUserCollections(ctx, username, opts)
	}))
	return cols, err
}

func (c *Client) GetUserCollectionGfycats(ctx context.Context, username, collectionID string, opts PageOptions) (*GfycatsResponse, error) {
	return c.getGfycats(ctx, "/users/"+escape(username)+"/collections/"+escape(collectionID)+"/gfycats", opts)
}

func (c *Client) GetAllUserCollectionGfycats(ctx context.Context, username, collectionID string, delay time.Duration) ([]Gfycat, error) {
	gfys, _, err := paginate(ctx, c.metrics, "user_collection_gfycats", c.resolveDelay(delay), gfycatPages(func(ctx context.Context, opts PageOptions) (*GfycatsResponse, error) {
		return c.GetUserCollectionGfycats(ctx, username, collectionID, opts)
	}))
	return gfys, err
}

func (c *Client) GetMyCollections(ctx context.Context, opts PageOptions) (*CollectionsResponse, error) {
	return c.getCollections(ctx, "/me/collections", opts)
}

func (c *Client) GetAllMyCollections(ctx context.Context, delay time.Duration) ([]Collection, error) {
	cols, _, err := paginate(ctx, c.metrics, "my_collections", c.resolveDelay(delay), collectionPages(c.GetMyCollections))
	return cols, err
}

func (c *Client) GetMyCollectionGfycats(ctx context.Context, collectionID string, opts PageOptions) (*GfycatsResponse, error) {
	return c.getGfycats(ctx, "/me/collections/"+escape(collectionID)+"/gfycats", opts)
}

func (c *Client) GetAllMyCollectionGfycats(ctx context.Context, collectionID string, delay time.Duration) ([]Gfycat, error) {
	gfys, _, err := paginate(ctx, c.metrics, "my_collection_gfycats", c.resolveDelay(delay), gfycatPages(func(ctx context.Context, opts PageOptions) (*GfycatsResponse, error) {
		return c.GetMyCollectionGfycats(ctx, collectionID, opts)
	}))
	return gfys, err
}

func (c *Client) CreateCollection(ctx context.Context, input CollectionInput) (*CollectionResponse, error) {
	var r CollectionResponse
	if _, err := c.do(ctx, http.MethodPost, "/me/collections", input, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteCollection reports true only for a 200 response.
func (c *Client) DeleteCollection(ctx context.Context, collectionID string) (bool, error) {
	status, err := c.do(ctx, http.MethodDelete, "/me/collections/"+escape(collectionID), nil, nil)
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

func (c *Client) UpdateCollection(ctx context.Context, collectionID string, update CollectionUpdate) (*CollectionResponse, error) {
	var r CollectionResponse
	if _, err := c.do(ctx, http.MethodPatch, "/me/collections/"+escape(collectionID), update, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// AddToCollection appends gfycats to one of the user's collections.
func (c *Client) AddToCollection(ctx context.Context, collectionID string, gfyIDs []string) (*StatusResponse, error) {
	var r StatusResponse
	if _, err := c.do(ctx, http.MethodPost, "/me/collections/"+escape(collectionID)+"/contents", gfyIDs, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) RemoveFromCollection(ctx context.Context, collectionID string, gfyIDs []string) (*StatusResponse, error) {
	var r StatusResponse
	if _, err := c.do(ctx, http.MethodDelete, "/me/collections/"+escape(collectionID)+"/contents", gfyIDs, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
