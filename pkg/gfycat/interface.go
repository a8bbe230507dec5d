package gfycat

import (
	"context"
	"time"
)

// API defines every client operation so callers can substitute MockClient in
// tests. Client implements this interface.
type API interface {
	Session() *Session
	PageDelay() time.Duration

	// Users and account
	DoesUserExist(ctx context.Context, username string) (UserExistence, error)
	GetUserDetails(ctx context.Context, username string) (*User, error)
	GetAuthenticatedUserDetails(ctx context.Context) (*AuthenticatedUser, error)
	UpdateUserDetails(ctx context.Context, update UserDetailsUpdate) (bool, error)
	UpdateAccountInfo(ctx context.Context, update AccountInfoUpdate) (bool, error)
	UploadUserProfileImage(ctx context.Context, path string) (bool, error)
	IsEmailVerified(ctx context.Context) (bool, error)
	SendEmailVerificationRequest(ctx context.Context) (bool, error)
	SendPasswordResetEmail(ctx context.Context, usernameOrEmail string) (bool, error)

	// Follows
	FollowUser(ctx context.Context, username string) (bool, error)
	UnfollowUser(ctx context.Context, username string) (bool, error)
	CheckIfFollowUser(ctx context.Context, username string) (bool, error)
	GetFollowing(ctx context.Context, cursor string) (*FollowsResponse, error)
	GetAllFollowing(ctx context.Context, delay time.Duration) ([]FollowedUser, error)
	GetFollowers(ctx context.Context, cursor string) (*FollowersResponse, error)
	GetAllFollowers(ctx context.Context, delay time.Duration) ([]FollowedUser, error)
	GetFollowingTimelineFeed(ctx context.Context, cursor string) (*GfycatsResponse, error)

	// Gfycats
	GetGfycatInfo(ctx context.Context, gfyID string) (*GfycatResponse, error)
	GetUserGfycats(ctx context.Context, userID string, opts PageOptions) (*GfycatsResponse, error)
	GetAllUserGfycats(ctx context.Context, userID string, delay time.Duration) ([]Gfycat, error)
	GetMyGfycats(ctx context.Context, opts PageOptions) (*GfycatsResponse, error)
	GetAllMyGfycats(ctx context.Context, delay time.Duration) ([]Gfycat, error)
	UpdateGfycatTitle(ctx context.Context, gfyID string, title *string) (bool, error)
	UpdateGfycatDescription(ctx context.Context, gfyID string, description *string) (bool, error)
	UpdateGfycatTags(ctx context.Context, gfyID string, tags []string) (bool, error)
	DoILikeMyGfycat(ctx context.Context, gfyID string) (bool, error)
	SetMyGfycatLikeStatus(ctx context.Context, gfyID string, like bool) (bool, error)
	SetPublishStatus(ctx context.Context, gfyID string, published bool) (bool, error)
	UpdateGfycatDomainWhitelist(ctx context.Context, gfyID string, domains []string) (bool, error)
	UpdateGfycatGeoWhitelist(ctx context.Context, gfyID string, countries []string) (bool, error)
	UpdateGfycatNsfwStatus(ctx context.Context, gfyID string, nsfw NsfwCode) (bool, error)
	DeleteGfycat(ctx context.Context, gfyID string) (bool, error)

	// Uploads
	UploadFromFile(ctx context.Context, opts UploadOptions) (*Upload, error)
	UploadFromURL(ctx context.Context, opts UploadFromURLOptions) (*URLUploadResponse, error)
	GetGfycatStatus(ctx context.Context, name string) (*GfycatStatus, error)
	PollGfycatStatus(ctx context.Context, name string, interval time.Duration) (*GfycatStatus, error)

	// Collections
	GetUserCollections(ctx context.Context, username string, opts PageOptions) (*CollectionsResponse, error)
	GetAllUserCollections(ctx context.Context, username string, delay time.Duration) ([]Collection, error)
	GetUserCollectionGfycats(ctx context.Context, username, collectionID string, opts PageOptions) (*GfycatsResponse, error)
	GetAllUserCollectionGfycats(ctx context.Context, username, collectionID string, delay time.Duration) ([]Gfycat, error)
	GetMyCollections(ctx context.Context, opts PageOptions) (*CollectionsResponse, error)
	GetAllMyCollections(ctx context.Context, delay time.Duration) ([]Collection, error)
	GetMyCollectionGfycats(ctx context.Context, collectionID string, opts PageOptions) (*GfycatsResponse, error)
	GetAllMyCollectionGfycats(ctx context.Context, collectionID string, delay time.Duration) ([]Gfycat, error)
	CreateCollection(ctx context.Context, input CollectionInput) (*CollectionResponse, error)
	DeleteCollection(ctx context.Context, collectionID string) (bool, error)
	UpdateCollection(ctx context.Context, collectionID string, update CollectionUpdate) (*CollectionResponse, error)
	AddToCollection(ctx context.Context, collectionID string, gfyIDs []string) (*StatusResponse, error)
	RemoveFromCollection(ctx context.Context, collectionID string, gfyIDs []string) (*StatusResponse, error)

	// Saved, likes, trending and search
	GetSavedGfycats(ctx context.Context, opts PageOptions) (*GfycatsResponse, error)
	GetAllSavedGfycats(ctx context.Context, delay time.Duration) ([]Gfycat, error)
	GetMyLikes(ctx context.Context, opts PageOptions) (*GfycatsResponse, error)
	GetAllMyLikes(ctx context.Context, delay time.Duration) (*LikesResult, error)
	GetCuratedTrendingGfycats(ctx context.Context, cursor string) (*TaggedGfycatsResponse, error)
	GetTrendingGfycats(ctx context.Context, tagName string, opts PageOptions) (*TaggedGfycatsResponse, error)
	GetTrendingTags(ctx context.Context) ([]string, error)
	GetPopulatedTrendingTags(ctx context.Context, cursor string) (*PopulatedTagsResponse, error)
	SearchGfycats(ctx context.Context, text string, opts PageOptions) (*SearchResponse, error)
	SearchMyGfycats(ctx context.Context, text string, opts PageOptions) (*SearchResponse, error)
	SearchAllMyGfycats(ctx context.Context, text string, delay time.Duration) (*SearchResult, error)
}

// Ensure Client implements API at compile time
var _ API = (*Client)(nil)
