package gfycat

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of API for testing.
type MockClient struct {
	mock.Mock
}

var _ API = (*MockClient)(nil)

// CompletedFinalizeTask returns a finished task carrying result, for
// Upload values returned from MockClient.UploadFromFile.
func CompletedFinalizeTask(id, gfyName string, result FinalizeResult) *FinalizeTask {
	t := &FinalizeTask{ID: id, GfyName: gfyName, done: make(chan struct{}), result: result}
	close(t.done)
	return t
}

func (m *MockClient) Session() *Session {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*Session)
}

func (m *MockClient) PageDelay() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func (m *MockClient) DoesUserExist(ctx context.Context, username string) (UserExistence, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(UserExistence), args.Error(1)
}

func (m *MockClient) GetUserDetails(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockClient) GetAuthenticatedUserDetails(ctx context.Context) (*AuthenticatedUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AuthenticatedUser), args.Error(1)
}

func (m *MockClient) UpdateUserDetails(ctx context.Context, update UserDetailsUpdate) (bool, error) {
	args := m.Called(ctx, update)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) UpdateAccountInfo(ctx context.Context, update AccountInfoUpdate) (bool, error) {
	args := m.Called(ctx, update)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) UploadUserProfileImage(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) IsEmailVerified(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) SendEmailVerificationRequest(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) SendPasswordResetEmail(ctx context.Context, usernameOrEmail string) (bool, error) {
	args := m.Called(ctx, usernameOrEmail)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) FollowUser(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) UnfollowUser(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) CheckIfFollowUser(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) GetFollowing(ctx context.Context, cursor string) (*FollowsResponse, error) {
	args := m.Called(ctx, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FollowsResponse), args.Error(1)
}

func (m *MockClient) GetAllFollowing(ctx context.Context, delay time.Duration) ([]FollowedUser, error) {
	args := m.Called(ctx, delay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]FollowedUser), args.Error(1)
}

func (m *MockClient) GetFollowers(ctx context.Context, cursor string) (*FollowersResponse, error) {
	args := m.Called(ctx, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FollowersResponse), args.Error(1)
}

func (m *MockClient) GetAllFollowers(ctx context.Context, delay time.Duration) ([]FollowedUser, error) {
	args := m.Called(ctx, delay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]FollowedUser), args.Error(1)
}

func (m *MockClient) GetFollowingTimelineFeed(ctx context.Context, cursor string) (*GfycatsResponse, error) {
	args := m.Called(ctx, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GfycatsResponse), args.Error(1)
}

func (m *MockClient) GetGfycatInfo(ctx context.Context, gfyID string) (*GfycatResponse, error) {
	args := m.Called(ctx, gfyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GfycatResponse), args.Error(1)
}

func (m *MockClient) GetUserGfycats(ctx context.Context, userID string, opts PageOptions) (*GfycatsResponse, error) {
	args := m.Called(ctx, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GfycatsResponse), args.Error(1)
}

func (m *MockClient) GetAllUserGfycats(ctx context.Context, userID string, delay time.Duration) ([]Gfycat, error) {
	args := m.Called(ctx, userID, delay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Gfycat), args.Error(1)
}

func (m *MockClient) GetMyGfycats(ctx context.Context, opts PageOptions) (*GfycatsResponse, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GfycatsResponse), args.Error(1)
}

func (m *MockClient) GetAllMyGfycats(ctx context.Context, delay time.Duration) ([]Gfycat, error) {
	args := m.Called(ctx, delay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Gfycat), args.Error(1)
}

func (m *MockClient) UpdateGfycatTitle(ctx context.Context, gfyID string, title *string) (bool, error) {
	args := m.Called(ctx, gfyID, title)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) UpdateGfycatDescription(ctx context.Context, gfyID string, description *string) (bool, error) {
	args := m.Called(ctx, gfyID, description)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) UpdateGfycatTags(ctx context.Context, gfyID string, tags []string) (bool, error) {
	args := m.Called(ctx, gfyID, tags)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) DoILikeMyGfycat(ctx context.Context, gfyID string) (bool, error) {
	args := m.Called(ctx, gfyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) SetMyGfycatLikeStatus(ctx context.Context, gfyID string, like bool) (bool, error) {
	args := m.Called(ctx, gfyID, like)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) SetPublishStatus(ctx context.Context, gfyID string, published bool) (bool, error) {
	args := m.Called(ctx, gfyID, published)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) UpdateGfycatDomainWhitelist(ctx context.Context, gfyID string, domains []string) (bool, error) {
	args := m.Called(ctx, gfyID, domains)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) UpdateGfycatGeoWhitelist(ctx context.Context, gfyID string, countries []string) (bool, error) {
	args := m.Called(ctx, gfyID, countries)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) UpdateGfycatNsfwStatus(ctx context.Context, gfyID string, nsfw NsfwCode) (bool, error) {
	args := m.Called(ctx, gfyID, nsfw)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) DeleteGfycat(ctx context.Context, gfyID string) (bool, error) {
	args := m.Called(ctx, gfyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) UploadFromFile(ctx context.Context, opts UploadOptions) (*Upload, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Upload), args.Error(1)
}

func (m *MockClient) UploadFromURL(ctx context.Context, opts UploadFromURLOptions) (*URLUploadResponse, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*URLUploadResponse), args.Error(1)
}

func (m *MockClient) GetGfycatStatus(ctx context.Context, name string) (*GfycatStatus, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GfycatStatus), args.Error(1)
}

func (m *MockClient) PollGfycatStatus(ctx context.Context, name string, interval time.Duration) (*GfycatStatus, error) {
	args := m.Called(ctx, name, interval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GfycatStatus), args.Error(1)
}

func (m *MockClient) GetUserCollections(ctx context.Context, username string, opts PageOptions) (*CollectionsResponse, error) {
	args := m.Called(ctx, username, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CollectionsResponse), args.Error(1)
}

func (m *MockClient) GetAllUserCollections(ctx context.Context, username string, delay time.Duration) ([]Collection, error) {
	args := m.Called(ctx, username, delay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Collection), args.Error(1)
}

func (m *MockClient) GetUserCollectionGfycats(ctx context.Context, username, collectionID string, opts PageOptions) (*GfycatsResponse, error) {
	args := m.Called(ctx, username, collectionID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GfycatsResponse), args.Error(1)
}

func (m *MockClient) GetAllUserCollectionGfycats(ctx context.Context, username, collectionID string, delay time.Duration) ([]Gfycat, error) {
	args := m.Called(ctx, username, collectionID, delay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Gfycat), args.Error(1)
}

func (m *MockClient) GetMyCollections(ctx context.Context, opts PageOptions) (*CollectionsResponse, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CollectionsResponse), args.Error(1)
}

func (m *MockClient) GetAllMyCollections(ctx context.Context, delay time.Duration) ([]Collection, error) {
	args := m.Called(ctx, delay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Collection), args.Error(1)
}

func (m *MockClient) GetMyCollectionGfycats(ctx context.Context, collectionID string, opts PageOptions) (*GfycatsResponse, error) {
	args := m.Called(ctx, collectionID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GfycatsResponse), args.Error(1)
}

func (m *MockClient) GetAllMyCollectionGfycats(ctx context.Context, collectionID string, delay time.Duration) ([]Gfycat, error) {
	args := m.Called(ctx, collectionID, delay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Gfycat), args.Error(1)
}

func (m *MockClient) CreateCollection(ctx context.Context, input CollectionInput) (*CollectionResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CollectionResponse), args.Error(1)
}

func (m *MockClient) DeleteCollection(ctx context.Context, collectionID string) (bool, error) {
	args := m.Called(ctx, collectionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) UpdateCollection(ctx context.Context, collectionID string, update CollectionUpdate) (*CollectionResponse, error) {
	args := m.Called(ctx, collectionID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CollectionResponse), args.Error(1)
}

func (m *MockClient) AddToCollection(ctx context.Context, collectionID string, gfyIDs []string) (*StatusResponse, error) {
	args := m.Called(ctx, collectionID, gfyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StatusResponse), args.Error(1)
}

func (m *MockClient) RemoveFromCollection(ctx context.Context, collectionID string, gfyIDs []string) (*StatusResponse, error) {
	args := m.Called(ctx, collectionID, gfyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StatusResponse), args.Error(1)
}

func (m *MockClient) GetSavedGfycats(ctx context.Context, opts PageOptions) (*GfycatsResponse, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GfycatsResponse), args.Error(1)
}

func (m *MockClient) GetAllSavedGfycats(ctx context.Context, delay time.Duration) ([]Gfycat, error) {
	args := m.Called(ctx, delay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Gfycat), args.Error(1)
}

func (m *MockClient) GetMyLikes(ctx context.Context, opts PageOptions) (*GfycatsResponse, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GfycatsResponse), args.Error(1)
}

func (m *MockClient) GetAllMyLikes(ctx context.Context, delay time.Duration) (*LikesResult, error) {
	args := m.Called(ctx, delay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LikesResult), args.Error(1)
}

func (m *MockClient) GetCuratedTrendingGfycats(ctx context.Context, cursor string) (*TaggedGfycatsResponse, error) {
	args := m.Called(ctx, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TaggedGfycatsResponse), args.Error(1)
}

func (m *MockClient) GetTrendingGfycats(ctx context.Context, tagName string, opts PageOptions) (*TaggedGfycatsResponse, error) {
	args := m.Called(ctx, tagName, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TaggedGfycatsResponse), args.Error(1)
}

func (m *MockClient) GetTrendingTags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockClient) GetPopulatedTrendingTags(ctx context.Context, cursor string) (*PopulatedTagsResponse, error) {
	args := m.Called(ctx, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PopulatedTagsResponse), args.Error(1)
}

func (m *MockClient) SearchGfycats(ctx context.Context, text string, opts PageOptions) (*SearchResponse, error) {
	args := m.Called(ctx, text, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SearchResponse), args.Error(1)
}

func (m *MockClient) SearchMyGfycats(ctx context.Context, text string, opts PageOptions) (*SearchResponse, error) {
	args := m.Called(ctx, text, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SearchResponse), args.Error(1)
}

func (m *MockClient) SearchAllMyGfycats(ctx context.Context, text string, delay time.Duration) (*SearchResult, error) {
	args := m.Called(ctx, text, delay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SearchResult), args.Error(1)
}
