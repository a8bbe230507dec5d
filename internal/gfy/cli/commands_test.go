package cli

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/gfy/internal/gfy/config"
	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ok200() gfycat.ResponseMeta {
	return gfycat.ResponseMeta{StatusCode: http.StatusOK}
}

func TestListMyGfycats(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("GetMyGfycats", anyCtx, gfycat.PageOptions{Count: 30}).Return(&gfycat.GfycatsResponse{
		ResponseMeta: ok200(),
		Gfycats: []gfycat.Gfycat{
			{GfyName: "happycat", Title: "Happy", Views: 12, Likes: "3"},
			{GfyName: "sadfrog", Title: "Sad", Views: 1, Likes: "0"},
		},
		Cursor: "next",
	}, nil)

	out, _, err := h.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "happycat")
	assert.Contains(t, out, "sadfrog")
	assert.Contains(t, out, "--cursor=next")
	h.mock.AssertExpectations(t)
}

func TestListUserPage(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("GetUserGfycats", anyCtx, "bob", gfycat.PageOptions{Count: 5, Cursor: "abc"}).Return(&gfycat.GfycatsResponse{
		ResponseMeta: ok200(),
	}, nil)

	out, _, err := h.run(t, "list", "--user", "bob", "--count", "5", "--cursor", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, "No gfycats found")
	h.mock.AssertExpectations(t)
}

func TestListAllJSON(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("GetAllUserGfycats", anyCtx, "bob", time.Duration(0)).Return([]gfycat.Gfycat{
		{GfyName: "one"}, {GfyName: "two"},
	}, nil)

	out, _, err := h.run(t, "list", "--user", "bob", "--all", "--json")
	require.NoError(t, err)

	var got []gfycat.Gfycat
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[1].GfyName)
}

func TestListAllAndCursorConflict(t *testing.T) {
	h := newHarness(t, authedConfig)
	_, _, err := h.run(t, "list", "--all", "--cursor", "x")
	assert.Error(t, err)
	h.mock.AssertNotCalled(t, "GetAllMyGfycats", mock.Anything, mock.Anything)
}

func TestListClientError(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("GetMyGfycats", anyCtx, mock.Anything).Return(&gfycat.GfycatsResponse{
		ResponseMeta: gfycat.ResponseMeta{StatusCode: 401, ErrorMessage: &gfycat.ErrorMessage{Description: "bad token"}},
	}, nil)

	_, _, err := h.run(t, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401: bad token")
}

func TestInfo(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("GetGfycatInfo", anyCtx, "happycat").Return(&gfycat.GfycatResponse{
		ResponseMeta: ok200(),
		GfyItem: gfycat.Gfycat{
			GfyName: "happycat",
			Title:   "Happy cat",
			Tags:    []string{"cat", "happy"},
			MP4URL:  "https://giant.gfycat.com/HappyCat.mp4",
			Nsfw:    "0",
			Likes:   "4",
		},
	}, nil)

	out, _, err := h.run(t, "info", "happycat", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Happy cat")
	assert.Contains(t, out, "cat, happy")
	assert.Contains(t, out, "https://gfycat.com/happycat")
	assert.Contains(t, out, "https://giant.gfycat.com/HappyCat.mp4")
}

func TestUploadPublic(t *testing.T) {
	h := newHarness(t, authedConfig)
	require.NoError(t, afero.WriteFile(h.fs, "clip.mp4", []byte("video"), 0644))

	h.mock.On("UploadFromFile", anyCtx, mock.MatchedBy(func(o gfycat.UploadOptions) bool {
		return o.Path == "clip.mp4" && o.Title == "Cat" && !o.Private &&
			len(o.Tags) == 2 && o.Tags[1] == "cute" && o.Nsfw == gfycat.NsfwAdult && o.Progress != nil
	})).Return(&gfycat.Upload{GfyName: "happycat", Size: 5}, nil)

	out, _, err := h.run(t, "upload", "clip.mp4", "--title", "Cat", "--tags", "cat,cute", "--nsfw", "adult")
	require.NoError(t, err)
	assert.Contains(t, out, "https://gfycat.com/happycat")
	h.mock.AssertExpectations(t)
}

func TestUploadPrivateReportsFinalize(t *testing.T) {
	h := newHarness(t, authedConfig)
	task := gfycat.CompletedFinalizeTask("task-1", "happycat", gfycat.FinalizeResult{
		Outcome: gfycat.FinalizeUnpublished,
		Status:  &gfycat.GfycatStatus{Task: gfycat.TaskComplete},
	})
	h.mock.On("UploadFromFile", anyCtx, mock.MatchedBy(func(o gfycat.UploadOptions) bool { return o.Private })).
		Return(&gfycat.Upload{GfyName: "happycat", Finalize: task}, nil)

	out, _, err := h.run(t, "upload", "clip.mp4", "--private", "--json")
	require.NoError(t, err)

	var summary uploadSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.Len(t, summary.Uploaded, 1)
	assert.Equal(t, gfycat.FinalizeUnpublished, summary.Uploaded[0].Finalize)
	assert.Equal(t, gfycat.TaskComplete, summary.Uploaded[0].Status)
}

func TestUploadPrivateFinalizeFailure(t *testing.T) {
	h := newHarness(t, authedConfig)
	task := gfycat.CompletedFinalizeTask("task-1", "happycat", gfycat.FinalizeResult{
		Outcome: gfycat.FinalizeEncodingError,
		Err:     gfycat.ErrEncodingFailed,
	})
	h.mock.On("UploadFromFile", anyCtx, mock.Anything).
		Return(&gfycat.Upload{GfyName: "happycat", Finalize: task}, nil)

	_, _, err := h.run(t, "upload", "clip.mp4", "--private")
	require.Error(t, err)
	assert.ErrorIs(t, err, gfycat.ErrEncodingFailed)
	assert.Contains(t, err.Error(), "not made private")
}

func TestUploadWaitPolls(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("UploadFromFile", anyCtx, mock.Anything).Return(&gfycat.Upload{GfyName: "happycat"}, nil)
	h.mock.On("PollGfycatStatus", anyCtx, "happycat", config.DefaultPollInterval).
		Return(&gfycat.GfycatStatus{Task: gfycat.TaskComplete}, nil)

	_, _, err := h.run(t, "upload", "clip.mp4", "--wait")
	require.NoError(t, err)
	h.mock.AssertExpectations(t)
}

func TestUploadCollectsFailures(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("UploadFromFile", anyCtx, mock.MatchedBy(func(o gfycat.UploadOptions) bool { return o.Path == "a.mp4" })).
		Return(&gfycat.Upload{GfyName: "first"}, nil)
	h.mock.On("UploadFromFile", anyCtx, mock.MatchedBy(func(o gfycat.UploadOptions) bool { return o.Path == "b.mp4" })).
		Return(nil, gfycat.ErrTransfer)

	out, errOut, err := h.run(t, "upload", "a.mp4", "b.mp4", "--no-color")
	require.Error(t, err)
	assert.ErrorIs(t, err, gfycat.ErrTransfer)
	assert.Contains(t, err.Error(), "b.mp4")
	assert.Contains(t, out, "1/2 completed (1 failed)")
	assert.Contains(t, errOut, "b.mp4")
}

func TestUploadManifest(t *testing.T) {
	h := newHarness(t, authedConfig)
	manifest := `
defaults:
  tags: [loop]
files:
  - path: intro.mp4
    title: Intro
    private: true
  - pattern: "*.webm"
    nsfw: 3
`
	require.NoError(t, afero.WriteFile(h.fs, "/clips/gfy.yaml", []byte(manifest), 0644))
	require.NoError(t, afero.WriteFile(h.fs, "/clips/intro.mp4", []byte("a"), 0644))
	require.NoError(t, afero.WriteFile(h.fs, "/clips/x.webm", []byte("b"), 0644))

	done := gfycat.CompletedFinalizeTask("t", "intro", gfycat.FinalizeResult{Outcome: gfycat.FinalizeUnpublished})
	h.mock.On("UploadFromFile", anyCtx, mock.MatchedBy(func(o gfycat.UploadOptions) bool {
		return o.Path == "/clips/intro.mp4" && o.Title == "Intro" && o.Private && o.Tags[0] == "loop" && o.Progress == nil
	})).Return(&gfycat.Upload{GfyName: "intro", Finalize: done}, nil).Once()
	h.mock.On("UploadFromFile", anyCtx, mock.MatchedBy(func(o gfycat.UploadOptions) bool {
		return o.Path == "/clips/x.webm" && o.Nsfw == gfycat.NsfwPotentiallyOffensive && !o.Private && o.Progress == nil
	})).Return(&gfycat.Upload{GfyName: "xloop"}, nil).Once()

	out, errOut, err := h.run(t, "upload", "--manifest", "/clips/gfy.yaml", "--no-color")
	require.NoError(t, err)
	h.mock.AssertExpectations(t)
	// one counter for the whole manifest instead of a transfer bar per file
	assert.Contains(t, errOut, "Uploading")
	assert.Contains(t, out, "2/2 completed successfully")
}

func TestImport(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("UploadFromURL", anyCtx, mock.MatchedBy(func(o gfycat.UploadFromURLOptions) bool {
		return o.URL == "https://example.com/a.mp4" && o.FetchSeconds == 5 && o.Nsfw != nil && *o.Nsfw == gfycat.NsfwClean
	})).Return(&gfycat.URLUploadResponse{ResponseMeta: ok200(), IsOk: true, GfyName: "fetched"}, nil)

	out, _, err := h.run(t, "import", "https://example.com/a.mp4", "--start", "5", "--nsfw", "clean", "--json")
	require.NoError(t, err)

	var res uploadResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "fetched", res.GfyName)
	assert.Equal(t, "https://gfycat.com/fetched", res.URL)
}

func TestImportRejected(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("UploadFromURL", anyCtx, mock.MatchedBy(func(o gfycat.UploadFromURLOptions) bool { return o.Nsfw == nil })).
		Return(&gfycat.URLUploadResponse{ResponseMeta: ok200(), IsOk: false}, nil)

	_, _, err := h.run(t, "import", "https://example.com/a.mp4")
	assert.EqualError(t, err, "import was not accepted")
}

func TestStatus(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("GetGfycatStatus", anyCtx, "happycat").Return(&gfycat.GfycatStatus{
		ResponseMeta: ok200(),
		Task:         gfycat.TaskError,
		TaskError:    &gfycat.ErrorMessage{Code: "Bad", Description: "corrupt"},
	}, nil)

	out, _, err := h.run(t, "status", "happycat", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "Bad: corrupt")
}

func TestStatusWatch(t *testing.T) {
	h := newHarness(t, authedConfig+"poll_interval: 5ms\n")
	h.mock.On("GetGfycatStatus", anyCtx, "happycat").Return(&gfycat.GfycatStatus{Task: gfycat.TaskEncoding}, nil).Once()
	h.mock.On("GetGfycatStatus", anyCtx, "happycat").Return(nil, errors.New("flaky")).Once()
	h.mock.On("GetGfycatStatus", anyCtx, "happycat").Return(&gfycat.GfycatStatus{Task: gfycat.TaskComplete, GfyName: "happycat"}, nil).Once()

	_, _, err := h.run(t, "status", "happycat", "--watch")
	require.NoError(t, err)
	h.mock.AssertNumberOfCalls(t, "GetGfycatStatus", 3)
}

func TestStatusWatchStopsOnAuthError(t *testing.T) {
	h := newHarness(t, authedConfig+"poll_interval: 5ms\n")
	h.mock.On("GetGfycatStatus", anyCtx, "happycat").Return(nil, &gfycat.GrantError{Grant: "password", StatusCode: 401})

	_, _, err := h.run(t, "status", "happycat", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
	h.mock.AssertNumberOfCalls(t, "GetGfycatStatus", 1)
}

func TestSearch(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("SearchGfycats", anyCtx, "cute cat", gfycat.PageOptions{Count: 30}).Return(&gfycat.SearchResponse{
		ResponseMeta: ok200(),
		Gfycats:      []gfycat.Gfycat{{GfyName: "happycat"}},
		Found:        1,
	}, nil)

	out, _, err := h.run(t, "search", "cute", "cat")
	require.NoError(t, err)
	assert.Contains(t, out, "happycat")
}

func TestSearchMineAll(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("SearchAllMyGfycats", anyCtx, "cat", time.Duration(0)).Return(&gfycat.SearchResult{
		Gfycats: []gfycat.Gfycat{{GfyName: "a"}, {GfyName: "b"}},
		Found:   2,
	}, nil)

	out, _, err := h.run(t, "search", "cat", "--mine", "--all", "--json")
	require.NoError(t, err)

	var res searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.Found)
	assert.Len(t, res.Gfycats, 2)
}

func TestSearchAllRequiresMine(t *testing.T) {
	h := newHarness(t, authedConfig)
	_, _, err := h.run(t, "search", "cat", "--all")
	assert.EqualError(t, err, "--all is only supported with --mine")
}

func TestEdit(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("UpdateGfycatTitle", anyCtx, "happycat", mock.MatchedBy(func(s *string) bool { return s != nil && *s == "New" })).Return(true, nil)
	h.mock.On("UpdateGfycatDescription", anyCtx, "happycat", (*string)(nil)).Return(true, nil)
	h.mock.On("UpdateGfycatTags", anyCtx, "happycat", []string{"a", "b"}).Return(true, nil)
	h.mock.On("SetPublishStatus", anyCtx, "happycat", false).Return(true, nil)
	h.mock.On("UpdateGfycatDomainWhitelist", anyCtx, "happycat", []string{}).Return(true, nil)

	_, _, err := h.run(t, "edit", "happycat",
		"--title", "New", "--clear-description", "--tags", "a,b", "--unpublish", "--domains", "")
	require.NoError(t, err)
	h.mock.AssertExpectations(t)
}

func TestEditReportsRejectedFields(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("UpdateGfycatNsfwStatus", anyCtx, "happycat", gfycat.NsfwAdult).Return(false, nil)
	h.mock.On("SetPublishStatus", anyCtx, "happycat", true).Return(true, nil)

	out, _, err := h.run(t, "edit", "happycat", "--nsfw", "1", "--publish", "--json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nsfw: rejected")

	var changes []editChange
	require.NoError(t, json.Unmarshal([]byte(out), &changes))
	require.Len(t, changes, 2)
	assert.False(t, changes[0].OK)
	assert.True(t, changes[1].OK)
}

func TestEditNothing(t *testing.T) {
	h := newHarness(t, authedConfig)
	_, _, err := h.run(t, "edit", "happycat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")
}

func TestDeleteAggregatesFailures(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("DeleteGfycat", anyCtx, "a").Return(true, nil)
	h.mock.On("DeleteGfycat", anyCtx, "b").Return(false, nil)
	h.mock.On("DeleteGfycat", anyCtx, "c").Return(false, gfycat.ErrMissingCredentials)

	_, _, err := h.run(t, "delete", "a", "b", "c", "--force")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b: not deleted")
	assert.ErrorIs(t, err, gfycat.ErrMissingCredentials)
	h.mock.AssertExpectations(t)
}

func TestDeleteCancelled(t *testing.T) {
	h := newHarness(t, authedConfig)
	stdin = strings.NewReader("n\n")

	out, _, err := h.run(t, "delete", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
	h.mock.AssertNotCalled(t, "DeleteGfycat", mock.Anything, mock.Anything)
}

func TestDeleteConfirmed(t *testing.T) {
	h := newHarness(t, authedConfig)
	stdin = strings.NewReader("yes\n")
	h.mock.On("DeleteGfycat", anyCtx, "a").Return(true, nil)

	_, _, err := h.run(t, "delete", "a")
	require.NoError(t, err)
	h.mock.AssertExpectations(t)
}

func TestLike(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("SetMyGfycatLikeStatus", anyCtx, "happycat", false).Return(true, nil)
	h.mock.On("DoILikeMyGfycat", anyCtx, "happycat").Return(true, nil)

	_, _, err := h.run(t, "like", "happycat", "--unlike")
	require.NoError(t, err)

	out, _, err := h.run(t, "like", "happycat", "--check", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"happycat","liked":true}`, out)
}

func TestCollections(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("GetMyCollections", anyCtx, gfycat.PageOptions{Count: 30}).Return(&gfycat.CollectionsResponse{
		ResponseMeta:       ok200(),
		BookmarkCollection: &gfycat.BookmarkCollection{ContentCount: 7},
		Collections:        []gfycat.Collection{{FolderID: "c1", FolderName: "Cats", ContentCount: 2, Published: gfycat.Published}},
	}, nil)
	h.mock.On("CreateCollection", anyCtx, gfycat.CollectionInput{
		FolderName: "Dogs",
		Tags:       []string{"dog"},
		Published:  gfycat.Unpublished,
		GfyIDs:     []string{"pup"},
	}).Return(&gfycat.CollectionResponse{ResponseMeta: ok200(), Collection: gfycat.Collection{FolderID: "c2", FolderName: "Dogs"}}, nil)
	h.mock.On("AddToCollection", anyCtx, "c1", []string{"x", "y"}).Return(&gfycat.StatusResponse{ResponseMeta: ok200(), Status: "ok"}, nil)
	h.mock.On("RemoveFromCollection", anyCtx, "c1", []string{"x"}).Return(&gfycat.StatusResponse{ResponseMeta: gfycat.ResponseMeta{StatusCode: 404}}, nil)
	published := gfycat.Published
	h.mock.On("UpdateCollection", anyCtx, "c1", gfycat.CollectionUpdate{FolderName: "Kittens", Published: &published}).
		Return(&gfycat.CollectionResponse{ResponseMeta: ok200()}, nil)
	h.mock.On("DeleteCollection", anyCtx, "c1").Return(true, nil)
	h.mock.On("DeleteCollection", anyCtx, "c9").Return(false, nil)

	out, _, err := h.run(t, "collections", "list", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Cats")
	assert.Contains(t, out, "7 gfycats")

	out, _, err = h.run(t, "collections", "create", "Dogs", "--tags", "dog", "--private", "--gfycats", "pup")
	require.NoError(t, err)
	assert.Contains(t, out, "c2")

	_, _, err = h.run(t, "collections", "add", "c1", "x", "y")
	require.NoError(t, err)

	_, _, err = h.run(t, "collections", "remove", "c1", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")

	_, _, err = h.run(t, "collections", "update", "c1", "--name", "Kittens", "--publish")
	require.NoError(t, err)

	_, _, err = h.run(t, "collections", "delete", "c1", "c9", "--force")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "c9: not deleted")

	h.mock.AssertExpectations(t)
}

func TestCollectionShowAllForUser(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("GetAllUserCollectionGfycats", anyCtx, "bob", "c1", time.Duration(0)).
		Return([]gfycat.Gfycat{{GfyName: "inside"}}, nil)

	out, _, err := h.run(t, "collections", "show", "c1", "--user", "bob", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "inside")
}

func TestLikesAllStopsEarly(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("GetAllMyLikes", anyCtx, time.Duration(0)).Return(&gfycat.LikesResult{
		Gfycats:      []gfycat.Gfycat{{GfyName: "liked"}},
		ErrorMessage: &gfycat.ErrorMessage{Description: "rate limited"},
	}, nil)

	out, _, err := h.run(t, "likes", "--all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Contains(t, out, "liked")
}

func TestSaved(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("GetSavedGfycats", anyCtx, gfycat.PageOptions{Count: 10}).Return(&gfycat.GfycatsResponse{
		ResponseMeta: ok200(),
		Gfycats:      []gfycat.Gfycat{{GfyName: "kept"}},
	}, nil)

	out, _, err := h.run(t, "saved", "--count", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "kept")
}

func TestTrending(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("GetTrendingTags", anyCtx).Return([]string{"cats", "dogs"}, nil)
	h.mock.On("GetTrendingGfycats", anyCtx, "cats", gfycat.PageOptions{Count: 30}).Return(&gfycat.TaggedGfycatsResponse{
		ResponseMeta: ok200(),
		Tag:          "cats",
		Gfycats:      []gfycat.Gfycat{{GfyName: "trendy"}},
	}, nil)
	h.mock.On("GetCuratedTrendingGfycats", anyCtx, "").Return(&gfycat.TaggedGfycatsResponse{ResponseMeta: ok200()}, nil)
	h.mock.On("GetPopulatedTrendingTags", anyCtx, "").Return(&gfycat.PopulatedTagsResponse{
		ResponseMeta: ok200(),
		Tags:         []gfycat.TaggedGfycatsResponse{{Tag: "birds", Gfycats: []gfycat.Gfycat{{GfyName: "tweet"}}}},
	}, nil)

	out, _, err := h.run(t, "trending", "--tags", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `["cats","dogs"]`, out)

	out, _, err = h.run(t, "trending", "--tag", "cats")
	require.NoError(t, err)
	assert.Contains(t, out, "trendy")

	_, _, err = h.run(t, "trending", "--curated")
	require.NoError(t, err)

	out, _, err = h.run(t, "trending", "--populated", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "birds")
	assert.Contains(t, out, "tweet")

	h.mock.AssertExpectations(t)
}

func TestFollowCommands(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("FollowUser", anyCtx, "bob").Return(true, nil)
	h.mock.On("UnfollowUser", anyCtx, "bob").Return(false, nil)
	h.mock.On("CheckIfFollowUser", anyCtx, "bob").Return(true, nil)
	h.mock.On("GetAllFollowing", anyCtx, time.Duration(0)).Return([]gfycat.FollowedUser{{Username: "bob"}}, nil)
	h.mock.On("GetFollowers", anyCtx, "").Return(&gfycat.FollowersResponse{
		ResponseMeta: ok200(),
		Followers:    []gfycat.FollowedUser{{Username: "carol", Verified: true}},
		Cursor:       "more",
	}, nil)
	h.mock.On("GetFollowingTimelineFeed", anyCtx, "c").Return(&gfycat.GfycatsResponse{
		ResponseMeta: ok200(),
		Gfycats:      []gfycat.Gfycat{{GfyName: "fresh"}},
	}, nil)

	_, _, err := h.run(t, "follow", "bob")
	require.NoError(t, err)

	_, _, err = h.run(t, "unfollow", "bob")
	assert.EqualError(t, err, "follow status of bob was not changed")

	out, _, err := h.run(t, "follow", "bob", "--check", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"bob","following":true}`, out)

	out, _, err = h.run(t, "following", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "bob")

	out, _, err = h.run(t, "followers")
	require.NoError(t, err)
	assert.Contains(t, out, "carol")
	assert.Contains(t, out, "--cursor=more")

	out, _, err = h.run(t, "feed", "--cursor", "c")
	require.NoError(t, err)
	assert.Contains(t, out, "fresh")

	h.mock.AssertExpectations(t)
}

func TestMeShowsProfile(t *testing.T) {
	h := newHarness(t, authedConfig)
	user := &gfycat.AuthenticatedUser{
		User:  gfycat.User{ResponseMeta: ok200(), Username: "alice", Name: "Alice"},
		Email: "alice@example.com",
	}
	h.mock.On("GetAuthenticatedUserDetails", anyCtx).Return(user, nil)
	h.mock.On("IsEmailVerified", anyCtx).Return(false, nil)

	out, _, err := h.run(t, "me", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "alice", got["username"])
	assert.Equal(t, false, got["emailVerified"])
}

func TestMeUpdate(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("UpdateAccountInfo", anyCtx, mock.MatchedBy(func(u gfycat.AccountInfoUpdate) bool {
		return u.Name != nil && *u.Name == "Alice" && u.RemoveProfileURL && u.Description == nil
	})).Return(true, nil)
	h.mock.On("UpdateUserDetails", anyCtx, mock.MatchedBy(func(u gfycat.UserDetailsUpdate) bool {
		return u.UploadNotices != nil && *u.UploadNotices == "false" && u.GeoWhitelist != nil && len(u.GeoWhitelist) == 0
	})).Return(true, nil)
	h.mock.On("SendEmailVerificationRequest", anyCtx).Return(true, nil)
	h.mock.On("GetAuthenticatedUserDetails", anyCtx).Return(&gfycat.AuthenticatedUser{User: gfycat.User{ResponseMeta: ok200()}}, nil)
	h.mock.On("IsEmailVerified", anyCtx).Return(true, nil)

	out, _, err := h.run(t, "me", "--name", "Alice", "--clear-profile-url", "--upload-notices", "off", "--geo", "", "--send-verification")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile updated")
	assert.Contains(t, out, "Verification email sent")
	h.mock.AssertExpectations(t)
}

func TestMeUpdateRejected(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("UpdateAccountInfo", anyCtx, mock.Anything).Return(false, nil)

	_, _, err := h.run(t, "me", "--description", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account info: rejected")
	h.mock.AssertNotCalled(t, "GetAuthenticatedUserDetails", mock.Anything)
}

func TestAvatar(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("UploadUserProfileImage", anyCtx, "me.png").Return(false, nil)

	_, _, err := h.run(t, "avatar", "me.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile image was rejected")
}

func TestUser(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("DoesUserExist", anyCtx, "ghost").Return(gfycat.UserNotFound, nil)
	h.mock.On("DoesUserExist", anyCtx, "bob").Return(gfycat.UserExists, nil)
	h.mock.On("GetUserDetails", anyCtx, "bob").Return(&gfycat.User{ResponseMeta: ok200(), Username: "bob", Followers: 9}, nil)

	out, _, err := h.run(t, "user", "ghost", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"ghost","status":"NOT_FOUND"}`, out)

	out, _, err = h.run(t, "user", "bob", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "Followers: 9")
}

func TestResetPassword(t *testing.T) {
	h := newHarness(t, authedConfig)
	h.mock.On("SendPasswordResetEmail", anyCtx, "alice@example.com").Return(true, nil)

	_, _, err := h.run(t, "reset-password", "alice@example.com")
	require.NoError(t, err)
	h.mock.AssertExpectations(t)
}

func TestOpen(t *testing.T) {
	h := newHarness(t, "")
	newClient = func(*config.Config) (gfycat.API, error) {
		t.Fatal("open should not build a client")
		return nil, nil
	}
	var opened string
	openURL = func(u string) error {
		opened = u
		return nil
	}

	_, _, err := h.run(t, "open", "happycat")
	require.NoError(t, err)
	assert.Equal(t, "https://gfycat.com/happycat", opened)
}

func TestConfigSetShowPath(t *testing.T) {
	h := newHarness(t, authedConfig)

	_, _, err := h.run(t, "config", "set", "page_delay", "1s")
	require.NoError(t, err)

	_, _, err = h.run(t, "config", "set", "page_delay", "soon")
	require.Error(t, err)

	out, _, err := h.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "page_delay: 1s")
	assert.Contains(t, out, "client_secret: se**et")
	assert.NotContains(t, out, "password: pw")

	out, _, err = h.run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, h.configPath+"\n", out)
}

func TestAuthStatusAndLogout(t *testing.T) {
	h := newHarness(t, authedConfig)

	out, _, err := h.run(t, "auth", "status", "--json")
	require.NoError(t, err)
	var status authStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Authenticated)
	assert.Equal(t, "alice", status.Username)

	_, _, err = h.run(t, "auth", "logout")
	require.NoError(t, err)

	out, _, err = h.run(t, "auth", "status", "--json")
	require.NoError(t, err)
	status = authStatus{}
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.False(t, status.Authenticated)
	assert.Equal(t, "", status.Username)
}

// fakeGfycat serves the token endpoint and a single gfycat.
func fakeGfycat(t *testing.T, grants *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		n := grants.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token_type":               "bearer",
			"access_token":             "access-" + string(rune('0'+n)),
			"expires_in":               3600,
			"refresh_token":            "refresh",
			"refresh_token_expires_in": 86400,
		})
	})
	mux.HandleFunc("GET /gfycats/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer access-") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"gfyItem": map[string]any{"gfyName": r.PathValue("id"), "title": "served"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthLoginAndTokenCache(t *testing.T) {
	h := newHarness(t, "")
	var grants atomic.Int32
	srv := fakeGfycat(t, &grants)
	t.Setenv(config.EnvAPIURL, srv.URL)
	newClient = defaultClient

	_, _, err := h.run(t, "auth", "login",
		"--client-id", "cid", "--client-secret", "secret", "--username", "alice", "--password", "pw")
	require.NoError(t, err)
	assert.Equal(t, int32(1), grants.Load())

	saved, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, saved.Tokens)
	assert.Equal(t, "access-1", saved.Tokens.Access.Token)

	// The cached token is reused by later commands.
	out, _, err := h.run(t, "info", "happycat", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "served"`)
	assert.Equal(t, int32(1), grants.Load())
}

func TestMetricsFileWrittenAfterRun(t *testing.T) {
	h := newHarness(t, authedConfig)
	var grants atomic.Int32
	srv := fakeGfycat(t, &grants)
	t.Setenv(config.EnvAPIURL, srv.URL)
	newClient = defaultClient

	path := filepath.Join(t.TempDir(), "gfy.prom")
	_, _, err := h.run(t, "info", "happycat", "--metrics-file", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `gfycat_client_requests_total{method="GET",path="/gfycats/:id",status="200"} 1`)
	assert.Contains(t, string(data), `gfycat_client_token_grants_total{grant="password",status="200"} 1`)
}

func TestMetricsPushedToGateway(t *testing.T) {
	var (
		pushes atomic.Int32
		path   atomic.Value
	)
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushes.Add(1)
		path.Store(r.Method + " " + r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	h := newHarness(t, authedConfig+"metrics:\n  pushgateway: "+gateway.URL+"\n")
	var grants atomic.Int32
	srv := fakeGfycat(t, &grants)
	t.Setenv(config.EnvAPIURL, srv.URL)
	newClient = defaultClient

	_, _, err := h.run(t, "info", "happycat")
	require.NoError(t, err)
	assert.Equal(t, int32(1), pushes.Load())
	assert.Equal(t, "PUT /metrics/job/gfy", path.Load())
}

func TestMetricsExportFailureIsLogged(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer gateway.Close()

	h := newHarness(t, authedConfig+"metrics:\n  pushgateway: "+gateway.URL+"\n")
	var grants atomic.Int32
	srv := fakeGfycat(t, &grants)
	t.Setenv(config.EnvAPIURL, srv.URL)
	newClient = defaultClient

	_, errOut, err := h.run(t, "info", "happycat")
	require.NoError(t, err)
	assert.Contains(t, errOut, "failed to export metrics")
}

func TestAuthLoginRequiresPassword(t *testing.T) {
	h := newHarness(t, "client_id: cid\nclient_secret: s\n")
	_, _, err := h.run(t, "auth", "login", "--username", "alice")
	assert.EqualError(t, err, "--username and --password are required")
}
