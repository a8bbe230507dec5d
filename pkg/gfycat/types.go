package gfycat

import (
	"encoding/json"
	"io"
	"time"
)

// NsfwCode is the adult content rating of a gfycat or collection.
type NsfwCode int

const (
	NsfwClean                NsfwCode = 0
	NsfwAdult                NsfwCode = 1
	NsfwPotentiallyOffensive NsfwCode = 3
)

// PublishedStatus is 1 for public and 0 for private content.
type PublishedStatus int

const (
	Unpublished PublishedStatus = 0
	Published   PublishedStatus = 1
)

// ErrorMessage is the error payload the API attaches to failed responses.
// The API sends it either as a plain string or as a {code, description}
// object.
type ErrorMessage struct {
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

func (e *ErrorMessage) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Description = s
		return nil
	}
	type plain ErrorMessage
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = ErrorMessage(p)
	return nil
}

func (e *ErrorMessage) String() string {
	if e == nil {
		return ""
	}
	if e.Code == "" {
		return e.Description
	}
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// ResponseMeta is embedded in every response type. Responses with a 4xx
// status are returned to the caller rather than as errors; StatusCode and
// ErrorMessage describe what the server said.
type ResponseMeta struct {
	StatusCode   int           `json:"-"`
	ErrorMessage *ErrorMessage `json:"errorMessage,omitempty"`
}

// OK reports whether the response status was below 400.
func (m ResponseMeta) OK() bool {
	return m.StatusCode > 0 && m.StatusCode < 400
}

func (m *ResponseMeta) setStatus(code int) {
	m.StatusCode = code
}

func (m *ResponseMeta) setError(msg string) {
	if m.ErrorMessage == nil && msg != "" {
		m.ErrorMessage = &ErrorMessage{Description: msg}
	}
}

type statusSetter interface {
	setStatus(code int)
	setError(msg string)
}

type ContentURL struct {
	URL    string `json:"url"`
	Size   int64  `json:"size"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ContentURLs struct {
	Gif100px     *ContentURL `json:"100pxGif,omitempty"`
	LargeGif     *ContentURL `json:"largeGif,omitempty"`
	Max1mbGif    *ContentURL `json:"max1mbGif,omitempty"`
	Max2mbGif    *ContentURL `json:"max2mbGif,omitempty"`
	Max5mbGif    *ContentURL `json:"max5mbGif,omitempty"`
	Mobile       *ContentURL `json:"mobile,omitempty"`
	MobilePoster *ContentURL `json:"mobilePoster,omitempty"`
	MP4          *ContentURL `json:"mp4,omitempty"`
	Webm         *ContentURL `json:"webm,omitempty"`
	Webp         *ContentURL `json:"webp,omitempty"`
}

// UserData is the uploader summary embedded in a Gfycat.
type UserData struct {
	Followers    int    `json:"followers"`
	Following    int    `json:"following"`
	Subscription int    `json:"subscription"`
	Username     string `json:"username"`
	Verified     bool   `json:"verified"`
	Views        int64  `json:"views"`
}

type Gfycat struct {
	AvgColor           string      `json:"avgColor"`
	ContentURLs        ContentURLs `json:"content_urls"`
	CreateDate         int64       `json:"createDate"`
	Description        string      `json:"description"`
	FrameRate          float64     `json:"frameRate"`
	Gatekeeper         int         `json:"gatekeeper"`
	GfyID              string      `json:"gfyId"`
	GfyName            string      `json:"gfyName"`
	GfyNumber          json.Number `json:"gfyNumber"`
	GfySlug            string      `json:"gfySlug"`
	Gif100px           string      `json:"gif100px"`
	GifURL             string      `json:"gifUrl"`
	HasAudio           bool        `json:"hasAudio"`
	HasTransparency    bool        `json:"hasTransparency"`
	Height             int         `json:"height"`
	LanguageCategories []string    `json:"languageCategories"`
	Likes              json.Number `json:"likes"`
	Max1mbGif          string      `json:"max1mbGif"`
	Max2mbGif          string      `json:"max2mbGif"`
	Max5mbGif          string      `json:"max5mbGif"`
	MD5                string      `json:"md5"`
	MiniPosterURL      string      `json:"miniPosterUrl"`
	MiniURL            string      `json:"miniUrl"`
	MobilePosterURL    string      `json:"mobilePosterUrl"`
	MobileURL          string      `json:"mobileUrl"`
	MP4Size            int64       `json:"mp4Size"`
	MP4URL             string      `json:"mp4Url"`
	Nsfw               json.Number `json:"nsfw"`
	NumFrames          float64     `json:"numFrames"`
	PosterURL          string      `json:"posterUrl"`
	Published          int         `json:"published"`
	Tags               []string    `json:"tags"`
	Thumb100PosterURL  string      `json:"thumb100PosterUrl"`
	Title              string      `json:"title"`
	UserData           *UserData   `json:"userData,omitempty"`
	Username           string      `json:"username"`
	Views              int64       `json:"views"`
	WebmSize           int64       `json:"webmSize"`
	WebmURL            string      `json:"webmUrl"`
	WebpURL            string      `json:"webpUrl"`
	Width              int         `json:"width"`
	IsSticker          bool        `json:"isSticker"`
}

// Created returns CreateDate as a time.
func (g Gfycat) Created() time.Time {
	return time.Unix(g.CreateDate, 0)
}

// PageURL is the public gfycat.com page of the gfycat.
func (g Gfycat) PageURL() string {
	name := g.GfyName
	if name == "" {
		name = g.GfyID
	}
	return "https://gfycat.com/" + name
}

// User is the public profile of a Gfycat account.
type User struct {
	ResponseMeta
	UserID                    string `json:"userid"`
	Username                  string `json:"username"`
	Name                      string `json:"name"`
	Description               string `json:"description"`
	ProfileURL                string `json:"profileUrl"`
	URL                       string `json:"url"`
	ProfileImageURL           string `json:"profileImageUrl"`
	CreateDate                int64  `json:"createDate"`
	Views                     int64  `json:"views"`
	Followers                 int    `json:"followers"`
	Following                 int    `json:"following"`
	Verified                  bool   `json:"verified"`
	IframeProfileImageVisible bool   `json:"iframeProfileImageVisible"`
	PublishedGfycats          int    `json:"publishedGfycats"`
	PublishedAlbums           int    `json:"publishedAlbums"`
}

// AuthenticatedUser is the profile returned by /me.
type AuthenticatedUser struct {
	User
	Email           string   `json:"email"`
	EmailVerified   bool     `json:"emailVerified"`
	UploadNotices   bool     `json:"uploadNotices"`
	DomainWhitelist []string `json:"domainWhitelist"`
	GeoWhitelist    []string `json:"geoWhitelist"`
	TotalGfycats    int      `json:"totalGfycats"`
	TotalBookmarks  int      `json:"totalBookmarks"`
	TotalAlbums     int      `json:"totalAlbums"`
}

// UserExistence is the result of DoesUserExist.
type UserExistence int

const (
	UserInvalid UserExistence = iota
	UserExists
	UserNotFound
)

func (u UserExistence) String() string {
	switch u {
	case UserExists:
		return "USER_EXISTS"
	case UserNotFound:
		return "NOT_FOUND"
	default:
		return "INVALID_USERNAME"
	}
}

// PatchOperation is one entry of a PATCH /me request.
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// UserDetailsUpdate describes a PATCH /me call. Nil pointers are left
// untouched; the Remove flags clear the corresponding field.
type UserDetailsUpdate struct {
	Name               *string
	Email              *string
	Password           *string
	ProfileURL         *string
	Description        *string
	UploadNotices      *string
	DomainWhitelist    []string
	GeoWhitelist       []string
	IframeImageVisible *bool

	RemoveName        bool
	RemoveEmail       bool
	RemoveProfileURL  bool
	RemoveDescription bool
}

// AccountInfoUpdate adds or removes the public account fields.
type AccountInfoUpdate struct {
	Name        *string
	Description *string
	ProfileURL  *string

	RemoveName        bool
	RemoveDescription bool
	RemoveProfileURL  bool
}

// FollowedUser is an entry of the following or followers lists.
type FollowedUser struct {
	UserID          string `json:"userid"`
	Username        string `json:"username"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profileImageUrl"`
	Verified        bool   `json:"verified"`
	Followers       int    `json:"followers"`
	Following       int    `json:"following"`
}

type FollowsResponse struct {
	ResponseMeta
	Follows    []FollowedUser `json:"follows"`
	Cursor     string         `json:"cursor"`
	TotalCount int            `json:"totalCount"`
}

type FollowersResponse struct {
	ResponseMeta
	Followers  []FollowedUser `json:"followers"`
	Cursor     string         `json:"cursor"`
	TotalCount int            `json:"totalCount"`
}

// GfycatsResponse is a single page of gfycats.
type GfycatsResponse struct {
	ResponseMeta
	Gfycats    []Gfycat `json:"gfycats"`
	Cursor     string   `json:"cursor"`
	Count      int      `json:"count"`
	TotalCount int      `json:"totalCount"`
	Status     string   `json:"status,omitempty"`
}

type GfycatResponse struct {
	ResponseMeta
	GfyItem Gfycat `json:"gfyItem"`
}

type SearchResponse struct {
	ResponseMeta
	Gfycats []Gfycat `json:"gfycats"`
	Related []Gfycat `json:"related"`
	Cursor  string   `json:"cursor"`
	Found   int      `json:"found"`
}

// SearchResult is the accumulated result of SearchAllMyGfycats.
type SearchResult struct {
	Gfycats []Gfycat
	Related []Gfycat
	Found   int
}

// LikesResult is the accumulated result of GetAllMyLikes. ErrorMessage is set
// when a page failed; Gfycats then holds the pages fetched before it.
type LikesResult struct {
	Gfycats      []Gfycat
	ErrorMessage *ErrorMessage
}

// TaggedGfycatsResponse is a page of gfycats grouped under a tag, as returned
// by the trending and reaction endpoints.
type TaggedGfycatsResponse struct {
	ResponseMeta
	Tag     string   `json:"tag"`
	Gfycats []Gfycat `json:"gfycats"`
	Cursor  string   `json:"cursor"`
	Digest  string   `json:"digest,omitempty"`
}

type PopulatedTagsResponse struct {
	ResponseMeta
	Tags   []TaggedGfycatsResponse `json:"tags"`
	Cursor string                  `json:"cursor"`
}

type Collection struct {
	ContentCount  int             `json:"contentCount"`
	CreateDate    int64           `json:"createDate"`
	FolderID      string          `json:"folderId"`
	FolderName    string          `json:"folderName"`
	FolderSubType string          `json:"folderSubType"`
	LinkText      string          `json:"linkText"`
	Nsfw          NsfwCode        `json:"nsfw"`
	ParentID      string          `json:"parentId"`
	PosterGfycat  *Gfycat         `json:"posterGfycat,omitempty"`
	Published     PublishedStatus `json:"published"`
	UserID        string          `json:"userId"`
	Description   string          `json:"description,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
}

// BookmarkCollection is the built-in "saved" collection.
type BookmarkCollection struct {
	ContentCount int    `json:"contentCount"`
	FolderID     string `json:"folderId"`
	FolderName   string `json:"folderName"`
	UserID       string `json:"userId"`
}

type CollectionsResponse struct {
	ResponseMeta
	Count              int                 `json:"count"`
	Cursor             string              `json:"cursor"`
	BookmarkCollection *BookmarkCollection `json:"gfyBookmarkCollection,omitempty"`
	Collections        []Collection        `json:"gfyCollections"`
	Status             string              `json:"status"`
	TotalCount         int                 `json:"totalCount"`
}

type CollectionResponse struct {
	ResponseMeta
	Collection Collection `json:"gfyCollection"`
	Status     string     `json:"status"`
}

// StatusResponse is the {status} body of collection content mutations.
type StatusResponse struct {
	ResponseMeta
	Status string `json:"status"`
}

type CollectionInput struct {
	FolderName  string          `json:"folderName"`
	Tags        []string        `json:"tags,omitempty"`
	Description string          `json:"description,omitempty"`
	Published   PublishedStatus `json:"published"`
	GfyIDs      []string        `json:"gfyIds,omitempty"`
}

type CollectionUpdate struct {
	FolderName string           `json:"folderName,omitempty"`
	Tags       []string         `json:"tags,omitempty"`
	Published  *PublishedStatus `json:"published,omitempty"`
}

// PageOptions selects a page of a list endpoint. A zero Count means the
// default page size of 30.
type PageOptions struct {
	Count  int
	Cursor string
}

// Caption is a text overlay burned into an uploaded gfycat.
type Caption struct {
	Text               string   `json:"text"`
	StartSeconds       *float64 `json:"startSeconds,omitempty"`
	Duration           *float64 `json:"duration,omitempty"`
	FontHeight         *int     `json:"fontHeight,omitempty"`
	X                  *int     `json:"x,omitempty"`
	Y                  *int     `json:"y,omitempty"`
	FontHeightRelative *float64 `json:"fontHeightRelative,omitempty"`
	XRelative          *float64 `json:"xRelative,omitempty"`
	YRelative          *float64 `json:"yRelative,omitempty"`
}

type Cut struct {
	Duration float64 `json:"duration"`
	Start    float64 `json:"start"`
}

type Crop struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// TaskState is the encoding state reported by the fetch status endpoint.
type TaskState string

const (
	TaskEncoding TaskState = "encoding"
	TaskComplete TaskState = "complete"
	TaskNotFound TaskState = "NotFoundo"
	TaskError    TaskState = "error"
)

// GfycatStatus is the response of GET /gfycats/fetch/status/{name}.
type GfycatStatus struct {
	ResponseMeta
	Task     TaskState `json:"task"`
	Time     int       `json:"time,omitempty"`
	Progress string    `json:"progress,omitempty"`
	GfyName  string    `json:"gfyname,omitempty"`
	// The API spells this key with a doubled "e".
	TaskError *ErrorMessage `json:"errorMeessage,omitempty"`
}

// Terminal reports whether polling should stop.
func (s *GfycatStatus) Terminal() bool {
	return s.Task == TaskComplete || s.Task == TaskError
}

type createGfycatRequest struct {
	FetchURL     string    `json:"fetchUrl,omitempty"`
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	NoMd5        string    `json:"noMd5,omitempty"`
	Private      *bool     `json:"private,omitempty"`
	Nsfw         *NsfwCode `json:"nsfw,omitempty"`
	KeepAudio    *bool     `json:"keepAudio,omitempty"`
	FetchSeconds int       `json:"fetchSeconds,omitempty"`
	FetchMinutes int       `json:"fetchMinutes,omitempty"`
	FetchHours   int       `json:"fetchHours,omitempty"`
	Captions     []Caption `json:"captions,omitempty"`
	Cut          *Cut      `json:"cut,omitempty"`
	Crop         *Crop     `json:"crop,omitempty"`
}

// URLUploadResponse is the body of POST /gfycats. Follow an import by
// polling GfyName with GetGfycatStatus.
type URLUploadResponse struct {
	ResponseMeta
	IsOk       bool   `json:"isOk"`
	GfyName    string `json:"gfyname"`
	Secret     string `json:"secret,omitempty"`
	UploadType string `json:"uploadType,omitempty"`
}

// UploadOptions describes a local file upload.
type UploadOptions struct {
	Path        string
	Title       string
	Description string
	Tags        []string
	Nsfw        NsfwCode
	// Private unpublishes the gfycat once encoding completes.
	Private bool
	// NoAudio strips the audio track.
	NoAudio  bool
	Captions []Caption
	Cut      *Cut
	Crop     *Crop
	// Progress, when set, receives every byte sent to the file drop host.
	Progress io.Writer
}

// UploadFromURLOptions describes an import of a remote video.
type UploadFromURLOptions struct {
	URL          string
	Title        string
	Description  string
	Tags         []string
	Nsfw         *NsfwCode
	FetchSeconds int
	FetchMinutes int
	FetchHours   int
	Captions     []Caption
	Cut          *Cut
	Crop         *Crop
}
