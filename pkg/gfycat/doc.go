// Package gfycat is a client for the Gfycat REST API.
//
// A Client authenticates with the password grant, refreshes its access token
// when the refresh token is still valid, and attaches the bearer token to
// every request except the token endpoint and the file drop host. List
// endpoints are cursor paginated; the GetAll* helpers walk every page.
//
// Uploading a local file is a three step workflow: register an empty gfycat,
// PUT the bytes to the file drop host, and, for private uploads, poll the
// encoding status in the background until the gfycat can be unpublished.
//
//	c, err := gfycat.New(gfycat.Credentials{
//		ClientID:     "id",
//		ClientSecret: "secret",
//		Username:     "me",
//		Password:     "pw",
//	})
//	if err != nil {
//		return err
//	}
//	up, err := c.UploadFromFile(ctx, gfycat.UploadOptions{Path: "clip.mp4", Private: true})
package gfycat
