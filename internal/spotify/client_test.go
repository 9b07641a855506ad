package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServers(t *testing.T, expiresIn int, tokenCalls *atomic.Int32) (*httptest.Server, *httptest.Server) {
	t.Helper()

	accounts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/token", r.URL.Path)
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "client-id", user)

		n := tokenCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"token-%d","expires_in":%d}`, n, expiresIn)
	}))
	t.Cleanup(accounts.Close)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/search", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"tracks":{"items":[{
			"id":"track-1",
			"name":"Midnight Static",
			"artists":[{"name":"The Wires"}],
			"album":{"name":"Afterglow","images":[{"url":"https://img.example/cover.jpg"}]},
			"preview_url":"https://audio.example/preview.mp3",
			"duration_ms":214000
		}]}}`)
	}))
	t.Cleanup(api.Close)

	return accounts, api
}

func TestSearchTrack(t *testing.T) {
	var tokenCalls atomic.Int32
	accounts, api := newTestServers(t, 3600, &tokenCalls)

	client := NewHTTPClient("client-id", "client-secret",
		WithBaseURLs(accounts.URL, api.URL))

	track, err := client.SearchTrack(context.Background(), "Midnight Static")
	require.NoError(t, err)
	require.NotNil(t, track)
	assert.Equal(t, "track-1", track.ID)
	assert.Equal(t, "The Wires", track.Artist)
	assert.Equal(t, "Afterglow", track.Album)
	assert.Equal(t, 214000, track.DurationMS)
	assert.Equal(t, "https://img.example/cover.jpg", track.ImageURL)
}

func TestTokenReuse(t *testing.T) {
	var tokenCalls atomic.Int32
	accounts, api := newTestServers(t, 3600, &tokenCalls)

	client := NewHTTPClient("client-id", "client-secret",
		WithBaseURLs(accounts.URL, api.URL))

	for i := 0; i < 3; i++ {
		_, err := client.SearchTrack(context.Background(), "query")
		require.NoError(t, err)
	}

	// One token fetch serves all requests while it is still valid.
	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestTokenRefreshWhenExpired(t *testing.T) {
	var tokenCalls atomic.Int32
	// expires_in 1s is inside the expiry skew, so every call refetches.
	accounts, api := newTestServers(t, 1, &tokenCalls)

	client := NewHTTPClient("client-id", "client-secret",
		WithBaseURLs(accounts.URL, api.URL))

	_, err := client.SearchTrack(context.Background(), "query")
	require.NoError(t, err)
	_, err = client.SearchTrack(context.Background(), "query")
	require.NoError(t, err)

	assert.Equal(t, int32(2), tokenCalls.Load())
}

func TestFeaturedPlaylists(t *testing.T) {
	accounts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"t","expires_in":3600}`)
	}))
	defer accounts.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/browse/featured-playlists", r.URL.Path)
		fmt.Fprint(w, `{"playlists":{"items":[{
			"id":"pl-1",
			"name":"Fresh Finds",
			"description":"New releases",
			"images":[{"url":"https://img.example/pl.jpg"}],
			"tracks":{"total":50}
		}]}}`)
	}))
	defer api.Close()

	client := NewHTTPClient("id", "secret", WithBaseURLs(accounts.URL, api.URL))

	playlists, err := client.FeaturedPlaylists(context.Background())
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, "pl-1", playlists[0].ID)
	assert.Equal(t, "Fresh Finds", playlists[0].Name)
	assert.Equal(t, 50, playlists[0].TrackCount)
	assert.Equal(t, "https://img.example/pl.jpg", playlists[0].ImageURL)
}

func TestSearchTrack_NoResults(t *testing.T) {
	accounts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"t","expires_in":3600}`)
	}))
	defer accounts.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tracks":{"items":[]}}`)
	}))
	defer api.Close()

	client := NewHTTPClient("id", "secret", WithBaseURLs(accounts.URL, api.URL))

	track, err := client.SearchTrack(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Nil(t, track)
}
