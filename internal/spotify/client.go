package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultAccountsURL = "https://accounts.spotify.com"
	defaultAPIURL      = "https://api.spotify.com"

	// refresh slightly early so an in-flight request never carries an expired token
	tokenExpirySkew = 30 * time.Second
)

// Track is the subset of catalog metadata stored alongside a song.
type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	PreviewURL string `json:"preview_url,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	DurationMS int    `json:"duration_ms"`
}

// Playlist is one entry of the featured-playlists browse endpoint.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	TrackCount  int    `json:"track_count"`
}

// Client looks up catalog metadata in the external streaming service.
type Client interface {
	SearchTrack(ctx context.Context, query string) (*Track, error)
	FeaturedPlaylists(ctx context.Context) ([]Playlist, error)
}

// HTTPClient authenticates with the client-credentials flow. The access token
// is cached and refreshed lazily when expired; concurrent callers share one token.
type HTTPClient struct {
	clientID     string
	clientSecret string
	accountsURL  string
	apiURL       string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

type Option func(*HTTPClient)

// WithBaseURLs overrides the accounts and API endpoints, used by tests.
func WithBaseURLs(accountsURL, apiURL string) Option {
	return func(c *HTTPClient) {
		c.accountsURL = accountsURL
		c.apiURL = apiURL
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

func NewHTTPClient(clientID, clientSecret string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		accountsURL:  defaultAccountsURL,
		apiURL:       defaultAPIURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) SearchTrack(ctx context.Context, query string) (*Track, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1/search?type=track&limit=1&q=%s", c.apiURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("spotify search returned %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Tracks struct {
			Items []struct {
				ID      string `json:"id"`
				Name    string `json:"name"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
				Album struct {
					Name   string `json:"name"`
					Images []struct {
						URL string `json:"url"`
					} `json:"images"`
				} `json:"album"`
				PreviewURL string `json:"preview_url"`
				DurationMS int    `json:"duration_ms"`
			} `json:"items"`
		} `json:"tracks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode spotify response: %w", err)
	}

	if len(payload.Tracks.Items) == 0 {
		return nil, nil
	}

	item := payload.Tracks.Items[0]
	track := &Track{
		ID:         item.ID,
		Name:       item.Name,
		Album:      item.Album.Name,
		PreviewURL: item.PreviewURL,
		DurationMS: item.DurationMS,
	}
	if len(item.Artists) > 0 {
		track.Artist = item.Artists[0].Name
	}
	if len(item.Album.Images) > 0 {
		track.ImageURL = item.Album.Images[0].URL
	}
	return track, nil
}

func (c *HTTPClient) FeaturedPlaylists(ctx context.Context) ([]Playlist, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiURL+"/v1/browse/featured-playlists", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify browse failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("spotify browse returned %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Playlists struct {
			Items []struct {
				ID          string `json:"id"`
				Name        string `json:"name"`
				Description string `json:"description"`
				Images      []struct {
					URL string `json:"url"`
				} `json:"images"`
				Tracks struct {
					Total int `json:"total"`
				} `json:"tracks"`
			} `json:"items"`
		} `json:"playlists"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode spotify response: %w", err)
	}

	playlists := make([]Playlist, 0, len(payload.Playlists.Items))
	for _, item := range payload.Playlists.Items {
		p := Playlist{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			TrackCount:  item.Tracks.Total,
		}
		if len(item.Images) > 0 {
			p.ImageURL = item.Images[0].URL
		}
		playlists = append(playlists, p)
	}
	return playlists, nil
}

// token returns the cached access token, fetching a fresh one when missing or
// within the expiry skew.
func (c *HTTPClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.expiresAt.Add(-tokenExpirySkew)) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.accountsURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("spotify token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("spotify token request returned %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("spotify token response missing access_token")
	}

	c.accessToken = payload.AccessToken
	c.expiresAt = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// Disabled satisfies Client when no credentials are configured.
type Disabled struct{}

func (Disabled) SearchTrack(ctx context.Context, query string) (*Track, error) {
	return nil, nil
}

func (Disabled) FeaturedPlaylists(ctx context.Context) ([]Playlist, error) {
	return []Playlist{}, nil
}
