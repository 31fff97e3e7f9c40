// Package genius adapts the Genius lyrics API to the LyricsProvider port.
// Finding lyrics is a three-step flow: search for the song, pick the best
// match, then scrape the lyric text from the song's public page. Genius
// does not serve lyric bodies through its API.
package genius

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/lyricmood/internal/core/domain"
	"github.com/ewilliams-labs/lyricmood/internal/core/ports"
)

const (
	defaultAPIURL  = "https://api.genius.com"
	defaultSiteURL = "https://genius.com"

	requestTimeout = 15 * time.Second
	searchPerPage  = 10
)

// Client is an HTTP client for the Genius adapter.
type Client struct {
	httpClient *http.Client
	apiURL     string
	siteURL    string
}

// compile-time interface assertion
var _ ports.LyricsProvider = (*Client)(nil)

// NewClient constructs a Genius client against explicit endpoints.
// Tests use this to point at httptest servers.
func NewClient(httpClient *http.Client, apiURL string, siteURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		apiURL:     strings.TrimRight(apiURL, "/"),
		siteURL:    strings.TrimRight(siteURL, "/"),
	}
}

// NewTokenClient constructs a production client authenticated with a
// Genius access token.
func NewTokenClient(accessToken string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = requestTimeout
	return NewClient(httpClient, defaultAPIURL, defaultSiteURL)
}

// FetchLyrics implements ports.LyricsProvider. A song that cannot be
// matched confidently, or whose page carries no lyric text, comes back as
// SourceFound=false with a nil error.
func (c *Client) FetchLyrics(ctx context.Context, query domain.SongQuery) (domain.LyricText, error) {
	hits, err := c.search(ctx, query)
	if err != nil {
		return domain.LyricText{}, err
	}

	hit, ok := bestHit(query.Title, query.Artist, hits)
	if !ok {
		log.Printf("DEBUG genius adapter: no confident match for title %q artist %q (%d hits)", query.Title, query.Artist, len(hits))
		return domain.LyricText{SourceFound: false}, nil
	}

	pagePath, pageURL, err := c.songPage(ctx, hit.Result.ID)
	if err != nil {
		return domain.LyricText{}, err
	}
	if pagePath == "" {
		pagePath = hit.Result.Path
		pageURL = hit.Result.URL
	}

	raw, err := c.scrapePage(ctx, pagePath)
	if err != nil {
		return domain.LyricText{}, err
	}
	if raw == "" {
		return domain.LyricText{SourceFound: false}, nil
	}

	return domain.LyricText{Raw: raw, SourceFound: true, SourceURL: pageURL}, nil
}

func (c *Client) search(ctx context.Context, query domain.SongQuery) ([]searchHit, error) {
	searchURL, err := url.Parse(c.apiURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("genius adapter: invalid search url: %w", err)
	}

	params := searchURL.Query()
	params.Set("q", query.Title+" "+query.Artist)
	params.Set("per_page", fmt.Sprint(searchPerPage))
	searchURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("genius adapter: build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("genius adapter: decode search response: %w", ports.ErrMalformedResponse)
	}

	return parsed.Response.Hits, nil
}

// songPage resolves the canonical lyrics page for a song id. Genius search
// hits already carry a path, but the /songs endpoint is authoritative when
// a song has been moved.
func (c *Client) songPage(ctx context.Context, songID int64) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/songs/%d", c.apiURL, songID), nil)
	if err != nil {
		return "", "", fmt.Errorf("genius adapter: build song request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", classifyStatus(resp)
	}

	var parsed songResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", "", fmt.Errorf("genius adapter: decode song response: %w", ports.ErrMalformedResponse)
	}

	return parsed.Response.Song.Path, parsed.Response.Song.URL, nil
}

func (c *Client) scrapePage(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.siteURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("genius adapter: build page request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp)
	}

	lyrics, err := extractLyrics(resp.Body)
	if err != nil {
		return "", fmt.Errorf("genius adapter: parse lyrics page: %w", ports.ErrMalformedResponse)
	}

	return lyrics, nil
}
