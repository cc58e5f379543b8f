package phoneme

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrNotFound   = errors.New("phoneme: not found")
	ErrEmptyQuery = errors.New("phoneme: empty query")
)

// Cache keeps the raw bytes of documents that were fetched successfully.
// *store.Store implements it.
type Cache interface {
	GetPhoneme(ctx context.Context, phoneme string) ([]byte, error)
	PutPhoneme(ctx context.Context, phoneme string, raw []byte) error
}

// Result is a fetched document. Cached is set when the API could not be
// reached and the document came from the local cache.
type Result struct {
	Document *Document
	Cached   bool
}

// Client talks to the phoneme API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	log        zerolog.Logger
}

// New creates a client. cache may be nil.
func New(baseURL string, timeout time.Duration, cache Cache, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		log:        log.With().Str("component", "phoneme").Logger(),
	}
}

// Fetch returns the document for query. A missing phoneme is ErrNotFound;
// when the API is unreachable a cached copy is used if there is one.
func (c *Client) Fetch(ctx context.Context, query string) (Result, error) {
	key := Normalize(query)
	if key == "" {
		return Result{}, ErrEmptyQuery
	}

	raw, err := c.get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return Result{}, err
	}
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return c.fromCache(ctx, key, err)
	}

	doc, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return Result{}, fmt.Errorf("phoneme %q: %w", key, err)
	}
	if c.cache != nil {
		if err := c.cache.PutPhoneme(ctx, key, raw); err != nil {
			c.log.Warn().Err(err).Str("phoneme", key).Msg("failed to cache document")
		}
	}
	return Result{Document: doc}, nil
}

func (c *Client) get(ctx context.Context, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/phonemes/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("phoneme request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("phoneme request returned status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read phoneme response: %w", err)
	}
	return raw, nil
}

func (c *Client) fromCache(ctx context.Context, key string, cause error) (Result, error) {
	if c.cache == nil {
		return Result{}, cause
	}
	raw, err := c.cache.GetPhoneme(ctx, key)
	if err != nil {
		c.log.Debug().Err(err).Str("phoneme", key).Msg("no cached copy")
		return Result{}, cause
	}
	doc, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return Result{}, fmt.Errorf("cached phoneme %q: %w", key, err)
	}
	c.log.Warn().Err(cause).Str("phoneme", key).Msg("api unreachable, using cached document")
	return Result{Document: doc, Cached: true}, nil
}
